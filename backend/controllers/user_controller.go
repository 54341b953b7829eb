package controllers

import (
	"log"

	"crowdfund/backend/models"
	"crowdfund/backend/services"
	"crowdfund/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	Accounts *services.UserService
	Logger   *log.Logger
}

func NewUserController(accounts *services.UserService, logger *log.Logger) *UserController {
	return &UserController{Accounts: accounts, Logger: logger}
}

type UpdateRoleRequest struct {
	Role models.Role `json:"role" enums:"Client,Moderator,Admin"`
}

type BanRequest struct {
	Banned bool `json:"banned"`
}

// Me godoc
// @Summary Get the authenticated user's profile
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/me [get]
func (uc *UserController) Me(c *fiber.Ctx) error {
	caller, err := callerOf(c)
	if err != nil {
		return utils.Fail(c, uc.Logger, err)
	}
	user, err := uc.Accounts.Me(c.UserContext(), caller)
	if err != nil {
		return utils.Fail(c, uc.Logger, err)
	}
	return c.JSON(user)
}

// SetRole godoc
// @Summary Change a user's role
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param input body UpdateRoleRequest true "New role"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/role/{id} [patch]
func (uc *UserController) SetRole(c *fiber.Ctx) error {
	caller, err := callerOf(c)
	if err != nil {
		return utils.Fail(c, uc.Logger, err)
	}
	userID, err := parseID(c.Params("id"))
	if err != nil {
		return utils.Fail(c, uc.Logger, err)
	}
	var input UpdateRoleRequest
	if err := parseBody(c, &input); err != nil {
		return utils.Fail(c, uc.Logger, err)
	}

	if err := uc.Accounts.SetRole(c.UserContext(), caller, userID, input.Role); err != nil {
		return utils.Fail(c, uc.Logger, err)
	}
	return utils.OK(c)
}

func (uc *UserController) SetBanned(c *fiber.Ctx) error {
	caller, err := callerOf(c)
	if err != nil {
		return utils.Fail(c, uc.Logger, err)
	}
	userID, err := parseID(c.Params("id"))
	if err != nil {
		return utils.Fail(c, uc.Logger, err)
	}
	var input BanRequest
	if err := parseBody(c, &input); err != nil {
		return utils.Fail(c, uc.Logger, err)
	}

	if err := uc.Accounts.SetBanned(c.UserContext(), caller, userID, input.Banned); err != nil {
		return utils.Fail(c, uc.Logger, err)
	}
	return utils.OK(c)
}
