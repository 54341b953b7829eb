package controllers

import (
	"errors"
	"log"
	"strings"

	"crowdfund/backend/config"
	"crowdfund/backend/models"
	"crowdfund/backend/storage"
	"crowdfund/backend/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type AuthController struct {
	Users  storage.UserStore
	Cfg    *config.Config
	Logger *log.Logger
}

func NewAuthController(users storage.UserStore, cfg *config.Config, logger *log.Logger) *AuthController {
	return &AuthController{Users: users, Cfg: cfg, Logger: logger}
}

type RegisterRequest struct {
	Username  string `json:"username" example:"john_doe"`
	Email     string `json:"email" example:"user@example.com" format:"email"`
	Password  string `json:"password" minLength:"8"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register godoc
// @Summary Register a new user
// @Description Creates a Client account and returns a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "User registration data"
// @Success 201 {object} authResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input RegisterRequest
	if err := parseBody(c, &input); err != nil {
		return utils.Fail(c, ac.Logger, err)
	}
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if input.Username == "" || input.Email == "" || len(input.Password) < 8 {
		return utils.Fail(c, ac.Logger, models.ErrInvalidBody)
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.Fail(c, ac.Logger, err)
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleClient,
		AvatarURL:    input.AvatarURL,
	}
	if err := ac.Users.Create(c.UserContext(), user); err != nil {
		return utils.Fail(c, ac.Logger, err)
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.Fail(c, ac.Logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(authResponse{Token: token, User: user})
}

// Login godoc
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} authResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input LoginRequest
	if err := parseBody(c, &input); err != nil {
		return utils.Fail(c, ac.Logger, err)
	}

	// Find user
	user, err := ac.Users.FindByUsername(c.UserContext(), strings.TrimSpace(input.Username))
	if errors.Is(err, models.ErrUserNotFound) {
		return utils.Fail(c, ac.Logger, models.ErrInvalidCredentials)
	}
	if err != nil {
		return utils.Fail(c, ac.Logger, err)
	}

	// Check password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return utils.Fail(c, ac.Logger, models.ErrInvalidCredentials)
	}
	if user.IsBanned {
		return utils.Fail(c, ac.Logger, models.ErrUserBanned)
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.Fail(c, ac.Logger, err)
	}
	return c.JSON(authResponse{Token: token, User: user})
}
