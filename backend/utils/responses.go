package utils

import (
	"errors"
	"log"

	"crowdfund/backend/models"

	"github.com/gofiber/fiber/v2"
)

const ServerErrorCode = "SERVER_ERROR"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

// StatusFor maps a rejection kind to its HTTP status.
func StatusFor(kind models.RejectionKind) int {
	switch kind {
	case models.KindValidation:
		return fiber.StatusBadRequest
	case models.KindUnauthorized:
		return fiber.StatusUnauthorized
	case models.KindForbidden:
		return fiber.StatusForbidden
	case models.KindConflict:
		return fiber.StatusConflict
	case models.KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// Fail answers with the rejection's code, or logs err and answers SERVER_ERROR.
func Fail(c *fiber.Ctx, logger *log.Logger, err error) error {
	var rejection *models.Rejection
	if errors.As(err, &rejection) {
		return c.Status(StatusFor(rejection.Kind)).JSON(ErrorResponse{Error: rejection.Code})
	}
	logger.Printf("%s %s failed: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: ServerErrorCode})
}

func OK(c *fiber.Ctx) error {
	return c.JSON(SuccessResponse{Success: true})
}

// Created отправляет ответ 201 Created с id новой сущности
func Created(c *fiber.Ctx, id string) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// ErrorHandler keeps errors escaping handlers (unknown routes, oversized bodies, panics) in the same body shape.
func ErrorHandler(logger *log.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
			return c.Status(fe.Code).JSON(ErrorResponse{Error: fe.Message})
		}
		return Fail(c, logger, err)
	}
}
