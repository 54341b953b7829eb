package controllers

import (
	"strings"

	"crowdfund/backend/middleware"
	"crowdfund/backend/models"
	"crowdfund/backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func callerOf(c *fiber.Ctx) (services.Caller, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return services.Caller{}, models.ErrUnauthorized
	}
	return services.CallerFromUser(user), nil
}

// parseID accepts only canonical uuid ids.
func parseID(raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", models.ErrInvalidID
	}
	return id.String(), nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return models.ErrInvalidBody
	}
	return nil
}
