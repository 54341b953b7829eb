package middleware

import (
	"errors"
	"log"

	"crowdfund/backend/config"
	"crowdfund/backend/models"
	"crowdfund/backend/storage"
	"crowdfund/backend/utils"

	"github.com/gofiber/fiber/v2"
)

const userKey = "user"

// AuthMiddleware resolves the token's user and stores it in Locals.
// Banned users are turned away here so no handler needs to check.
func AuthMiddleware(cfg *config.Config, users storage.UserStore, logger *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return utils.Fail(c, logger, err)
		}

		user, err := users.FindByID(c.UserContext(), userID)
		if errors.Is(err, models.ErrUserNotFound) {
			return utils.Fail(c, logger, models.ErrUnauthorized)
		}
		if err != nil {
			return utils.Fail(c, logger, err)
		}
		if user.IsBanned {
			return utils.Fail(c, logger, models.ErrUserBanned)
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// RoleMiddleware admits only the listed roles. It must run after AuthMiddleware.
func RoleMiddleware(logger *log.Logger, roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return utils.Fail(c, logger, models.ErrUnauthorized)
		}
		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}
		return utils.Fail(c, logger, models.ErrNotEnoughAccess)
	}
}

func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(userKey).(*models.User)
	return user, ok && user != nil
}
