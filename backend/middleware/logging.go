package middleware

import (
	"log"
	"time"

	"crowdfund/backend/utils"

	"github.com/gofiber/fiber/v2"
)

func LoggingMiddleware(logger *log.Logger, colors bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		// Передаем управление следующему обработчику
		err := c.Next()
		if err != nil {
			// let the app error handler write the final status before it is logged
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
			err = nil
		}

		status := c.Response().StatusCode()
		method := c.Method()
		if colors {
			logger.Printf("%s %s%s%s %s %s%d%s %v",
				c.IP(),
				utils.MethodColor(method), method, utils.Reset,
				c.Path(),
				utils.StatusColor(status), status, utils.Reset,
				time.Since(start),
			)
			return nil
		}
		logger.Printf("%s %s %s %d %v", c.IP(), method, c.Path(), status, time.Since(start))
		return nil
	}
}
