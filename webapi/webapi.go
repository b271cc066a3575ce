// Package webapi is the request gateway: it authenticates callers, validates
// request bodies and forwards operations to the accounting services.
package webapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/wagerdome/wagerdome/infra/initializer"
)

// SetupApp builds the Fiber application with all middleware and routes.
func SetupApp(deps *initializer.Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "WagerDome API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return ErrorResponseJSON(c, fiber.StatusInternalServerError, "Internal Server Error", nil)
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        deps.Config.RateLimit.MaxRequests,
		Expiration: deps.Config.RateLimit.Window,
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("WagerDome API is running")
	})

	GameRoutes(app, deps.Wager, deps.Config.Jwt)
	BankRoutes(app, deps.Lending, deps.Config.Jwt)
	StockRoutes(app, deps.Portfolio, deps.Config.Jwt)

	return app
}
