package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tuomas2/serviceform/internals/middlewares/logger"
)

// SetupMiddlewares installs the app-wide middleware chain. Order matters:
// recovery first so everything below it is covered.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}
