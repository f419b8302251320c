package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/sirupsen/logrus"

	"ibuc_backend/internals/configs"
	"ibuc_backend/internals/middlewares/logger"
)

// SetupMiddlewares memasang middleware global sesuai urutan: recover paling luar.
func SetupMiddlewares(app *fiber.App, cfg configs.AppConfig, log *logrus.Logger) {
	app.Use(RecoveryMiddleware(log))
	app.Use(RequestContext(cfg.RequestTimeout, log))
	app.Use(logger.LoggerMiddleware(log))
	app.Use(CorsMiddleware(cfg.CorsOrigins))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(GlobalRateLimiter(cfg.RateLimit))
}
