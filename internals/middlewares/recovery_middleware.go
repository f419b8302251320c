package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

// RecoveryMiddleware menangkap panic, log via logrus, lalu diteruskan ke ErrorHandler (500).
func RecoveryMiddleware(log logrus.FieldLogger) fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			log.WithFields(logrus.Fields{
				"path":  c.Path(),
				"reqid": c.Locals("reqid"),
				"panic": e,
			}).Error("panic recovered")
		},
	})
}
