// file: internals/route/index.go
package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"ibuc_backend/internals/configs"
	billingService "ibuc_backend/internals/features/finance/billings/service"
	authMiddleware "ibuc_backend/internals/middlewares/auth"
	featuresMiddleware "ibuc_backend/internals/middlewares/features"
	routeDetails "ibuc_backend/internals/route/details"
)

var startTime time.Time

// Deps: dependency yang dibagi antara HTTP dan scheduler.
type Deps struct {
	DB        *gorm.DB
	Log       *logrus.Logger
	Config    configs.AppConfig
	Generator *billingService.Generator
}

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()

	BaseRoutes(app, d.DB)

	auth := authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Secret:              d.Config.JWTSecret,
		AllowCookieFallback: true,
	})

	// ===================== PRIVATE (USER) =====================
	d.Log.Info("setting up /api/u/finance group")
	user := app.Group("/api/u/finance", auth)

	// ===================== ADMIN (staf keuangan per branch) =====================
	d.Log.Info("setting up /api/a/finance group (auth + finance staff)")
	admin := app.Group("/api/a/finance",
		auth,
		featuresMiddleware.RequireFinanceStaff(d.Log),
	)

	// ===================== MOUNT ROUTES =====================
	d.Log.Info("mounting finance routes")
	routeDetails.FinanceUserRoutes(user, d.DB, d.Log)
	routeDetails.FinanceAdminRoutes(admin, d.DB, d.Log, d.Generator)
}
