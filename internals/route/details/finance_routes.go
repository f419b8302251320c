// file: internals/route/details/finance_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	BillingRoute "ibuc_backend/internals/features/finance/billings/routes"
	billingService "ibuc_backend/internals/features/finance/billings/service"
	ConfigRoute "ibuc_backend/internals/features/finance/financial_configs/route"
	PaymentRoute "ibuc_backend/internals/features/finance/payments/route"
	middlewares "ibuc_backend/internals/middlewares"
)

// /api/u/finance: wali/siswa
func FinanceUserRoutes(r fiber.Router, db *gorm.DB, log logrus.FieldLogger) {
	r.Use(middlewares.FinanceWriteRateLimiter())
	PaymentRoute.UserPaymentRoutes(r, db, log)
	ConfigRoute.UserFinancialConfigRoutes(r, db, log)
}

// /api/a/finance: staf keuangan
func FinanceAdminRoutes(r fiber.Router, db *gorm.DB, log logrus.FieldLogger, gen *billingService.Generator) {
	r.Use(middlewares.FinanceWriteRateLimiter())
	BillingRoute.AdminBillingRoutes(r, gen)
	PaymentRoute.AdminPaymentRoutes(r, db, log)
	ConfigRoute.AdminFinancialConfigRoutes(r, db, log)
}
