package route

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	auditService "ibuc_backend/internals/features/finance/audit_logs/service"
	ctrl "ibuc_backend/internals/features/finance/financial_configs/controller"
	svc "ibuc_backend/internals/features/finance/financial_configs/service"
)

func newController(db *gorm.DB, log logrus.FieldLogger) *ctrl.FinancialConfigController {
	store := svc.NewStore(db, auditService.NewTrail(db, log), log)
	return ctrl.NewFinancialConfigController(store)
}

// Read-only untuk user login (render instruksi transfer)
func UserFinancialConfigRoutes(r fiber.Router, db *gorm.DB, log logrus.FieldLogger) {
	h := newController(db, log)
	r.Get("/config", h.Get)
}

// Tulis: staf keuangan
func AdminFinancialConfigRoutes(r fiber.Router, db *gorm.DB, log logrus.FieldLogger) {
	h := newController(db, log)
	r.Put("/config", h.Upsert)
}
