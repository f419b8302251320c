package route

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	paymentsController "ibuc_backend/internals/features/finance/payments/controller"
)

/*
Admin routes: review pembayaran (staf keuangan).
Contoh mount: AdminPaymentRoutes(app.Group("/api/a/finance"), db, log)
*/
func AdminPaymentRoutes(r fiber.Router, db *gorm.DB, log logrus.FieldLogger) {
	h := paymentsController.NewPaymentController(db, log)

	payments := r.Group("/payments")
	{
		payments.Get("/pending", h.ListPending)
		payments.Get("/:id", h.GetByID)
		payments.Post("/:id/approve", h.Approve)
		payments.Post("/:id/reject", h.Reject)
		payments.Get("/:id/audit-logs", h.ListAuditLogs)
	}

	// riwayat percobaan bayar per billing
	r.Get("/billings/:id/payments", h.ListForBilling)
}
