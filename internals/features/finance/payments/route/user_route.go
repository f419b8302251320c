// file: internals/features/finance/payments/route/user_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	paymentsController "ibuc_backend/internals/features/finance/payments/controller"
)

// UserPaymentRoutes: dipasang di group /api/u/finance (wali/siswa).
func UserPaymentRoutes(r fiber.Router, db *gorm.DB, log logrus.FieldLogger) {
	h := paymentsController.NewPaymentController(db, log)

	payments := r.Group("/payments")
	{
		payments.Post("/", h.Initiate)
		payments.Get("/:id", h.GetByID)
		payments.Post("/:id/proof", h.UploadProof)
	}
}
