package route

import (
	"github.com/gofiber/fiber/v2"

	billingController "ibuc_backend/internals/features/finance/billings/controller"
	svc "ibuc_backend/internals/features/finance/billings/service"
)

/*
Admin routes: generate & kelola billing.
Diproteksi guard staf keuangan di group /api/a/finance.
*/
func AdminBillingRoutes(r fiber.Router, gen *svc.Generator) {
	h := billingController.NewBillingController(gen)

	billings := r.Group("/billings")
	{
		billings.Post("/generate", h.GenerateBatch)
		billings.Post("/generate-subset", h.GenerateSubset)
		billings.Get("/:id", h.GetByID)
		billings.Patch("/:id", h.Adjust)
	}
}
