// file: internals/features/finance/payments/controller/payment_controller.go
package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	auditDTO "ibuc_backend/internals/features/finance/audit_logs/dto"
	auditModel "ibuc_backend/internals/features/finance/audit_logs/model"
	auditService "ibuc_backend/internals/features/finance/audit_logs/service"
	dto "ibuc_backend/internals/features/finance/payments/dto"
	model "ibuc_backend/internals/features/finance/payments/model"
	svc "ibuc_backend/internals/features/finance/payments/service"
	helper "ibuc_backend/internals/helpers"
)

/* =======================================================================
   Controller
======================================================================= */

type PaymentController struct {
	Lifecycle *svc.Lifecycle
	Trail     *auditService.Trail
}

func NewPaymentController(db *gorm.DB, log logrus.FieldLogger) *PaymentController {
	trail := auditService.NewTrail(db, log)
	return &PaymentController{
		Lifecycle: svc.NewLifecycle(db, trail, log),
		Trail:     trail,
	}
}

// scope: branch + actor dari token
func scope(c *fiber.Ctx) (branchID, actorID uuid.UUID, err error) {
	if branchID, err = helper.GetBranchIDFromToken(c); err != nil {
		return
	}
	actorID, err = helper.GetUserIDFromToken(c)
	return
}

/* =======================================================================
   Handlers (user)
======================================================================= */

// POST /api/u/finance/payments
func (h *PaymentController) Initiate(c *fiber.Ctx) error {
	branchID, actorID, err := scope(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.InitiatePaymentRequest
	if ok, resp := helper.BindAndValidate(c, &req); !ok {
		return resp
	}

	method, ok := model.ParsePaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod)))
	if !ok {
		return helper.JsonValidationError(c, map[string][]string{"payment_method": {"unsupported"}})
	}

	p, err := h.Lifecycle.Initiate(c.UserContext(), branchID, req.BillingID, method, &actorID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "payment initiated", dto.FromModel(p))
}

// POST /api/u/finance/payments/:id/proof
func (h *PaymentController) UploadProof(c *fiber.Ctx) error {
	branchID, actorID, err := scope(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UploadProofRequest
	if ok, resp := helper.BindAndValidate(c, &req); !ok {
		return resp
	}

	p, err := h.Lifecycle.UploadProof(c.UserContext(), branchID, id, req.ProofReference, &actorID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "proof submitted", dto.FromModel(p))
}

// GET /api/u/finance/payments/:id
func (h *PaymentController) GetByID(c *fiber.Ctx) error {
	branchID, err := helper.GetBranchIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	p, err := h.Lifecycle.Get(c.UserContext(), branchID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "", dto.FromModel(p))
}

/* =======================================================================
   Handlers (finance staff)
======================================================================= */

// GET /api/a/finance/payments/pending?page=&per_page=
func (h *PaymentController) ListPending(c *fiber.Ctx) error {
	branchID, err := helper.GetBranchIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	paging := helper.ResolvePaging(c, 20, 100)

	rows, total, err := h.Lifecycle.ListPending(c.UserContext(), branchID, paging.Limit, paging.Offset)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "", dto.FromModels(rows), helper.BuildPagination(total, paging, len(rows)))
}

// POST /api/a/finance/payments/:id/approve
func (h *PaymentController) Approve(c *fiber.Ctx) error {
	branchID, actorID, err := scope(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	p, err := h.Lifecycle.Approve(c.UserContext(), branchID, id, actorID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "payment approved", dto.FromModel(p))
}

// POST /api/a/finance/payments/:id/reject
func (h *PaymentController) Reject(c *fiber.Ctx) error {
	branchID, actorID, err := scope(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.RejectPaymentRequest
	if ok, resp := helper.BindAndValidate(c, &req); !ok {
		return resp
	}
	p, err := h.Lifecycle.Reject(c.UserContext(), branchID, id, actorID, req.Note)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "payment rejected", dto.FromModel(p))
}

// GET /api/a/finance/payments/:id/audit-logs
func (h *PaymentController) ListAuditLogs(c *fiber.Ctx) error {
	branchID, err := helper.GetBranchIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	// pastikan payment milik tenant ini sebelum membuka riwayatnya
	if _, err := h.Lifecycle.Get(c.UserContext(), branchID, id); err != nil {
		return helper.FromError(c, err)
	}

	rows, err := h.Trail.ListFor(c.UserContext(), auditModel.EntityPayment, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "", fiber.Map{
		"entries":     auditDTO.FromModels(rows),
		"chain_valid": auditService.VerifyChain(rows) == nil,
	})
}

// GET /api/a/finance/billings/:id/payments
func (h *PaymentController) ListForBilling(c *fiber.Ctx) error {
	branchID, err := helper.GetBranchIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	rows, err := h.Lifecycle.ListForBilling(c.UserContext(), branchID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "", dto.FromModels(rows))
}
