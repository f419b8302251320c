// file: internals/features/finance/billings/controller/billing_controller.go
package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"ibuc_backend/internals/features/finance/billings/dto"
	svc "ibuc_backend/internals/features/finance/billings/service"
	helper "ibuc_backend/internals/helpers"
)

// =======================================================
// BOOTSTRAP
// =======================================================

type BillingController struct {
	Gen *svc.Generator
}

func NewBillingController(gen *svc.Generator) *BillingController {
	return &BillingController{Gen: gen}
}

func (h *BillingController) now() time.Time {
	return h.Gen.DB.NowFunc()
}

func dueDateError(c *fiber.Ctx, err error) error {
	return helper.JsonValidationError(c, map[string][]string{"due_date": {err.Error()}})
}

// =======================================================
// HANDLERS
// =======================================================

// POST /api/a/finance/billings/generate
func (h *BillingController) GenerateBatch(c *fiber.Ctx) error {
	branchID, err := helper.GetBranchIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.GenerateBatchRequest
	if ok, resp := helper.BindAndValidate(c, &req); !ok {
		return resp
	}
	in, err := req.ToInput()
	if err != nil {
		return dueDateError(c, err)
	}

	res, err := h.Gen.GenerateBatch(c.UserContext(), branchID, req.CohortID, in)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, batchMessage(res), dto.FromBatchResult(res, h.now()))
}

// POST /api/a/finance/billings/generate-subset
func (h *BillingController) GenerateSubset(c *fiber.Ctx) error {
	branchID, err := helper.GetBranchIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.GenerateSubsetRequest
	if ok, resp := helper.BindAndValidate(c, &req); !ok {
		return resp
	}
	in, err := req.ToInput()
	if err != nil {
		return dueDateError(c, err)
	}

	res, err := h.Gen.GenerateForApprovedSubset(c.UserContext(), branchID, req.StudentIDs, in)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, batchMessage(res), dto.FromBatchResult(res, h.now()))
}

// GET /api/a/finance/billings/:id
func (h *BillingController) GetByID(c *fiber.Ctx) error {
	branchID, err := helper.GetBranchIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	b, err := h.Gen.GetBilling(c.UserContext(), branchID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "", dto.FromModel(b, h.now()))
}

// PATCH /api/a/finance/billings/:id
func (h *BillingController) Adjust(c *fiber.Ctx) error {
	branchID, err := helper.GetBranchIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.AdjustBillingRequest
	if ok, resp := helper.BindAndValidate(c, &req); !ok {
		return resp
	}
	in, err := req.ToInput()
	if err != nil {
		return dueDateError(c, err)
	}

	b, err := h.Gen.AdjustBilling(c.UserContext(), branchID, id, in)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "billing updated", dto.FromModel(b, h.now()))
}

func batchMessage(res *svc.BatchResult) string {
	if len(res.Failed) > 0 {
		return "billing batch partially generated"
	}
	return "billing batch generated"
}
