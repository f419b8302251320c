package controller

import (
	"github.com/gofiber/fiber/v2"

	"ibuc_backend/internals/features/finance/financial_configs/dto"
	svc "ibuc_backend/internals/features/finance/financial_configs/service"
	helper "ibuc_backend/internals/helpers"
)

type FinancialConfigController struct {
	Store *svc.Store
}

func NewFinancialConfigController(store *svc.Store) *FinancialConfigController {
	return &FinancialConfigController{Store: store}
}

// GET /api/u/finance/config
func (h *FinancialConfigController) Get(c *fiber.Ctx) error {
	cfg, err := h.Store.Get(c.UserContext())
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "", dto.FromModel(cfg))
}

// PUT /api/a/finance/config
func (h *FinancialConfigController) Upsert(c *fiber.Ctx) error {
	actorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpsertFinancialConfigRequest
	if ok, resp := helper.BindAndValidate(c, &req); !ok {
		return resp
	}

	cfg, err := h.Store.Upsert(c.UserContext(), req.ToInput(), &actorID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "financial config saved", dto.FromModel(cfg))
}
