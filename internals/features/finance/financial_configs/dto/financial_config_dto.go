package dto

import (
	"time"

	"github.com/google/uuid"

	"ibuc_backend/internals/features/finance/financial_configs/model"
	svc "ibuc_backend/internals/features/finance/financial_configs/service"
)

// PUT body: seluruh konfigurasi diganti (bukan patch)
type UpsertFinancialConfigRequest struct {
	PaymentKey      string  `json:"payment_key" validate:"required,max=255"`
	KeyType         string  `json:"key_type" validate:"required,max=32"`
	BeneficiaryName *string `json:"beneficiary_name,omitempty" validate:"omitempty,max=160"`
	BeneficiaryCity *string `json:"beneficiary_city,omitempty" validate:"omitempty,max=120"`
}

func (r UpsertFinancialConfigRequest) ToInput() svc.UpsertInput {
	return svc.UpsertInput{
		PaymentKey:      r.PaymentKey,
		KeyType:         r.KeyType,
		BeneficiaryName: r.BeneficiaryName,
		BeneficiaryCity: r.BeneficiaryCity,
	}
}

type FinancialConfigResponse struct {
	FinancialConfigID              uuid.UUID `json:"financial_config_id"`
	FinancialConfigPaymentKey      string    `json:"financial_config_payment_key"`
	FinancialConfigKeyType         string    `json:"financial_config_key_type"`
	FinancialConfigBeneficiaryName *string   `json:"financial_config_beneficiary_name,omitempty"`
	FinancialConfigBeneficiaryCity *string   `json:"financial_config_beneficiary_city,omitempty"`
	FinancialConfigUpdatedAt       time.Time `json:"financial_config_updated_at"`
}

func FromModel(m *model.FinancialConfig) FinancialConfigResponse {
	return FinancialConfigResponse{
		FinancialConfigID:              m.FinancialConfigID,
		FinancialConfigPaymentKey:      m.FinancialConfigPaymentKey,
		FinancialConfigKeyType:         m.FinancialConfigKeyType,
		FinancialConfigBeneficiaryName: m.FinancialConfigBeneficiaryName,
		FinancialConfigBeneficiaryCity: m.FinancialConfigBeneficiaryCity,
		FinancialConfigUpdatedAt:       m.FinancialConfigUpdatedAt,
	}
}
