// file: internals/features/finance/payments/dto/payment_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	model "ibuc_backend/internals/features/finance/payments/model"
)

/* =========================================================
   REQUEST
========================================================= */

type InitiatePaymentRequest struct {
	BillingID     uuid.UUID `json:"billing_id" validate:"required"`
	PaymentMethod string    `json:"payment_method" validate:"required,max=32"` // transfer | card | voucher | cash
}

type UploadProofRequest struct {
	ProofReference string `json:"proof_reference" validate:"required,max=1024"`
}

type RejectPaymentRequest struct {
	Note string `json:"note" validate:"required,max=1000"`
}

/* =========================================================
   RESPONSE
========================================================= */

type PaymentResponse struct {
	PaymentID        uuid.UUID `json:"payment_id"`
	PaymentBranchID  uuid.UUID `json:"payment_branch_id"`
	PaymentBillingID uuid.UUID `json:"payment_billing_id"`
	PaymentMethod    string    `json:"payment_method"`

	PaymentLockedAmount int64  `json:"payment_locked_amount"`
	PaymentStatus       string `json:"payment_status"`
	PaymentFinal        bool   `json:"payment_final"`

	PaymentProofReference *string    `json:"payment_proof_reference,omitempty"`
	PaymentRejectionNote  *string    `json:"payment_rejection_note,omitempty"`
	PaymentReceivedBy     *uuid.UUID `json:"payment_received_by,omitempty"`
	PaymentReceivedAt     *time.Time `json:"payment_received_at,omitempty"`

	PaymentCreatedAt time.Time `json:"payment_created_at"`
	PaymentUpdatedAt time.Time `json:"payment_updated_at"`
}

func FromModel(m *model.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:             m.PaymentID,
		PaymentBranchID:       m.PaymentBranchID,
		PaymentBillingID:      m.PaymentBillingID,
		PaymentMethod:         string(m.PaymentMethod),
		PaymentLockedAmount:   m.PaymentLockedAmount,
		PaymentStatus:         string(m.PaymentStatus),
		PaymentFinal:          m.PaymentStatus.IsTerminal(),
		PaymentProofReference: m.PaymentProofReference,
		PaymentRejectionNote:  m.PaymentRejectionNote,
		PaymentReceivedBy:     m.PaymentReceivedBy,
		PaymentReceivedAt:     m.PaymentReceivedAt,
		PaymentCreatedAt:      m.PaymentCreatedAt,
		PaymentUpdatedAt:      m.PaymentUpdatedAt,
	}
}

func FromModels(rows []model.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
