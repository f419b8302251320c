// file: internals/features/finance/payments/model/payment_model.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment: satu percobaan pelunasan untuk satu billing.
// Nominal dikunci saat dibuat; baris tidak pernah dihapus.
type Payment struct {
	PaymentID        uuid.UUID     `json:"payment_id" gorm:"column:payment_id;type:uuid;primaryKey"`
	PaymentBranchID  uuid.UUID     `json:"payment_branch_id" gorm:"column:payment_branch_id;type:uuid;not null;index:idx_payments_branch_status,priority:1"`
	PaymentBillingID uuid.UUID     `json:"payment_billing_id" gorm:"column:payment_billing_id;type:uuid;not null;index:idx_payments_billing"`
	PaymentMethod    PaymentMethod `json:"payment_method" gorm:"column:payment_method;type:varchar(16);not null"`

	PaymentLockedAmount int64         `json:"payment_locked_amount" gorm:"column:payment_locked_amount;type:bigint;not null"`
	PaymentStatus       PaymentStatus `json:"payment_status" gorm:"column:payment_status;type:varchar(16);not null;default:'pending';index:idx_payments_branch_status,priority:2"`

	PaymentProofReference *string    `json:"payment_proof_reference" gorm:"column:payment_proof_reference;type:text"`
	PaymentRejectionNote  *string    `json:"payment_rejection_note" gorm:"column:payment_rejection_note;type:text"`
	PaymentReceivedBy     *uuid.UUID `json:"payment_received_by" gorm:"column:payment_received_by;type:uuid"`
	PaymentReceivedAt     *time.Time `json:"payment_received_at" gorm:"column:payment_received_at"`

	// naik 1 tiap transisi; dipakai sebagai guard UPDATE bersyarat
	PaymentVersion int64 `json:"payment_version" gorm:"column:payment_version;type:bigint;not null;default:0"`

	PaymentCreatedAt time.Time `json:"payment_created_at" gorm:"column:payment_created_at;not null;autoCreateTime;index:idx_payments_created"`
	PaymentUpdatedAt time.Time `json:"payment_updated_at" gorm:"column:payment_updated_at;not null;autoUpdateTime"`
}

func (Payment) TableName() string { return "payments" }

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentID == uuid.Nil {
		p.PaymentID = uuid.New()
	}
	if p.PaymentBranchID == uuid.Nil || p.PaymentBillingID == uuid.Nil {
		return fmt.Errorf("payment_branch_id and payment_billing_id are required")
	}
	if p.PaymentStatus == "" {
		p.PaymentStatus = PaymentStatusPending
	}
	return nil
}

func (p *Payment) HasProof() bool {
	return p.PaymentProofReference != nil && *p.PaymentProofReference != ""
}
