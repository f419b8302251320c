// file: internals/features/finance/billings/model/billing_model.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BillingStatus string

const (
	BillingStatusPending BillingStatus = "pending"
	BillingStatusPaid    BillingStatus = "paid"
)

// Billing merepresentasikan tabel billings (satu tagihan per siswa).
// Nominal dalam satuan terkecil mata uang (int64).
type Billing struct {
	BillingID        uuid.UUID  `json:"billing_id" gorm:"column:billing_id;type:uuid;primaryKey"`
	BillingBranchID  uuid.UUID  `json:"billing_branch_id" gorm:"column:billing_branch_id;type:uuid;not null;index:idx_billings_branch_status,priority:1"`
	BillingStudentID uuid.UUID  `json:"billing_student_id" gorm:"column:billing_student_id;type:uuid;not null;index:idx_billings_student"`
	BillingCohortID  *uuid.UUID `json:"billing_cohort_id,omitempty" gorm:"column:billing_cohort_id;type:uuid"`

	BillingTitle     string `json:"billing_title" gorm:"column:billing_title;type:varchar(160);not null"`
	BillingAmount    int64  `json:"billing_amount" gorm:"column:billing_amount;type:bigint;not null"`
	BillingDiscount  int64  `json:"billing_discount" gorm:"column:billing_discount;type:bigint;not null;default:0"`
	BillingSurcharge int64  `json:"billing_surcharge" gorm:"column:billing_surcharge;type:bigint;not null;default:0"`

	BillingDueDate time.Time     `json:"billing_due_date" gorm:"column:billing_due_date;not null;index:idx_billings_due"`
	BillingStatus  BillingStatus `json:"billing_status" gorm:"column:billing_status;type:varchar(16);not null;default:'pending';index:idx_billings_branch_status,priority:2"`
	BillingPaidAt  *time.Time    `json:"billing_paid_at,omitempty" gorm:"column:billing_paid_at"`

	BillingCreatedAt time.Time `json:"billing_created_at" gorm:"column:billing_created_at;not null;autoCreateTime"`
	BillingUpdatedAt time.Time `json:"billing_updated_at" gorm:"column:billing_updated_at;not null;autoUpdateTime"`
}

func (Billing) TableName() string { return "billings" }

func (b *Billing) BeforeCreate(tx *gorm.DB) error {
	if b.BillingID == uuid.Nil {
		b.BillingID = uuid.New()
	}
	if b.BillingBranchID == uuid.Nil {
		return fmt.Errorf("billing_branch_id is required")
	}
	if b.BillingStatus == "" {
		b.BillingStatus = BillingStatusPending
	}
	return nil
}

// FinalAmount = amount + surcharge − discount. Nilai ini yang dikunci saat payment dibuat.
func (b *Billing) FinalAmount() int64 {
	return b.BillingAmount + b.BillingSurcharge - b.BillingDiscount
}

func (b *Billing) IsPaid() bool { return b.BillingStatus == BillingStatusPaid }

// IsOverdue: status turunan, tidak disimpan.
func (b *Billing) IsOverdue(now time.Time) bool {
	return b.BillingStatus == BillingStatusPending && b.BillingDueDate.Before(now)
}
