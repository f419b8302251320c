// file: internals/features/finance/billings/dto/billing_dto.go
package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	billing "ibuc_backend/internals/features/finance/billings/model"
	svc "ibuc_backend/internals/features/finance/billings/service"
)

////////////////////////////////////////////////////////////////////////////////
// REQUEST
////////////////////////////////////////////////////////////////////////////////

type GenerateBatchRequest struct {
	CohortID uuid.UUID `json:"cohort_id" validate:"required"`
	Title    string    `json:"title" validate:"required,max=160"`
	Amount   int64     `json:"amount" validate:"required,gt=0"`
	DueDate  string    `json:"due_date" validate:"required"` // YYYY-MM-DD atau RFC3339
}

type GenerateSubsetRequest struct {
	StudentIDs []uuid.UUID `json:"student_ids" validate:"required,min=1,max=1000"`
	Title      string      `json:"title" validate:"required,max=160"`
	Amount     int64       `json:"amount" validate:"required,gt=0"`
	DueDate    string      `json:"due_date" validate:"required"`
}

// Patch: field nil = tidak diubah
type AdjustBillingRequest struct {
	Title     *string `json:"title,omitempty" validate:"omitempty,min=1,max=160"`
	Amount    *int64  `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Discount  *int64  `json:"discount,omitempty" validate:"omitempty,gte=0"`
	Surcharge *int64  `json:"surcharge,omitempty" validate:"omitempty,gte=0"`
	DueDate   *string `json:"due_date,omitempty"`
}

func (r GenerateBatchRequest) ToInput() (svc.BatchInput, error) {
	due, err := ParseDueDate(r.DueDate)
	if err != nil {
		return svc.BatchInput{}, err
	}
	return svc.BatchInput{Title: r.Title, Amount: r.Amount, DueDate: due}, nil
}

func (r GenerateSubsetRequest) ToInput() (svc.BatchInput, error) {
	due, err := ParseDueDate(r.DueDate)
	if err != nil {
		return svc.BatchInput{}, err
	}
	return svc.BatchInput{Title: r.Title, Amount: r.Amount, DueDate: due}, nil
}

func (r AdjustBillingRequest) ToInput() (svc.AdjustInput, error) {
	in := svc.AdjustInput{
		Title:     r.Title,
		Amount:    r.Amount,
		Discount:  r.Discount,
		Surcharge: r.Surcharge,
	}
	if r.DueDate != nil {
		due, err := ParseDueDate(*r.DueDate)
		if err != nil {
			return in, err
		}
		in.DueDate = &due
	}
	return in, nil
}

// ParseDueDate menerima "2006-01-02" atau RFC3339; hasil selalu UTC.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid due_date %q (want YYYY-MM-DD)", s)
}

////////////////////////////////////////////////////////////////////////////////
// RESPONSE
////////////////////////////////////////////////////////////////////////////////

type BillingResponse struct {
	BillingID        uuid.UUID  `json:"billing_id"`
	BillingBranchID  uuid.UUID  `json:"billing_branch_id"`
	BillingStudentID uuid.UUID  `json:"billing_student_id"`
	BillingCohortID  *uuid.UUID `json:"billing_cohort_id,omitempty"`

	BillingTitle       string `json:"billing_title"`
	BillingAmount      int64  `json:"billing_amount"`
	BillingDiscount    int64  `json:"billing_discount"`
	BillingSurcharge   int64  `json:"billing_surcharge"`
	BillingFinalAmount int64  `json:"billing_final_amount"`

	BillingDueDate time.Time  `json:"billing_due_date"`
	BillingStatus  string     `json:"billing_status"`
	BillingOverdue bool       `json:"billing_overdue"`
	BillingPaidAt  *time.Time `json:"billing_paid_at,omitempty"`

	BillingCreatedAt time.Time `json:"billing_created_at"`
	BillingUpdatedAt time.Time `json:"billing_updated_at"`
}

type BatchResultResponse struct {
	Count    int                 `json:"count"`
	Billings []BillingResponse   `json:"billings"`
	Failed   []svc.FailedStudent `json:"failed"`
	Skipped  []uuid.UUID         `json:"skipped"`
}

func FromModel(m *billing.Billing, now time.Time) BillingResponse {
	return BillingResponse{
		BillingID:          m.BillingID,
		BillingBranchID:    m.BillingBranchID,
		BillingStudentID:   m.BillingStudentID,
		BillingCohortID:    m.BillingCohortID,
		BillingTitle:       m.BillingTitle,
		BillingAmount:      m.BillingAmount,
		BillingDiscount:    m.BillingDiscount,
		BillingSurcharge:   m.BillingSurcharge,
		BillingFinalAmount: m.FinalAmount(),
		BillingDueDate:     m.BillingDueDate,
		BillingStatus:      string(m.BillingStatus),
		BillingOverdue:     m.IsOverdue(now),
		BillingPaidAt:      m.BillingPaidAt,
		BillingCreatedAt:   m.BillingCreatedAt,
		BillingUpdatedAt:   m.BillingUpdatedAt,
	}
}

func FromBatchResult(r *svc.BatchResult, now time.Time) BatchResultResponse {
	out := BatchResultResponse{
		Count:    r.Count,
		Billings: make([]BillingResponse, 0, len(r.Billings)),
		Failed:   r.Failed,
		Skipped:  r.Skipped,
	}
	for i := range r.Billings {
		out.Billings = append(out.Billings, FromModel(&r.Billings[i], now))
	}
	return out
}
