// file: internals/features/finance/billings/service/billing_generator_service.go
package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ibuc_backend/internals/features/finance/billings/model"
	"ibuc_backend/internals/helpers/apperror"
)

const (
	maxTitleLen          = 160
	defaultNotifyTimeout = 10 * time.Second
	sweepBatchSize       = 200

	// batas per komponen; amount + surcharge tidak bisa overflow int64
	MaxComponentAmount int64 = math.MaxInt64 / 2
)

type Generator struct {
	DB            *gorm.DB
	Cohorts       CohortLookup
	Notifier      NotificationHook
	Log           logrus.FieldLogger
	NotifyTimeout time.Duration

	inflight sync.WaitGroup
}

func NewGenerator(db *gorm.DB, cohorts CohortLookup, notifier NotificationHook, log logrus.FieldLogger) *Generator {
	return &Generator{
		DB:            db,
		Cohorts:       cohorts,
		Notifier:      notifier,
		Log:           log.WithField("component", "billing_generator"),
		NotifyTimeout: defaultNotifyTimeout,
	}
}

type BatchInput struct {
	Title   string
	Amount  int64
	DueDate time.Time
}

type FailedStudent struct {
	StudentID uuid.UUID `json:"student_id"`
	Reason    string    `json:"reason"`
}

// BatchResult: Count = jumlah billing yang benar-benar tersimpan.
type BatchResult struct {
	Count    int
	Billings []model.Billing
	Failed   []FailedStudent
	Skipped  []uuid.UUID
}

/* =========================================================
   GENERATE
========================================================= */

// GenerateBatch membuat satu billing per siswa aktif di cohort.
func (g *Generator) GenerateBatch(ctx context.Context, branchID, cohortID uuid.UUID, in BatchInput) (*BatchResult, error) {
	in, err := normalizeBatch(in, g.DB.NowFunc())
	if err != nil {
		return nil, err
	}

	students, err := g.Cohorts.ListActiveStudents(ctx, branchID, cohortID)
	if err != nil {
		return nil, apperror.Dependency(err, "failed to resolve cohort students")
	}
	if len(students) == 0 {
		return nil, apperror.Validation("empty cohort")
	}

	return g.createAll(ctx, branchID, &cohortID, students, in)
}

// GenerateForApprovedSubset: sama seperti GenerateBatch untuk daftar siswa eksplisit.
// Id yang tidak aktif di branch dilaporkan di Skipped.
func (g *Generator) GenerateForApprovedSubset(ctx context.Context, branchID uuid.UUID, studentIDs []uuid.UUID, in BatchInput) (*BatchResult, error) {
	in, err := normalizeBatch(in, g.DB.NowFunc())
	if err != nil {
		return nil, err
	}

	requested := dedupe(studentIDs)
	if len(requested) == 0 {
		return nil, apperror.Validation("empty cohort")
	}
	students, err := g.Cohorts.FilterBranchStudents(ctx, branchID, requested)
	if err != nil {
		return nil, apperror.Dependency(err, "failed to resolve students")
	}
	if len(students) == 0 {
		return nil, apperror.Validation("empty cohort")
	}

	res, err := g.createAll(ctx, branchID, nil, students, in)
	if res != nil {
		res.Skipped = difference(requested, students)
	}
	return res, err
}

// createAll menyimpan per siswa secara independen; satu gagal tidak membatalkan yang lain.
func (g *Generator) createAll(ctx context.Context, branchID uuid.UUID, cohortID *uuid.UUID, students []uuid.UUID, in BatchInput) (*BatchResult, error) {
	res := &BatchResult{
		Billings: make([]model.Billing, 0, len(students)),
		Failed:   make([]FailedStudent, 0),
		Skipped:  make([]uuid.UUID, 0),
	}
	var firstErr error

	for _, sid := range students {
		b := model.Billing{
			BillingBranchID:  branchID,
			BillingStudentID: sid,
			BillingCohortID:  cohortID,
			BillingTitle:     in.Title,
			BillingAmount:    in.Amount,
			BillingDueDate:   in.DueDate,
			BillingStatus:    model.BillingStatusPending,
		}
		if err := g.DB.WithContext(ctx).Create(&b).Error; err != nil {
			if firstErr == nil {
				firstErr = err
			}
			g.Log.WithError(err).WithField("student_id", sid.String()).Warn("billing insert failed")
			res.Failed = append(res.Failed, FailedStudent{StudentID: sid, Reason: err.Error()})
			continue
		}
		res.Billings = append(res.Billings, b)
		g.notifyCreated(b)
	}
	res.Count = len(res.Billings)

	g.Log.WithFields(logrus.Fields{
		"branch_id": branchID.String(),
		"created":   res.Count,
		"failed":    len(res.Failed),
	}).Info("billing batch generated")

	if res.Count == 0 && firstErr != nil {
		return res, apperror.Dependency(firstErr, "no billing could be created")
	}
	return res, nil
}

// notifyCreated: fire-and-forget; error hanya di-log.
func (g *Generator) notifyCreated(b model.Billing) {
	if g.Notifier == nil {
		return
	}
	notice := noticeOf(&b)
	g.inflight.Add(1)
	go func() {
		defer g.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				g.Log.WithField("billing_id", notice.BillingID.String()).Errorf("notification panic: %v", r)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), g.notifyTimeout())
		defer cancel()
		if err := g.Notifier.NotifyBillingCreated(ctx, notice); err != nil {
			g.Log.WithError(err).WithField("billing_id", notice.BillingID.String()).Warn("billing notification failed")
		}
	}()
}

// Wait menunggu notifikasi yang masih berjalan (dipakai saat shutdown & test).
func (g *Generator) Wait() {
	g.inflight.Wait()
}

func (g *Generator) notifyTimeout() time.Duration {
	if g.NotifyTimeout > 0 {
		return g.NotifyTimeout
	}
	return defaultNotifyTimeout
}

/* =========================================================
   READ / ADJUST
========================================================= */

func (g *Generator) GetBilling(ctx context.Context, branchID, billingID uuid.UUID) (*model.Billing, error) {
	var b model.Billing
	if err := loadBilling(g.DB.WithContext(ctx), branchID, billingID, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

type AdjustInput struct {
	Title     *string
	Amount    *int64
	Discount  *int64
	Surcharge *int64
	DueDate   *time.Time
}

// AdjustBilling mengubah nominal/jatuh tempo billing yang belum lunas.
// Payment yang sudah dibuat tetap memakai nominal yang dikunci saat initiate.
func (g *Generator) AdjustBilling(ctx context.Context, branchID, billingID uuid.UUID, in AdjustInput) (*model.Billing, error) {
	var out model.Billing
	err := g.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b model.Billing
		if err := loadBilling(tx.Clauses(clause.Locking{Strength: "UPDATE"}), branchID, billingID, &b); err != nil {
			return err
		}
		if b.IsPaid() {
			return apperror.Conflict("billing is already paid")
		}

		now := tx.NowFunc()
		updates := map[string]any{"billing_updated_at": now}
		if in.Title != nil {
			t := strings.TrimSpace(*in.Title)
			if t == "" || len(t) > maxTitleLen {
				return apperror.Validation("title must be 1-%d characters", maxTitleLen)
			}
			b.BillingTitle = t
			updates["billing_title"] = t
		}
		if in.Amount != nil {
			b.BillingAmount = *in.Amount
			updates["billing_amount"] = *in.Amount
		}
		if in.Discount != nil {
			b.BillingDiscount = *in.Discount
			updates["billing_discount"] = *in.Discount
		}
		if in.Surcharge != nil {
			b.BillingSurcharge = *in.Surcharge
			updates["billing_surcharge"] = *in.Surcharge
		}
		if in.DueDate != nil {
			due := in.DueDate.UTC()
			if dayOf(due).Before(dayOf(now)) {
				return apperror.Validation("due date must not be in the past")
			}
			b.BillingDueDate = due
			updates["billing_due_date"] = due
		}
		if err := validateAmounts(&b); err != nil {
			return err
		}

		res := tx.Model(&model.Billing{}).
			Where("billing_id = ? AND billing_branch_id = ? AND billing_status = ?",
				billingID, branchID, model.BillingStatusPending).
			Updates(updates)
		if res.Error != nil {
			return apperror.Dependency(res.Error, "failed to update billing")
		}
		if res.RowsAffected == 0 {
			return apperror.Conflict("billing is already paid")
		}
		return loadBilling(tx, branchID, billingID, &out)
	})
	if err != nil {
		var ae *apperror.Error
		if errors.As(err, &ae) {
			return nil, err
		}
		return nil, apperror.Dependency(err, "failed to adjust billing")
	}
	return &out, nil
}

/* =========================================================
   OVERDUE SWEEP
========================================================= */

// SweepOverdue mengirim pengingat untuk billing pending yang lewat jatuh tempo.
// Status billing tidak diubah; overdue adalah status turunan.
func (g *Generator) SweepOverdue(ctx context.Context, now time.Time) (int, error) {
	if g.Notifier == nil {
		return 0, nil
	}
	notified := 0
	var batch []model.Billing
	res := g.DB.WithContext(ctx).
		Where("billing_status = ? AND billing_due_date < ?", model.BillingStatusPending, now.UTC()).
		FindInBatches(&batch, sweepBatchSize, func(tx *gorm.DB, _ int) error {
			for i := range batch {
				if err := ctx.Err(); err != nil {
					return err
				}
				nctx, cancel := context.WithTimeout(ctx, g.notifyTimeout())
				err := g.Notifier.NotifyBillingOverdue(nctx, noticeOf(&batch[i]))
				cancel()
				if err != nil {
					g.Log.WithError(err).WithField("billing_id", batch[i].BillingID.String()).Warn("overdue notification failed")
					continue
				}
				notified++
			}
			return nil
		})
	if res.Error != nil {
		return notified, apperror.Dependency(res.Error, "overdue sweep failed")
	}
	return notified, nil
}

/* =========================================================
   helpers
========================================================= */

func loadBilling(db *gorm.DB, branchID, billingID uuid.UUID, out *model.Billing) error {
	err := db.Where("billing_id = ? AND billing_branch_id = ?", billingID, branchID).First(out).Error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NotFound("billing not found")
	default:
		return apperror.Dependency(err, "failed to load billing")
	}
}

func normalizeBatch(in BatchInput, now time.Time) (BatchInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || len(in.Title) > maxTitleLen {
		return in, apperror.Validation("title must be 1-%d characters", maxTitleLen)
	}
	if in.Amount <= 0 {
		return in, apperror.Validation("amount must be greater than zero")
	}
	if in.Amount > MaxComponentAmount {
		return in, apperror.Validation("amount must not exceed %d", MaxComponentAmount)
	}
	if in.DueDate.IsZero() {
		return in, apperror.Validation("due date is required")
	}
	in.DueDate = in.DueDate.UTC()
	if dayOf(in.DueDate).Before(dayOf(now)) {
		return in, apperror.Validation("due date must not be in the past")
	}
	return in, nil
}

func validateAmounts(b *model.Billing) error {
	switch {
	case b.BillingAmount <= 0:
		return apperror.Validation("amount must be greater than zero")
	case b.BillingDiscount < 0 || b.BillingSurcharge < 0:
		return apperror.Validation("discount and surcharge must not be negative")
	case b.BillingAmount > MaxComponentAmount || b.BillingSurcharge > MaxComponentAmount:
		return apperror.Validation("amount and surcharge must not exceed %d", MaxComponentAmount)
	case b.BillingDiscount > b.BillingAmount+b.BillingSurcharge:
		return apperror.Validation("discount %d exceeds amount plus surcharge", b.BillingDiscount)
	}
	return nil
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func noticeOf(b *model.Billing) BillingNotice {
	return BillingNotice{
		BillingID: b.BillingID,
		BranchID:  b.BillingBranchID,
		StudentID: b.BillingStudentID,
		Title:     b.BillingTitle,
		Amount:    b.FinalAmount(),
		DueDate:   b.BillingDueDate,
	}
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// difference: elemen a yang tidak ada di b.
func difference(a, b []uuid.UUID) []uuid.UUID {
	in := make(map[uuid.UUID]struct{}, len(b))
	for _, id := range b {
		in[id] = struct{}{}
	}
	out := make([]uuid.UUID, 0)
	for _, id := range a {
		if _, ok := in[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
