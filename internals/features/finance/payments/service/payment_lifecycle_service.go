// file: internals/features/finance/payments/service/payment_lifecycle_service.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	auditModel "ibuc_backend/internals/features/finance/audit_logs/model"
	auditService "ibuc_backend/internals/features/finance/audit_logs/service"
	billingModel "ibuc_backend/internals/features/finance/billings/model"
	"ibuc_backend/internals/features/finance/payments/model"
	helper "ibuc_backend/internals/helpers"
	"ibuc_backend/internals/helpers/apperror"
)

/* =======================================================================
   PaymentLifecycle
   Setiap transisi: 1 transaksi (load ter-scope tenant FOR UPDATE → cek state
   machine → UPDATE bersyarat pada status + versi lama). Audit ditulis setelah commit.
======================================================================= */

type Lifecycle struct {
	DB    *gorm.DB
	Audit auditService.Recorder
	Log   logrus.FieldLogger
}

func NewLifecycle(db *gorm.DB, audit auditService.Recorder, log logrus.FieldLogger) *Lifecycle {
	return &Lifecycle{DB: db, Audit: audit, Log: log.WithField("component", "payment_lifecycle")}
}

// Initiate membuat payment pending untuk billing dan mengunci nominalnya.
func (s *Lifecycle) Initiate(ctx context.Context, branchID, billingID uuid.UUID, method model.PaymentMethod, actorID *uuid.UUID) (*model.Payment, error) {
	if !method.Valid() {
		return nil, apperror.Validation("unsupported payment method %q", method)
	}

	var created model.Payment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var billing billingModel.Billing
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("billing_id = ? AND billing_branch_id = ?", billingID, branchID).
			First(&billing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("billing not found")
			}
			return apperror.Dependency(err, "failed to load billing")
		}
		if billing.IsPaid() {
			return apperror.Conflict("billing is already paid")
		}

		var active int64
		if err := tx.Model(&model.Payment{}).
			Where("payment_billing_id = ? AND payment_status IN ?", billingID,
				[]model.PaymentStatus{model.PaymentStatusPending, model.PaymentStatusFailed}).
			Count(&active).Error; err != nil {
			return apperror.Dependency(err, "failed to check active payments")
		}
		if active > 0 {
			return apperror.Conflict("billing already has an active payment")
		}

		status, err := model.PaymentStatus("").Next(model.ActionInitiate)
		if err != nil {
			return apperror.Conflict("%s", err.Error())
		}

		created = model.Payment{
			PaymentBranchID:     billing.BillingBranchID,
			PaymentBillingID:    billing.BillingID,
			PaymentMethod:       method,
			PaymentLockedAmount: billing.FinalAmount(),
			PaymentStatus:       status,
		}
		if err := tx.Create(&created).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return apperror.Conflict("billing already has an active payment")
			}
			return apperror.Dependency(err, "failed to create payment")
		}
		return tx.Where("payment_id = ?", created.PaymentID).First(&created).Error
	})
	if err != nil {
		return nil, asAppError(err, "failed to initiate payment")
	}

	s.Audit.Record(ctx, auditService.RecordInput{
		EntityType: auditModel.EntityPayment,
		EntityID:   created.PaymentID,
		Action:     string(model.ActionInitiate),
		NewState:   created,
		ActorID:    actorID,
		Metadata: map[string]any{
			"billing_id":    created.PaymentBillingID.String(),
			"locked_amount": created.PaymentLockedAmount,
		},
	})
	return &created, nil
}

// UploadProof melampirkan bukti bayar. Dari failed berarti resubmission (kembali pending).
func (s *Lifecycle) UploadProof(ctx context.Context, branchID, paymentID uuid.UUID, proofRef string, actorID *uuid.UUID) (*model.Payment, error) {
	proofRef = strings.TrimSpace(proofRef)
	if proofRef == "" {
		return nil, apperror.Validation("proof reference is required")
	}
	return s.apply(ctx, branchID, paymentID, actorID, transition{
		action: model.ActionUploadProof,
		changes: func(_ *model.Payment, _ time.Time) map[string]any {
			return map[string]any{
				"payment_proof_reference": proofRef,
				"payment_rejection_note":  nil,
			}
		},
		metadata: func(before *model.Payment) map[string]any {
			return map[string]any{"resubmission": before.PaymentStatus == model.PaymentStatusFailed}
		},
	})
}

// Approve menandai payment success dan billing paid dalam satu transaksi.
func (s *Lifecycle) Approve(ctx context.Context, branchID, paymentID, actorID uuid.UUID) (*model.Payment, error) {
	if actorID == uuid.Nil {
		return nil, apperror.Validation("approver is required")
	}
	return s.apply(ctx, branchID, paymentID, &actorID, transition{
		action: model.ActionApprove,
		changes: func(_ *model.Payment, now time.Time) map[string]any {
			return map[string]any{
				"payment_received_by": actorID,
				"payment_received_at": now,
			}
		},
		after: func(tx *gorm.DB, before *model.Payment, now time.Time) error {
			res := tx.Model(&billingModel.Billing{}).
				Where("billing_id = ? AND billing_branch_id = ? AND billing_status = ?",
					before.PaymentBillingID, branchID, billingModel.BillingStatusPending).
				Updates(map[string]any{
					"billing_status":     billingModel.BillingStatusPaid,
					"billing_paid_at":    now,
					"billing_updated_at": now,
				})
			if res.Error != nil {
				return apperror.Dependency(res.Error, "failed to mark billing paid")
			}
			if res.RowsAffected == 0 {
				return apperror.Conflict("billing is no longer pending")
			}
			return nil
		},
		metadata: func(before *model.Payment) map[string]any {
			return map[string]any{
				"billing_id":    before.PaymentBillingID.String(),
				"without_proof": !before.HasProof(),
			}
		},
	})
}

// Reject menolak payment dengan catatan; payment tetap bisa di-resubmit.
func (s *Lifecycle) Reject(ctx context.Context, branchID, paymentID, actorID uuid.UUID, note string) (*model.Payment, error) {
	if actorID == uuid.Nil {
		return nil, apperror.Validation("reviewer is required")
	}
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, apperror.Validation("rejection note is required")
	}
	return s.apply(ctx, branchID, paymentID, &actorID, transition{
		action: model.ActionReject,
		changes: func(_ *model.Payment, _ time.Time) map[string]any {
			return map[string]any{
				"payment_rejection_note": note,
				"payment_received_by":    actorID,
			}
		},
		metadata: func(_ *model.Payment) map[string]any {
			return map[string]any{"reason": note}
		},
	})
}

/* =======================================================================
   Transition core
======================================================================= */

type transition struct {
	action   model.PaymentAction
	changes  func(before *model.Payment, now time.Time) map[string]any
	after    func(tx *gorm.DB, before *model.Payment, now time.Time) error
	metadata func(before *model.Payment) map[string]any
}

func (s *Lifecycle) apply(ctx context.Context, branchID, paymentID uuid.UUID, actorID *uuid.UUID, tr transition) (*model.Payment, error) {
	var before, after model.Payment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := loadPayment(tx.Clauses(clause.Locking{Strength: "UPDATE"}), branchID, paymentID, &before); err != nil {
			return err
		}
		next, err := before.PaymentStatus.Next(tr.action)
		if err != nil {
			return apperror.Conflict("%s", err.Error())
		}

		now := tx.NowFunc()
		updates := tr.changes(&before, now)
		updates["payment_status"] = next
		updates["payment_updated_at"] = now
		updates["payment_version"] = gorm.Expr("payment_version + 1")

		// optimistic: gagal kalau baris berubah sejak dibaca (termasuk pending → pending)
		res := tx.Model(&model.Payment{}).
			Where("payment_id = ? AND payment_branch_id = ? AND payment_status = ? AND payment_version = ?",
				paymentID, branchID, before.PaymentStatus, before.PaymentVersion).
			Updates(updates)
		if res.Error != nil {
			return apperror.Dependency(res.Error, "failed to update payment")
		}
		if res.RowsAffected == 0 {
			return apperror.Conflict("payment was modified concurrently")
		}

		if tr.after != nil {
			if err := tr.after(tx, &before, now); err != nil {
				return err
			}
		}
		return loadPayment(tx, branchID, paymentID, &after)
	})
	if err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			s.Log.WithFields(logrus.Fields{
				"payment_id": paymentID.String(),
				"action":     tr.action,
			}).Debug(apperror.Message(err))
		}
		return nil, asAppError(err, "failed to "+strings.ToLower(string(tr.action))+" payment")
	}

	var meta map[string]any
	if tr.metadata != nil {
		meta = tr.metadata(&before)
	}
	s.Audit.Record(ctx, auditService.RecordInput{
		EntityType:    auditModel.EntityPayment,
		EntityID:      after.PaymentID,
		Action:        string(tr.action),
		PreviousState: before,
		NewState:      after,
		ActorID:       actorID,
		Metadata:      meta,
	})
	return &after, nil
}

/* =======================================================================
   Queries
======================================================================= */

func (s *Lifecycle) Get(ctx context.Context, branchID, paymentID uuid.UUID) (*model.Payment, error) {
	var p model.Payment
	if err := loadPayment(s.DB.WithContext(ctx), branchID, paymentID, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPending: antrian review, terbaru dulu.
func (s *Lifecycle) ListPending(ctx context.Context, branchID uuid.UUID, limit, offset int) ([]model.Payment, int64, error) {
	base := func() *gorm.DB {
		return s.DB.WithContext(ctx).Model(&model.Payment{}).
			Where("payment_branch_id = ? AND payment_status = ?", branchID, model.PaymentStatusPending)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, apperror.Dependency(err, "failed to count pending payments")
	}

	rows := make([]model.Payment, 0)
	q := base().Order("payment_created_at DESC").Order("payment_id DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, apperror.Dependency(err, "failed to list pending payments")
	}
	return rows, total, nil
}

// ListForBilling: semua percobaan bayar untuk satu billing, terlama dulu.
func (s *Lifecycle) ListForBilling(ctx context.Context, branchID, billingID uuid.UUID) ([]model.Payment, error) {
	db := s.DB.WithContext(ctx)

	var exists int64
	if err := db.Model(&billingModel.Billing{}).
		Where("billing_id = ? AND billing_branch_id = ?", billingID, branchID).
		Count(&exists).Error; err != nil {
		return nil, apperror.Dependency(err, "failed to load billing")
	}
	if exists == 0 {
		return nil, apperror.NotFound("billing not found")
	}

	rows := make([]model.Payment, 0)
	if err := db.Where("payment_billing_id = ? AND payment_branch_id = ?", billingID, branchID).
		Order("payment_created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, apperror.Dependency(err, "failed to list payments")
	}
	return rows, nil
}

// loadPayment: miss dan beda tenant sama-sama NotFound.
func loadPayment(db *gorm.DB, branchID, paymentID uuid.UUID, out *model.Payment) error {
	err := db.Where("payment_id = ? AND payment_branch_id = ?", paymentID, branchID).First(out).Error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NotFound("payment not found")
	default:
		return apperror.Dependency(err, "failed to load payment")
	}
}

func asAppError(err error, msg string) error {
	var ae *apperror.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperror.Dependency(err, "%s", msg)
}
