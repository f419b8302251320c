// file: internals/features/finance/financial_configs/service/financial_config_service.go
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	auditModel "ibuc_backend/internals/features/finance/audit_logs/model"
	auditService "ibuc_backend/internals/features/finance/audit_logs/service"
	"ibuc_backend/internals/features/finance/financial_configs/model"
	helper "ibuc_backend/internals/helpers"
	"ibuc_backend/internals/helpers/apperror"
)

const actionUpsert = "UPSERT"

type UpsertInput struct {
	PaymentKey      string
	KeyType         string
	BeneficiaryName *string
	BeneficiaryCity *string
}

// Store: singleton tujuan pembayaran. Audit opsional (nil = tanpa jejak).
type Store struct {
	DB    *gorm.DB
	Audit auditService.Recorder
	Log   logrus.FieldLogger
}

func NewStore(db *gorm.DB, audit auditService.Recorder, log logrus.FieldLogger) *Store {
	return &Store{DB: db, Audit: audit, Log: log.WithField("component", "financial_config")}
}

// Get mengembalikan konfigurasi aktif; NotFound bila belum pernah di-set.
func (s *Store) Get(ctx context.Context) (*model.FinancialConfig, error) {
	var cfg model.FinancialConfig
	err := s.DB.WithContext(ctx).Order("financial_config_slot ASC").First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("financial config not set")
		}
		return nil, apperror.Dependency(err, "failed to load financial config")
	}
	return &cfg, nil
}

// Upsert: update baris pertama bila ada, insert bila belum.
// Insert yang kalah balapan (unique slot) diulang sekali sebagai update.
func (s *Store) Upsert(ctx context.Context, in UpsertInput, actorID *uuid.UUID) (*model.FinancialConfig, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}

	before, after, err := s.upsertOnce(ctx, in)
	if err != nil && helper.IsUniqueViolation(err) {
		s.Log.WithError(err).Warn("concurrent financial config insert, retrying as update")
		before, after, err = s.upsertOnce(ctx, in)
	}
	if err != nil {
		var ae *apperror.Error
		if errors.As(err, &ae) {
			return nil, err
		}
		return nil, apperror.Dependency(err, "failed to save financial config")
	}

	if s.Audit != nil {
		rec := auditService.RecordInput{
			EntityType: auditModel.EntityFinancialConfig,
			EntityID:   after.FinancialConfigID,
			Action:     actionUpsert,
			NewState:   after,
			ActorID:    actorID,
		}
		if before != nil {
			rec.PreviousState = before
		}
		s.Audit.Record(ctx, rec)
	}
	return after, nil
}

func (s *Store) upsertOnce(ctx context.Context, in UpsertInput) (*model.FinancialConfig, *model.FinancialConfig, error) {
	var before *model.FinancialConfig
	var after model.FinancialConfig

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur model.FinancialConfig
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Order("financial_config_slot ASC").
			First(&cur).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			after = model.FinancialConfig{
				FinancialConfigPaymentKey:      in.PaymentKey,
				FinancialConfigKeyType:         in.KeyType,
				FinancialConfigBeneficiaryName: in.BeneficiaryName,
				FinancialConfigBeneficiaryCity: in.BeneficiaryCity,
			}
			if err := tx.Create(&after).Error; err != nil {
				return err
			}
			return tx.Where("financial_config_id = ?", after.FinancialConfigID).First(&after).Error
		case err != nil:
			return err
		}

		snapshot := cur
		before = &snapshot
		if err := tx.Model(&model.FinancialConfig{}).
			Where("financial_config_id = ?", cur.FinancialConfigID).
			Updates(map[string]any{
				"financial_config_payment_key":      in.PaymentKey,
				"financial_config_key_type":         in.KeyType,
				"financial_config_beneficiary_name": in.BeneficiaryName,
				"financial_config_beneficiary_city": in.BeneficiaryCity,
				"financial_config_updated_at":       tx.NowFunc(),
			}).Error; err != nil {
			return err
		}
		return tx.Where("financial_config_id = ?", cur.FinancialConfigID).First(&after).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return before, &after, nil
}

func normalize(in UpsertInput) (UpsertInput, error) {
	in.PaymentKey = strings.TrimSpace(in.PaymentKey)
	in.KeyType = strings.ToLower(strings.TrimSpace(in.KeyType))
	if in.PaymentKey == "" {
		return in, apperror.Validation("payment key is required")
	}
	if in.KeyType == "" {
		return in, apperror.Validation("key type is required")
	}
	in.BeneficiaryName = trimOptional(in.BeneficiaryName)
	in.BeneficiaryCity = trimOptional(in.BeneficiaryCity)
	return in, nil
}

func trimOptional(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
