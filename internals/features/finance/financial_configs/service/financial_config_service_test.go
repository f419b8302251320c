package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	auditModel "ibuc_backend/internals/features/finance/audit_logs/model"
	auditService "ibuc_backend/internals/features/finance/audit_logs/service"
	"ibuc_backend/internals/features/finance/financial_configs/model"
	"ibuc_backend/internals/helpers/apperror"
	"ibuc_backend/internals/testutil"
)

func strPtr(s string) *string { return &s }

func newStore(t *testing.T) (*Store, *auditService.Trail) {
	t.Helper()
	db := testutil.NewDB(t)
	log, _ := testutil.NewLogger(t)
	trail := auditService.NewTrail(db, log)
	return NewStore(db, trail, log), trail
}

func TestGetBeforeUpsertIsNotFound(t *testing.T) {
	s, _ := newStore(t)

	_, err := s.Get(context.Background())
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Get on empty store = %v, want NotFound", err)
	}
}

func TestUpsertInsertsThenUpdatesInPlace(t *testing.T) {
	s, trail := newStore(t)
	ctx := context.Background()
	actor := uuid.New()

	first, err := s.Upsert(ctx, UpsertInput{PaymentKey: "  finance@school.test ", KeyType: "EMAIL", BeneficiaryName: strPtr("Yayasan Ibuc")}, &actor)
	if err != nil {
		t.Fatalf("first Upsert: %v", err)
	}
	if first.FinancialConfigPaymentKey != "finance@school.test" || first.FinancialConfigKeyType != "email" {
		t.Errorf("first = %+v, want trimmed key and lowercase type", first)
	}

	second, err := s.Upsert(ctx, UpsertInput{PaymentKey: "0812000111", KeyType: "phone", BeneficiaryCity: strPtr(" ")}, &actor)
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if second.FinancialConfigID != first.FinancialConfigID {
		t.Errorf("id changed %s -> %s, want update in place", first.FinancialConfigID, second.FinancialConfigID)
	}
	if second.FinancialConfigBeneficiaryName != nil || second.FinancialConfigBeneficiaryCity != nil {
		t.Errorf("optional fields = %v/%v, want cleared", second.FinancialConfigBeneficiaryName, second.FinancialConfigBeneficiaryCity)
	}

	var rows int64
	if err := s.DB.Model(&model.FinancialConfig{}).Count(&rows).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 1 {
		t.Fatalf("rows = %d, want 1", rows)
	}

	got, err := s.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.FinancialConfigPaymentKey != "0812000111" || got.FinancialConfigKeyType != "phone" {
		t.Errorf("Get = %+v", got)
	}

	entries, err := trail.ListFor(ctx, auditModel.EntityFinancialConfig, first.FinancialConfigID)
	if err != nil {
		t.Fatalf("ListFor: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("audit entries = %d, want 2", len(entries))
	}
	if len(entries[0].AuditLogPreviousState) != 0 {
		t.Errorf("first entry previous state = %s, want NULL", entries[0].AuditLogPreviousState)
	}
	if err := auditService.VerifyChain(entries); err != nil {
		t.Errorf("audit chain: %v", err)
	}
}

func TestUpsertRejectsMissingFields(t *testing.T) {
	s, _ := newStore(t)

	cases := map[string]UpsertInput{
		"missing key":  {KeyType: "email"},
		"blank key":    {PaymentKey: "   ", KeyType: "email"},
		"missing type": {PaymentKey: "abc"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Upsert(context.Background(), in, nil); !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("Upsert = %v, want Validation", err)
			}
		})
	}
}

func TestConcurrentUpsertsKeepSingleRow(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Upsert(ctx, UpsertInput{PaymentKey: uuid.NewString(), KeyType: "random"}, nil); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("Upsert: %v", err)
	}

	var rows int64
	if err := s.DB.Model(&model.FinancialConfig{}).Count(&rows).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 1 {
		t.Fatalf("rows = %d, want 1", rows)
	}
}
