package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"ibuc_backend/internals/features/finance/billings/model"
	"ibuc_backend/internals/helpers/apperror"
	"ibuc_backend/internals/testutil"
)

type recordingNotifier struct {
	mu      sync.Mutex
	created []BillingNotice
	overdue []BillingNotice
	err     error
}

func (n *recordingNotifier) NotifyBillingCreated(_ context.Context, b BillingNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, b)
	return n.err
}

func (n *recordingNotifier) NotifyBillingOverdue(_ context.Context, b BillingNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.overdue = append(n.overdue, b)
	return n.err
}

type failingLookup struct{}

func (failingLookup) ListActiveStudents(context.Context, uuid.UUID, uuid.UUID) ([]uuid.UUID, error) {
	return nil, errors.New("academic service unavailable")
}

func (failingLookup) FilterBranchStudents(context.Context, uuid.UUID, []uuid.UUID) ([]uuid.UUID, error) {
	return nil, errors.New("academic service unavailable")
}

type genFixture struct {
	db       *gorm.DB
	gen      *Generator
	notifier *recordingNotifier
	log      *logrus.Logger
	branch   uuid.UUID
}

func newGenFixture(t *testing.T) *genFixture {
	t.Helper()
	db := testutil.NewDB(t)
	log, _ := testutil.NewLogger(t)
	n := &recordingNotifier{}
	return &genFixture{
		db:       db,
		gen:      NewGenerator(db, NewGormCohortLookup(db), n, log),
		notifier: n,
		log:      log,
		branch:   uuid.New(),
	}
}

func validInput() BatchInput {
	return BatchInput{Title: "October tuition", Amount: 250000, DueDate: testutil.Today().AddDate(0, 0, 10)}
}

func countBillings(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&model.Billing{}).Count(&n).Error; err != nil {
		t.Fatalf("count billings: %v", err)
	}
	return n
}

func TestGenerateBatchOnePerActiveStudent(t *testing.T) {
	f := newGenFixture(t)
	cohort := uuid.New()
	active := testutil.SeedCohort(t, f.db, f.branch, cohort, 3, 2)

	res, err := f.gen.GenerateBatch(context.Background(), f.branch, cohort, validInput())
	if err != nil {
		t.Fatalf("GenerateBatch: %v", err)
	}
	f.gen.Wait()

	if res.Count != 3 || len(res.Billings) != 3 || len(res.Failed) != 0 {
		t.Fatalf("result = count %d billings %d failed %d", res.Count, len(res.Billings), len(res.Failed))
	}
	if got := countBillings(t, f.db); got != 3 {
		t.Errorf("stored billings = %d, want 3", got)
	}

	want := make(map[uuid.UUID]bool)
	for _, id := range active {
		want[id] = true
	}
	for _, b := range res.Billings {
		if !want[b.BillingStudentID] {
			t.Errorf("billing for non-active student %s", b.BillingStudentID)
		}
		if b.BillingStatus != model.BillingStatusPending || b.BillingDiscount != 0 || b.BillingSurcharge != 0 {
			t.Errorf("billing defaults wrong: %+v", b)
		}
		if b.BillingCohortID == nil || *b.BillingCohortID != cohort {
			t.Errorf("cohort id = %v", b.BillingCohortID)
		}
	}
	if len(f.notifier.created) != 3 {
		t.Errorf("notifications = %d, want 3", len(f.notifier.created))
	}
}

func TestGenerateBatchEmptyCohortWritesNothing(t *testing.T) {
	f := newGenFixture(t)
	cohort := uuid.New()
	testutil.SeedCohort(t, f.db, f.branch, cohort, 0, 2)

	_, err := f.gen.GenerateBatch(context.Background(), f.branch, cohort, validInput())
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("error = %v, want validation", err)
	}
	if got := countBillings(t, f.db); got != 0 {
		t.Errorf("stored billings = %d, want 0", got)
	}
}

func TestGenerateBatchRejectsBadInput(t *testing.T) {
	f := newGenFixture(t)
	cohort := uuid.New()
	testutil.SeedCohort(t, f.db, f.branch, cohort, 1, 0)

	tests := []struct {
		name   string
		mutate func(*BatchInput)
	}{
		{"zero amount", func(in *BatchInput) { in.Amount = 0 }},
		{"negative amount", func(in *BatchInput) { in.Amount = -5 }},
		{"amount near int64 max", func(in *BatchInput) { in.Amount = math.MaxInt64 }},
		{"blank title", func(in *BatchInput) { in.Title = "   " }},
		{"missing due date", func(in *BatchInput) { in.DueDate = time.Time{} }},
		{"due date in the past", func(in *BatchInput) { in.DueDate = testutil.Today().AddDate(0, 0, -1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := f.gen.GenerateBatch(context.Background(), f.branch, cohort, in)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("error = %v, want validation", err)
			}
		})
	}

	t.Run("due today is accepted", func(t *testing.T) {
		in := validInput()
		in.DueDate = testutil.Today()
		if _, err := f.gen.GenerateBatch(context.Background(), f.branch, cohort, in); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestGenerateBatchReportsPartialFailure(t *testing.T) {
	f := newGenFixture(t)
	cohort := uuid.New()
	students := testutil.SeedCohort(t, f.db, f.branch, cohort, 3, 0)
	bad := students[1]

	err := f.db.Callback().Create().Before("gorm:create").Register("test:fail_one", func(tx *gorm.DB) {
		if b, ok := tx.Statement.Dest.(*model.Billing); ok && b.BillingStudentID == bad {
			_ = tx.AddError(errors.New("disk full"))
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	res, err := f.gen.GenerateBatch(context.Background(), f.branch, cohort, validInput())
	if err != nil {
		t.Fatalf("partial success should not error: %v", err)
	}
	f.gen.Wait()
	if res.Count != 2 || len(res.Failed) != 1 || res.Failed[0].StudentID != bad {
		t.Fatalf("result = count %d failed %+v", res.Count, res.Failed)
	}
	if got := countBillings(t, f.db); got != 2 {
		t.Errorf("stored billings = %d, want 2", got)
	}
}

func TestGenerateBatchAllInsertsFail(t *testing.T) {
	f := newGenFixture(t)
	cohort := uuid.New()
	testutil.SeedCohort(t, f.db, f.branch, cohort, 2, 0)

	err := f.db.Callback().Create().Before("gorm:create").Register("test:fail_all", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Dest.(*model.Billing); ok {
			_ = tx.AddError(errors.New("read-only replica"))
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	res, err := f.gen.GenerateBatch(context.Background(), f.branch, cohort, validInput())
	if !errors.Is(err, apperror.ErrDependency) {
		t.Fatalf("error = %v, want dependency", err)
	}
	if res == nil || res.Count != 0 || len(res.Failed) != 2 {
		t.Errorf("result = %+v", res)
	}
}

func TestGenerateBatchLookupFailure(t *testing.T) {
	f := newGenFixture(t)
	f.gen.Cohorts = failingLookup{}

	_, err := f.gen.GenerateBatch(context.Background(), f.branch, uuid.New(), validInput())
	if !errors.Is(err, apperror.ErrDependency) {
		t.Fatalf("error = %v, want dependency", err)
	}
}

func TestNotificationFailureDoesNotBlockGeneration(t *testing.T) {
	f := newGenFixture(t)
	f.notifier.err = errors.New("smtp down")
	cohort := uuid.New()
	testutil.SeedCohort(t, f.db, f.branch, cohort, 2, 0)

	res, err := f.gen.GenerateBatch(context.Background(), f.branch, cohort, validInput())
	if err != nil {
		t.Fatalf("GenerateBatch: %v", err)
	}
	f.gen.Wait()
	if res.Count != 2 {
		t.Errorf("count = %d, want 2", res.Count)
	}
	if len(f.notifier.created) != 2 {
		t.Errorf("notification attempts = %d, want 2", len(f.notifier.created))
	}
}

func TestGenerateForApprovedSubset(t *testing.T) {
	f := newGenFixture(t)
	cohort := uuid.New()
	students := testutil.SeedCohort(t, f.db, f.branch, cohort, 3, 0)
	stranger := uuid.New()

	ids := []uuid.UUID{students[0], students[2], students[0], stranger}
	res, err := f.gen.GenerateForApprovedSubset(context.Background(), f.branch, ids, validInput())
	if err != nil {
		t.Fatalf("GenerateForApprovedSubset: %v", err)
	}
	f.gen.Wait()

	if res.Count != 2 {
		t.Errorf("count = %d, want 2", res.Count)
	}
	if len(res.Skipped) != 1 || res.Skipped[0] != stranger {
		t.Errorf("skipped = %v, want [%s]", res.Skipped, stranger)
	}
	for _, b := range res.Billings {
		if b.BillingCohortID != nil {
			t.Errorf("subset billing should not carry a cohort: %v", b.BillingCohortID)
		}
	}

	t.Run("nobody in branch", func(t *testing.T) {
		_, err := f.gen.GenerateForApprovedSubset(context.Background(), uuid.New(), students, validInput())
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("error = %v, want validation", err)
		}
	})
	t.Run("empty list", func(t *testing.T) {
		_, err := f.gen.GenerateForApprovedSubset(context.Background(), f.branch, nil, validInput())
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("error = %v, want validation", err)
		}
	})
}

func TestAdjustBilling(t *testing.T) {
	f := newGenFixture(t)
	ctx := context.Background()
	b := testutil.SeedBilling(t, f.db, f.branch, 10000, 0, 0)

	discount, surcharge := int64(1500), int64(300)
	got, err := f.gen.AdjustBilling(ctx, f.branch, b.BillingID, AdjustInput{Discount: &discount, Surcharge: &surcharge})
	if err != nil {
		t.Fatalf("AdjustBilling: %v", err)
	}
	if got.FinalAmount() != 8800 {
		t.Errorf("final amount = %d, want 8800", got.FinalAmount())
	}

	t.Run("discount larger than total", func(t *testing.T) {
		huge := int64(20000)
		_, err := f.gen.AdjustBilling(ctx, f.branch, b.BillingID, AdjustInput{Discount: &huge})
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("error = %v, want validation", err)
		}
	})

	t.Run("components near int64 max", func(t *testing.T) {
		huge := int64(math.MaxInt64)
		cases := map[string]AdjustInput{
			"amount":    {Amount: &huge},
			"surcharge": {Surcharge: &huge},
		}
		for name, in := range cases {
			if _, err := f.gen.AdjustBilling(ctx, f.branch, b.BillingID, in); !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("%s: error = %v, want validation", name, err)
			}
		}
		var reloaded model.Billing
		if err := f.db.First(&reloaded, "billing_id = ?", b.BillingID).Error; err != nil {
			t.Fatalf("reload: %v", err)
		}
		if reloaded.FinalAmount() != 8800 {
			t.Errorf("final amount after rejected adjust = %d, want 8800", reloaded.FinalAmount())
		}
	})

	t.Run("other tenant", func(t *testing.T) {
		_, err := f.gen.AdjustBilling(ctx, uuid.New(), b.BillingID, AdjustInput{Discount: &discount})
		if !errors.Is(err, apperror.ErrNotFound) {
			t.Errorf("error = %v, want not found", err)
		}
	})

	t.Run("paid billing is frozen", func(t *testing.T) {
		if err := f.db.Model(&model.Billing{}).Where("billing_id = ?", b.BillingID).
			Update("billing_status", model.BillingStatusPaid).Error; err != nil {
			t.Fatalf("mark paid: %v", err)
		}
		amount := int64(1)
		_, err := f.gen.AdjustBilling(ctx, f.branch, b.BillingID, AdjustInput{Amount: &amount})
		if !errors.Is(err, apperror.ErrConflict) {
			t.Errorf("error = %v, want conflict", err)
		}
	})
}

func TestSweepOverdueNotifiesPendingPastDue(t *testing.T) {
	f := newGenFixture(t)
	today := testutil.Today()

	seed := func(due time.Time, status model.BillingStatus) *model.Billing {
		b := &model.Billing{
			BillingBranchID:  f.branch,
			BillingStudentID: uuid.New(),
			BillingTitle:     "September tuition",
			BillingAmount:    1000,
			BillingDueDate:   due,
			BillingStatus:    status,
		}
		if err := f.db.Create(b).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
		return b
	}
	late := seed(today.AddDate(0, 0, -3), model.BillingStatusPending)
	seed(today.AddDate(0, 0, 3), model.BillingStatusPending)
	seed(today.AddDate(0, 0, -3), model.BillingStatusPaid)

	n, err := f.gen.SweepOverdue(context.Background(), today.Add(12*time.Hour))
	if err != nil {
		t.Fatalf("SweepOverdue: %v", err)
	}
	if n != 1 || len(f.notifier.overdue) != 1 || f.notifier.overdue[0].BillingID != late.BillingID {
		t.Errorf("notified %d: %+v", n, f.notifier.overdue)
	}
	if !late.IsOverdue(today) {
		t.Error("late billing should report overdue")
	}
}
