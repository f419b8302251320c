package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	billingModel "ibuc_backend/internals/features/finance/billings/model"
)

// Today mengembalikan tengah malam UTC hari ini.
func Today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

// SeedBilling menyimpan satu billing pending dan mengembalikannya.
func SeedBilling(t *testing.T, db *gorm.DB, branchID uuid.UUID, amount, discount, surcharge int64) *billingModel.Billing {
	t.Helper()
	b := &billingModel.Billing{
		BillingBranchID:  branchID,
		BillingStudentID: uuid.New(),
		BillingTitle:     "Monthly fee",
		BillingAmount:    amount,
		BillingDiscount:  discount,
		BillingSurcharge: surcharge,
		BillingDueDate:   Today().AddDate(0, 0, 14),
		BillingStatus:    billingModel.BillingStatusPending,
	}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("seed billing: %v", err)
	}
	return b
}

// SeedCohort membuat anggota cohort; active menentukan jumlah siswa aktif, inactive sisanya.
func SeedCohort(t *testing.T, db *gorm.DB, branchID, cohortID uuid.UUID, active, inactive int) []uuid.UUID {
	t.Helper()
	var activeIDs []uuid.UUID
	for i := 0; i < active+inactive; i++ {
		status := billingModel.MembershipActive
		if i >= active {
			status = billingModel.MembershipInactive
		}
		m := &billingModel.CohortMembership{
			CohortMembershipBranchID:  branchID,
			CohortMembershipCohortID:  cohortID,
			CohortMembershipStudentID: uuid.New(),
			CohortMembershipStatus:    status,
		}
		if err := db.Create(m).Error; err != nil {
			t.Fatalf("seed cohort member: %v", err)
		}
		if status == billingModel.MembershipActive {
			activeIDs = append(activeIDs, m.CohortMembershipStudentID)
		}
	}
	return activeIDs
}
