package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ibuc_backend/internals/features/finance/billings/model"
)

// CohortLookup: sumber daftar siswa aktif (milik modul akademik).
type CohortLookup interface {
	ListActiveStudents(ctx context.Context, branchID, cohortID uuid.UUID) ([]uuid.UUID, error)
	// FilterBranchStudents mengembalikan subset ids yang aktif di branch, urutan input dipertahankan.
	FilterBranchStudents(ctx context.Context, branchID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error)
}

type GormCohortLookup struct {
	DB *gorm.DB
}

func NewGormCohortLookup(db *gorm.DB) *GormCohortLookup {
	return &GormCohortLookup{DB: db}
}

func (l *GormCohortLookup) ListActiveStudents(ctx context.Context, branchID, cohortID uuid.UUID) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0)
	err := l.DB.WithContext(ctx).
		Model(&model.CohortMembership{}).
		Where("cohort_membership_branch_id = ? AND cohort_membership_cohort_id = ? AND cohort_membership_status = ?",
			branchID, cohortID, model.MembershipActive).
		Distinct().
		Order("cohort_membership_student_id").
		Pluck("cohort_membership_student_id", &ids).Error
	return ids, err
}

func (l *GormCohortLookup) FilterBranchStudents(ctx context.Context, branchID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return []uuid.UUID{}, nil
	}
	found := make([]uuid.UUID, 0, len(ids))
	err := l.DB.WithContext(ctx).
		Model(&model.CohortMembership{}).
		Where("cohort_membership_branch_id = ? AND cohort_membership_student_id IN ? AND cohort_membership_status = ?",
			branchID, ids, model.MembershipActive).
		Distinct().
		Pluck("cohort_membership_student_id", &found).Error
	if err != nil {
		return nil, err
	}

	ok := make(map[uuid.UUID]struct{}, len(found))
	for _, id := range found {
		ok[id] = struct{}{}
	}
	out := make([]uuid.UUID, 0, len(found))
	for _, id := range ids {
		if _, hit := ok[id]; hit {
			out = append(out, id)
			delete(ok, id) // id duplikat cukup sekali
		}
	}
	return out, nil
}
