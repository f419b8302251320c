package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MembershipStatus string

const (
	MembershipActive    MembershipStatus = "active"
	MembershipInactive  MembershipStatus = "inactive"
	MembershipCompleted MembershipStatus = "completed"
)

// CohortMembership: keanggotaan siswa pada satu cohort (kelas/angkatan).
// Dikelola modul akademik; finance hanya membaca.
type CohortMembership struct {
	CohortMembershipID        uuid.UUID        `json:"cohort_membership_id" gorm:"column:cohort_membership_id;type:uuid;primaryKey"`
	CohortMembershipBranchID  uuid.UUID        `json:"cohort_membership_branch_id" gorm:"column:cohort_membership_branch_id;type:uuid;not null;index:idx_cohort_members_scope,priority:1"`
	CohortMembershipCohortID  uuid.UUID        `json:"cohort_membership_cohort_id" gorm:"column:cohort_membership_cohort_id;type:uuid;not null;index:idx_cohort_members_scope,priority:2"`
	CohortMembershipStudentID uuid.UUID        `json:"cohort_membership_student_id" gorm:"column:cohort_membership_student_id;type:uuid;not null;index:idx_cohort_members_student"`
	CohortMembershipStatus    MembershipStatus `json:"cohort_membership_status" gorm:"column:cohort_membership_status;type:varchar(16);not null;default:'active'"`

	CohortMembershipCreatedAt time.Time `json:"cohort_membership_created_at" gorm:"column:cohort_membership_created_at;not null;autoCreateTime"`
}

func (CohortMembership) TableName() string { return "cohort_memberships" }

func (m *CohortMembership) BeforeCreate(tx *gorm.DB) error {
	if m.CohortMembershipID == uuid.Nil {
		m.CohortMembershipID = uuid.New()
	}
	if m.CohortMembershipStatus == "" {
		m.CohortMembershipStatus = MembershipActive
	}
	return nil
}
