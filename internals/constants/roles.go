package constants

import "fmt"

const (
	RoleUser       = "user"
	RoleStudent    = "student"
	RoleTeacher    = "teacher"
	RoleAdmin      = "admin"
	RoleOwner      = "owner"
	RoleAccountant = "accountant"
)

// Template pesan error role
const (
	ErrOnlyFinanceStaffCanAccess = "Hanya admin, bendahara, atau owner yang boleh mengakses fitur %s."
)

func RoleErrorFinanceStaff(feature string) string {
	return fmt.Sprintf(ErrOnlyFinanceStaffCanAccess, feature)
}

var (
	// Boleh review pembayaran, generate billing, ubah konfigurasi keuangan.
	FinanceStaff = []string{
		RoleAdmin,
		RoleAccountant,
		RoleOwner,
	}

	// Urutan prioritas saat token membawa beberapa role.
	RolePriority = []string{
		RoleOwner,
		RoleAdmin,
		RoleAccountant,
		RoleTeacher,
		RoleStudent,
		RoleUser,
	}
)
