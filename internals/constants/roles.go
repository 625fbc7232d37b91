package constants

import "fmt"

// Template pesan error role
const (
	ErrOnlyClockersCanAccess = "❌ Hanya clocker, admin, atau superadmin yang boleh mengakses fitur %s."
	ErrOnlyAdminsCanAccess   = "❌ Hanya admin atau superadmin yang boleh mengakses fitur %s."
	ErrOnlySuperCanAccess    = "❌ Hanya superadmin yang boleh mengakses fitur %s."
)

func RoleErrorClocker(feature string) string {
	return fmt.Sprintf(ErrOnlyClockersCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorSuper(feature string) string {
	return fmt.Sprintf(ErrOnlySuperCanAccess, feature)
}

// ==========================
// ✅ Role names & groups
// ==========================
const (
	RoleVisitor    = "visitor"
	RoleUser       = "user"
	RoleClocker    = "clocker"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

var (
	AllRoles = []string{
		RoleUser,
		RoleClocker,
		RoleAdmin,
		RoleSuperAdmin,
	}

	// Operator: boleh scan & batch (petugas pencatat)
	ClockerAndAbove = []string{
		RoleClocker,
		RoleAdmin,
		RoleSuperAdmin,
	}

	AdminAndAbove = []string{
		RoleAdmin,
		RoleSuperAdmin,
	}

	SuperAdminOnly = []string{
		RoleSuperAdmin,
	}
)

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
