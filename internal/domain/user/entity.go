package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleAdmin    Role = "admin"    // Payroll/HR administrator
	RoleManager  Role = "manager"  // Department-scoped approver
	RoleEmployee Role = "employee" // Regular employee
)

// User is the directory view of an account as the timeclock sees it.
type User struct {
	ID           string
	FullName     string
	Email        string
	Role         Role
	DepartmentID *string

	// DTO / Join
	DepartmentName *string
}

// Capabilities returns the closed capability set of the user's role.
func (u *User) Capabilities() Capabilities {
	return CapabilitiesFor(u.Role)
}

// InDepartment reports whether the user belongs to departmentID.
func (u *User) InDepartment(departmentID string) bool {
	return u.DepartmentID != nil && *u.DepartmentID == departmentID
}

// ManagerAssignment grants a manager visibility over one department.
type ManagerAssignment struct {
	UserID       string
	DepartmentID string
}

func IsValidRole(r string) bool {
	switch Role(r) {
	case RoleOwner, RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}
