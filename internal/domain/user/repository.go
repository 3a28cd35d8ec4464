package user

import (
	"context"
)

// UserRepository is the read side of the user/department directory.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	// ListManagedDepartmentIDs returns the department ids from the caller's
	// ManagerAssignment rows.
	ListManagedDepartmentIDs(ctx context.Context, userID string) ([]string, error)
}
