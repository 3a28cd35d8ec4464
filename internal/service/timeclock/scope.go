package timeclock

import (
	"context"
	"fmt"
	"sort"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
)

// Scope is the set of departments an actor may see or act on.
type Scope struct {
	all         bool
	departments map[string]struct{}
}

// AllDepartments is the scope of the view-all override.
func AllDepartments() Scope {
	return Scope{all: true}
}

// DepartmentScope limits visibility to the given departments.
func DepartmentScope(ids ...string) Scope {
	s := Scope{departments: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.departments[id] = struct{}{}
	}
	return s
}

func (s Scope) IsAll() bool {
	return s.all
}

// Includes reports whether departmentID is in scope. Owners without a
// department are only visible under the view-all override.
func (s Scope) Includes(departmentID string) bool {
	if s.all {
		return true
	}
	if departmentID == "" {
		return false
	}
	_, ok := s.departments[departmentID]
	return ok
}

// DepartmentIDs returns the scoped departments sorted, nil for the override.
func (s Scope) DepartmentIDs() []string {
	if s.all {
		return nil
	}
	ids := make([]string, 0, len(s.departments))
	for id := range s.departments {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Narrow intersects the scope with a single department filter.
func (s Scope) Narrow(departmentID string) Scope {
	if !s.Includes(departmentID) {
		return DepartmentScope()
	}
	return DepartmentScope(departmentID)
}

// ScopeResolver maps an actor to their department scope.
type ScopeResolver struct {
	users user.UserRepository
}

func NewScopeResolver(users user.UserRepository) *ScopeResolver {
	return &ScopeResolver{users: users}
}

// Resolve returns all departments for the view-all override, the actor's
// ManagerAssignment departments when they hold any team capability, and an
// empty scope otherwise.
func (r *ScopeResolver) Resolve(ctx context.Context, actor user.User) (Scope, error) {
	caps := actor.Capabilities()
	if caps.CanViewAllEntries() {
		return AllDepartments(), nil
	}
	if !caps.CanSeeOthers() {
		return DepartmentScope(), nil
	}

	ids, err := r.users.ListManagedDepartmentIDs(ctx, actor.ID)
	if err != nil {
		return Scope{}, fmt.Errorf("failed to list managed departments: %w", err)
	}
	return DepartmentScope(ids...), nil
}
