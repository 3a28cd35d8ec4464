package timeclock

import (
	"context"
	"time"
)

// EntryFilter bounds a range query. Start and End are inclusive.
type EntryFilter struct {
	Start  time.Time
	End    time.Time
	UserID *string

	// DepartmentIDs restricts owners to these departments unless
	// AllDepartments is set. An empty list with AllDepartments unset matches nothing.
	DepartmentIDs  []string
	AllDepartments bool
}

// EntryRepository persists entries. Every write is a single-row update.
type EntryRepository interface {
	Create(ctx context.Context, entry Entry) (Entry, error)

	// GetByID returns the entry joined with its owner's name and department.
	GetByID(ctx context.Context, id string) (Entry, error)

	// GetOpenByUser returns the user's open session, or nil when there is none.
	GetOpenByUser(ctx context.Context, userID string) (*Entry, error)

	// Update overwrites the mutable columns of an existing entry (last write wins).
	Update(ctx context.Context, entry Entry) error

	// ListByRange returns entries whose clock-in falls inside the filter window.
	ListByRange(ctx context.Context, filter EntryFilter) ([]Entry, error)
}

// ConfigRepository stores the rules and overtime singletons. The GetOrCreate
// methods insert the default row when none exists.
type ConfigRepository interface {
	GetOrCreateRules(ctx context.Context) (RulesConfig, error)
	UpsertRules(ctx context.Context, cfg RulesConfig) (RulesConfig, error)
	GetOrCreateOvertime(ctx context.Context) (OvertimeConfig, error)
	UpsertOvertime(ctx context.Context, cfg OvertimeConfig) (OvertimeConfig, error)
}
