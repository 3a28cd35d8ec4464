package audit

import (
	"time"
)

// Action names the mutation an event records.
type Action string

const (
	ActionClockIn        Action = "timeclock.clock_in"
	ActionClockOut       Action = "timeclock.clock_out"
	ActionSubmit         Action = "timeclock.submit"
	ActionApprove        Action = "timeclock.approve"
	ActionReject         Action = "timeclock.reject"
	ActionEdit           Action = "timeclock.edit"
	ActionBulkApprove    Action = "timeclock.bulk_approve"
	ActionUpdateRules    Action = "timeclock.update_rules"
	ActionUpdateOvertime Action = "timeclock.update_overtime"
)

// Event is one append-only audit record.
type Event struct {
	ID         string
	Action     Action
	ActorID    string
	EntityType string
	EntityID   string
	Before     *string
	After      *string
	Metadata   map[string]any
	CreatedAt  time.Time
}
