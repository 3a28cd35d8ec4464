package timeclock

import (
	"strings"
	"time"
)

// State is the lifecycle position of an entry. Open is derived from a missing
// clock-out; every other state mirrors the stored status.
type State string

const (
	StateOpen      State = "open"
	StatePending   State = "pending"
	StateSubmitted State = "submitted"
	StateApproved  State = "approved"
	StateRejected  State = "rejected"
)

// Action is something an employee or manager does to an existing entry.
type Action string

const (
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionEdit    Action = "edit"
)

var (
	AllStates  = []State{StateOpen, StatePending, StateSubmitted, StateApproved, StateRejected}
	AllActions = []Action{ActionSubmit, ActionApprove, ActionReject, ActionEdit}
)

// LockEffect describes what a transition does to the edit lock.
type LockEffect int

const (
	LockKeep LockEffect = iota
	LockSet
	LockClear
)

// Transition is the outcome of applying an action in a state. An empty Next
// leaves the status untouched.
type Transition struct {
	Next          Status
	Lock          LockEffect
	SetApproval   bool
	ClearApproval bool
	RequiresNote  bool
	BlockedByLock bool
}

var (
	submit  = Transition{Next: StatusSubmitted}
	approve = Transition{Next: StatusApproved, Lock: LockSet, SetApproval: true}
	// Rejection unlocks from every closed state, approved included.
	reject = Transition{Next: StatusRejected, Lock: LockClear, ClearApproval: true, RequiresNote: true}
	edit   = Transition{BlockedByLock: true}
)

// transitions is the complete table. A (state, action) pair that is absent
// here must be present in denials.
var transitions = map[State]map[Action]Transition{
	StateOpen: {
		ActionEdit: edit,
	},
	StatePending: {
		ActionSubmit:  submit,
		ActionApprove: approve,
		ActionReject:  reject,
		ActionEdit:    edit,
	},
	StateSubmitted: {
		ActionApprove: approve,
		ActionReject:  reject,
		ActionEdit:    edit,
	},
	StateApproved: {
		ActionApprove: approve,
		ActionReject:  reject,
		ActionEdit:    edit,
	},
	StateRejected: {
		ActionApprove: approve,
		ActionReject:  reject,
		ActionEdit:    edit,
	},
}

var denials = map[State]map[Action]error{
	StateOpen: {
		ActionSubmit:  ErrCannotSubmitActive,
		ActionApprove: ErrClockOutRequired,
		ActionReject:  ErrClockOutRequired,
	},
	StateSubmitted: {
		ActionSubmit: ErrInvalidState,
	},
	StateApproved: {
		ActionSubmit: ErrInvalidState,
	},
	StateRejected: {
		ActionSubmit: ErrInvalidState,
	},
}

// StateOf derives the lifecycle state of e.
func StateOf(e Entry) State {
	if e.IsOpen() {
		return StateOpen
	}
	return State(e.Status)
}

// Lookup returns the transition for action in state, or the error that
// explains why the action is not allowed there.
func Lookup(state State, action Action) (Transition, error) {
	if t, ok := transitions[state][action]; ok {
		return t, nil
	}
	if err, ok := denials[state][action]; ok {
		return Transition{}, err
	}
	return Transition{}, ErrInvalidState
}

// Apply runs action against e in place. Authorization is the caller's job;
// Apply only enforces lifecycle rules.
func (e *Entry) Apply(action Action, actorID string, at time.Time, note *string) error {
	t, err := Lookup(StateOf(*e), action)
	if err != nil {
		return err
	}

	if t.BlockedByLock && e.IsLocked {
		return ErrLocked
	}

	if t.RequiresNote {
		if note == nil || strings.TrimSpace(*note) == "" {
			return ErrMissingNote
		}
		trimmed := strings.TrimSpace(*note)
		e.RejectedNote = &trimmed
	}

	if t.Next != "" {
		e.Status = t.Next
		if t.Next != StatusRejected {
			e.RejectedNote = nil
		}
	}

	switch t.Lock {
	case LockSet:
		e.IsLocked = true
	case LockClear:
		e.IsLocked = false
	}

	if t.SetApproval {
		approvedAt := at
		approvedBy := actorID
		e.ApprovedBy = &approvedBy
		e.ApprovedAt = &approvedAt
	}
	if t.ClearApproval {
		e.ApprovedBy = nil
		e.ApprovedAt = nil
	}

	return nil
}

// Reclock replaces the clock times after a manual edit and recomputes the
// durations as a plain difference. Break and rounding policy are not
// re-applied.
func (e *Entry) Reclock(clockIn time.Time, clockOut *time.Time, editorID string, at time.Time) error {
	if clockOut != nil {
		seconds := int64(clockOut.Sub(clockIn) / time.Second)
		if seconds < 0 {
			return ErrNegativeDuration
		}
		e.RawDuration = &seconds
		final := seconds
		e.Duration = &final
		e.BreakDeducted = 0
	} else {
		e.RawDuration = nil
		e.Duration = nil
		e.BreakDeducted = 0
	}

	e.ClockIn = clockIn
	e.ClockOut = clockOut
	editor := editorID
	editedAt := at
	e.LastEditedBy = &editor
	e.LastEditedAt = &editedAt
	return nil
}
