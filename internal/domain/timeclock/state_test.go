package timeclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stateTestNow = time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

func entryIn(state State, locked bool) Entry {
	e := Entry{
		ID:       "entry-1",
		UserID:   "emp-1",
		ClockIn:  stateTestNow.Add(-8 * time.Hour),
		Status:   StatusPending,
		IsLocked: locked,
	}
	if state == StateOpen {
		return e
	}
	out := stateTestNow
	d := int64(8 * 3600)
	e.ClockOut = &out
	e.RawDuration = &d
	e.Duration = &d
	e.Status = Status(state)
	if state == StateRejected {
		note := "earlier rejection"
		e.RejectedNote = &note
	}
	return e
}

func TestTransitionTable_Exhaustive(t *testing.T) {
	expected := map[State]map[Action]error{
		StateOpen:      {ActionSubmit: ErrCannotSubmitActive, ActionApprove: ErrClockOutRequired, ActionReject: ErrClockOutRequired, ActionEdit: nil},
		StatePending:   {ActionSubmit: nil, ActionApprove: nil, ActionReject: nil, ActionEdit: nil},
		StateSubmitted: {ActionSubmit: ErrInvalidState, ActionApprove: nil, ActionReject: nil, ActionEdit: nil},
		StateApproved:  {ActionSubmit: ErrInvalidState, ActionApprove: nil, ActionReject: nil, ActionEdit: nil},
		StateRejected:  {ActionSubmit: ErrInvalidState, ActionApprove: nil, ActionReject: nil, ActionEdit: nil},
	}

	for _, state := range AllStates {
		for _, action := range AllActions {
			_, inTable := transitions[state][action]
			_, denied := denials[state][action]
			assert.True(t, inTable != denied, "%s/%s must be in exactly one table", state, action)

			_, err := Lookup(state, action)
			want, ok := expected[state][action]
			require.True(t, ok, "missing expectation for %s/%s", state, action)
			if want == nil {
				assert.NoError(t, err, "%s/%s", state, action)
			} else {
				assert.ErrorIs(t, err, want, "%s/%s", state, action)
			}
		}
	}
}

func TestApply_RejectAlwaysUnlocks(t *testing.T) {
	note := "wrong project code"
	for _, state := range []State{StatePending, StateSubmitted, StateApproved, StateRejected} {
		t.Run(string(state), func(t *testing.T) {
			e := entryIn(state, state == StateApproved)
			approver := "mgr-0"
			e.ApprovedBy = &approver

			err := e.Apply(ActionReject, "mgr-1", stateTestNow, &note)

			require.NoError(t, err)
			assert.Equal(t, StatusRejected, e.Status)
			assert.False(t, e.IsLocked)
			assert.Nil(t, e.ApprovedBy)
			assert.Nil(t, e.ApprovedAt)
			require.NotNil(t, e.RejectedNote)
			assert.Equal(t, note, *e.RejectedNote)
		})
	}
}

func TestApply_ApproveLocks(t *testing.T) {
	for _, state := range []State{StatePending, StateSubmitted, StateRejected, StateApproved} {
		t.Run(string(state), func(t *testing.T) {
			e := entryIn(state, false)

			err := e.Apply(ActionApprove, "mgr-1", stateTestNow, nil)

			require.NoError(t, err)
			assert.Equal(t, StatusApproved, e.Status)
			assert.True(t, e.IsLocked)
			require.NotNil(t, e.ApprovedBy)
			assert.Equal(t, "mgr-1", *e.ApprovedBy)
			assert.Equal(t, stateTestNow, *e.ApprovedAt)
			assert.Nil(t, e.RejectedNote)
		})
	}
}

func TestApply_RejectNoteRequired(t *testing.T) {
	blank := "  \t "
	for _, note := range []*string{nil, &blank} {
		e := entryIn(StateSubmitted, false)
		err := e.Apply(ActionReject, "mgr-1", stateTestNow, note)
		assert.ErrorIs(t, err, ErrMissingNote)
		assert.Equal(t, StatusSubmitted, e.Status, "failed action must not mutate")
	}

	padded := "  too short  "
	e := entryIn(StateSubmitted, false)
	require.NoError(t, e.Apply(ActionReject, "mgr-1", stateTestNow, &padded))
	assert.Equal(t, "too short", *e.RejectedNote)
}

func TestApply_EditBlockedByLock(t *testing.T) {
	for _, state := range AllStates {
		e := entryIn(state, true)
		err := e.Apply(ActionEdit, "mgr-1", stateTestNow, nil)
		assert.ErrorIs(t, err, ErrLocked, "state %s", state)
	}

	e := entryIn(StateRejected, false)
	require.NoError(t, e.Apply(ActionEdit, "mgr-1", stateTestNow, nil))
	assert.Equal(t, StatusRejected, e.Status, "edit keeps status")
}

func TestReclock(t *testing.T) {
	e := entryIn(StatePending, false)
	e.BreakDeducted = 1800

	in := stateTestNow.Add(-9 * time.Hour)
	out := stateTestNow.Add(7 * time.Minute)
	require.NoError(t, e.Reclock(in, &out, "mgr-1", stateTestNow))

	assert.Equal(t, int64(9*3600+7*60), *e.Duration)
	assert.Equal(t, *e.RawDuration, *e.Duration)
	assert.Zero(t, e.BreakDeducted)
	assert.Equal(t, "mgr-1", *e.LastEditedBy)

	backwards := in.Add(-time.Minute)
	err := e.Reclock(in, &backwards, "mgr-1", stateTestNow)
	assert.ErrorIs(t, err, ErrNegativeDuration)
	assert.Equal(t, out, *e.ClockOut, "failed reclock must not mutate")

	require.NoError(t, e.Reclock(in, nil, "mgr-1", stateTestNow))
	assert.Nil(t, e.Duration)
	assert.True(t, e.IsOpen())
}

func TestErrorKinds(t *testing.T) {
	assert.True(t, IsValidation(ErrMissingNote))
	assert.True(t, IsAuthorization(ErrForbidden))
	assert.True(t, IsState(ErrLocked))
	assert.True(t, IsNotFound(ErrEntryNotFound))
	assert.False(t, IsState(ErrMissingNote))
	assert.False(t, IsValidation(ErrLocked))
}
