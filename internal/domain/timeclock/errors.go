package timeclock

import "errors"

// Timeclock domain errors
var (
	// Lookup errors
	ErrEntryNotFound       = errors.New("timeclock entry not found")
	ErrRulesConfigNotFound = errors.New("timeclock rules config not found")

	// Validation errors
	ErrNegativeDuration   = errors.New("clock-out cannot be before clock-in")
	ErrMissingNote        = errors.New("a rejection note is required")
	ErrCannotSubmitActive = errors.New("cannot submit an active entry")
	ErrAlreadyClockedIn   = errors.New("you already have an open timeclock entry")

	// Authorization errors
	ErrNotOwner          = errors.New("only the entry owner can perform this action")
	ErrForbidden         = errors.New("entry is outside your department scope")
	ErrMissingCapability = errors.New("missing required timeclock capability")

	// State errors
	ErrLocked            = errors.New("entry is locked")
	ErrClockOutRequired  = errors.New("cannot act on active entries")
	ErrInvalidState      = errors.New("entry is not in a valid state for this action")
	ErrAlreadyClockedOut = errors.New("entry has already been clocked out")
	ErrNotBulkApprovable = errors.New("only pending or submitted entries can be bulk approved")
)

// IsValidation reports whether err is an input problem the caller must fix.
func IsValidation(err error) bool {
	return errors.Is(err, ErrNegativeDuration) ||
		errors.Is(err, ErrMissingNote) ||
		errors.Is(err, ErrCannotSubmitActive) ||
		errors.Is(err, ErrAlreadyClockedIn)
}

// IsAuthorization reports whether err denies the actor, as opposed to the action.
func IsAuthorization(err error) bool {
	return errors.Is(err, ErrNotOwner) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrMissingCapability)
}

// IsState reports whether err is caused by the entry's current lifecycle state.
func IsState(err error) bool {
	return errors.Is(err, ErrLocked) ||
		errors.Is(err, ErrClockOutRequired) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrAlreadyClockedOut) ||
		errors.Is(err, ErrNotBulkApprovable)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntryNotFound) || errors.Is(err, ErrRulesConfigNotFound)
}
