package timeclock

import (
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusSubmitted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

const FlagMinDuration = "min_duration"

// Entry is one clock-in/clock-out session. Durations are in seconds.
type Entry struct {
	ID            string
	UserID        string
	ClockIn       time.Time
	ClockOut      *time.Time
	RawDuration   *int64
	BreakDeducted int64
	Duration      *int64
	FlagReason    *string
	AutoApproved  bool
	Status        Status
	IsLocked      bool
	RejectedNote  *string
	ApprovedBy    *string
	ApprovedAt    *time.Time
	LastEditedBy  *string
	LastEditedAt  *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// DTO / Join
	EmployeeName   *string
	DepartmentID   *string
	DepartmentName *string
}

// IsOpen reports whether the session has not been clocked out yet.
func (e *Entry) IsOpen() bool {
	return e.ClockOut == nil
}

// DurationSeconds returns the final duration, zero while open.
func (e *Entry) DurationSeconds() int64 {
	if e.Duration == nil {
		return 0
	}
	return *e.Duration
}

// BulkApprovable reports whether the entry may be included in a bulk approval.
func (e *Entry) BulkApprovable() bool {
	return !e.IsOpen() && (e.Status == StatusPending || e.Status == StatusSubmitted)
}

// OwnerDepartment returns the department of the entry owner, empty when unassigned.
func (e *Entry) OwnerDepartment() string {
	if e.DepartmentID == nil {
		return ""
	}
	return *e.DepartmentID
}
