package timeclock

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// ENTRY DTOs
// ========================================

type ClockInRequest struct {
	ActorID string `json:"-"`
}

type ClockOutRequest struct {
	EntryID string `json:"-"`
	ActorID string `json:"-"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EntryID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid entry id",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SubmitEntryRequest struct {
	EntryID string `json:"-"`
	ActorID string `json:"-"`
}

func (r *SubmitEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EntryID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid entry id",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

type DecideEntryRequest struct {
	EntryID  string   `json:"-"`
	ActorID  string   `json:"-"`
	Decision Decision `json:"decision"`
	Note     *string  `json:"note,omitempty"`
}

// Validate checks the shape of the request. A missing rejection note is
// reported as ErrMissingNote by the state machine, not here.
func (r *DecideEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EntryID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid entry id",
		})
	}

	if r.Decision != DecisionApprove && r.Decision != DecisionReject {
		errs = append(errs, validator.ValidationError{
			Field:   "decision",
			Message: "decision must be approve or reject",
		})
	}

	if r.Note != nil && len(*r.Note) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "note",
			Message: "note must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EditEntryRequest struct {
	EntryID  string  `json:"-"`
	ActorID  string  `json:"-"`
	ClockIn  *string `json:"clock_in,omitempty"`  // RFC3339
	ClockOut *string `json:"clock_out,omitempty"` // RFC3339

	ParsedClockIn  *time.Time `json:"-"`
	ParsedClockOut *time.Time `json:"-"`
}

// Validate parses the optional timestamps into ParsedClockIn/ParsedClockOut.
func (r *EditEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EntryID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid entry id",
		})
	}

	if r.ClockIn == nil && r.ClockOut == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_in",
			Message: "at least one of clock_in or clock_out is required",
		})
	}

	if r.ClockIn != nil {
		if t, ok := validator.IsValidDateTime(*r.ClockIn); ok {
			utc := t.UTC()
			r.ParsedClockIn = &utc
		} else {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_in",
				Message: "clock_in must be an RFC3339 timestamp",
			})
		}
	}

	if r.ClockOut != nil {
		if t, ok := validator.IsValidDateTime(*r.ClockOut); ok {
			utc := t.UTC()
			r.ParsedClockOut = &utc
		} else {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_out",
				Message: "clock_out must be an RFC3339 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type GetEntryRequest struct {
	EntryID string `json:"-"`
	ActorID string `json:"-"`
}

func (r *GetEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EntryID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid entry id",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

const MaxBulkApprove = 500

type BulkApproveRequest struct {
	ActorID  string   `json:"-"`
	EntryIDs []string `json:"entry_ids"`
}

func (r *BulkApproveRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.EntryIDs) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "entry_ids",
			Message: "entry_ids is required",
		})
	} else if len(r.EntryIDs) > MaxBulkApprove {
		errs = append(errs, validator.ValidationError{
			Field:   "entry_ids",
			Message: "entry_ids must not exceed " + validator.Itoa(MaxBulkApprove) + " items",
		})
	} else if validator.HasDuplicates(r.EntryIDs) {
		errs = append(errs, validator.ValidationError{
			Field:   "entry_ids",
			Message: "entry_ids must not contain duplicates",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type BulkFailure struct {
	EntryID string `json:"entry_id"`
	Reason  string `json:"reason"`
}

// BulkApproveResponse is a partial-success result: the two lists together
// cover every requested id exactly once.
type BulkApproveResponse struct {
	Succeeded      []string      `json:"succeeded"`
	Failed         []BulkFailure `json:"failed"`
	SucceededCount int           `json:"succeeded_count"`
	FailedCount    int           `json:"failed_count"`
}

type EntryResponse struct {
	ID                   string  `json:"id"`
	UserID               string  `json:"user_id"`
	EmployeeName         string  `json:"employee_name"`
	DepartmentID         *string `json:"department_id,omitempty"`
	DepartmentName       *string `json:"department_name,omitempty"`
	ClockIn              string  `json:"clock_in"`
	ClockOut             *string `json:"clock_out,omitempty"`
	RawDurationSeconds   *int64  `json:"raw_duration_seconds,omitempty"`
	BreakDeductedSeconds int64   `json:"break_deducted_seconds"`
	DurationSeconds      *int64  `json:"duration_seconds,omitempty"`
	FlagReason           *string `json:"flag_reason,omitempty"`
	AutoApproved         bool    `json:"auto_approved"`
	Status               string  `json:"status"`
	IsLocked             bool    `json:"is_locked"`
	RejectedNote         *string `json:"rejected_note,omitempty"`
	ApprovedBy           *string `json:"approved_by,omitempty"`
	ApprovedAt           *string `json:"approved_at,omitempty"`
	LastEditedBy         *string `json:"last_edited_by,omitempty"`
	LastEditedAt         *string `json:"last_edited_at,omitempty"`
	CreatedAt            string  `json:"created_at"`
	UpdatedAt            string  `json:"updated_at"`
}

// ========================================
// SUMMARY DTOs
// ========================================

type MyEntriesRequest struct {
	ActorID     string `json:"-"`
	PeriodIndex int    `json:"period"`
}

func (r *MyEntriesRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PeriodIndex < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "period",
			Message: "period must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TeamSummaryRequest struct {
	ActorID      string  `json:"-"`
	PeriodIndex  int     `json:"period"`
	DepartmentID *string `json:"department_id,omitempty"`
}

func (r *TeamSummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PeriodIndex < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "period",
			Message: "period must not be negative",
		})
	}

	if r.DepartmentID != nil && validator.IsEmpty(*r.DepartmentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "department_id",
			Message: "department_id must not be empty",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// DayBreakdown is one calendar day of the overtime split.
type DayBreakdown struct {
	Date                 string `json:"date"` // YYYY-MM-DD
	TotalMinutes         int64  `json:"total_minutes"`
	DailyRegularMinutes  int64  `json:"daily_regular_minutes"`
	DailyOvertimeMinutes int64  `json:"daily_overtime_minutes"`
}

// OvertimeBreakdown is the regular/overtime split of one employee's period.
// RegularMinutes + OvertimeMinutes == TotalMinutes always holds.
type OvertimeBreakdown struct {
	RegularMinutes        int64          `json:"regular_minutes"`
	OvertimeMinutes       int64          `json:"overtime_minutes"`
	DailyOvertimeMinutes  int64          `json:"daily_overtime_minutes"`
	WeeklyOvertimeMinutes int64          `json:"weekly_overtime_minutes"`
	TotalMinutes          int64          `json:"total_minutes"`
	Days                  []DayBreakdown `json:"days"`
}

type StatusCounts struct {
	Open      int `json:"open"`
	Pending   int `json:"pending"`
	Submitted int `json:"submitted"`
	Approved  int `json:"approved"`
	Rejected  int `json:"rejected"`
}

// EmployeeSummary totals cover closed, non-rejected entries only. Rejected
// and open entries show up in StatusCounts and EntryCount but add no hours.
type EmployeeSummary struct {
	UserID         string            `json:"user_id"`
	EmployeeName   string            `json:"employee_name"`
	DepartmentID   *string           `json:"department_id,omitempty"`
	DepartmentName *string           `json:"department_name,omitempty"`
	Overtime       OvertimeBreakdown `json:"overtime"`
	RegularHours   decimal.Decimal   `json:"regular_hours"`
	OvertimeHours  decimal.Decimal   `json:"overtime_hours"`
	TotalHours     decimal.Decimal   `json:"total_hours"`
	StatusCounts   StatusCounts      `json:"status_counts"`
	EntryCount     int               `json:"entry_count"`
	FlaggedCount   int               `json:"flagged_count"`
}

type DepartmentSummary struct {
	DepartmentID    *string         `json:"department_id,omitempty"`
	DepartmentName  *string         `json:"department_name,omitempty"`
	EmployeeCount   int             `json:"employee_count"`
	RegularMinutes  int64           `json:"regular_minutes"`
	OvertimeMinutes int64           `json:"overtime_minutes"`
	TotalMinutes    int64           `json:"total_minutes"`
	TotalHours      decimal.Decimal `json:"total_hours"`
	StatusCounts    StatusCounts    `json:"status_counts"`
}

type PayPeriodResponse struct {
	Index     int    `json:"index"`
	StartDate string `json:"start_date"` // YYYY-MM-DD, inclusive
	EndDate   string `json:"end_date"`   // YYYY-MM-DD, inclusive
	IsCurrent bool   `json:"is_current"`
}

type TeamSummaryResponse struct {
	Period            PayPeriodResponse      `json:"period"`
	Employees         []EmployeeSummary      `json:"employees"`
	Departments       []DepartmentSummary    `json:"departments"`
	Entries           []EntryResponse        `json:"entries"`
	BulkApprovableIDs []string               `json:"bulk_approvable_ids"`
	Overtime          OvertimeConfigResponse `json:"overtime_config"`
}

type MyEntriesResponse struct {
	Period  PayPeriodResponse `json:"period"`
	Summary EmployeeSummary   `json:"summary"`
	Entries []EntryResponse   `json:"entries"`
}

// ========================================
// SETTINGS DTOs
// ========================================

type RulesConfigResponse struct {
	RoundingMode               string  `json:"rounding_mode"`
	BreakDeductionEnabled      bool    `json:"break_deduction_enabled"`
	BreakThresholdHours        float64 `json:"break_threshold_hours"`
	BreakDeductionMinutes      int     `json:"break_deduction_minutes"`
	MinDurationEnabled         bool    `json:"min_duration_enabled"`
	MinDurationSeconds         int64   `json:"min_duration_seconds"`
	MinDurationAction          string  `json:"min_duration_action"`
	AutoApproveEnabled         bool    `json:"auto_approve_enabled"`
	AutoApproveMinHours        float64 `json:"auto_approve_min_hours"`
	AutoApproveMaxHours        float64 `json:"auto_approve_max_hours"`
	AutoApproveBlockOnOvertime bool    `json:"auto_approve_block_on_overtime"`
	UpdatedBy                  *string `json:"updated_by,omitempty"`
	UpdatedAt                  string  `json:"updated_at"`
}

// UpdateRulesRequest replaces the whole rules singleton.
type UpdateRulesRequest struct {
	ActorID                    string  `json:"-"`
	RoundingMode               string  `json:"rounding_mode"`
	BreakDeductionEnabled      bool    `json:"break_deduction_enabled"`
	BreakThresholdHours        float64 `json:"break_threshold_hours"`
	BreakDeductionMinutes      int     `json:"break_deduction_minutes"`
	MinDurationEnabled         bool    `json:"min_duration_enabled"`
	MinDurationSeconds         int64   `json:"min_duration_seconds"`
	MinDurationAction          string  `json:"min_duration_action"`
	AutoApproveEnabled         bool    `json:"auto_approve_enabled"`
	AutoApproveMinHours        float64 `json:"auto_approve_min_hours"`
	AutoApproveMaxHours        float64 `json:"auto_approve_max_hours"`
	AutoApproveBlockOnOvertime bool    `json:"auto_approve_block_on_overtime"`
}

func (r *UpdateRulesRequest) Validate() error {
	var errs validator.ValidationErrors

	if !RoundingMode(r.RoundingMode).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "rounding_mode",
			Message: "rounding_mode must be one of none, 5min, 6min, 7min, 15min",
		})
	}

	if r.BreakThresholdHours < 0 || r.BreakThresholdHours > 24 {
		errs = append(errs, validator.ValidationError{
			Field:   "break_threshold_hours",
			Message: "break_threshold_hours must be between 0 and 24",
		})
	}

	if r.BreakDeductionMinutes < 0 || r.BreakDeductionMinutes > 240 {
		errs = append(errs, validator.ValidationError{
			Field:   "break_deduction_minutes",
			Message: "break_deduction_minutes must be between 0 and 240",
		})
	}

	if r.MinDurationSeconds < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "min_duration_seconds",
			Message: "min_duration_seconds must not be negative",
		})
	}

	if !MinDurationAction(r.MinDurationAction).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "min_duration_action",
			Message: "min_duration_action must be reject or flag",
		})
	}

	if r.AutoApproveMinHours < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "auto_approve_min_hours",
			Message: "auto_approve_min_hours must not be negative",
		})
	}

	if r.AutoApproveMaxHours < r.AutoApproveMinHours {
		errs = append(errs, validator.ValidationError{
			Field:   "auto_approve_max_hours",
			Message: "auto_approve_max_hours must not be less than auto_approve_min_hours",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type OvertimeConfigResponse struct {
	DailyThresholdMinutes  *int    `json:"daily_threshold_minutes"`
	WeeklyThresholdMinutes *int    `json:"weekly_threshold_minutes"`
	UpdatedBy              *string `json:"updated_by,omitempty"`
	UpdatedAt              string  `json:"updated_at,omitempty"`
}

// UpdateOvertimeRequest replaces both thresholds; null disables one.
type UpdateOvertimeRequest struct {
	ActorID                string `json:"-"`
	DailyThresholdMinutes  *int   `json:"daily_threshold_minutes"`
	WeeklyThresholdMinutes *int   `json:"weekly_threshold_minutes"`
}

func (r *UpdateOvertimeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.DailyThresholdMinutes != nil && (*r.DailyThresholdMinutes <= 0 || *r.DailyThresholdMinutes > 24*60) {
		errs = append(errs, validator.ValidationError{
			Field:   "daily_threshold_minutes",
			Message: "daily_threshold_minutes must be between 1 and 1440",
		})
	}

	if r.WeeklyThresholdMinutes != nil && *r.WeeklyThresholdMinutes <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "weekly_threshold_minutes",
			Message: "weekly_threshold_minutes must be positive",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
