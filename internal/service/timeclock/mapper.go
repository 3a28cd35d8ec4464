package timeclock

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
)

// timePtrToString safely converts a *time.Time to an RFC3339 string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.UTC().Format(time.RFC3339)
	return &format
}

func toEntryResponse(e timeclock.Entry) timeclock.EntryResponse {
	resp := timeclock.EntryResponse{
		ID:                   e.ID,
		UserID:               e.UserID,
		DepartmentID:         e.DepartmentID,
		DepartmentName:       e.DepartmentName,
		ClockIn:              e.ClockIn.UTC().Format(time.RFC3339),
		ClockOut:             timePtrToString(e.ClockOut),
		RawDurationSeconds:   e.RawDuration,
		BreakDeductedSeconds: e.BreakDeducted,
		DurationSeconds:      e.Duration,
		FlagReason:           e.FlagReason,
		AutoApproved:         e.AutoApproved,
		Status:               string(e.Status),
		IsLocked:             e.IsLocked,
		RejectedNote:         e.RejectedNote,
		ApprovedBy:           e.ApprovedBy,
		ApprovedAt:           timePtrToString(e.ApprovedAt),
		LastEditedBy:         e.LastEditedBy,
		LastEditedAt:         timePtrToString(e.LastEditedAt),
		CreatedAt:            e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:            e.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if e.EmployeeName != nil {
		resp.EmployeeName = *e.EmployeeName
	}
	return resp
}

func toEntryResponses(entries []timeclock.Entry) []timeclock.EntryResponse {
	resp := make([]timeclock.EntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toEntryResponse(e))
	}
	return resp
}

func toRulesConfigResponse(cfg timeclock.RulesConfig) timeclock.RulesConfigResponse {
	return timeclock.RulesConfigResponse{
		RoundingMode:               string(cfg.RoundingMode),
		BreakDeductionEnabled:      cfg.BreakDeductionEnabled,
		BreakThresholdHours:        cfg.BreakThresholdHours,
		BreakDeductionMinutes:      cfg.BreakDeductionMinutes,
		MinDurationEnabled:         cfg.MinDurationEnabled,
		MinDurationSeconds:         cfg.MinDurationSeconds,
		MinDurationAction:          string(cfg.MinDurationAction),
		AutoApproveEnabled:         cfg.AutoApproveEnabled,
		AutoApproveMinHours:        cfg.AutoApproveMinHours,
		AutoApproveMaxHours:        cfg.AutoApproveMaxHours,
		AutoApproveBlockOnOvertime: cfg.AutoApproveBlockOnOvertime,
		UpdatedBy:                  cfg.UpdatedBy,
		UpdatedAt:                  cfg.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toOvertimeConfigResponse(cfg timeclock.OvertimeConfig) timeclock.OvertimeConfigResponse {
	resp := timeclock.OvertimeConfigResponse{
		DailyThresholdMinutes:  cfg.DailyThresholdMinutes,
		WeeklyThresholdMinutes: cfg.WeeklyThresholdMinutes,
		UpdatedBy:              cfg.UpdatedBy,
	}
	if !cfg.UpdatedAt.IsZero() {
		resp.UpdatedAt = cfg.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}
