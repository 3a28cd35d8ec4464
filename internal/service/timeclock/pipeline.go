package timeclock

import (
	"fmt"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
)

// PipelineInput is everything the clock-out pipeline needs. It performs no I/O.
type PipelineInput struct {
	RawSeconds int64
	UserID     string
	Rules      timeclock.RulesConfig
	Overtime   timeclock.OvertimeConfig
}

// PipelineResult holds the computed fields to persist on the entry.
type PipelineResult struct {
	RawDuration   int64
	BreakDeducted int64
	Duration      int64
	FlagReason    *string
	AutoApproved  bool
	Status        timeclock.Status
	RejectedNote  *string
}

// RunPipeline applies break deduction, rounding, the minimum-duration check
// and auto-approval, in that order.
func RunPipeline(in PipelineInput) (PipelineResult, error) {
	if in.RawSeconds < 0 {
		return PipelineResult{}, timeclock.ErrNegativeDuration
	}

	result := PipelineResult{
		RawDuration: in.RawSeconds,
		Status:      timeclock.StatusPending,
	}

	adjusted, deducted := DeductBreak(in.RawSeconds, in.Rules)
	result.BreakDeducted = deducted
	result.Duration = Round(adjusted, in.Rules.RoundingMode)

	if below, note := checkMinDuration(result.Duration, in.Rules); below {
		switch in.Rules.MinDurationAction {
		case timeclock.MinDurationReject:
			result.Status = timeclock.StatusRejected
			result.RejectedNote = &note
			return result, nil
		default:
			flag := timeclock.FlagMinDuration
			result.FlagReason = &flag
			return result, nil
		}
	}

	if autoApprove(result.Duration, in.Rules, in.Overtime) {
		result.AutoApproved = true
		result.Status = timeclock.StatusApproved
	}

	return result, nil
}

// DeductBreak subtracts the configured break when raw exceeds the threshold.
// The adjusted value never goes below zero.
func DeductBreak(raw int64, rules timeclock.RulesConfig) (adjusted, deducted int64) {
	if !rules.BreakDeductionEnabled {
		return raw, 0
	}
	if float64(raw) <= rules.BreakThresholdHours*3600 {
		return raw, 0
	}

	deducted = int64(rules.BreakDeductionMinutes) * 60
	adjusted = raw - deducted
	if adjusted < 0 {
		adjusted = 0
	}
	return adjusted, deducted
}

// Round rounds seconds to the nearest multiple of the mode's interval, with
// halves going up. Unknown modes and "none" return the input.
func Round(seconds int64, mode timeclock.RoundingMode) int64 {
	interval := mode.IntervalSeconds()
	if interval <= 0 || seconds <= 0 {
		return seconds
	}

	remainder := seconds % interval
	if remainder*2 >= interval {
		return seconds - remainder + interval
	}
	return seconds - remainder
}

func checkMinDuration(duration int64, rules timeclock.RulesConfig) (bool, string) {
	if !rules.MinDurationEnabled || duration >= rules.MinDurationSeconds {
		return false, ""
	}
	note := fmt.Sprintf("Auto-rejected: duration (%dm) below minimum threshold (%dm)",
		duration/60, rules.MinDurationSeconds/60)
	return true, note
}

func autoApprove(duration int64, rules timeclock.RulesConfig, overtime timeclock.OvertimeConfig) bool {
	if !rules.AutoApproveEnabled {
		return false
	}

	hours := float64(duration) / 3600
	if hours < rules.AutoApproveMinHours || hours > rules.AutoApproveMaxHours {
		return false
	}

	// Same-entry check only; period totals are not consulted.
	if rules.AutoApproveBlockOnOvertime && overtime.DailyThresholdMinutes != nil {
		if duration > int64(*overtime.DailyThresholdMinutes)*60 {
			return false
		}
	}

	return true
}
