package timeclock

import "time"

type RoundingMode string

const (
	RoundingNone  RoundingMode = "none"
	Rounding5Min  RoundingMode = "5min"
	Rounding6Min  RoundingMode = "6min"
	Rounding7Min  RoundingMode = "7min"
	Rounding15Min RoundingMode = "15min"
)

// IntervalSeconds returns the rounding interval, zero for none and unknown modes.
func (m RoundingMode) IntervalSeconds() int64 {
	switch m {
	case Rounding5Min:
		return 5 * 60
	case Rounding6Min:
		return 6 * 60
	case Rounding7Min:
		return 7 * 60
	case Rounding15Min:
		return 15 * 60
	default:
		return 0
	}
}

func (m RoundingMode) IsValid() bool {
	return m == RoundingNone || m.IntervalSeconds() > 0
}

type MinDurationAction string

const (
	MinDurationReject MinDurationAction = "reject"
	MinDurationFlag   MinDurationAction = "flag"
)

func (a MinDurationAction) IsValid() bool {
	return a == MinDurationReject || a == MinDurationFlag
}

// RulesConfig is the singleton clock-out policy.
type RulesConfig struct {
	ID           string
	RoundingMode RoundingMode

	// Break deduction
	BreakDeductionEnabled bool
	BreakThresholdHours   float64
	BreakDeductionMinutes int

	// Minimum duration
	MinDurationEnabled bool
	MinDurationSeconds int64
	MinDurationAction  MinDurationAction

	// Auto approval
	AutoApproveEnabled         bool
	AutoApproveMinHours        float64
	AutoApproveMaxHours        float64
	AutoApproveBlockOnOvertime bool

	UpdatedBy *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultRulesConfig is the policy inserted when no row exists yet: every
// stage is a pass-through until an administrator enables it.
func DefaultRulesConfig() RulesConfig {
	return RulesConfig{
		RoundingMode:               RoundingNone,
		BreakDeductionEnabled:      false,
		BreakThresholdHours:        6,
		BreakDeductionMinutes:      30,
		MinDurationEnabled:         false,
		MinDurationSeconds:         60,
		MinDurationAction:          MinDurationFlag,
		AutoApproveEnabled:         false,
		AutoApproveMinHours:        0,
		AutoApproveMaxHours:        12,
		AutoApproveBlockOnOvertime: true,
	}
}

// OvertimeConfig holds the overtime thresholds in minutes. Nil disables a threshold.
type OvertimeConfig struct {
	ID                     string
	DailyThresholdMinutes  *int
	WeeklyThresholdMinutes *int
	UpdatedBy              *string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func DefaultOvertimeConfig() OvertimeConfig {
	daily := 8 * 60
	weekly := 40 * 60
	return OvertimeConfig{
		DailyThresholdMinutes:  &daily,
		WeeklyThresholdMinutes: &weekly,
	}
}
