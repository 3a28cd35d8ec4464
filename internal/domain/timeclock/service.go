package timeclock

import (
	"context"
)

// TimeclockService defines the clock-out pipeline, approval workflow and
// team summaries.
type TimeclockService interface {
	// ClockIn opens a new session for the actor
	ClockIn(ctx context.Context, req ClockInRequest) (EntryResponse, error)

	// ClockOut closes the actor's session and runs the clock-out pipeline
	ClockOut(ctx context.Context, req ClockOutRequest) (EntryResponse, error)

	// SubmitEntry hands a pending entry to the approvers (owner only)
	SubmitEntry(ctx context.Context, req SubmitEntryRequest) (EntryResponse, error)

	// DecideEntry approves or rejects an entry (in-scope approver)
	DecideEntry(ctx context.Context, req DecideEntryRequest) (EntryResponse, error)

	// EditEntry corrects clock times on an unlocked entry (in-scope editor)
	EditEntry(ctx context.Context, req EditEntryRequest) (EntryResponse, error)

	// BulkApprove approves entries one by one and reports per-item outcomes
	BulkApprove(ctx context.Context, req BulkApproveRequest) (BulkApproveResponse, error)

	// GetEntry retrieves a single entry visible to the actor
	GetEntry(ctx context.Context, req GetEntryRequest) (EntryResponse, error)

	// GetMyEntries lists the actor's own entries for a pay period
	GetMyEntries(ctx context.Context, req MyEntriesRequest) (MyEntriesResponse, error)

	// GetTeamSummary builds per-employee and per-department rollups
	GetTeamSummary(ctx context.Context, req TeamSummaryRequest) (TeamSummaryResponse, error)

	// ListPayPeriods returns the current and previous pay periods
	ListPayPeriods(ctx context.Context, count int) ([]PayPeriodResponse, error)
}

// SettingsService reads and writes the rules and overtime singletons.
type SettingsService interface {
	GetRules(ctx context.Context, actorID string) (RulesConfigResponse, error)
	UpdateRules(ctx context.Context, req UpdateRulesRequest) (RulesConfigResponse, error)
	GetOvertime(ctx context.Context, actorID string) (OvertimeConfigResponse, error)
	UpdateOvertime(ctx context.Context, req UpdateOvertimeRequest) (OvertimeConfigResponse, error)
}
