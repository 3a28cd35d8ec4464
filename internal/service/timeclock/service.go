package timeclock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/payperiod"
)

const maxPayPeriods = 52

type TimeclockServiceImpl struct {
	timeclock.EntryRepository
	user.UserRepository

	store              *ConfigStore
	scopes             *ScopeResolver
	periods            *payperiod.Calculator
	audit              *AuditRecorder
	defaultPeriodCount int
	now                func() time.Time
}

func NewTimeclockService(
	entryRepository timeclock.EntryRepository,
	userRepository user.UserRepository,
	store *ConfigStore,
	periods *payperiod.Calculator,
	recorder *AuditRecorder,
	defaultPeriodCount int,
) timeclock.TimeclockService {
	return &TimeclockServiceImpl{
		EntryRepository:    entryRepository,
		UserRepository:     userRepository,
		store:              store,
		scopes:             NewScopeResolver(userRepository),
		periods:            periods,
		audit:              recorder,
		defaultPeriodCount: defaultPeriodCount,
		now:                func() time.Time { return time.Now().UTC() },
	}
}

// ClockIn implements timeclock.TimeclockService.
func (s *TimeclockServiceImpl) ClockIn(ctx context.Context, req timeclock.ClockInRequest) (timeclock.EntryResponse, error) {
	actor, err := s.loadActor(ctx, req.ActorID)
	if err != nil {
		return timeclock.EntryResponse{}, err
	}

	open, err := s.EntryRepository.GetOpenByUser(ctx, actor.ID)
	if err != nil {
		return timeclock.EntryResponse{}, fmt.Errorf("failed to check open entry: %w", err)
	}
	if open != nil {
		return timeclock.EntryResponse{}, timeclock.ErrAlreadyClockedIn
	}

	now := s.now()
	created, err := s.EntryRepository.Create(ctx, timeclock.Entry{
		UserID:    actor.ID,
		ClockIn:   now,
		Status:    timeclock.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if errors.Is(err, timeclock.ErrAlreadyClockedIn) {
			return timeclock.EntryResponse{}, err
		}
		return timeclock.EntryResponse{}, fmt.Errorf("failed to create timeclock entry: %w", err)
	}

	name := actor.FullName
	created.EmployeeName = &name
	created.DepartmentID = actor.DepartmentID
	created.DepartmentName = actor.DepartmentName

	s.audit.entryEvent(ctx, audit.ActionClockIn, actor.ID, timeclock.Entry{}, created, nil)

	return toEntryResponse(created), nil
}

// ClockOut implements timeclock.TimeclockService.
func (s *TimeclockServiceImpl) ClockOut(ctx context.Context, req timeclock.ClockOutRequest) (timeclock.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timeclock.EntryResponse{}, err
	}

	entry, err := s.getEntry(ctx, req.EntryID)
	if err != nil {
		return timeclock.EntryResponse{}, err
	}
	if entry.UserID != req.ActorID {
		return timeclock.EntryResponse{}, timeclock.ErrNotOwner
	}
	if !entry.IsOpen() {
		return timeclock.EntryResponse{}, timeclock.ErrAlreadyClockedOut
	}

	rules, err := s.store.Rules(ctx)
	if err != nil {
		return timeclock.EntryResponse{}, err
	}
	overtime, err := s.store.Overtime(ctx)
	if err != nil {
		return timeclock.EntryResponse{}, err
	}

	now := s.now()
	result, err := RunPipeline(PipelineInput{
		RawSeconds: int64(now.Sub(entry.ClockIn) / time.Second),
		UserID:     entry.UserID,
		Rules:      rules,
		Overtime:   overtime,
	})
	if err != nil {
		return timeclock.EntryResponse{}, err
	}

	before := entry
	applyPipeline(&entry, result, now)

	if err := s.EntryRepository.Update(ctx, entry); err != nil {
		return timeclock.EntryResponse{}, fmt.Errorf("failed to update timeclock entry: %w", err)
	}

	switch {
	case result.Status == timeclock.StatusRejected:
		slog.Info("Timeclock entry auto-rejected", "entry_id", entry.ID, "user_id", entry.UserID, "duration_seconds", result.Duration)
	case result.AutoApproved:
		slog.Info("Timeclock entry auto-approved", "entry_id", entry.ID, "user_id", entry.UserID, "duration_seconds", result.Duration)
	case result.FlagReason != nil:
		slog.Info("Timeclock entry flagged", "entry_id", entry.ID, "user_id", entry.UserID, "flag", *result.FlagReason)
	}

	s.audit.entryEvent(ctx, audit.ActionClockOut, req.ActorID, before, entry, map[string]any{
		"raw_duration_seconds": result.RawDuration,
		"duration_seconds":     result.Duration,
		"auto_approved":        result.AutoApproved,
	})

	return toEntryResponse(entry), nil
}

func applyPipeline(entry *timeclock.Entry, result PipelineResult, clockOut time.Time) {
	raw := result.RawDuration
	final := result.Duration
	entry.ClockOut = &clockOut
	entry.RawDuration = &raw
	entry.BreakDeducted = result.BreakDeducted
	entry.Duration = &final
	entry.FlagReason = result.FlagReason
	entry.AutoApproved = result.AutoApproved
	entry.Status = result.Status
	entry.RejectedNote = result.RejectedNote
	entry.IsLocked = false
	entry.ApprovedBy = nil
	entry.ApprovedAt = nil
	if result.AutoApproved {
		// Auto-approval locks like a manual approval, with no approver.
		entry.IsLocked = true
		approvedAt := clockOut
		entry.ApprovedAt = &approvedAt
	}
	entry.UpdatedAt = clockOut
}

// SubmitEntry implements timeclock.TimeclockService.
func (s *TimeclockServiceImpl) SubmitEntry(ctx context.Context, req timeclock.SubmitEntryRequest) (timeclock.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timeclock.EntryResponse{}, err
	}

	entry, err := s.getEntry(ctx, req.EntryID)
	if err != nil {
		return timeclock.EntryResponse{}, err
	}
	if entry.UserID != req.ActorID {
		return timeclock.EntryResponse{}, timeclock.ErrNotOwner
	}

	before := entry
	now := s.now()
	if err := entry.Apply(timeclock.ActionSubmit, req.ActorID, now, nil); err != nil {
		return timeclock.EntryResponse{}, err
	}
	entry.UpdatedAt = now

	if err := s.EntryRepository.Update(ctx, entry); err != nil {
		return timeclock.EntryResponse{}, fmt.Errorf("failed to update timeclock entry: %w", err)
	}

	s.audit.entryEvent(ctx, audit.ActionSubmit, req.ActorID, before, entry, nil)

	return toEntryResponse(entry), nil
}

// DecideEntry implements timeclock.TimeclockService.
func (s *TimeclockServiceImpl) DecideEntry(ctx context.Context, req timeclock.DecideEntryRequest) (timeclock.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timeclock.EntryResponse{}, err
	}

	actor, err := s.loadActor(ctx, req.ActorID)
	if err != nil {
		return timeclock.EntryResponse{}, err
	}
	if !actor.Capabilities().CanApproveEntries() {
		return timeclock.EntryResponse{}, timeclock.ErrMissingCapability
	}

	entry, err := s.getEntry(ctx, req.EntryID)
	if err != nil {
		return timeclock.EntryResponse{}, err
	}
	if err := s.checkScope(ctx, actor, entry); err != nil {
		return timeclock.EntryResponse{}, err
	}

	action := timeclock.ActionApprove
	auditAction := audit.ActionApprove
	if req.Decision == timeclock.DecisionReject {
		action = timeclock.ActionReject
		auditAction = audit.ActionReject
	}

	before := entry
	now := s.now()
	if err := entry.Apply(action, actor.ID, now, req.Note); err != nil {
		return timeclock.EntryResponse{}, err
	}
	entry.UpdatedAt = now

	if err := s.EntryRepository.Update(ctx, entry); err != nil {
		return timeclock.EntryResponse{}, fmt.Errorf("failed to update timeclock entry: %w", err)
	}

	var meta map[string]any
	if entry.RejectedNote != nil {
		meta = map[string]any{"note": *entry.RejectedNote}
	}
	s.audit.entryEvent(ctx, auditAction, actor.ID, before, entry, meta)

	return toEntryResponse(entry), nil
}

// EditEntry implements timeclock.TimeclockService.
func (s *TimeclockServiceImpl) EditEntry(ctx context.Context, req timeclock.EditEntryRequest) (timeclock.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timeclock.EntryResponse{}, err
	}

	entry, err := s.getEntry(ctx, req.EntryID)
	if err != nil {
		return timeclock.EntryResponse{}, err
	}
	// A locked entry reports Locked whoever asks.
	if entry.IsLocked {
		return timeclock.EntryResponse{}, timeclock.ErrLocked
	}

	actor, err := s.loadActor(ctx, req.ActorID)
	if err != nil {
		return timeclock.EntryResponse{}, err
	}
	if !actor.Capabilities().CanEditTeamEntries() {
		return timeclock.EntryResponse{}, timeclock.ErrMissingCapability
	}
	if err := s.checkScope(ctx, actor, entry); err != nil {
		return timeclock.EntryResponse{}, err
	}

	before := entry
	now := s.now()
	if err := entry.Apply(timeclock.ActionEdit, actor.ID, now, nil); err != nil {
		return timeclock.EntryResponse{}, err
	}

	clockIn := entry.ClockIn
	if req.ParsedClockIn != nil {
		clockIn = *req.ParsedClockIn
	}
	clockOut := entry.ClockOut
	if req.ParsedClockOut != nil {
		clockOut = req.ParsedClockOut
	}
	if err := entry.Reclock(clockIn, clockOut, actor.ID, now); err != nil {
		return timeclock.EntryResponse{}, err
	}
	entry.UpdatedAt = now

	if err := s.EntryRepository.Update(ctx, entry); err != nil {
		return timeclock.EntryResponse{}, fmt.Errorf("failed to update timeclock entry: %w", err)
	}

	s.audit.entryEvent(ctx, audit.ActionEdit, actor.ID, before, entry, map[string]any{
		"clock_in":  clockIn.Format(time.RFC3339),
		"clock_out": timePtrToString(clockOut),
	})

	return toEntryResponse(entry), nil
}

// BulkApprove implements timeclock.TimeclockService. Each entry is approved
// in its own write; a failure on one id does not undo the others.
func (s *TimeclockServiceImpl) BulkApprove(ctx context.Context, req timeclock.BulkApproveRequest) (timeclock.BulkApproveResponse, error) {
	if err := req.Validate(); err != nil {
		return timeclock.BulkApproveResponse{}, err
	}

	actor, err := s.loadActor(ctx, req.ActorID)
	if err != nil {
		return timeclock.BulkApproveResponse{}, err
	}
	if !actor.Capabilities().CanApproveEntries() {
		return timeclock.BulkApproveResponse{}, timeclock.ErrMissingCapability
	}

	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return timeclock.BulkApproveResponse{}, err
	}

	resp := timeclock.BulkApproveResponse{
		Succeeded: make([]string, 0, len(req.EntryIDs)),
		Failed:    make([]timeclock.BulkFailure, 0),
	}

	for _, id := range req.EntryIDs {
		if err := s.approveOne(ctx, actor, scope, id); err != nil {
			slog.Warn("Bulk approval item failed", "entry_id", id, "actor_id", actor.ID, "error", err)
			resp.Failed = append(resp.Failed, timeclock.BulkFailure{EntryID: id, Reason: err.Error()})
			continue
		}
		resp.Succeeded = append(resp.Succeeded, id)
	}

	resp.SucceededCount = len(resp.Succeeded)
	resp.FailedCount = len(resp.Failed)

	s.audit.Record(ctx, audit.Event{
		Action:     audit.ActionBulkApprove,
		ActorID:    actor.ID,
		EntityType: "timeclock_entry",
		Metadata: map[string]any{
			"succeeded": resp.SucceededCount,
			"failed":    resp.FailedCount,
		},
	})

	return resp, nil
}

func (s *TimeclockServiceImpl) approveOne(ctx context.Context, actor user.User, scope Scope, id string) error {
	entry, err := s.EntryRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !scope.Includes(entry.OwnerDepartment()) {
		return timeclock.ErrForbidden
	}
	if !entry.BulkApprovable() {
		return timeclock.ErrNotBulkApprovable
	}

	before := entry
	now := s.now()
	if err := entry.Apply(timeclock.ActionApprove, actor.ID, now, nil); err != nil {
		return err
	}
	entry.UpdatedAt = now

	if err := s.EntryRepository.Update(ctx, entry); err != nil {
		return fmt.Errorf("failed to update timeclock entry: %w", err)
	}

	s.audit.entryEvent(ctx, audit.ActionApprove, actor.ID, before, entry, map[string]any{"bulk": true})
	return nil
}

// GetEntry implements timeclock.TimeclockService.
func (s *TimeclockServiceImpl) GetEntry(ctx context.Context, req timeclock.GetEntryRequest) (timeclock.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timeclock.EntryResponse{}, err
	}

	entry, err := s.getEntry(ctx, req.EntryID)
	if err != nil {
		return timeclock.EntryResponse{}, err
	}
	if entry.UserID == req.ActorID {
		return toEntryResponse(entry), nil
	}

	actor, err := s.loadActor(ctx, req.ActorID)
	if err != nil {
		return timeclock.EntryResponse{}, err
	}
	if !actor.Capabilities().CanSeeOthers() {
		return timeclock.EntryResponse{}, timeclock.ErrForbidden
	}
	if err := s.checkScope(ctx, actor, entry); err != nil {
		return timeclock.EntryResponse{}, err
	}

	return toEntryResponse(entry), nil
}

// ListPayPeriods implements timeclock.TimeclockService. A non-positive count
// falls back to the configured default.
func (s *TimeclockServiceImpl) ListPayPeriods(ctx context.Context, count int) ([]timeclock.PayPeriodResponse, error) {
	if count <= 0 {
		count = s.defaultPeriodCount
	}
	if count > maxPayPeriods {
		count = maxPayPeriods
	}

	periods, err := s.periods.Periods(count)
	if err != nil {
		return nil, fmt.Errorf("failed to compute pay periods: %w", err)
	}

	resp := make([]timeclock.PayPeriodResponse, 0, len(periods))
	for _, p := range periods {
		resp = append(resp, toPayPeriodResponse(p))
	}
	return resp, nil
}

func (s *TimeclockServiceImpl) loadActor(ctx context.Context, actorID string) (user.User, error) {
	actor, err := s.UserRepository.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, err
		}
		return user.User{}, fmt.Errorf("failed to get actor: %w", err)
	}
	return actor, nil
}

func (s *TimeclockServiceImpl) getEntry(ctx context.Context, id string) (timeclock.Entry, error) {
	entry, err := s.EntryRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, timeclock.ErrEntryNotFound) {
			return timeclock.Entry{}, err
		}
		return timeclock.Entry{}, fmt.Errorf("failed to get timeclock entry: %w", err)
	}
	return entry, nil
}

// checkScope fails with ErrForbidden when the entry owner's department is
// outside the actor's scope.
func (s *TimeclockServiceImpl) checkScope(ctx context.Context, actor user.User, entry timeclock.Entry) error {
	scope, err := s.scopes.Resolve(ctx, actor)
	if err != nil {
		return err
	}
	if !scope.Includes(entry.OwnerDepartment()) {
		return timeclock.ErrForbidden
	}
	return nil
}
