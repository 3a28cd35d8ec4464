package timeclock

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
)

type SettingsServiceImpl struct {
	user.UserRepository
	store *ConfigStore
	audit *AuditRecorder
}

func NewSettingsService(userRepository user.UserRepository, store *ConfigStore, recorder *AuditRecorder) timeclock.SettingsService {
	return &SettingsServiceImpl{
		UserRepository: userRepository,
		store:          store,
		audit:          recorder,
	}
}

// GetRules implements timeclock.SettingsService.
func (s *SettingsServiceImpl) GetRules(ctx context.Context, actorID string) (timeclock.RulesConfigResponse, error) {
	if err := s.requireSettingsAccess(ctx, actorID); err != nil {
		return timeclock.RulesConfigResponse{}, err
	}

	cfg, err := s.store.Rules(ctx)
	if err != nil {
		return timeclock.RulesConfigResponse{}, err
	}
	return toRulesConfigResponse(cfg), nil
}

// UpdateRules implements timeclock.SettingsService.
func (s *SettingsServiceImpl) UpdateRules(ctx context.Context, req timeclock.UpdateRulesRequest) (timeclock.RulesConfigResponse, error) {
	if err := req.Validate(); err != nil {
		return timeclock.RulesConfigResponse{}, err
	}
	if err := s.requireSettingsAccess(ctx, req.ActorID); err != nil {
		return timeclock.RulesConfigResponse{}, err
	}

	actorID := req.ActorID
	saved, err := s.store.SaveRules(ctx, timeclock.RulesConfig{
		RoundingMode:               timeclock.RoundingMode(req.RoundingMode),
		BreakDeductionEnabled:      req.BreakDeductionEnabled,
		BreakThresholdHours:        req.BreakThresholdHours,
		BreakDeductionMinutes:      req.BreakDeductionMinutes,
		MinDurationEnabled:         req.MinDurationEnabled,
		MinDurationSeconds:         req.MinDurationSeconds,
		MinDurationAction:          timeclock.MinDurationAction(req.MinDurationAction),
		AutoApproveEnabled:         req.AutoApproveEnabled,
		AutoApproveMinHours:        req.AutoApproveMinHours,
		AutoApproveMaxHours:        req.AutoApproveMaxHours,
		AutoApproveBlockOnOvertime: req.AutoApproveBlockOnOvertime,
		UpdatedBy:                  &actorID,
	})
	if err != nil {
		return timeclock.RulesConfigResponse{}, err
	}

	s.audit.Record(ctx, audit.Event{
		Action:     audit.ActionUpdateRules,
		ActorID:    req.ActorID,
		EntityType: "timeclock_rules",
		EntityID:   saved.ID,
		Metadata: map[string]any{
			"rounding_mode":        string(saved.RoundingMode),
			"break_enabled":        saved.BreakDeductionEnabled,
			"min_duration_enabled": saved.MinDurationEnabled,
			"auto_approve_enabled": saved.AutoApproveEnabled,
		},
	})

	return toRulesConfigResponse(saved), nil
}

// GetOvertime implements timeclock.SettingsService.
func (s *SettingsServiceImpl) GetOvertime(ctx context.Context, actorID string) (timeclock.OvertimeConfigResponse, error) {
	if err := s.requireSettingsAccess(ctx, actorID); err != nil {
		return timeclock.OvertimeConfigResponse{}, err
	}

	cfg, err := s.store.Overtime(ctx)
	if err != nil {
		return timeclock.OvertimeConfigResponse{}, err
	}
	return toOvertimeConfigResponse(cfg), nil
}

// UpdateOvertime implements timeclock.SettingsService.
func (s *SettingsServiceImpl) UpdateOvertime(ctx context.Context, req timeclock.UpdateOvertimeRequest) (timeclock.OvertimeConfigResponse, error) {
	if err := req.Validate(); err != nil {
		return timeclock.OvertimeConfigResponse{}, err
	}
	if err := s.requireSettingsAccess(ctx, req.ActorID); err != nil {
		return timeclock.OvertimeConfigResponse{}, err
	}

	actorID := req.ActorID
	saved, err := s.store.SaveOvertime(ctx, timeclock.OvertimeConfig{
		DailyThresholdMinutes:  req.DailyThresholdMinutes,
		WeeklyThresholdMinutes: req.WeeklyThresholdMinutes,
		UpdatedBy:              &actorID,
	})
	if err != nil {
		return timeclock.OvertimeConfigResponse{}, err
	}

	s.audit.Record(ctx, audit.Event{
		Action:     audit.ActionUpdateOvertime,
		ActorID:    req.ActorID,
		EntityType: "overtime_config",
		EntityID:   saved.ID,
		Metadata: map[string]any{
			"daily_threshold_minutes":  saved.DailyThresholdMinutes,
			"weekly_threshold_minutes": saved.WeeklyThresholdMinutes,
		},
	})

	return toOvertimeConfigResponse(saved), nil
}

func (s *SettingsServiceImpl) requireSettingsAccess(ctx context.Context, actorID string) error {
	actor, err := s.UserRepository.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to get actor: %w", err)
	}
	if !actor.Capabilities().CanManageTimeclockSettings() {
		return fmt.Errorf("%w: %w", timeclock.ErrMissingCapability, user.ErrSettingsAccessRequired)
	}
	return nil
}
