package timeclock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/cache"
)

// ConfigStore serves the rules and overtime singletons through a short TTL
// cache. Writes invalidate the local cache only; other processes keep their
// copy until it expires.
type ConfigStore struct {
	repo     timeclock.ConfigRepository
	rules    *cache.TTL[timeclock.RulesConfig]
	overtime *cache.TTL[timeclock.OvertimeConfig]
}

func NewConfigStore(repo timeclock.ConfigRepository, ttl time.Duration, opts ...cache.Option) *ConfigStore {
	return &ConfigStore{
		repo:     repo,
		rules:    cache.NewTTL[timeclock.RulesConfig](ttl, opts...),
		overtime: cache.NewTTL[timeclock.OvertimeConfig](ttl, opts...),
	}
}

// Rules returns the current rules, creating the default row on first access.
func (s *ConfigStore) Rules(ctx context.Context) (timeclock.RulesConfig, error) {
	cfg, err := s.rules.Get(ctx, s.repo.GetOrCreateRules)
	if err != nil {
		return timeclock.RulesConfig{}, fmt.Errorf("failed to load timeclock rules: %w", err)
	}
	return cfg, nil
}

// Overtime returns the current thresholds, creating the default row on first access.
func (s *ConfigStore) Overtime(ctx context.Context) (timeclock.OvertimeConfig, error) {
	cfg, err := s.overtime.Get(ctx, s.repo.GetOrCreateOvertime)
	if err != nil {
		return timeclock.OvertimeConfig{}, fmt.Errorf("failed to load overtime config: %w", err)
	}
	return cfg, nil
}

func (s *ConfigStore) SaveRules(ctx context.Context, cfg timeclock.RulesConfig) (timeclock.RulesConfig, error) {
	saved, err := s.repo.UpsertRules(ctx, cfg)
	if err != nil {
		return timeclock.RulesConfig{}, fmt.Errorf("failed to save timeclock rules: %w", err)
	}
	s.rules.Invalidate()
	slog.Info("Timeclock rules cache invalidated", "rounding_mode", saved.RoundingMode)
	return saved, nil
}

func (s *ConfigStore) SaveOvertime(ctx context.Context, cfg timeclock.OvertimeConfig) (timeclock.OvertimeConfig, error) {
	saved, err := s.repo.UpsertOvertime(ctx, cfg)
	if err != nil {
		return timeclock.OvertimeConfig{}, fmt.Errorf("failed to save overtime config: %w", err)
	}
	s.overtime.Invalidate()
	slog.Info("Overtime config cache invalidated")
	return saved, nil
}
