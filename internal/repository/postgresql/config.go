package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type rulesConfigRepository struct {
	db *database.DB
}

func NewRulesConfigRepository(db *database.DB) timeclock.ConfigRepository {
	return &rulesConfigRepository{db: db}
}

const rulesColumns = `
	id, rounding_mode, break_deduction_enabled, break_threshold_hours, break_deduction_minutes,
	min_duration_enabled, min_duration_seconds, min_duration_action,
	auto_approve_enabled, auto_approve_min_hours, auto_approve_max_hours, auto_approve_block_on_overtime,
	updated_by, created_at, updated_at
`

func scanRules(row pgx.Row) (timeclock.RulesConfig, error) {
	var cfg timeclock.RulesConfig
	var rounding, action string
	err := row.Scan(
		&cfg.ID, &rounding, &cfg.BreakDeductionEnabled, &cfg.BreakThresholdHours, &cfg.BreakDeductionMinutes,
		&cfg.MinDurationEnabled, &cfg.MinDurationSeconds, &action,
		&cfg.AutoApproveEnabled, &cfg.AutoApproveMinHours, &cfg.AutoApproveMaxHours, &cfg.AutoApproveBlockOnOvertime,
		&cfg.UpdatedBy, &cfg.CreatedAt, &cfg.UpdatedAt,
	)
	cfg.RoundingMode = timeclock.RoundingMode(rounding)
	cfg.MinDurationAction = timeclock.MinDurationAction(action)
	return cfg, err
}

// GetOrCreateRules implements timeclock.ConfigRepository. The default row is
// inserted in the same transaction as the read so concurrent first reads
// agree on one row.
func (r *rulesConfigRepository) GetOrCreateRules(ctx context.Context) (timeclock.RulesConfig, error) {
	var cfg timeclock.RulesConfig
	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := WithTx(ctx, tx)
		q := GetQuerier(txCtx, r.db)

		var err error
		cfg, err = scanRules(q.QueryRow(txCtx, `SELECT `+rulesColumns+` FROM timeclock_rules_config WHERE singleton`))
		if err == nil {
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		cfg, err = r.insertRules(txCtx, timeclock.DefaultRulesConfig())
		return err
	})
	if err != nil {
		return timeclock.RulesConfig{}, fmt.Errorf("failed to get timeclock rules: %w", err)
	}
	return cfg, nil
}

// UpsertRules implements timeclock.ConfigRepository.
func (r *rulesConfigRepository) UpsertRules(ctx context.Context, cfg timeclock.RulesConfig) (timeclock.RulesConfig, error) {
	saved, err := r.insertRules(ctx, cfg)
	if err != nil {
		return timeclock.RulesConfig{}, fmt.Errorf("failed to save timeclock rules: %w", err)
	}
	return saved, nil
}

func (r *rulesConfigRepository) insertRules(ctx context.Context, cfg timeclock.RulesConfig) (timeclock.RulesConfig, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return timeclock.RulesConfig{}, err
	}

	query := `
		INSERT INTO timeclock_rules_config (
			id, singleton, rounding_mode, break_deduction_enabled, break_threshold_hours, break_deduction_minutes,
			min_duration_enabled, min_duration_seconds, min_duration_action,
			auto_approve_enabled, auto_approve_min_hours, auto_approve_max_hours, auto_approve_block_on_overtime,
			updated_by
		) VALUES ($1, TRUE, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (singleton) DO UPDATE SET
			rounding_mode = EXCLUDED.rounding_mode,
			break_deduction_enabled = EXCLUDED.break_deduction_enabled,
			break_threshold_hours = EXCLUDED.break_threshold_hours,
			break_deduction_minutes = EXCLUDED.break_deduction_minutes,
			min_duration_enabled = EXCLUDED.min_duration_enabled,
			min_duration_seconds = EXCLUDED.min_duration_seconds,
			min_duration_action = EXCLUDED.min_duration_action,
			auto_approve_enabled = EXCLUDED.auto_approve_enabled,
			auto_approve_min_hours = EXCLUDED.auto_approve_min_hours,
			auto_approve_max_hours = EXCLUDED.auto_approve_max_hours,
			auto_approve_block_on_overtime = EXCLUDED.auto_approve_block_on_overtime,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()
		RETURNING ` + rulesColumns

	return scanRules(q.QueryRow(ctx, query,
		id.String(),
		string(cfg.RoundingMode),
		cfg.BreakDeductionEnabled,
		cfg.BreakThresholdHours,
		cfg.BreakDeductionMinutes,
		cfg.MinDurationEnabled,
		cfg.MinDurationSeconds,
		string(cfg.MinDurationAction),
		cfg.AutoApproveEnabled,
		cfg.AutoApproveMinHours,
		cfg.AutoApproveMaxHours,
		cfg.AutoApproveBlockOnOvertime,
		cfg.UpdatedBy,
	))
}

const overtimeColumns = `id, daily_threshold_minutes, weekly_threshold_minutes, updated_by, created_at, updated_at`

func scanOvertime(row pgx.Row) (timeclock.OvertimeConfig, error) {
	var cfg timeclock.OvertimeConfig
	err := row.Scan(&cfg.ID, &cfg.DailyThresholdMinutes, &cfg.WeeklyThresholdMinutes, &cfg.UpdatedBy, &cfg.CreatedAt, &cfg.UpdatedAt)
	return cfg, err
}

// GetOrCreateOvertime implements timeclock.ConfigRepository.
func (r *rulesConfigRepository) GetOrCreateOvertime(ctx context.Context) (timeclock.OvertimeConfig, error) {
	var cfg timeclock.OvertimeConfig
	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := WithTx(ctx, tx)
		q := GetQuerier(txCtx, r.db)

		var err error
		cfg, err = scanOvertime(q.QueryRow(txCtx, `SELECT `+overtimeColumns+` FROM overtime_config WHERE singleton`))
		if err == nil {
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		cfg, err = r.insertOvertime(txCtx, timeclock.DefaultOvertimeConfig())
		return err
	})
	if err != nil {
		return timeclock.OvertimeConfig{}, fmt.Errorf("failed to get overtime config: %w", err)
	}
	return cfg, nil
}

// UpsertOvertime implements timeclock.ConfigRepository.
func (r *rulesConfigRepository) UpsertOvertime(ctx context.Context, cfg timeclock.OvertimeConfig) (timeclock.OvertimeConfig, error) {
	saved, err := r.insertOvertime(ctx, cfg)
	if err != nil {
		return timeclock.OvertimeConfig{}, fmt.Errorf("failed to save overtime config: %w", err)
	}
	return saved, nil
}

func (r *rulesConfigRepository) insertOvertime(ctx context.Context, cfg timeclock.OvertimeConfig) (timeclock.OvertimeConfig, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return timeclock.OvertimeConfig{}, err
	}

	query := `
		INSERT INTO overtime_config (id, singleton, daily_threshold_minutes, weekly_threshold_minutes, updated_by)
		VALUES ($1, TRUE, $2, $3, $4)
		ON CONFLICT (singleton) DO UPDATE SET
			daily_threshold_minutes = EXCLUDED.daily_threshold_minutes,
			weekly_threshold_minutes = EXCLUDED.weekly_threshold_minutes,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()
		RETURNING ` + overtimeColumns

	return scanOvertime(q.QueryRow(ctx, query,
		id.String(),
		cfg.DailyThresholdMinutes,
		cfg.WeeklyThresholdMinutes,
		cfg.UpdatedBy,
	))
}
