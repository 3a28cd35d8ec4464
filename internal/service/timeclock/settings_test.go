package timeclock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRulesRequest(actorID string) timeclock.UpdateRulesRequest {
	return timeclock.UpdateRulesRequest{
		ActorID:                    actorID,
		RoundingMode:               "15min",
		BreakDeductionEnabled:      true,
		BreakThresholdHours:        6,
		BreakDeductionMinutes:      30,
		MinDurationEnabled:         true,
		MinDurationSeconds:         300,
		MinDurationAction:          "flag",
		AutoApproveEnabled:         true,
		AutoApproveMinHours:        1,
		AutoApproveMaxHours:        9,
		AutoApproveBlockOnOvertime: true,
	}
}

func TestSettingsService_GetRules_CreatesDefault(t *testing.T) {
	h := newHarness(t, testNow)
	h.addUser("adm-1", "Adi", user.RoleAdmin, nil)

	resp, err := h.settings.GetRules(context.Background(), "adm-1")

	require.NoError(t, err)
	assert.Equal(t, "none", resp.RoundingMode)
	assert.False(t, resp.BreakDeductionEnabled)
	assert.NotNil(t, h.configs.rules)
}

func TestSettingsService_RequiresCapability(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testNow)
	h.addUser("mgr-1", "Maya", user.RoleManager, &deptA)
	h.addUser("emp-1", "Ana", user.RoleEmployee, &deptA)

	for _, actor := range []string{"mgr-1", "emp-1"} {
		_, err := h.settings.GetRules(ctx, actor)
		assert.ErrorIs(t, err, timeclock.ErrMissingCapability)
		assert.ErrorIs(t, err, user.ErrSettingsAccessRequired)

		_, err = h.settings.UpdateOvertime(ctx, timeclock.UpdateOvertimeRequest{ActorID: actor})
		assert.ErrorIs(t, err, timeclock.ErrMissingCapability)
	}
}

func TestSettingsService_UpdateRules_InvalidatesCache(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testNow)
	h.addUser("own-1", "Oscar", user.RoleOwner, nil)

	before, err := h.settings.GetRules(ctx, "own-1")
	require.NoError(t, err)
	assert.Equal(t, "none", before.RoundingMode)

	updated, err := h.settings.UpdateRules(ctx, validRulesRequest("own-1"))
	require.NoError(t, err)
	assert.Equal(t, "15min", updated.RoundingMode)
	require.NotNil(t, updated.UpdatedBy)
	assert.Equal(t, "own-1", *updated.UpdatedBy)

	after, err := h.settings.GetRules(ctx, "own-1")
	require.NoError(t, err)
	assert.Equal(t, "15min", after.RoundingMode)
	assert.Equal(t, 2, h.configs.rulesReads, "write must force a reload")

	h.recorder.Wait()
	assert.Contains(t, h.audits.actions(), audit.ActionUpdateRules)
}

func TestSettingsService_UpdateRules_Validation(t *testing.T) {
	h := newHarness(t, testNow)
	h.addUser("own-1", "Oscar", user.RoleOwner, nil)

	req := validRulesRequest("own-1")
	req.RoundingMode = "10min"
	req.MinDurationAction = "ignore"
	req.AutoApproveMinHours = 5
	req.AutoApproveMaxHours = 4

	_, err := h.settings.UpdateRules(context.Background(), req)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "rounding_mode")
	assert.Contains(t, fields, "min_duration_action")
	assert.Contains(t, fields, "auto_approve_max_hours")
}

func TestSettingsService_UpdateOvertime_DisableThreshold(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testNow)
	h.addUser("adm-1", "Adi", user.RoleAdmin, nil)

	current, err := h.settings.GetOvertime(ctx, "adm-1")
	require.NoError(t, err)
	require.NotNil(t, current.DailyThresholdMinutes)
	assert.Equal(t, 480, *current.DailyThresholdMinutes)

	resp, err := h.settings.UpdateOvertime(ctx, timeclock.UpdateOvertimeRequest{
		ActorID:                "adm-1",
		DailyThresholdMinutes:  nil,
		WeeklyThresholdMinutes: intPtr(2400),
	})
	require.NoError(t, err)
	assert.Nil(t, resp.DailyThresholdMinutes)

	current, err = h.settings.GetOvertime(ctx, "adm-1")
	require.NoError(t, err)
	assert.Nil(t, current.DailyThresholdMinutes)
	require.NotNil(t, current.WeeklyThresholdMinutes)
	assert.Equal(t, 2400, *current.WeeklyThresholdMinutes)
}

func TestConfigStore_CachesWithinTTL(t *testing.T) {
	ctx := context.Background()
	var mu sync.Mutex
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	repo := &memConfigRepo{}
	store := NewConfigStore(repo, 5*time.Second, cache.WithClock(clock))

	for i := 0; i < 3; i++ {
		_, err := store.Rules(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, repo.rulesReads)

	mu.Lock()
	now = now.Add(6 * time.Second)
	mu.Unlock()

	_, err := store.Rules(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.rulesReads)
}

func TestConfigStore_LoadFailure(t *testing.T) {
	repo := &memConfigRepo{failReads: true}
	store := NewConfigStore(repo, time.Minute)

	_, err := store.Overtime(context.Background())
	assert.ErrorIs(t, err, errStoreDown)

	repo.failReads = false
	cfg, err := store.Overtime(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, cfg.DailyThresholdMinutes)
}
