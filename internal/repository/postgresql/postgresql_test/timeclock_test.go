package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/postgresql"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC)

func seedDirectory(t *testing.T) {
	db := testDB
	seedDepartment(t, db, "dept-eng", "Engineering")
	seedDepartment(t, db, "dept-ops", "Operations")
	eng, ops := "dept-eng", "dept-ops"
	seedUser(t, db, "u-ana", "Ana", "employee", &eng)
	seedUser(t, db, "u-budi", "Budi", "employee", &ops)
	seedUser(t, db, "u-mgr", "Mira", "manager", &eng)
	seedAssignment(t, db, "u-mgr", "dept-ops")
	seedAssignment(t, db, "u-mgr", "dept-eng")
}

func closedEntry(userID string, in time.Time, seconds int64) timeclock.Entry {
	out := in.Add(time.Duration(seconds) * time.Second)
	return timeclock.Entry{
		UserID:      userID,
		ClockIn:     in,
		ClockOut:    &out,
		RawDuration: &seconds,
		Duration:    &seconds,
		Status:      timeclock.StatusPending,
		CreatedAt:   in,
		UpdatedAt:   out,
	}
}

// ===== USER REPOSITORY =====

func TestUserRepository_GetByID(t *testing.T) {
	requireDB(t)
	seedDirectory(t)
	repo := postgresql.NewUserRepository(testDB)
	ctx := context.Background()

	u, err := repo.GetByID(ctx, "u-ana")
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.FullName)
	assert.Equal(t, user.RoleEmployee, u.Role)
	require.NotNil(t, u.DepartmentName)
	assert.Equal(t, "Engineering", *u.DepartmentName)

	_, err = repo.GetByID(ctx, "u-missing")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_ListManagedDepartmentIDs(t *testing.T) {
	requireDB(t)
	seedDirectory(t)
	repo := postgresql.NewUserRepository(testDB)
	ctx := context.Background()

	ids, err := repo.ListManagedDepartmentIDs(ctx, "u-mgr")
	require.NoError(t, err)
	assert.Equal(t, []string{"dept-eng", "dept-ops"}, ids)

	ids, err = repo.ListManagedDepartmentIDs(ctx, "u-ana")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

// ===== ENTRY REPOSITORY =====

func TestTimeclockRepository_CreateAndGet(t *testing.T) {
	requireDB(t)
	seedDirectory(t)
	repo := postgresql.NewTimeclockRepository(testDB)
	ctx := context.Background()

	created, err := repo.Create(ctx, timeclock.Entry{
		UserID:    "u-ana",
		ClockIn:   base,
		Status:    timeclock.StatusPending,
		CreatedAt: base,
		UpdatedAt: base,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.IsOpen())
	assert.Equal(t, timeclock.StatusPending, got.Status)
	require.NotNil(t, got.EmployeeName)
	assert.Equal(t, "Ana", *got.EmployeeName)
	assert.Equal(t, "dept-eng", got.OwnerDepartment())

	open, err := repo.GetOpenByUser(ctx, "u-ana")
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, created.ID, open.ID)

	none, err := repo.GetOpenByUser(ctx, "u-budi")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestTimeclockRepository_Create_SecondOpenSessionRejected(t *testing.T) {
	requireDB(t)
	seedDirectory(t)
	repo := postgresql.NewTimeclockRepository(testDB)
	ctx := context.Background()

	open := timeclock.Entry{UserID: "u-ana", ClockIn: base, Status: timeclock.StatusPending, CreatedAt: base, UpdatedAt: base}
	_, err := repo.Create(ctx, open)
	require.NoError(t, err)

	open.ClockIn = base.Add(time.Minute)
	_, err = repo.Create(ctx, open)
	assert.ErrorIs(t, err, timeclock.ErrAlreadyClockedIn)
}

func TestTimeclockRepository_GetByID_NotFound(t *testing.T) {
	requireDB(t)
	repo := postgresql.NewTimeclockRepository(testDB)

	_, err := repo.GetByID(context.Background(), "0194a1b2-0000-7000-8000-000000000000")
	assert.ErrorIs(t, err, timeclock.ErrEntryNotFound)

	_, err = repo.GetByID(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, timeclock.ErrEntryNotFound)
}

func TestTimeclockRepository_Update(t *testing.T) {
	requireDB(t)
	seedDirectory(t)
	repo := postgresql.NewTimeclockRepository(testDB)
	ctx := context.Background()

	created, err := repo.Create(ctx, timeclock.Entry{UserID: "u-ana", ClockIn: base, Status: timeclock.StatusPending, CreatedAt: base, UpdatedAt: base})
	require.NoError(t, err)

	out := base.Add(8 * time.Hour)
	raw := int64(8 * 3600)
	final := raw - 1800
	approver := "u-mgr"
	created.ClockOut = &out
	created.RawDuration = &raw
	created.BreakDeducted = 1800
	created.Duration = &final
	require.NoError(t, created.Apply(timeclock.ActionApprove, approver, out, nil))
	created.UpdatedAt = out

	require.NoError(t, repo.Update(ctx, created))

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, timeclock.StatusApproved, got.Status)
	assert.True(t, got.IsLocked)
	assert.Equal(t, final, got.DurationSeconds())
	assert.Equal(t, int64(1800), got.BreakDeducted)
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, approver, *got.ApprovedBy)

	created.ID = "0194a1b2-0000-7000-8000-000000000000"
	assert.ErrorIs(t, repo.Update(ctx, created), timeclock.ErrEntryNotFound)
}

func TestTimeclockRepository_ListByRange(t *testing.T) {
	requireDB(t)
	seedDirectory(t)
	repo := postgresql.NewTimeclockRepository(testDB)
	ctx := context.Background()

	for _, e := range []timeclock.Entry{
		closedEntry("u-ana", base, 3600),
		closedEntry("u-budi", base, 7200),
		closedEntry("u-ana", base.AddDate(0, 0, 30), 3600),
	} {
		_, err := repo.Create(ctx, e)
		require.NoError(t, err)
	}

	window := timeclock.EntryFilter{Start: base.Add(-time.Hour), End: base.AddDate(0, 0, 7)}

	all := window
	all.AllDepartments = true
	entries, err := repo.ListByRange(ctx, all)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	eng := window
	eng.DepartmentIDs = []string{"dept-eng"}
	entries, err = repo.ListByRange(ctx, eng)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "u-ana", entries[0].UserID)

	empty := window
	entries, err = repo.ListByRange(ctx, empty)
	require.NoError(t, err)
	assert.Empty(t, entries)

	budi := "u-budi"
	own := window
	own.AllDepartments = true
	own.UserID = &budi
	entries, err = repo.ListByRange(ctx, own)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(7200), entries[0].DurationSeconds())
}

// ===== CONFIG REPOSITORY =====

func TestRulesConfigRepository_GetOrCreateDefaults(t *testing.T) {
	requireDB(t)
	repo := postgresql.NewRulesConfigRepository(testDB)
	ctx := context.Background()

	rules, err := repo.GetOrCreateRules(ctx)
	require.NoError(t, err)
	assert.Equal(t, timeclock.RoundingNone, rules.RoundingMode)
	assert.NotEmpty(t, rules.ID)

	again, err := repo.GetOrCreateRules(ctx)
	require.NoError(t, err)
	assert.Equal(t, rules.ID, again.ID)

	ot, err := repo.GetOrCreateOvertime(ctx)
	require.NoError(t, err)
	require.NotNil(t, ot.DailyThresholdMinutes)
	assert.Equal(t, 480, *ot.DailyThresholdMinutes)
}

func TestRulesConfigRepository_Upsert(t *testing.T) {
	requireDB(t)
	seedDirectory(t)
	repo := postgresql.NewRulesConfigRepository(testDB)
	ctx := context.Background()

	rules, err := repo.GetOrCreateRules(ctx)
	require.NoError(t, err)

	editor := "u-mgr"
	rules.RoundingMode = timeclock.Rounding15Min
	rules.BreakDeductionEnabled = true
	rules.UpdatedBy = &editor
	saved, err := repo.UpsertRules(ctx, rules)
	require.NoError(t, err)
	assert.Equal(t, rules.ID, saved.ID)
	assert.Equal(t, timeclock.Rounding15Min, saved.RoundingMode)

	ot, err := repo.GetOrCreateOvertime(ctx)
	require.NoError(t, err)
	ot.DailyThresholdMinutes = nil
	ot.UpdatedBy = &editor
	savedOT, err := repo.UpsertOvertime(ctx, ot)
	require.NoError(t, err)
	assert.Nil(t, savedOT.DailyThresholdMinutes)
	require.NotNil(t, savedOT.WeeklyThresholdMinutes)
	assert.Equal(t, 2400, *savedOT.WeeklyThresholdMinutes)
}

// ===== AUDIT / TRANSACTIONS =====

func TestAuditRepository_Create(t *testing.T) {
	requireDB(t)
	repo := postgresql.NewAuditRepository(testDB)
	ctx := context.Background()

	after := "approved"
	err := repo.Create(ctx, audit.Event{
		Action:     audit.ActionApprove,
		ActorID:    "u-mgr",
		EntityType: "timeclock_entry",
		EntityID:   "0194a1b2-0000-7000-8000-000000000000",
		After:      &after,
		Metadata:   map[string]any{"note": "ok"},
		CreatedAt:  base,
	})
	require.NoError(t, err)

	var action, note string
	err = testDB.QueryRow(ctx, `SELECT action, metadata->>'note' FROM audit_logs`).Scan(&action, &note)
	require.NoError(t, err)
	assert.Equal(t, string(audit.ActionApprove), action)
	assert.Equal(t, "ok", note)
}

func TestWithTransaction_RollbackOnError(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := postgresql.NewAuditRepository(testDB)

	err := postgresql.WithTransaction(ctx, testDB, func(tx pgx.Tx) error {
		txCtx := postgresql.WithTx(ctx, tx)
		if err := repo.Create(txCtx, audit.Event{Action: audit.ActionEdit, ActorID: "u-mgr", EntityType: "timeclock_entry", CreatedAt: base}); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	var count int
	require.NoError(t, testDB.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs`).Scan(&count))
	assert.Equal(t, 0, count)
}
