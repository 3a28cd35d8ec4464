package timeclock

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/payperiod"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store unavailable")

// ===== USERS =====

type memUserRepo struct {
	mu          sync.Mutex
	users       map[string]user.User
	assignments map[string][]string
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		users:       make(map[string]user.User),
		assignments: make(map[string][]string),
	}
}

func (r *memUserRepo) add(u user.User) user.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return u
}

func (r *memUserRepo) assign(userID string, departmentIDs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assignments[userID] = append(r.assignments[userID], departmentIDs...)
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *memUserRepo) ListManagedDepartmentIDs(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.assignments[userID]...), nil
}

// ===== ENTRIES =====

type memEntryRepo struct {
	mu        sync.Mutex
	entries   map[string]timeclock.Entry
	users     *memUserRepo
	failOnIDs map[string]bool
	updates   int
}

func newMemEntryRepo(users *memUserRepo) *memEntryRepo {
	return &memEntryRepo{
		entries:   make(map[string]timeclock.Entry),
		users:     users,
		failOnIDs: make(map[string]bool),
	}
}

func (r *memEntryRepo) join(e timeclock.Entry) timeclock.Entry {
	u, err := r.users.GetByID(context.Background(), e.UserID)
	if err != nil {
		return e
	}
	name := u.FullName
	e.EmployeeName = &name
	e.DepartmentID = u.DepartmentID
	e.DepartmentName = u.DepartmentName
	return e
}

func (r *memEntryRepo) Create(_ context.Context, e timeclock.Entry) (timeclock.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.entries {
		if existing.UserID == e.UserID && existing.IsOpen() && e.IsOpen() {
			return timeclock.Entry{}, timeclock.ErrAlreadyClockedIn
		}
	}
	if e.ID == "" {
		e.ID = uuid.Must(uuid.NewV7()).String()
	}
	r.entries[e.ID] = e
	return e, nil
}

func (r *memEntryRepo) GetByID(_ context.Context, id string) (timeclock.Entry, error) {
	r.mu.Lock()
	e, ok := r.entries[id]
	r.mu.Unlock()
	if !ok {
		return timeclock.Entry{}, timeclock.ErrEntryNotFound
	}
	return r.join(e), nil
}

func (r *memEntryRepo) GetOpenByUser(_ context.Context, userID string) (*timeclock.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.UserID == userID && e.IsOpen() {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memEntryRepo) Update(_ context.Context, e timeclock.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOnIDs[e.ID] {
		return errStoreDown
	}
	if _, ok := r.entries[e.ID]; !ok {
		return timeclock.ErrEntryNotFound
	}
	e.EmployeeName, e.DepartmentID, e.DepartmentName = nil, nil, nil
	r.entries[e.ID] = e
	r.updates++
	return nil
}

func (r *memEntryRepo) ListByRange(_ context.Context, f timeclock.EntryFilter) ([]timeclock.Entry, error) {
	r.mu.Lock()
	all := make([]timeclock.Entry, 0, len(r.entries))
	for _, e := range r.entries {
		all = append(all, e)
	}
	r.mu.Unlock()

	depts := make(map[string]bool, len(f.DepartmentIDs))
	for _, d := range f.DepartmentIDs {
		depts[d] = true
	}

	var out []timeclock.Entry
	for _, e := range all {
		if e.ClockIn.Before(f.Start) || e.ClockIn.After(f.End) {
			continue
		}
		if f.UserID != nil && e.UserID != *f.UserID {
			continue
		}
		joined := r.join(e)
		if !f.AllDepartments && !depts[joined.OwnerDepartment()] {
			continue
		}
		out = append(out, joined)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClockIn.Before(out[j].ClockIn) })
	return out, nil
}

func (r *memEntryRepo) get(t *testing.T, id string) timeclock.Entry {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	require.True(t, ok, "entry %s not stored", id)
	return e
}

// seed stores a closed entry directly, bypassing the pipeline.
func (r *memEntryRepo) seed(userID string, clockIn time.Time, seconds int64, status timeclock.Status) timeclock.Entry {
	clockOut := clockIn.Add(time.Duration(seconds) * time.Second)
	raw, final := seconds, seconds
	e := timeclock.Entry{
		ID:          uuid.Must(uuid.NewV7()).String(),
		UserID:      userID,
		ClockIn:     clockIn,
		ClockOut:    &clockOut,
		RawDuration: &raw,
		Duration:    &final,
		Status:      status,
		IsLocked:    status == timeclock.StatusApproved,
		CreatedAt:   clockIn,
		UpdatedAt:   clockOut,
	}
	if status == timeclock.StatusRejected {
		note := "seeded"
		e.RejectedNote = &note
	}
	r.mu.Lock()
	r.entries[e.ID] = e
	r.mu.Unlock()
	return e
}

// ===== CONFIG =====

type memConfigRepo struct {
	mu           sync.Mutex
	rules        *timeclock.RulesConfig
	overtime     *timeclock.OvertimeConfig
	rulesReads   int
	overtimeRead int
	failReads    bool
}

func (r *memConfigRepo) GetOrCreateRules(_ context.Context) (timeclock.RulesConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rulesReads++
	if r.failReads {
		return timeclock.RulesConfig{}, errStoreDown
	}
	if r.rules == nil {
		cfg := timeclock.DefaultRulesConfig()
		cfg.ID = uuid.Must(uuid.NewV7()).String()
		r.rules = &cfg
	}
	return *r.rules, nil
}

func (r *memConfigRepo) UpsertRules(_ context.Context, cfg timeclock.RulesConfig) (timeclock.RulesConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rules != nil {
		cfg.ID = r.rules.ID
	} else {
		cfg.ID = uuid.Must(uuid.NewV7()).String()
	}
	cfg.UpdatedAt = time.Now().UTC()
	r.rules = &cfg
	return cfg, nil
}

func (r *memConfigRepo) GetOrCreateOvertime(_ context.Context) (timeclock.OvertimeConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overtimeRead++
	if r.failReads {
		return timeclock.OvertimeConfig{}, errStoreDown
	}
	if r.overtime == nil {
		cfg := timeclock.DefaultOvertimeConfig()
		cfg.ID = uuid.Must(uuid.NewV7()).String()
		r.overtime = &cfg
	}
	return *r.overtime, nil
}

func (r *memConfigRepo) UpsertOvertime(_ context.Context, cfg timeclock.OvertimeConfig) (timeclock.OvertimeConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.overtime != nil {
		cfg.ID = r.overtime.ID
	} else {
		cfg.ID = uuid.Must(uuid.NewV7()).String()
	}
	cfg.UpdatedAt = time.Now().UTC()
	r.overtime = &cfg
	return cfg, nil
}

// ===== AUDIT =====

type memAuditRepo struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *memAuditRepo) Create(_ context.Context, e audit.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *memAuditRepo) actions() []audit.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]audit.Action, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Action)
	}
	return out
}

// ===== HARNESS =====

var (
	deptA = "dept-a"
	deptB = "dept-b"
)

type harness struct {
	svc      *TimeclockServiceImpl
	settings *SettingsServiceImpl
	users    *memUserRepo
	entries  *memEntryRepo
	configs  *memConfigRepo
	audits   *memAuditRepo
	recorder *AuditRecorder
	now      time.Time
}

// newHarness builds a service whose clock reads now. The pay period anchor
// is 2025-01-06 with 14-day periods.
func newHarness(t *testing.T, now time.Time) *harness {
	t.Helper()

	users := newMemUserRepo()
	entries := newMemEntryRepo(users)
	configs := &memConfigRepo{}
	audits := &memAuditRepo{}
	recorder := NewAuditRecorder(audits)
	store := NewConfigStore(configs, time.Minute)

	calc, err := payperiod.NewCalculator(
		time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), 14, time.UTC,
		payperiod.WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)

	svc := NewTimeclockService(entries, users, store, calc, recorder, 6).(*TimeclockServiceImpl)
	svc.now = func() time.Time { return now }

	settings := NewSettingsService(users, store, recorder).(*SettingsServiceImpl)

	return &harness{
		svc:      svc,
		settings: settings,
		users:    users,
		entries:  entries,
		configs:  configs,
		audits:   audits,
		recorder: recorder,
		now:      now,
	}
}

func (h *harness) addUser(id, name string, role user.Role, dept *string) user.User {
	return h.users.add(user.User{
		ID:           id,
		FullName:     name,
		Email:        id + "@example.com",
		Role:         role,
		DepartmentID: dept,
	})
}

func (h *harness) setRules(cfg timeclock.RulesConfig) {
	h.configs.mu.Lock()
	defer h.configs.mu.Unlock()
	h.configs.rules = &cfg
}

func (h *harness) setOvertime(cfg timeclock.OvertimeConfig) {
	h.configs.mu.Lock()
	defer h.configs.mu.Unlock()
	h.configs.overtime = &cfg
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
