package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type timeclockRepository struct {
	db *database.DB
}

func NewTimeclockRepository(db *database.DB) timeclock.EntryRepository {
	return &timeclockRepository{db: db}
}

const entryColumns = `
	e.id, e.user_id, e.clock_in, e.clock_out,
	e.raw_duration_seconds, e.break_deducted_seconds, e.duration_seconds,
	e.flag_reason, e.auto_approved, e.status, e.is_locked, e.rejected_note,
	e.approved_by, e.approved_at, e.last_edited_by, e.last_edited_at,
	e.created_at, e.updated_at,
	u.full_name, u.department_id, d.name
`

const entryJoins = `
	FROM timeclock_entries e
	JOIN users u ON u.id = e.user_id
	LEFT JOIN departments d ON d.id = u.department_id
`

func scanEntry(row pgx.Row) (timeclock.Entry, error) {
	var e timeclock.Entry
	var status string
	err := row.Scan(
		&e.ID, &e.UserID, &e.ClockIn, &e.ClockOut,
		&e.RawDuration, &e.BreakDeducted, &e.Duration,
		&e.FlagReason, &e.AutoApproved, &status, &e.IsLocked, &e.RejectedNote,
		&e.ApprovedBy, &e.ApprovedAt, &e.LastEditedBy, &e.LastEditedAt,
		&e.CreatedAt, &e.UpdatedAt,
		&e.EmployeeName, &e.DepartmentID, &e.DepartmentName,
	)
	e.Status = timeclock.Status(status)
	return e, err
}

// Create implements timeclock.EntryRepository.
func (r *timeclockRepository) Create(ctx context.Context, entry timeclock.Entry) (timeclock.Entry, error) {
	q := GetQuerier(ctx, r.db)

	if entry.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return timeclock.Entry{}, fmt.Errorf("failed to generate entry id: %w", err)
		}
		entry.ID = id.String()
	}

	query := `
		INSERT INTO timeclock_entries (id, user_id, clock_in, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		entry.ID,
		entry.UserID,
		entry.ClockIn,
		string(entry.Status),
		entry.CreatedAt,
		entry.UpdatedAt,
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return timeclock.Entry{}, timeclock.ErrAlreadyClockedIn
		}
		return timeclock.Entry{}, fmt.Errorf("failed to create timeclock entry: %w", err)
	}

	return entry, nil
}

// GetByID implements timeclock.EntryRepository.
func (r *timeclockRepository) GetByID(ctx context.Context, id string) (timeclock.Entry, error) {
	q := GetQuerier(ctx, r.db)

	// A malformed id cannot name a row.
	if _, err := uuid.Parse(id); err != nil {
		return timeclock.Entry{}, timeclock.ErrEntryNotFound
	}

	query := `SELECT ` + entryColumns + entryJoins + ` WHERE e.id = $1`

	entry, err := scanEntry(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeclock.Entry{}, timeclock.ErrEntryNotFound
		}
		return timeclock.Entry{}, fmt.Errorf("failed to get timeclock entry: %w", err)
	}

	return entry, nil
}

// GetOpenByUser implements timeclock.EntryRepository.
func (r *timeclockRepository) GetOpenByUser(ctx context.Context, userID string) (*timeclock.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + entryColumns + entryJoins + `
		WHERE e.user_id = $1 AND e.clock_out IS NULL
		ORDER BY e.clock_in DESC
		LIMIT 1`

	entry, err := scanEntry(q.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open timeclock entry: %w", err)
	}

	return &entry, nil
}

// Update implements timeclock.EntryRepository.
func (r *timeclockRepository) Update(ctx context.Context, entry timeclock.Entry) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE timeclock_entries SET
			clock_in = $2,
			clock_out = $3,
			raw_duration_seconds = $4,
			break_deducted_seconds = $5,
			duration_seconds = $6,
			flag_reason = $7,
			auto_approved = $8,
			status = $9,
			is_locked = $10,
			rejected_note = $11,
			approved_by = $12,
			approved_at = $13,
			last_edited_by = $14,
			last_edited_at = $15,
			updated_at = $16
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		entry.ID,
		entry.ClockIn,
		entry.ClockOut,
		entry.RawDuration,
		entry.BreakDeducted,
		entry.Duration,
		entry.FlagReason,
		entry.AutoApproved,
		string(entry.Status),
		entry.IsLocked,
		entry.RejectedNote,
		entry.ApprovedBy,
		entry.ApprovedAt,
		entry.LastEditedBy,
		entry.LastEditedAt,
		entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update timeclock entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timeclock.ErrEntryNotFound
	}

	return nil
}

// ListByRange implements timeclock.EntryRepository.
func (r *timeclockRepository) ListByRange(ctx context.Context, filter timeclock.EntryFilter) ([]timeclock.Entry, error) {
	q := GetQuerier(ctx, r.db)

	if !filter.AllDepartments && len(filter.DepartmentIDs) == 0 {
		return []timeclock.Entry{}, nil
	}

	conditions := []string{"e.clock_in >= $1", "e.clock_in <= $2"}
	args := []interface{}{filter.Start, filter.End}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conditions = append(conditions, fmt.Sprintf("e.user_id = $%d", len(args)))
	}
	if !filter.AllDepartments {
		args = append(args, filter.DepartmentIDs)
		conditions = append(conditions, fmt.Sprintf("u.department_id = ANY($%d)", len(args)))
	}

	query := `SELECT ` + entryColumns + entryJoins +
		` WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY u.full_name, e.clock_in`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list timeclock entries: %w", err)
	}
	defer rows.Close()

	entries := make([]timeclock.Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timeclock entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate timeclock entries: %w", err)
	}

	return entries, nil
}
