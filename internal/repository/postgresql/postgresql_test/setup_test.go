package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timeclock-backend-go/migrations"
)

// testDB is nil when TEST_DATABASE_URL is unset; integration tests skip then.
var testDB *database.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4, MinConns: 1})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to test database: %v\n", err)
		os.Exit(1)
	}
	if err := db.Migrate(ctx, migrations.FS); err != nil {
		fmt.Fprintf(os.Stderr, "failed to migrate test database: %v\n", err)
		os.Exit(1)
	}
	testDB = db

	code := m.Run()
	db.Close()
	os.Exit(code)
}

// requireDB skips t without a database and otherwise truncates every table.
func requireDB(t *testing.T) *database.DB {
	t.Helper()
	if testDB == nil {
		t.Skip("TEST_DATABASE_URL not set")
	}
	if err := truncateAllTables(context.Background(), testDB); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return testDB
}

func truncateAllTables(ctx context.Context, db *database.DB) error {
	tables := []string{
		"audit_logs",
		"timeclock_entries",
		"timeclock_rules_config",
		"overtime_config",
		"manager_assignments",
		"users",
		"departments",
	}
	for _, table := range tables {
		if _, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}
	return nil
}

func seedDepartment(t *testing.T, db *database.DB, id, name string) {
	t.Helper()
	_, err := db.Exec(context.Background(), `INSERT INTO departments (id, name) VALUES ($1, $2)`, id, name)
	if err != nil {
		t.Fatalf("seed department: %v", err)
	}
}

func seedUser(t *testing.T, db *database.DB, id, name, role string, departmentID *string) {
	t.Helper()
	_, err := db.Exec(context.Background(),
		`INSERT INTO users (id, full_name, email, role, department_id) VALUES ($1, $2, $3, $4, $5)`,
		id, name, id+"@example.com", role, departmentID)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func seedAssignment(t *testing.T, db *database.DB, userID, departmentID string) {
	t.Helper()
	_, err := db.Exec(context.Background(),
		`INSERT INTO manager_assignments (user_id, department_id) VALUES ($1, $2)`, userID, departmentID)
	if err != nil {
		t.Fatalf("seed assignment: %v", err)
	}
}
