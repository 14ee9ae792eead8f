package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// TimeLayout is the fixed-width UTC layout for every timestamp column.
// Fixed width keeps ORDER BY on TEXT columns chronological.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

// FormatTime renders t for storage.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime reads a stored timestamp. Rows written by older tooling may use
// RFC3339 or SQLite's CURRENT_TIMESTAMP format.
func ParseTime(s string) (time.Time, error) {
	formats := []string{
		TimeLayout,
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		t, err := time.Parse(f, s)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}

// Open opens the SQLite database at path with WAL mode, foreign keys and a busy timeout.
// PRE: path is a file path or ":memory:"
// POST: Returns a pinged connection pool
func Open(path string) (*sql.DB, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if path == ":memory:" {
		// each connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return db, nil
}

// migration is one forward-only schema step.
type migration struct {
	version     int
	description string
	up          func(ctx context.Context, tx *sql.Tx) error
}

// execAll runs statements in order.
func execAll(statements ...string) func(ctx context.Context, tx *sql.Tx) error {
	return func(ctx context.Context, tx *sql.Tx) error {
		for _, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	}
}

// addColumnIfMissing adds a column unless an earlier hand-made schema already has it.
func addColumnIfMissing(ctx context.Context, tx *sql.Tx, table, column, definition string) error {
	rows, err := tx.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return err
	}
	found := false
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return err
		}
		if name == column {
			found = true
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	if found {
		return nil
	}
	_, err = tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition))
	return err
}

// migrations is the ordered schema history. Never edit an applied step; append a new one.
var migrations = []migration{
	{
		version:     1,
		description: "baseline collections and admin credential",
		up: execAll(
			`CREATE TABLE IF NOT EXISTS booking (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				email TEXT NOT NULL,
				phone TEXT NOT NULL,
				created_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS inquiry (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				email TEXT NOT NULL,
				phone TEXT NOT NULL,
				message TEXT NOT NULL,
				status TEXT NOT NULL DEFAULT 'new',
				response TEXT NOT NULL DEFAULT '',
				responded_at TEXT,
				created_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS result (
				id TEXT PRIMARY KEY,
				player_phone TEXT NOT NULL,
				player_name TEXT NOT NULL DEFAULT '',
				file_url TEXT NOT NULL,
				uploaded_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS quiz_submission (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				phone TEXT NOT NULL,
				email TEXT NOT NULL,
				answers TEXT NOT NULL,
				score INTEGER NOT NULL,
				total INTEGER NOT NULL,
				submitted_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS admin_credential (
				username TEXT PRIMARY KEY,
				password_hash TEXT NOT NULL
			)`,
		),
	},
	{
		version:     2,
		description: "booking review columns",
		up: func(ctx context.Context, tx *sql.Tx) error {
			if err := addColumnIfMissing(ctx, tx, "booking", "status", "TEXT NOT NULL DEFAULT 'new'"); err != nil {
				return err
			}
			return addColumnIfMissing(ctx, tx, "booking", "notes", "TEXT NOT NULL DEFAULT ''")
		},
	},
	{
		version:     3,
		description: "app settings and lookup indexes",
		up: execAll(
			`CREATE TABLE IF NOT EXISTS app_setting (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_result_player_phone ON result(player_phone)`,
			`CREATE INDEX IF NOT EXISTS idx_booking_created_at ON booking(created_at)`,
			`CREATE INDEX IF NOT EXISTS idx_inquiry_created_at ON inquiry(created_at)`,
			`CREATE INDEX IF NOT EXISTS idx_quiz_submission_submitted_at ON quiz_submission(submitted_at)`,
		),
	},
}

// LatestSchemaVersion returns the version the migration chain ends at.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion returns the highest applied migration, or 0 for a fresh database.
// PRE: db is a valid database connection
// INVARIANT: database state is not mutated
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'`).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("check schema_version: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}
	var v sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema_version: %w", err)
	}
	return int(v.Int64), nil
}

// MigrateDB applies every pending migration, each in its own transaction.
// PRE: db is a valid database connection
// POST: SchemaVersion(db) == LatestSchemaVersion()
func MigrateDB(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := applyMigration(db, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.description, err)
		}
		slog.Info("schema_migrated", "version", m.version, "description", m.description)
	}
	return nil
}

func applyMigration(db *sql.DB, m migration) error {
	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := m.up(ctx, tx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_version (version, description, applied_at) VALUES (?, ?, ?)`,
		m.version, m.description, FormatTime(time.Now()),
	); err != nil {
		return err
	}
	return tx.Commit()
}
