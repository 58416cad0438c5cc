package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure Go SQLite driver
)

// Supported database/sql driver names.
const (
	// DriverCGO is mattn/go-sqlite3, the default.
	DriverCGO = "sqlite3"
	// DriverPureGo is modernc.org/sqlite, for builds without cgo.
	DriverPureGo = "sqlite"
)

// dateLayout is how Row.Date is written to the date column.
const dateLayout = "2006-01-02 15:04:05"

// ErrPersist is returned when the in-memory table cannot be copied to its
// destination file.
var ErrPersist = errors.New("persist database")

// Store defines the row store used by one ingestion run.
type Store interface {
	Insert(ctx context.Context, row *Row) (int64, error)
	Count(ctx context.Context) (int64, error)
	GetStats(ctx context.Context) (*Stats, error)
	HostCounts(ctx context.Context) ([]HostCount, error)
	Persist(ctx context.Context, path string) error
	Close() error
}

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	driver string
	ownsDB bool

	insertRow *sql.Stmt
}

// OpenMemory opens a fresh in-memory database with the given driver, creates
// the schema and returns a store that owns the connection.
func OpenMemory(driver string) (*SQLiteStore, error) {
	if driver != DriverCGO && driver != DriverPureGo {
		return nil, fmt.Errorf("unsupported sqlite driver %q", driver)
	}

	db, err := sql.Open(driver, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := NewMigrationRunner(db).Run(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	s, err := NewSQLiteStore(db, driver)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.ownsDB = true
	return s, nil
}

// NewSQLiteStore creates a new SQLiteStore from an already-opened and migrated database.
func NewSQLiteStore(db *sql.DB, driver string) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db, driver: driver}

	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.insertRow, err = s.db.Prepare(`
		INSERT INTO urls (date, url, host, description)
		VALUES (?, ?, ?, ?)
	`)
	return err
}

// Insert appends one row and returns its auto-assigned id. The id is also
// written back into row.ID.
func (s *SQLiteStore) Insert(ctx context.Context, row *Row) (int64, error) {
	res, err := s.insertRow.ExecContext(ctx,
		row.Date.Format(dateLayout), row.URL, row.Host, row.Description,
	)
	if err != nil {
		return 0, fmt.Errorf("insert row: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert row: %w", err)
	}
	row.ID = id
	return id, nil
}

// Count returns the number of rows in the urls table.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM urls").Scan(&n); err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return n, nil
}

// GetStats returns aggregate statistics about the urls table.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	total, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalRows = total

	// Oldest and newest (handle empty table)
	if stats.TotalRows > 0 {
		var oldest, newest sqlTime
		err = s.db.QueryRowContext(ctx, "SELECT MIN(date), MAX(date) FROM urls").Scan(&oldest, &newest)
		if err != nil {
			return nil, fmt.Errorf("date range: %w", err)
		}
		stats.OldestDate = oldest.Time
		stats.NewestDate = newest.Time
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT host, COUNT(*) AS cnt FROM urls GROUP BY host ORDER BY cnt DESC, host LIMIT 10",
	)
	if err != nil {
		return nil, fmt.Errorf("top hosts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var hc HostCount
		if err := rows.Scan(&hc.Host, &hc.Count); err != nil {
			return nil, err
		}
		stats.TopHosts = append(stats.TopHosts, hc)
	}

	return stats, rows.Err()
}

// HostCounts returns the row count of every distinct host, largest first.
func (s *SQLiteStore) HostCounts(ctx context.Context) ([]HostCount, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT host, COUNT(*) AS cnt FROM urls GROUP BY host ORDER BY cnt DESC, host",
	)
	if err != nil {
		return nil, fmt.Errorf("host counts: %w", err)
	}
	defer rows.Close()

	counts := []HostCount{}
	for rows.Next() {
		var hc HostCount
		if err := rows.Scan(&hc.Host, &hc.Count); err != nil {
			return nil, fmt.Errorf("scan host count: %w", err)
		}
		counts = append(counts, hc)
	}
	return counts, rows.Err()
}

// Close releases the prepared statements, and the database when the store
// opened it itself.
func (s *SQLiteStore) Close() error {
	if s.insertRow != nil {
		s.insertRow.Close()
	}
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}

// sqlTime scans a date column. Drivers hand DATETIME values back either as
// time.Time or as text depending on the driver and the expression.
type sqlTime struct {
	Time time.Time
}

func (t *sqlTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into date", src)
	}
}

func (t *sqlTime) parse(s string) error {
	parsed, err := parseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// parseTimestamp tries several common SQLite timestamp formats.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		dateLayout,
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05.999999999-07:00",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %s", s)
}
