package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-sqlite3"
)

// Persist copies the whole database to a file at path, replacing any
// existing file. The in-memory database is left untouched.
func (s *SQLiteStore) Persist(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: remove stale %s: %w", ErrPersist, path, err)
	}

	var err error
	switch s.driver {
	case DriverPureGo:
		err = s.vacuumInto(ctx, path)
	default:
		err = s.backupTo(ctx, path)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPersist, path, err)
	}
	return nil
}

// backupTo runs the SQLite online backup API from this store's connection
// into a new file-backed connection.
func (s *SQLiteStore) backupTo(ctx context.Context, path string) error {
	dest, err := sql.Open(DriverCGO, path)
	if err != nil {
		return fmt.Errorf("open destination: %w", err)
	}
	defer dest.Close()

	destConn, err := dest.Conn(ctx)
	if err != nil {
		return fmt.Errorf("connect destination: %w", err)
	}
	defer destConn.Close()

	srcConn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("connect source: %w", err)
	}
	defer srcConn.Close()

	return destConn.Raw(func(destDriverConn any) error {
		return srcConn.Raw(func(srcDriverConn any) error {
			to, ok := destDriverConn.(*sqlite3.SQLiteConn)
			if !ok {
				return fmt.Errorf("destination is %T, not a sqlite3 connection", destDriverConn)
			}
			from, ok := srcDriverConn.(*sqlite3.SQLiteConn)
			if !ok {
				return fmt.Errorf("source is %T, not a sqlite3 connection", srcDriverConn)
			}

			backup, err := to.Backup("main", from, "main")
			if err != nil {
				return fmt.Errorf("start backup: %w", err)
			}
			if _, err := backup.Step(-1); err != nil {
				backup.Finish() //nolint:errcheck
				return fmt.Errorf("backup step: %w", err)
			}
			return backup.Finish()
		})
	})
}

// vacuumInto writes a compacted copy of the database to path.
func (s *SQLiteStore) vacuumInto(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, "VACUUM INTO ?", path); err != nil {
		return fmt.Errorf("vacuum into: %w", err)
	}
	return nil
}
