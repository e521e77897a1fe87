package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TableStats maps each application table to its row count
type TableStats map[string]int64

// Stats counts rows per table
func Stats(ctx context.Context, db *sql.DB) (TableStats, error) {
	stats := make(TableStats, len(Tables))

	err := WithConn(ctx, db, func(conn *sql.Conn) error {
		for _, table := range Tables {
			var count int64
			// table names come from the fixed Tables list
			query := "SELECT COUNT(*) FROM " + table
			if err := conn.QueryRowContext(ctx, query).Scan(&count); err != nil {
				return fmt.Errorf("failed to count %s: %w", table, err)
			}
			stats[table] = count
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// Backup writes a consistent snapshot of the database to dest.
// dest must not exist yet.
func Backup(ctx context.Context, db *sql.DB, dest string) error {
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return fmt.Errorf("failed to resolve backup path: %w", err)
	}

	if _, err := os.Stat(absDest); err == nil {
		return fmt.Errorf("backup target already exists: %s", absDest)
	}

	if err := os.MkdirAll(filepath.Dir(absDest), 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	quoted := "'" + strings.ReplaceAll(absDest, "'", "''") + "'"

	return WithConn(ctx, db, func(conn *sql.Conn) error {
		if _, err := conn.ExecContext(ctx, "VACUUM INTO "+quoted); err != nil {
			return fmt.Errorf("failed to back up database to %s: %w", absDest, err)
		}
		return nil
	})
}

// Backup writes a consistent snapshot of this database to dest
func (db *DB) Backup(ctx context.Context, dest string) error {
	return Backup(ctx, db.conn, dest)
}

// Stats counts rows per table in this database
func (db *DB) Stats(ctx context.Context) (TableStats, error) {
	return Stats(ctx, db.conn)
}
