// Package reliability keeps local and remote database backups and runs
// periodic database maintenance.
package reliability

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aristath/alpha/internal/database"
	"github.com/rs/zerolog"
)

const (
	backupPrefix    = "alpha-backup-"
	backupTimestamp = "2006-01-02-150405"
	localSuffix     = ".db"

	// minBackupsToKeep survive rotation regardless of age
	minBackupsToKeep = 3
)

// BackupInfo describes one stored backup
type BackupInfo struct {
	Filename  string    `json:"filename"`
	Path      string    `json:"path,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	SizeBytes int64     `json:"size_bytes"`
	AgeHours  int64     `json:"age_hours"`
	Checksum  string    `json:"checksum,omitempty"`
}

// BackupService writes timestamped snapshots of the database to a directory
type BackupService struct {
	db  *sql.DB
	dir string
	now func() time.Time
	log zerolog.Logger
}

// NewBackupService creates a new local backup service
func NewBackupService(db *sql.DB, dir string, log zerolog.Logger) *BackupService {
	return &BackupService{
		db:  db,
		dir: dir,
		now: time.Now,
		log: log.With().Str("service", "backup").Logger(),
	}
}

// Dir returns the backup directory
func (s *BackupService) Dir() string {
	return s.dir
}

func backupName(t time.Time, suffix string) string {
	return backupPrefix + t.UTC().Format(backupTimestamp) + suffix
}

// parseBackupName extracts the timestamp from a backup file name
func parseBackupName(name, suffix string) (time.Time, bool) {
	if !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, suffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, backupPrefix), suffix)
	t, err := time.Parse(backupTimestamp, stamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// CreateBackup snapshots the database into the backup directory
func (s *BackupService) CreateBackup(ctx context.Context) (*BackupInfo, error) {
	now := s.now()
	return s.BackupTo(ctx, filepath.Join(s.dir, backupName(now, localSuffix)))
}

// BackupTo snapshots the database to dest, which must not exist yet
func (s *BackupService) BackupTo(ctx context.Context, dest string) (*BackupInfo, error) {
	start := time.Now()

	if err := database.Backup(ctx, s.db, dest); err != nil {
		return nil, err
	}

	info, err := os.Stat(dest)
	if err != nil {
		return nil, fmt.Errorf("failed to stat backup: %w", err)
	}

	checksum, err := calculateChecksum(dest)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate checksum: %w", err)
	}

	abs, _ := filepath.Abs(dest)
	s.log.Info().
		Str("path", abs).
		Int64("size_bytes", info.Size()).
		Dur("duration_ms", time.Since(start)).
		Msg("Database backup created")

	return &BackupInfo{
		Filename:  filepath.Base(dest),
		Path:      abs,
		Timestamp: s.now().UTC(),
		SizeBytes: info.Size(),
		Checksum:  checksum,
	}, nil
}

// ListBackups returns the backups in the backup directory, newest first
func (s *BackupService) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	now := s.now()
	backups := make([]BackupInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, ok := parseBackupName(entry.Name(), localSuffix)
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Filename:  entry.Name(),
			Path:      filepath.Join(s.dir, entry.Name()),
			Timestamp: ts,
			SizeBytes: info.Size(),
			AgeHours:  int64(now.Sub(ts).Hours()),
		})
	}

	sortNewestFirst(backups)
	return backups, nil
}

// RotateOldBackups deletes local backups older than the retention period.
// A retention of zero keeps everything. The newest minBackupsToKeep always stay.
func (s *BackupService) RotateOldBackups(retentionDays int) (int, error) {
	backups, err := s.ListBackups()
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, b := range expiredBackups(backups, retentionDays, s.now()) {
		if err := os.Remove(b.Path); err != nil {
			s.log.Error().Err(err).Str("filename", b.Filename).Msg("Failed to delete old backup")
			continue
		}
		s.log.Info().Str("filename", b.Filename).Time("timestamp", b.Timestamp).Msg("Deleted old backup")
		deleted++
	}

	s.log.Info().
		Int("deleted", deleted).
		Int("remaining", len(backups)-deleted).
		Msg("Local backup rotation completed")
	return deleted, nil
}

// VerifyLatest opens the newest backup and runs an integrity check on it
func (s *BackupService) VerifyLatest(ctx context.Context) error {
	backups, err := s.ListBackups()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found in %s", s.dir)
	}

	latest := backups[0]
	db, err := sql.Open("sqlite", latest.Path)
	if err != nil {
		return fmt.Errorf("failed to open backup %s: %w", latest.Filename, err)
	}
	defer db.Close()

	var result string
	if err := db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("failed to check backup %s: %w", latest.Filename, err)
	}
	if result != "ok" {
		return fmt.Errorf("backup %s failed integrity check: %s", latest.Filename, result)
	}

	s.log.Debug().Str("filename", latest.Filename).Msg("Backup verified")
	return nil
}

func sortNewestFirst(backups []BackupInfo) {
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
}

// expiredBackups picks the backups rotation should delete. backups must be
// sorted newest first.
func expiredBackups(backups []BackupInfo, retentionDays int, now time.Time) []BackupInfo {
	if retentionDays <= 0 || len(backups) <= minBackupsToKeep {
		return nil
	}

	cutoff := now.AddDate(0, 0, -retentionDays)
	var expired []BackupInfo
	for _, b := range backups[minBackupsToKeep:] {
		if b.Timestamp.Before(cutoff) {
			expired = append(expired, b)
		}
	}
	return expired
}

func calculateChecksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", hash.Sum(nil)), nil
}
