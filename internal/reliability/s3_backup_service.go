package reliability

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const remoteSuffix = ".db.gz"

// S3BackupService uploads compressed local backups to an object store
type S3BackupService struct {
	store  ObjectStore
	prefix string
	now    func() time.Time
	log    zerolog.Logger
}

// NewS3BackupService creates a new remote backup service. Objects are
// stored under prefix.
func NewS3BackupService(store ObjectStore, prefix string, log zerolog.Logger) *S3BackupService {
	return &S3BackupService{
		store:  store,
		prefix: prefix,
		now:    time.Now,
		log:    log.With().Str("service", "s3_backup").Logger(),
	}
}

// Upload compresses a local backup file and uploads it
func (s *S3BackupService) Upload(ctx context.Context, local BackupInfo) (*BackupInfo, error) {
	s.log.Info().Str("filename", local.Filename).Msg("Starting remote backup")
	start := time.Now()

	file, err := os.Open(local.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open backup: %w", err)
	}
	defer file.Close()

	key := s.prefix + strings.TrimSuffix(local.Filename, localSuffix) + remoteSuffix

	pr, pw := io.Pipe()
	go func() {
		gz := gzip.NewWriter(pw)
		_, err := io.Copy(gz, file)
		if closeErr := gz.Close(); err == nil {
			err = closeErr
		}
		_ = pw.CloseWithError(err)
	}()

	if err := s.store.Upload(ctx, key, pr); err != nil {
		_ = pr.CloseWithError(err)
		return nil, err
	}

	s.log.Info().
		Str("key", key).
		Dur("duration_ms", time.Since(start)).
		Msg("Remote backup completed")

	return &BackupInfo{
		Filename:  key,
		Timestamp: local.Timestamp,
		Checksum:  local.Checksum,
	}, nil
}

// ListBackups lists remote backups, newest first
func (s *S3BackupService) ListBackups(ctx context.Context) ([]BackupInfo, error) {
	objects, err := s.store.List(ctx, s.prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote backups: %w", err)
	}

	now := s.now()
	backups := make([]BackupInfo, 0, len(objects))
	for _, obj := range objects {
		name := strings.TrimPrefix(obj.Key, s.prefix)
		ts, ok := parseBackupName(name, remoteSuffix)
		if !ok {
			s.log.Warn().Str("key", obj.Key).Msg("Skipping object that is not a backup")
			continue
		}
		backups = append(backups, BackupInfo{
			Filename:  obj.Key,
			Timestamp: ts,
			SizeBytes: obj.Size,
			AgeHours:  int64(now.Sub(ts).Hours()),
		})
	}

	sortNewestFirst(backups)
	return backups, nil
}

// RotateOldBackups deletes remote backups older than the retention period,
// keeping the newest minBackupsToKeep regardless of age
func (s *S3BackupService) RotateOldBackups(ctx context.Context, retentionDays int) (int, error) {
	s.log.Info().Int("retention_days", retentionDays).Msg("Starting remote backup rotation")

	backups, err := s.ListBackups(ctx)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, b := range expiredBackups(backups, retentionDays, s.now()) {
		if err := s.store.Delete(ctx, b.Filename); err != nil {
			s.log.Error().Err(err).Str("key", b.Filename).Msg("Failed to delete old backup")
			continue
		}
		s.log.Info().Str("key", b.Filename).Time("timestamp", b.Timestamp).Msg("Deleted old backup")
		deleted++
	}

	s.log.Info().
		Int("deleted", deleted).
		Int("remaining", len(backups)-deleted).
		Msg("Remote backup rotation completed")
	return deleted, nil
}
