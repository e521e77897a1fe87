package reliability

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aristath/alpha/internal/database"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/disk"
)

// jobTimeout bounds a single maintenance or backup run
const jobTimeout = 10 * time.Minute

// Free space thresholds for the database volume, in GB
const (
	criticalFreeGB = 0.5
	lowFreeGB      = 2.0
)

// BackupJob takes a local backup, ships it to the remote store when one is
// configured and rotates both sides
type BackupJob struct {
	local         *BackupService
	remote        *S3BackupService
	retentionDays int
	log           zerolog.Logger
}

// NewBackupJob creates a new backup job. remote may be nil.
func NewBackupJob(local *BackupService, remote *S3BackupService, retentionDays int, log zerolog.Logger) *BackupJob {
	return &BackupJob{
		local:         local,
		remote:        remote,
		retentionDays: retentionDays,
		log:           log.With().Str("job", "database_backup").Logger(),
	}
}

// Name returns the job name for scheduler
func (j *BackupJob) Name() string {
	return "database_backup"
}

// Run executes the backup job
func (j *BackupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	j.log.Info().Msg("Starting database backup")
	start := time.Now()

	info, err := j.local.CreateBackup(ctx)
	if err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}

	if err := j.local.VerifyLatest(ctx); err != nil {
		// Keep going, older backups are still there
		j.log.Error().Err(err).Msg("Backup verification failed")
	}

	if _, err := j.local.RotateOldBackups(j.retentionDays); err != nil {
		j.log.Error().Err(err).Msg("Local backup rotation failed")
	}

	if j.remote != nil {
		if _, err := j.remote.Upload(ctx, *info); err != nil {
			return fmt.Errorf("failed to upload backup: %w", err)
		}
		if _, err := j.remote.RotateOldBackups(ctx, j.retentionDays); err != nil {
			j.log.Error().Err(err).Msg("Remote backup rotation failed")
		}
	}

	j.log.Info().
		Str("filename", info.Filename).
		Bool("remote", j.remote != nil).
		Dur("duration_ms", time.Since(start)).
		Msg("Database backup completed")
	return nil
}

// MaintenanceJob checks database integrity, truncates the WAL and watches
// free disk space
type MaintenanceJob struct {
	db  *database.DB
	log zerolog.Logger
}

// NewMaintenanceJob creates a new maintenance job
func NewMaintenanceJob(db *database.DB, log zerolog.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		db:  db,
		log: log.With().Str("job", "database_maintenance").Logger(),
	}
}

// Name returns the job name for scheduler
func (j *MaintenanceJob) Name() string {
	return "database_maintenance"
}

// Run executes the maintenance job
func (j *MaintenanceJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	j.log.Info().Msg("Starting database maintenance")
	start := time.Now()

	if err := j.db.HealthCheck(ctx); err != nil {
		j.log.Error().Err(err).Msg("CRITICAL: Database failed health check")
		return err
	}

	if err := j.db.WALCheckpoint(ctx); err != nil {
		j.log.Warn().Err(err).Msg("WAL checkpoint failed")
	}

	if err := j.checkDiskSpace(); err != nil {
		return err
	}

	j.logDatabaseSize(ctx)

	j.log.Info().
		Dur("duration_ms", time.Since(start)).
		Msg("Database maintenance completed")
	return nil
}

// checkDiskSpace fails only when free space is critically low
func (j *MaintenanceJob) checkDiskSpace() error {
	usage, err := disk.Usage(filepath.Dir(j.db.Path()))
	if err != nil {
		return fmt.Errorf("failed to stat filesystem: %w", err)
	}

	availableGB := float64(usage.Free) / 1e9
	j.log.Debug().Float64("available_gb", availableGB).Msg("Disk space check")

	if availableGB < criticalFreeGB {
		j.log.Error().Float64("available_gb", availableGB).Msg("CRITICAL: Insufficient disk space")
		return fmt.Errorf("only %.2f GB free on database volume", availableGB)
	}
	if availableGB < lowFreeGB {
		j.log.Warn().Float64("available_gb", availableGB).Msg("Disk space running low")
	}
	return nil
}

func (j *MaintenanceJob) logDatabaseSize(ctx context.Context) {
	var pageCount, pageSize int64
	conn := j.db.Conn()
	if err := conn.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err != nil {
		return
	}
	if err := conn.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err != nil {
		return
	}

	j.log.Info().
		Float64("size_mb", float64(pageCount*pageSize)/1024/1024).
		Msg("Database size")
}
