package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/alpha/internal/database"
	"github.com/aristath/alpha/internal/domain"
	"github.com/aristath/alpha/internal/pricing"
	"github.com/aristath/alpha/internal/reliability"
	"github.com/aristath/alpha/internal/reports"
	"github.com/aristath/alpha/internal/utils"
	"github.com/aristath/alpha/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ConnectivityProber checks that the upstream price providers answer
type ConnectivityProber interface {
	Connectivity(ctx context.Context) pricing.ConnectivityReport
}

// SystemDeps collects what the system endpoints operate on. Remote and
// Prober may be nil.
type SystemDeps struct {
	DB       *database.DB
	Backups  *reliability.BackupService
	Remote   *reliability.S3BackupService
	Prober   ConnectivityProber
	Exporter *reports.Exporter
}

// SystemHandlers serves maintenance and monitoring endpoints
type SystemHandlers struct {
	db          *database.DB
	backups     *reliability.BackupService
	remote      *reliability.S3BackupService
	prober      ConnectivityProber
	exporter    *reports.Exporter
	startupTime time.Time
	log         zerolog.Logger
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(deps SystemDeps, log zerolog.Logger) *SystemHandlers {
	return &SystemHandlers{
		db:          deps.DB,
		backups:     deps.Backups,
		remote:      deps.Remote,
		prober:      deps.Prober,
		exporter:    deps.Exporter,
		startupTime: time.Now(),
		log:         log.With().Str("component", "system_handlers").Logger(),
	}
}

// RegisterRoutes registers the system routes
func (h *SystemHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/system", func(r chi.Router) {
		r.Get("/stats", h.HandleStats)
		r.Post("/backup", h.HandleBackup)
		r.Get("/backups", h.HandleListBackups)
		r.Get("/connectivity", h.HandleConnectivity)
		r.Get("/export", h.HandleExport)
	})
}

// HostStats is a point-in-time reading of the machine running the server
type HostStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
}

// StatsResponse is returned by GET /api/system/stats
type StatsResponse struct {
	Tables        database.TableStats `json:"tables"`
	SchemaVersion uint                `json:"schema_version"`
	SchemaDirty   bool                `json:"schema_dirty"`
	DatabasePath  string              `json:"database_path"`
	DatabaseMB    float64             `json:"database_mb"`
	UptimeSeconds int64               `json:"uptime_seconds"`
	Host          HostStats           `json:"host"`
	LastChecked   string              `json:"last_checked"`
}

// HandleStats handles GET /api/system/stats
func (h *SystemHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	tables, err := h.db.Stats(r.Context())
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	version, dirty, err := database.SchemaVersion(h.db.Conn())
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	response := StatsResponse{
		Tables:        tables,
		SchemaVersion: version,
		SchemaDirty:   dirty,
		DatabasePath:  h.db.Path(),
		UptimeSeconds: int64(time.Since(h.startupTime).Seconds()),
		Host:          h.hostStats(),
		LastChecked:   logger.Timestamp(time.Now()),
	}
	if info, err := os.Stat(h.db.Path()); err == nil {
		response.DatabaseMB = float64(info.Size()) / 1024 / 1024
	}

	utils.WriteData(w, h.log, http.StatusOK, response)
}

// hostStats samples CPU over a short window so the request stays fast
func (h *SystemHandlers) hostStats() HostStats {
	var stats HostStats

	if percents, err := cpu.Percent(100*time.Millisecond, false); err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
	} else if len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}

	if vm, err := mem.VirtualMemory(); err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
	} else {
		stats.MemoryPercent = vm.UsedPercent
	}

	return stats
}

// BackupResponse is returned by POST /api/system/backup
type BackupResponse struct {
	Local  *reliability.BackupInfo `json:"local"`
	Remote *reliability.BackupInfo `json:"remote,omitempty"`
}

// HandleBackup handles POST /api/system/backup
func (h *SystemHandlers) HandleBackup(w http.ResponseWriter, r *http.Request) {
	if h.backups == nil {
		http.Error(w, "Backups are not configured", http.StatusServiceUnavailable)
		return
	}

	local, err := h.backups.CreateBackup(r.Context())
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	response := BackupResponse{Local: local}

	if h.remote != nil {
		remote, err := h.remote.Upload(r.Context(), *local)
		if err != nil {
			utils.WriteError(w, h.log, err)
			return
		}
		response.Remote = remote
	}

	utils.WriteData(w, h.log, http.StatusCreated, response)
}

// BackupListResponse is returned by GET /api/system/backups
type BackupListResponse struct {
	Local  []reliability.BackupInfo `json:"local"`
	Remote []reliability.BackupInfo `json:"remote,omitempty"`
}

// HandleListBackups handles GET /api/system/backups
func (h *SystemHandlers) HandleListBackups(w http.ResponseWriter, r *http.Request) {
	if h.backups == nil {
		http.Error(w, "Backups are not configured", http.StatusServiceUnavailable)
		return
	}

	local, err := h.backups.ListBackups()
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	response := BackupListResponse{Local: local}

	if h.remote != nil {
		remote, err := h.remote.ListBackups(r.Context())
		if err != nil {
			utils.WriteError(w, h.log, err)
			return
		}
		response.Remote = remote
	}

	utils.WriteData(w, h.log, http.StatusOK, response)
}

// HandleConnectivity handles GET /api/system/connectivity
func (h *SystemHandlers) HandleConnectivity(w http.ResponseWriter, r *http.Request) {
	if h.prober == nil {
		http.Error(w, "Price providers are not configured", http.StatusServiceUnavailable)
		return
	}
	utils.WriteData(w, h.log, http.StatusOK, h.prober.Connectivity(r.Context()))
}

// HandleExport handles GET /api/system/export. The workbook is built in
// memory first so a failure still produces a proper error response.
func (h *SystemHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		http.Error(w, "Export is not configured", http.StatusServiceUnavailable)
		return
	}

	opts := reports.ExportOptions{Exchange: r.URL.Query().Get("exchange")}
	if v := r.URL.Query().Get("live"); v != "" {
		live, err := strconv.ParseBool(v)
		if err != nil {
			utils.WriteError(w, h.log, domain.Invalid("live", "live must be a boolean"))
			return
		}
		opts.Live = live
	}

	data, err := h.exporter.Collect(r.Context(), opts)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}

	f, err := reports.BuildWorkbook(*data)
	if err != nil {
		utils.WriteError(w, h.log, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("alpha-export-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)

	if _, err := f.WriteTo(w); err != nil {
		h.log.Error().Err(err).Msg("Failed to write export workbook")
	}
}
