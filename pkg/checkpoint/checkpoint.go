package checkpoint

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"tatsugo/pkg/logger"
	"tatsugo/pkg/tatsu"
)

// Checkpoint represents the state of a leaderboard crawl session.
// Offsets are the 0-indexed page offsets passed to the rankings
// endpoint. Fetched pages carry their rows so a resumed crawl can
// skip the request entirely instead of refetching.
type Checkpoint struct {
	GuildID    string                     `json:"guild_id"`
	Period     string                     `json:"period"`
	LastOffset int                        `json:"last_offset"`
	Pages      map[string][]tatsu.Ranking `json:"pages"` // offset -> page rows
	TotalRows  int                        `json:"total_rows"`
	Complete   bool                       `json:"complete"`
	CreatedAt  time.Time                  `json:"created_at"`
	UpdatedAt  time.Time                  `json:"updated_at"`
	Version    int                        `json:"version"`
}

// Manager handles checkpoint operations
type Manager struct {
	checkpointPath string
	logger         logger.Logger
}

// NewManager creates a new checkpoint manager for one guild and period
func NewManager(guildID, period string) (*Manager, error) {
	dataDir, err := getDataDirectory()
	if err != nil {
		return nil, fmt.Errorf("failed to get data directory: %w", err)
	}

	// Create checkpoints directory if it doesn't exist
	checkpointsDir := filepath.Join(dataDir, "checkpoints")
	if err := os.MkdirAll(checkpointsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create checkpoints directory: %w", err)
	}

	checkpointPath := filepath.Join(checkpointsDir, fmt.Sprintf("%s_%s.checkpoint.json", guildID, period))

	return &Manager{
		checkpointPath: checkpointPath,
		logger:         logger.GetLogger(),
	}, nil
}

// Create creates a new checkpoint
func (m *Manager) Create(guildID, period string) (*Checkpoint, error) {
	checkpoint := &Checkpoint{
		GuildID:   guildID,
		Period:    period,
		Pages:     make(map[string][]tatsu.Ranking),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Version:   1,
	}

	if err := m.Save(checkpoint); err != nil {
		return nil, fmt.Errorf("failed to save initial checkpoint: %w", err)
	}

	m.logger.InfoWithFields("Checkpoint created", map[string]interface{}{
		"guild_id": guildID,
		"period":   period,
		"path":     m.checkpointPath,
	})

	return checkpoint, nil
}

// Load loads an existing checkpoint
func (m *Manager) Load() (*Checkpoint, error) {
	file, err := os.Open(m.checkpointPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // No checkpoint exists
		}
		return nil, fmt.Errorf("failed to open checkpoint file: %w", err)
	}
	defer file.Close()

	var checkpoint Checkpoint
	if err := json.NewDecoder(file).Decode(&checkpoint); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint: %w", err)
	}
	if checkpoint.Pages == nil {
		checkpoint.Pages = make(map[string][]tatsu.Ranking)
	}

	m.logger.InfoWithFields("Checkpoint loaded", map[string]interface{}{
		"guild_id":    checkpoint.GuildID,
		"period":      checkpoint.Period,
		"total_rows":  checkpoint.TotalRows,
		"last_offset": checkpoint.LastOffset,
		"updated_at":  checkpoint.UpdatedAt,
	})

	return &checkpoint, nil
}

// Save saves the checkpoint to disk atomically
func (m *Manager) Save(checkpoint *Checkpoint) error {
	checkpoint.UpdatedAt = time.Now()

	// Create temporary file
	tempPath := m.checkpointPath + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary checkpoint file: %w", err)
	}

	// Write checkpoint data
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(checkpoint); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	// Ensure data is written to disk
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync checkpoint file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close checkpoint file: %w", err)
	}

	// Atomically replace the old checkpoint file
	if err := os.Rename(tempPath, m.checkpointPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace checkpoint file: %w", err)
	}

	m.logger.DebugWithFields("Checkpoint saved", map[string]interface{}{
		"guild_id":    checkpoint.GuildID,
		"total_rows":  checkpoint.TotalRows,
		"last_offset": checkpoint.LastOffset,
	})

	return nil
}

// Delete removes the checkpoint file
func (m *Manager) Delete() error {
	if err := os.Remove(m.checkpointPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}

	m.logger.Info("Checkpoint deleted")
	return nil
}

// Exists checks if a checkpoint file exists
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.checkpointPath)
	return err == nil
}

// RecordPage records a successfully fetched rankings page with its rows
func (m *Manager) RecordPage(checkpoint *Checkpoint, offset int, rows []tatsu.Ranking) error {
	checkpoint.Pages[offsetKey(offset)] = rows
	checkpoint.TotalRows += len(rows)
	if offset > checkpoint.LastOffset {
		checkpoint.LastOffset = offset
	}
	return m.Save(checkpoint)
}

// MarkComplete records that the crawl reached the end of the leaderboard
func (m *Manager) MarkComplete(checkpoint *Checkpoint) error {
	checkpoint.Complete = true
	return m.Save(checkpoint)
}

// IsPageFetched checks if a page offset has already been fetched
func (checkpoint *Checkpoint) IsPageFetched(offset int) bool {
	_, exists := checkpoint.Pages[offsetKey(offset)]
	return exists
}

// PageRows returns the stored rows for a fetched page offset
func (checkpoint *Checkpoint) PageRows(offset int) ([]tatsu.Ranking, bool) {
	rows, exists := checkpoint.Pages[offsetKey(offset)]
	return rows, exists
}

// offsetKey is the map key for an offset. JSON object keys are strings,
// so the map is keyed on the decimal form.
func offsetKey(offset int) string {
	return fmt.Sprintf("%d", offset)
}

// GetCheckpointInfo returns a summary of the checkpoint
func (m *Manager) GetCheckpointInfo() (map[string]interface{}, error) {
	checkpoint, err := m.Load()
	if err != nil {
		return nil, err
	}
	if checkpoint == nil {
		return nil, nil
	}

	return map[string]interface{}{
		"guild_id":    checkpoint.GuildID,
		"period":      checkpoint.Period,
		"total_rows":  checkpoint.TotalRows,
		"last_offset": checkpoint.LastOffset,
		"complete":    checkpoint.Complete,
		"created_at":  checkpoint.CreatedAt,
		"updated_at":  checkpoint.UpdatedAt,
		"age":         time.Since(checkpoint.UpdatedAt),
	}, nil
}

// BackupCheckpoint creates a backup of the current checkpoint
func (m *Manager) BackupCheckpoint() error {
	if !m.Exists() {
		return nil // Nothing to backup
	}

	backupPath := m.checkpointPath + ".backup"

	// Copy checkpoint file to backup
	src, err := os.Open(m.checkpointPath)
	if err != nil {
		return fmt.Errorf("failed to open checkpoint for backup: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(backupPath)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy checkpoint to backup: %w", err)
	}

	m.logger.Debug("Checkpoint backed up")
	return nil
}

// getDataDirectory returns the appropriate data directory for the current OS
func getDataDirectory() (string, error) {
	var dataDir string

	switch runtime.GOOS {
	case "linux":
		// Use XDG_DATA_HOME if set, otherwise ~/.local/share
		if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
			dataDir = filepath.Join(xdgDataHome, "tatsugo")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			dataDir = filepath.Join(home, ".local", "share", "tatsugo")
		}
	case "darwin":
		// macOS: ~/Library/Application Support
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, "Library", "Application Support", "tatsugo")
	case "windows":
		// Windows: %APPDATA%
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		dataDir = filepath.Join(appData, "tatsugo")
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	// Create the data directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	return dataDir, nil
}
