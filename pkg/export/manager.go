package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"tatsugo/pkg/tatsu"
)

// Snapshot is one crawled leaderboard ready to be written out
type Snapshot struct {
	GuildID   string         `json:"guild_id"`
	Period    string         `json:"period"`
	FetchedAt time.Time      `json:"fetched_at"`
	Rankings  []tatsu.Ranking `json:"rankings"`
}

// Manager handles export file operations
type Manager struct {
	outputDir string
	overwrite bool
	mu        sync.Mutex
}

// NewManager creates a new export manager
func NewManager(outputDir string, overwrite bool) (*Manager, error) {
	// Create output directory if it doesn't exist
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Manager{
		outputDir: outputDir,
		overwrite: overwrite,
	}, nil
}

// Write writes the snapshot in the given format ("json" or "csv") and
// returns the path of the written file
func (m *Manager) Write(snap *Snapshot, format string) (string, error) {
	switch strings.ToLower(format) {
	case "json":
		return m.WriteJSON(snap)
	case "csv":
		return m.WriteCSV(snap)
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
}

// WriteJSON writes the snapshot as an indented JSON document
func (m *Manager) WriteJSON(snap *Snapshot) (string, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	data = append(data, '\n')

	path := m.filePath(snap, "json")
	if err := m.writeAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// WriteCSV writes the snapshot as a CSV file with a header row
func (m *Manager) WriteCSV(snap *Snapshot) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write([]string{"rank", "user_id", "score"}); err != nil {
		return "", fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range snap.Rankings {
		record := []string{
			strconv.FormatInt(row.Rank, 10),
			row.UserID.String(),
			strconv.FormatInt(row.Score, 10),
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}

	path := m.filePath(snap, "csv")
	if err := m.writeAtomic(path, []byte(sb.String())); err != nil {
		return "", err
	}
	return path, nil
}

// filePath builds the export file name: guild, period and fetch time
// keep repeated crawls of the same leaderboard from colliding
func (m *Manager) filePath(snap *Snapshot, ext string) string {
	stamp := snap.FetchedAt.UTC().Format("20060102T150405Z")
	name := fmt.Sprintf("rankings_%s_%s_%s.%s", snap.GuildID, snap.Period, stamp, ext)
	return filepath.Join(m.outputDir, name)
}

// writeAtomic writes data to a temporary file and renames it into place
func (m *Manager) writeAtomic(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("export file already exists: %s", path)
		}
	}

	tempPath := path + ".tmp"
	out, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	_, writeErr := out.Write(data)
	syncErr := out.Sync()
	closeErr := out.Close()

	if writeErr != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to write export data: %w", writeErr)
	}
	if syncErr != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync export file: %w", syncErr)
	}
	if closeErr != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close export file: %w", closeErr)
	}

	// Atomic rename
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}
