package checkpoint

import (
	"os"
	"testing"

	"tatsugo/pkg/tatsu"
)

func fakePage(startRank, count int) []tatsu.Ranking {
	rows := make([]tatsu.Ranking, count)
	for i := range rows {
		rank := int64(startRank + i)
		rows[i] = tatsu.Ranking{Rank: rank, Score: 100000 - rank, UserID: tatsu.Snowflake(rank)}
	}
	return rows
}

func TestCheckpointManager(t *testing.T) {
	// Create a temporary directory for testing
	tempDir, err := os.MkdirTemp("", "checkpoint_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	// Set environment variable to use temp directory
	os.Setenv("XDG_DATA_HOME", tempDir)
	defer os.Unsetenv("XDG_DATA_HOME")

	guildID := "172002275412279296"
	period := "all"

	t.Run("CreateAndLoad", func(t *testing.T) {
		mgr, err := NewManager(guildID, period)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}

		// Create checkpoint
		cp, err := mgr.Create(guildID, period)
		if err != nil {
			t.Fatalf("Failed to create checkpoint: %v", err)
		}

		if cp.GuildID != guildID {
			t.Errorf("Expected guild ID %s, got %s", guildID, cp.GuildID)
		}
		if cp.Period != period {
			t.Errorf("Expected period %s, got %s", period, cp.Period)
		}

		// Load checkpoint
		loaded, err := mgr.Load()
		if err != nil {
			t.Fatalf("Failed to load checkpoint: %v", err)
		}
		if loaded == nil {
			t.Fatal("Expected checkpoint, got nil")
		}
		if loaded.GuildID != guildID {
			t.Errorf("Expected loaded guild ID %s, got %s", guildID, loaded.GuildID)
		}
	})

	t.Run("RecordPage", func(t *testing.T) {
		mgr, err := NewManager(guildID, period)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}

		cp, err := mgr.Create(guildID, period)
		if err != nil {
			t.Fatalf("Failed to create checkpoint: %v", err)
		}

		// Record fetched pages
		if err := mgr.RecordPage(cp, 0, fakePage(1, 100)); err != nil {
			t.Fatalf("Failed to record page: %v", err)
		}
		if err := mgr.RecordPage(cp, 100, fakePage(101, 100)); err != nil {
			t.Fatalf("Failed to record page: %v", err)
		}
		if err := mgr.RecordPage(cp, 200, fakePage(201, 37)); err != nil {
			t.Fatalf("Failed to record page: %v", err)
		}

		// Verify pages
		if !cp.IsPageFetched(0) {
			t.Error("Expected offset 0 to be fetched")
		}
		if !cp.IsPageFetched(200) {
			t.Error("Expected offset 200 to be fetched")
		}
		if cp.IsPageFetched(300) {
			t.Error("Expected offset 300 to not be fetched")
		}
		if cp.TotalRows != 237 {
			t.Errorf("Expected 237 rows, got %d", cp.TotalRows)
		}
		if cp.LastOffset != 200 {
			t.Errorf("Expected last offset 200, got %d", cp.LastOffset)
		}

		// Verify survives a reload
		loaded, err := mgr.Load()
		if err != nil {
			t.Fatalf("Failed to load checkpoint: %v", err)
		}
		if !loaded.IsPageFetched(100) {
			t.Error("Expected offset 100 to be fetched after reload")
		}
		if loaded.TotalRows != 237 {
			t.Errorf("Expected 237 rows after reload, got %d", loaded.TotalRows)
		}

		rows, ok := loaded.PageRows(100)
		if !ok {
			t.Fatal("Expected stored rows for offset 100")
		}
		if len(rows) != 100 || rows[0].Rank != 101 {
			t.Errorf("Stored rows mismatch: len=%d first=%+v", len(rows), rows[0])
		}
	})

	t.Run("MarkComplete", func(t *testing.T) {
		mgr, err := NewManager(guildID, period)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}

		cp, err := mgr.Create(guildID, period)
		if err != nil {
			t.Fatalf("Failed to create checkpoint: %v", err)
		}

		if err := mgr.MarkComplete(cp); err != nil {
			t.Fatalf("Failed to mark complete: %v", err)
		}

		loaded, err := mgr.Load()
		if err != nil {
			t.Fatalf("Failed to load checkpoint: %v", err)
		}
		if !loaded.Complete {
			t.Error("Expected checkpoint to be complete")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		mgr, err := NewManager(guildID, period)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}

		_, err = mgr.Create(guildID, period)
		if err != nil {
			t.Fatalf("Failed to create checkpoint: %v", err)
		}

		// Verify exists
		if !mgr.Exists() {
			t.Error("Expected checkpoint to exist")
		}

		// Delete
		err = mgr.Delete()
		if err != nil {
			t.Fatalf("Failed to delete checkpoint: %v", err)
		}

		// Verify deleted
		if mgr.Exists() {
			t.Error("Expected checkpoint to not exist after deletion")
		}
	})

	t.Run("AtomicWrite", func(t *testing.T) {
		mgr, err := NewManager(guildID, period)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}

		_, err = mgr.Create(guildID, period)
		if err != nil {
			t.Fatalf("Failed to create checkpoint: %v", err)
		}

		// Simulate multiple concurrent saves
		done := make(chan bool, 10)
		for i := 0; i < 10; i++ {
			go func(n int) {
				cp := &Checkpoint{
					GuildID:   guildID,
					Period:    period,
					Pages:     make(map[string][]tatsu.Ranking),
					TotalRows: n,
				}
				mgr.Save(cp)
				done <- true
			}(i)
		}

		// Wait for all saves to complete
		for i := 0; i < 10; i++ {
			<-done
		}

		// Verify checkpoint is still valid
		loaded, err := mgr.Load()
		if err != nil {
			t.Fatalf("Failed to load checkpoint after concurrent saves: %v", err)
		}
		if loaded == nil {
			t.Fatal("Checkpoint corrupted after concurrent saves")
		}
	})

	t.Run("BackupCheckpoint", func(t *testing.T) {
		mgr, err := NewManager(guildID, period)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}

		cp, err := mgr.Create(guildID, period)
		if err != nil {
			t.Fatalf("Failed to create checkpoint: %v", err)
		}

		// Add some data
		cp.TotalRows = 42
		mgr.Save(cp)

		// Create backup
		err = mgr.BackupCheckpoint()
		if err != nil {
			t.Fatalf("Failed to backup checkpoint: %v", err)
		}

		// Verify backup exists
		backupPath := mgr.checkpointPath + ".backup"
		if _, err := os.Stat(backupPath); os.IsNotExist(err) {
			t.Error("Backup file not created")
		}
	})
}

func TestGetDataDirectory(t *testing.T) {
	// Test actual implementation
	dir, err := getDataDirectory()
	if err != nil {
		t.Fatalf("Failed to get data directory: %v", err)
	}

	// Verify it's a valid path
	if dir == "" {
		t.Error("Data directory is empty")
	}

	// Verify it can be created
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		t.Errorf("Cannot create data directory: %v", err)
	}
}
