package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	// Test default values
	if config.API.BaseURL != "https://api.tatsu.gg/v1" {
		t.Errorf("Expected default base URL to be https://api.tatsu.gg/v1, got %s", config.API.BaseURL)
	}

	if config.RateLimit.RequestsPerMinute != 60 {
		t.Errorf("Expected default requests per minute to be 60, got %d", config.RateLimit.RequestsPerMinute)
	}

	if config.Retry.MaxRetries != 2 {
		t.Errorf("Expected default max retries to be 2, got %d", config.Retry.MaxRetries)
	}

	if config.Retry.BaseDelay != 500*time.Millisecond {
		t.Errorf("Expected default base delay to be 500ms, got %v", config.Retry.BaseDelay)
	}

	if config.Crawl.ConcurrentPages != 3 {
		t.Errorf("Expected default concurrent pages to be 3, got %d", config.Crawl.ConcurrentPages)
	}

	if config.Output.Directory != "./exports" {
		t.Errorf("Expected default output directory to be ./exports, got %s", config.Output.Directory)
	}
}

func TestLoadFromEnv(t *testing.T) {
	// Set test environment variables
	os.Setenv("TATSU_API_KEY", "test-api-key")
	os.Setenv("TATSU_BASE_URL", "http://localhost:9999/v1")
	os.Setenv("TATSU_REQUESTS_PER_MINUTE", "30")
	os.Setenv("TATSU_OUTPUT_DIR", "/tmp/test-exports")
	os.Setenv("TATSU_CONCURRENT_PAGES", "5")
	os.Setenv("TATSU_TIMEOUT", "10s")
	os.Setenv("TATSU_LOG_LEVEL", "debug")

	defer func() {
		// Clean up environment variables
		os.Unsetenv("TATSU_API_KEY")
		os.Unsetenv("TATSU_BASE_URL")
		os.Unsetenv("TATSU_REQUESTS_PER_MINUTE")
		os.Unsetenv("TATSU_OUTPUT_DIR")
		os.Unsetenv("TATSU_CONCURRENT_PAGES")
		os.Unsetenv("TATSU_TIMEOUT")
		os.Unsetenv("TATSU_LOG_LEVEL")
	}()

	config := DefaultConfig()
	err := config.LoadFromEnv()
	if err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	// Test loaded values
	if config.API.Key != "test-api-key" {
		t.Errorf("Expected API key to be test-api-key, got %s", config.API.Key)
	}

	if config.API.BaseURL != "http://localhost:9999/v1" {
		t.Errorf("Expected base URL to be http://localhost:9999/v1, got %s", config.API.BaseURL)
	}

	if config.RateLimit.RequestsPerMinute != 30 {
		t.Errorf("Expected requests per minute to be 30, got %d", config.RateLimit.RequestsPerMinute)
	}

	if config.Output.Directory != "/tmp/test-exports" {
		t.Errorf("Expected output directory to be /tmp/test-exports, got %s", config.Output.Directory)
	}

	if config.Crawl.ConcurrentPages != 5 {
		t.Errorf("Expected concurrent pages to be 5, got %d", config.Crawl.ConcurrentPages)
	}

	if config.API.Timeout != 10*time.Second {
		t.Errorf("Expected timeout to be 10s, got %v", config.API.Timeout)
	}

	if config.Logging.Level != "debug" {
		t.Errorf("Expected log level to be debug, got %s", config.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantError bool
	}{
		{
			name:      "valid defaults",
			mutate:    func(c *Config) {},
			wantError: false,
		},
		{
			name: "missing base URL",
			mutate: func(c *Config) {
				c.API.BaseURL = ""
			},
			wantError: true,
		},
		{
			name: "zero requests per minute",
			mutate: func(c *Config) {
				c.RateLimit.RequestsPerMinute = 0
			},
			wantError: true,
		},
		{
			name: "excessive requests per minute",
			mutate: func(c *Config) {
				c.RateLimit.RequestsPerMinute = 500
			},
			wantError: true,
		},
		{
			name: "negative max retries",
			mutate: func(c *Config) {
				c.Retry.MaxRetries = -1
			},
			wantError: true,
		},
		{
			name: "max delay below base delay",
			mutate: func(c *Config) {
				c.Retry.MaxDelay = 100 * time.Millisecond
			},
			wantError: true,
		},
		{
			name: "too many concurrent pages",
			mutate: func(c *Config) {
				c.Crawl.ConcurrentPages = 15
			},
			wantError: true,
		},
		{
			name: "invalid output format",
			mutate: func(c *Config) {
				c.Output.Format = "xml"
			},
			wantError: true,
		},
		{
			name: "invalid log level",
			mutate: func(c *Config) {
				c.Logging.Level = "invalid"
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()

	flags := map[string]interface{}{
		"api-key":    "flag-api-key",
		"output":     "/flag/output",
		"concurrent": 7,
		"format":     "csv",
		"log-level":  "error",
	}

	config.MergeCommandLineFlags(flags)

	// Test merged values
	if config.API.Key != "flag-api-key" {
		t.Errorf("Expected API key to be flag-api-key, got %s", config.API.Key)
	}

	if config.Output.Directory != "/flag/output" {
		t.Errorf("Expected output directory to be /flag/output, got %s", config.Output.Directory)
	}

	if config.Crawl.ConcurrentPages != 7 {
		t.Errorf("Expected concurrent pages to be 7, got %d", config.Crawl.ConcurrentPages)
	}

	if config.Output.Format != "csv" {
		t.Errorf("Expected output format to be csv, got %s", config.Output.Format)
	}

	if config.Logging.Level != "error" {
		t.Errorf("Expected log level to be error, got %s", config.Logging.Level)
	}
}

func TestSaveAndLoadFromFile(t *testing.T) {
	// Create temporary directory for testing
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	// Create a config and save it
	config := DefaultConfig()
	config.API.Key = "save-test-key"
	config.RateLimit.RequestsPerMinute = 45
	config.Crawl.ConcurrentPages = 8

	err := config.Save(configPath)
	if err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	// Load the saved config
	loadedConfig := DefaultConfig()
	err = loadedConfig.LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify loaded values
	if loadedConfig.API.Key != "save-test-key" {
		t.Errorf("Expected loaded API key to be save-test-key, got %s", loadedConfig.API.Key)
	}

	if loadedConfig.RateLimit.RequestsPerMinute != 45 {
		t.Errorf("Expected loaded requests per minute to be 45, got %d", loadedConfig.RateLimit.RequestsPerMinute)
	}

	if loadedConfig.Crawl.ConcurrentPages != 8 {
		t.Errorf("Expected loaded concurrent pages to be 8, got %d", loadedConfig.Crawl.ConcurrentPages)
	}
}

func TestLoadPrecedence(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "precedence.yaml")

	// File sets 30 rpm, env raises to 40, flag wins with 50
	fileConfig := DefaultConfig()
	fileConfig.RateLimit.RequestsPerMinute = 30
	if err := fileConfig.Save(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	os.Setenv("TATSU_REQUESTS_PER_MINUTE", "40")
	defer os.Unsetenv("TATSU_REQUESTS_PER_MINUTE")

	flags := map[string]interface{}{
		"requests-per-minute": 50,
	}

	config, err := Load(configPath, flags)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.RateLimit.RequestsPerMinute != 50 {
		t.Errorf("Expected flag value 50 to win, got %d", config.RateLimit.RequestsPerMinute)
	}
}
