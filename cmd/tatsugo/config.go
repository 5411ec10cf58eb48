package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tatsugo/pkg/config"
	"tatsugo/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage tatsugo configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (TATSU_*)
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as 'tatsugo.yaml'
unless a different path is specified with the --config flag.`,
	Run: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the current configuration including values from all sources:
  - Command line flags
  - Environment variables
  - Configuration file
  - Default values

The API key is masked for security.`,
	Run: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Value types and ranges
  - Path accessibility`,
	Run: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = "tatsugo.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	exampleConfig := `# tatsugo Configuration File
#
# This file contains all available configuration options.
# You can also use environment variables prefixed with TATSU_
# For example: TATSU_API_KEY, TATSU_LOG_LEVEL

# API connection settings
api:
  # Tatsu API key (required unless stored via 'tatsugo auth login'
  # or the TATSU_API_KEY environment variable)
  # Request one from the Tatsu bot on Discord
  key: ""

  # API base URL
  base_url: "https://api.tatsu.gg/v1"

  # User agent string (optional)
  user_agent: ""

  # Request timeout
  timeout: 30s

# Rate limiting configuration
# The client re-learns the real budget from response headers; these
# values only prime it before the first response arrives.
rate_limit:
  # Requests per minute (the vendor's published budget is 60)
  requests_per_minute: 60

  # Rate limit window
  window: 1m

# Retry configuration
retry:
  # Maximum number of retry attempts
  # Range: 0-10
  max_retries: 2

  # Initial backoff delay
  base_delay: 500ms

  # Maximum backoff delay
  max_delay: 5s

  # Backoff multiplier
  multiplier: 2.0

  # Jitter fraction applied to each delay
  jitter: 0.1

# Leaderboard crawl settings
crawl:
  # Pages fetched in parallel during a full crawl
  # Range: 1-10
  concurrent_pages: 3

  # Buffered pages awaiting stitching
  page_buffer: 6

# Export output settings
output:
  # Directory for exported ranking files
  directory: "./exports"

  # Export format: json, csv
  format: "json"

  # Overwrite existing export files
  overwrite_existing: false

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log file path (optional)
  # Leave empty to log to stderr only
  file: ""

  # Maximum log file size in MB
  max_size: 100

  # Maximum number of old log files to keep
  max_backups: 3

  # Maximum age of log files in days
  max_age: 7

  # Compress rotated log files
  compress: false
`

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Store your API key with 'tatsugo auth login' (or edit api.key)")
	fmt.Println("2. Run 'tatsugo config validate' to check the configuration")
	fmt.Println("3. Try 'tatsugo profile <user-id>'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Sanitized copy for display, the key is never printed in full
	displayCfg := *cfg
	if displayCfg.API.Key != "" {
		if len(displayCfg.API.Key) > 8 {
			displayCfg.API.Key = displayCfg.API.Key[:4] + "..." + displayCfg.API.Key[len(displayCfg.API.Key)-4:]
		} else {
			displayCfg.API.Key = "***"
		}
	}

	data, err := yaml.Marshal(&displayCfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (TATSU_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (not specified)")
	}
	fmt.Println("4. Default values")
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	if configFile == "" {
		possiblePaths := []string{
			"tatsugo.yaml",
			"tatsugo.yml",
			".tatsugo.yaml",
			".tatsugo.yml",
			filepath.Join(os.Getenv("HOME"), ".tatsugo.yaml"),
			filepath.Join(os.Getenv("HOME"), ".config", "tatsugo", "config.yaml"),
		}

		for _, path := range possiblePaths {
			if _, err := os.Stat(path); err == nil {
				configFile = path
				break
			}
		}

		if configFile == "" {
			ui.PrintError("No configuration file found", "Specify a file with --config flag")
			os.Exit(1)
		}
	}

	ui.PrintInfo("Validating configuration", configFile)

	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		os.Exit(1)
	}

	warnings := []string{}
	errors := []string{}

	if cfg.API.Key == "" {
		warnings = append(warnings, "API key not configured (stored profiles and TATSU_API_KEY still apply)")
	}

	if cfg.Output.Directory != "" {
		if err := os.MkdirAll(cfg.Output.Directory, 0755); err != nil {
			errors = append(errors, fmt.Sprintf("Cannot create output directory: %v", err))
		}
	}

	if cfg.Logging.File != "" {
		dir := filepath.Dir(cfg.Logging.File)
		if err := os.MkdirAll(dir, 0755); err != nil {
			errors = append(errors, fmt.Sprintf("Cannot create log directory: %v", err))
		}
	}

	if cfg.Crawl.ConcurrentPages < 1 || cfg.Crawl.ConcurrentPages > 10 {
		errors = append(errors, "concurrent_pages must be between 1 and 10")
	}
	if cfg.RateLimit.RequestsPerMinute < 1 || cfg.RateLimit.RequestsPerMinute > 120 {
		errors = append(errors, "requests_per_minute must be between 1 and 120")
	}
	if cfg.Retry.MaxRetries < 0 || cfg.Retry.MaxRetries > 10 {
		errors = append(errors, "max_retries must be between 0 and 10")
	}

	if len(errors) > 0 {
		ui.PrintError("Configuration has errors:", "")
		for _, err := range errors {
			fmt.Printf("  - %s\n", err)
		}
		os.Exit(1)
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:", "")
		for _, warn := range warnings {
			fmt.Printf("  - %s\n", warn)
		}
		fmt.Println()
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Base URL: %s\n", cfg.API.BaseURL)
	fmt.Printf("  Rate limit: %d requests/minute\n", cfg.RateLimit.RequestsPerMinute)
	fmt.Printf("  Max retries: %d\n", cfg.Retry.MaxRetries)
	fmt.Printf("  Crawl concurrency: %d\n", cfg.Crawl.ConcurrentPages)
	fmt.Printf("  Export directory: %s\n", cfg.Output.Directory)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
}
