package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"

	"tatsugo/pkg/auth"
	"tatsugo/pkg/config"
	"tatsugo/pkg/logger"
	"tatsugo/pkg/tatsu"
	"tatsugo/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	apiKey     string
	noColor    bool
	quiet      bool
	jsonOutput bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tatsugo",
	Short: "A command-line client for the Tatsu API",
	Long: `Tatsugo is a command-line client for the Tatsu Discord bot's REST API.

Features:
  - User profiles, member points, score and rankings
  - Full leaderboard crawls with resume support
  - JSON and CSV leaderboard exports
  - Secure API key storage using the system keychain
  - Header-driven rate limiting within the vendor's 60 req/min budget
  - Automatic retry with exponential backoff

Get an API key from the Tatsu bot on Discord, then store it with
'tatsugo auth login'.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.SetQuiet(quiet || jsonOutput || logLevel == "error")
		ui.SetNoColor(noColor)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is $HOME/.tatsugo.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Tatsu API key (overrides stored credentials)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors and results")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON instead of tables")

	// Version template
	rootCmd.SetVersionTemplate(`Tatsugo {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig loads the configuration with global flags applied
func loadConfig() *config.Config {
	flags := make(map[string]interface{})
	if apiKey != "" {
		flags["api-key"] = apiKey
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	logger.Initialize(&cfg.Logging)
	return cfg
}

// resolveAPIKey finds a key: flag, environment and config have been
// merged into cfg already; the credential manager is the fallback
func resolveAPIKey(cfg *config.Config) string {
	if cfg.API.Key != "" {
		return cfg.API.Key
	}

	manager, err := auth.NewManager()
	if err != nil {
		return ""
	}
	profile, err := manager.RetrieveDefault()
	if err != nil {
		return ""
	}
	return profile.Key
}

// buildClient creates a configured API client or exits
func buildClient(cfg *config.Config) *tatsu.Client {
	key := resolveAPIKey(cfg)
	if key == "" {
		ui.PrintError("No API key found", "run 'tatsugo auth login' or set TATSU_API_KEY")
		os.Exit(1)
	}

	client, err := tatsu.New(key,
		tatsu.WithBaseURL(cfg.API.BaseURL),
		tatsu.WithTimeout(cfg.API.Timeout),
		tatsu.WithRateLimit(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Window),
		tatsu.WithRetry(cfg.Retry.MaxRetries, nil),
		tatsu.WithLogger(logger.GetLogger()),
	)
	if err != nil {
		ui.PrintError("Failed to create API client", err.Error())
		os.Exit(1)
	}
	return client
}

// parseSnowflake parses a Discord ID argument
func parseSnowflake(arg, what string) tatsu.Snowflake {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		ui.PrintError("Invalid "+what, arg)
		os.Exit(1)
	}
	return tatsu.Snowflake(id)
}

// printJSON prints a result as indented JSON
func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		ui.PrintError("Failed to encode JSON", err.Error())
		os.Exit(1)
	}
	fmt.Println(string(data))
}

// fail prints an API error and exits
func fail(action string, err error) {
	ui.PrintError(action, err.Error())
	os.Exit(1)
}
