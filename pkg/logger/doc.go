// Package logger provides a structured logging interface for the Tatsu
// API client and CLI.
//
// It wraps the zerolog library to provide a clean, easy-to-use API with support for:
// - Multiple log levels (Debug, Info, Warn, Error, Fatal)
// - Structured logging with fields
// - Pretty console output with colors
// - File output with rotation support
// - Context support for request tracing
// - Global logger instance for easy access
//
// Request logging never includes the API key: helpers record method,
// path, status, attempt number and duration only.
//
// Basic Usage:
//
//	import "tatsugo/pkg/logger"
//
//	// Initialize the global logger
//	cfg := &config.LoggingConfig{
//	    Level: "info",
//	    File: "/var/log/tatsugo.log",
//	}
//	err := logger.Initialize(cfg)
//
//	// Use the global logger
//	logger.Info("Client started")
//	logger.WithField("guild_id", "173184118492889089").Info("Crawling leaderboard")
//	logger.WithError(err).Error("Failed to fetch rankings page")
//
// Advanced Usage:
//
//	// Create a logger instance with fields
//	log := logger.GetLogger().
//	    WithField("component", "executor").
//	    WithField("period", "month")
//
//	// Use structured logging
//	log.InfoWithFields("Page fetched", map[string]interface{}{
//	    "offset":   200,
//	    "rows":     100,
//	    "duration": time.Second * 2,
//	})
//
// The logger supports the following configuration options:
// - Level: Log level (debug, info, warn, error, fatal)
// - File: Path to log file (empty for console only)
// - MaxSize: Maximum size in MB before rotation
// - MaxBackups: Number of old log files to keep
// - MaxAge: Maximum age in days for log files
// - Compress: Whether to compress old log files
package logger
