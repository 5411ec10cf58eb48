package logger

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Event helpers give the client and the crawler one vocabulary for the
// events they emit. Each takes the logger of the emitting component so
// injected loggers flow through unchanged.

// LogRequest logs the outcome of a single API request attempt. The API
// key never appears here; only routing information does.
func LogRequest(log Logger, method, path string, status, attempt int, duration time.Duration) {
	log.DebugWithFields("request completed", map[string]interface{}{
		"method":   method,
		"path":     path,
		"status":   status,
		"attempt":  attempt,
		"duration": duration.String(),
	})
}

// LogRetry logs a transport failure and the scheduled retry
func LogRetry(log Logger, method, path string, attempt int, delay time.Duration, err error) {
	log.WarnWithFields("request failed, retrying", map[string]interface{}{
		"method":  method,
		"path":    path,
		"attempt": attempt,
		"delay":   delay.String(),
		"error":   err.Error(),
	})
}

// LogServerRetry logs a 5xx response and the scheduled retry
func LogServerRetry(log Logger, method, path string, status, attempt int, delay time.Duration) {
	log.WarnWithFields("server error, retrying", map[string]interface{}{
		"method":  method,
		"path":    path,
		"status":  status,
		"attempt": attempt,
		"delay":   delay.String(),
	})
}

// LogRateLimited logs a 429 from the vendor and the honored retry-after
func LogRateLimited(log Logger, method, path string, retryAfter time.Duration) {
	log.WarnWithFields("rate limited, backing off", map[string]interface{}{
		"method":      method,
		"path":        path,
		"retry_after": retryAfter.String(),
	})
}

// LogCrawlStart logs the beginning of a leaderboard crawl
func LogCrawlStart(log Logger, guildID, period string, concurrency int) {
	log.InfoWithFields("Starting leaderboard crawl", map[string]interface{}{
		"guild_id":    guildID,
		"period":      period,
		"concurrency": concurrency,
	})
}

// LogCrawlComplete logs a finished leaderboard crawl
func LogCrawlComplete(log Logger, guildID string, rows, fetched, restored int) {
	log.InfoWithFields("Leaderboard crawl complete", map[string]interface{}{
		"guild_id":       guildID,
		"rows":           rows,
		"pages_fetched":  fetched,
		"pages_restored": restored,
	})
}

// MustGetLogger gets the logger or panics if it fails
func MustGetLogger() Logger {
	logger := GetLogger()
	if logger == nil {
		panic("logger not initialized")
	}
	return logger
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

// nopLogger is a logger that does nothing (useful for testing)
type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) Fatal(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) WithContext(ctx context.Context) Logger                    { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) FatalWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger                               { return nil }
