package logger

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLogRequest(t *testing.T) {
	tl := NewTestLogger()
	LogRequest(tl, "GET", "/users/1/profile", 200, 1, 42*time.Millisecond)

	entries := tl.EntriesByLevel("DEBUG")
	if len(entries) != 1 {
		t.Fatalf("expected 1 debug entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Message != "request completed" {
		t.Errorf("unexpected message %q", e.Message)
	}
	if e.Fields["method"] != "GET" || e.Fields["path"] != "/users/1/profile" {
		t.Errorf("routing fields not captured: %v", e.Fields)
	}
	if e.Fields["status"] != 200 || e.Fields["attempt"] != 1 {
		t.Errorf("status fields not captured: %v", e.Fields)
	}
}

func TestLogRetryCarriesError(t *testing.T) {
	tl := NewTestLogger()
	LogRetry(tl, "GET", "/users/1/profile", 1, time.Second, errors.New("connection reset"))

	entries := tl.EntriesByLevel("WARN")
	if len(entries) != 1 {
		t.Fatalf("expected 1 warn entry, got %d", len(entries))
	}
	if entries[0].Fields["error"] != "connection reset" {
		t.Errorf("error field not captured: %v", entries[0].Fields)
	}
	if !strings.Contains(tl.String(), "connection reset") {
		t.Error("rendered log missing the error text")
	}
}

func TestLogServerRetry(t *testing.T) {
	tl := NewTestLogger()
	LogServerRetry(tl, "PATCH", "/guilds/100/members/200/points", 502, 2, 100*time.Millisecond)

	if !tl.HasMessage("server error, retrying") {
		t.Fatal("retry message not logged")
	}
	entries := tl.EntriesByLevel("WARN")
	if entries[0].Fields["status"] != 502 {
		t.Errorf("status not captured: %v", entries[0].Fields)
	}
}

func TestLogRateLimited(t *testing.T) {
	tl := NewTestLogger()
	LogRateLimited(tl, "GET", "/guilds/100/rankings/all", 2*time.Second)

	if !tl.HasMessage("rate limited, backing off") {
		t.Fatal("rate limit message not logged")
	}
	entries := tl.EntriesByLevel("WARN")
	if entries[0].Fields["retry_after"] != "2s" {
		t.Errorf("retry_after not captured: %v", entries[0].Fields)
	}
}

func TestLogCrawlStartAndComplete(t *testing.T) {
	tl := NewTestLogger()
	LogCrawlStart(tl, "172002275412279296", "all", 3)
	LogCrawlComplete(tl, "172002275412279296", 450, 2, 3)

	if !tl.HasMessage("Starting leaderboard crawl") {
		t.Error("start message not logged")
	}
	if !tl.HasMessage("Leaderboard crawl complete") {
		t.Error("complete message not logged")
	}
	infos := tl.EntriesByLevel("INFO")
	if len(infos) != 2 {
		t.Fatalf("expected 2 info entries, got %d", len(infos))
	}
	done := infos[1]
	if done.Fields["rows"] != 450 || done.Fields["pages_fetched"] != 2 || done.Fields["pages_restored"] != 3 {
		t.Errorf("crawl totals not captured: %v", done.Fields)
	}
}

func TestTestLoggerContextChaining(t *testing.T) {
	tl := NewTestLogger()
	tl.WithField("component", "crawler").
		WithError(errors.New("boom")).
		WithFields(map[string]interface{}{"guild_id": "100"}).
		Warn("page fetch failed")

	entries := tl.EntriesByLevel("WARN")
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Fields["component"] != "crawler" || e.Fields["guild_id"] != "100" {
		t.Errorf("bound fields not merged: %v", e.Fields)
	}
	if e.Err == nil || e.Err.Error() != "boom" {
		t.Errorf("bound error not captured: %v", e.Err)
	}
	if tl.HasError() {
		t.Error("HasError should report only error-level entries")
	}

	tl.Clear()
	if len(tl.Entries()) != 0 {
		t.Error("Clear did not drop entries")
	}
}
