package integration

import (
	"testing"
	"time"

	"tatsugo/pkg/logger"
	"tatsugo/pkg/retry"
	"tatsugo/pkg/tatsu"
)

const testAPIKey = "test-api-key-0123456789abcdef"

// TestHelper provides common test utilities
type TestHelper struct {
	t            *testing.T
	mockServer   *MockTatsuServer
	cleanupFuncs []func()
}

// NewTestHelper creates a new test helper
func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{t: t}
}

// SetupMockServer starts a mock Tatsu API server
func (h *TestHelper) SetupMockServer() *MockTatsuServer {
	h.mockServer = NewMockTatsuServer(testAPIKey)
	h.AddCleanup(h.mockServer.Close)
	return h.mockServer
}

// NewClient builds a client pointed at the mock server with fast
// retries so failure tests don't stall
func (h *TestHelper) NewClient() *tatsu.Client {
	return h.NewClientWithKey(testAPIKey)
}

// NewClientWithKey builds a client with an explicit key, for auth
// failure tests
func (h *TestHelper) NewClientWithKey(key string) *tatsu.Client {
	client, err := tatsu.New(key,
		tatsu.WithBaseURL(h.mockServer.URL()),
		tatsu.WithTimeout(5*time.Second),
		tatsu.WithRetry(2, &retry.ConstantBackoff{Delay: 10 * time.Millisecond}),
		tatsu.WithLogger(logger.NewTestLogger()),
	)
	if err != nil {
		h.t.Fatalf("Failed to create client: %v", err)
	}
	h.AddCleanup(func() { client.Close() })
	return client
}

// AddCleanup registers a cleanup function run when the test ends
func (h *TestHelper) AddCleanup(fn func()) {
	h.cleanupFuncs = append(h.cleanupFuncs, fn)
}

// Cleanup runs all cleanup functions in reverse order
func (h *TestHelper) Cleanup() {
	for i := len(h.cleanupFuncs) - 1; i >= 0; i-- {
		h.cleanupFuncs[i]()
	}
}

// GenerateRankings builds count sequential leaderboard rows
func GenerateRankings(count int) []tatsu.Ranking {
	rows := make([]tatsu.Ranking, count)
	for i := range rows {
		rows[i] = tatsu.Ranking{
			Rank:   int64(i + 1),
			Score:  int64((count - i) * 100),
			UserID: tatsu.Snowflake(100000000000000000 + int64(i)),
		}
	}
	return rows
}
