package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"tatsugo/pkg/tatsu"
)

// MockTatsuServer simulates the Tatsu API with realistic behavior:
// keyed auth, rate limit headers on every response, configurable
// errors and delays, and in-memory guild state that mutations modify.
type MockTatsuServer struct {
	server *httptest.Server
	apiKey string

	requestCount  int32
	rateLimitHits int32

	mu             sync.RWMutex
	profiles       map[string]*tatsu.UserProfile
	points         map[string]int64 // guildID/memberID
	scores         map[string]int64
	leaderboards   map[string][]tatsu.Ranking // guildID/period
	listings       map[string]*tatsu.StoreListing
	errorResponses map[string]int // request path to status code
	failOnce       map[string]int // request path to status code, consumed on first hit
	delays         map[string]time.Duration
	forced429      int32 // next N requests are rate limited
}

// NewMockTatsuServer creates a mock API accepting the given key
func NewMockTatsuServer(apiKey string) *MockTatsuServer {
	m := &MockTatsuServer{
		apiKey:         apiKey,
		profiles:       make(map[string]*tatsu.UserProfile),
		points:         make(map[string]int64),
		scores:         make(map[string]int64),
		leaderboards:   make(map[string][]tatsu.Ranking),
		listings:       make(map[string]*tatsu.StoreListing),
		errorResponses: make(map[string]int),
		failOnce:       make(map[string]int),
		delays:         make(map[string]time.Duration),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/{user_id}/profile", m.handleProfile)
	mux.HandleFunc("GET /guilds/{guild_id}/members/{member_id}/points", m.handleGetPoints)
	mux.HandleFunc("PATCH /guilds/{guild_id}/members/{member_id}/points", m.handlePatchPoints)
	mux.HandleFunc("PATCH /guilds/{guild_id}/members/{member_id}/score", m.handlePatchScore)
	mux.HandleFunc("GET /guilds/{guild_id}/rankings/members/{member_id}/{period}", m.handleMemberRanking)
	mux.HandleFunc("GET /guilds/{guild_id}/rankings/{period}", m.handleGuildRankings)
	mux.HandleFunc("GET /store/listings/{listing_id}", m.handleStoreListing)

	m.server = httptest.NewServer(mux)
	return m
}

// URL returns the base URL of the mock server
func (m *MockTatsuServer) URL() string {
	return m.server.URL
}

// Close shuts down the mock server
func (m *MockTatsuServer) Close() {
	m.server.Close()
}

// SeedProfile registers a user profile
func (m *MockTatsuServer) SeedProfile(p *tatsu.UserProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID.String()] = p
}

// SeedPoints sets a member's points balance
func (m *MockTatsuServer) SeedPoints(guildID, memberID tatsu.Snowflake, points int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.points[guildID.String()+"/"+memberID.String()] = points
}

// SeedScore sets a member's score
func (m *MockTatsuServer) SeedScore(guildID, memberID tatsu.Snowflake, score int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores[guildID.String()+"/"+memberID.String()] = score
}

// SeedLeaderboard installs the full ordered row set for a guild period
func (m *MockTatsuServer) SeedLeaderboard(guildID tatsu.Snowflake, period tatsu.Period, rows []tatsu.Ranking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaderboards[guildID.String()+"/"+string(period)] = rows
}

// SeedListing registers a store listing
func (m *MockTatsuServer) SeedListing(l *tatsu.StoreListing) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listings[l.ID] = l
}

// SetErrorResponse makes every request to the path return the code
func (m *MockTatsuServer) SetErrorResponse(path string, code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorResponses[path] = code
}

// ClearErrorResponse removes a configured error
func (m *MockTatsuServer) ClearErrorResponse(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.errorResponses, path)
}

// FailOnce makes the next request to the path return the code, then
// behave normally
func (m *MockTatsuServer) FailOnce(path string, code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOnce[path] = code
}

// SetDelay adds latency to every request to the path
func (m *MockTatsuServer) SetDelay(path string, delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays[path] = delay
}

// ForceRateLimit makes the next n requests return 429 with Retry-After
func (m *MockTatsuServer) ForceRateLimit(n int) {
	atomic.StoreInt32(&m.forced429, int32(n))
}

// GetRequestCount returns the total number of requests served
func (m *MockTatsuServer) GetRequestCount() int {
	return int(atomic.LoadInt32(&m.requestCount))
}

// GetRateLimitHits returns the number of 429 responses sent
func (m *MockTatsuServer) GetRateLimitHits() int {
	return int(atomic.LoadInt32(&m.rateLimitHits))
}

// ResetCounters resets the request counters
func (m *MockTatsuServer) ResetCounters() {
	atomic.StoreInt32(&m.requestCount, 0)
	atomic.StoreInt32(&m.rateLimitHits, 0)
}

// gate runs the shared per-request checks: auth, configured errors,
// delays and forced rate limits. It reports whether the handler should
// continue.
func (m *MockTatsuServer) gate(w http.ResponseWriter, r *http.Request) bool {
	atomic.AddInt32(&m.requestCount, 1)

	if delay := m.getDelay(r.URL.Path); delay > 0 {
		time.Sleep(delay)
	}

	if r.Header.Get("Authorization") != m.apiKey {
		m.writeVendorError(w, http.StatusUnauthorized, "invalid api key")
		return false
	}

	if atomic.LoadInt32(&m.forced429) > 0 {
		atomic.AddInt32(&m.forced429, -1)
		atomic.AddInt32(&m.rateLimitHits, 1)
		m.rateHeaders(w, 0)
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code":    0,
			"message": "you are being rate limited",
		})
		return false
	}

	if code := m.takeFailOnce(r.URL.Path); code > 0 {
		m.writeVendorError(w, code, fmt.Sprintf("injected error %d", code))
		return false
	}
	if code := m.getErrorResponse(r.URL.Path); code > 0 {
		m.writeVendorError(w, code, fmt.Sprintf("configured error %d", code))
		return false
	}

	return true
}

// rateHeaders stamps the bucket headers the client's limiter learns
// from
func (m *MockTatsuServer) rateHeaders(w http.ResponseWriter, remaining int) {
	w.Header().Set("X-RateLimit-Limit", "60")
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Minute).Unix(), 10))
}

func (m *MockTatsuServer) writeJSON(w http.ResponseWriter, v interface{}) {
	m.rateHeaders(w, 59)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (m *MockTatsuServer) writeVendorError(w http.ResponseWriter, status int, message string) {
	m.rateHeaders(w, 59)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    0,
		"message": message,
	})
}

func (m *MockTatsuServer) handleProfile(w http.ResponseWriter, r *http.Request) {
	if !m.gate(w, r) {
		return
	}

	m.mu.RLock()
	profile, ok := m.profiles[r.PathValue("user_id")]
	m.mu.RUnlock()
	if !ok {
		m.writeVendorError(w, http.StatusNotFound, "user not found")
		return
	}
	m.writeJSON(w, profile)
}

func (m *MockTatsuServer) handleGetPoints(w http.ResponseWriter, r *http.Request) {
	if !m.gate(w, r) {
		return
	}

	key := r.PathValue("guild_id") + "/" + r.PathValue("member_id")
	m.mu.RLock()
	points, ok := m.points[key]
	m.mu.RUnlock()
	if !ok {
		m.writeVendorError(w, http.StatusNotFound, "member not found")
		return
	}
	m.writeJSON(w, map[string]interface{}{
		"guild_id": r.PathValue("guild_id"),
		"user_id":  r.PathValue("member_id"),
		"points":   points,
	})
}

// mutation mirrors the vendor's PATCH body: an action selector and an
// absolute amount
type mutation struct {
	Action int   `json:"action"`
	Amount int64 `json:"amount"`
}

func (m *MockTatsuServer) readMutation(w http.ResponseWriter, r *http.Request) (*mutation, bool) {
	var mut mutation
	if err := json.NewDecoder(r.Body).Decode(&mut); err != nil {
		m.writeVendorError(w, http.StatusBadRequest, "malformed body")
		return nil, false
	}
	if mut.Amount <= 0 || mut.Amount > 100_000 {
		m.writeVendorError(w, http.StatusBadRequest, "amount out of range")
		return nil, false
	}
	return &mut, true
}

func (m *MockTatsuServer) handlePatchPoints(w http.ResponseWriter, r *http.Request) {
	if !m.gate(w, r) {
		return
	}
	mut, ok := m.readMutation(w, r)
	if !ok {
		return
	}

	key := r.PathValue("guild_id") + "/" + r.PathValue("member_id")
	m.mu.Lock()
	if mut.Action == 0 {
		m.points[key] += mut.Amount
	} else {
		m.points[key] -= mut.Amount
	}
	points := m.points[key]
	m.mu.Unlock()

	m.writeJSON(w, map[string]interface{}{
		"guild_id": r.PathValue("guild_id"),
		"user_id":  r.PathValue("member_id"),
		"points":   points,
	})
}

func (m *MockTatsuServer) handlePatchScore(w http.ResponseWriter, r *http.Request) {
	if !m.gate(w, r) {
		return
	}
	mut, ok := m.readMutation(w, r)
	if !ok {
		return
	}

	key := r.PathValue("guild_id") + "/" + r.PathValue("member_id")
	m.mu.Lock()
	if mut.Action == 0 {
		m.scores[key] += mut.Amount
	} else {
		m.scores[key] -= mut.Amount
	}
	score := m.scores[key]
	m.mu.Unlock()

	m.writeJSON(w, map[string]interface{}{
		"guild_id": r.PathValue("guild_id"),
		"user_id":  r.PathValue("member_id"),
		"score":    score,
	})
}

func (m *MockTatsuServer) handleMemberRanking(w http.ResponseWriter, r *http.Request) {
	if !m.gate(w, r) {
		return
	}

	lbKey := r.PathValue("guild_id") + "/" + r.PathValue("period")
	m.mu.RLock()
	rows := m.leaderboards[lbKey]
	m.mu.RUnlock()

	for _, row := range rows {
		if row.UserID.String() == r.PathValue("member_id") {
			m.writeJSON(w, map[string]interface{}{
				"guild_id": r.PathValue("guild_id"),
				"user_id":  r.PathValue("member_id"),
				"rank":     row.Rank,
				"score":    row.Score,
			})
			return
		}
	}
	m.writeVendorError(w, http.StatusNotFound, "member not ranked")
}

func (m *MockTatsuServer) handleGuildRankings(w http.ResponseWriter, r *http.Request) {
	if !m.gate(w, r) {
		return
	}

	offset, err := strconv.ParseInt(r.URL.Query().Get("offset"), 10, 64)
	if err != nil || offset < 0 {
		offset = 0
	}

	lbKey := r.PathValue("guild_id") + "/" + r.PathValue("period")
	m.mu.RLock()
	rows := m.leaderboards[lbKey]
	m.mu.RUnlock()

	page := []tatsu.Ranking{}
	if offset < int64(len(rows)) {
		end := offset + tatsu.RankingsPageSize
		if end > int64(len(rows)) {
			end = int64(len(rows))
		}
		page = rows[offset:end]
	}

	m.writeJSON(w, map[string]interface{}{
		"guild_id": r.PathValue("guild_id"),
		"rankings": page,
	})
}

func (m *MockTatsuServer) handleStoreListing(w http.ResponseWriter, r *http.Request) {
	if !m.gate(w, r) {
		return
	}

	m.mu.RLock()
	listing, ok := m.listings[r.PathValue("listing_id")]
	m.mu.RUnlock()
	if !ok {
		m.writeVendorError(w, http.StatusNotFound, "listing not found")
		return
	}
	m.writeJSON(w, listing)
}

func (m *MockTatsuServer) getErrorResponse(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.errorResponses[path]
}

func (m *MockTatsuServer) takeFailOnce(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	code := m.failOnce[path]
	if code > 0 {
		delete(m.failOnce, path)
	}
	return code
}

func (m *MockTatsuServer) getDelay(path string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.delays[path]
}
