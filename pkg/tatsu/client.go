package tatsu

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	apierrors "tatsugo/pkg/errors"
	"tatsugo/pkg/logger"
	"tatsugo/pkg/ratelimit"
	"tatsugo/pkg/retry"
)

// Version is the library version advertised in the User-Agent
const Version = "1.0.0"

const defaultTimeout = 30 * time.Second

// options holds everything New can override
type options struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	maxRetries int
	backoff    retry.BackoffStrategy
	rateLimit  int
	rateWindow time.Duration
	log        logger.Logger
}

// Option customizes a Client
type Option func(*options)

// WithBaseURL overrides the vendor base URL, mainly for tests
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient supplies a caller-owned HTTP client. The library will
// not close its transport on Close.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) {
		o.httpClient = httpClient
	}
}

// WithTimeout sets the per-request timeout for the owned HTTP client
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(userAgent string) Option {
	return func(o *options) {
		o.userAgent = userAgent
	}
}

// WithRetry sets the transient-failure retry policy: how many extra
// attempts, and the backoff between them
func WithRetry(maxRetries int, backoff retry.BackoffStrategy) Option {
	return func(o *options) {
		o.maxRetries = maxRetries
		if backoff != nil {
			o.backoff = backoff
		}
	}
}

// WithRateLimit primes the limiter with a proactive floor before the
// first response headers arrive. Zero leaves the limiter reactive-only.
func WithRateLimit(requestsPerWindow int, window time.Duration) Option {
	return func(o *options) {
		o.rateLimit = requestsPerWindow
		o.rateWindow = window
	}
}

// WithLogger sets the logger for request diagnostics
func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// Client is the Tatsu API client. It owns one HTTP session and one
// rate limit bucket for its lifetime; all endpoint methods funnel
// through the same executor and are safe to call concurrently.
type Client struct {
	exec *executor
}

// New creates a Client. The API key is required; everything else has
// defaults matching the vendor's published behavior.
func New(key string, opts ...Option) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("tatsu: API key is required")
	}

	o := &options{
		baseURL:    DefaultBaseURL,
		timeout:    defaultTimeout,
		userAgent:  fmt.Sprintf("tatsugo/%s (Go Tatsu API client)", Version),
		maxRetries: 2,
		backoff:    retry.DefaultExponentialBackoff(),
		rateWindow: time.Minute,
		log:        logger.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.maxRetries < 0 {
		return nil, fmt.Errorf("tatsu: max retries cannot be negative")
	}

	httpClient := o.httpClient
	ownsClient := false
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
		ownsClient = true
	}

	limiter := ratelimit.NewBucket(o.rateLimit, o.rateWindow)

	return &Client{
		exec: newExecutor(httpClient, ownsClient, o.baseURL, key, o.userAgent,
			limiter, o.backoff, o.maxRetries, o.log),
	}, nil
}

// Close tears the client down exactly once: it cancels in-flight
// calls, waits for them to settle, and releases the owned transport.
// Every call issued after Close fails with a closed-session error.
func (c *Client) Close() error {
	c.exec.close()
	return nil
}

// RateLimit returns a snapshot of the shared bucket, for diagnostics
func (c *Client) RateLimit() ratelimit.State {
	return c.exec.limiter.Snapshot()
}

// decodePath stamps the request path onto a decode failure so the
// caller can tell which endpoint's schema drifted
func decodePath(err error, rt Route) error {
	if derr, ok := err.(*apierrors.DecodeError); ok {
		derr.Path = rt.Path
	}
	return err
}

// FetchUserProfile fetches a user's global Tatsu profile
func (c *Client) FetchUserProfile(ctx context.Context, userID Snowflake) (*UserProfile, error) {
	rt := routeUserProfile(userID)
	body, err := c.exec.execute(ctx, rt)
	if err != nil {
		return nil, err
	}
	profile, err := DecodeUserProfile(body)
	if err != nil {
		return nil, decodePath(err, rt)
	}
	return profile, nil
}

// FetchMemberPoints fetches a guild member's points standing
func (c *Client) FetchMemberPoints(ctx context.Context, guildID, memberID Snowflake) (*GuildMemberPoints, error) {
	rt := routeMemberPoints(guildID, memberID)
	body, err := c.exec.execute(ctx, rt)
	if err != nil {
		return nil, err
	}
	points, err := DecodeGuildMemberPoints(body)
	if err != nil {
		return nil, decodePath(err, rt)
	}
	return points, nil
}

// UpdateMemberPoints adds or removes points for a guild member. The
// sign of amount selects the action; amount must be non-zero and at
// most 100,000 in either direction. Requires a key with guild manage
// permissions, enforced server-side.
func (c *Client) UpdateMemberPoints(ctx context.Context, guildID, memberID Snowflake, amount int64) (*GuildMemberPoints, error) {
	rt, err := routeUpdateMemberPoints(guildID, memberID, amount)
	if err != nil {
		return nil, err
	}
	body, err := c.exec.execute(ctx, rt)
	if err != nil {
		return nil, err
	}
	points, err := DecodeGuildMemberPoints(body)
	if err != nil {
		return nil, decodePath(err, rt)
	}
	return points, nil
}

// UpdateMemberScore adds or removes score for a guild member, under the
// same bounds as UpdateMemberPoints
func (c *Client) UpdateMemberScore(ctx context.Context, guildID, memberID Snowflake, amount int64) (*GuildMemberScore, error) {
	rt, err := routeUpdateMemberScore(guildID, memberID, amount)
	if err != nil {
		return nil, err
	}
	body, err := c.exec.execute(ctx, rt)
	if err != nil {
		return nil, err
	}
	score, err := DecodeGuildMemberScore(body)
	if err != nil {
		return nil, decodePath(err, rt)
	}
	return score, nil
}

// FetchMemberRanking fetches one member's rank over a period
func (c *Client) FetchMemberRanking(ctx context.Context, guildID, memberID Snowflake, period Period) (*GuildMemberRanking, error) {
	rt, err := routeMemberRanking(guildID, memberID, period)
	if err != nil {
		return nil, err
	}
	body, err := c.exec.execute(ctx, rt)
	if err != nil {
		return nil, err
	}
	ranking, err := DecodeGuildMemberRanking(body)
	if err != nil {
		return nil, decodePath(err, rt)
	}
	return ranking, nil
}

// FetchGuildRankings fetches one leaderboard page of up to 100 rows,
// starting at the given 0-based offset
func (c *Client) FetchGuildRankings(ctx context.Context, guildID Snowflake, period Period, offset int64) (*GuildRankings, error) {
	rt, err := routeGuildRankings(guildID, period, offset)
	if err != nil {
		return nil, err
	}
	body, err := c.exec.execute(ctx, rt)
	if err != nil {
		return nil, err
	}
	rankings, err := DecodeGuildRankings(body)
	if err != nil {
		return nil, decodePath(err, rt)
	}
	return rankings, nil
}

// FetchGuildRankingsRange fetches the pages covering ranks
// [start, end] concurrently, stitches them together and truncates the
// result to the requested range. Ranks are 1-based; start must be at
// least 1 and end at least start. All page fetches share the client's
// rate limit bucket.
func (c *Client) FetchGuildRankingsRange(ctx context.Context, guildID Snowflake, period Period, start, end int64) (*GuildRankings, error) {
	if start < 1 {
		return nil, fmt.Errorf("start must be at least 1, got %d", start)
	}
	if end < start {
		return nil, fmt.Errorf("end must be at least start (%d), got %d", start, end)
	}
	if !period.Valid() {
		return nil, fmt.Errorf("invalid period %q: must be all, month or week", string(period))
	}

	first := start - 1 // the API is 0-indexed
	offsets := []int64{}
	for offset := first; offset <= end-1; offset += RankingsPageSize {
		offsets = append(offsets, offset)
	}

	pages := make([]*GuildRankings, len(offsets))
	g, gctx := errgroup.WithContext(ctx)
	for i, offset := range offsets {
		g.Go(func() error {
			page, err := c.FetchGuildRankings(gctx, guildID, period, offset)
			if err != nil {
				return err
			}
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &GuildRankings{GuildID: guildID, Rankings: []Ranking{}}
	for _, page := range pages {
		for _, row := range page.Rankings {
			if row.Rank >= start && row.Rank <= end {
				result.Rankings = append(result.Rankings, row)
			}
		}
	}
	return result, nil
}

// FetchStoreListing fetches a Tatsu store listing by ID
func (c *Client) FetchStoreListing(ctx context.Context, listingID string) (*StoreListing, error) {
	rt, err := routeStoreListing(listingID)
	if err != nil {
		return nil, err
	}
	body, err := c.exec.execute(ctx, rt)
	if err != nil {
		return nil, err
	}
	listing, err := DecodeStoreListing(body)
	if err != nil {
		return nil, decodePath(err, rt)
	}
	return listing, nil
}
