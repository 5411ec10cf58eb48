package leaderboard

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"tatsugo/pkg/checkpoint"
	"tatsugo/pkg/logger"
	"tatsugo/pkg/tatsu"
)

// Fetcher fetches one page of a guild leaderboard. *tatsu.Client
// satisfies this.
type Fetcher interface {
	FetchGuildRankings(ctx context.Context, guildID tatsu.Snowflake, period tatsu.Period, offset int64) (*tatsu.GuildRankings, error)
}

// PageFunc is called after each page, fetched or restored from a
// checkpoint
type PageFunc func(offset int64, rows int, fromCheckpoint bool)

// Options configures a crawl
type Options struct {
	// Concurrency is the number of pages fetched in parallel per round
	Concurrency int

	// Checkpoint enables resumable crawls when set
	Checkpoint *checkpoint.Manager

	// OnPage is an optional progress callback
	OnPage PageFunc

	Logger logger.Logger
}

// Result is a completed crawl
type Result struct {
	GuildID       tatsu.Snowflake
	Period        tatsu.Period
	Rankings      []tatsu.Ranking
	PagesFetched  int
	PagesRestored int
}

// Crawler walks a guild leaderboard page by page until the first short
// page marks the end
type Crawler struct {
	fetcher     Fetcher
	concurrency int
	ckpt        *checkpoint.Manager
	onPage      PageFunc
	logger      logger.Logger
}

// NewCrawler creates a crawler
func NewCrawler(fetcher Fetcher, opts Options) *Crawler {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 3
	}
	log := opts.Logger
	if log == nil {
		log = logger.GetLogger()
	}
	return &Crawler{
		fetcher:     fetcher,
		concurrency: concurrency,
		ckpt:        opts.Checkpoint,
		onPage:      opts.OnPage,
		logger:      log,
	}
}

// Crawl fetches every page of the leaderboard. The leaderboard length
// is unknown up front, so pages are fetched in rounds of Concurrency
// offsets; the first page with fewer than the full page size of rows
// marks the end. A round may overshoot past the end, which costs at
// most Concurrency-1 empty-page requests.
func (c *Crawler) Crawl(ctx context.Context, guildID tatsu.Snowflake, period tatsu.Period) (*Result, error) {
	if !period.Valid() {
		return nil, fmt.Errorf("invalid period %q", period)
	}

	result := &Result{GuildID: guildID, Period: period}

	var cp *checkpoint.Checkpoint
	if c.ckpt != nil {
		loaded, err := c.ckpt.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load checkpoint: %w", err)
		}
		if loaded != nil && loaded.GuildID == guildID.String() && loaded.Period == string(period) {
			cp = loaded
		} else {
			cp, err = c.ckpt.Create(guildID.String(), string(period))
			if err != nil {
				return nil, fmt.Errorf("failed to create checkpoint: %w", err)
			}
		}
	}

	logger.LogCrawlStart(c.logger, guildID.String(), string(period), c.concurrency)

	var mu sync.Mutex
	pages := make(map[int64][]tatsu.Ranking)
	endSeen := false

	// Restore pages already fetched in an earlier run
	if cp != nil {
		for offset := int64(0); ; offset += tatsu.RankingsPageSize {
			rows, ok := cp.PageRows(int(offset))
			if !ok {
				break
			}
			pages[offset] = rows
			result.PagesRestored++
			if c.onPage != nil {
				c.onPage(offset, len(rows), true)
			}
			if len(rows) < tatsu.RankingsPageSize {
				endSeen = true
			}
		}
		if cp.Complete {
			endSeen = true
		}
	}

	nextOffset := int64(len(pages)) * tatsu.RankingsPageSize

	for !endSeen {
		g, gctx := errgroup.WithContext(ctx)
		offsets := make([]int64, 0, c.concurrency)
		for i := 0; i < c.concurrency; i++ {
			offsets = append(offsets, nextOffset)
			nextOffset += tatsu.RankingsPageSize
		}

		for _, offset := range offsets {
			offset := offset
			g.Go(func() error {
				page, err := c.fetcher.FetchGuildRankings(gctx, guildID, period, offset)
				if err != nil {
					return err
				}

				mu.Lock()
				defer mu.Unlock()

				pages[offset] = page.Rankings
				if len(page.Rankings) < tatsu.RankingsPageSize {
					endSeen = true
				}
				result.PagesFetched++
				if c.onPage != nil {
					c.onPage(offset, len(page.Rankings), false)
				}
				if cp != nil {
					if err := c.ckpt.RecordPage(cp, int(offset), page.Rankings); err != nil {
						return err
					}
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	if cp != nil {
		if err := c.ckpt.MarkComplete(cp); err != nil {
			return nil, err
		}
	}

	// Stitch pages in offset order
	offsets := make([]int64, 0, len(pages))
	for offset := range pages {
		offsets = append(offsets, offset)
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
	for _, offset := range offsets {
		result.Rankings = append(result.Rankings, pages[offset]...)
	}

	logger.LogCrawlComplete(c.logger, guildID.String(), len(result.Rankings), result.PagesFetched, result.PagesRestored)

	return result, nil
}
