package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tatsugo/internal/leaderboard"
	"tatsugo/pkg/checkpoint"
	"tatsugo/pkg/export"
	"tatsugo/pkg/logger"
	"tatsugo/pkg/tatsu"
	"tatsugo/pkg/ui"
)

var (
	lbPeriod     string
	lbRange      string
	lbAll        bool
	lbResume     bool
	lbConcurrent int
	lbExportDir  string
	lbFormat     string
)

// leaderboardCmd represents the leaderboard command
var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard <guild-id>",
	Short: "Fetch guild leaderboard rankings",
	Long: `Fetch a guild's Tatsu score leaderboard.

By default the first page (100 rows) is fetched. Use --range to fetch
a specific rank span, or --all to crawl the whole leaderboard page by
page. Crawls can be checkpointed with --resume so an interrupted run
picks up where it left off without refetching pages.`,
	Example: `  # First 100 rows, all time
  tatsugo leaderboard 172002275412279296

  # Ranks 1-500 this month
  tatsugo leaderboard 172002275412279296 --period month --range 1-500

  # Full crawl, resumable, exported as CSV
  tatsugo leaderboard 172002275412279296 --all --resume --export ./out --format csv`,
	Args: cobra.ExactArgs(1),
	Run:  runLeaderboard,
}

func init() {
	rootCmd.AddCommand(leaderboardCmd)
	leaderboardCmd.Flags().StringVar(&lbPeriod, "period", "all", "ranking period (all, month, week)")
	leaderboardCmd.Flags().StringVar(&lbRange, "range", "", "rank range to fetch, e.g. 1-500")
	leaderboardCmd.Flags().BoolVar(&lbAll, "all", false, "crawl the entire leaderboard")
	leaderboardCmd.Flags().BoolVar(&lbResume, "resume", false, "checkpoint the crawl and resume a previous one")
	leaderboardCmd.Flags().IntVar(&lbConcurrent, "concurrent", 0, "pages fetched in parallel during a crawl (default from config)")
	leaderboardCmd.Flags().StringVar(&lbExportDir, "export", "", "write results to this directory instead of the terminal")
	leaderboardCmd.Flags().StringVarP(&lbFormat, "format", "f", "", "export format: json or csv (default from config)")
}

// parseRankRange parses a "start-end" rank span
func parseRankRange(arg string) (int64, int64) {
	parts := strings.SplitN(arg, "-", 2)
	if len(parts) != 2 {
		ui.PrintError("Invalid range, expected start-end", arg)
		os.Exit(1)
	}
	start, err1 := strconv.ParseInt(parts[0], 10, 64)
	end, err2 := strconv.ParseInt(parts[1], 10, 64)
	if err1 != nil || err2 != nil || start < 1 || end < start {
		ui.PrintError("Invalid range, expected start-end", arg)
		os.Exit(1)
	}
	return start, end
}

func runLeaderboard(cmd *cobra.Command, args []string) {
	guildID := parseSnowflake(args[0], "guild ID")

	period := tatsu.Period(lbPeriod)
	if !period.Valid() {
		ui.PrintError("Invalid period", lbPeriod)
		os.Exit(1)
	}
	if lbAll && lbRange != "" {
		ui.PrintError("Conflicting flags", "--all and --range cannot be combined")
		os.Exit(1)
	}
	if lbResume && !lbAll {
		ui.PrintError("Invalid flags", "--resume only applies to --all crawls")
		os.Exit(1)
	}

	cfg := loadConfig()
	client := buildClient(cfg)
	defer client.Close()

	ctx := context.Background()
	var rankings []tatsu.Ranking
	var err error

	switch {
	case lbAll:
		rankings, err = crawlAll(ctx, client, cfg.Crawl.ConcurrentPages, guildID, period)
	case lbRange != "":
		start, end := parseRankRange(lbRange)
		var page *tatsu.GuildRankings
		page, err = client.FetchGuildRankingsRange(ctx, guildID, period, start, end)
		if page != nil {
			rankings = page.Rankings
		}
	default:
		var page *tatsu.GuildRankings
		page, err = client.FetchGuildRankings(ctx, guildID, period, 0)
		if page != nil {
			rankings = page.Rankings
		}
	}
	if err != nil {
		fail("Failed to fetch leaderboard", err)
	}

	if lbExportDir != "" {
		exportRankings(guildID, period, rankings, cfg.Output.Format, cfg.Output.OverwriteExisting)
		return
	}

	if jsonOutput {
		printJSON(rankings)
		return
	}
	if len(rankings) == 0 {
		ui.PrintWarning("Leaderboard is empty")
		return
	}
	fmt.Println(ui.RenderLeaderboard(guildID.String(), string(period), rankings))
}

func crawlAll(ctx context.Context, client *tatsu.Client, defaultConcurrency int, guildID tatsu.Snowflake, period tatsu.Period) ([]tatsu.Ranking, error) {
	concurrency := lbConcurrent
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	var ckpt *checkpoint.Manager
	if lbResume {
		m, err := checkpoint.NewManager(guildID.String(), string(period))
		if err != nil {
			return nil, fmt.Errorf("failed to open checkpoint: %w", err)
		}
		ckpt = m
	}

	progress := ui.NewCrawlProgress()
	crawler := leaderboard.NewCrawler(client, leaderboard.Options{
		Concurrency: concurrency,
		Checkpoint:  ckpt,
		Logger:      logger.GetLogger(),
		OnPage: func(offset int64, rows int, fromCheckpoint bool) {
			if fromCheckpoint {
				progress.PageSkipped(int(offset), rows)
			} else {
				progress.PageFetched(int(offset), rows)
			}
		},
	})

	result, err := crawler.Crawl(ctx, guildID, period)
	if err != nil {
		return nil, err
	}
	progress.Done()
	return result.Rankings, nil
}

func exportRankings(guildID tatsu.Snowflake, period tatsu.Period, rankings []tatsu.Ranking, defaultFormat string, overwrite bool) {
	format := lbFormat
	if format == "" {
		format = defaultFormat
	}

	mgr, err := export.NewManager(lbExportDir, overwrite)
	if err != nil {
		fail("Failed to open export directory", err)
	}
	snap := &export.Snapshot{
		GuildID:   guildID.String(),
		Period:    string(period),
		FetchedAt: time.Now().UTC(),
		Rankings:  rankings,
	}
	path, err := mgr.Write(snap, format)
	if err != nil {
		fail("Failed to export rankings", err)
	}
	ui.PrintSuccess(fmt.Sprintf("Exported %d rankings", len(rankings)))
	ui.PrintInfo("File", path)
}
