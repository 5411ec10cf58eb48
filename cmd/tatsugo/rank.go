package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tatsugo/pkg/tatsu"
	"tatsugo/pkg/ui"
)

var rankPeriod string

// rankCmd represents the rank command
var rankCmd = &cobra.Command{
	Use:   "rank <guild-id> <member-id>",
	Short: "Show a member's leaderboard ranking",
	Long: `Show one guild member's rank and score over a period.

Periods: all (default), month, week.`,
	Example: `  # All-time ranking
  tatsugo rank 172002275412279296 274561812664549376

  # This month's ranking
  tatsugo rank 172002275412279296 274561812664549376 --period month`,
	Args: cobra.ExactArgs(2),
	Run:  runRank,
}

func init() {
	rootCmd.AddCommand(rankCmd)
	rankCmd.Flags().StringVar(&rankPeriod, "period", "all", "ranking period (all, month, week)")
}

func runRank(cmd *cobra.Command, args []string) {
	guildID := parseSnowflake(args[0], "guild ID")
	memberID := parseSnowflake(args[1], "member ID")

	period := tatsu.Period(rankPeriod)
	if !period.Valid() {
		ui.PrintError("Invalid period", rankPeriod)
		os.Exit(1)
	}

	cfg := loadConfig()
	client := buildClient(cfg)
	defer client.Close()

	ranking, err := client.FetchMemberRanking(context.Background(), guildID, memberID, period)
	if err != nil {
		fail("Failed to fetch ranking", err)
	}

	if jsonOutput {
		printJSON(ranking)
		return
	}
	fmt.Println(ui.RenderMemberRanking(ranking, string(period)))
}
