package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tatsugo/pkg/ui"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Mutate guild member score",
	Long: `Add to or remove from a guild member's Tatsu score.

Score is the experience-like metric behind the guild leaderboard.
Mutations require manage-server permission in the guild and move at
most 100,000 score at a time.`,
}

// scoreAddCmd represents the score add command
var scoreAddCmd = &cobra.Command{
	Use:     "add <guild-id> <member-id> <amount>",
	Short:   "Add score to a member",
	Example: `  tatsugo score add 172002275412279296 274561812664549376 2500`,
	Args:    cobra.ExactArgs(3),
	Run:     runScoreAdd,
}

// scoreRemoveCmd represents the score remove command
var scoreRemoveCmd = &cobra.Command{
	Use:     "remove <guild-id> <member-id> <amount>",
	Short:   "Remove score from a member",
	Example: `  tatsugo score remove 172002275412279296 274561812664549376 2500`,
	Args:    cobra.ExactArgs(3),
	Run:     runScoreRemove,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.AddCommand(scoreAddCmd)
	scoreCmd.AddCommand(scoreRemoveCmd)
}

func runScoreAdd(cmd *cobra.Command, args []string) {
	mutateScore(args, 1)
}

func runScoreRemove(cmd *cobra.Command, args []string) {
	mutateScore(args, -1)
}

func mutateScore(args []string, sign int64) {
	guildID := parseSnowflake(args[0], "guild ID")
	memberID := parseSnowflake(args[1], "member ID")
	amount := parseAmount(args[2])

	cfg := loadConfig()
	client := buildClient(cfg)
	defer client.Close()

	score, err := client.UpdateMemberScore(context.Background(), guildID, memberID, sign*amount)
	if err != nil {
		fail("Failed to update score", err)
	}

	if jsonOutput {
		printJSON(score)
		return
	}
	verb := "Added"
	if sign < 0 {
		verb = "Removed"
	}
	ui.PrintSuccess(fmt.Sprintf("%s %d score", verb, amount))
	ui.PrintInfo("New score", strconv.FormatInt(score.Score, 10))
}
