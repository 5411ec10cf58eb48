package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"tatsugo/pkg/ui"
)

// pointsCmd represents the points command
var pointsCmd = &cobra.Command{
	Use:   "points",
	Short: "Read and mutate guild member points",
	Long: `Read and mutate a guild member's Tatsu points.

Mutations require an API key whose account has manage-server
permission in the guild; the API enforces this server-side. A single
mutation moves at most 100,000 points.`,
}

// pointsGetCmd represents the points get command
var pointsGetCmd = &cobra.Command{
	Use:     "get <guild-id> <member-id>",
	Short:   "Show a member's points",
	Example: `  tatsugo points get 172002275412279296 274561812664549376`,
	Args:    cobra.ExactArgs(2),
	Run:     runPointsGet,
}

// pointsAddCmd represents the points add command
var pointsAddCmd = &cobra.Command{
	Use:     "add <guild-id> <member-id> <amount>",
	Short:   "Add points to a member",
	Example: `  tatsugo points add 172002275412279296 274561812664549376 100`,
	Args:    cobra.ExactArgs(3),
	Run:     runPointsAdd,
}

// pointsRemoveCmd represents the points remove command
var pointsRemoveCmd = &cobra.Command{
	Use:     "remove <guild-id> <member-id> <amount>",
	Short:   "Remove points from a member",
	Example: `  tatsugo points remove 172002275412279296 274561812664549376 50`,
	Args:    cobra.ExactArgs(3),
	Run:     runPointsRemove,
}

func init() {
	rootCmd.AddCommand(pointsCmd)
	pointsCmd.AddCommand(pointsGetCmd)
	pointsCmd.AddCommand(pointsAddCmd)
	pointsCmd.AddCommand(pointsRemoveCmd)
}

// parseAmount parses a positive mutation amount argument
func parseAmount(arg string) int64 {
	amount, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || amount <= 0 {
		ui.PrintError("Invalid amount, expected a positive integer", arg)
		fmt.Println("Use the 'remove' subcommand to take an amount away.")
		os.Exit(1)
	}
	return amount
}

func runPointsGet(cmd *cobra.Command, args []string) {
	guildID := parseSnowflake(args[0], "guild ID")
	memberID := parseSnowflake(args[1], "member ID")

	cfg := loadConfig()
	client := buildClient(cfg)
	defer client.Close()

	points, err := client.FetchMemberPoints(context.Background(), guildID, memberID)
	if err != nil {
		fail("Failed to fetch points", err)
	}

	if jsonOutput {
		printJSON(points)
		return
	}
	ui.PrintInfo("Member", memberID.String())
	ui.PrintInfo("Points", strconv.FormatInt(points.Points, 10))
}

func runPointsAdd(cmd *cobra.Command, args []string) {
	mutatePoints(args, 1)
}

func runPointsRemove(cmd *cobra.Command, args []string) {
	mutatePoints(args, -1)
}

func mutatePoints(args []string, sign int64) {
	guildID := parseSnowflake(args[0], "guild ID")
	memberID := parseSnowflake(args[1], "member ID")
	amount := parseAmount(args[2])

	cfg := loadConfig()
	client := buildClient(cfg)
	defer client.Close()

	points, err := client.UpdateMemberPoints(context.Background(), guildID, memberID, sign*amount)
	if err != nil {
		fail("Failed to update points", err)
	}

	if jsonOutput {
		printJSON(points)
		return
	}
	verb := "Added"
	if sign < 0 {
		verb = "Removed"
	}
	ui.PrintSuccess(fmt.Sprintf("%s %d points", verb, amount))
	ui.PrintInfo("New total", strconv.FormatInt(points.Points, 10))
}
