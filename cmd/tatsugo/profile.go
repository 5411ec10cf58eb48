package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tatsugo/pkg/ui"
)

// profileCmd represents the profile command
var profileCmd = &cobra.Command{
	Use:   "profile <user-id>",
	Short: "Fetch a user's Tatsu profile",
	Long: `Fetch a Tatsu user's global profile: credits, tokens, reputation,
XP and supporter status.

The user ID is the Discord snowflake of the account. Enable developer
mode in Discord to copy IDs.`,
	Example: `  # Fetch a profile
  tatsugo profile 274561812664549376

  # Print as JSON
  tatsugo profile 274561812664549376 --json`,
	Args: cobra.ExactArgs(1),
	Run:  runProfile,
}

func init() {
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) {
	userID := parseSnowflake(args[0], "user ID")

	cfg := loadConfig()
	client := buildClient(cfg)
	defer client.Close()

	profile, err := client.FetchUserProfile(context.Background(), userID)
	if err != nil {
		fail("Failed to fetch profile", err)
	}

	if jsonOutput {
		printJSON(profile)
		return
	}
	fmt.Println(ui.RenderProfile(profile))
}
