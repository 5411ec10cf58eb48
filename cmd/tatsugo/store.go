package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tatsugo/pkg/ui"
)

// storeCmd represents the store command
var storeCmd = &cobra.Command{
	Use:   "store <listing-id>",
	Short: "Fetch a Tatsu store listing",
	Long: `Fetch one listing from the Tatsu store by its identifier.

Listing IDs look like 'furni_1x1_chair_vanity'.`,
	Example: `  tatsugo store furni_1x1_chair_vanity`,
	Args:    cobra.ExactArgs(1),
	Run:     runStore,
}

func init() {
	rootCmd.AddCommand(storeCmd)
}

func runStore(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	client := buildClient(cfg)
	defer client.Close()

	listing, err := client.FetchStoreListing(context.Background(), args[0])
	if err != nil {
		fail("Failed to fetch store listing", err)
	}

	if jsonOutput {
		printJSON(listing)
		return
	}
	fmt.Println(ui.RenderStoreListing(listing))
}
