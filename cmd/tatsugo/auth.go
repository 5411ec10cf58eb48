package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tatsugo/pkg/auth"
	"tatsugo/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Tatsu API keys",
	Long: `Manage stored Tatsu API keys securely.

Keys are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (backward compatibility)

Never share your API key or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [name]",
	Short: "Store a Tatsu API key securely",
	Long: `Store a Tatsu API key in the system keychain or an encrypted file.

You will be prompted for:
  - A profile name (if not provided; 'default' is used by commands
    unless another profile is selected)
  - The API key (hidden as you type)

Request a key from the Tatsu bot on Discord if you don't have one.`,
	Example: `  # Interactive login
  tatsugo auth login

  # Store under a named profile
  tatsugo auth login work`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [name]",
	Short: "Remove a stored API key",
	Long: `Remove a stored Tatsu API key.

If no profile name is provided, you will be shown a list of stored
profiles to choose from. You can also remove all profiles at once.`,
	Example: `  # Interactive logout
  tatsugo auth logout

  # Remove a specific profile
  tatsugo auth logout work`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogout,
}

// listCmd represents the auth list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored key profiles",
	Long:  `List all stored Tatsu key profiles with masked key values.`,
	Run:   runList,
}

// guideCmd represents the auth guide command
var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Show the API key setup guide",
	Run: func(cmd *cobra.Command, args []string) {
		auth.ShowKeySetupGuide()
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(listCmd)
	authCmd.AddCommand(guideCmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	name := "default"
	if len(args) > 0 {
		name = args[0]
	}

	reader := bufio.NewReader(os.Stdin)

	// Check if the profile already exists
	if existing, _ := manager.Retrieve(name); existing != nil {
		fmt.Printf("⚠️  Profile '%s' already exists. Replace its key? (y/N): ", name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	fmt.Println("\n🔐 Enter your Tatsu API key (hidden as you type):")
	fmt.Print("API key: ")
	key, err := readPassword()
	if err != nil {
		ui.PrintError("Failed to read API key", err.Error())
		os.Exit(1)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		ui.PrintError("API key is required", "")
		os.Exit(1)
	}

	profile := &auth.Profile{
		Name:         name,
		Key:          key,
		LastModified: time.Now(),
	}

	fmt.Println("\n💾 Storing key securely...")
	if err := manager.Store(profile); err != nil {
		ui.PrintError("Failed to store key", err.Error())
		os.Exit(1)
	}

	sanitized := auth.SanitizeProfile(profile)
	ui.PrintSuccess(fmt.Sprintf("Profile saved: %s (%s)", name, sanitized.Key))

	fmt.Println("\n🔒 Security Information:")
	fmt.Println("   Your key is stored in:")
	if auth.IsKeyringAvailable() {
		fmt.Println("   • System keychain (primary)")
	}
	fmt.Println("   • Encrypted file (backup)")

	fmt.Println("\n📖 Quick Start:")
	fmt.Println("   $ tatsugo profile <user-id>")
	fmt.Println("   $ tatsugo leaderboard <guild-id> --all")
	fmt.Println("\n⚠️  Never share your API key or config files!")
}

func runLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	if len(args) > 0 {
		name := args[0]
		if err := manager.Delete(name); err != nil {
			ui.PrintError("Failed to remove profile", err.Error())
			os.Exit(1)
		}
		ui.PrintSuccess("Profile removed: " + name)
		return
	}

	profiles, err := manager.List()
	if err != nil || len(profiles) == 0 {
		ui.PrintError("No stored profiles found", "")
		return
	}

	reader := bufio.NewReader(os.Stdin)

	if len(profiles) == 1 {
		profile := profiles[0]
		fmt.Printf("Remove profile '%s'? (y/N): ", profile.Name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
		if err := manager.Delete(profile.Name); err != nil {
			ui.PrintError("Failed to remove profile", err.Error())
			os.Exit(1)
		}
		ui.PrintSuccess("Profile removed: " + profile.Name)
		return
	}

	fmt.Println("Select profile to remove:")
	for i, profile := range profiles {
		fmt.Printf("  %d. %s\n", i+1, profile.Name)
	}
	fmt.Printf("  %d. Remove all profiles\n", len(profiles)+1)
	fmt.Printf("  0. Cancel\n\n")

	fmt.Print("Choice: ")
	input, _ := reader.ReadString('\n')

	var choice int
	fmt.Sscanf(strings.TrimSpace(input), "%d", &choice)

	switch {
	case choice == 0:
		return
	case choice == len(profiles)+1:
		fmt.Print("Remove ALL profiles? This cannot be undone! (yes/N): ")
		confirm, _ := reader.ReadString('\n')
		if strings.TrimSpace(confirm) != "yes" {
			return
		}
		if err := manager.DeleteAll(); err != nil {
			ui.PrintError("Failed to remove all profiles", err.Error())
			os.Exit(1)
		}
		ui.PrintSuccess("All profiles removed")
	case choice > 0 && choice <= len(profiles):
		profile := profiles[choice-1]
		if err := manager.Delete(profile.Name); err != nil {
			ui.PrintError("Failed to remove profile", err.Error())
			os.Exit(1)
		}
		ui.PrintSuccess("Profile removed: " + profile.Name)
	default:
		ui.PrintError("Invalid choice", "")
		os.Exit(1)
	}
}

func runList(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	profiles, err := manager.List()
	if err != nil {
		ui.PrintError("Failed to list profiles", err.Error())
		os.Exit(1)
	}

	if len(profiles) == 0 {
		ui.PrintInfo("No stored profiles", "Use 'tatsugo auth login' to add one")
		return
	}

	ui.PrintHighlight("Stored Profiles")
	fmt.Println()

	for i, profile := range profiles {
		sanitized := auth.SanitizeProfile(profile)
		fmt.Printf("%d. Name: %s\n", i+1, sanitized.Name)
		fmt.Printf("   API Key: %s\n", sanitized.Key)
		fmt.Printf("   Last Modified: %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}
}

// readPassword reads a secret from stdin without echoing
func readPassword() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return string(password), nil
		}
	}

	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
