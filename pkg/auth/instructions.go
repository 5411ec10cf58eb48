package auth

import (
	"fmt"
	"strings"
)

// ShowKeySetupGuide displays step-by-step instructions for obtaining
// and storing a Tatsu API key
func ShowKeySetupGuide() {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("🔑 TATSU API KEY SETUP GUIDE")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()

	fmt.Println("This tool needs a Tatsu API key to talk to api.tatsu.gg.")
	fmt.Println()

	fmt.Println("💬 STEP 1: Get a key from the Tatsu bot")
	fmt.Println("   - Open Discord in a server where the Tatsu bot is present")
	fmt.Println("   - Run the bot's API key command (see https://tatsu.gg for current docs)")
	fmt.Println("   - The bot replies with a key tied to your Discord account")
	fmt.Println()

	fmt.Println("💾 STEP 2: Store the key")
	fmt.Println("   Option A - credential store (recommended):")
	fmt.Println("      tatsugo auth login")
	fmt.Println("      The key lands in your system keychain when available,")
	fmt.Println("      otherwise in an encrypted file under your config directory.")
	fmt.Println()
	fmt.Println("   Option B - environment variable:")
	fmt.Println("      export TATSU_API_KEY=\"your-key-here\"")
	fmt.Println()
	fmt.Println("   Option C - config file (~/.config/tatsugo/config.yaml):")
	fmt.Println("      api:")
	fmt.Println("        key: your-key-here")
	fmt.Println()

	fmt.Println("✅ STEP 3: Verify")
	fmt.Println("      tatsugo profile <your-discord-id>")
	fmt.Println()

	fmt.Println("📌 NOTES:")
	fmt.Println("   • Writes (points/score) only succeed in guilds where your account")
	fmt.Println("     has manage-server permission; the API enforces this server-side.")
	fmt.Println("   • The shared budget is 60 requests per minute per key.")
	fmt.Println("   • Never commit the key anywhere; this tool masks it in all output.")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()
}

// ShowQuickReference shows a condensed reminder for experienced users
func ShowQuickReference() {
	fmt.Println("\n🔑 Key resolution order: --api-key flag → TATSU_API_KEY env → config api.key → stored profile")
	fmt.Println("   Store one with 'tatsugo auth login'; run 'tatsugo auth guide' for the full walkthrough")
}
