// Package checkpoint provides functionality for saving and resuming
// leaderboard crawl progress.
//
// The checkpoint system allows a full-leaderboard crawl to resume after
// interruptions such as network failures, rate limits, or manual stops.
// It tracks:
//   - Fetched page offsets (to avoid refetching)
//   - Total rows collected so far
//   - Whether the crawl reached the end of the leaderboard
//
// Checkpoints are stored in platform-specific data directories:
//   - Linux: ~/.local/share/tatsugo/checkpoints/
//   - macOS: ~/Library/Application Support/tatsugo/checkpoints/
//   - Windows: %APPDATA%/tatsugo/checkpoints/
//
// The checkpoint files are saved atomically to prevent corruption and include
// versioning for future compatibility.
package checkpoint
