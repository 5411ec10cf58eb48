// Package export writes crawled leaderboards to disk.
//
// The export package handles:
//   - Creating and managing the output directory
//   - JSON and CSV snapshot formats
//   - Atomic file writes using temporary files and rename
//
// File names carry the guild ID, the period and the fetch timestamp so
// repeated crawls of the same leaderboard never collide:
//
//	rankings_172002275412279296_all_20260825T120000Z.json
//
// Usage:
//
//	manager, err := export.NewManager("./exports", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	path, err := manager.Write(&export.Snapshot{
//	    GuildID:   "172002275412279296",
//	    Period:    "all",
//	    FetchedAt: time.Now(),
//	    Rankings:  rows,
//	}, "csv")
package export
