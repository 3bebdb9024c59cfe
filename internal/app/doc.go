// Package app is reqdeck's composition root.
//
// # Startup
//
// Run performs these steps in order and fails fast on the first error:
//
//  1. Resolve: load ~/.config/reqdeck/config.toml and prefs.toml, then apply
//     command-line overrides (API URL, log file)
//  2. Redirect the standard logger to the log file so it never draws over
//     the alt-screen
//  3. Build the req-hunter HTTP client
//  4. Start the auto-refresh poller (a robfig/cron schedule)
//  5. Build the console controllers around one shared state.Store
//  6. Hand everything to ui.Run and block until the user quits
//
// # Data Flow
//
//	┌──────────┐  ticks   ┌──────────┐  Task   ┌────────────┐
//	│  poller  │────────→ │    ui    │───────→ │  console   │──→ req-hunter API
//	└──────────┘          └──────────┘ ←────── └────────────┘
//	                         Snapshot()
//
// The poller only signals; the UI decides which view to refresh, based on
// the visible tab, and skips ticks while a scrape is running.
package app
