// Package config loads reqdeck's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/reqdeck/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. If the file exists but fields are blank, use defaults for those fields
//
// Command-line flags in cmd/reqdeck override whatever Load returns.
//
// # Default Values
//
//   - Config file: ~/.config/reqdeck/config.toml
//   - api_url: http://127.0.0.1:8000
//   - log_file: ~/.local/state/reqdeck/reqdeck.log
//   - auto_refresh: @every 1m
//
// # Example
//
//	api_url = "http://hunter.lan:8000"
//	log_file = "~/logs/reqdeck.log"
//	auto_refresh = "*/2 * * * *"   # or "off"
//
// auto_refresh accepts standard five-field cron specs and descriptors such
// as @hourly or @every 30s. Invalid specs fail Load so a typo is reported at
// startup rather than silently disabling refresh.
//
// # Error Handling
//
// A missing file is not an error. Unreadable files, malformed TOML, and
// invalid auto_refresh specs are returned wrapped with context.
package config
