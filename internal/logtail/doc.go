// Package logtail parses and styles log lines for the logs view.
//
// # Sources
//
// Two kinds of lines pass through here. The service log arrives from
// GET /logs/ and uses the layout
//
//	2026-03-01 12:00:00 INFO app.scraper.runner - Scraped 12 jobs from Acme
//
// The console's own log (written with the standard log package) is read
// from disk with Read and looks like
//
//	2026/03/01 12:00:00 [scrape] starting /scrape/run
//
// Lines matching neither layout, such as Python traceback continuations,
// are kept verbatim and inherit the level of the line above when filtering.
//
// # Reading Log Files
//
// Read keeps a ring buffer of maxLines entries and makes one pass over the
// file, so memory stays O(maxLines) however large the file grows. A missing
// file is not an error.
//
// # Colorization
//
// ColorizeLine renders each field with a lipgloss style from a Palette:
// timestamps dim, levels color-coded (DEBUG cyan, INFO green, WARNING
// yellow, ERROR red), logger names blue. Malformed lines are returned in the
// detail style rather than failing.
package logtail
