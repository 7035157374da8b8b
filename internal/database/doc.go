// Package database stores the history of generation runs in SQLite.
//
// Every successful run is recorded with its page hash, output location and
// the extracted items in page order. The history lets users see when a
// collection changed and what was added, removed or renamed between two
// runs.
//
// The database is a single file (workshopgen.db) in the XDG data directory,
// opened through the CGO-free modernc.org/sqlite driver.
package database
