// Package history provides SQLite-based storage of past deliveries.
//
// Every run of `soupmail send` (including dry runs and failed sends) is
// recorded as a model.Delivery so that `soupmail history` can list what was
// sent and when. Recipient addresses are never stored, only their count.
//
// The database is a single file, soupmail.db, opened through the CGO-free
// modernc.org/sqlite driver in WAL mode.
package history
