// Package database provides SQLite-based storage for crawl history.
//
// Every finished crawl can be recorded as a Run: when it started, how long
// it took, its start pages, the result and the profiling report. The
// history command lists them.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for one insert per crawl
package database
