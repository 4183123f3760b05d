// Package crawler provides the concurrent crawl engine.
//
// # Architecture
//
// A crawl starts one task per seed URL. A task claims its URL, fetches and
// parses the page through a PageParser, merges the page's word counts into
// the shared State, and then forks one child task per discovered link with
// one less unit of depth. A task completes only after all of its children
// have completed, so Crawl returns once every seed's tree is done.
//
// Design decision: We bound the number of concurrent fetches, not the number
// of tasks, because:
//  1. A parent waiting for its children must not occupy a worker slot,
//     otherwise a deep tree deadlocks a small pool
//  2. Goroutines blocked on a semaphore are cheap
//  3. The fetch is the only expensive step of a task
//
// # Components
//
//   - ParallelCrawler: fork/join engine with a bounded number of workers
//   - SequentialCrawler: the same algorithm on a single goroutine
//   - State: lock-striped visited set and word counter for one crawl
//   - IgnoreRules: URL patterns that are never fetched
//   - Sort: ranks word counts into the final top-N list
//
// # Termination
//
// Every task checks the remaining depth and the deadline before doing any
// work, and checks the deadline again once it holds a worker slot. Tasks
// that start after the deadline are no-ops; fetches already in flight are
// allowed to finish.
//
// # Usage
//
//	c := crawler.NewParallelCrawler(parser,
//	    crawler.WithMaxDepth(3),
//	    crawler.WithTimeout(10*time.Second),
//	)
//	result, err := c.Crawl(ctx, []string{"https://example.com"})
package crawler
