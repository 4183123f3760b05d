package crawler

import (
	"context"

	"github.com/nao1215/webcrawler/internal/model"
	"github.com/nao1215/webcrawler/internal/profiler"
)

// ParallelCrawler fetches and processes pages on a bounded number of workers.
// A ParallelCrawler may run several crawls at once; each Crawl call gets its
// own State and its own worker slots.
type ParallelCrawler struct {
	parser  PageParser
	opts    options
	workers int
}

// NewParallelCrawler creates a ParallelCrawler that fetches pages with parser.
func NewParallelCrawler(parser PageParser, opts ...Option) *ParallelCrawler {
	o := newOptions(opts)
	return &ParallelCrawler{
		parser:  parser,
		opts:    o,
		workers: workerCount(o.parallelism, MaxParallelism()),
	}
}

// Crawl implements WebCrawler.
func (c *ParallelCrawler) Crawl(ctx context.Context, seeds []string) (*model.CrawlResult, error) {
	c.opts.logger.Info("starting crawl",
		"seeds", len(seeds),
		"workers", c.workers,
		"maxDepth", c.opts.maxDepth,
		"timeout", c.opts.timeout,
	)

	result, err := newEngine(ctx, c.parser, c.opts, c.workers, false).run(seeds, c.opts)

	c.opts.logger.Info("crawl finished",
		"urlsVisited", result.URLsVisited,
		"words", len(result.WordCounts),
	)
	return result, err
}

// MaxParallelism implements WebCrawler.
func (c *ParallelCrawler) MaxParallelism() int {
	return MaxParallelism()
}

// Workers returns the effective number of concurrent fetches.
func (c *ParallelCrawler) Workers() int {
	return c.workers
}

// Operations implements profiler.Tagged.
func (c *ParallelCrawler) Operations() []profiler.Operation {
	return crawlerOperations
}

var crawlerOperations = []profiler.Operation{
	{Name: OperationCrawl, Profiled: true},
	{Name: OperationMaxParallelism, Profiled: false},
}
