package crawler

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/nao1215/webcrawler/internal/model"
)

// Operation names used in tag tables and profiled decorators.
const (
	OperationCrawl          = "Crawl"
	OperationMaxParallelism = "MaxParallelism"
	OperationParse          = "Parse"
)

// Default crawl settings.
const (
	// DefaultTimeout is the wall-clock budget of a crawl.
	DefaultTimeout = 1 * time.Second

	// DefaultMaxDepth is the number of link levels fetched from each seed,
	// counting the seed itself.
	DefaultMaxDepth = 10

	// DefaultPopularWordCount is the number of words kept in the result.
	DefaultPopularWordCount = 10
)

// PageParser fetches one page and extracts its links and word counts.
// Implementations must be safe for concurrent use.
type PageParser interface {
	Parse(ctx context.Context, url string) (*model.PageResult, error)
}

// WebCrawler crawls from a set of seed URLs.
type WebCrawler interface {
	// Crawl visits the seeds and everything reachable from them within the
	// configured depth and timeout. The result is always non-nil; the error
	// is only set when ctx was cancelled, in which case the result holds
	// what was gathered until then.
	Crawl(ctx context.Context, seeds []string) (*model.CrawlResult, error)

	// MaxParallelism returns the host's available concurrency.
	MaxParallelism() int
}

// options holds settings shared by every WebCrawler implementation.
type options struct {
	timeout          time.Duration
	maxDepth         int
	popularWordCount int
	parallelism      int
	ignore           *IgnoreRules
	now              func() time.Time
	logger           *slog.Logger
}

// Option configures a crawler.
type Option func(*options)

// WithTimeout sets the crawl's wall-clock budget.
// The deadline is computed once, when Crawl starts.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithMaxDepth sets how many link levels are fetched from each seed.
// 1 fetches only the seeds; 0 fetches nothing.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithPopularWordCount sets how many words the result keeps.
func WithPopularWordCount(n int) Option {
	return func(o *options) {
		o.popularWordCount = n
	}
}

// WithParallelism sets the requested number of workers. The effective
// number is capped at MaxParallelism. Values <= 0 mean MaxParallelism.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithIgnoreRules sets URL patterns that are never fetched.
func WithIgnoreRules(rules *IgnoreRules) Option {
	return func(o *options) {
		o.ignore = rules
	}
}

// WithClock sets the clock used for the deadline. Tests use it to control time.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets the logger. Fetch failures are logged at warn level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) options {
	o := options{
		timeout:          DefaultTimeout,
		maxDepth:         DefaultMaxDepth,
		popularWordCount: DefaultPopularWordCount,
		now:              time.Now,
	}

	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// MaxParallelism returns the number of goroutines that can run Go code
// simultaneously on this host.
func MaxParallelism() int {
	return runtime.GOMAXPROCS(0)
}

// workerCount resolves the requested parallelism against the host limit.
func workerCount(requested, maxParallelism int) int {
	if requested <= 0 || requested > maxParallelism {
		return maxParallelism
	}
	return requested
}
