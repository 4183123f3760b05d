package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"strings"

	"golang.org/x/time/rate"

	"github.com/nao1215/webcrawler/internal/crawler"
	"github.com/nao1215/webcrawler/internal/model"
	"github.com/nao1215/webcrawler/internal/profiler"
)

// DefaultMaxBodySize is the default cap on bytes read from one page.
const DefaultMaxBodySize int64 = 5 << 20

// Parser fetches a page and extracts its links and word counts.
// It is safe for concurrent use.
type Parser struct {
	client       *http.Client
	limiter      *rate.Limiter
	ignoredWords *crawler.IgnoreRules
	maxBodySize  int64
	logger       *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithHTTPClient sets the client used for http and https URLs.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Parser) {
		if c != nil {
			p.client = c
		}
	}
}

// WithRequestsPerSecond limits how fast pages are fetched, across all
// concurrent callers. Zero or negative means unlimited.
//
// Design decision: One limiter is shared by every fetch rather than one per
// host because crawls are usually seeded on a single site, and a global
// budget is easier to reason about when choosing a value.
func WithRequestsPerSecond(rps float64) Option {
	return func(p *Parser) {
		if rps > 0 {
			p.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		} else {
			p.limiter = nil
		}
	}
}

// WithIgnoredWords drops words matching any of rules from the counts.
func WithIgnoredWords(rules *crawler.IgnoreRules) Option {
	return func(p *Parser) {
		p.ignoredWords = rules
	}
}

// WithMaxBodySize caps the number of bytes read from one page.
// Content past the cap is ignored. Zero or negative keeps the default.
func WithMaxBodySize(n int64) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxBodySize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a Parser. Without WithHTTPClient it uses a client from
// NewHTTPClient with default settings.
func New(opts ...Option) *Parser {
	p := &Parser{
		maxBodySize: DefaultMaxBodySize,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		// The default configuration has no proxy, so it cannot fail.
		p.client, _ = NewHTTPClient(ClientConfig{}) //nolint:errcheck // see above
	}
	return p
}

// Parse implements crawler.PageParser.
func (p *Parser) Parse(ctx context.Context, rawURL string) (*model.PageResult, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return p.parseHTTP(ctx, u)
	case "file":
		return p.parseFile(u)
	default:
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)}
	}
}

// Operations implements profiler.Tagged.
func (p *Parser) Operations() []profiler.Operation {
	return []profiler.Operation{
		{Name: crawler.OperationParse, Profiled: true},
	}
}

func (p *Parser) parseHTTP(ctx context.Context, u *url.URL) (*model.PageResult, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, &FetchError{URL: u.String(), Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &FetchError{URL: u.String(), Err: err}
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: u.String(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: u.String(), StatusCode: resp.StatusCode, Err: ErrUnexpectedStatus}
	}

	if !isHTML(resp.Header.Get("Content-Type")) {
		p.logger.Debug("skipping non-HTML page",
			"url", u.String(),
			"contentType", resp.Header.Get("Content-Type"),
		)
		return model.NewPageResult(), nil
	}

	// Links resolve against the final URL after redirects.
	base := u
	if resp.Request != nil && resp.Request.URL != nil {
		base = resp.Request.URL
	}

	page, err := Extract(base, io.LimitReader(resp.Body, p.maxBodySize), p.ignoredWords)
	if err != nil {
		return nil, &FetchError{URL: u.String(), StatusCode: resp.StatusCode, Err: err}
	}
	return page, nil
}

func (p *Parser) parseFile(u *url.URL) (*model.PageResult, error) {
	path := u.Path
	if path == "" {
		path = u.Opaque
	}

	f, err := os.Open(path) //nolint:gosec // reading local pages is the point of file URLs
	if err != nil {
		return nil, &FetchError{URL: u.String(), Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &FetchError{URL: u.String(), Err: err}
	}
	if info.IsDir() {
		return nil, &FetchError{URL: u.String(), Err: errors.New("is a directory")}
	}

	page, err := Extract(u, io.LimitReader(f, p.maxBodySize), p.ignoredWords)
	if err != nil {
		return nil, &FetchError{URL: u.String(), Err: err}
	}
	return page, nil
}

// isHTML reports whether a Content-Type header denotes HTML.
// A missing header is treated as HTML, as browsers do for most pages.
func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
