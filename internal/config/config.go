package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/webcrawler/internal/crawler"
	"github.com/nao1215/webcrawler/internal/parser"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "webcrawler"

	// DefaultMaxDepth counts pages along a path: 1 fetches only the start pages.
	DefaultMaxDepth = crawler.DefaultMaxDepth

	// DefaultTimeoutSeconds is deliberately short; crawls are bounded by time
	// first and by depth second.
	DefaultTimeoutSeconds = 1

	// DefaultPopularWordCount is the number of words in the result.
	DefaultPopularWordCount = crawler.DefaultPopularWordCount

	// DefaultMaxBodySize limits the response body size read per page.
	// 5MB is sufficient for most HTML pages while preventing memory exhaustion.
	DefaultMaxBodySize = parser.DefaultMaxBodySize
)

// Crawler implementations selectable with implementationOverride.
const (
	ImplementationParallel   = "parallel"
	ImplementationSequential = "sequential"
)

// Result formats.
const (
	FormatJSON     = "json"
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// Config holds every option of one crawl.
//
// Design decision: We use a single flat struct instead of nested structs
// because the file format is flat and the number of options is manageable.
type Config struct {
	// StartPages are the seed URLs. At least one is required.
	StartPages []string `yaml:"startPages" json:"startPages"`

	// IgnoredURLs are patterns for URLs that are never fetched.
	// Regular expressions match the whole URL; "glob:" selects glob syntax.
	IgnoredURLs []string `yaml:"ignoredUrls" json:"ignoredUrls"`

	// IgnoredWords are patterns for words that are never counted.
	IgnoredWords []string `yaml:"ignoredWords" json:"ignoredWords"`

	// Parallelism is the number of concurrent fetches. 0 means the number of CPUs.
	Parallelism int `yaml:"parallelism" json:"parallelism"`

	// ImplementationOverride selects the crawler: "parallel", "sequential",
	// or empty for the default.
	ImplementationOverride string `yaml:"implementationOverride" json:"implementationOverride"`

	// MaxDepth is the number of pages along any path from a start page.
	MaxDepth int `yaml:"maxDepth" json:"maxDepth"`

	// TimeoutSeconds bounds the whole crawl. No fetch starts after it elapses.
	TimeoutSeconds int `yaml:"timeoutSeconds" json:"timeoutSeconds"`

	// PopularWordCount is the number of words in the result.
	PopularWordCount int `yaml:"popularWordCount" json:"popularWordCount"`

	// ProfileOutputPath is where the profiling report is appended.
	// Empty means stdout.
	ProfileOutputPath string `yaml:"profileOutputPath" json:"profileOutputPath"`

	// ResultPath is where the crawl result is appended. Empty means stdout.
	ResultPath string `yaml:"resultPath" json:"resultPath"`

	// ResultFormat is "json", "text" or "markdown".
	ResultFormat string `yaml:"resultFormat" json:"resultFormat"`

	// UserAgent is sent with every request.
	UserAgent string `yaml:"userAgent" json:"userAgent"`

	// Headers are extra HTTP headers sent with every request.
	Headers map[string]string `yaml:"headers" json:"headers"`

	// Cookie is a raw cookie string sent with every request.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie" json:"cookie"`

	// RequestsPerSecond limits fetches across all workers. 0 means unlimited.
	RequestsPerSecond float64 `yaml:"requestsPerSecond" json:"requestsPerSecond"`

	// ProxyAddress routes all fetches through a SOCKS5 proxy ("host:port").
	ProxyAddress string `yaml:"proxyAddress" json:"proxyAddress"`

	// MaxBodySize caps the bytes read per page. 0 means the default.
	MaxBodySize int64 `yaml:"maxBodySize" json:"maxBodySize"`

	// HistoryDir is the directory of the run history database.
	// Empty disables history unless requested on the command line.
	HistoryDir string `yaml:"historyDir" json:"historyDir"`
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., depth, timeout).
// Load decodes on top of this value, so a key that is present with a zero
// value (timeoutSeconds: 0) is kept, while an absent key gets its default.
func NewConfig() *Config {
	return &Config{
		StartPages:       []string{},
		IgnoredURLs:      []string{},
		IgnoredWords:     []string{},
		MaxDepth:         DefaultMaxDepth,
		TimeoutSeconds:   DefaultTimeoutSeconds,
		PopularWordCount: DefaultPopularWordCount,
		ResultFormat:     FormatJSON,
		UserAgent:        parser.DefaultUserAgent,
		MaxBodySize:      DefaultMaxBodySize,
	}
}

// Timeout returns TimeoutSeconds as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// IgnoredURLRules compiles IgnoredURLs.
func (c *Config) IgnoredURLRules() (*crawler.IgnoreRules, error) {
	rules, err := crawler.NewIgnoreRules(c.IgnoredURLs)
	if err != nil {
		return nil, fmt.Errorf("%w: ignoredUrls %w", ErrInvalidPattern, err)
	}
	return rules, nil
}

// IgnoredWordRules compiles IgnoredWords.
func (c *Config) IgnoredWordRules() (*crawler.IgnoreRules, error) {
	rules, err := crawler.NewIgnoreRules(c.IgnoredWords)
	if err != nil {
		return nil, fmt.Errorf("%w: ignoredWords %w", ErrInvalidPattern, err)
	}
	return rules, nil
}

// XDGDataDir returns the XDG data directory for the crawler.
// On Linux: ~/.local/share/webcrawler
// On macOS: ~/Library/Application Support/webcrawler
// On Windows: %LOCALAPPDATA%\webcrawler
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for the crawler.
// On Linux: ~/.config/webcrawler
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid; every such error
// wraps ErrInvalidConfig.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.StartPages) == 0 {
		return ErrNoStartPages
	}

	if c.TimeoutSeconds < 0 {
		return ErrInvalidTimeout
	}

	if c.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}

	if c.PopularWordCount < 0 {
		return ErrInvalidPopularWordCount
	}

	if c.Parallelism < 0 {
		return ErrInvalidParallelism
	}

	switch c.ImplementationOverride {
	case "", ImplementationParallel, ImplementationSequential:
	default:
		return fmt.Errorf("%w: got %q", ErrUnknownImplementation, c.ImplementationOverride)
	}

	switch c.ResultFormat {
	case FormatJSON, FormatText, FormatMarkdown:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidResultFormat, c.ResultFormat)
	}

	if c.RequestsPerSecond < 0 {
		return ErrInvalidRequestsPerSecond
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if _, err := c.IgnoredURLRules(); err != nil {
		return err
	}
	if _, err := c.IgnoredWordRules(); err != nil {
		return err
	}

	return nil
}
