package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every validation error, so callers can tell
// configuration mistakes apart from I/O failures with a single errors.Is.
var ErrInvalidConfig = errors.New("invalid configuration")

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoStartPages is returned when startPages is empty.
	ErrNoStartPages = fmt.Errorf("%w: startPages must contain at least one URL", ErrInvalidConfig)

	// ErrInvalidTimeout is returned when timeoutSeconds is negative.
	// Zero is allowed and yields an empty crawl.
	ErrInvalidTimeout = fmt.Errorf("%w: timeoutSeconds must be non-negative", ErrInvalidConfig)

	// ErrInvalidMaxDepth is returned when maxDepth is negative.
	ErrInvalidMaxDepth = fmt.Errorf("%w: maxDepth must be non-negative", ErrInvalidConfig)

	// ErrInvalidPopularWordCount is returned when popularWordCount is negative.
	ErrInvalidPopularWordCount = fmt.Errorf("%w: popularWordCount must be non-negative", ErrInvalidConfig)

	// ErrInvalidParallelism is returned when parallelism is negative.
	// Use 0 for the number of CPUs available.
	ErrInvalidParallelism = fmt.Errorf("%w: parallelism must be non-negative", ErrInvalidConfig)

	// ErrUnknownImplementation is returned when implementationOverride names
	// a crawler that does not exist.
	ErrUnknownImplementation = fmt.Errorf("%w: implementationOverride must be %q, %q or empty",
		ErrInvalidConfig, ImplementationParallel, ImplementationSequential)

	// ErrInvalidResultFormat is returned when resultFormat is not supported.
	ErrInvalidResultFormat = fmt.Errorf("%w: resultFormat must be %q, %q or %q",
		ErrInvalidConfig, FormatJSON, FormatText, FormatMarkdown)

	// ErrInvalidRequestsPerSecond is returned when requestsPerSecond is negative.
	// Use 0 for no limit.
	ErrInvalidRequestsPerSecond = fmt.Errorf("%w: requestsPerSecond must be non-negative", ErrInvalidConfig)

	// ErrInvalidMaxBodySize is returned when maxBodySize is negative.
	// Use 0 for the default limit.
	ErrInvalidMaxBodySize = fmt.Errorf("%w: maxBodySize must be non-negative", ErrInvalidConfig)

	// ErrInvalidPattern is returned when an ignoredUrls or ignoredWords entry
	// does not compile.
	ErrInvalidPattern = fmt.Errorf("%w: invalid pattern", ErrInvalidConfig)
)
