package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/nao1215/webcrawler/internal/model"
)

// Output formats accepted by NewWriter.
const (
	FormatJSON     = "json"
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// ErrUnknownFormat is returned by NewWriter for an unsupported format.
var ErrUnknownFormat = errors.New("unknown report format")

// Writer defines the interface for result output.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files or stdout with the same API.
type Writer interface {
	// Write outputs the result to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(result *model.CrawlResult) (int, error)
}

// NewWriter returns the Writer for format. An empty format means JSON.
func NewWriter(format string, output io.Writer) (Writer, error) {
	switch format {
	case FormatJSON, "":
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case FormatText:
		return NewSimpleWriter(output), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// resultOrEmpty lets writers render a nil result as an empty one.
func resultOrEmpty(result *model.CrawlResult) *model.CrawlResult {
	if result == nil {
		return model.NewCrawlResult(nil, 0)
	}
	return result
}
