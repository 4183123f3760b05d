package profiler

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Operation is one entry of a target's tag table.
type Operation struct {
	// Name is the operation (method) name as used by the proxy decorator.
	Name string

	// Profiled marks the operation for timing.
	Profiled bool
}

// Tagged is implemented by every type that can be wrapped.
// Operations must return the same table on every call.
type Tagged interface {
	Operations() []Operation
}

// Profiler owns the profiling state of one run.
// Every proxy created by Wrap records into the same Record.
type Profiler struct {
	// now is the clock used for timing and for the run start time.
	now func() time.Time

	// startTime is when the profiler was created.
	startTime time.Time

	// record is the shared accumulator.
	record *Record
}

// Option configures a Profiler.
type Option func(*Profiler)

// WithClock sets the clock used for timing. Tests use it to control time.
func WithClock(now func() time.Time) Option {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}

// New creates a Profiler whose run starts now.
func New(opts ...Option) *Profiler {
	p := &Profiler{
		now:    time.Now,
		record: NewRecord(),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.startTime = p.now()
	return p
}

// StartTime returns when the run started.
func (p *Profiler) StartTime() time.Time {
	return p.startTime
}

// Record returns the shared accumulator.
func (p *Profiler) Record() *Record {
	return p.record
}

// Wrap builds a Proxy for target from its tag table.
// It fails with ErrInvalidArgument if target is nil, declares an operation
// twice or without a name, or declares no profiled operation at all.
func (p *Profiler) Wrap(target Tagged) (*Proxy, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: nil target", ErrInvalidArgument)
	}

	typeName := fmt.Sprintf("%T", target)
	ops := make(map[string]bool)
	profiled := 0
	for _, op := range target.Operations() {
		if op.Name == "" {
			return nil, fmt.Errorf("%w: %s declares an operation without a name", ErrInvalidArgument, typeName)
		}
		if _, dup := ops[op.Name]; dup {
			return nil, fmt.Errorf("%w: %s declares %q twice", ErrInvalidArgument, typeName, op.Name)
		}
		ops[op.Name] = op.Profiled
		if op.Profiled {
			profiled++
		}
	}

	if profiled == 0 {
		return nil, fmt.Errorf("%w: %s has no profiled operations", ErrInvalidArgument, typeName)
	}

	return &Proxy{
		profiler: p,
		typeName: typeName,
		ops:      ops,
	}, nil
}

// WriteTo renders the report: a "Run at" header with the run start time,
// one line per recorded operation, and a trailing blank line.
func (p *Profiler) WriteTo(w io.Writer) (int64, error) {
	var total int64

	n, err := fmt.Fprintf(w, "Run at %s\n", p.startTime.Format(time.RFC1123))
	total += int64(n)
	if err != nil {
		return total, err
	}

	m, err := p.record.WriteTo(w)
	total += m
	if err != nil {
		return total, err
	}

	n, err = fmt.Fprintln(w)
	total += int64(n)
	return total, err
}

// WriteFile appends the report to path, creating the file (and its parent
// directories) if it does not exist.
func (p *Profiler) WriteFile(path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create profile directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return fmt.Errorf("failed to open profile output: %w", err)
	}

	if _, err := p.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write profile data: %w", err)
	}
	return f.Close()
}
