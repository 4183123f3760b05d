package profiler

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// Key identifies a profiled operation: the concrete type of the target it
// was called on and the operation name.
type Key struct {
	Type      string
	Operation string
}

// String renders the key as "<type>#<operation>".
func (k Key) String() string {
	return k.Type + "#" + k.Operation
}

// Entry is one line of a profiling report.
type Entry struct {
	Key      Key
	Duration time.Duration
}

// Record accumulates elapsed time per Key.
//
// Design decision: Totals live in a sync.Map of atomic counters so that
// concurrent calls to different operations, or to the same one, never wait
// on each other. The mutex only guards the insertion order slice and is taken
// once per distinct key.
type Record struct {
	totals sync.Map // Key -> *atomic.Int64 (nanoseconds)

	mu    sync.Mutex
	order []Key
}

// NewRecord returns an empty Record.
func NewRecord() *Record {
	return &Record{order: make([]Key, 0)}
}

// Add accumulates d against key. It is safe for concurrent use.
func (r *Record) Add(key Key, d time.Duration) {
	if v, ok := r.totals.Load(key); ok {
		v.(*atomic.Int64).Add(int64(d))
		return
	}

	counter := new(atomic.Int64)
	actual, loaded := r.totals.LoadOrStore(key, counter)
	if !loaded {
		r.mu.Lock()
		r.order = append(r.order, key)
		r.mu.Unlock()
	}
	actual.(*atomic.Int64).Add(int64(d))
}

// Get returns the accumulated duration for key and whether it was recorded.
func (r *Record) Get(key Key) (time.Duration, bool) {
	v, ok := r.totals.Load(key)
	if !ok {
		return 0, false
	}
	return time.Duration(v.(*atomic.Int64).Load()), true
}

// Entries returns a snapshot of all totals in first-record order.
func (r *Record) Entries() []Entry {
	r.mu.Lock()
	keys := make([]Key, len(r.order))
	copy(keys, r.order)
	r.mu.Unlock()

	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		d, _ := r.Get(k)
		entries = append(entries, Entry{Key: k, Duration: d})
	}
	return entries
}

// Len returns the number of distinct keys recorded.
func (r *Record) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// WriteTo writes one line per entry to w.
func (r *Record) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, e := range r.Entries() {
		n, err := fmt.Fprintf(w, "%s took %s\n", e.Key, FormatDuration(e.Duration))
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// FormatDuration renders d as "<m>m <s>s <ms>ms", e.g. "1m 2s 345ms".
func FormatDuration(d time.Duration) string {
	minutes := d / time.Minute
	seconds := (d % time.Minute) / time.Second
	millis := (d % time.Second) / time.Millisecond
	return fmt.Sprintf("%dm %ds %dms", minutes, seconds, millis)
}
