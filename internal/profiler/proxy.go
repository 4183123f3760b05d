package profiler

import "errors"

// Proxy dispatches calls for one wrapped target through its tag table.
// It is safe for concurrent use.
type Proxy struct {
	profiler *Profiler

	// typeName is the concrete type of the target, as printed by %T.
	typeName string

	// ops is the tag table: operation name -> profiled.
	ops map[string]bool
}

// Type returns the concrete type name recorded for this target.
func (p *Proxy) Type() string {
	return p.typeName
}

// IsProfiled reports whether op is declared and marked as profiled.
func (p *Proxy) IsProfiled(op string) bool {
	return p.ops[op]
}

// Call runs fn as operation op.
//
// A profiled operation is timed and its elapsed time recorded before Call
// returns, whether fn returns an error or panics; the error or panic then
// reaches the caller unchanged. An unprofiled operation runs untimed.
// An operation missing from the tag table is not run and yields an
// *InternalError.
func (p *Proxy) Call(op string, fn func() error) error {
	profiled, declared := p.ops[op]
	if !declared {
		return &InternalError{Type: p.typeName, Operation: op, Err: ErrUnknownOperation}
	}
	if fn == nil {
		return &InternalError{Type: p.typeName, Operation: op, Err: errors.New("nil operation")}
	}
	if !profiled {
		return fn()
	}

	key := Key{Type: p.typeName, Operation: op}
	start := p.profiler.now()
	defer func() {
		p.profiler.record.Add(key, p.profiler.now().Sub(start))
	}()

	return fn()
}

// Call is the typed form of Proxy.Call for operations that return a value.
func Call[R any](p *Proxy, op string, fn func() (R, error)) (R, error) {
	var result R
	if fn == nil {
		return result, p.Call(op, nil)
	}
	err := p.Call(op, func() error {
		var err error
		result, err = fn()
		return err
	})
	return result, err
}
