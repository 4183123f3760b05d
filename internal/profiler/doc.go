// Package profiler measures how long tagged operations take and accumulates
// the totals for one run.
//
// # Tagging
//
// A type opts in by implementing Tagged. Its Operations method is a static
// table naming every operation of the capability it exposes and whether each
// one is profiled. Wrap checks the table once and refuses targets with no
// profiled operation at all.
//
// # Proxies
//
// Go has no dynamic proxies, so a capability is wrapped by a small decorator
// that implements the same interface and routes each method through the
// Proxy returned by Wrap:
//
//	type profiledStore struct {
//	    proxy  *profiler.Proxy
//	    target Store
//	}
//
//	func (s *profiledStore) Get(key string) (string, error) {
//	    return profiler.Call(s.proxy, "Get", func() (string, error) {
//	        return s.target.Get(key)
//	    })
//	}
//
// The proxy times profiled operations, records the elapsed time against the
// target's concrete type and the operation name, and hands back the outcome
// of the call untouched. Unprofiled operations are forwarded untimed.
//
// # Reports
//
// WriteTo renders a "Run at" header followed by one line per recorded
// operation, in the order the operations were first recorded. WriteFile
// appends to an existing file or creates a new one.
package profiler
