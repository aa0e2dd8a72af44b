// Package correlator routes asynchronously delivered storefront response
// codes back to the request that triggered them.
package correlator

import "sync"

// Request is the minimum the correlator needs to know about an in-flight
// billing request: what it is, and whether a nonce must be released if it
// dies without a response being expected.
type Request interface {
	Kind() string
	Nonce() (uint64, bool)
}

// Table maps outstanding request ids to their in-flight request objects.
// Exactly one response is expected per request id.
type Table struct {
	mu      sync.Mutex
	pending map[int64]Request
}

// NewTable creates an empty correlation table.
func NewTable() *Table {
	return &Table{pending: make(map[int64]Request)}
}

// Register records an in-flight request under its transport-assigned id.
func (t *Table) Register(requestID int64, req Request) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[requestID] = req
}

// Resolve returns the request registered under requestID and removes it, so
// a second response for the same id finds nothing. The false return is a
// normal race (late or duplicate response), not an error.
func (t *Table) Resolve(requestID int64) (Request, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	req, ok := t.pending[requestID]
	if ok {
		delete(t.pending, requestID)
	}
	return req, ok
}

// Unregister drops a pending entry without resolving it.
func (t *Table) Unregister(requestID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.pending, requestID)
}

// Len reports the number of requests still awaiting a response.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}
