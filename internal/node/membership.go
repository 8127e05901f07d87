package node

import "sync"

// Target is one entry of a broadcast fan-out: a connection handle paired
// with the address gossip payloads sent to it should be attributed to.
type Target struct {
	Handle     Handle
	PublicAddr string
}

// record is the per-handle peer state. An unresolved record's publicAddr
// actually holds the ephemeral remote socket address of the connection,
// not the peer's listen address.
type record struct {
	resolved   bool
	publicAddr string
}

// Table is the membership table: the single source of truth for which
// peers this node currently knows about. Its shape -- a plain map behind a
// single sync.RWMutex, with accessor methods that acquire the lock only for
// the duration of the map operation -- follows gossip/pkg/statemachine.go's
// StateMachine and objects-cache/cache.go's ObjectsCache; the eviction-heap
// and TTL bookkeeping from the cache are dropped since membership has no
// expiry of its own (see invariant D3: removal happens on disconnect, not
// on a timer).
type Table struct {
	mu       sync.RWMutex
	selfAddr string
	records  map[Handle]record
}

// NewTable creates an empty membership table for a node whose own public
// address is selfAddr.
func NewTable(selfAddr string) *Table {
	return &Table{
		selfAddr: selfAddr,
		records:  make(map[Handle]record),
	}
}

// RecordInbound inserts h as Unresolved, known only by its ephemeral
// remoteAddr. Called when the transport reports an accepted connection.
func (t *Table) RecordInbound(h Handle, remoteAddr string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records[h] = record{resolved: false, publicAddr: remoteAddr}
}

// RecordOutbound inserts h as Resolved(remoteAddr) -- the address we dialed
// is by construction the peer's public address. Applies the D1 tie-break if
// another handle is already resolved to the same address.
func (t *Table) RecordOutbound(h Handle, remoteAddr string) (evict Handle, shouldEvict bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records[h] = record{resolved: true, publicAddr: remoteAddr}
	return t.dedupeLocked(h, remoteAddr)
}

// Resolve promotes h to Resolved(publicAddr). If h is absent this is a
// no-op (it may already have been pruned as a duplicate or on disconnect).
// If another handle is already resolved to publicAddr, the D1 tie-break
// applies: the first Resolved entry wins, and Resolve returns the handle
// that must be closed and removed -- which is h itself in that case.
func (t *Table) Resolve(h Handle, publicAddr string) (evict Handle, shouldEvict bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[h]
	if !ok {
		return Handle{}, false
	}
	rec.resolved = true
	rec.publicAddr = publicAddr
	t.records[h] = rec

	return t.dedupeLocked(h, publicAddr)
}

// dedupeLocked enforces D1 after h has just been (re-)resolved to addr: if
// some other handle is already resolved to the same address, h is the
// newer entry and loses -- it is removed from the table and returned so
// the caller can close its connection.
func (t *Table) dedupeLocked(h Handle, addr string) (evict Handle, shouldEvict bool) {
	for other, rec := range t.records {
		if other == h {
			continue
		}
		if rec.resolved && rec.publicAddr == addr {
			delete(t.records, h)
			return h, true
		}
	}
	return Handle{}, false
}

// Remove deletes h's record. Idempotent.
func (t *Table) Remove(h Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.records, h)
}

// ContainsPublic reports whether any record is Resolved to addr.
func (t *Table) ContainsPublic(addr string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, rec := range t.records {
		if rec.resolved && rec.publicAddr == addr {
			return true
		}
	}
	return false
}

// Roster returns the node's own public address plus the effective address
// of every known record (Resolved records contribute their public address;
// Unresolved records contribute their ephemeral remote address, which
// recipients are expected to filter per the protocol's own rules). Order is
// unspecified.
func (t *Table) Roster() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]string, 0, len(t.records)+1)
	out = append(out, t.selfAddr)
	for _, rec := range t.records {
		out = append(out, rec.publicAddr)
	}
	return out
}

// BroadcastTargets returns one entry per record, pairing its handle with
// the address gossip sent to it should be logged under.
func (t *Table) BroadcastTargets() []Target {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Target, 0, len(t.records))
	for h, rec := range t.records {
		out = append(out, Target{Handle: h, PublicAddr: rec.publicAddr})
	}
	return out
}

// PublicFor looks up the effective address for h, used when logging inbound
// Chat messages. ok is false if h is not currently in the table.
func (t *Table) PublicFor(h Handle) (addr string, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rec, ok := t.records[h]
	if !ok {
		return "", false
	}
	return rec.publicAddr, true
}

// Len reports the number of records currently tracked.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records)
}
