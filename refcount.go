package libobs

import (
	"sync"
	"sync/atomic"
)

// dropGuard runs its release function at most once.
type dropGuard struct {
	once    sync.Once
	release func()
	done    atomic.Bool
}

func newDropGuard(release func()) *dropGuard {
	return &dropGuard{release: release}
}

// run releases the guarded resource. Later calls are no-ops.
func (g *dropGuard) run() {
	g.once.Do(func() {
		if g.release != nil {
			g.release()
		}
		g.done.Store(true)
	})
}

// released reports whether run has completed.
func (g *dropGuard) released() bool {
	return g.done.Load()
}

// refCount counts live references to one native resource and runs the drop
// guard when the last one is dropped.
type refCount struct {
	n     atomic.Int64
	guard *dropGuard
}

func newRefCount(release func()) *refCount {
	r := &refCount{guard: newDropGuard(release)}
	r.n.Store(1)
	return r
}

// retain adds a reference. Retaining after the count reached zero is a bug in
// the caller and is ignored.
func (r *refCount) retain() bool {
	for {
		n := r.n.Load()
		if n <= 0 {
			return false
		}
		if r.n.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// drop removes a reference; the last drop releases the resource.
func (r *refCount) drop() {
	if r.n.Add(-1) == 0 {
		r.guard.run()
	}
}

// count returns the number of live references.
func (r *refCount) count() int64 {
	return r.n.Load()
}

// ref is one owner's claim on a refCount. Closing it more than once has no
// further effect, so each wrapper value drops exactly one reference.
type ref struct {
	rc     *refCount
	closed atomic.Bool
}

func newRef(rc *refCount) *ref {
	return &ref{rc: rc}
}

// clone retains a new reference on the same resource.
func (r *ref) clone() (*ref, bool) {
	if r.closed.Load() || !r.rc.retain() {
		return nil, false
	}
	return &ref{rc: r.rc}, true
}

// close drops this reference once and reports whether it did.
func (r *ref) close() bool {
	if !r.closed.CompareAndSwap(false, true) {
		return false
	}
	r.rc.drop()
	return true
}

// isClosed reports whether this reference was closed.
func (r *ref) isClosed() bool {
	return r.closed.Load()
}

// shutdownSentinel sequences engine shutdown after every resource release.
// The Context holds the first reference and each Scene, Source, Output,
// Encoder, Display and Settings clones one; the engine shuts down when the
// last of them is closed.
type shutdownSentinel struct {
	rc *refCount
}

func newShutdownSentinel(shutdown func()) (*shutdownSentinel, *ref) {
	s := &shutdownSentinel{rc: newRefCount(shutdown)}
	return s, newRef(s.rc)
}

// fired reports whether engine shutdown has run.
func (s *shutdownSentinel) fired() bool {
	return s.rc.guard.released()
}

// live returns the number of outstanding sentinel references.
func (s *shutdownSentinel) live() int64 {
	return s.rc.count()
}
