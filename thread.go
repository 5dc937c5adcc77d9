package libobs

import "sync"

// threadOwner enforces one live Context per process, bound to the OS thread
// that created it.
type threadOwner struct {
	mu       sync.Mutex
	owner    uint64
	held     bool
	poisoned bool
}

// engineOwner guards the process-wide engine. libobs keeps global state, so
// this cannot be per-instance.
var engineOwner = &threadOwner{}

// acquire claims the engine for the calling thread.
func (o *threadOwner) acquire() (uint64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.poisoned {
		return 0, ErrLockPoisoned
	}
	if o.held {
		return 0, ErrAlreadyOwned
	}
	tid := currentThreadID()
	o.owner = tid
	o.held = true
	return tid, nil
}

// verify checks that the caller runs on the owning thread.
func (o *threadOwner) verify(tid uint64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.poisoned {
		return ErrLockPoisoned
	}
	if !o.held || o.owner != tid || currentThreadID() != tid {
		return ErrWrongThread
	}
	return nil
}

// release clears the guard so a new Context can be created.
func (o *threadOwner) release() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.held = false
	o.owner = 0
}

// poison marks the guard unusable after a panic inside engine startup. The
// engine's global state is unknown at that point.
func (o *threadOwner) poison() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.poisoned = true
}

// closeOnOwner drops r from the engine's owning thread. Any drop may be the
// last one, which releases native objects and can shut the engine down.
func closeOnOwner(tid uint64, r *ref) error {
	if r.isClosed() {
		return nil
	}
	if err := engineOwner.verify(tid); err != nil {
		return err
	}
	r.close()
	return nil
}
