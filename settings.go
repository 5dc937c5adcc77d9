package libobs

import (
	"sync"
	"sync/atomic"
)

// Settings is a native data container (obs_data_t) of key/value pairs used as
// source, output and encoder settings and hotkey data.
//
// Keys and values are kept as CStrings for the container's lifetime. Once the
// container is attached to a resource it is frozen: further changes must go
// through that resource's updater so the engine is told about them.
type Settings struct {
	engine   Engine
	handle   DataHandle
	tid      uint64
	mu       sync.Mutex
	strings  []*CString
	frozen   atomic.Bool
	sentinel *ref
	guard    *dropGuard
}

func newSettings(engine Engine, tid uint64, handle DataHandle, sentinel *ref) *Settings {
	s := &Settings{
		engine:   engine,
		handle:   handle,
		tid:      tid,
		sentinel: sentinel,
	}
	s.guard = newDropGuard(func() {
		s.engine.DataRelease(s.handle)
		s.sentinel.close()
	})
	return s
}

// Handle returns the native data handle.
func (s *Settings) Handle() DataHandle {
	if s == nil {
		return 0
	}
	return s.handle
}

// Frozen reports whether the container has been attached to a resource.
func (s *Settings) Frozen() bool { return s.frozen.Load() }

func (s *Settings) freeze() {
	if s != nil {
		s.frozen.Store(true)
	}
}

func (s *Settings) keep(strs ...*CString) {
	s.strings = append(s.strings, strs...)
}

func (s *Settings) writable() error {
	if s.guard.released() {
		return ErrClosed
	}
	if s.frozen.Load() {
		return ErrSettingsFrozen
	}
	return nil
}

// SetString stores a string value.
func (s *Settings) SetString(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(); err != nil {
		return err
	}
	k, v := NewCString(key), NewCString(value)
	s.keep(k, v)
	s.engine.DataSetString(s.handle, k, v)
	return nil
}

// SetInt stores an integer value.
func (s *Settings) SetInt(key string, value int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(); err != nil {
		return err
	}
	k := NewCString(key)
	s.keep(k)
	s.engine.DataSetInt(s.handle, k, value)
	return nil
}

// SetBool stores a boolean value.
func (s *Settings) SetBool(key string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(); err != nil {
		return err
	}
	k := NewCString(key)
	s.keep(k)
	s.engine.DataSetBool(s.handle, k, value)
	return nil
}

// SetDouble stores a floating point value.
func (s *Settings) SetDouble(key string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(); err != nil {
		return err
	}
	k := NewCString(key)
	s.keep(k)
	s.engine.DataSetDouble(s.handle, k, value)
	return nil
}

// JSON returns the container serialized by the engine.
func (s *Settings) JSON() string {
	if s == nil || s.guard.released() {
		return ""
	}
	return s.engine.DataJSON(s.handle)
}

// Close releases the container. Closing an attached container is a no-op;
// its owner releases it. Otherwise it must run on the Context's thread.
func (s *Settings) Close() error {
	if s == nil || s.frozen.Load() || s.guard.released() {
		return nil
	}
	if err := engineOwner.verify(s.tid); err != nil {
		return err
	}
	s.guard.run()
	return nil
}

// release is used by owning resources.
func (s *Settings) release() {
	if s != nil {
		s.guard.run()
	}
}

// handleOf tolerates nil settings, which the engine accepts as NULL.
func handleOf(s *Settings) DataHandle {
	return s.Handle()
}

// Updater stages new settings for a resource. It is the only way to change
// settings after they are attached.
type Updater struct {
	*Settings
	alive func() bool
	apply func(*Settings)
	done  atomic.Bool
}

// Apply pushes the staged settings to the engine from the Context's thread.
// It fails with ErrClosed if the staged settings were closed or the resource
// has been released. The updater cannot be used afterwards.
func (u *Updater) Apply() error {
	if u.done.Load() || u.Settings.guard.released() || !u.alive() {
		return ErrClosed
	}
	if err := engineOwner.verify(u.tid); err != nil {
		return err
	}
	if !u.done.CompareAndSwap(false, true) {
		return ErrClosed
	}
	u.Settings.freeze()
	u.apply(u.Settings)
	return nil
}

// Discard drops the staged settings without applying them.
func (u *Updater) Discard() error {
	if u.done.Load() {
		return nil
	}
	if err := engineOwner.verify(u.tid); err != nil {
		return err
	}
	if u.done.CompareAndSwap(false, true) {
		u.Settings.release()
	}
	return nil
}
