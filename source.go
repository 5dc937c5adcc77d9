package libobs

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// SourceInfo describes a source to create. The source takes ownership of the
// settings and hotkey data, which are frozen from then on.
type SourceInfo struct {
	ID       string // source type, e.g. "color_source", "ffmpeg_source"
	Name     string
	Settings *Settings
	Hotkeys  *Settings
}

type sourceCore struct {
	rc       *refCount
	engine   Engine
	logger   logrus.FieldLogger
	handle   SourceHandle
	id, name *CString
	mu       sync.Mutex
	settings *Settings
	hotkeys  *Settings
	ctx      *Context
	sentinel *ref
}

// Source is a reference to a native source. Each value owns one reference.
type Source struct {
	core *sourceCore
	ref  *ref
}

func newSource(c *Context, info SourceInfo) (*Source, error) {
	id, name := NewCString(info.ID), NewCString(info.Name)
	h := c.engine.SourceCreate(id, name, handleOf(info.Settings), handleOf(info.Hotkeys))
	if h == 0 {
		return nil, &NullHandleError{Kind: "source", Name: info.Name}
	}
	sentinel, err := c.retainSentinel()
	if err != nil {
		c.engine.SourceRelease(h)
		return nil, err
	}
	info.Settings.freeze()
	info.Hotkeys.freeze()

	core := &sourceCore{
		engine:   c.engine,
		logger:   c.logger.WithFields(logrus.Fields{"source": info.Name, "id": info.ID}),
		handle:   h,
		id:       id,
		name:     name,
		settings: info.Settings,
		hotkeys:  info.Hotkeys,
		ctx:      c,
		sentinel: sentinel,
	}
	core.rc = newRefCount(core.release)
	return &Source{core: core, ref: newRef(core.rc)}, nil
}

func (sc *sourceCore) release() {
	sc.engine.SourceRelease(sc.handle)
	sc.mu.Lock()
	sc.settings.release()
	sc.hotkeys.release()
	sc.mu.Unlock()
	sc.logger.Debug("source released")
	sc.sentinel.close()
}

// Clone returns a new reference to the same source, or nil if s is closed.
func (s *Source) Clone() *Source {
	r, ok := s.ref.clone()
	if !ok {
		return nil
	}
	return &Source{core: s.core, ref: r}
}

// Close drops this reference. It must run on the Context's thread.
func (s *Source) Close() error {
	return closeOnOwner(s.core.ctx.tid, s.ref)
}

// Handle returns the native source handle.
func (s *Source) Handle() SourceHandle { return s.core.handle }

// ID returns the source type id.
func (s *Source) ID() string { return s.core.id.String() }

// Name returns the source name.
func (s *Source) Name() string { return s.core.name.String() }

// Settings returns the attached settings read-only. Use Updater to change them.
func (s *Source) Settings() *Settings {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	return s.core.settings
}

// Updater stages new settings for this source.
func (s *Source) Updater() (*Updater, error) {
	if s.ref.isClosed() {
		return nil, ErrClosed
	}
	settings, err := s.core.ctx.NewSettings()
	if err != nil {
		return nil, err
	}
	core := s.core
	return &Updater{
		Settings: settings,
		alive:    func() bool { return core.rc.count() > 0 },
		apply: func(next *Settings) {
			core.engine.SourceUpdate(core.handle, next.handle)
			core.mu.Lock()
			prev := core.settings
			core.settings = next
			core.mu.Unlock()
			prev.release()
			core.logger.Debug("source updated")
		},
	}, nil
}
