package libobs

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// activeScene is the Context-wide cell naming the scene that was last bound to
// an output channel. Binding is last-writer-wins, as in the engine itself.
type activeScene struct {
	mu    sync.Mutex
	scene *Scene
}

// set stores a reference to s and closes the one it replaces.
func (a *activeScene) set(s *Scene) {
	a.mu.Lock()
	old := a.scene
	a.scene = s
	a.mu.Unlock()
	if old != nil {
		old.Close()
	}
}

func (a *activeScene) get() *Scene {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scene
}

func (a *activeScene) clear() {
	a.set(nil)
}

type sceneCore struct {
	rc       *refCount
	engine   Engine
	logger   logrus.FieldLogger
	handle   SceneHandle
	name     *CString
	sources  []*Source
	active   *activeScene
	ctx      *Context
	sentinel *ref
}

// Scene is a reference to a native scene and the sources added to it.
// Each Scene value owns one reference; Clone adds another. The native scene
// and the scene's own source references are released when the last one is
// closed.
type Scene struct {
	core *sceneCore
	ref  *ref
}

func newScene(c *Context, name string) (*Scene, error) {
	cname := NewCString(name)
	h := c.engine.SceneCreate(cname)
	if h == 0 {
		return nil, &NullHandleError{Kind: "scene", Name: name}
	}
	sentinel, err := c.retainSentinel()
	if err != nil {
		c.engine.SceneRelease(h)
		return nil, err
	}

	core := &sceneCore{
		engine:   c.engine,
		logger:   c.logger.WithField("scene", name),
		handle:   h,
		name:     cname,
		active:   c.active,
		ctx:      c,
		sentinel: sentinel,
	}
	core.rc = newRefCount(core.release)
	core.logger.Debug("scene created")
	return &Scene{core: core, ref: newRef(core.rc)}, nil
}

// release runs when the last Scene reference is closed.
func (sc *sceneCore) release() {
	for _, src := range sc.sources {
		src.Close()
	}
	sc.sources = nil
	sc.engine.SceneRelease(sc.handle)
	sc.logger.Debug("scene released")
	sc.sentinel.close()
}

// Clone returns a new reference to the same scene, or nil if s is closed.
func (s *Scene) Clone() *Scene {
	r, ok := s.ref.clone()
	if !ok {
		return nil
	}
	return &Scene{core: s.core, ref: r}
}

// Close drops this reference. It must run on the Context's thread and is
// safe to call more than once.
func (s *Scene) Close() error {
	return closeOnOwner(s.core.ctx.tid, s.ref)
}

// Name returns the scene name.
func (s *Scene) Name() string { return s.core.name.String() }

// Handle returns the native scene handle.
func (s *Scene) Handle() SceneHandle { return s.core.handle }

// SourceHandle returns the scene's own source, the one bound to channels.
func (s *Scene) SourceHandle() SourceHandle {
	return s.core.engine.SceneSource(s.core.handle)
}

// Sources returns the scene's sources in the order they were added. They
// remain owned by the scene.
func (s *Scene) Sources() []*Source {
	out := make([]*Source, len(s.core.sources))
	copy(out, s.core.sources)
	return out
}

// AddSource creates a source and adds it to the scene. The scene keeps a
// reference; the caller owns the returned one. Nothing is recorded unless
// both the create and the add succeed.
func (s *Scene) AddSource(info SourceInfo) (*Source, error) {
	if s.ref.isClosed() {
		return nil, ErrClosed
	}
	if err := s.core.ctx.checkThread(); err != nil {
		return nil, err
	}
	src, err := newSource(s.core.ctx, info)
	if err != nil {
		return nil, err
	}
	if item := s.core.engine.SceneAdd(s.core.handle, src.core.handle); item == 0 {
		src.Close()
		return nil, &NullHandleError{Kind: "scene item", Name: info.Name}
	}
	s.core.sources = append(s.core.sources, src)
	s.core.logger.WithFields(logrus.Fields{
		"source": info.Name,
		"id":     info.ID,
	}).Debug("source added")
	return src.Clone(), nil
}

// AddAndSet makes this the active scene and binds it to an output channel.
func (s *Scene) AddAndSet(channel uint32) error {
	if s.ref.isClosed() {
		return ErrClosed
	}
	if channel >= MaxChannels {
		return ErrInvalidChannel
	}
	if err := s.core.ctx.checkThread(); err != nil {
		return err
	}
	s.core.active.set(s.Clone())
	s.core.engine.SetOutputSource(channel, s.SourceHandle())
	s.core.logger.WithField("channel", channel).Debug("scene set active")
	return nil
}
