package libobs

import (
	"errors"
	"sync"
)

type surfaceMsg int

const (
	msgRepaint surfaceMsg = iota
	msgDestroy
)

// fakePlatform creates fakeSurfaces and notes which thread did so.
type fakePlatform struct {
	rec  *fakeEngine // shared call log, may be nil
	fail error

	mu       sync.Mutex
	surfaces []*fakeSurface
}

func (p *fakePlatform) CreateSurface(opts SurfaceOptions) (PreviewSurface, error) {
	if p.fail != nil {
		return nil, p.fail
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	s := &fakeSurface{
		rec:       p.rec,
		handle:    WindowHandle(0xA000 + len(p.surfaces)),
		opts:      opts,
		msgs:      make(chan surfaceMsg, 16),
		createTID: currentThreadID(),
	}
	p.surfaces = append(p.surfaces, s)
	return s, nil
}

func (p *fakePlatform) last() *fakeSurface {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.surfaces) == 0 {
		return nil
	}
	return p.surfaces[len(p.surfaces)-1]
}

var errSurface = errors.New("window class registration failed")

// fakeSurface runs a channel-backed message loop.
type fakeSurface struct {
	rec    *fakeEngine
	handle WindowHandle
	opts   SurfaceOptions
	msgs   chan surfaceMsg

	mu         sync.Mutex
	createTID  uint64
	destroyTID uint64
	destroyed  bool
	repaints   int
	x, y       int32
	w, h       uint32
	scale      float32
	visible    bool
}

func (s *fakeSurface) Window() WindowHandle { return s.handle }

func (s *fakeSurface) Pump() bool {
	msg := <-s.msgs
	if msg == msgDestroy {
		return false
	}
	s.mu.Lock()
	s.repaints++
	s.mu.Unlock()
	return true
}

func (s *fakeSurface) PostDestroy() { s.msgs <- msgDestroy }

func (s *fakeSurface) SetPos(x, y int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.x, s.y = x, y
}

func (s *fakeSurface) SetSize(width, height uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w, s.h = width, height
}

func (s *fakeSurface) SetScale(scale float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scale = scale
}

func (s *fakeSurface) SetVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = visible
}

func (s *fakeSurface) Repaint() { s.msgs <- msgRepaint }

func (s *fakeSurface) Destroy() {
	s.mu.Lock()
	s.destroyed = true
	s.destroyTID = currentThreadID()
	s.mu.Unlock()
	if s.rec != nil {
		s.rec.simple("WindowDestroy", uintptr(s.handle))
	}
}

func (s *fakeSurface) isDestroyed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destroyed
}
