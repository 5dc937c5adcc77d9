package libobs

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// SurfaceOptions describes the preview surface to create.
type SurfaceOptions struct {
	Parent  WindowHandle // host window to embed into; zero for top-level
	X, Y    int32
	Width   uint32
	Height  uint32
	Visible bool
}

// PreviewPlatform creates native preview surfaces.
type PreviewPlatform interface {
	// CreateSurface is called on the window manager's message loop thread,
	// which stays locked to its OS thread until the surface is destroyed.
	CreateSurface(opts SurfaceOptions) (PreviewSurface, error)
}

// PreviewSurface is a platform window the engine renders a display into.
// Setters and PostDestroy may be called from any goroutine; Pump and Destroy
// are only called from the message loop thread.
type PreviewSurface interface {
	Window() WindowHandle
	// Pump waits for and handles one message. It returns false once the
	// destroy message posted by PostDestroy has been handled.
	Pump() bool
	PostDestroy()
	SetPos(x, y int32)
	SetSize(width, height uint32)
	SetScale(scale float32)
	SetVisible(visible bool)
	Repaint()
	Destroy()
}

// windowManager owns a preview surface and the thread running its message
// loop.
type windowManager struct {
	mu      sync.RWMutex
	surface PreviewSurface
	x, y    int32
	width   uint32
	height  uint32
	scale   float32
	visible bool

	exit      atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// startWindowManager spawns the message loop thread and waits for it to
// report whether the surface was created.
func startWindowManager(platform PreviewPlatform, opts SurfaceOptions) (*windowManager, error) {
	m := &windowManager{
		x:       opts.X,
		y:       opts.Y,
		width:   opts.Width,
		height:  opts.Height,
		scale:   1,
		visible: opts.Visible,
		done:    make(chan struct{}),
	}
	ready := make(chan error, 1)

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(m.done)

		surface, err := platform.CreateSurface(opts)
		if err != nil {
			ready <- err
			return
		}
		m.mu.Lock()
		m.surface = surface
		m.mu.Unlock()
		ready <- nil

		for !m.exit.Load() {
			if !surface.Pump() {
				break
			}
		}
		surface.Destroy()
	}()

	if err := <-ready; err != nil {
		return nil, err
	}
	return m, nil
}

// mustSurface panics if the surface does not exist yet. That can only
// happen if a manager is used before startWindowManager returned it.
func (m *windowManager) mustSurface() PreviewSurface {
	if m.surface == nil {
		panic("libobs: preview surface used before it was created")
	}
	return m.surface
}

func (m *windowManager) window() WindowHandle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mustSurface().Window()
}

func (m *windowManager) setPos(x, y int32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.mustSurface()
	m.x, m.y = x, y
	s.SetPos(x, y)
}

func (m *windowManager) setSize(width, height uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.mustSurface()
	m.width, m.height = width, height
	s.SetSize(width, height)
}

func (m *windowManager) setScale(scale float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.mustSurface()
	m.scale = scale
	s.SetScale(scale)
}

func (m *windowManager) setVisible(visible bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.mustSurface()
	m.visible = visible
	s.SetVisible(visible)
}

func (m *windowManager) repaint() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.mustSurface().Repaint()
}

func (m *windowManager) pos() (int32, int32) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.x, m.y
}

func (m *windowManager) size() (uint32, uint32) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.width, m.height
}

func (m *windowManager) getScale() float32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scale
}

func (m *windowManager) isVisible() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.visible
}

// close marks the loop for exit, posts the destroy message and joins the
// thread.
func (m *windowManager) close() {
	m.closeOnce.Do(func() {
		m.exit.Store(true)
		m.mu.RLock()
		s := m.surface
		m.mu.RUnlock()
		if s != nil {
			s.PostDestroy()
		}
		<-m.done
	})
}
