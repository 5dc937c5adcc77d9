package libobs

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// DisplayID identifies a display within its Context. Ids are never reused.
type DisplayID uint64

// DisplayCreationData configures Context.Display.
type DisplayCreationData struct {
	Platform PreviewPlatform
	Parent   WindowHandle
	X, Y     int32
	Width    uint32
	Height   uint32
	Hidden   bool

	Format          ColorFormat // zero selects BGRA
	ZStencil        ZStencilFormat
	Adapter         uint32
	NumBackbuffers  uint32 // zero selects 1
	BackgroundColor uint32 // 0xAARRGGBB
}

var errNoPlatform = errors.New("no preview platform configured")

// Display renders the engine's main view into a preview surface.
//
// The engine's draw callback is registered with a param from the callback
// table, and the same param is used to remove it. Close removes the callback,
// destroys the native display, and then shuts down the preview window thread,
// in that order. The setters may be called from any goroutine and return
// ErrClosed once the display is destroyed.
type Display struct {
	id       DisplayID
	engine   Engine
	logger   logrus.FieldLogger
	handle   DisplayHandle
	window   *windowManager
	param    uintptr
	tid      uint64
	sentinel *ref
	guard    *dropGuard

	mu     sync.RWMutex
	closed bool
}

func newDisplay(c *Context, id DisplayID, data DisplayCreationData) (*Display, error) {
	if data.Platform == nil {
		return nil, &DisplayError{Err: errNoPlatform}
	}
	if data.Format == ColorFormatUnknown {
		data.Format = ColorFormatBGRA
	}
	if data.NumBackbuffers == 0 {
		data.NumBackbuffers = 1
	}

	window, err := startWindowManager(data.Platform, SurfaceOptions{
		Parent:  data.Parent,
		X:       data.X,
		Y:       data.Y,
		Width:   data.Width,
		Height:  data.Height,
		Visible: !data.Hidden,
	})
	if err != nil {
		return nil, &DisplayError{Err: err}
	}

	h := c.engine.DisplayCreate(GraphicsInit{
		Window:         window.window(),
		Width:          data.Width,
		Height:         data.Height,
		NumBackbuffers: data.NumBackbuffers,
		Format:         data.Format,
		ZStencil:       data.ZStencil,
		Adapter:        data.Adapter,
	}, data.BackgroundColor)
	if h == 0 {
		window.close()
		return nil, &NullHandleError{Kind: "display"}
	}
	sentinel, err := c.retainSentinel()
	if err != nil {
		c.engine.DisplayDestroy(h)
		window.close()
		return nil, err
	}

	d := &Display{
		id:       id,
		engine:   c.engine,
		logger:   c.logger.WithField("display", uint64(id)),
		handle:   h,
		window:   window,
		tid:      c.tid,
		sentinel: sentinel,
	}
	d.param = registerCallback(&drawTarget{engine: c.engine})
	c.engine.DisplayAddDrawCallback(h, d.param)
	d.guard = newDropGuard(d.destroy)

	d.logger.WithFields(logrus.Fields{
		"size": [2]uint32{data.Width, data.Height},
		"pos":  [2]int32{data.X, data.Y},
	}).Debug("display created")
	return d, nil
}

func (d *Display) destroy() {
	// Wait out setters already running; later ones see closed.
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	d.engine.DisplayRemoveDrawCallback(d.handle, d.param)
	d.engine.DisplayDestroy(d.handle)
	unregisterCallback(d.param)
	d.window.close()
	d.logger.Debug("display destroyed")
	d.sentinel.close()
}

// Close destroys the display. It must run on the Context's thread and is
// safe to call more than once.
func (d *Display) Close() error {
	if d.guard.released() {
		return nil
	}
	if err := engineOwner.verify(d.tid); err != nil {
		return err
	}
	d.guard.run()
	return nil
}

// live runs fn unless the display has been destroyed.
func (d *Display) live(fn func()) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}
	fn()
	return nil
}

// ID returns the display id.
func (d *Display) ID() DisplayID { return d.id }

// Handle returns the native display handle.
func (d *Display) Handle() DisplayHandle { return d.handle }

// Window returns the preview surface's platform handle.
func (d *Display) Window() WindowHandle { return d.window.window() }

// SetPos moves the preview surface.
func (d *Display) SetPos(x, y int32) error {
	return d.live(func() { d.window.setPos(x, y) })
}

// SetSize resizes the preview surface and the engine's swap chain.
func (d *Display) SetSize(width, height uint32) error {
	return d.live(func() {
		d.window.setSize(width, height)
		d.engine.DisplayResize(d.handle, width, height)
		d.window.repaint()
	})
}

// SetScale sets the surface's content scale.
func (d *Display) SetScale(scale float32) error {
	return d.live(func() { d.window.setScale(scale) })
}

// Show makes the preview surface visible.
func (d *Display) Show() error {
	return d.live(func() { d.window.setVisible(true) })
}

// Hide hides the preview surface.
func (d *Display) Hide() error {
	return d.live(func() { d.window.setVisible(false) })
}

// Pos returns the surface position.
func (d *Display) Pos() (x, y int32) { return d.window.pos() }

// Size returns the surface size.
func (d *Display) Size() (width, height uint32) { return d.window.size() }

// Scale returns the surface's content scale.
func (d *Display) Scale() float32 { return d.window.getScale() }

// Visible reports whether the surface is shown.
func (d *Display) Visible() bool { return d.window.isVisible() }
