package libobs

import (
	"github.com/sirupsen/logrus"
)

// EncoderKind distinguishes video and audio encoders.
type EncoderKind uint8

const (
	EncoderVideo EncoderKind = iota
	EncoderAudio
)

func (k EncoderKind) String() string {
	switch k {
	case EncoderVideo:
		return "video"
	case EncoderAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// EncoderInfo describes an encoder to create.
type EncoderInfo struct {
	ID       string // encoder type, e.g. "obs_x264", "ffmpeg_aac"
	Name     string
	Settings *Settings
	Hotkeys  *Settings
}

// DefaultVideoEncoderInfo returns an x264 encoder with no settings.
func DefaultVideoEncoderInfo(name string) EncoderInfo {
	return EncoderInfo{ID: "obs_x264", Name: name}
}

// DefaultAudioEncoderInfo returns an AAC encoder with no settings.
func DefaultAudioEncoderInfo(name string) EncoderInfo {
	return EncoderInfo{ID: "ffmpeg_aac", Name: name}
}

type encoderCore struct {
	rc       *refCount
	engine   Engine
	logger   logrus.FieldLogger
	kind     EncoderKind
	handle   EncoderHandle
	id, name *CString
	mixer    int
	settings *Settings
	hotkeys  *Settings
	tid      uint64
	sentinel *ref
}

// Encoder is a reference to a native video or audio encoder bound to one of
// the engine's pipelines.
type Encoder struct {
	core *encoderCore
	ref  *ref
}

// newEncoder creates the native encoder. Audio encoders carry a mixer index.
func newEncoder(c *Context, kind EncoderKind, info EncoderInfo, mixer int) (*Encoder, error) {
	id, name := NewCString(info.ID), NewCString(info.Name)
	var h EncoderHandle
	switch kind {
	case EncoderVideo:
		h = c.engine.VideoEncoderCreate(id, name, handleOf(info.Settings), handleOf(info.Hotkeys))
	case EncoderAudio:
		h = c.engine.AudioEncoderCreate(id, name, handleOf(info.Settings), mixer, handleOf(info.Hotkeys))
	}
	if h == 0 {
		return nil, &NullHandleError{Kind: kind.String() + " encoder", Name: info.Name}
	}
	sentinel, err := c.retainSentinel()
	if err != nil {
		c.engine.EncoderRelease(h)
		return nil, err
	}
	info.Settings.freeze()
	info.Hotkeys.freeze()

	core := &encoderCore{
		engine: c.engine,
		logger: c.logger.WithFields(logrus.Fields{
			"encoder": info.Name,
			"id":      info.ID,
			"kind":    kind.String(),
		}),
		kind:     kind,
		handle:   h,
		id:       id,
		name:     name,
		mixer:    mixer,
		settings: info.Settings,
		hotkeys:  info.Hotkeys,
		tid:      c.tid,
		sentinel: sentinel,
	}
	core.rc = newRefCount(core.release)
	return &Encoder{core: core, ref: newRef(core.rc)}, nil
}

func (ec *encoderCore) release() {
	ec.engine.EncoderRelease(ec.handle)
	ec.settings.release()
	ec.hotkeys.release()
	ec.logger.Debug("encoder released")
	ec.sentinel.close()
}

// Clone returns a new reference to the same encoder, or nil if e is closed.
func (e *Encoder) Clone() *Encoder {
	r, ok := e.ref.clone()
	if !ok {
		return nil
	}
	return &Encoder{core: e.core, ref: r}
}

// Close drops this reference. It must run on the Context's thread.
func (e *Encoder) Close() error {
	return closeOnOwner(e.core.tid, e.ref)
}

// Kind reports whether this is a video or audio encoder.
func (e *Encoder) Kind() EncoderKind { return e.core.kind }

// Handle returns the native encoder handle.
func (e *Encoder) Handle() EncoderHandle { return e.core.handle }

// ID returns the encoder type id.
func (e *Encoder) ID() string { return e.core.id.String() }

// Name returns the encoder name.
func (e *Encoder) Name() string { return e.core.name.String() }

// Mixer returns the audio mixer index; zero for video encoders.
func (e *Encoder) Mixer() int { return e.core.mixer }
