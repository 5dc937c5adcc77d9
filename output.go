package libobs

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// OutputInfo describes an output to create. The output takes ownership of
// the settings and hotkey data.
type OutputInfo struct {
	ID       string // output type, e.g. "ffmpeg_muxer", "rtmp_output", "replay_buffer"
	Name     string
	Settings *Settings
	Hotkeys  *Settings
}

// OutputState tracks an output's lifecycle.
type OutputState int32

const (
	OutputCreated OutputState = iota // Never started
	OutputStarted                    // Start succeeded
	OutputStopped                    // Stop completed, or the engine stopped it
)

func (s OutputState) String() string {
	switch s {
	case OutputCreated:
		return "created"
	case OutputStarted:
		return "started"
	case OutputStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// stopSignalName is the output signal whose calldata carries the outcome code.
const stopSignalName = "stop"

type outputCore struct {
	rc         *refCount
	engine     Engine
	logger     logrus.FieldLogger
	handle     OutputHandle
	id, name   *CString
	dispatcher *SignalDispatcher
	signals    SignalHandlerHandle
	stopSignal *CString
	param      uintptr
	disconnect *dropGuard
	state      atomic.Int32
	ctx        *Context
	sentinel   *ref

	mu            sync.Mutex
	settings      *Settings
	hotkeys       *Settings
	videoEncoders []*Encoder
	audioEncoders []*Encoder
}

// Output is a reference to a native output (recording, stream, replay
// buffer). Each value owns one reference.
type Output struct {
	core *outputCore
	ref  *ref
}

func newOutput(c *Context, info OutputInfo) (*Output, error) {
	id, name := NewCString(info.ID), NewCString(info.Name)
	h := c.engine.OutputCreate(id, name, handleOf(info.Settings), handleOf(info.Hotkeys))
	if h == 0 {
		return nil, &NullHandleError{Kind: "output", Name: info.Name}
	}
	sentinel, err := c.retainSentinel()
	if err != nil {
		c.engine.OutputRelease(h)
		return nil, err
	}
	info.Settings.freeze()
	info.Hotkeys.freeze()

	core := &outputCore{
		engine:     c.engine,
		logger:     c.logger.WithFields(logrus.Fields{"output": info.Name, "id": info.ID}),
		handle:     h,
		id:         id,
		name:       name,
		dispatcher: c.dispatcher,
		signals:    c.engine.OutputSignalHandler(h),
		stopSignal: NewCString(stopSignalName),
		ctx:        c,
		sentinel:   sentinel,
		settings:   info.Settings,
		hotkeys:    info.Hotkeys,
	}
	core.param = registerCallback(&signalTarget{output: info.Name, dispatcher: c.dispatcher})
	c.engine.SignalConnect(core.signals, core.stopSignal, core.param)
	core.disconnect = newDropGuard(func() {
		core.engine.SignalDisconnect(core.signals, core.stopSignal, core.param)
		unregisterCallback(core.param)
	})
	core.rc = newRefCount(core.release)
	core.logger.Debug("output created")
	return &Output{core: core, ref: newRef(core.rc)}, nil
}

func (oc *outputCore) release() {
	if oc.engine.OutputActive(oc.handle) {
		oc.logger.Warn("releasing an active output")
	}
	oc.disconnect.run()
	oc.engine.OutputRelease(oc.handle)
	if live := oc.ctx.liveOutputs[oc.name.String()]; live == oc {
		delete(oc.ctx.liveOutputs, oc.name.String())
	}

	oc.mu.Lock()
	encoders := append(oc.videoEncoders, oc.audioEncoders...)
	oc.videoEncoders, oc.audioEncoders = nil, nil
	settings, hotkeys := oc.settings, oc.hotkeys
	oc.mu.Unlock()

	for _, enc := range encoders {
		enc.Close()
	}
	settings.release()
	hotkeys.release()
	oc.logger.Debug("output released")
	oc.sentinel.close()
}

// Clone returns a new reference to the same output, or nil if o is closed.
func (o *Output) Clone() *Output {
	r, ok := o.ref.clone()
	if !ok {
		return nil
	}
	return &Output{core: o.core, ref: r}
}

// Close drops this reference. It must run on the Context's thread and is
// safe to call more than once.
func (o *Output) Close() error {
	return closeOnOwner(o.core.ctx.tid, o.ref)
}

// Name returns the output name, the key stop signals are correlated by.
func (o *Output) Name() string { return o.core.name.String() }

// ID returns the output type id.
func (o *Output) ID() string { return o.core.id.String() }

// Handle returns the native output handle.
func (o *Output) Handle() OutputHandle { return o.core.handle }

// Active asks the engine whether the output is running.
func (o *Output) Active() bool {
	return o.core.engine.OutputActive(o.core.handle)
}

// State returns the lifecycle state. An output the engine stopped on its own
// reports OutputStopped.
func (o *Output) State() OutputState {
	s := OutputState(o.core.state.Load())
	if s == OutputStarted && !o.Active() {
		return OutputStopped
	}
	return s
}

// Start starts the output. It fails with ErrOutputActive, without touching
// the engine further, if the output is already running.
func (o *Output) Start() error {
	if o.ref.isClosed() {
		return ErrClosed
	}
	oc := o.core
	if oc.engine.OutputActive(oc.handle) {
		return ErrOutputActive
	}
	// A stop signal left over from an engine-initiated stop belongs to the
	// previous run.
	oc.dispatcher.discard(oc.name.String())

	if !oc.engine.OutputStart(oc.handle) {
		msg := oc.engine.OutputLastError(oc.handle)
		oc.logger.WithField("reason", msg).Error("output failed to start")
		return &OutputStartError{Output: oc.name.String(), Message: msg}
	}
	oc.state.Store(int32(OutputStarted))
	oc.logger.Info("output started")
	return nil
}

// Stop requests a stop and waits, without a time limit, for the engine's stop
// signal. A non-success code is returned as *OutputStopError.
func (o *Output) Stop() error {
	return o.StopContext(context.Background())
}

// StopContext is Stop with a caller-controlled wait. If ctx ends first the
// engine may still be stopping; the late signal is discarded by the next Start.
func (o *Output) StopContext(ctx context.Context) error {
	if o.ref.isClosed() {
		return ErrClosed
	}
	oc := o.core
	if !oc.engine.OutputActive(oc.handle) {
		return ErrOutputNotActive
	}
	oc.engine.OutputStop(oc.handle)

	name := oc.name.String()
	code, err := oc.dispatcher.CorrelateContext(ctx, name)
	if err != nil {
		return fmt.Errorf("waiting for output %q to stop: %w", name, err)
	}
	oc.state.Store(int32(OutputStopped))
	if code != OutcomeSuccess {
		oc.logger.WithField("code", code.String()).Warn("output stopped with error")
		return &OutputStopError{Output: name, Code: code}
	}
	oc.logger.Info("output stopped")
	return nil
}

// Pause pauses or resumes a running output that supports pausing.
func (o *Output) Pause(pause bool) error {
	if o.ref.isClosed() {
		return ErrClosed
	}
	if !o.core.engine.OutputPause(o.core.handle, pause) {
		return fmt.Errorf("libobs: output %q cannot pause=%t", o.Name(), pause)
	}
	return nil
}

// SaveReplayBuffer asks a running replay buffer output to write its buffer.
func (o *Output) SaveReplayBuffer() error {
	if o.ref.isClosed() {
		return ErrClosed
	}
	oc := o.core
	if !oc.engine.OutputActive(oc.handle) {
		return &SaveBufferError{Output: o.Name(), Reason: "output not active"}
	}
	if !oc.engine.OutputSaveReplay(oc.handle) {
		reason := oc.engine.OutputLastError(oc.handle)
		if reason == "" {
			reason = "save procedure not available"
		}
		return &SaveBufferError{Output: o.Name(), Reason: reason}
	}
	return nil
}

// VideoEncoder creates a video encoder, binds it to the given pipeline and
// to this output, and returns a reference the caller owns. If creation fails
// the output is left unchanged.
func (o *Output) VideoEncoder(info EncoderInfo, video VideoHandle) (*Encoder, error) {
	if o.ref.isClosed() {
		return nil, ErrClosed
	}
	oc := o.core
	if err := oc.ctx.checkThread(); err != nil {
		return nil, err
	}
	enc, err := newEncoder(oc.ctx, EncoderVideo, info, 0)
	if err != nil {
		return nil, err
	}
	oc.engine.EncoderSetVideo(enc.core.handle, video)
	oc.engine.OutputSetVideoEncoder(oc.handle, enc.core.handle)

	oc.mu.Lock()
	oc.videoEncoders = append(oc.videoEncoders, enc)
	oc.mu.Unlock()
	return enc.Clone(), nil
}

// AudioEncoder creates an audio encoder for one mixer, binds it to the given
// pipeline and to this output at that mixer index.
func (o *Output) AudioEncoder(info EncoderInfo, mixer int, audio AudioHandle) (*Encoder, error) {
	if o.ref.isClosed() {
		return nil, ErrClosed
	}
	oc := o.core
	if err := oc.ctx.checkThread(); err != nil {
		return nil, err
	}
	enc, err := newEncoder(oc.ctx, EncoderAudio, info, mixer)
	if err != nil {
		return nil, err
	}
	oc.engine.EncoderSetAudio(enc.core.handle, audio)
	oc.engine.OutputSetAudioEncoder(oc.handle, enc.core.handle, mixer)

	oc.mu.Lock()
	oc.audioEncoders = append(oc.audioEncoders, enc)
	oc.mu.Unlock()
	return enc.Clone(), nil
}

// VideoEncoders returns every video encoder attached, in attach order.
func (o *Output) VideoEncoders() []*Encoder {
	o.core.mu.Lock()
	defer o.core.mu.Unlock()
	out := make([]*Encoder, len(o.core.videoEncoders))
	copy(out, o.core.videoEncoders)
	return out
}

// AudioEncoders returns every audio encoder attached, in attach order.
func (o *Output) AudioEncoders() []*Encoder {
	o.core.mu.Lock()
	defer o.core.mu.Unlock()
	out := make([]*Encoder, len(o.core.audioEncoders))
	copy(out, o.core.audioEncoders)
	return out
}

// Settings returns the attached settings read-only.
func (o *Output) Settings() *Settings {
	o.core.mu.Lock()
	defer o.core.mu.Unlock()
	return o.core.settings
}

// Updater stages new settings for this output.
func (o *Output) Updater() (*Updater, error) {
	if o.ref.isClosed() {
		return nil, ErrClosed
	}
	settings, err := o.core.ctx.NewSettings()
	if err != nil {
		return nil, err
	}
	oc := o.core
	return &Updater{
		Settings: settings,
		alive:    func() bool { return oc.rc.count() > 0 },
		apply: func(next *Settings) {
			oc.engine.OutputUpdate(oc.handle, next.handle)
			oc.mu.Lock()
			prev := oc.settings
			oc.settings = next
			oc.mu.Unlock()
			prev.release()
			oc.logger.Debug("output updated")
		},
	}, nil
}
