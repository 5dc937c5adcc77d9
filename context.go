package libobs

import (
	"runtime"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ModulePath is a plugin binary directory and its data directory.
type ModulePath struct {
	Bin  string
	Data string
}

// StartupInfo configures NewContext.
type StartupInfo struct {
	Locale           string // e.g. "en-US"
	ModuleConfigPath string // plugin config directory; empty uses the engine default
	ModulePaths      []ModulePath
	Video            VideoInfo
	Audio            AudioInfo

	// Logger receives wrapper logs and forwarded native log lines.
	// Nil uses logrus.StandardLogger().
	Logger logrus.FieldLogger

	// OnCrash is called from the native crash handler after the crash is logged.
	OnCrash func(message string)

	// Engine overrides the native binding. Nil loads libobs.
	Engine Engine
}

// DefaultStartupInfo returns a configuration suitable for most hosts.
func DefaultStartupInfo() StartupInfo {
	return StartupInfo{
		Locale: "en-US",
		Video:  DefaultVideoInfo(),
		Audio:  DefaultAudioInfo(),
	}
}

// Context is the single live handle to the native engine.
//
// NewContext locks the calling goroutine to its OS thread until the engine
// shuts down. All Context methods that touch the engine, and Close on every
// resource, must be called from that goroutine; other callers get
// ErrWrongThread. Resources created through the Context keep the engine
// alive: it shuts down only after the Context and every Scene, Source,
// Output, Encoder, Display and Settings derived from it are closed.
type Context struct {
	info       StartupInfo
	engine     Engine
	logger     logrus.FieldLogger
	tid        uint64
	sentinel   *shutdownSentinel
	self       *ref
	dispatcher *SignalDispatcher

	outputs       map[string]*Output
	liveOutputs   map[string]*outputCore
	scenes        []*Scene
	displays      map[DisplayID]*Display
	nextDisplayID DisplayID
	active        *activeScene

	logParam   uintptr
	crashParam uintptr
	closed     bool
}

// NewContext starts the engine. Only one Context may be live per process;
// a second call before the first has fully shut down returns ErrAlreadyOwned.
func NewContext(info StartupInfo) (_ *Context, err error) {
	runtime.LockOSThread()
	tid, err := engineOwner.acquire()
	if err != nil {
		runtime.UnlockOSThread()
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			engineOwner.poison()
			panic(r)
		}
		if err != nil {
			engineOwner.release()
			runtime.UnlockOSThread()
		}
	}()

	engine := info.Engine
	if engine == nil {
		if engine, err = NewLibobsEngine(); err != nil {
			return nil, err
		}
	}
	logger := info.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if info.Locale == "" {
		info.Locale = "en-US"
	}

	c := &Context{
		info:        info,
		engine:      engine,
		logger:      logger,
		tid:         tid,
		dispatcher:  NewSignalDispatcher(),
		outputs:     make(map[string]*Output),
		liveOutputs: make(map[string]*outputCore),
		displays:    make(map[DisplayID]*Display),
		active:      &activeScene{},
	}
	if err := c.startup(); err != nil {
		return nil, err
	}
	c.sentinel, c.self = newShutdownSentinel(c.shutdown)

	logger.WithFields(logrus.Fields{
		"locale":   info.Locale,
		"graphics": info.Video.GraphicsModule,
		"base":     [2]uint32{info.Video.BaseWidth, info.Video.BaseHeight},
		"modules":  len(info.ModulePaths),
	}).Info("libobs context started")
	return c, nil
}

func (c *Context) startup() error {
	locale := NewCString(c.info.Locale)
	var configPath *CString
	if c.info.ModuleConfigPath != "" {
		configPath = NewCString(c.info.ModuleConfigPath)
	}
	ok := c.engine.Startup(locale, configPath)
	locale.KeepAlive()
	configPath.KeepAlive()
	if !ok {
		return ErrEngineStartup
	}

	c.crashParam = registerCallback(&crashTarget{logger: c.logger, onCrash: c.info.OnCrash})
	c.engine.SetCrashHandler(c.crashParam)
	c.logParam = registerCallback(&logTarget{logger: c.logger})
	c.engine.SetLogHandler(c.logParam)

	if !c.engine.ResetAudio(c.info.Audio) {
		c.abortStartup()
		return ErrAudioReset
	}
	if status := c.engine.ResetVideo(c.info.Video); status != VideoSuccess {
		c.abortStartup()
		return &VideoResetError{Status: status}
	}

	for _, p := range c.info.ModulePaths {
		bin, data := NewCString(p.Bin), NewCString(p.Data)
		c.engine.AddModulePath(bin, data)
		bin.KeepAlive()
		data.KeepAlive()
	}
	c.engine.LoadAllModules()
	c.engine.PostLoadModules()
	c.engine.LogLoadedModules()
	return nil
}

// abortStartup undoes a partially successful startup.
func (c *Context) abortStartup() {
	c.engine.Shutdown()
	c.clearHandlers()
}

func (c *Context) clearHandlers() {
	c.engine.ClearCrashHandler()
	c.engine.ClearLogHandler()
	unregisterCallback(c.crashParam)
	unregisterCallback(c.logParam)
}

// shutdown runs once, when the last sentinel reference is closed.
func (c *Context) shutdown() {
	for ch := uint32(0); ch < MaxChannels; ch++ {
		c.engine.SetOutputSource(ch, 0)
	}
	c.engine.Shutdown()

	leaks := c.engine.NumAllocs()
	entry := c.logger.WithField("allocations", leaks)
	if leaks > 0 {
		entry.Warn("libobs shut down with outstanding allocations")
	} else {
		entry.Info("libobs shut down")
	}

	c.clearHandlers()
	c.dispatcher.Close()
	engineOwner.release()
	runtime.UnlockOSThread()
}

// checkThread is the capability check for engine-touching calls.
func (c *Context) checkThread() error {
	if c.closed {
		return ErrClosed
	}
	return engineOwner.verify(c.tid)
}

// retainSentinel gives a new resource its claim on the engine.
func (c *Context) retainSentinel() (*ref, error) {
	r, ok := c.self.clone()
	if !ok {
		return nil, ErrClosed
	}
	return r, nil
}

// Logger returns the logger used by this context.
func (c *Context) Logger() logrus.FieldLogger { return c.logger }

// Dispatcher returns the signal dispatcher outputs report to.
func (c *Context) Dispatcher() *SignalDispatcher { return c.dispatcher }

// StartupInfo returns the configuration in effect, including video resets.
func (c *Context) StartupInfo() StartupInfo { return c.info }

// ModulePaths returns the plugin paths registered at startup.
func (c *Context) ModulePaths() []ModulePath {
	out := make([]ModulePath, len(c.info.ModulePaths))
	copy(out, c.info.ModulePaths)
	return out
}

// Video returns the engine-wide video pipeline handle.
func (c *Context) Video() (VideoHandle, error) {
	if err := c.checkThread(); err != nil {
		return 0, err
	}
	return c.engine.Video(), nil
}

// Audio returns the engine-wide audio pipeline handle.
func (c *Context) Audio() (AudioHandle, error) {
	if err := c.checkThread(); err != nil {
		return 0, err
	}
	return c.engine.Audio(), nil
}

// ResetVideo reconfigures the video pipeline. The graphics module cannot
// change; that requires a new Context. On success every video encoder
// attached to a live output is rebound to the new pipeline, including outputs
// removed from the Context but still held by the caller.
func (c *Context) ResetVideo(info VideoInfo) error {
	if err := c.checkThread(); err != nil {
		return err
	}
	if info.GraphicsModule != c.info.Video.GraphicsModule {
		return ErrVideoBackendChange
	}
	if status := c.engine.ResetVideo(info); status != VideoSuccess {
		return &VideoResetError{Status: status}
	}
	c.info.Video = info

	video := c.engine.Video()
	rebound := 0
	for _, oc := range c.liveOutputs {
		oc.mu.Lock()
		for _, enc := range oc.videoEncoders {
			c.engine.EncoderSetVideo(enc.core.handle, video)
			rebound++
		}
		oc.mu.Unlock()
	}
	c.logger.WithFields(logrus.Fields{
		"base":     [2]uint32{info.BaseWidth, info.BaseHeight},
		"output":   [2]uint32{info.OutputWidth, info.OutputHeight},
		"encoders": rebound,
	}).Info("video reset")
	return nil
}

// NewSettings creates an empty data container.
func (c *Context) NewSettings() (*Settings, error) {
	if err := c.checkThread(); err != nil {
		return nil, err
	}
	h := c.engine.DataCreate()
	if h.IsNull() {
		return nil, &NullHandleError{Kind: "data"}
	}
	sentinel, err := c.retainSentinel()
	if err != nil {
		c.engine.DataRelease(h)
		return nil, err
	}
	return newSettings(c.engine, c.tid, h, sentinel), nil
}

// SettingsFromJSON creates a data container from a JSON object.
func (c *Context) SettingsFromJSON(json string) (*Settings, error) {
	if err := c.checkThread(); err != nil {
		return nil, err
	}
	js := NewCString(json)
	h := c.engine.DataCreateFromJSON(js)
	js.KeepAlive()
	if h.IsNull() {
		return nil, &NullHandleError{Kind: "data"}
	}
	sentinel, err := c.retainSentinel()
	if err != nil {
		c.engine.DataRelease(h)
		return nil, err
	}
	return newSettings(c.engine, c.tid, h, sentinel), nil
}

// Scene creates a scene. The Context keeps its own reference until Close;
// the caller owns the returned one.
func (c *Context) Scene(name string) (*Scene, error) {
	if err := c.checkThread(); err != nil {
		return nil, err
	}
	scene, err := newScene(c, name)
	if err != nil {
		return nil, err
	}
	c.scenes = append(c.scenes, scene)
	return scene.Clone(), nil
}

// Scenes returns the scenes created by this context. They are owned by the
// Context; Clone one to keep it past Close.
func (c *Context) Scenes() []*Scene {
	out := make([]*Scene, len(c.scenes))
	copy(out, c.scenes)
	return out
}

// ActiveScene returns the scene last bound with AddAndSet.
func (c *Context) ActiveScene() (*Scene, bool) {
	s := c.active.get()
	return s, s != nil
}

// OutputSource returns the source bound to an output channel.
func (c *Context) OutputSource(channel uint32) (SourceHandle, error) {
	if err := c.checkThread(); err != nil {
		return 0, err
	}
	if channel >= MaxChannels {
		return 0, ErrInvalidChannel
	}
	return c.engine.OutputSource(channel), nil
}

// Output creates an output. Names must be unique because stop signals are
// correlated by name, and a name stays taken until the native output is
// released, not merely removed from the Context. An empty name gets a
// generated one. The Context keeps its own reference until Close or
// RemoveOutput.
func (c *Context) Output(info OutputInfo) (*Output, error) {
	if err := c.checkThread(); err != nil {
		return nil, err
	}
	if info.Name == "" {
		info.Name = "output-" + uuid.NewString()
	}
	if _, dup := c.liveOutputs[info.Name]; dup {
		return nil, ErrDuplicateOutput
	}
	out, err := newOutput(c, info)
	if err != nil {
		return nil, err
	}
	c.outputs[info.Name] = out
	c.liveOutputs[info.Name] = out.core
	return out.Clone(), nil
}

// OutputByName returns the Context's reference to an output.
func (c *Context) OutputByName(name string) (*Output, bool) {
	out, ok := c.outputs[name]
	return out, ok
}

// Outputs returns the names of all outputs, sorted.
func (c *Context) Outputs() []string {
	names := make([]string, 0, len(c.outputs))
	for name := range c.outputs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RemoveOutput drops the Context's reference to an output. The native output
// is released, and its name freed, once every other reference is closed too.
func (c *Context) RemoveOutput(name string) error {
	if err := c.checkThread(); err != nil {
		return err
	}
	out, ok := c.outputs[name]
	if !ok {
		return nil
	}
	delete(c.outputs, name)
	return out.Close()
}

// Display creates a preview display and returns its id.
func (c *Context) Display(data DisplayCreationData) (DisplayID, error) {
	if err := c.checkThread(); err != nil {
		return 0, err
	}
	c.nextDisplayID++
	id := c.nextDisplayID
	d, err := newDisplay(c, id, data)
	if err != nil {
		return 0, err
	}
	c.displays[id] = d
	return id, nil
}

// DisplayByID looks up a display created by this context.
func (c *Context) DisplayByID(id DisplayID) (*Display, bool) {
	d, ok := c.displays[id]
	return d, ok
}

// RemoveDisplay destroys a display and its preview window.
func (c *Context) RemoveDisplay(id DisplayID) error {
	if err := c.checkThread(); err != nil {
		return err
	}
	d, ok := c.displays[id]
	if !ok {
		return nil
	}
	delete(c.displays, id)
	return d.Close()
}

// Close releases everything the Context holds and drops its claim on the
// engine. The engine shuts down, and the calling goroutine is unlocked from
// its thread, once the caller's remaining references are closed as well.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	if err := engineOwner.verify(c.tid); err != nil {
		return err
	}
	c.closed = true

	for id, d := range c.displays {
		d.Close()
		delete(c.displays, id)
	}
	for name, out := range c.outputs {
		out.Close()
		delete(c.outputs, name)
	}
	c.active.clear()
	for _, s := range c.scenes {
		s.Close()
	}
	c.scenes = nil

	c.self.close()
	if !c.sentinel.fired() {
		c.logger.WithField("references", c.sentinel.live()).
			Debug("libobs context closed; engine shutdown waits for remaining references")
	}
	return nil
}
