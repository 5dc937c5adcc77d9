package libobs

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// fakeCall is one recorded Engine call.
type fakeCall struct {
	Op     string
	Handle uintptr
	Arg    string
}

type fakeOutput struct {
	name     string
	active   bool
	stopping bool
	param    uintptr
	handler  SignalHandlerHandle
}

// fakeCallData is the calldata handed to deliverSignal.
type fakeCallData map[string]int64

func (cd fakeCallData) Int(name string) (int64, bool) {
	v, ok := cd[name]
	return v, ok
}

func (cd fakeCallData) Ptr(name string) (uintptr, bool) {
	v, ok := cd[name]
	return uintptr(v), ok
}

// fakeEngine records every call and keeps just enough state to behave like
// libobs for ownership and signalling purposes.
type fakeEngine struct {
	mu    sync.Mutex
	calls []fakeCall
	next  uintptr

	failStartup  bool
	failAudio    bool
	videoStatus  VideoStatus
	failCreate   map[string]bool   // "data", "output", "scene", "scene item", "source", "encoder", "display"
	failStart    map[string]string // output name -> last error
	autoStop     bool
	autoStopCode OutcomeCode
	saveReplay   bool
	pauseOK      bool
	allocs       int64

	started        bool
	video          VideoHandle
	audio          AudioHandle
	channels       [MaxChannels]SourceHandle
	sceneSources   map[SceneHandle]SourceHandle
	outputs        map[OutputHandle]*fakeOutput
	encoderVideo   map[EncoderHandle]VideoHandle
	data           map[DataHandle]map[string]any
	live           map[uintptr]string
	doubleReleases []fakeCall
	drawAdds       map[DisplayHandle]uintptr
	drawRemoves    map[DisplayHandle]uintptr
	logParam       uintptr
	crashParam     uintptr
	shutdownTID    uint64
	renders        atomic.Int64
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		next:         0x1000,
		failCreate:   make(map[string]bool),
		failStart:    make(map[string]string),
		sceneSources: make(map[SceneHandle]SourceHandle),
		outputs:      make(map[OutputHandle]*fakeOutput),
		encoderVideo: make(map[EncoderHandle]VideoHandle),
		data:         make(map[DataHandle]map[string]any),
		live:         make(map[uintptr]string),
		drawAdds:     make(map[DisplayHandle]uintptr),
		drawRemoves:  make(map[DisplayHandle]uintptr),
		saveReplay:   true,
		pauseOK:      true,
	}
}

// newTestContext starts a Context on the calling test goroutine and closes
// it when the test ends.
func newTestContext(t *testing.T, f *fakeEngine) *Context {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	info := DefaultStartupInfo()
	info.Engine = f
	info.Logger = logger
	info.ModulePaths = []ModulePath{{Bin: "/opt/obs/plugins/bin", Data: "/opt/obs/plugins/data"}}
	ctx, err := NewContext(info)
	require.NoError(t, err)
	t.Cleanup(func() { ctx.Close() })
	return ctx
}

func (f *fakeEngine) record(op string, h uintptr, arg string) {
	f.calls = append(f.calls, fakeCall{Op: op, Handle: h, Arg: arg})
}

func (f *fakeEngine) create(kind string, arg string) uintptr {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate[kind] {
		f.record("Create "+kind, 0, arg)
		return 0
	}
	f.next += 0x10
	h := f.next
	f.live[h] = kind
	f.record("Create "+kind, h, arg)
	return h
}

func (f *fakeEngine) release(op string, h uintptr) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(op, h, "")
	if _, ok := f.live[h]; !ok {
		f.doubleReleases = append(f.doubleReleases, fakeCall{Op: op, Handle: h})
		return
	}
	delete(f.live, h)
}

func (f *fakeEngine) simple(op string, h uintptr) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(op, h, "")
}

// snapshot returns a copy of the call log.
func (f *fakeEngine) snapshot() []fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]fakeCall, len(f.calls))
	copy(out, f.calls)
	return out
}

// count returns how many times op was called on h; h 0 matches any handle.
func (f *fakeEngine) count(op string, h uintptr) int {
	n := 0
	for _, c := range f.snapshot() {
		if c.Op == op && (h == 0 || c.Handle == h) {
			n++
		}
	}
	return n
}

// index returns the position of the first op on h, or -1.
func (f *fakeEngine) index(op string, h uintptr) int {
	for i, c := range f.snapshot() {
		if c.Op == op && (h == 0 || c.Handle == h) {
			return i
		}
	}
	return -1
}

// lastIndex returns the position of the last op on h, or -1.
func (f *fakeEngine) lastIndex(op string, h uintptr) int {
	calls := f.snapshot()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Op == op && (h == 0 || calls[i].Handle == h) {
			return i
		}
	}
	return -1
}

func (f *fakeEngine) liveHandles() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.live)
}

func (f *fakeEngine) outputByName(name string) (OutputHandle, *fakeOutput) {
	for h, o := range f.outputs {
		if o.name == name {
			return h, o
		}
	}
	return 0, nil
}

// emitStop delivers a stop signal for the named output the way the engine's
// output thread would.
func (f *fakeEngine) emitStop(name string, code OutcomeCode) {
	f.mu.Lock()
	h, _ := f.outputByName(name)
	f.mu.Unlock()
	f.emitStopHandle(h, code)
}

// emitStopHandle is emitStop for one native output, for when a released
// output shared the name.
func (f *fakeEngine) emitStopHandle(h OutputHandle, code OutcomeCode) {
	f.mu.Lock()
	o := f.outputs[h]
	if o == nil {
		f.mu.Unlock()
		return
	}
	o.active = false
	o.stopping = false
	param := o.param
	f.mu.Unlock()
	deliverSignal(param, fakeCallData{"code": int64(code)})
}

// stopping reports whether the engine was asked to stop the named output.
func (f *fakeEngine) stopping(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, o := f.outputByName(name)
	return o != nil && o.stopping
}

// draw fires every registered draw callback once.
func (f *fakeEngine) draw() {
	f.mu.Lock()
	params := make([]uintptr, 0, len(f.drawAdds))
	for h, p := range f.drawAdds {
		if _, removed := f.drawRemoves[h]; !removed {
			params = append(params, p)
		}
	}
	f.mu.Unlock()
	for _, p := range params {
		deliverDraw(p, 1280, 720)
	}
}

// Lifecycle

func (f *fakeEngine) Startup(locale, moduleConfigPath *CString) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Startup", 0, locale.String())
	if f.failStartup {
		return false
	}
	f.started = true
	return true
}

func (f *fakeEngine) Shutdown() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Shutdown", 0, "")
	f.started = false
	f.shutdownTID = currentThreadID()
}

func (f *fakeEngine) AddModulePath(bin, data *CString) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("AddModulePath", 0, bin.String()+":"+data.String())
}

func (f *fakeEngine) LoadAllModules()   { f.simple("LoadAllModules", 0) }
func (f *fakeEngine) PostLoadModules()  { f.simple("PostLoadModules", 0) }
func (f *fakeEngine) LogLoadedModules() { f.simple("LogLoadedModules", 0) }

func (f *fakeEngine) ResetAudio(info AudioInfo) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ResetAudio", 0, "")
	if f.failAudio {
		return false
	}
	f.next += 0x10
	f.audio = AudioHandle(f.next)
	return true
}

func (f *fakeEngine) ResetVideo(info VideoInfo) VideoStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ResetVideo", 0, info.GraphicsModule)
	if f.videoStatus != VideoSuccess {
		return f.videoStatus
	}
	f.next += 0x10
	f.video = VideoHandle(f.next)
	return VideoSuccess
}

func (f *fakeEngine) Video() VideoHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.video
}

func (f *fakeEngine) Audio() AudioHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.audio
}

func (f *fakeEngine) SetOutputSource(channel uint32, source SourceHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channels[channel] = source
	if source != 0 {
		f.record("SetOutputSource", uintptr(source), "")
	}
}

func (f *fakeEngine) OutputSource(channel uint32) SourceHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.channels[channel]
}

func (f *fakeEngine) NumAllocs() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.allocs
}

func (f *fakeEngine) RenderMainTexture() { f.renders.Add(1) }

func (f *fakeEngine) SetLogHandler(param uintptr) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logParam = param
	f.record("SetLogHandler", param, "")
}

func (f *fakeEngine) ClearLogHandler() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logParam = 0
	f.record("ClearLogHandler", 0, "")
}

func (f *fakeEngine) SetCrashHandler(param uintptr) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.crashParam = param
	f.record("SetCrashHandler", param, "")
}

func (f *fakeEngine) ClearCrashHandler() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.crashParam = 0
	f.record("ClearCrashHandler", 0, "")
}

// Data containers

func (f *fakeEngine) DataCreate() DataHandle {
	h := f.create("data", "")
	if h != 0 {
		f.mu.Lock()
		f.data[DataHandle(h)] = make(map[string]any)
		f.mu.Unlock()
	}
	return DataHandle(h)
}

func (f *fakeEngine) DataCreateFromJSON(js *CString) DataHandle {
	values := make(map[string]any)
	if err := json.Unmarshal([]byte(js.String()), &values); err != nil {
		return 0
	}
	h := f.create("data", js.String())
	if h != 0 {
		f.mu.Lock()
		f.data[DataHandle(h)] = values
		f.mu.Unlock()
	}
	return DataHandle(h)
}

func (f *fakeEngine) DataRelease(data DataHandle) {
	if data == 0 {
		return
	}
	f.release("DataRelease", uintptr(data))
}

func (f *fakeEngine) set(data DataHandle, key string, value any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DataSet", uintptr(data), key)
	if m, ok := f.data[data]; ok {
		m[key] = value
	}
}

func (f *fakeEngine) DataSetString(data DataHandle, key, value *CString) {
	f.set(data, key.String(), value.String())
}

func (f *fakeEngine) DataSetInt(data DataHandle, key *CString, value int64) {
	f.set(data, key.String(), value)
}

func (f *fakeEngine) DataSetBool(data DataHandle, key *CString, value bool) {
	f.set(data, key.String(), value)
}

func (f *fakeEngine) DataSetDouble(data DataHandle, key *CString, value float64) {
	f.set(data, key.String(), value)
}

func (f *fakeEngine) DataJSON(data DataHandle) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, _ := json.Marshal(f.data[data])
	return string(b)
}

// Outputs

func (f *fakeEngine) OutputCreate(id, name *CString, settings, hotkeys DataHandle) OutputHandle {
	h := f.create("output", name.String())
	if h != 0 {
		f.mu.Lock()
		f.outputs[OutputHandle(h)] = &fakeOutput{name: name.String()}
		f.mu.Unlock()
	}
	return OutputHandle(h)
}

func (f *fakeEngine) OutputRelease(output OutputHandle) {
	f.release("OutputRelease", uintptr(output))
}

func (f *fakeEngine) OutputStart(output OutputHandle) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("OutputStart", uintptr(output), "")
	o := f.outputs[output]
	if _, fail := f.failStart[o.name]; fail {
		return false
	}
	o.active = true
	return true
}

func (f *fakeEngine) OutputStop(output OutputHandle) {
	f.mu.Lock()
	f.record("OutputStop", uintptr(output), "")
	o := f.outputs[output]
	o.stopping = true
	name, auto, code := o.name, f.autoStop, f.autoStopCode
	f.mu.Unlock()
	if auto {
		go f.emitStop(name, code)
	}
}

func (f *fakeEngine) OutputActive(output OutputHandle) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.outputs[output]
	return ok && o.active
}

func (f *fakeEngine) OutputPause(output OutputHandle, pause bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("OutputPause", uintptr(output), "")
	return f.pauseOK && f.outputs[output].active
}

func (f *fakeEngine) OutputLastError(output OutputHandle) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failStart[f.outputs[output].name]
}

func (f *fakeEngine) OutputUpdate(output OutputHandle, settings DataHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("OutputUpdate", uintptr(output), "")
}

func (f *fakeEngine) OutputSetVideoEncoder(output OutputHandle, encoder EncoderHandle) {
	f.simple("OutputSetVideoEncoder", uintptr(encoder))
}

func (f *fakeEngine) OutputSetAudioEncoder(output OutputHandle, encoder EncoderHandle, mixer int) {
	f.simple("OutputSetAudioEncoder", uintptr(encoder))
}

func (f *fakeEngine) OutputSignalHandler(output OutputHandle) SignalHandlerHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := SignalHandlerHandle(output)
	f.outputs[output].handler = h
	return h
}

func (f *fakeEngine) OutputSaveReplay(output OutputHandle) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("OutputSaveReplay", uintptr(output), "")
	return f.saveReplay
}

// Signals

func (f *fakeEngine) SignalConnect(handler SignalHandlerHandle, signal *CString, param uintptr) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SignalConnect", uintptr(handler), signal.String())
	f.outputs[OutputHandle(handler)].param = param
}

func (f *fakeEngine) SignalDisconnect(handler SignalHandlerHandle, signal *CString, param uintptr) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SignalDisconnect", uintptr(handler), signal.String())
	if o, ok := f.outputs[OutputHandle(handler)]; ok && o.param == param {
		o.param = 0
	}
}

// Encoders

func (f *fakeEngine) VideoEncoderCreate(id, name *CString, settings, hotkeys DataHandle) EncoderHandle {
	return EncoderHandle(f.create("encoder", name.String()))
}

func (f *fakeEngine) AudioEncoderCreate(id, name *CString, settings DataHandle, mixer int, hotkeys DataHandle) EncoderHandle {
	return EncoderHandle(f.create("encoder", name.String()))
}

func (f *fakeEngine) EncoderSetVideo(encoder EncoderHandle, video VideoHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("EncoderSetVideo", uintptr(encoder), "")
	f.encoderVideo[encoder] = video
}

func (f *fakeEngine) EncoderSetAudio(encoder EncoderHandle, audio AudioHandle) {
	f.simple("EncoderSetAudio", uintptr(encoder))
}

func (f *fakeEngine) EncoderRelease(encoder EncoderHandle) {
	f.release("EncoderRelease", uintptr(encoder))
}

// Scenes and sources

func (f *fakeEngine) SceneCreate(name *CString) SceneHandle {
	h := f.create("scene", name.String())
	if h != 0 {
		f.mu.Lock()
		f.next += 0x10
		f.sceneSources[SceneHandle(h)] = SourceHandle(f.next)
		f.mu.Unlock()
	}
	return SceneHandle(h)
}

func (f *fakeEngine) SceneRelease(scene SceneHandle) {
	f.release("SceneRelease", uintptr(scene))
}

func (f *fakeEngine) SceneSource(scene SceneHandle) SourceHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sceneSources[scene]
}

func (f *fakeEngine) SceneAdd(scene SceneHandle, source SourceHandle) SceneItemHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SceneAdd", uintptr(source), "")
	if f.failCreate["scene item"] {
		return 0
	}
	f.next += 0x10
	return SceneItemHandle(f.next)
}

func (f *fakeEngine) SourceCreate(id, name *CString, settings, hotkeys DataHandle) SourceHandle {
	return SourceHandle(f.create("source", id.String()))
}

func (f *fakeEngine) SourceRelease(source SourceHandle) {
	f.release("SourceRelease", uintptr(source))
}

func (f *fakeEngine) SourceUpdate(source SourceHandle, settings DataHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SourceUpdate", uintptr(source), "")
}

// Displays

func (f *fakeEngine) DisplayCreate(init GraphicsInit, background uint32) DisplayHandle {
	return DisplayHandle(f.create("display", ""))
}

func (f *fakeEngine) DisplayDestroy(display DisplayHandle) {
	f.release("DisplayDestroy", uintptr(display))
}

func (f *fakeEngine) DisplayResize(display DisplayHandle, width, height uint32) {
	f.simple("DisplayResize", uintptr(display))
}

func (f *fakeEngine) DisplayAddDrawCallback(display DisplayHandle, param uintptr) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DisplayAddDrawCallback", uintptr(display), "")
	f.drawAdds[display] = param
}

func (f *fakeEngine) DisplayRemoveDrawCallback(display DisplayHandle, param uintptr) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DisplayRemoveDrawCallback", uintptr(display), "")
	f.drawRemoves[display] = param
}

var _ Engine = (*fakeEngine)(nil)
