//go:build darwin || linux

// libobs binding via purego.

package libobs

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

var (
	libobsOnce    sync.Once
	libobsHandle  uintptr
	libcHandle    uintptr
	libobsInitErr error
)

// libobs function pointers
var (
	obsStartup           func(locale, moduleConfigPath, store uintptr) bool
	obsShutdown          func()
	obsAddModulePath     func(bin, data uintptr)
	obsLoadAllModules    func()
	obsPostLoadModules   func()
	obsLogLoadedModules  func()
	obsResetAudio        func(info uintptr) bool
	obsResetVideo        func(info uintptr) int32
	obsGetVideo          func() uintptr
	obsGetAudio          func() uintptr
	obsSetOutputSource   func(channel uint32, source uintptr)
	obsGetOutputSource   func(channel uint32) uintptr
	obsRenderMainTexture func()
	bnumAllocs           func() int64
	baseSetLogHandler    func(handler, param uintptr)
	baseSetCrashHandler  func(handler, param uintptr)
	bfree                func(ptr uintptr)

	obsDataCreate         func() uintptr
	obsDataCreateFromJSON func(json uintptr) uintptr
	obsDataRelease        func(data uintptr)
	obsDataSetString      func(data, name, val uintptr)
	obsDataSetInt         func(data, name uintptr, val int64)
	obsDataSetBool        func(data, name uintptr, val bool)
	obsDataSetDouble      func(data, name uintptr, val float64)
	obsDataGetJSON        func(data uintptr) uintptr

	obsOutputCreate           func(id, name, settings, hotkeys uintptr) uintptr
	obsOutputRelease          func(output uintptr)
	obsOutputStart            func(output uintptr) bool
	obsOutputStop             func(output uintptr)
	obsOutputActive           func(output uintptr) bool
	obsOutputPause            func(output uintptr, pause bool) bool
	obsOutputGetLastError     func(output uintptr) uintptr
	obsOutputUpdate           func(output, settings uintptr)
	obsOutputSetVideoEncoder  func(output, encoder uintptr)
	obsOutputSetAudioEncoder  func(output, encoder, idx uintptr)
	obsOutputGetSignalHandler func(output uintptr) uintptr
	obsOutputGetProcHandler   func(output uintptr) uintptr
	procHandlerCall           func(handler, name, calldata uintptr) bool

	signalHandlerConnect    func(handler, signal, callback, data uintptr)
	signalHandlerDisconnect func(handler, signal, callback, data uintptr)
	calldataGetData         func(data, name, out, size uintptr) bool

	obsVideoEncoderCreate func(id, name, settings, hotkeys uintptr) uintptr
	obsAudioEncoderCreate func(id, name, settings, mixer, hotkeys uintptr) uintptr
	obsEncoderSetVideo    func(encoder, video uintptr)
	obsEncoderSetAudio    func(encoder, audio uintptr)
	obsEncoderRelease     func(encoder uintptr)

	obsSceneCreate    func(name uintptr) uintptr
	obsSceneRelease   func(scene uintptr)
	obsSceneGetSource func(scene uintptr) uintptr
	obsSceneAdd       func(scene, source uintptr) uintptr
	obsSourceCreate   func(id, name, settings, hotkeys uintptr) uintptr
	obsSourceRelease  func(source uintptr)
	obsSourceUpdate   func(source, settings uintptr)

	obsDisplayCreate             func(init uintptr, background uint32) uintptr
	obsDisplayDestroy            func(display uintptr)
	obsDisplayResize             func(display uintptr, cx, cy uint32)
	obsDisplayAddDrawCallback    func(display, draw, param uintptr)
	obsDisplayRemoveDrawCallback func(display, draw, param uintptr)

	libcVsnprintf func(buf, size, format, args uintptr) int32
)

// Trampolines handed to the engine. purego callbacks cannot be freed, so
// there is exactly one per callback kind and events are routed by param.
var (
	signalTrampoline uintptr
	drawTrampoline   uintptr
	logTrampoline    uintptr
	crashTrampoline  uintptr
)

// obsVideoInfoC matches struct obs_video_info.
type obsVideoInfoC struct {
	GraphicsModule uintptr
	FPSNum         uint32
	FPSDen         uint32
	BaseWidth      uint32
	BaseHeight     uint32
	OutputWidth    uint32
	OutputHeight   uint32
	OutputFormat   int32
	Adapter        uint32
	GPUConversion  bool
	ColorSpace     int32
	Range          int32
	ScaleType      int32
}

// obsAudioInfoC matches struct obs_audio_info.
type obsAudioInfoC struct {
	SamplesPerSec uint32
	Speakers      int32
}

// gsInitDataC matches struct gs_init_data; gsWindowC is per platform.
type gsInitDataC struct {
	Window         gsWindowC
	CX             uint32
	CY             uint32
	NumBackbuffers uint32
	Format         int32
	ZSFormat       int32
	Adapter        uint32
}

// calldataC matches struct calldata.
type calldataC struct {
	Stack    uintptr
	Size     uintptr
	Capacity uintptr
	Fixed    bool
}

// loadLibobs loads libobs and the libc formatter used for log messages.
func loadLibobs() error {
	libobsOnce.Do(func() {
		libobsInitErr = loadLibobsLib()
	})
	return libobsInitErr
}

func loadLibobsLib() error {
	paths := getLibobsPaths()

	var lastErr error
	for _, path := range paths {
		handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err == nil {
			libobsHandle = handle
			if err := loadLibobsSymbols(); err != nil {
				purego.Dlclose(handle)
				lastErr = err
				continue
			}
			if err := loadLibc(); err != nil {
				return err
			}
			createTrampolines()
			return nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return fmt.Errorf("%w: %v", ErrEngineUnavailable, lastErr)
	}
	return fmt.Errorf("%w: libobs not found in any standard location", ErrEngineUnavailable)
}

func libobsName() string {
	if runtime.GOOS == "darwin" {
		return "libobs.framework/libobs"
	}
	return "libobs.so.0"
}

func getLibobsPaths() []string {
	var paths []string
	libName := libobsName()

	// Environment variable overrides (highest priority)
	if envPath := os.Getenv("LIBOBS_LIB_PATH"); envPath != "" {
		paths = append(paths, envPath)
	}
	if envPath := os.Getenv("LIBOBS_SDK_PATH"); envPath != "" {
		paths = append(paths,
			filepath.Join(envPath, libName),
			filepath.Join(envPath, "lib", libName),
		)
	}

	// Next to the executable, as shipped by OBS-based applications
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, libName),
			filepath.Join(exeDir, "..", "lib", libName),
			filepath.Join(exeDir, "..", "Frameworks", libName),
		)
	}

	// Development builds under the module root
	if root := findModuleRoot(); root != "" {
		paths = append(paths,
			filepath.Join(root, "build", libName),
			filepath.Join(root, "build", "libobs", libName),
		)
	}

	// System paths (lowest priority)
	switch runtime.GOOS {
	case "darwin":
		paths = append(paths,
			"/Applications/OBS.app/Contents/Frameworks/"+libName,
			"/Library/Frameworks/"+libName,
			"/usr/local/lib/libobs.dylib",
			"/opt/homebrew/lib/libobs.dylib",
		)
	case "linux":
		paths = append(paths,
			libName,
			"libobs.so",
			"/usr/local/lib/"+libName,
			"/usr/lib/"+libName,
			"/usr/lib/x86_64-linux-gnu/"+libName,
			"/usr/lib/aarch64-linux-gnu/"+libName,
		)
	}
	return paths
}

// findModuleRoot walks up from the working directory to the directory
// containing go.mod.
func findModuleRoot() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// register binds fptr to a libobs symbol, reporting a missing symbol as an
// error instead of panicking.
func register(fptr any, name string) error {
	sym, err := purego.Dlsym(libobsHandle, name)
	if err != nil {
		return fmt.Errorf("libobs symbol %s: %w", name, err)
	}
	purego.RegisterFunc(fptr, sym)
	return nil
}

func loadLibobsSymbols() error {
	symbols := []struct {
		fptr any
		name string
	}{
		{&obsStartup, "obs_startup"},
		{&obsShutdown, "obs_shutdown"},
		{&obsAddModulePath, "obs_add_module_path"},
		{&obsLoadAllModules, "obs_load_all_modules"},
		{&obsPostLoadModules, "obs_post_load_modules"},
		{&obsLogLoadedModules, "obs_log_loaded_modules"},
		{&obsResetAudio, "obs_reset_audio"},
		{&obsResetVideo, "obs_reset_video"},
		{&obsGetVideo, "obs_get_video"},
		{&obsGetAudio, "obs_get_audio"},
		{&obsSetOutputSource, "obs_set_output_source"},
		{&obsGetOutputSource, "obs_get_output_source"},
		{&obsRenderMainTexture, "obs_render_main_texture"},
		{&bnumAllocs, "bnum_allocs"},
		{&baseSetLogHandler, "base_set_log_handler"},
		{&baseSetCrashHandler, "base_set_crash_handler"},
		{&bfree, "bfree"},

		{&obsDataCreate, "obs_data_create"},
		{&obsDataCreateFromJSON, "obs_data_create_from_json"},
		{&obsDataRelease, "obs_data_release"},
		{&obsDataSetString, "obs_data_set_string"},
		{&obsDataSetInt, "obs_data_set_int"},
		{&obsDataSetBool, "obs_data_set_bool"},
		{&obsDataSetDouble, "obs_data_set_double"},
		{&obsDataGetJSON, "obs_data_get_json"},

		{&obsOutputCreate, "obs_output_create"},
		{&obsOutputRelease, "obs_output_release"},
		{&obsOutputStart, "obs_output_start"},
		{&obsOutputStop, "obs_output_stop"},
		{&obsOutputActive, "obs_output_active"},
		{&obsOutputPause, "obs_output_pause"},
		{&obsOutputGetLastError, "obs_output_get_last_error"},
		{&obsOutputUpdate, "obs_output_update"},
		{&obsOutputSetVideoEncoder, "obs_output_set_video_encoder"},
		{&obsOutputSetAudioEncoder, "obs_output_set_audio_encoder"},
		{&obsOutputGetSignalHandler, "obs_output_get_signal_handler"},
		{&obsOutputGetProcHandler, "obs_output_get_proc_handler"},
		{&procHandlerCall, "proc_handler_call"},

		{&signalHandlerConnect, "signal_handler_connect"},
		{&signalHandlerDisconnect, "signal_handler_disconnect"},
		{&calldataGetData, "calldata_get_data"},

		{&obsVideoEncoderCreate, "obs_video_encoder_create"},
		{&obsAudioEncoderCreate, "obs_audio_encoder_create"},
		{&obsEncoderSetVideo, "obs_encoder_set_video"},
		{&obsEncoderSetAudio, "obs_encoder_set_audio"},
		{&obsEncoderRelease, "obs_encoder_release"},

		{&obsSceneCreate, "obs_scene_create"},
		{&obsSceneRelease, "obs_scene_release"},
		{&obsSceneGetSource, "obs_scene_get_source"},
		{&obsSceneAdd, "obs_scene_add"},
		{&obsSourceCreate, "obs_source_create"},
		{&obsSourceRelease, "obs_source_release"},
		{&obsSourceUpdate, "obs_source_update"},

		{&obsDisplayCreate, "obs_display_create"},
		{&obsDisplayDestroy, "obs_display_destroy"},
		{&obsDisplayResize, "obs_display_resize"},
		{&obsDisplayAddDrawCallback, "obs_display_add_draw_callback"},
		{&obsDisplayRemoveDrawCallback, "obs_display_remove_draw_callback"},
	}
	for _, s := range symbols {
		if err := register(s.fptr, s.name); err != nil {
			return err
		}
	}
	return loadPlatformSymbols()
}

func loadLibc() error {
	name := "libc.so.6"
	if runtime.GOOS == "darwin" {
		name = "/usr/lib/libSystem.B.dylib"
	}
	handle, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", name, err)
	}
	libcHandle = handle
	purego.RegisterLibFunc(&libcVsnprintf, libcHandle, "vsnprintf")
	return nil
}

func createTrampolines() {
	signalTrampoline = purego.NewCallback(func(param, cd uintptr) {
		deliverSignal(param, nativeCallData(cd))
	})
	drawTrampoline = purego.NewCallback(func(param, cx, cy uintptr) {
		deliverDraw(param, uint32(cx), uint32(cy))
	})
	logTrampoline = purego.NewCallback(func(level, format, args, param uintptr) {
		deliverLog(param, int(int32(level)), formatNative(format, args))
	})
	crashTrampoline = purego.NewCallback(func(format, args, param uintptr) {
		deliverCrash(param, formatNative(format, args))
	})
}

// formatNative expands a printf format with its va_list.
func formatNative(format, args uintptr) string {
	if format == 0 {
		return ""
	}
	buf := make([]byte, 4096)
	n := libcVsnprintf(uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)), format, args)
	if n < 0 {
		return goStringFromPtr(format)
	}
	if int(n) >= len(buf) {
		n = int32(len(buf) - 1)
	}
	return string(buf[:n])
}

// nativeCallData reads a calldata_t.
type nativeCallData uintptr

func (cd nativeCallData) Int(name string) (int64, bool) {
	cname := NewCString(name)
	v := new(int64)
	ok := calldataGetData(uintptr(cd), cname.Ptr(), uintptr(unsafe.Pointer(v)), unsafe.Sizeof(*v))
	cname.KeepAlive()
	return *v, ok
}

func (cd nativeCallData) Ptr(name string) (uintptr, bool) {
	cname := NewCString(name)
	v := new(uintptr)
	ok := calldataGetData(uintptr(cd), cname.Ptr(), uintptr(unsafe.Pointer(v)), unsafe.Sizeof(*v))
	cname.KeepAlive()
	return *v, ok
}

// libobsEngine implements Engine on the loaded library.
type libobsEngine struct{}

// NewLibobsEngine loads libobs and returns the native Engine.
func NewLibobsEngine() (Engine, error) {
	if err := loadLibobs(); err != nil {
		return nil, err
	}
	return libobsEngine{}, nil
}

// IsLibobsAvailable checks if libobs can be loaded.
func IsLibobsAvailable() bool {
	return loadLibobs() == nil
}

func (libobsEngine) Startup(locale, moduleConfigPath *CString) bool {
	ok := obsStartup(locale.Ptr(), moduleConfigPath.Ptr(), 0)
	runtime.KeepAlive(locale)
	runtime.KeepAlive(moduleConfigPath)
	return ok
}

func (libobsEngine) Shutdown() { obsShutdown() }

func (libobsEngine) AddModulePath(bin, data *CString) {
	obsAddModulePath(bin.Ptr(), data.Ptr())
	runtime.KeepAlive(bin)
	runtime.KeepAlive(data)
}

func (libobsEngine) LoadAllModules()   { obsLoadAllModules() }
func (libobsEngine) PostLoadModules()  { obsPostLoadModules() }
func (libobsEngine) LogLoadedModules() { obsLogLoadedModules() }

func (libobsEngine) ResetAudio(info AudioInfo) bool {
	ai := &obsAudioInfoC{
		SamplesPerSec: info.SamplesPerSec,
		Speakers:      int32(info.Speakers),
	}
	ok := obsResetAudio(uintptr(unsafe.Pointer(ai)))
	runtime.KeepAlive(ai)
	return ok
}

func (libobsEngine) ResetVideo(info VideoInfo) VideoStatus {
	module := NewCString(info.GraphicsModule)
	vi := &obsVideoInfoC{
		GraphicsModule: module.Ptr(),
		FPSNum:         info.FPSNum,
		FPSDen:         info.FPSDen,
		BaseWidth:      info.BaseWidth,
		BaseHeight:     info.BaseHeight,
		OutputWidth:    info.OutputWidth,
		OutputHeight:   info.OutputHeight,
		OutputFormat:   int32(info.OutputFormat),
		Adapter:        info.Adapter,
		GPUConversion:  info.GPUConversion,
		ColorSpace:     int32(info.ColorSpace),
		Range:          int32(info.Range),
		ScaleType:      int32(info.ScaleType),
	}
	status := obsResetVideo(uintptr(unsafe.Pointer(vi)))
	runtime.KeepAlive(vi)
	runtime.KeepAlive(module)
	return VideoStatus(status)
}

func (libobsEngine) Video() VideoHandle { return VideoHandle(obsGetVideo()) }
func (libobsEngine) Audio() AudioHandle { return AudioHandle(obsGetAudio()) }

func (libobsEngine) SetOutputSource(channel uint32, source SourceHandle) {
	obsSetOutputSource(channel, uintptr(source))
}

// OutputSource returns the bound source's address. The engine adds a
// reference for the caller, which is dropped right away.
func (libobsEngine) OutputSource(channel uint32) SourceHandle {
	src := obsGetOutputSource(channel)
	if src != 0 {
		obsSourceRelease(src)
	}
	return SourceHandle(src)
}

func (libobsEngine) NumAllocs() int64   { return bnumAllocs() }
func (libobsEngine) RenderMainTexture() { obsRenderMainTexture() }

func (libobsEngine) SetLogHandler(param uintptr)   { baseSetLogHandler(logTrampoline, param) }
func (libobsEngine) ClearLogHandler()              { baseSetLogHandler(0, 0) }
func (libobsEngine) SetCrashHandler(param uintptr) { baseSetCrashHandler(crashTrampoline, param) }
func (libobsEngine) ClearCrashHandler()            { baseSetCrashHandler(0, 0) }

func (libobsEngine) DataCreate() DataHandle { return DataHandle(obsDataCreate()) }

func (libobsEngine) DataCreateFromJSON(json *CString) DataHandle {
	h := obsDataCreateFromJSON(json.Ptr())
	runtime.KeepAlive(json)
	return DataHandle(h)
}

func (libobsEngine) DataRelease(data DataHandle) { obsDataRelease(uintptr(data)) }

func (libobsEngine) DataSetString(data DataHandle, key, value *CString) {
	obsDataSetString(uintptr(data), key.Ptr(), value.Ptr())
	runtime.KeepAlive(key)
	runtime.KeepAlive(value)
}

func (libobsEngine) DataSetInt(data DataHandle, key *CString, value int64) {
	obsDataSetInt(uintptr(data), key.Ptr(), value)
	runtime.KeepAlive(key)
}

func (libobsEngine) DataSetBool(data DataHandle, key *CString, value bool) {
	obsDataSetBool(uintptr(data), key.Ptr(), value)
	runtime.KeepAlive(key)
}

func (libobsEngine) DataSetDouble(data DataHandle, key *CString, value float64) {
	obsDataSetDouble(uintptr(data), key.Ptr(), value)
	runtime.KeepAlive(key)
}

func (libobsEngine) DataJSON(data DataHandle) string {
	return goStringFromPtr(obsDataGetJSON(uintptr(data)))
}

func (libobsEngine) OutputCreate(id, name *CString, settings, hotkeys DataHandle) OutputHandle {
	h := obsOutputCreate(id.Ptr(), name.Ptr(), uintptr(settings), uintptr(hotkeys))
	runtime.KeepAlive(id)
	runtime.KeepAlive(name)
	return OutputHandle(h)
}

func (libobsEngine) OutputRelease(output OutputHandle)     { obsOutputRelease(uintptr(output)) }
func (libobsEngine) OutputStart(output OutputHandle) bool  { return obsOutputStart(uintptr(output)) }
func (libobsEngine) OutputStop(output OutputHandle)        { obsOutputStop(uintptr(output)) }
func (libobsEngine) OutputActive(output OutputHandle) bool { return obsOutputActive(uintptr(output)) }

func (libobsEngine) OutputPause(output OutputHandle, pause bool) bool {
	return obsOutputPause(uintptr(output), pause)
}

func (libobsEngine) OutputLastError(output OutputHandle) string {
	return goStringFromPtr(obsOutputGetLastError(uintptr(output)))
}

func (libobsEngine) OutputUpdate(output OutputHandle, settings DataHandle) {
	obsOutputUpdate(uintptr(output), uintptr(settings))
}

func (libobsEngine) OutputSetVideoEncoder(output OutputHandle, encoder EncoderHandle) {
	obsOutputSetVideoEncoder(uintptr(output), uintptr(encoder))
}

func (libobsEngine) OutputSetAudioEncoder(output OutputHandle, encoder EncoderHandle, mixer int) {
	obsOutputSetAudioEncoder(uintptr(output), uintptr(encoder), uintptr(mixer))
}

func (libobsEngine) OutputSignalHandler(output OutputHandle) SignalHandlerHandle {
	return SignalHandlerHandle(obsOutputGetSignalHandler(uintptr(output)))
}

// OutputSaveReplay calls the replay buffer's "save" procedure.
func (libobsEngine) OutputSaveReplay(output OutputHandle) bool {
	ph := obsOutputGetProcHandler(uintptr(output))
	if ph == 0 {
		return false
	}
	name := NewCString("save")
	cd := new(calldataC)
	ok := procHandlerCall(ph, name.Ptr(), uintptr(unsafe.Pointer(cd)))
	runtime.KeepAlive(name)
	if cd.Stack != 0 && !cd.Fixed {
		bfree(cd.Stack)
	}
	return ok
}

func (libobsEngine) SignalConnect(handler SignalHandlerHandle, signal *CString, param uintptr) {
	signalHandlerConnect(uintptr(handler), signal.Ptr(), signalTrampoline, param)
	runtime.KeepAlive(signal)
}

func (libobsEngine) SignalDisconnect(handler SignalHandlerHandle, signal *CString, param uintptr) {
	signalHandlerDisconnect(uintptr(handler), signal.Ptr(), signalTrampoline, param)
	runtime.KeepAlive(signal)
}

func (libobsEngine) VideoEncoderCreate(id, name *CString, settings, hotkeys DataHandle) EncoderHandle {
	h := obsVideoEncoderCreate(id.Ptr(), name.Ptr(), uintptr(settings), uintptr(hotkeys))
	runtime.KeepAlive(id)
	runtime.KeepAlive(name)
	return EncoderHandle(h)
}

func (libobsEngine) AudioEncoderCreate(id, name *CString, settings DataHandle, mixer int, hotkeys DataHandle) EncoderHandle {
	h := obsAudioEncoderCreate(id.Ptr(), name.Ptr(), uintptr(settings), uintptr(mixer), uintptr(hotkeys))
	runtime.KeepAlive(id)
	runtime.KeepAlive(name)
	return EncoderHandle(h)
}

func (libobsEngine) EncoderSetVideo(encoder EncoderHandle, video VideoHandle) {
	obsEncoderSetVideo(uintptr(encoder), uintptr(video))
}

func (libobsEngine) EncoderSetAudio(encoder EncoderHandle, audio AudioHandle) {
	obsEncoderSetAudio(uintptr(encoder), uintptr(audio))
}

func (libobsEngine) EncoderRelease(encoder EncoderHandle) { obsEncoderRelease(uintptr(encoder)) }

func (libobsEngine) SceneCreate(name *CString) SceneHandle {
	h := obsSceneCreate(name.Ptr())
	runtime.KeepAlive(name)
	return SceneHandle(h)
}

func (libobsEngine) SceneRelease(scene SceneHandle) { obsSceneRelease(uintptr(scene)) }

func (libobsEngine) SceneSource(scene SceneHandle) SourceHandle {
	return SourceHandle(obsSceneGetSource(uintptr(scene)))
}

func (libobsEngine) SceneAdd(scene SceneHandle, source SourceHandle) SceneItemHandle {
	return SceneItemHandle(obsSceneAdd(uintptr(scene), uintptr(source)))
}

func (libobsEngine) SourceCreate(id, name *CString, settings, hotkeys DataHandle) SourceHandle {
	h := obsSourceCreate(id.Ptr(), name.Ptr(), uintptr(settings), uintptr(hotkeys))
	runtime.KeepAlive(id)
	runtime.KeepAlive(name)
	return SourceHandle(h)
}

func (libobsEngine) SourceRelease(source SourceHandle) { obsSourceRelease(uintptr(source)) }

func (libobsEngine) SourceUpdate(source SourceHandle, settings DataHandle) {
	obsSourceUpdate(uintptr(source), uintptr(settings))
}

func (libobsEngine) DisplayCreate(init GraphicsInit, background uint32) DisplayHandle {
	data := &gsInitDataC{
		Window:         makeGSWindow(init.Window),
		CX:             init.Width,
		CY:             init.Height,
		NumBackbuffers: init.NumBackbuffers,
		Format:         int32(init.Format),
		ZSFormat:       int32(init.ZStencil),
		Adapter:        init.Adapter,
	}
	h := obsDisplayCreate(uintptr(unsafe.Pointer(data)), background)
	runtime.KeepAlive(data)
	return DisplayHandle(h)
}

func (libobsEngine) DisplayDestroy(display DisplayHandle) { obsDisplayDestroy(uintptr(display)) }

func (libobsEngine) DisplayResize(display DisplayHandle, width, height uint32) {
	obsDisplayResize(uintptr(display), width, height)
}

func (libobsEngine) DisplayAddDrawCallback(display DisplayHandle, param uintptr) {
	obsDisplayAddDrawCallback(uintptr(display), drawTrampoline, param)
}

func (libobsEngine) DisplayRemoveDrawCallback(display DisplayHandle, param uintptr) {
	obsDisplayRemoveDrawCallback(uintptr(display), drawTrampoline, param)
}

var _ Engine = libobsEngine{}
