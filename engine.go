package libobs

// CallData is the read side of a native calldata_t handed to a signal callback.
type CallData interface {
	// Int looks up an integer parameter by name.
	Int(name string) (int64, bool)
	// Ptr looks up a pointer parameter by name.
	Ptr(name string) (uintptr, bool)
}

// Engine is the native libobs C API used by this package.
//
// Every create call may return a null handle; every successful create must be
// matched by exactly one release, which the wrapper types guarantee. String
// arguments are CStrings owned by the caller, who keeps them alive at least
// for the duration of the call.
//
// Callbacks are registered by param: the engine stores the param next to its
// fixed trampoline and hands it back when the event fires. Implementations
// deliver events through deliverSignal, deliverDraw, deliverLog and
// deliverCrash.
type Engine interface {
	// Lifecycle
	Startup(locale, moduleConfigPath *CString) bool
	Shutdown()
	AddModulePath(bin, data *CString)
	LoadAllModules()
	PostLoadModules()
	LogLoadedModules()
	ResetAudio(info AudioInfo) bool
	ResetVideo(info VideoInfo) VideoStatus
	Video() VideoHandle
	Audio() AudioHandle
	SetOutputSource(channel uint32, source SourceHandle)
	OutputSource(channel uint32) SourceHandle
	NumAllocs() int64
	RenderMainTexture()

	// Process-wide handlers; Clear* restores the engine default.
	SetLogHandler(param uintptr)
	ClearLogHandler()
	SetCrashHandler(param uintptr)
	ClearCrashHandler()

	// Data containers
	DataCreate() DataHandle
	DataCreateFromJSON(json *CString) DataHandle
	DataRelease(data DataHandle)
	DataSetString(data DataHandle, key, value *CString)
	DataSetInt(data DataHandle, key *CString, value int64)
	DataSetBool(data DataHandle, key *CString, value bool)
	DataSetDouble(data DataHandle, key *CString, value float64)
	DataJSON(data DataHandle) string

	// Outputs
	OutputCreate(id, name *CString, settings, hotkeys DataHandle) OutputHandle
	OutputRelease(output OutputHandle)
	OutputStart(output OutputHandle) bool
	OutputStop(output OutputHandle)
	OutputActive(output OutputHandle) bool
	OutputPause(output OutputHandle, pause bool) bool
	OutputLastError(output OutputHandle) string
	OutputUpdate(output OutputHandle, settings DataHandle)
	OutputSetVideoEncoder(output OutputHandle, encoder EncoderHandle)
	OutputSetAudioEncoder(output OutputHandle, encoder EncoderHandle, mixer int)
	OutputSignalHandler(output OutputHandle) SignalHandlerHandle
	OutputSaveReplay(output OutputHandle) bool

	// Signals
	SignalConnect(handler SignalHandlerHandle, signal *CString, param uintptr)
	SignalDisconnect(handler SignalHandlerHandle, signal *CString, param uintptr)

	// Encoders
	VideoEncoderCreate(id, name *CString, settings, hotkeys DataHandle) EncoderHandle
	AudioEncoderCreate(id, name *CString, settings DataHandle, mixer int, hotkeys DataHandle) EncoderHandle
	EncoderSetVideo(encoder EncoderHandle, video VideoHandle)
	EncoderSetAudio(encoder EncoderHandle, audio AudioHandle)
	EncoderRelease(encoder EncoderHandle)

	// Scenes and sources
	SceneCreate(name *CString) SceneHandle
	SceneRelease(scene SceneHandle)
	SceneSource(scene SceneHandle) SourceHandle
	SceneAdd(scene SceneHandle, source SourceHandle) SceneItemHandle
	SourceCreate(id, name *CString, settings, hotkeys DataHandle) SourceHandle
	SourceRelease(source SourceHandle)
	SourceUpdate(source SourceHandle, settings DataHandle)

	// Displays
	DisplayCreate(init GraphicsInit, background uint32) DisplayHandle
	DisplayDestroy(display DisplayHandle)
	DisplayResize(display DisplayHandle, width, height uint32)
	DisplayAddDrawCallback(display DisplayHandle, param uintptr)
	DisplayRemoveDrawCallback(display DisplayHandle, param uintptr)
}
