package libobs

// Native handle types. Each is the raw address of an engine-owned object and is
// only ever passed back into the Engine; wrapper code never dereferences one.
//
// Handles are plain integers so they can cross goroutine and thread boundaries.
// That is sound only because every engine-touching call is made from the thread
// that owns the Context (see Context and threadOwner). The signal dispatcher and
// the preview window thread are the two places that receive handles on other
// threads, and they only compare or forward them.
type (
	DataHandle          uintptr // obs_data_t*
	OutputHandle        uintptr // obs_output_t*
	DisplayHandle       uintptr // obs_display_t*
	SceneHandle         uintptr // obs_scene_t*
	SceneItemHandle     uintptr // obs_sceneitem_t*
	SourceHandle        uintptr // obs_source_t*
	EncoderHandle       uintptr // obs_encoder_t*
	VideoHandle         uintptr // video_t*
	AudioHandle         uintptr // audio_t*
	SignalHandlerHandle uintptr // signal_handler_t*
	WindowHandle        uintptr // platform window (HWND, NSView*, X11 window id)
	VoidHandle          uintptr // void*
)

// IsNull reports whether the engine returned a null pointer.
func (h DataHandle) IsNull() bool    { return h == 0 }
func (h OutputHandle) IsNull() bool  { return h == 0 }
func (h DisplayHandle) IsNull() bool { return h == 0 }
func (h SceneHandle) IsNull() bool   { return h == 0 }
func (h SourceHandle) IsNull() bool  { return h == 0 }
func (h EncoderHandle) IsNull() bool { return h == 0 }
func (h VideoHandle) IsNull() bool   { return h == 0 }
func (h AudioHandle) IsNull() bool   { return h == 0 }
func (h WindowHandle) IsNull() bool  { return h == 0 }
