package libobs

import (
	"fmt"
	"runtime"
)

// MaxChannels is the number of engine output channels (MAX_CHANNELS).
const MaxChannels = 64

// VideoFormat mirrors enum video_format.
type VideoFormat int32

const (
	VideoFormatNone VideoFormat = iota
	VideoFormatI420
	VideoFormatNV12
	VideoFormatYVYU
	VideoFormatYUY2
	VideoFormatUYVY
	VideoFormatRGBA
	VideoFormatBGRA
	VideoFormatBGRX
	VideoFormatY800
	VideoFormatI444
)

func (f VideoFormat) String() string {
	switch f {
	case VideoFormatNone:
		return "none"
	case VideoFormatI420:
		return "I420"
	case VideoFormatNV12:
		return "NV12"
	case VideoFormatYVYU:
		return "YVYU"
	case VideoFormatYUY2:
		return "YUY2"
	case VideoFormatUYVY:
		return "UYVY"
	case VideoFormatRGBA:
		return "RGBA"
	case VideoFormatBGRA:
		return "BGRA"
	case VideoFormatBGRX:
		return "BGRX"
	case VideoFormatY800:
		return "Y800"
	case VideoFormatI444:
		return "I444"
	default:
		return "unknown"
	}
}

// ColorSpace mirrors enum video_colorspace.
type ColorSpace int32

const (
	ColorSpaceDefault ColorSpace = iota
	ColorSpace601
	ColorSpace709
	ColorSpaceSRGB
)

// VideoRange mirrors enum video_range_type.
type VideoRange int32

const (
	VideoRangeDefault VideoRange = iota
	VideoRangePartial
	VideoRangeFull
)

// ScaleType mirrors enum obs_scale_type.
type ScaleType int32

const (
	ScaleDisable ScaleType = iota
	ScalePoint
	ScaleBicubic
	ScaleBilinear
	ScaleLanczos
	ScaleArea
)

// SpeakerLayout mirrors enum speaker_layout.
type SpeakerLayout int32

const (
	SpeakersUnknown SpeakerLayout = iota
	SpeakersMono
	SpeakersStereo
	Speakers2Point1
	Speakers4Point0
	Speakers4Point1
	Speakers5Point1
	_
	Speakers7Point1 SpeakerLayout = 8
)

// VideoInfo configures the engine video pipeline (struct obs_video_info).
type VideoInfo struct {
	GraphicsModule string // "libobs-opengl", "libobs-d3d11"
	FPSNum         uint32
	FPSDen         uint32
	BaseWidth      uint32
	BaseHeight     uint32
	OutputWidth    uint32
	OutputHeight   uint32
	OutputFormat   VideoFormat
	Adapter        uint32
	GPUConversion  bool
	ColorSpace     ColorSpace
	Range          VideoRange
	ScaleType      ScaleType
}

// DefaultVideoInfo returns 1920x1080 at 30 fps, NV12, using the platform's
// graphics module.
func DefaultVideoInfo() VideoInfo {
	return VideoInfo{
		GraphicsModule: DefaultGraphicsModule(),
		FPSNum:         30,
		FPSDen:         1,
		BaseWidth:      1920,
		BaseHeight:     1080,
		OutputWidth:    1920,
		OutputHeight:   1080,
		OutputFormat:   VideoFormatNV12,
		GPUConversion:  true,
		ColorSpace:     ColorSpace709,
		Range:          VideoRangePartial,
		ScaleType:      ScaleBicubic,
	}
}

// DefaultGraphicsModule is the graphics backend libobs ships for this OS.
func DefaultGraphicsModule() string {
	if runtime.GOOS == "windows" {
		return "libobs-d3d11"
	}
	return "libobs-opengl"
}

// AudioInfo configures the engine audio pipeline (struct obs_audio_info).
type AudioInfo struct {
	SamplesPerSec uint32
	Speakers      SpeakerLayout
}

// DefaultAudioInfo returns 44.1 kHz stereo.
func DefaultAudioInfo() AudioInfo {
	return AudioInfo{
		SamplesPerSec: 44100,
		Speakers:      SpeakersStereo,
	}
}

// VideoStatus is the result of a video reset (OBS_VIDEO_*).
type VideoStatus int32

const (
	VideoSuccess         VideoStatus = 0
	VideoNotSupported    VideoStatus = -1
	VideoInvalidParam    VideoStatus = -2
	VideoCurrentlyActive VideoStatus = -3
	VideoModuleNotFound  VideoStatus = -4
	VideoFail            VideoStatus = -5
)

func (s VideoStatus) String() string {
	switch s {
	case VideoSuccess:
		return "success"
	case VideoNotSupported:
		return "not supported"
	case VideoInvalidParam:
		return "invalid parameter"
	case VideoCurrentlyActive:
		return "currently active"
	case VideoModuleNotFound:
		return "module not found"
	case VideoFail:
		return "failure"
	default:
		return fmt.Sprintf("status(%d)", int32(s))
	}
}

// OutcomeCode is the code an output reports with its "stop" signal
// (OBS_OUTPUT_*).
type OutcomeCode int32

const (
	OutcomeSuccess       OutcomeCode = 0
	OutcomeBadPath       OutcomeCode = -1
	OutcomeConnectFailed OutcomeCode = -2
	OutcomeInvalidStream OutcomeCode = -3
	OutcomeError         OutcomeCode = -4
	OutcomeDisconnected  OutcomeCode = -5
	OutcomeUnsupported   OutcomeCode = -6
	OutcomeNoSpace       OutcomeCode = -7
	OutcomeEncodeError   OutcomeCode = -8
)

// parseOutcome maps a raw code from calldata. Unknown codes are rejected.
func parseOutcome(code int64) (OutcomeCode, bool) {
	if code > int64(OutcomeSuccess) || code < int64(OutcomeEncodeError) {
		return 0, false
	}
	return OutcomeCode(code), true
}

func (c OutcomeCode) String() string {
	switch c {
	case OutcomeSuccess:
		return "Success"
	case OutcomeBadPath:
		return "BadPath"
	case OutcomeConnectFailed:
		return "ConnectFailed"
	case OutcomeInvalidStream:
		return "InvalidStream"
	case OutcomeError:
		return "Error"
	case OutcomeDisconnected:
		return "Disconnected"
	case OutcomeUnsupported:
		return "Unsupported"
	case OutcomeNoSpace:
		return "NoSpace"
	case OutcomeEncodeError:
		return "EncodeError"
	default:
		return fmt.Sprintf("Outcome(%d)", int32(c))
	}
}

// ColorFormat mirrors enum gs_color_format for display swap chains.
type ColorFormat int32

const (
	ColorFormatUnknown ColorFormat = 0
	ColorFormatRGBA    ColorFormat = 3
	ColorFormatBGRX    ColorFormat = 4
	ColorFormatBGRA    ColorFormat = 5
)

// ZStencilFormat mirrors enum gs_zstencil_format.
type ZStencilFormat int32

const (
	ZStencilNone ZStencilFormat = iota
	ZStencil16
	ZStencil24S8
	ZStencil32F
	ZStencil32FS8X24
)

// GraphicsInit describes the swap chain for a display (struct gs_init_data).
type GraphicsInit struct {
	Window         WindowHandle
	Width          uint32
	Height         uint32
	NumBackbuffers uint32
	Format         ColorFormat
	ZStencil       ZStencilFormat
	Adapter        uint32
}
