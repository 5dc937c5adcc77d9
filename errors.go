package libobs

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrEngineStartup      = errors.New("libobs: engine startup failed")
	ErrEngineUnavailable  = errors.New("libobs: native library not available")
	ErrLockPoisoned       = errors.New("libobs: context guard poisoned by an earlier panic")
	ErrAlreadyOwned       = errors.New("libobs: another context already owns the engine")
	ErrWrongThread        = errors.New("libobs: called from a thread that does not own the context")
	ErrVideoReset         = errors.New("libobs: video reset failed")
	ErrVideoBackendChange = errors.New("libobs: video reset cannot change the graphics module")
	ErrAudioReset         = errors.New("libobs: audio reset failed")
	ErrNullHandle         = errors.New("libobs: engine returned a null handle")
	ErrOutputActive       = errors.New("libobs: output already active")
	ErrOutputNotActive    = errors.New("libobs: output not active")
	ErrOutputStart        = errors.New("libobs: output start failed")
	ErrOutputStop         = errors.New("libobs: output stop failed")
	ErrSaveBuffer         = errors.New("libobs: replay buffer save failed")
	ErrDisplayCreate      = errors.New("libobs: display creation failed")
	ErrSignalClosed       = errors.New("libobs: signal dispatcher closed")
	ErrSettingsFrozen     = errors.New("libobs: settings are attached; use an updater")
	ErrInvalidChannel     = errors.New("libobs: output channel out of range")
	ErrDuplicateOutput    = errors.New("libobs: output name already in use")
	ErrClosed             = errors.New("libobs: object already closed")
)

// VideoResetError carries the status the engine returned from a video reset.
type VideoResetError struct {
	Status VideoStatus
}

func (e *VideoResetError) Error() string {
	return fmt.Sprintf("libobs: video reset failed: %s", e.Status)
}

func (e *VideoResetError) Is(target error) bool { return target == ErrVideoReset }

// NullHandleError reports a create call that returned null.
type NullHandleError struct {
	Kind string // "output", "source", ...
	Name string
}

func (e *NullHandleError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("libobs: failed to create %s", e.Kind)
	}
	return fmt.Sprintf("libobs: failed to create %s %q", e.Kind, e.Name)
}

func (e *NullHandleError) Is(target error) bool { return target == ErrNullHandle }

// OutputStartError wraps the engine's last error string for a failed start.
type OutputStartError struct {
	Output  string
	Message string // empty when the engine gave none
}

func (e *OutputStartError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("libobs: output %q failed to start", e.Output)
	}
	return fmt.Sprintf("libobs: output %q failed to start: %s", e.Output, e.Message)
}

func (e *OutputStartError) Is(target error) bool { return target == ErrOutputStart }

// OutputStopError reports a stop signal carrying a non-success code.
type OutputStopError struct {
	Output string
	Code   OutcomeCode
}

func (e *OutputStopError) Error() string {
	return fmt.Sprintf("libobs: output %q stopped with %s", e.Output, e.Code)
}

func (e *OutputStopError) Is(target error) bool { return target == ErrOutputStop }

// SaveBufferError reports a failed replay buffer save.
type SaveBufferError struct {
	Output string
	Reason string
}

func (e *SaveBufferError) Error() string {
	return fmt.Sprintf("libobs: output %q could not save replay buffer: %s", e.Output, e.Reason)
}

func (e *SaveBufferError) Is(target error) bool { return target == ErrSaveBuffer }

// DisplayError wraps a preview surface failure.
type DisplayError struct {
	Err error
}

func (e *DisplayError) Error() string {
	return fmt.Sprintf("libobs: display creation failed: %v", e.Err)
}

func (e *DisplayError) Unwrap() error { return e.Err }

func (e *DisplayError) Is(target error) bool { return target == ErrDisplayCreate }
