package libobs

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// The engine stores a void* next to each callback it invokes. Go pointers may
// not be kept in native memory, so every param is an id into this table.
var (
	callbackMu     sync.RWMutex
	callbackTable  = make(map[uintptr]any)
	nextCallbackID uintptr = 1
)

// registerCallback stores a target and returns its param id.
func registerCallback(v any) uintptr {
	callbackMu.Lock()
	defer callbackMu.Unlock()
	id := nextCallbackID
	nextCallbackID++
	callbackTable[id] = v
	return id
}

func lookupCallback(id uintptr) any {
	callbackMu.RLock()
	defer callbackMu.RUnlock()
	return callbackTable[id]
}

func unregisterCallback(id uintptr) {
	callbackMu.Lock()
	defer callbackMu.Unlock()
	delete(callbackTable, id)
}

// registeredCallbacks returns the table size. Used to check for leaks.
func registeredCallbacks() int {
	callbackMu.RLock()
	defer callbackMu.RUnlock()
	return len(callbackTable)
}

// signalTarget routes an output's "stop" signal into its dispatcher.
type signalTarget struct {
	output     string
	dispatcher *SignalDispatcher
}

// drawTarget is the render callback context of a Display.
type drawTarget struct {
	engine Engine
}

// logTarget receives native log lines.
type logTarget struct {
	logger logrus.FieldLogger
}

// crashTarget receives the native crash report.
type crashTarget struct {
	logger  logrus.FieldLogger
	onCrash func(message string)
}

// deliverSignal is invoked by the engine for a connected output signal.
// Calldata without a recognizable code is dropped; the waiting caller keeps
// waiting.
func deliverSignal(param uintptr, data CallData) {
	target, ok := lookupCallback(param).(*signalTarget)
	if !ok {
		return
	}
	raw, ok := data.Int("code")
	if !ok {
		return
	}
	code, ok := parseOutcome(raw)
	if !ok {
		return
	}
	target.dispatcher.Send(target.output, code)
}

// deliverDraw is invoked on the engine's graphics thread for each display frame.
func deliverDraw(param uintptr, width, height uint32) {
	target, ok := lookupCallback(param).(*drawTarget)
	if !ok {
		return
	}
	target.engine.RenderMainTexture()
}

// Native log levels (LOG_*).
const (
	nativeLogError   = 100
	nativeLogWarning = 200
	nativeLogInfo    = 300
	nativeLogDebug   = 400
)

// deliverLog forwards one formatted native log line.
func deliverLog(param uintptr, level int, message string) {
	target, ok := lookupCallback(param).(*logTarget)
	if !ok {
		return
	}
	entry := target.logger.WithField("component", "libobs")
	switch {
	case level <= nativeLogError:
		entry.Error(message)
	case level <= nativeLogWarning:
		entry.Warn(message)
	case level <= nativeLogInfo:
		entry.Info(message)
	default:
		entry.Debug(message)
	}
}

// deliverCrash is invoked by the engine's crash handler before it aborts.
func deliverCrash(param uintptr, message string) {
	target, ok := lookupCallback(param).(*crashTarget)
	if !ok {
		return
	}
	target.logger.WithField("component", "libobs").Error("native engine crashed: " + message)
	if target.onCrash != nil {
		target.onCrash(message)
	}
}
