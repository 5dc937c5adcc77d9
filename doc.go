// Package libobs owns the lifecycle of a libobs capture/encode engine from Go.
//
// libobs is a process-wide singleton with C reference counting, callbacks
// fired from its own threads, and a strict teardown order. This package
// wraps it in types whose Close methods release native references exactly
// once and in the right order:
//   - Context starts the engine, loads modules and holds the process-wide
//     ownership guard. Only one may exist at a time, and it is bound to the
//     OS thread that created it.
//   - Output, Encoder, Scene, Source and Settings are reference-counted
//     handles. Each keeps the engine alive until it is released, so
//     obs_shutdown runs after the last handle is gone.
//   - SignalDispatcher correlates "stop" signals with the output that waits
//     for them, by output name.
//   - Display renders the main view into a preview surface whose message
//     loop runs on its own locked OS thread.
//
// # Architecture
//
//	Context -> Scene -> Source            (add_and_set binds the scene to a channel)
//	Context -> Output -> Encoder(s)       (Start/Stop, stop outcome via SignalDispatcher)
//	Context -> Display -> PreviewSurface  (draw callback renders the main texture)
//
// Native callbacks never see Go pointers: each callback param is an id into
// a table mapping to the Go receiver.
//
// # Native Library
//
// NewLibobsEngine loads libobs with purego (CGO_ENABLED=0 works). Set
// LIBOBS_LIB_PATH to the library file or LIBOBS_SDK_PATH to the directory
// containing it. Any Engine implementation can be supplied through
// StartupInfo.Engine instead.
//
// # Threading
//
// NewContext locks the calling goroutine to its OS thread until the engine
// shuts down, which can be after Context.Close while other references are
// still held. Creating or closing engine objects from another thread fails
// with ErrWrongThread and leaves the reference open. Output.Stop may be
// called from any goroutine.
package libobs
