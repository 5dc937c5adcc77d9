//go:build darwin

package libobs

// gsWindowC matches struct gs_window on macOS: the NSView to render into.
type gsWindowC struct {
	View uintptr
}

func loadPlatformSymbols() error { return nil }

func makeGSWindow(w WindowHandle) gsWindowC {
	return gsWindowC{View: uintptr(w)}
}
