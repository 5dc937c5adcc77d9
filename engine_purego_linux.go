//go:build linux

package libobs

import "github.com/ebitengine/purego"

var obsGetNixPlatformDisplay func() uintptr

// gsWindowC matches struct gs_window on X11/Wayland builds.
type gsWindowC struct {
	ID      uint32
	Display uintptr
}

func loadPlatformSymbols() error {
	sym, err := purego.Dlsym(libobsHandle, "obs_get_nix_platform_display")
	if err != nil {
		// Builds older than the nix platform API take the display from the
		// window system directly.
		return nil
	}
	purego.RegisterFunc(&obsGetNixPlatformDisplay, sym)
	return nil
}

func makeGSWindow(w WindowHandle) gsWindowC {
	win := gsWindowC{ID: uint32(w)}
	if obsGetNixPlatformDisplay != nil {
		win.Display = obsGetNixPlatformDisplay()
	}
	return win
}
