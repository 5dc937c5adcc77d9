//go:build !linux && !darwin && !windows

package libobs

// currentThreadID has no portable source here; the engine binding is not
// available on these platforms either, so every caller shares one id.
func currentThreadID() uint64 {
	return 1
}
