//go:build !darwin && !linux

package libobs

// NewLibobsEngine reports that no native binding exists for this platform.
// Supply StartupInfo.Engine to run on it.
func NewLibobsEngine() (Engine, error) {
	return nil, ErrEngineUnavailable
}

// IsLibobsAvailable checks if libobs can be loaded.
func IsLibobsAvailable() bool { return false }
