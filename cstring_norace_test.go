//go:build !race

package libobs

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

// These read Go memory through a uintptr, which checkptr rejects under -race.

func TestGoStringFromPtr(t *testing.T) {
	c := NewCString("recording started")
	assert.Equal(t, "recording started", goStringFromPtr(c.Ptr()))
	c.KeepAlive()

	buf := []byte{0xff, 'o', 'k', 0}
	got := goStringFromPtr(uintptr(unsafe.Pointer(&buf[0])))
	assert.Equal(t, string([]byte{0xff, 'o', 'k'}), got)
}

func TestGoStringFromPtrRoundTrip(t *testing.T) {
	for _, s := range []string{"", "a\x00b", "\x00", "scene", "Szene 1 – Kamera"} {
		c := NewCString(s)
		assert.Equal(t, c.String(), goStringFromPtr(c.Ptr()), "%q", s)
		c.KeepAlive()
	}
}
