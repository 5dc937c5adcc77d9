package libobs

import (
	"runtime"
	"strings"
	"unsafe"
)

// CString is a null-terminated copy of a Go string for the native API.
//
// Embedded NUL bytes are removed rather than rejected because the engine has
// no way to represent them. The pointer returned by Ptr stays valid for as long
// as the CString is reachable, so owners keep the CString next to whatever the
// engine may still read it from.
type CString struct {
	buf []byte
}

// NewCString copies s into a null-terminated buffer, dropping any NUL bytes.
func NewCString(s string) *CString {
	if strings.IndexByte(s, 0) >= 0 {
		s = strings.ReplaceAll(s, "\x00", "")
	}
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return &CString{buf: buf}
}

// Ptr returns the address of the first byte. Callers must keep c alive
// (runtime.KeepAlive or by retaining it) until the native call returns.
func (c *CString) Ptr() uintptr {
	if c == nil {
		return 0
	}
	return uintptr(unsafe.Pointer(&c.buf[0]))
}

// Bytes returns the buffer including the terminator.
func (c *CString) Bytes() []byte {
	if c == nil {
		return nil
	}
	return c.buf
}

// String returns the sanitized text without the terminator.
func (c *CString) String() string {
	if c == nil {
		return ""
	}
	return string(c.buf[:len(c.buf)-1])
}

// Len is the length in bytes without the terminator.
func (c *CString) Len() int {
	if c == nil {
		return 0
	}
	return len(c.buf) - 1
}

// KeepAlive marks c as reachable up to this point.
func (c *CString) KeepAlive() {
	runtime.KeepAlive(c)
}

// maxNativeStringLen bounds scans of engine-owned strings.
const maxNativeStringLen = 64 << 10

// goStringFromPtr copies a NUL-terminated engine string into Go memory.
// Invalid UTF-8 is kept byte for byte; callers that display it get Go's usual
// replacement on print.
func goStringFromPtr(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	p := unsafe.Pointer(ptr)
	var length int
	for length < maxNativeStringLen {
		if *(*byte)(unsafe.Add(p, length)) == 0 {
			break
		}
		length++
	}
	if length == 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(p), length))
}
