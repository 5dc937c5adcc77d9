//go:build darwin

package libobs

import (
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

var (
	pthreadOnce       sync.Once
	pthreadThreadIDNP func(thread uintptr, id uintptr) int32
)

func loadPthread() {
	lib, err := purego.Dlopen("/usr/lib/libSystem.B.dylib", purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		panic("libobs: cannot load libSystem: " + err.Error())
	}
	purego.RegisterLibFunc(&pthreadThreadIDNP, lib, "pthread_threadid_np")
}

// currentThreadID asks for the calling thread's id (thread 0 means "self").
func currentThreadID() uint64 {
	pthreadOnce.Do(loadPthread)
	id := new(uint64)
	pthreadThreadIDNP(0, uintptr(unsafe.Pointer(id)))
	return *id
}
