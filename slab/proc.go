package slab

import (
	"runtime"
	_ "unsafe" // for go:linkname

	"golang.org/x/sys/cpu"
)

// procCache is the cache of one runtime P.
type procCache struct {
	lock  pinLock
	cache cache
	_     cpu.CacheLinePad
}

//go:linkname runtime_procPin runtime.procPin
func runtime_procPin() int

//go:linkname runtime_procUnpin runtime.procUnpin
func runtime_procUnpin()

// pin disables preemption and returns the cache of the current P. Nothing
// that may block or enter the kernel runs between pin and unpin.
func (a *Allocator) pin() *procCache {
	for {
		pid := runtime_procPin()
		if procs := a.procs.Load(); procs != nil && pid < len(*procs) {
			pc := (*procs)[pid]
			pc.lock.lock()
			return pc
		}
		runtime_procUnpin()
		a.growProcs()
	}
}

func (pc *procCache) unpin() {
	pc.lock.unlock()
	runtime_procUnpin()
}

// growProcs makes room for GOMAXPROCS caches. Existing caches keep their
// identity so pages cached in them stay owned.
func (a *Allocator) growProcs() {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := runtime.GOMAXPROCS(0)
	var procs []*procCache
	if old := a.procs.Load(); old != nil {
		if len(*old) >= n {
			return
		}
		procs = append(procs, *old...)
	}
	for len(procs) < n {
		procs = append(procs, new(procCache))
	}
	a.procs.Store(&procs)
}
