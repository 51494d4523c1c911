// Package slab is a small-object allocator for memory that lives outside the
// Go heap.
//
// # Overview
//
// Requests of at most 512 bytes are served from 4096-byte pages. Each page
// holds slots of one size class (multiples of 8 bytes, 64 classes) and an
// embedded header. Larger requests go, unchanged, to a Fallback allocator.
//
// # Caches
//
// Every allocation path runs against a cache holding at most one active page
// per size class. Two kinds of cache share the same code:
//
//   - Processor caches: one per runtime P, used by Allocator methods and the
//     package-level functions. A goroutine touches a processor cache only while
//     pinned to that P, so the cache needs no locking.
//   - Local caches: created with NewLocal and owned by a single goroutine.
//
// The owner of the cache holding a page allocates from it and frees into it
// without atomics. Every other goroutine frees through the page's lock-free
// shared list, which the owner drains before bumping further into the page.
//
// # Usage Example
//
//	a := slab.New()
//	l := slab.Layout{Size: 48, Align: 8}
//
//	ptr := a.Alloc(l)
//	copy(slab.Bytes(ptr, l.Size), payload)
//
//	// Any goroutine may free it, with the same layout.
//	a.Free(ptr, l)
//
// # Page Lifecycle
//
// A page is mapped when a cache has none for a class, stays cached while it
// has free slots, and is released from the cache once exhausted or evicted.
// A released page is unmapped as soon as its last slot is freed.
//
// # Contract
//
// Free and Realloc must receive the layout used to allocate. Memory from this
// package is invisible to the garbage collector: it must not hold the only
// reference to a Go heap object. Mapping failure for a new page panics with an
// error wrapping ErrOutOfMemory; treat it as fatal.
//
// # Related Packages
//
//   - github.com/joshuapare/slabkit/slab/fallback: default large-object allocator
//   - github.com/joshuapare/slabkit/internal/page: page layout and free lists
package slab
