// Command slabstress drives the slab allocator from many goroutines and
// verifies that no allocation is corrupted along the way.
package main

func main() {
	execute()
}
