package slab_test

import (
	"fmt"

	"github.com/joshuapare/slabkit/slab"
)

func ExampleAllocator() {
	a := slab.New()
	l := slab.Layout{Size: 5, Align: 1}

	p := a.Alloc(l)
	copy(slab.Bytes(p, l.Size), "hello")
	p = a.Realloc(p, l, 600)
	fmt.Println(string(slab.Bytes(p, l.Size)))
	a.Free(p, slab.Layout{Size: 600, Align: 1})
	// Output: hello
}

func ExampleClasses() {
	for _, c := range slab.Classes()[:3] {
		fmt.Println(c.SlotSize, c.Slots)
	}
	// Output:
	// 8 508
	// 16 254
	// 24 169
}
