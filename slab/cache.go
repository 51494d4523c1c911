package slab

import (
	"github.com/joshuapare/slabkit/internal/page"
	"github.com/joshuapare/slabkit/internal/sizeclass"
)

// cache holds at most one active page per size class. Index 0 is unused.
// A page sitting in a cache is owned by whoever may touch that cache.
type cache struct {
	pages [sizeclass.Count + 1]page.Page
}

// take removes and returns the page for class, or the zero Page.
func (c *cache) take(class int) page.Page {
	pg := c.pages[class]
	c.pages[class] = page.Page{}
	return pg
}

// keep puts pg back after an allocation if it can still serve one, and
// returns the page that leaves the cache: pg itself when exhausted, or a page
// that was cached for class in the meantime. The caller releases it.
func (c *cache) keep(class int, pg page.Page) page.Page {
	if !pg.HasCapacity() {
		return pg
	}
	prev := c.pages[class]
	c.pages[class] = pg
	return prev
}

// owns reports whether pg is the active page for class.
func (c *cache) owns(class int, pg page.Page) bool {
	return class > 0 && c.pages[class] == pg
}
