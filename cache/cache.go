// Package cache implements the fixed-size, direct-mapped per-core L1
// cache. It is a passive container: all coherence decisions live in the
// bus and core packages, which read and mutate lines through the
// accessors here.
package cache

import (
	"fmt"

	"github.com/example/moesi-sim/coherence"
)

// Cache is a direct-mapped array of L cache lines, word-addressed.
type Cache struct {
	lines    []coherence.Line
	wordSize int
}

// New constructs a Cache with lines slots, each initially Invalid.
func New(lines int, wordSize int) *Cache {
	if wordSize <= 0 {
		wordSize = 4
	}
	c := &Cache{
		lines:    make([]coherence.Line, lines),
		wordSize: wordSize,
	}
	for i := range c.lines {
		c.lines[i] = coherence.NewLine()
	}
	return c
}

// Len returns the number of lines in the cache.
func (c *Cache) Len() int {
	return len(c.lines)
}

// Index computes the direct-mapped slot for a byte address:
// (address / wordSize) mod L.
func (c *Cache) Index(addr int) int {
	if addr < 0 || addr%c.wordSize != 0 {
		panic(fmt.Sprintf("cache: misaligned address 0x%x (word size %d)", addr, c.wordSize))
	}
	return (addr / c.wordSize) % len(c.lines)
}

// Lookup returns the index for addr and whether the line there currently
// holds addr (state != Invalid and tag == addr).
func (c *Cache) Lookup(addr int) (index int, hit bool) {
	index = c.Index(addr)
	return index, c.lines[index].Holds(addr)
}

// LineAt returns a copy of the line at index.
func (c *Cache) LineAt(index int) coherence.Line {
	return c.lines[index]
}

// SetLineAt overwrites the line at index.
func (c *Cache) SetLineAt(index int, line coherence.Line) {
	c.lines[index] = line
}

// Snapshot returns a copy of every line, for inspection/tracing only.
func (c *Cache) Snapshot() []coherence.Line {
	out := make([]coherence.Line, len(c.lines))
	copy(out, c.lines)
	return out
}
