// Package memory implements the flat, word-addressed store shared by
// every core. It carries no coherence logic. Apart from scenario setup
// (system.PresetMemory), only the bus package writes to it (via
// write-back); the bus reads from it when a response must come from
// memory rather than from a snooped cache line.
package memory

import "fmt"

// Memory is a flat array of W words, addressed in bytes but only ever
// accessed at word-aligned offsets.
type Memory struct {
	words    []int
	wordSize int
}

// New constructs a Memory of the given word count and word size in
// bytes. wordSize defaults to 4 if zero or negative.
func New(words int, wordSize int) *Memory {
	if wordSize <= 0 {
		wordSize = 4
	}
	return &Memory{
		words:    make([]int, words),
		wordSize: wordSize,
	}
}

// WordSize returns the configured word size in bytes.
func (m *Memory) WordSize() int {
	return m.wordSize
}

// Words returns the number of addressable words.
func (m *Memory) Words() int {
	return len(m.words)
}

func (m *Memory) index(addr int) int {
	if addr < 0 || addr%m.wordSize != 0 {
		panic(fmt.Sprintf("memory: misaligned address 0x%x (word size %d)", addr, m.wordSize))
	}
	idx := addr / m.wordSize
	if idx >= len(m.words) {
		panic(fmt.Sprintf("memory: address 0x%x out of bounds (%d words)", addr, len(m.words)))
	}
	return idx
}

// Read returns the word stored at addr.
func (m *Memory) Read(addr int) int {
	return m.words[m.index(addr)]
}

// Write stores v at addr.
func (m *Memory) Write(addr int, v int) {
	m.words[m.index(addr)] = v
}

// Snapshot returns a copy of every word, for inspection/tracing only.
func (m *Memory) Snapshot() []int {
	out := make([]int, len(m.words))
	copy(out, m.words)
	return out
}
