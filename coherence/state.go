// Package coherence holds the MOESI protocol vocabulary shared by every
// other package: states, opcodes, cache lines, and bus responses. It has
// no notion of a cache, a bus, or a core — those are built on top of it.
package coherence

import (
	"encoding/json"
	"fmt"
)

// State is one of the five MOESI coherence states of a cache line.
type State int

const (
	// Invalid means the line holds no usable data.
	Invalid State = iota
	// Shared means the line is valid and clean, and other caches may
	// hold the same address.
	Shared
	// Exclusive means the line is valid, clean, and the sole copy.
	Exclusive
	// Owned means the line is valid, dirty, and the sole writer; other
	// caches may still hold the address in Shared.
	Owned
	// Modified means the line is valid, dirty, and the sole copy.
	Modified
)

// String renders the single-letter form used throughout the trace.
func (s State) String() string {
	switch s {
	case Modified:
		return "M"
	case Owned:
		return "O"
	case Exclusive:
		return "E"
	case Shared:
		return "S"
	case Invalid:
		return "I"
	default:
		return "?"
	}
}

// MarshalJSON renders the state as its single-letter string form.
func (s State) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON parses the single-letter form written by MarshalJSON.
func (s *State) UnmarshalJSON(data []byte) error {
	var letter string
	if err := json.Unmarshal(data, &letter); err != nil {
		return err
	}
	for _, st := range []State{Modified, Owned, Exclusive, Shared, Invalid} {
		if st.String() == letter {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("coherence: unknown state %q", letter)
}

// Valid reports whether the state represents usable data.
func (s State) Valid() bool {
	return s != Invalid
}

// Dirty reports whether the line may differ from memory.
func (s State) Dirty() bool {
	return s == Modified || s == Owned
}

// CanSupply reports whether a line in this state can act as a bus
// transaction's data supplier.
func (s State) CanSupply() bool {
	return s == Modified || s == Owned || s == Exclusive || s == Shared
}
