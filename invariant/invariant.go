// Package invariant checks a system snapshot against the protocol's
// testable properties P-1..P-6 (spec.md §8). It is new code — the
// teacher has no coherence invariants to transcribe — but follows the
// teacher's verify-and-report shape from backpressure_verify.go:
// compute the condition, return every violation found rather than
// stopping at the first.
package invariant

import (
	"fmt"

	"github.com/example/moesi-sim/coherence"
	"github.com/example/moesi-sim/system"
)

// Violation describes one broken property.
type Violation struct {
	Property string
	Detail   string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Property, v.Detail)
}

// lineAt pairs a snapshot line with the core it belongs to, for
// grouping by address below.
type lineAt struct {
	coreID int
	line   coherence.Line
}

// Check runs P-1 through P-6 against snap and returns every violation
// found. An empty result means the snapshot is consistent. wordSize is
// the shared word size in bytes; linesPerCache the per-cache line
// count; words the number of addressable memory words.
func Check(snap system.Snapshot, linesPerCache, wordSize, words int) []Violation {
	var violations []Violation

	byAddress := make(map[int][]lineAt)
	for _, cs := range snap.Cores {
		for _, line := range cs.Lines {
			if !line.State.Valid() {
				continue
			}
			byAddress[line.Tag] = append(byAddress[line.Tag], lineAt{coreID: cs.CoreID, line: line})
		}
	}

	for addr, owners := range byAddress {
		violations = append(violations, checkSingleWriter(addr, owners, coherence.Modified, "P-1")...)
		violations = append(violations, checkSingleWriter(addr, owners, coherence.Exclusive, "P-2")...)
		violations = append(violations, checkAtMostOne(addr, owners, coherence.Owned, "P-3")...)
		violations = append(violations, checkMemoryAgreement(addr, owners, snap.Memory, wordSize)...)
	}

	for _, cs := range snap.Cores {
		for idx, line := range cs.Lines {
			if !line.State.Valid() {
				continue
			}
			if wantIdx := (line.Tag / wordSize) % linesPerCache; wantIdx != idx {
				violations = append(violations, Violation{
					Property: "P-5",
					Detail:   fmt.Sprintf("core %d: tag 0x%x maps to index %d, found at %d", cs.CoreID, line.Tag, wantIdx, idx),
				})
			}
			if line.Tag < 0 || line.Tag%wordSize != 0 || line.Tag/wordSize >= words {
				violations = append(violations, Violation{
					Property: "P-6",
					Detail:   fmt.Sprintf("core %d: tag 0x%x is misaligned or out of range", cs.CoreID, line.Tag),
				})
			}
		}
	}

	return violations
}

// checkSingleWriter enforces P-1/P-2: at most one cache in state st for
// addr, and if present, no other cache holds addr valid at all.
func checkSingleWriter(addr int, owners []lineAt, st coherence.State, property string) []Violation {
	var holders []lineAt
	for _, o := range owners {
		if o.line.State == st {
			holders = append(holders, o)
		}
	}
	if len(holders) == 0 {
		return nil
	}
	var violations []Violation
	if len(holders) > 1 {
		violations = append(violations, Violation{
			Property: property,
			Detail:   fmt.Sprintf("addr 0x%x: %d caches in %v simultaneously", addr, len(holders), st),
		})
	}
	if len(owners) > len(holders) {
		violations = append(violations, Violation{
			Property: property,
			Detail:   fmt.Sprintf("addr 0x%x: %v holder coexists with %d other valid copies", addr, st, len(owners)-len(holders)),
		})
	}
	return violations
}

// checkAtMostOne enforces P-3: at most one cache in state st for addr.
func checkAtMostOne(addr int, owners []lineAt, st coherence.State, property string) []Violation {
	count := 0
	for _, o := range owners {
		if o.line.State == st {
			count++
		}
	}
	if count > 1 {
		return []Violation{{
			Property: property,
			Detail:   fmt.Sprintf("addr 0x%x: %d caches in %v simultaneously", addr, count, st),
		}}
	}
	return nil
}

// checkMemoryAgreement enforces P-4: if no cache holds addr dirty,
// every valid copy must equal memory[addr].
func checkMemoryAgreement(addr int, owners []lineAt, mem []int, wordSize int) []Violation {
	for _, o := range owners {
		if o.line.State.Dirty() {
			return nil
		}
	}
	idx := addr / wordSize
	if idx < 0 || idx >= len(mem) {
		return nil
	}
	var violations []Violation
	for _, o := range owners {
		if o.line.Value != mem[idx] {
			violations = append(violations, Violation{
				Property: "P-4",
				Detail:   fmt.Sprintf("addr 0x%x: core %d clean copy 0x%x disagrees with memory 0x%x", addr, o.coreID, o.line.Value, mem[idx]),
			})
		}
	}
	return violations
}
