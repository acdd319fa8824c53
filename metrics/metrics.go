// Package metrics accumulates counters over the lifetime of a
// simulation run: bus transactions by op, cache hits/misses per core,
// and who supplied data on each transaction. It is grounded on the
// teacher's metricsCollector (metrics.go) and PrintStats (stats.go),
// adapted from a cycle/backpressure NoC counter to a coherence-event
// counter and from a background ticker to an explicit trace.Sink.
package metrics

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/example/moesi-sim/coherence"
	"github.com/example/moesi-sim/trace"
)

// Collector accumulates counts as trace.Events arrive. It implements
// trace.Sink so it can be registered on a trace.Broker alongside the
// text and websocket sinks.
type Collector struct {
	mu sync.Mutex

	busOps      map[coherence.BusOp]int
	hits        map[int]int
	misses      map[int]int
	suppliers   map[string]int // "memory" or "core-N"
	evictions   int
	writeBacks  int
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{
		busOps:    make(map[coherence.BusOp]int),
		hits:      make(map[int]int),
		misses:    make(map[int]int),
		suppliers: make(map[string]int),
	}
}

// Handle implements trace.Sink.
func (c *Collector) Handle(e trace.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch e.Kind {
	case trace.KindCacheAccess:
		if e.Hit {
			c.hits[e.CoreID]++
		} else {
			c.misses[e.CoreID]++
		}
	case trace.KindEviction:
		c.evictions++
	case trace.KindWriteBack:
		c.writeBacks++
	case trace.KindBusRequest:
		c.busOps[e.BusOp]++
	case trace.KindBusResponse:
		if e.DataFromMemory {
			c.suppliers["memory"]++
		} else {
			c.suppliers[fmt.Sprintf("core-%d", e.SupplierCore)]++
		}
	}
}

// Snapshot is a point-in-time, immutable copy of the accumulated
// counters, safe to hand to callers (e.g. the web API's JSON encoder)
// without holding the Collector's lock.
type Snapshot struct {
	BusOps     map[string]int `json:"bus_ops"`
	Hits       map[int]int    `json:"hits_by_core"`
	Misses     map[int]int    `json:"misses_by_core"`
	Suppliers  map[string]int `json:"suppliers"`
	Evictions  int            `json:"evictions"`
	WriteBacks int            `json:"write_backs"`
}

// Snapshot returns a copy of the current counters.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	busOps := make(map[string]int, len(c.busOps))
	for op, n := range c.busOps {
		busOps[op.String()] = n
	}
	hits := make(map[int]int, len(c.hits))
	for k, v := range c.hits {
		hits[k] = v
	}
	misses := make(map[int]int, len(c.misses))
	for k, v := range c.misses {
		misses[k] = v
	}
	suppliers := make(map[string]int, len(c.suppliers))
	for k, v := range c.suppliers {
		suppliers[k] = v
	}
	return Snapshot{
		BusOps: busOps, Hits: hits, Misses: misses, Suppliers: suppliers,
		Evictions: c.evictions, WriteBacks: c.writeBacks,
	}
}

// Print writes a human-readable summary to w, mirroring the teacher's
// PrintStats layout (section headers, one line per entity).
func Print(w io.Writer, snap Snapshot) {
	fmt.Fprintln(w, "=== Bus Transactions ===")
	for _, op := range sortedKeys(snap.BusOps) {
		fmt.Fprintf(w, "%s: %d\n", op, snap.BusOps[op])
	}
	fmt.Fprintf(w, "Evictions: %d\n", snap.Evictions)
	fmt.Fprintf(w, "Write-backs: %d\n", snap.WriteBacks)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Per-Core Hit/Miss ===")
	for _, id := range sortedIntKeys(union(snap.Hits, snap.Misses)) {
		hits, misses := snap.Hits[id], snap.Misses[id]
		total := hits + misses
		rate := 0.0
		if total > 0 {
			rate = 100 * float64(hits) / float64(total)
		}
		fmt.Fprintf(w, "Core %d: hits=%d misses=%d hit-rate=%.1f%%\n", id, hits, misses, rate)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Data Suppliers ===")
	for _, src := range sortedKeys(snap.Suppliers) {
		fmt.Fprintf(w, "%s: %d\n", src, snap.Suppliers[src])
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func union(a, b map[int]int) map[int]struct{} {
	out := make(map[int]struct{}, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}

func sortedIntKeys(m map[int]struct{}) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
