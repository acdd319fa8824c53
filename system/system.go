// Package system wires together Memory, Bus, and N Cores into a single
// runnable simulator, and exposes the snapshot that metrics, invariant
// checks, and the web API read from. This is grounded on the teacher's
// top-level Simulator composition root (simulator.go), adapted from an
// event-driven NoC simulator to a synchronous, lock-serialized one.
package system

import (
	"sync"

	"github.com/example/moesi-sim/bus"
	"github.com/example/moesi-sim/cache"
	"github.com/example/moesi-sim/coherence"
	"github.com/example/moesi-sim/core"
	"github.com/example/moesi-sim/logging"
	"github.com/example/moesi-sim/memory"
	"github.com/example/moesi-sim/trace"
)

// Config describes the geometry of a System: number of cores, lines
// per cache, words of memory, and the shared word size all three
// layers agree on.
type Config struct {
	Cores     int
	LinesPer  int
	Words     int
	WordSize  int
}

// System owns Memory, the Bus, and every Core, plus the single lock
// that serializes all CPU operations system-wide (spec.md §5).
type System struct {
	lock   sync.Mutex
	memory *memory.Memory
	bus    *bus.Bus
	cores  []*core.Core
	tracer *trace.Broker
}

// New constructs a System with the given geometry. tracer may be nil.
func New(cfg Config, tracer *trace.Broker) *System {
	if cfg.WordSize <= 0 {
		cfg.WordSize = 4
	}
	mem := memory.New(cfg.Words, cfg.WordSize)
	b := bus.New(mem, tracer)

	s := &System{memory: mem, bus: b, tracer: tracer}

	for id := 0; id < cfg.Cores; id++ {
		c := cache.New(cfg.LinesPer, cfg.WordSize)
		cpu := core.New(id, c, b, tracer, &s.lock)
		b.Attach(cpu)
		s.cores = append(s.cores, cpu)
	}

	logging.Default().Infof("system: initialized %d cores, %d lines/cache, %d words", cfg.Cores, cfg.LinesPer, cfg.Words)
	return s
}

// Execute runs one CPU operation on the given core. It is a thin
// forwarding call: Core.Execute itself owns the lock acquisition, per
// spec.md §5's requirement that the lock sit at execute entry rather
// than at a System or Bus boundary.
func (s *System) Execute(coreID int, op coherence.CpuOp, address, value, expected int) (int, coherence.State) {
	return s.cores[coreID].Execute(op, address, value, expected)
}

// NumCores returns the number of cores in the system.
func (s *System) NumCores() int {
	return len(s.cores)
}

// PresetMemory writes value directly to memory, bypassing the cache
// and bus entirely. It exists for scenario setup (seeding memory
// before any core has touched an address) and must not be used once a
// run is underway.
func (s *System) PresetMemory(address, value int) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.memory.Write(address, value)
}

// CoreSnapshot is a read-only view of one core's cache, for
// inspection/tracing only.
type CoreSnapshot struct {
	CoreID int
	Lines  []coherence.Line
}

// Snapshot is a read-only, point-in-time view of the whole system:
// every core's cache contents and the full memory array. It takes the
// system-wide lock so the view is internally consistent.
type Snapshot struct {
	Cores  []CoreSnapshot
	Memory []int
}

// Snapshot captures the current state of every core's cache and of
// memory. It is safe to call concurrently with Execute.
func (s *System) Snapshot() Snapshot {
	s.lock.Lock()
	defer s.lock.Unlock()

	out := Snapshot{Memory: s.memory.Snapshot()}
	for _, c := range s.cores {
		out.Cores = append(out.Cores, CoreSnapshot{CoreID: c.CoreID(), Lines: c.Cache().Snapshot()})
	}
	return out
}
