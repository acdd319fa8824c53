// Package bus implements the broadcast snooping bus: the single shared
// medium that serializes coherence transactions across every core and
// resolves, for each one, who supplies the data and what every
// participant's next state is.
//
// This is grounded on the teacher's home-node broadcast/snoop-collect
// loop (hn.go) and its per-address directory bookkeeping
// (capabilities/directory.go), and literally on the original
// Bus::broadcastBusOperation in original_source/moesi.cpp.
package bus

import (
	"fmt"

	"github.com/rs/xid"

	"github.com/example/moesi-sim/cache"
	"github.com/example/moesi-sim/coherence"
	"github.com/example/moesi-sim/logging"
	"github.com/example/moesi-sim/memory"
	"github.com/example/moesi-sim/trace"
)

// Snooper is the bus's view of a core: enough to find and mutate its
// cache line for a given address, without the bus package depending on
// the core package (core depends on bus, not the other way around).
type Snooper interface {
	CoreID() int
	Cache() *cache.Cache
}

// Bus is the shared broadcast medium. It owns no cores; they are
// attached after construction so that core and bus can be built
// independently and wired together by the system package.
type Bus struct {
	memory   *memory.Memory
	snoopers []Snooper
	tracer   *trace.Broker
}

// New constructs a Bus over the given memory, emitting trace events
// through tracer (which may be nil to disable tracing).
func New(mem *memory.Memory, tracer *trace.Broker) *Bus {
	return &Bus{memory: mem, tracer: tracer}
}

// Attach registers a core as a snooper. Cores must be attached in
// ascending CoreID order; the bus relies on this for the deterministic,
// ascending-core-id snoop iteration order spec.md §4.5 requires.
func (b *Bus) Attach(s Snooper) {
	b.snoopers = append(b.snoopers, s)
}

func (b *Bus) emit(e trace.Event) {
	if b.tracer != nil {
		b.tracer.Emit(e)
	}
}

func (b *Bus) snooperByID(id int) Snooper {
	for _, s := range b.snoopers {
		if s.CoreID() == id {
			return s
		}
	}
	return nil
}

// Broadcast issues a bus transaction on behalf of initiatorID and
// returns the response every requester-side caller needs: the data
// word, its source, and the state the requester must adopt.
func (b *Bus) Broadcast(op coherence.BusOp, address int, initiatorID int) coherence.Response {
	if op == coherence.BusWB {
		return b.writeBack(address, initiatorID)
	}

	txn := xid.New().String()

	resp := coherence.Response{
		Data:           b.memory.Read(address),
		DataFromMemory: true,
		SupplierCore:   coherence.NoSupplier,
		PresentState:   coherence.Invalid,
	}

	var sawModified, sawOwned, sawExclusive, sawShared bool

	for _, s := range b.snoopers {
		if s.CoreID() == initiatorID {
			continue
		}
		idx, hit := s.Cache().Lookup(address)
		if !hit {
			continue
		}
		line := s.Cache().LineAt(idx)

		outcome, ok := coherence.Snoop(op, line.State)
		if !ok {
			continue
		}
		if op == coherence.BusUpgr && line.State == coherence.Modified {
			logging.Default().Errorw("bus: invariant violated", logging.Fields{
				"core_id": s.CoreID(), "address": address, "bus_op": op,
			})
			panic(fmt.Sprintf("bus: BusUpgr observed a Modified snooper (core %d, addr 0x%x) — violates I-1", s.CoreID(), address))
		}

		b.emit(trace.Event{
			Kind: trace.KindSnoopHit, CoreID: s.CoreID(), Address: address,
			PresentState: line.State, TransactionID: txn,
		})

		if outcome.Supplies {
			b.applySupplier(op, &resp, line, s.CoreID(), &sawModified, &sawOwned, &sawExclusive, &sawShared)
		} else if line.State == coherence.Shared {
			sawShared = true
		}

		if outcome.NextState != line.State {
			b.emit(trace.Event{
				Kind: trace.KindSnoopTransition, CoreID: s.CoreID(), Address: address,
				PresentState: line.State, NextState: outcome.NextState, TransactionID: txn,
			})
		}
		s.Cache().SetLineAt(idx, coherence.Line{Tag: line.Tag, Value: line.Value, State: outcome.NextState})
	}

	b.finalizeRequesterState(op, &resp, sawModified, sawOwned, sawExclusive, sawShared)
	return resp
}

// applySupplier updates resp to reflect a snooper in the given state
// supplying data, honoring the M > O > E > S > memory priority: a
// higher-priority supplier already seen is never overwritten by a
// lower-priority one.
//
// The Exclusive case's "memory-equivalent" framing (DataFromMemory:
// true, SupplierCore: NoSupplier) is scoped to op == BusRd only, per
// spec.md §9's open question: E is clean, so for a plain read it is
// internally consistent to report the source as memory-equivalent. A
// BusRdX snooping an Exclusive line has no such ambiguity — the
// original's Bus::broadcastBusOperation reports
// data_from_memory=false, core_id=i for that case — so it reports the
// snooping core as the supplier like Modified/Owned do.
func (b *Bus) applySupplier(
	op coherence.BusOp, resp *coherence.Response, line coherence.Line, coreID int,
	sawModified, sawOwned, sawExclusive, sawShared *bool,
) {
	switch line.State {
	case coherence.Modified:
		*sawModified = true
		resp.Data = line.Value
		resp.DataFromMemory = false
		resp.SupplierCore = coreID
		resp.PresentState = coherence.Modified
	case coherence.Owned:
		*sawOwned = true
		if !*sawModified {
			resp.Data = line.Value
			resp.DataFromMemory = false
			resp.SupplierCore = coreID
			resp.PresentState = coherence.Owned
		}
	case coherence.Exclusive:
		*sawExclusive = true
		if !*sawModified && !*sawOwned {
			resp.Data = line.Value
			resp.PresentState = coherence.Exclusive
			if op == coherence.BusRd {
				resp.DataFromMemory = true
				resp.SupplierCore = coherence.NoSupplier
			} else {
				resp.DataFromMemory = false
				resp.SupplierCore = coreID
			}
		}
	case coherence.Shared:
		*sawShared = true
		if !*sawModified && !*sawOwned && !*sawExclusive {
			resp.Data = line.Value
			resp.DataFromMemory = true
			resp.SupplierCore = coherence.NoSupplier
			resp.PresentState = coherence.Shared
		}
	}
}

func (b *Bus) finalizeRequesterState(
	op coherence.BusOp, resp *coherence.Response,
	sawModified, sawOwned, sawExclusive, sawShared bool,
) {
	switch op {
	case coherence.BusRd:
		if !sawModified && !sawOwned && !sawExclusive && !sawShared {
			resp.RequesterNewState = coherence.Exclusive
		} else {
			resp.RequesterNewState = coherence.Shared
		}
	case coherence.BusRdX:
		resp.RequesterNewState = coherence.Modified
	case coherence.BusUpgr:
		resp.RequesterNewState = coherence.Modified
		resp.DataFromMemory = false
		resp.SupplierCore = coherence.NoSupplier
		resp.Data = 0
	}
}

// writeBack implements BusWB: the initiator flushes its own dirty line
// for address to memory. There is no snoop phase and no response
// payload; the bus looks the value up from the initiator's own cache
// rather than requiring the caller to pass it, mirroring the original
// Bus::broadcastBusOperation's direct access to processors[initiator_id].
func (b *Bus) writeBack(address int, initiatorID int) coherence.Response {
	initiator := b.snooperByID(initiatorID)
	if initiator == nil {
		panic(fmt.Sprintf("bus: unknown initiator core %d", initiatorID))
	}
	idx, _ := initiator.Cache().Lookup(address)
	line := initiator.Cache().LineAt(idx)

	b.memory.Write(address, line.Value)
	b.emit(trace.Event{
		Kind: trace.KindWriteBack, CoreID: initiatorID, Address: address, Value: line.Value,
	})
	return coherence.Response{}
}
