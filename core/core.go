// Package core implements the requester side of the protocol: a Core
// owns a private Cache, drives the Bus on a miss or upgrade, handles
// eviction write-backs, and applies the atomic read-modify-write
// primitives. This is grounded on the teacher's request-node shape
// (rn.go) and literally on Processor::cpu_operation /
// handleCacheEviction / performAtomicOperation in
// original_source/moesi.cpp.
package core

import (
	"fmt"
	"sync"

	"github.com/example/moesi-sim/bus"
	"github.com/example/moesi-sim/cache"
	"github.com/example/moesi-sim/coherence"
	"github.com/example/moesi-sim/logging"
	"github.com/example/moesi-sim/trace"
)

// Core is one virtual CPU: an id, a private cache, a handle to the
// shared bus, and a pointer to the system-wide serialization lock it
// acquires for the whole of Execute.
type Core struct {
	id     int
	cache  *cache.Cache
	bus    *bus.Bus
	tracer *trace.Broker
	lock   *sync.Mutex
}

// New constructs a Core. lock must be the same *sync.Mutex shared by
// every core in the system; it is acquired at the entry of Execute and
// released at return, per the concurrency model.
func New(id int, c *cache.Cache, b *bus.Bus, tracer *trace.Broker, lock *sync.Mutex) *Core {
	return &Core{id: id, cache: c, bus: b, tracer: tracer, lock: lock}
}

// CoreID satisfies bus.Snooper.
func (c *Core) CoreID() int { return c.id }

// Cache satisfies bus.Snooper, and gives the bus direct access to this
// core's lines for snooping and eviction write-back lookups.
func (c *Core) Cache() *cache.Cache { return c.cache }

func (c *Core) emit(e trace.Event) {
	if c.tracer != nil {
		c.tracer.Emit(e)
	}
}

// Execute runs one CPU operation to completion and returns the line's
// final value and state. It is the Core's sole public operation.
func (c *Core) Execute(op coherence.CpuOp, address, value, expected int) (finalValue int, finalState coherence.State) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.emit(trace.Event{
		Kind: trace.KindInstructionBegin, CoreID: c.id, Address: address,
		Op: op, Value: value, ShowValue: op == coherence.Write,
	})

	switch {
	case op == coherence.Read:
		finalValue, finalState = c.executeRead(address)
	case op == coherence.Write:
		finalValue, finalState = c.executeWrite(address, value)
	case op.IsAtomic():
		finalValue, finalState = c.executeAtomic(op, address, value, expected)
	default:
		panic(fmt.Sprintf("core: unknown opcode %v", op))
	}

	c.emit(trace.Event{
		Kind: trace.KindInstructionEnd, CoreID: c.id, Address: address,
		Value: finalValue, NextState: finalState,
	})
	return finalValue, finalState
}

func (c *Core) executeRead(address int) (int, coherence.State) {
	index, hit := c.cache.Lookup(address)
	line := c.cache.LineAt(index)
	c.emit(trace.Event{Kind: trace.KindCacheAccess, CoreID: c.id, Address: address, Hit: hit, PresentState: line.State})

	if hit {
		return line.Value, line.State
	}

	c.evictIfNeeded(index, address)

	c.emit(trace.Event{Kind: trace.KindBusRequest, CoreID: c.id, Address: address, BusOp: coherence.BusRd})
	resp := c.bus.Broadcast(coherence.BusRd, address, c.id)
	c.emit(trace.Event{
		Kind: trace.KindBusResponse, CoreID: c.id, Address: address,
		Data: resp.Data, DataFromMemory: resp.DataFromMemory, SupplierCore: resp.SupplierCore,
	})

	c.emit(trace.Event{
		Kind: trace.KindRequesterTransition, CoreID: c.id, Address: address,
		PresentState: coherence.Invalid, NextState: resp.RequesterNewState,
	})
	c.cache.SetLineAt(index, coherence.Line{Tag: address, Value: resp.Data, State: resp.RequesterNewState})
	return resp.Data, resp.RequesterNewState
}

func (c *Core) executeWrite(address, value int) (int, coherence.State) {
	index, hit := c.cache.Lookup(address)
	line := c.cache.LineAt(index)
	c.emit(trace.Event{Kind: trace.KindCacheAccess, CoreID: c.id, Address: address, Hit: hit, PresentState: line.State})

	if !hit {
		c.evictIfNeeded(index, address)

		c.emit(trace.Event{Kind: trace.KindBusRequest, CoreID: c.id, Address: address, BusOp: coherence.BusRdX})
		resp := c.bus.Broadcast(coherence.BusRdX, address, c.id)
		c.emit(trace.Event{
			Kind: trace.KindBusResponse, CoreID: c.id, Address: address,
			Data: resp.Data, DataFromMemory: resp.DataFromMemory, SupplierCore: resp.SupplierCore,
		})
		c.emit(trace.Event{
			Kind: trace.KindRequesterTransition, CoreID: c.id, Address: address,
			PresentState: coherence.Invalid, NextState: coherence.Modified,
		})
		c.cache.SetLineAt(index, coherence.Line{Tag: address, Value: value, State: coherence.Modified})
		return value, coherence.Modified
	}

	switch line.State {
	case coherence.Shared, coherence.Owned:
		c.emit(trace.Event{Kind: trace.KindBusRequest, CoreID: c.id, Address: address, BusOp: coherence.BusUpgr})
		c.bus.Broadcast(coherence.BusUpgr, address, c.id)
		c.emit(trace.Event{
			Kind: trace.KindRequesterTransition, CoreID: c.id, Address: address,
			PresentState: line.State, NextState: coherence.Modified,
		})
	case coherence.Exclusive, coherence.Modified:
		// Already the sole writable copy; no bus traffic required.
	}

	c.cache.SetLineAt(index, coherence.Line{Tag: address, Value: value, State: coherence.Modified})
	return value, coherence.Modified
}

// executeAtomic applies a read-modify-write primitive under the same
// miss/upgrade policy as Write, mutating the local value with the RMW
// operator instead of overwriting it with the operand.
func (c *Core) executeAtomic(op coherence.CpuOp, address, operand, expected int) (int, coherence.State) {
	index, hit := c.cache.Lookup(address)
	line := c.cache.LineAt(index)
	c.emit(trace.Event{Kind: trace.KindCacheAccess, CoreID: c.id, Address: address, Hit: hit, PresentState: line.State})

	current := 0
	if hit {
		current = line.Value
	}

	if !hit {
		c.evictIfNeeded(index, address)

		c.emit(trace.Event{Kind: trace.KindBusRequest, CoreID: c.id, Address: address, BusOp: coherence.BusRdX})
		resp := c.bus.Broadcast(coherence.BusRdX, address, c.id)
		c.emit(trace.Event{
			Kind: trace.KindBusResponse, CoreID: c.id, Address: address,
			Data: resp.Data, DataFromMemory: resp.DataFromMemory, SupplierCore: resp.SupplierCore,
		})
		current = resp.Data
	} else {
		switch line.State {
		case coherence.Shared, coherence.Owned:
			c.emit(trace.Event{Kind: trace.KindBusRequest, CoreID: c.id, Address: address, BusOp: coherence.BusUpgr})
			c.bus.Broadcast(coherence.BusUpgr, address, c.id)
		case coherence.Exclusive, coherence.Modified:
			// already writable
		}
	}

	result := applyRMW(op, current, operand, expected)

	c.emit(trace.Event{
		Kind: trace.KindRequesterTransition, CoreID: c.id, Address: address,
		PresentState: line.State, NextState: coherence.Modified,
	})
	c.cache.SetLineAt(index, coherence.Line{Tag: address, Value: result, State: coherence.Modified})
	return result, coherence.Modified
}

// applyRMW computes the result of one atomic primitive. CAS success or
// failure is silent: the line always ends in M regardless of whether
// the comparison matched.
func applyRMW(op coherence.CpuOp, current, operand, expected int) int {
	switch op {
	case coherence.AtomicCAS:
		if current == expected {
			return operand
		}
		return current
	case coherence.AtomicADD:
		return current + operand
	case coherence.AtomicSUB:
		return current - operand
	case coherence.AtomicAND:
		return current & operand
	case coherence.AtomicOR:
		return current | operand
	case coherence.AtomicXOR:
		return current ^ operand
	case coherence.AtomicNAND:
		return ^(current & operand)
	case coherence.AtomicNOR:
		return ^(current | operand)
	case coherence.AtomicXNOR:
		return ^(current ^ operand)
	default:
		panic(fmt.Sprintf("core: %v is not an atomic opcode", op))
	}
}

// evictIfNeeded flushes the line currently at index if it is dirty and
// does not already hold address, per §4.6: only M and O require a
// write-back; a clean line is simply overwritten.
func (c *Core) evictIfNeeded(index, address int) {
	line := c.cache.LineAt(index)
	if line.Tag == address || !line.State.Dirty() {
		return
	}
	logging.Default().Debugw("core: evicting dirty line", logging.Fields{
		"core_id": c.id, "address": line.Tag, "state": line.State, "conflicting_address": address,
	})
	c.emit(trace.Event{Kind: trace.KindEviction, CoreID: c.id, Address: line.Tag})
	c.bus.Broadcast(coherence.BusWB, line.Tag, c.id)
	c.cache.SetLineAt(index, coherence.Line{Tag: coherence.NoTag, Value: 0, State: coherence.Invalid})
}
