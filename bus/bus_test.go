package bus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/moesi-sim/bus"
	"github.com/example/moesi-sim/cache"
	"github.com/example/moesi-sim/coherence"
	"github.com/example/moesi-sim/memory"
)

// fakeSnooper is a minimal bus.Snooper for unit-testing Broadcast
// without pulling in the core package.
type fakeSnooper struct {
	id int
	c  *cache.Cache
}

func (f *fakeSnooper) CoreID() int          { return f.id }
func (f *fakeSnooper) Cache() *cache.Cache { return f.c }

func newSnooper(id int) *fakeSnooper {
	return &fakeSnooper{id: id, c: cache.New(64, 4)}
}

func TestBroadcastBusRdNoSnoopersReturnsMemoryAndExclusive(t *testing.T) {
	mem := memory.New(256, 4)
	mem.Write(4, 0x1111)
	b := bus.New(mem, nil)

	s0 := newSnooper(0)
	b.Attach(s0)

	resp := b.Broadcast(coherence.BusRd, 4, 0)
	assert.Equal(t, 0x1111, resp.Data)
	assert.True(t, resp.DataFromMemory)
	assert.Equal(t, coherence.NoSupplier, resp.SupplierCore)
	assert.Equal(t, coherence.Exclusive, resp.RequesterNewState)
}

func TestBroadcastBusRdSupplierPriorityModifiedWins(t *testing.T) {
	mem := memory.New(256, 4)
	b := bus.New(mem, nil)

	requester := newSnooper(0)
	modified := newSnooper(1)
	owned := newSnooper(2)
	idx, _ := modified.c.Lookup(4)
	modified.c.SetLineAt(idx, coherence.Line{Tag: 4, Value: 0xAAAA, State: coherence.Modified})
	owned.c.SetLineAt(idx, coherence.Line{Tag: 4, Value: 0xBBBB, State: coherence.Owned})

	b.Attach(requester)
	b.Attach(modified)
	b.Attach(owned)

	resp := b.Broadcast(coherence.BusRd, 4, 0)
	assert.Equal(t, 0xAAAA, resp.Data)
	assert.False(t, resp.DataFromMemory)
	assert.Equal(t, 1, resp.SupplierCore)
	assert.Equal(t, coherence.Shared, resp.RequesterNewState)

	// Per the BusRd row the Owned snooper stays Owned and the Modified
	// snooper becomes Owned, not Invalid.
	modLine := modified.c.LineAt(idx)
	assert.Equal(t, coherence.Owned, modLine.State)
}

func TestBroadcastBusRdXInvalidatesAllSnoopers(t *testing.T) {
	mem := memory.New(256, 4)
	b := bus.New(mem, nil)

	requester := newSnooper(0)
	sharer := newSnooper(1)
	idx, _ := sharer.c.Lookup(4)
	sharer.c.SetLineAt(idx, coherence.Line{Tag: 4, Value: 0x1111, State: coherence.Shared})

	b.Attach(requester)
	b.Attach(sharer)

	resp := b.Broadcast(coherence.BusRdX, 4, 0)
	assert.Equal(t, coherence.Modified, resp.RequesterNewState)
	assert.Equal(t, coherence.Invalid, sharer.c.LineAt(idx).State)
}

func TestBroadcastBusRdXSnoopingExclusiveReportsSnooperAsSupplier(t *testing.T) {
	mem := memory.New(256, 4)
	b := bus.New(mem, nil)

	requester := newSnooper(0)
	exclusive := newSnooper(1)
	idx, _ := exclusive.c.Lookup(4)
	exclusive.c.SetLineAt(idx, coherence.Line{Tag: 4, Value: 0xCAFE, State: coherence.Exclusive})

	b.Attach(requester)
	b.Attach(exclusive)

	resp := b.Broadcast(coherence.BusRdX, 4, 0)
	assert.Equal(t, 0xCAFE, resp.Data)
	assert.False(t, resp.DataFromMemory)
	assert.Equal(t, 1, resp.SupplierCore)
	assert.Equal(t, coherence.Invalid, exclusive.c.LineAt(idx).State)
}

func TestBroadcastBusRdSnoopingExclusiveReportsMemoryEquivalent(t *testing.T) {
	mem := memory.New(256, 4)
	b := bus.New(mem, nil)

	requester := newSnooper(0)
	exclusive := newSnooper(1)
	idx, _ := exclusive.c.Lookup(4)
	exclusive.c.SetLineAt(idx, coherence.Line{Tag: 4, Value: 0xCAFE, State: coherence.Exclusive})

	b.Attach(requester)
	b.Attach(exclusive)

	resp := b.Broadcast(coherence.BusRd, 4, 0)
	assert.Equal(t, 0xCAFE, resp.Data)
	assert.True(t, resp.DataFromMemory)
	assert.Equal(t, coherence.NoSupplier, resp.SupplierCore)
}

func TestBroadcastBusUpgrPanicsOnModifiedSnooper(t *testing.T) {
	mem := memory.New(256, 4)
	b := bus.New(mem, nil)

	requester := newSnooper(0)
	other := newSnooper(1)
	idx, _ := other.c.Lookup(4)
	other.c.SetLineAt(idx, coherence.Line{Tag: 4, Value: 0x1111, State: coherence.Modified})

	b.Attach(requester)
	b.Attach(other)

	assert.Panics(t, func() {
		b.Broadcast(coherence.BusUpgr, 4, 0)
	})
}

func TestWriteBackFlushesInitiatorsOwnDirtyLine(t *testing.T) {
	mem := memory.New(256, 4)
	b := bus.New(mem, nil)

	initiator := newSnooper(0)
	idx, _ := initiator.c.Lookup(4)
	initiator.c.SetLineAt(idx, coherence.Line{Tag: 4, Value: 0xDEAD, State: coherence.Modified})
	b.Attach(initiator)

	b.Broadcast(coherence.BusWB, 4, 0)
	require.Equal(t, 0xDEAD, mem.Read(4))
}
