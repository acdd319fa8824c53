package system_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/moesi-sim/coherence"
	"github.com/example/moesi-sim/metrics"
	"github.com/example/moesi-sim/system"
	"github.com/example/moesi-sim/trace"
)

func TestReadAfterWriteObservesTheWrite(t *testing.T) {
	sys := system.New(system.Config{Cores: 2, LinesPer: 64, Words: 256, WordSize: 4}, nil)

	sys.Execute(0, coherence.Write, 4, 0xBEEF, 0)
	value, state := sys.Execute(1, coherence.Read, 4, 0, 0)

	assert.Equal(t, 0xBEEF, value)
	assert.Equal(t, coherence.Shared, state)
}

func TestWriteIdempotenceInModifiedProducesNoBusTraffic(t *testing.T) {
	tracer := trace.NewBroker()
	collector := metrics.NewCollector()
	tracer.Register(collector)
	sys := system.New(system.Config{Cores: 2, LinesPer: 64, Words: 256, WordSize: 4}, tracer)

	sys.Execute(0, coherence.Write, 4, 0xBEEF, 0)
	before := collector.Snapshot().BusOps
	value, state := sys.Execute(0, coherence.Write, 4, 0xBEEF, 0)

	assert.Equal(t, 0xBEEF, value)
	assert.Equal(t, coherence.Modified, state)
	assert.Equal(t, before, collector.Snapshot().BusOps)

	snap := sys.Snapshot()
	line := snap.Cores[0].Lines[1]
	assert.Equal(t, 4, line.Tag)
}

func TestConcurrentOperationsAreTotallyOrdered(t *testing.T) {
	sys := system.New(system.Config{Cores: 8, LinesPer: 64, Words: 256, WordSize: 4}, nil)
	sys.PresetMemory(8, 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(coreID int) {
			defer wg.Done()
			sys.Execute(coreID, coherence.AtomicADD, 8, 1, 0)
		}(i)
	}
	wg.Wait()

	snap := sys.Snapshot()
	idx := (8 / 4) % 64
	total := 0
	for _, cs := range snap.Cores {
		if cs.Lines[idx].State == coherence.Modified && cs.Lines[idx].Tag == 8 {
			total += cs.Lines[idx].Value
		}
	}
	assert.Equal(t, 8, total)
}

func TestSnapshotReflectsPresetMemory(t *testing.T) {
	sys := system.New(system.Config{Cores: 1, LinesPer: 16, Words: 64, WordSize: 4}, nil)
	sys.PresetMemory(40, 0x42)

	snap := sys.Snapshot()
	assert.Equal(t, 0x42, snap.Memory[10])
}
