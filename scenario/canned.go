package scenario

import (
	"github.com/example/moesi-sim/coherence"
	"github.com/example/moesi-sim/system"
)

// Step is one scripted CPU operation: which core issues it, against
// which address, and with what operand/expected value.
type Step struct {
	CoreID   int
	Op       coherence.CpuOp
	Address  int
	Value    int
	Expected int
}

// ReadWriteScript returns the canonical 21-test read/write/upgrade/
// eviction sequence, transcribed from runReadWriteTest. It exercises
// every snoop transition and both eviction paths (read-case and
// write-case conflict misses at the same index) on a 4-core, 64-line,
// word-size-4 system.
func ReadWriteScript() []Step {
	return []Step{
		// Test 1: CPU-2 and CPU-3 read the same address, forming Shared.
		{CoreID: 2, Op: coherence.Read, Address: 4},
		{CoreID: 3, Op: coherence.Read, Address: 4},
		// Test 2: CPU-0 reads the already-Shared address.
		{CoreID: 0, Op: coherence.Read, Address: 4},
		// Test 2.5: CPU-0 writes the Shared address (BusUpgr).
		{CoreID: 0, Op: coherence.Write, Address: 4, Value: 0x9999},
		// Test 3: CPU-1 writes a fresh address (BusRdX).
		{CoreID: 1, Op: coherence.Write, Address: 8, Value: 0xABCD},
		// Test 4: CPU-0 re-reads its own Modified line (no bus traffic).
		{CoreID: 0, Op: coherence.Read, Address: 4},
		// Test 5: CPU-2 reads a fresh address, becoming Exclusive.
		{CoreID: 2, Op: coherence.Read, Address: 16},
		// Test 5.5: CPU-2 writes its Exclusive line (E->M, no bus traffic).
		{CoreID: 2, Op: coherence.Write, Address: 16, Value: 0xDDDD},
		// Test 6: CPU-3 writes a fresh address.
		{CoreID: 3, Op: coherence.Write, Address: 12, Value: 0x5678},
		// Test 7: CPU-0 reads that address back.
		{CoreID: 0, Op: coherence.Read, Address: 12},
		// Test 8: CPU-1 reads CPU-0's Modified line for addr 4 (M->O).
		{CoreID: 1, Op: coherence.Read, Address: 4},
		// Test 9: CPU-2 reads again; Owned state is maintained.
		{CoreID: 2, Op: coherence.Read, Address: 4},
		// Test 10: CPU-0 writes its Owned line (O->M via BusUpgr).
		{CoreID: 0, Op: coherence.Write, Address: 4, Value: 0xEEEE},
		// Test 11: CPU-0 writes its Modified line again (M->M).
		{CoreID: 0, Op: coherence.Write, Address: 4, Value: 0xFFFF},
		// Test 12: CPU-0 reads 0x104, which aliases index 1 with addr 4,
		// evicting the dirty line at addr 4 (BusWB, read-case conflict).
		{CoreID: 0, Op: coherence.Read, Address: 0x104},
		{CoreID: 0, Op: coherence.Write, Address: 0x104, Value: 0xBBBB},
		// Test 13: CPU-0 writes addr 4 again, evicting the now-dirty 0x104
		// (BusWB, write-case conflict).
		{CoreID: 0, Op: coherence.Write, Address: 4, Value: 0xCCCC},
		// Test 14: Exclusive -> Invalid via another core's write.
		{CoreID: 1, Op: coherence.Read, Address: 20},
		{CoreID: 2, Op: coherence.Write, Address: 20, Value: 0x8888},
		// Test 15: Owned -> Invalid via another core's write.
		{CoreID: 0, Op: coherence.Read, Address: 8},
		{CoreID: 1, Op: coherence.Read, Address: 8},
		{CoreID: 2, Op: coherence.Write, Address: 8, Value: 0x6666},
		// Test 16: read-modify-write sequence on a fresh address.
		{CoreID: 0, Op: coherence.Read, Address: 100},
		{CoreID: 0, Op: coherence.Write, Address: 100, Value: 0xAAAA},
		{CoreID: 0, Op: coherence.Read, Address: 100},
		// Test 17: three distinct addresses each go Exclusive.
		{CoreID: 1, Op: coherence.Read, Address: 200},
		{CoreID: 2, Op: coherence.Read, Address: 204},
		{CoreID: 3, Op: coherence.Read, Address: 208},
		// Test 18: Exclusive snoop behavior (E->S).
		{CoreID: 0, Op: coherence.Read, Address: 300},
		{CoreID: 1, Op: coherence.Read, Address: 300},
		// Test 19: write invalidates another core's Exclusive copy.
		{CoreID: 2, Op: coherence.Read, Address: 400},
		{CoreID: 3, Op: coherence.Write, Address: 400, Value: 0x5555},
		// Test 20: complex multi-core scenario.
		{CoreID: 0, Op: coherence.Write, Address: 500, Value: 0x6666},
		{CoreID: 1, Op: coherence.Read, Address: 500},
		{CoreID: 2, Op: coherence.Read, Address: 500},
		{CoreID: 3, Op: coherence.Write, Address: 500, Value: 0x7777},
		// Test 21: sequential operations on one address across all cores.
		{CoreID: 0, Op: coherence.Read, Address: 600},
		{CoreID: 1, Op: coherence.Write, Address: 600, Value: 0x8888},
		{CoreID: 2, Op: coherence.Read, Address: 600},
		{CoreID: 3, Op: coherence.Write, Address: 600, Value: 0x9999},
		{CoreID: 0, Op: coherence.Read, Address: 600},
	}
}

// SeedReadWriteMemory preloads the memory words the script touches,
// transcribed from runReadWriteTest's initial assignments. sys must
// have at least 1024/wordSize words and 4 cores.
func SeedReadWriteMemory(sys *system.System) {
	for _, kv := range [][2]int{
		{4, 0x1111}, {8, 0x2222}, {12, 0x3333}, {16, 0x4444}, {20, 0x5555},
		{100, 0xABCD}, {200, 0x1000}, {204, 0x2000}, {208, 0x3000},
		{260, 0xAAAA}, // 0x104 == 260, for the conflict-miss test
		{300, 0xBBBB}, {400, 0xCCCC}, {500, 0xDDDD}, {600, 0xEEEE},
	} {
		sys.PresetMemory(kv[0], kv[1])
	}
}

// Run executes every step in script against sys in order, on the
// calling goroutine.
func Run(sys *system.System, script []Step) {
	for _, step := range script {
		sys.Execute(step.CoreID, step.Op, step.Address, step.Value, step.Expected)
	}
}

// SharedCounterAddress is the address the atomic-increment scenario
// targets, transcribed from runAtomicADDTest's SHARED_COUNTER_ADDR.
const SharedCounterAddress = 1000

// RunConcurrentAtomicIncrement launches one host goroutine per core,
// each issuing a single Atomic_ADD(SharedCounterAddress, 1), and waits
// for all of them to finish. This is the Go analog of
// runAtomicADDTest's std::thread fan-out: the system's serialization
// lock (held for the whole of Core.Execute) is what makes the final
// counter value deterministic regardless of goroutine interleaving.
func RunConcurrentAtomicIncrement(sys *system.System) {
	cores := sys.NumCores()
	done := make(chan struct{}, cores)
	for i := 0; i < cores; i++ {
		go func(coreID int) {
			sys.Execute(coreID, coherence.AtomicADD, SharedCounterAddress, 1, 0)
			done <- struct{}{}
		}(i)
	}
	for i := 0; i < cores; i++ {
		<-done
	}
}
