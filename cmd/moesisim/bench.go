package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/moesi-sim/config"
	"github.com/example/moesi-sim/scenario"
	"github.com/example/moesi-sim/system"
)

var (
	benchPreset     string
	benchIterations int
)

// benchCmd runs the concurrent atomic-increment scenario (end-to-end
// scenario 6 of spec.md §8) repeatedly and reports timing, grounded in
// the teacher's RunBenchmark/RunBenchmarkSuite (benchmark.go).
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark the four-core atomic-increment scenario",
	RunE:  benchE,
}

func init() {
	benchCmd.Flags().StringVar(&benchPreset, "preset", "small", "predefined geometry (small, pair, contended)")
	benchCmd.Flags().IntVar(&benchIterations, "iterations", 100, "number of times to repeat the scenario")
	rootCmd.AddCommand(benchCmd)
}

func benchE(cmd *cobra.Command, args []string) error {
	cfg, ok := config.ByName(benchPreset)
	if !ok {
		return fmt.Errorf("unknown preset %q", benchPreset)
	}

	var total time.Duration
	for i := 0; i < benchIterations; i++ {
		sys := system.New(system.Config{Cores: cfg.Cores, LinesPer: cfg.LinesPer, Words: cfg.Words, WordSize: cfg.WordSize}, nil)
		sys.PresetMemory(scenario.SharedCounterAddress, 0)

		start := time.Now()
		scenario.RunConcurrentAtomicIncrement(sys)
		total += time.Since(start)
	}

	avg := total / time.Duration(benchIterations)
	fmt.Printf("=== Atomic-Increment Benchmark ===\n")
	fmt.Printf("Preset: %s (%d cores)\n", benchPreset, cfg.Cores)
	fmt.Printf("Iterations: %d\n", benchIterations)
	fmt.Printf("Total duration: %s\n", total)
	fmt.Printf("Average per iteration: %s\n", avg)
	return nil
}
