package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/moesi-sim/config"
	"github.com/example/moesi-sim/logging"
	"github.com/example/moesi-sim/metrics"
	"github.com/example/moesi-sim/scenario"
	"github.com/example/moesi-sim/system"
	"github.com/example/moesi-sim/trace"
	"github.com/example/moesi-sim/web"
)

var (
	runPreset   string
	runScenario string
	runServe    bool
	runAddr     string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario against a fresh system and print its trace",
	RunE:  runE,
}

func init() {
	runCmd.Flags().StringVar(&runPreset, "preset", "small", "predefined geometry (small, pair, contended)")
	runCmd.Flags().StringVar(&runScenario, "scenario", "readwrite", "canned scenario to run (readwrite, atomic)")
	runCmd.Flags().BoolVar(&runServe, "serve", false, "start the read-only HTTP/websocket inspection surface")
	runCmd.Flags().StringVar(&runAddr, "addr", ":8080", "address for --serve")
	rootCmd.AddCommand(runCmd)
}

func runE(cmd *cobra.Command, args []string) error {
	cfg, ok := config.ByName(runPreset)
	if !ok {
		return fmt.Errorf("unknown preset %q", runPreset)
	}

	tracer := trace.NewBroker()
	tracer.Register(trace.NewTextSink(os.Stdout))

	collector := metrics.NewCollector()
	tracer.Register(collector)

	var wsSink *trace.WebSocketSink
	if runServe {
		wsSink = trace.NewWebSocketSink()
		tracer.Register(wsSink)
	}

	sys := system.New(system.Config{Cores: cfg.Cores, LinesPer: cfg.LinesPer, Words: cfg.Words, WordSize: cfg.WordSize}, tracer)

	if runServe {
		srv := web.New(sys, collector, wsSink)
		go func() {
			if err := srv.ListenAndServe(runAddr); err != nil {
				logging.Default().Errorf("web: server stopped: %v", err)
			}
		}()
	}

	switch runScenario {
	case "readwrite":
		scenario.SeedReadWriteMemory(sys)
		scenario.Run(sys, scenario.ReadWriteScript())
	case "atomic":
		sys.PresetMemory(scenario.SharedCounterAddress, 0)
		scenario.RunConcurrentAtomicIncrement(sys)
	default:
		return fmt.Errorf("unknown scenario %q", runScenario)
	}

	fmt.Println()
	metrics.Print(os.Stdout, collector.Snapshot())

	if runServe {
		logging.Default().Infof("run: scenario complete, inspection surface stays up at %s", runAddr)
		for {
			time.Sleep(time.Second)
		}
	}
	return nil
}
