// Command moesisim drives the MOESI coherence simulator from the
// command line. Grounded on the teacher's flag-based main.go, rebuilt
// on cobra the way sarchlab-akita's cmd/root.go structures its own
// subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "moesisim",
	Short: "A MOESI cache-coherence protocol simulator",
	Long: "moesisim drives N symmetric cores sharing memory over a snooping " +
		"broadcast bus, emitting a deterministic per-operation trace.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
