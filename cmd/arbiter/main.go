// Command arbiter is the engine's executable: a UCI engine by default, plus
// perft and bench subcommands useful during development.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string
	var cpuProfile string
	var memProfile string

	root := &cobra.Command{
		Use:           "arbiter",
		Short:         "A UCI-compatible chess engine",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to a TOML configuration file")
	root.PersistentFlags().StringVar(&cpuProfile, "cpuprofile", "", "write a CPU profile to the given directory")
	root.PersistentFlags().StringVar(&memProfile, "memprofile", "", "write a memory profile to the given directory")

	root.AddCommand(newUciCmd(&configFile, &cpuProfile, &memProfile))
	root.AddCommand(newPerftCmd(&configFile))
	root.AddCommand(newBenchCmd(&configFile, &cpuProfile))

	// running "arbiter" with no subcommand speaks UCI, matching what every
	// chess GUI expects when it launches the engine binary directly.
	root.RunE = func(cmd *cobra.Command, args []string) error {
		return runUci(&configFile, &cpuProfile, &memProfile)
	}

	return root
}
