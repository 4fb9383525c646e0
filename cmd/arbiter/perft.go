package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arbiterchess/arbiter/internal/config"
	"github.com/arbiterchess/arbiter/internal/movegen"
	"github.com/arbiterchess/arbiter/internal/position"
)

func newPerftCmd(configFile *string) *cobra.Command {
	var fen string
	var startDepth int

	cmd := &cobra.Command{
		Use:   "perft <depth>",
		Short: "Count legal move-tree leaf nodes to a fixed depth",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Setup(*configFile)
			depth, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			if fen == "" {
				fen = position.StartFen
			}
			pf := movegen.NewPerft()
			pf.StartPerftMulti(fen, startDepth, depth)
			return nil
		},
	}
	cmd.Flags().StringVar(&fen, "fen", "", "FEN of the position to test (default: standard start position)")
	cmd.Flags().IntVar(&startDepth, "start", 1, "first depth to report, counting up to <depth>")
	return cmd
}
