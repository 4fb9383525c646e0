package main

import (
	"fmt"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/arbiterchess/arbiter/internal/config"
	"github.com/arbiterchess/arbiter/internal/position"
	"github.com/arbiterchess/arbiter/internal/search"
)

// benchPositions is a small fixed suite exercised by "arbiter bench" - not a
// test of correctness, just a stable, reproducible workload for comparing
// nodes-per-second across commits.
var benchPositions = []string{
	position.StartFen,
	"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
	"rnbqkb1r/pp1ppppp/5n2/2p5/2P5/2N5/PP1PPPPP/R1BQKBNR w KQkq - 2 3",
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
}

func newBenchCmd(configFile, cpuProfile *string) *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Search a fixed suite of positions and report aggregate nodes/sec",
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Setup(*configFile)
			if *cpuProfile != "" {
				defer profile.Start(profile.CPUProfile, profile.ProfilePath(*cpuProfile)).Stop()
			}
			return runBench(depth)
		},
	}
	cmd.Flags().IntVar(&depth, "depth", 10, "search depth for each bench position")
	return cmd
}

func runBench(depth int) error {
	start := time.Now()

	for i, fen := range benchPositions {
		pos, err := position.NewPosition(fen)
		if err != nil {
			return fmt.Errorf("bench position %d: %w", i, err)
		}
		s := search.NewSearch()
		lim := search.NewLimits()
		lim.Depth = depth
		s.StartSearch(pos, lim)
		s.Wait()
		best, _ := s.LastResult()
		fmt.Printf("position %d: bestmove %s\n", i+1, best.StringUci())
	}

	elapsed := time.Since(start)
	fmt.Printf("bench: %d positions in %s\n", len(benchPositions), elapsed)
	return nil
}
