package main

import (
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/arbiterchess/arbiter/internal/config"
	"github.com/arbiterchess/arbiter/internal/uci"
)

func newUciCmd(configFile, cpuProfile, memProfile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "uci",
		Short: "Run the engine as a UCI protocol server over stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUci(configFile, cpuProfile, memProfile)
		},
	}
}

func runUci(configFile, cpuProfile, memProfile *string) error {
	config.Setup(*configFile)

	if *cpuProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*cpuProfile)).Stop()
	} else if *memProfile != "" {
		defer profile.Start(profile.MemProfile, profile.ProfilePath(*memProfile)).Stop()
	}

	handler := uci.NewUciHandler()
	handler.Loop()
	return nil
}
