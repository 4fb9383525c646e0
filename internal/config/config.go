// Package config holds the engine's tunable settings, loaded from an
// optional TOML file at startup with hard-coded defaults as a fallback -
// a missing or malformed config file is never fatal.
package config

import (
	"github.com/BurntSushi/toml"

	"github.com/arbiterchess/arbiter/internal/logging"
	"github.com/arbiterchess/arbiter/internal/util"
)

var log = logging.GetLog(logging.EngineLogger)

// SearchConfig gates search-tree pruning and extension techniques so they
// can be switched off individually for regression testing and tuning.
type SearchConfig struct {
	UseIterativeDeepening bool
	UseAspirationWindows  bool
	UseTranspositionTable bool
	UseQuiescence         bool
	UseNullMovePruning    bool
	UseLmr                bool
	UseLmp                bool
	UseFutilityPruning    bool
	UseRfp                bool
	UseRazoring           bool
	UseProbCut            bool
	UseSingularExtension  bool
	UseMultiCut           bool
	UseMateDistancePruning bool
	UseCheckExtension     bool
	UseIid                bool
	UseKillerMoves        bool
	UseCounterMoves       bool
	UseHistoryHeuristic   bool
	UseSee                bool
	NumberOfThreads       int
	TtSizeMb              int
	MultiPV               int
	MoveOverheadMs        int
	SyzygyPath            string
	Syzygy50MoveRule      bool
	SyzygyProbeLimit      int
}

// EvalConfig gates individual evaluation terms.
type EvalConfig struct {
	UsePsqt          bool
	UseMobility      bool
	UseKingSafety    bool
	UseBishopPair    bool
	UsePawnStructure bool
	UseThreats       bool
	UseComplexity    bool
	UseScaleFactor   bool
	Tempo            int
}

// LogConfig controls logger verbosity and the optional search trace file.
type LogConfig struct {
	SearchTraceEnabled bool
	SearchTraceFile    string
}

// Configuration is the root of the TOML document.
type Configuration struct {
	Search SearchConfig
	Eval   EvalConfig
	Log    LogConfig
}

func defaults() Configuration {
	return Configuration{
		Search: SearchConfig{
			UseIterativeDeepening:  true,
			UseAspirationWindows:   true,
			UseTranspositionTable:  true,
			UseQuiescence:          true,
			UseNullMovePruning:     true,
			UseLmr:                 true,
			UseLmp:                 true,
			UseFutilityPruning:     true,
			UseRfp:                 true,
			UseRazoring:            true,
			UseProbCut:             true,
			UseSingularExtension:   true,
			UseMultiCut:            true,
			UseMateDistancePruning: true,
			UseCheckExtension:      true,
			UseIid:                 true,
			UseKillerMoves:         true,
			UseCounterMoves:        true,
			UseHistoryHeuristic:    true,
			UseSee:                 true,
			NumberOfThreads:        1,
			TtSizeMb:               64,
			MultiPV:                1,
			MoveOverheadMs:         30,
			SyzygyPath:             "",
			Syzygy50MoveRule:       true,
			SyzygyProbeLimit:       7,
		},
		Eval: EvalConfig{
			UsePsqt:          true,
			UseMobility:      true,
			UseKingSafety:    true,
			UseBishopPair:    true,
			UsePawnStructure: true,
			UseThreats:       true,
			UseComplexity:    true,
			UseScaleFactor:   true,
			Tempo:            18,
		},
		Log: LogConfig{
			SearchTraceEnabled: false,
			SearchTraceFile:    "",
		},
	}
}

// Settings is the process-wide configuration, populated by Setup.
var Settings = defaults()

// Setup loads configPath (if non-empty) over the defaults. A missing file
// or parse error is logged and the defaults are kept rather than aborting
// startup - the engine should always be able to play with sane settings.
func Setup(configPath string) {
	Settings = defaults()
	defer func() {
		logging.SetTraceEnabled(Settings.Log.SearchTraceEnabled)
		logging.SetTraceFile(Settings.Log.SearchTraceFile)
	}()
	if configPath == "" {
		return
	}
	resolved, err := util.ResolveFile(configPath)
	if err != nil {
		log.Warningf("config: could not resolve %q, using defaults: %v", configPath, err)
		return
	}
	if _, err := toml.DecodeFile(resolved, &Settings); err != nil {
		log.Warningf("config: could not parse %q, using defaults: %v", resolved, err)
		Settings = defaults()
	}
}
