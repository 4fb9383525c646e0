// Package logging sets up the engine's two named loggers: a general
// engine logger for lifecycle and error messages, and a dedicated
// search-trace logger that is only noisy when explicitly enabled, since
// per-node tracing at full speed would otherwise dominate runtime.
package logging

import (
	"os"

	"github.com/op/go-logging"
)

const (
	// EngineLogger is the general-purpose logger name.
	EngineLogger = "engine"
	// SearchTraceLogger is the per-node search trace logger name.
	SearchTraceLogger = "searchtrace"
)

var format = logging.MustStringFormatter(
	`%{time:2006-01-02 15:04:05.000} %{shortfile} %{level:.4s} %{id:03x} %{message}`,
)

var backendInitialized = false

func ensureBackend() {
	if backendInitialized {
		return
	}
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatted := logging.NewBackendFormatter(backend, format)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logging.INFO, "")
	logging.SetBackend(leveled)
	backendInitialized = true
}

// GetLog returns the named logger, configuring the shared backend on first
// use so callers never need to worry about initialization order.
func GetLog(name string) *logging.Logger {
	ensureBackend()
	return logging.MustGetLogger(name)
}

// SetTraceEnabled toggles the search-trace logger between DEBUG (emits
// per-node trace lines) and a level high enough to suppress them entirely.
func SetTraceEnabled(enabled bool) {
	ensureBackend()
	if enabled {
		logging.SetLevel(logging.DEBUG, SearchTraceLogger)
	} else {
		logging.SetLevel(logging.CRITICAL, SearchTraceLogger)
	}
}

// SetTraceFile mirrors all log output into the named file alongside
// stderr, for search-trace sessions that outlive a terminal scrollback.
// Failure to open the file is reported and otherwise ignored.
func SetTraceFile(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		GetLog(EngineLogger).Warningf("logging: cannot open trace file %q: %v", path, err)
		return
	}
	stderrBackend := logging.NewBackendFormatter(logging.NewLogBackend(os.Stderr, "", 0), format)
	fileBackend := logging.NewBackendFormatter(logging.NewLogBackend(f, "", 0), format)
	leveled := logging.MultiLogger(stderrBackend, fileBackend)
	leveled.SetLevel(logging.INFO, "")
	logging.SetBackend(leveled)
	backendInitialized = true
}
