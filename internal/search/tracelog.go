package search

import (
	"github.com/arbiterchess/arbiter/internal/config"
	"github.com/arbiterchess/arbiter/internal/logging"
)

var traceLog = logging.GetLog(logging.SearchTraceLogger)

// getSearchTraceLog reports whether per-node tracing is currently enabled,
// so hot call sites can skip building the trace message entirely rather
// than relying on the logging backend to discard it after formatting.
func getSearchTraceLog() bool {
	return config.Settings.Log.SearchTraceEnabled
}

func traceNode(ply, depth int, alpha, beta int, msg string) {
	if !getSearchTraceLog() {
		return
	}
	traceLog.Debugf("ply=%d depth=%d a=%d b=%d %s", ply, depth, alpha, beta, msg)
}
