// Package util collects small helpers shared across the engine that don't
// belong to any one domain package: filesystem path resolution, formatted
// nodes-per-second reporting, and GC/memory statistics used in bench output.
package util

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.German)

// ResolveFile turns a possibly relative path into an absolute one, trying
// the current working directory first and then the executable's own
// directory - config and book files are often shipped next to the binary.
func ResolveFile(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	if _, err := os.Stat(path); err == nil {
		abs, err := filepath.Abs(path)
		if err == nil {
			return abs, nil
		}
	}
	exe, err := os.Executable()
	if err == nil {
		candidate := filepath.Join(filepath.Dir(exe), path)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("util: could not resolve file %q", path)
}

// Nps formats a nodes-per-second figure with locale thousands separators,
// e.g. "1.234.567 nps".
func Nps(nodes uint64, elapsed time.Duration) string {
	if elapsed <= 0 {
		return printer.Sprintf("%d nps", nodes)
	}
	nps := uint64(float64(nodes) / elapsed.Seconds())
	return printer.Sprintf("%d nps", nps)
}

// FormatNodes renders a node count with locale thousands separators.
func FormatNodes(nodes uint64) string {
	return printer.Sprintf("%d", nodes)
}

// MemStat returns a short "used/total" heap summary for bench/info output.
func MemStat() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return printer.Sprintf("%d/%d MB", m.HeapAlloc/1_000_000, m.Sys/1_000_000)
}

// GcWithStats forces a garbage collection cycle and returns how long it
// took.
func GcWithStats() time.Duration {
	start := time.Now()
	runtime.GC()
	return time.Since(start)
}
