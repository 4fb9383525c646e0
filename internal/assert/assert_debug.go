//go:build debug

package assert

import "fmt"

// DEBUG reports whether the binary was built with the debug tag.
const DEBUG = true

// Assert panics with msg (formatted with args) if cond is false. Only
// compiled into debug builds - never gate externally observable behavior
// on DEBUG, only internal invariant checks.
func Assert(cond bool, msg string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintf(msg, args...))
	}
}
