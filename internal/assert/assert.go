package assert

import (
	"fmt"
)

// That panics with the formatted message if cond does not hold.
// Callers guard it with Enabled, so release builds pay nothing for the
// message arguments.
func That(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Errorf("assertion failed: "+format, args...))
	}
}
