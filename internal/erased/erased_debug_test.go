//go:build scopedebug

package erased

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAsMismatchPanics(t *testing.T) {
	value := 1
	ref := Of(&value)

	require.PanicsWithError(t,
		"erased reference of type int reconstructed as string",
		func() { As[string](ref) },
	)
}
