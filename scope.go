package scoped

import (
	"fmt"

	"github.com/oliverbestmann/scoped/internal/erased"
	"github.com/oliverbestmann/scoped/internal/gls"
)

// Set makes ref the value of slot on the calling goroutine while fn runs
// and returns the result of fn.
//
// The previous value of the slot is restored when fn returns, panics or
// calls runtime.Goexit. A panic continues unchanged after the slot was
// restored. Nested calls for the same slot shadow the outer value until
// they return.
//
// Set never copies *ref. The caller must not mutate *ref in a way readers
// do not expect while fn runs.
func Set[T, R any](slot *Slot[T], ref *T, fn func() R) R {
	id := slot.id()

	if ref == nil {
		panic(fmt.Errorf("nil reference installed into slot %s", slot))
	}

	frame := gls.Install(id, erased.Of(ref))
	defer frame.Restore()

	return fn()
}

// SetValue is like Set, but takes the value itself. It is meant for types
// that are references already, like pointers, interfaces, strings, slices
// or maps: only the header is copied, never the data it points to.
func SetValue[T, R any](slot *Slot[T], value T, fn func() R) R {
	return Set(slot, &value, fn)
}

// With calls fn with the value of slot on the calling goroutine. If no
// scope is active, fn receives an empty Option. The reference must not be
// retained after fn returns.
func With[T, R any](slot *Slot[T], fn func(Option[T]) R) R {
	ref, _ := gls.Load(slot.id())
	if ref.IsZero() {
		return fn(Option[T]{})
	}

	return fn(Option[T]{value: erased.As[T](ref)})
}
