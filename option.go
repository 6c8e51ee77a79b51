package scoped

import "fmt"

// Option is the value of a slot as seen by a With callback. It is empty if
// no scope is active for the slot on the calling goroutine.
type Option[T any] struct {
	value *T
}

// Get returns the installed reference and whether one is present.
func (o Option[T]) Get() (*T, bool) {
	return o.value, o.value != nil
}

func (o Option[T]) IsPresent() bool {
	return o.value != nil
}

// OrValue returns a copy of the referenced value, or fallback if the
// option is empty.
func (o Option[T]) OrValue(fallback T) T {
	if o.value != nil {
		return *o.value
	}

	return fallback
}

func (o Option[T]) OrDefault() T {
	var tZero T
	return o.OrValue(tZero)
}

func (o Option[T]) String() string {
	if o.value == nil {
		return "None"
	}

	return fmt.Sprintf("Some(%v)", *o.value)
}
