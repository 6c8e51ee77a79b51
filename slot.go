package scoped

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/oliverbestmann/scoped/internal/gls"
)

// Slot is a goroutine local storage location for a reference to a T.
// T may be an interface type, in which case readers observe the dynamic
// value that was installed, including its methods.
//
// A Slot must be created with Declare and must not be copied.
type Slot[T any] struct {
	_    noCopy
	info *slotInfo
}

// Declare creates a new slot for references to T. Every call returns a
// distinct slot, even if name and T are the same. The name is only used
// for diagnostics.
//
// Slots are meant to be declared once, usually as package level variables.
// Each call copies the slot registry, so Declare does not belong on a per
// request path.
func Declare[T any](name string) *Slot[T] {
	return &Slot[T]{
		info: registerSlot(name, reflect.TypeFor[T]()),
	}
}

func (s *Slot[T]) id() gls.SlotId {
	if s == nil || s.info == nil {
		panic(fmt.Errorf("slot of type %s used without Declare", reflect.TypeFor[T]()))
	}

	return s.info.Id
}

// Set installs ref for the duration of fn. See the package level Set.
func (s *Slot[T]) Set(ref *T, fn func()) {
	Set(s, ref, func() struct{} {
		fn()
		return struct{}{}
	})
}

// SetErr installs ref for the duration of fn and returns its error.
func (s *Slot[T]) SetErr(ref *T, fn func() error) error {
	return Set(s, ref, fn)
}

// With calls fn with the current value of the slot.
// See the package level With.
func (s *Slot[T]) With(fn func(Option[T])) {
	With(s, func(value Option[T]) struct{} {
		fn(value)
		return struct{}{}
	})
}

// IsSet reports whether a scope for this slot is active on the calling
// goroutine.
func (s *Slot[T]) IsSet() bool {
	return s.Depth() > 0
}

// Depth returns the number of nested scopes active for this slot on the
// calling goroutine.
func (s *Slot[T]) Depth() int {
	_, depth := gls.Load(s.id())
	return depth
}

func (s *Slot[T]) Name() string {
	s.id()
	return s.info.Name
}

// Type returns the reflect.Type of T.
func (s *Slot[T]) Type() reflect.Type {
	return reflect.TypeFor[T]()
}

func (s *Slot[T]) String() string {
	if s == nil || s.info == nil {
		return fmt.Sprintf("<undeclared>[%s]", reflect.TypeFor[T]())
	}

	return fmt.Sprintf("%s[%s]", s.info.Name, s.info.Type)
}

func (s *Slot[T]) LogValue() slog.Value {
	return slog.StringValue(s.String())
}
