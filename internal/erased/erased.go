// Package erased stores references without their static type.
//
// A Ref is the pair of an address and the runtime type descriptor of the
// pointer it was taken from. For interface types the referenced value is an
// interface value itself and carries its own dispatch table, so a
// reconstructed reference dispatches exactly like the original one.
package erased

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/oliverbestmann/scoped/internal/assert"
)

// eface mirrors the runtime layout of an empty interface value.
type eface struct {
	typ, val unsafe.Pointer
}

// Ref is a reference to a value of some type T with T erased.
// The zero Ref is the absent reference.
type Ref struct {
	addr unsafe.Pointer
	typ  unsafe.Pointer
}

// Of erases the static type of ref. ref must not be nil.
func Of[T any](ref *T) Ref {
	if ref == nil {
		panic(fmt.Errorf("can not erase a nil %T", ref))
	}

	return Ref{
		addr: unsafe.Pointer(ref),
		typ:  typeDescriptor[T](),
	}
}

// As reconstructs the typed reference. T must be the type the Ref was
// erased from, which callers guarantee by binding each Ref to exactly one
// type parameter. Debug builds verify this.
func As[T any](r Ref) *T {
	if assert.Enabled && r.typ != typeDescriptor[T]() {
		panic(fmt.Errorf("erased reference of type %s reconstructed as %s",
			r.Type(), reflect.TypeFor[T]()))
	}

	return (*T)(r.addr)
}

// IsZero reports whether r is the absent reference.
func (r Ref) IsZero() bool {
	return r.addr == nil
}

// Type returns the static type the reference was erased from, or nil for
// the zero Ref.
func (r Ref) Type() reflect.Type {
	if r.typ == nil {
		return nil
	}

	// a typed nil *T, rebuilt from the stored descriptor
	var value any
	(*eface)(unsafe.Pointer(&value)).typ = r.typ
	return reflect.TypeOf(value).Elem()
}

func (r Ref) String() string {
	if r.IsZero() {
		return "none"
	}

	return fmt.Sprintf("*%s(%p)", r.Type(), r.addr)
}

// typeDescriptor returns the runtime type descriptor of *T. Storing a nil
// pointer in an interface does not allocate.
func typeDescriptor[T any]() unsafe.Pointer {
	var value any = (*T)(nil)
	return (*eface)(unsafe.Pointer(&value)).typ
}
