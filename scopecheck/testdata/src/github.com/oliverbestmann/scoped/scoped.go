// Package scoped is a minimal stub of github.com/oliverbestmann/scoped for analyzer tests.
package scoped

type Option[T any] struct{ value *T }

func (o Option[T]) Get() (*T, bool) { return o.value, o.value != nil }

type Slot[T any] struct{}

func Declare[T any](name string) *Slot[T] { return &Slot[T]{} }

func (s *Slot[T]) Set(ref *T, fn func())                { fn() }
func (s *Slot[T]) SetErr(ref *T, fn func() error) error { return fn() }
func (s *Slot[T]) With(fn func(Option[T]))              { fn(Option[T]{}) }
func (s *Slot[T]) IsSet() bool                          { return false }
func (s *Slot[T]) Depth() int                           { return 0 }
func (s *Slot[T]) Name() string                         { return "" }

func Set[T, R any](slot *Slot[T], ref *T, fn func() R) R       { return fn() }
func SetValue[T, R any](slot *Slot[T], value T, fn func() R) R { return fn() }
func With[T, R any](slot *Slot[T], fn func(Option[T]) R) R     { return fn(Option[T]{}) }
