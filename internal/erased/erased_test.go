package erased

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

type Shape interface {
	Area() float64
}

type Square struct {
	Side float64
}

func (s Square) Area() float64 {
	return s.Side * s.Side
}

type Circle struct {
	Radius float64
}

func (c *Circle) Area() float64 {
	return 3 * c.Radius * c.Radius
}

func TestRoundTrip(t *testing.T) {
	value := 42

	ref := Of(&value)
	require.False(t, ref.IsZero())
	require.Same(t, &value, As[int](ref))

	// the reference is not a copy
	*As[int](ref) = 7
	require.Equal(t, 7, value)
}

func TestInterfaceDispatch(t *testing.T) {
	var square Shape = Square{Side: 2}
	var circle Shape = &Circle{Radius: 1}

	refSquare := Of(&square)
	refCircle := Of(&circle)

	require.Equal(t, 4.0, (*As[Shape](refSquare)).Area())
	require.Equal(t, 3.0, (*As[Shape](refCircle)).Area())

	// dispatch follows the dynamic value behind the reference
	circle.(*Circle).Radius = 2
	require.Equal(t, 12.0, (*As[Shape](refCircle)).Area())
}

func TestType(t *testing.T) {
	var zero Ref
	require.True(t, zero.IsZero())
	require.Nil(t, zero.Type())
	require.Equal(t, "none", zero.String())

	var shape Shape = Square{}
	require.Equal(t, reflect.TypeFor[Shape](), Of(&shape).Type())
	require.Equal(t, reflect.TypeFor[string](), Of(new(string)).Type())
	require.Equal(t, reflect.TypeFor[*Circle](), Of(new(*Circle)).Type())
}

func TestDistinctTypesHaveDistinctDescriptors(t *testing.T) {
	require.NotEqual(t, typeDescriptor[int](), typeDescriptor[int64]())
	require.NotEqual(t, typeDescriptor[Shape](), typeDescriptor[Square]())
	require.Equal(t, typeDescriptor[Shape](), typeDescriptor[Shape]())
}

func TestOfNilPanics(t *testing.T) {
	require.Panics(t, func() {
		Of[int](nil)
	})
}

func BenchmarkRoundTrip(b *testing.B) {
	value := 1

	for b.Loop() {
		ref := Of(&value)
		_ = *As[int](ref)
	}
}
