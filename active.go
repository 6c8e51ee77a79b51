package scoped

import (
	"cmp"
	"log/slog"
	"reflect"
	"slices"

	"github.com/oliverbestmann/scoped/internal/gls"
)

// Binding describes a slot that holds a value on the calling goroutine.
type Binding struct {
	Name  string
	Type  reflect.Type
	Depth int

	id gls.SlotId
}

func (b Binding) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", b.Name),
		slog.String("type", b.Type.String()),
		slog.Int("depth", b.Depth),
	)
}

// Active lists the slots with an active scope on the calling goroutine in
// declaration order. It never exposes the installed references.
func Active() []Binding {
	snapshot := gls.Snapshot()

	bindings := make([]Binding, 0, len(snapshot))
	for _, binding := range snapshot {
		info := slotInfoOf(binding.Slot)
		if info == nil {
			continue
		}

		bindings = append(bindings, Binding{
			Name:  info.Name,
			Type:  info.Type,
			Depth: binding.Depth,
			id:    info.Id,
		})
	}

	slices.SortFunc(bindings, func(a, b Binding) int {
		return cmp.Compare(a.id, b.id)
	})

	return bindings
}
