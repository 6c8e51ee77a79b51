package scoped

import (
	"log/slog"
	"maps"
	"reflect"
	"sync/atomic"

	"github.com/oliverbestmann/scoped/internal/gls"
)

type slotInfo struct {
	Id   gls.SlotId
	Name string
	Type reflect.Type
}

var slotIdCounter atomic.Uint32

// all slots ever declared, copied on write
var slotInfos = func() *atomic.Pointer[map[gls.SlotId]*slotInfo] {
	var ptr atomic.Pointer[map[gls.SlotId]*slotInfo]
	ptr.Store(&map[gls.SlotId]*slotInfo{})
	return &ptr
}()

func registerSlot(name string, ty reflect.Type) *slotInfo {
	info := &slotInfo{
		Id:   gls.SlotId(slotIdCounter.Add(1)),
		Name: name,
		Type: ty,
	}

	for {
		previousInfos := slotInfos.Load()

		newInfos := maps.Clone(*previousInfos)
		newInfos[info.Id] = info

		if slotInfos.CompareAndSwap(previousInfos, &newInfos) {
			slog.Debug(
				"New slot declared",
				slog.String("name", info.Name),
				slog.String("type", info.Type.String()),
				slog.Int("id", int(info.Id)),
			)

			return info
		}
	}
}

func slotInfoOf(id gls.SlotId) *slotInfo {
	return (*slotInfos.Load())[id]
}
