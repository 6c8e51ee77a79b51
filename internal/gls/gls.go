// Package gls keeps the slot values of each goroutine.
//
// The values of one goroutine are only ever touched by that goroutine. The
// shared index from goroutine id to its Locals is sharded and guarded by a
// mutex per shard. A goroutine's Locals is dropped from the index as soon as
// its last active scope exits, so exited goroutines leave nothing behind.
package gls

import (
	"sync"

	"github.com/petermattis/goid"

	"github.com/oliverbestmann/scoped/internal/assert"
	"github.com/oliverbestmann/scoped/internal/erased"
	"github.com/oliverbestmann/scoped/internal/typedpool"
)

// SlotId identifies a declared slot.
type SlotId uint32

type entry struct {
	ref   erased.Ref
	depth int
}

// Locals holds the installed references of a single goroutine.
type Locals struct {
	goid    int64
	entries map[SlotId]entry
}

const shardCount = 64

type shard struct {
	mu     sync.Mutex
	locals map[int64]*Locals
}

var table [shardCount]shard

var pool = typedpool.New(func(l *Locals) {
	l.goid = 0
	clear(l.entries)
})

func shardOf(goid int64) *shard {
	return &table[uint64(goid)%shardCount]
}

func lookup(goid int64) *Locals {
	s := shardOf(goid)

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.locals[goid]
}

func acquire(goid int64) *Locals {
	s := shardOf(goid)

	s.mu.Lock()
	defer s.mu.Unlock()

	if locals, ok := s.locals[goid]; ok {
		return locals
	}

	if s.locals == nil {
		s.locals = make(map[int64]*Locals)
	}

	locals := pool.Get()
	locals.goid = goid

	if locals.entries == nil {
		locals.entries = make(map[SlotId]entry, 4)
	}

	s.locals[goid] = locals

	return locals
}

func release(locals *Locals) {
	s := shardOf(locals.goid)

	s.mu.Lock()
	delete(s.locals, locals.goid)
	s.mu.Unlock()

	pool.Put(locals)
}

// Load returns the reference installed for slot on the calling goroutine
// together with the current nesting depth. An empty slot yields the zero
// Ref and depth zero.
func Load(slot SlotId) (erased.Ref, int) {
	locals := lookup(goid.Get())
	if locals == nil {
		return erased.Ref{}, 0
	}

	current := locals.entries[slot]
	return current.ref, current.depth
}

// Binding describes one occupied slot of the calling goroutine.
type Binding struct {
	Slot  SlotId
	Ref   erased.Ref
	Depth int
}

// Snapshot returns the occupied slots of the calling goroutine in no
// particular order.
func Snapshot() []Binding {
	locals := lookup(goid.Get())
	if locals == nil {
		return nil
	}

	bindings := make([]Binding, 0, len(locals.entries))
	for slot, current := range locals.entries {
		bindings = append(bindings, Binding{Slot: slot, Ref: current.ref, Depth: current.depth})
	}

	return bindings
}

// Goroutines returns the number of goroutines that currently have at least
// one active scope.
func Goroutines() int {
	var count int

	for idx := range table {
		s := &table[idx]
		s.mu.Lock()
		count += len(s.locals)
		s.mu.Unlock()
	}

	return count
}

// Frame restores a slot to the value it held before Install.
// A Frame must be restored exactly once, on the goroutine that created it.
type Frame struct {
	locals    *Locals
	slot      SlotId
	installed erased.Ref
	previous  entry
}

// Install makes ref the current value of slot on the calling goroutine.
// The caller must defer Restore on the returned Frame.
func Install(slot SlotId, ref erased.Ref) Frame {
	locals := acquire(goid.Get())

	previous := locals.entries[slot]
	locals.entries[slot] = entry{ref: ref, depth: previous.depth + 1}

	return Frame{
		locals:    locals,
		slot:      slot,
		installed: ref,
		previous:  previous,
	}
}

// Restore writes the previous value of the slot back.
func (f *Frame) Restore() {
	locals := f.locals

	if assert.Enabled {
		current := goid.Get()
		assert.That(locals.goid == current,
			"slot %d installed on goroutine %d restored on goroutine %d", f.slot, locals.goid, current)

		top := locals.entries[f.slot]
		assert.That(top.ref == f.installed && top.depth == f.previous.depth+1,
			"slot %d restored out of order: holds %s at depth %d, expected %s at depth %d",
			f.slot, top.ref, top.depth, f.installed, f.previous.depth+1)
	}

	if f.previous.depth > 0 {
		locals.entries[f.slot] = f.previous
		return
	}

	delete(locals.entries, f.slot)

	if len(locals.entries) == 0 {
		release(locals)
	}
}
