package arena

import (
	"fmt"
	"iter"
)

// Index is a stable handle into an [Arena]. It pairs a slot with the
// generation that slot had when the value was inserted, so a handle to a
// removed value never resolves to whatever later reuses the slot.
//
// The zero Index never resolves: generations start at 1.
type Index struct {
	slot uint32
	gen  uint32
}

// Slot returns the slot position of the handle.
func (i Index) Slot() uint32 { return i.slot }

// Generation returns the generation the handle was issued with.
func (i Index) Generation() uint32 { return i.gen }

// IsZero reports whether i is the zero handle.
func (i Index) IsZero() bool { return i.gen == 0 }

// String formats the handle as "Index:<slot>, Generation:<gen>".
func (i Index) String() string {
	return fmt.Sprintf("Index:%d, Generation:%d", i.slot, i.gen)
}

type entry[T any] struct {
	value T
	gen   uint32
	live  bool
}

// Arena stores values of type T in reusable slots addressed by [Index].
//
// Pointers returned by [Arena.Get], [Arena.Get2] and [Arena.All] are valid
// until the next call to [Arena.Insert] on the same arena.
//
// The zero value is not usable - use New. An Arena is not safe for
// concurrent use without external synchronization.
type Arena[T any] struct {
	entries []entry[T]
	free    []uint32
	len     int
}

// New creates an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Insert stores v and returns its handle. Freed slots are reused last-in
// first-out; a reused slot carries a newer generation than any handle
// previously issued for it.
func (a *Arena[T]) Insert(v T) Index {
	a.len++
	if n := len(a.free); n > 0 {
		slot := a.free[n-1]
		a.free = a.free[:n-1]
		e := &a.entries[slot]
		e.value = v
		e.live = true
		return Index{slot: slot, gen: e.gen}
	}
	slot := uint32(len(a.entries))
	a.entries = append(a.entries, entry[T]{value: v, gen: 1, live: true})
	return Index{slot: slot, gen: 1}
}

// Remove deletes the value behind i and returns it. It reports false if i
// is stale or was never issued by this arena.
func (a *Arena[T]) Remove(i Index) (T, bool) {
	var zero T
	e := a.entry(i)
	if e == nil {
		return zero, false
	}
	v := e.value
	a.release(i.slot)
	return v, true
}

// Get resolves i to a pointer to its live value.
func (a *Arena[T]) Get(i Index) (*T, bool) {
	e := a.entry(i)
	if e == nil {
		return nil, false
	}
	return &e.value, true
}

// Contains reports whether i resolves to a live value.
func (a *Arena[T]) Contains(i Index) bool { return a.entry(i) != nil }

// Get2 resolves two handles at once so both values can be mutated together.
// A side that does not resolve is nil. If a and b name the same slot both
// results are nil, since the two pointers would alias.
func (a *Arena[T]) Get2(x, y Index) (*T, *T) {
	if x.slot == y.slot {
		return nil, nil
	}
	var px, py *T
	if e := a.entry(x); e != nil {
		px = &e.value
	}
	if e := a.entry(y); e != nil {
		py = &e.value
	}
	return px, py
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int { return a.len }

// All iterates over live values in ascending slot order.
func (a *Arena[T]) All() iter.Seq2[Index, *T] {
	return func(yield func(Index, *T) bool) {
		for slot := range a.entries {
			e := &a.entries[slot]
			if !e.live {
				continue
			}
			if !yield(Index{slot: uint32(slot), gen: e.gen}, &e.value) {
				return
			}
		}
	}
}

// Retain removes every live value for which keep returns false.
func (a *Arena[T]) Retain(keep func(Index, *T) bool) {
	for slot := range a.entries {
		e := &a.entries[slot]
		if !e.live {
			continue
		}
		if !keep(Index{slot: uint32(slot), gen: e.gen}, &e.value) {
			a.release(uint32(slot))
		}
	}
}

// Clear removes every value. All outstanding handles become stale.
func (a *Arena[T]) Clear() {
	for slot := range a.entries {
		if a.entries[slot].live {
			a.release(uint32(slot))
		}
	}
}

func (a *Arena[T]) entry(i Index) *entry[T] {
	if int(i.slot) >= len(a.entries) {
		return nil
	}
	e := &a.entries[i.slot]
	if !e.live || e.gen != i.gen {
		return nil
	}
	return e
}

func (a *Arena[T]) release(slot uint32) {
	var zero T
	e := &a.entries[slot]
	e.value = zero
	e.live = false
	e.gen++
	if e.gen == 0 {
		e.gen = 1
	}
	a.free = append(a.free, slot)
	a.len--
}
