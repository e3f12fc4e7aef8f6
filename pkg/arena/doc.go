// Package arena provides a generational arena: slot storage addressed by
// handles that stay valid across unrelated insertions and removals and
// reliably report "gone" once their value is removed.
//
// # Handles
//
// An [Index] is a slot number plus the generation of that slot at insertion
// time. Removing a value bumps its slot's generation, so a handle held past
// removal fails to resolve instead of aliasing whatever reuses the slot:
//
//	a := arena.New[string]()
//	i := a.Insert("and")
//	a.Remove(i)
//	j := a.Insert("or") // reuses the slot
//	_, ok := a.Get(i)   // ok == false
//
// # Paired access
//
// [Arena.Get2] resolves two handles at once so two values can be mutated
// together. Two handles naming the same slot are rejected rather than
// returning aliased pointers.
//
// # Iteration
//
// [Arena.All] yields live values in ascending slot order. The order is
// deterministic for a given sequence of operations, which is enough to assign
// dense sequential ids to a snapshot.
package arena
