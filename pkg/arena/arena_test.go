package arena

import (
	"slices"
	"testing"
)

func TestInsertGet(t *testing.T) {
	a := New[string]()
	i := a.Insert("and")
	j := a.Insert("or")

	if i == j {
		t.Fatalf("handles should differ: %v", i)
	}
	if v, ok := a.Get(i); !ok || *v != "and" {
		t.Errorf("Get(i) = %v, %v, want and, true", v, ok)
	}
	if v, ok := a.Get(j); !ok || *v != "or" {
		t.Errorf("Get(j) = %v, %v, want or, true", v, ok)
	}
	if a.Len() != 2 {
		t.Errorf("Len() = %d, want 2", a.Len())
	}
}

func TestZeroIndexNeverResolves(t *testing.T) {
	a := New[int]()
	a.Insert(1)

	var zero Index
	if !zero.IsZero() {
		t.Error("zero Index should report IsZero")
	}
	if a.Contains(zero) {
		t.Error("zero Index should not resolve")
	}
}

func TestRemoveStale(t *testing.T) {
	a := New[string]()
	i := a.Insert("and")

	v, ok := a.Remove(i)
	if !ok || v != "and" {
		t.Fatalf("Remove(i) = %q, %v, want and, true", v, ok)
	}
	if _, ok := a.Remove(i); ok {
		t.Error("second Remove should report not-found")
	}

	j := a.Insert("or")
	if j.Slot() != i.Slot() {
		t.Fatalf("slot should be reused: got %d, want %d", j.Slot(), i.Slot())
	}
	if j.Generation() == i.Generation() {
		t.Fatal("reused slot should carry a new generation")
	}
	if _, ok := a.Get(i); ok {
		t.Error("stale handle should not resolve to the new value")
	}
	if v, ok := a.Get(j); !ok || *v != "or" {
		t.Errorf("Get(j) = %v, %v, want or, true", v, ok)
	}
}

func TestUnknownSlot(t *testing.T) {
	a := New[int]()
	other := New[int]()
	other.Insert(1)
	i := other.Insert(2)

	if _, ok := a.Get(i); ok {
		t.Error("handle from another arena should not resolve past its length")
	}
}

func TestGet2(t *testing.T) {
	a := New[int]()
	i := a.Insert(1)
	j := a.Insert(2)

	x, y := a.Get2(i, j)
	if x == nil || y == nil {
		t.Fatal("Get2 should resolve both handles")
	}
	*x, *y = *y, *x
	if v, _ := a.Get(i); *v != 2 {
		t.Errorf("after swap Get(i) = %d, want 2", *v)
	}

	if x, y := a.Get2(i, i); x != nil || y != nil {
		t.Error("Get2 with the same handle should reject aliasing")
	}

	a.Remove(j)
	x, y = a.Get2(i, j)
	if x == nil || y != nil {
		t.Errorf("Get2 with one stale handle = %v, %v, want value, nil", x, y)
	}

	k := a.Insert(3) // reuses j's slot
	if x, y := a.Get2(j, k); x != nil || y != nil {
		t.Error("Get2 on two generations of one slot should reject aliasing")
	}
}

func TestAllOrder(t *testing.T) {
	a := New[string]()
	i := a.Insert("a")
	a.Insert("b")
	a.Insert("c")
	a.Remove(i)
	a.Insert("d") // slot 0

	var got []string
	for _, v := range a.All() {
		got = append(got, *v)
	}
	want := []string{"d", "b", "c"}
	if !slices.Equal(got, want) {
		t.Errorf("All() = %v, want %v", got, want)
	}
}

func TestRetain(t *testing.T) {
	a := New[int]()
	var handles []Index
	for v := range 6 {
		handles = append(handles, a.Insert(v))
	}

	a.Retain(func(_ Index, v *int) bool { return *v%2 == 0 })

	if a.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", a.Len())
	}
	for v, h := range handles {
		if got := a.Contains(h); got != (v%2 == 0) {
			t.Errorf("Contains(%d) = %v", v, got)
		}
	}
}

func TestClear(t *testing.T) {
	a := New[int]()
	i := a.Insert(1)
	j := a.Insert(2)

	a.Clear()

	if a.Len() != 0 {
		t.Errorf("Len() = %d, want 0", a.Len())
	}
	if a.Contains(i) || a.Contains(j) {
		t.Error("handles should be stale after Clear")
	}
	k := a.Insert(3)
	if k == i || k == j {
		t.Error("new handle should not equal a cleared handle")
	}
}

func TestIndexString(t *testing.T) {
	a := New[int]()
	i := a.Insert(1)
	if got, want := i.String(), "Index:0, Generation:1"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
