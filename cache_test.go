/*
Copyright (C) 2024  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package rwindow

import (
	"errors"
	"testing"
)

// literalReader returns values[entry] verbatim, for tests that just
// need a fixed column of data.
type literalReader[T any] struct{ values []T }

func (r literalReader[T]) Get(entry int64) (*T, error) {
	if entry < 0 || int(entry) >= len(r.values) {
		return nil, &RangeError{Label: "literal", Entry: entry, Msg: "out of range"}
	}
	v := r.values[entry]
	return &v, nil
}

func TestRColumnCacheLoadAndGet(t *testing.T) {
	t.Helper()
	readers := []Reader[int64]{literalReader[int64]{values: []int64{10, 20, 30, 40, 50}}}
	c := NewRColumnCache[int64]("x", 1, readers)
	c.InitSlot(0, 0)

	for i := int64(0); i < 5; i++ {
		if err := c.Load(0, i); err != nil {
			t.Fatalf("Load(%d): %v", i, err)
		}
	}
	lo, hi := c.StoredRange(0)
	if lo != 0 || hi != 5 {
		t.Fatalf("StoredRange = [%d,%d), want [0,5)", lo, hi)
	}
	for i := int64(0); i < 5; i++ {
		v, err := c.Get(0, i)
		if err != nil {
			t.Fatalf("Get(%d): %v", i, err)
		}
		if *v != (i+1)*10 {
			t.Errorf("Get(%d) = %d, want %d", i, *v, (i+1)*10)
		}
	}
}

func TestRColumnCacheGetOutOfRangeIsRangeError(t *testing.T) {
	c := NewRColumnCache[int64]("x", 1, []Reader[int64]{literalReader[int64]{values: []int64{1, 2}}})
	c.InitSlot(0, 0)
	must(t, c.Load(0, 0))
	if _, err := c.Get(0, 1); !errors.Is(err, ErrRange) {
		t.Fatalf("Get past buffer end: got %v, want ErrRange", err)
	}
	if _, err := c.Get(0, -1); !errors.Is(err, ErrRange) {
		t.Fatalf("Get before firstEntry: got %v, want ErrRange", err)
	}
}

func TestRColumnCachePurgeTill(t *testing.T) {
	c := NewRColumnCache[int64]("x", 1, []Reader[int64]{literalReader[int64]{values: []int64{1, 2, 3, 4, 5}}})
	c.InitSlot(0, 0)
	for i := int64(0); i < 5; i++ {
		must(t, c.Load(0, i))
	}
	if err := c.PurgeTill(0, 2); err != nil {
		t.Fatalf("PurgeTill(2): %v", err)
	}
	lo, hi := c.StoredRange(0)
	if lo != 3 || hi != 5 {
		t.Fatalf("StoredRange after purge = [%d,%d), want [3,5)", lo, hi)
	}
	if _, err := c.Get(0, 2); !errors.Is(err, ErrRange) {
		t.Fatalf("Get(2) after purge: got %v, want ErrRange", err)
	}
}

func TestRColumnCachePurgeTillBeyondBufferIsRangeError(t *testing.T) {
	c := NewRColumnCache[int64]("x", 1, []Reader[int64]{literalReader[int64]{values: []int64{1, 2}}})
	c.InitSlot(0, 0)
	must(t, c.Load(0, 0))
	must(t, c.Load(0, 1))
	if err := c.PurgeTill(0, 5); !errors.Is(err, ErrRange) {
		t.Fatalf("PurgeTill past everything stored: got %v, want ErrRange", err)
	}
}

func TestRColumnCacheLoadValueAndNoReader(t *testing.T) {
	c := NewRColumnCache[float64]("snapshot", 1, make([]Reader[float64], 1))
	c.InitSlot(0, 0)
	c.LoadValue(0, 3.5)
	c.LoadValue(0, 7.0)
	v, err := c.Get(0, 1)
	must(t, err)
	if *v != 7.0 {
		t.Errorf("Get(1) = %v, want 7.0", *v)
	}
	if err := c.Load(0, 0); !errors.Is(err, ErrConfig) {
		t.Fatalf("Load on a reader-less cache: got %v, want ErrConfig", err)
	}
}

func TestRColumnCacheBoolSpecialisation(t *testing.T) {
	// T = bool exercises the same boxed-*T implementation as every
	// other T -- no std::vector<bool>-style special case is needed in
	// Go, per cache.go's design comment.
	c := NewRColumnCache[bool]("flags", 1, []Reader[bool]{literalReader[bool]{values: []bool{true, false, true}}})
	c.InitSlot(0, 0)
	for i := int64(0); i < 3; i++ {
		must(t, c.Load(0, i))
	}
	v, err := c.Get(0, 1)
	must(t, err)
	if *v != false {
		t.Errorf("Get(1) = %v, want false", *v)
	}
}

func TestRemappingReader(t *testing.T) {
	child := literalReader[int64]{values: []int64{100, 200, 300}}
	remapped := NewRemappingReader[int64](child, func(e int64) int64 { return e * 2 % 3 })
	v, err := remapped.Get(1) // remap(1) = 2
	must(t, err)
	if *v != 300 {
		t.Errorf("RemappingReader.Get(1) = %d, want 300", *v)
	}
}

func TestRColumnCacheInitSlotResetsState(t *testing.T) {
	c := NewRColumnCache[int64]("x", 1, []Reader[int64]{literalReader[int64]{values: []int64{1, 2, 3}}})
	c.InitSlot(0, 5)
	must(t, c.Load(0, 0))
	lo, hi := c.StoredRange(0)
	if lo != 5 || hi != 6 {
		t.Fatalf("StoredRange = [%d,%d), want [5,6)", lo, hi)
	}
	c.FinaliseSlot(0)
	c.InitSlot(0, 0) // round-trip: observably identical to a fresh cache
	lo, hi = c.StoredRange(0)
	if lo != 0 || hi != 0 {
		t.Fatalf("StoredRange after re-InitSlot = [%d,%d), want [0,0)", lo, hi)
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
