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

// resampleTestSource is a minimal table-style DataSource for
// ResampleDS tests: n rows, SetEntry succeeds while entry < n.
type resampleTestSource struct{ n int64 }

func (s *resampleTestSource) SetNSlots(n int) error { return nil }
func (s *resampleTestSource) GetEntryRanges() ([]EntryRange, error) {
	return []EntryRange{{First: 0, Last: s.n}}, nil
}
func (s *resampleTestSource) InitSlot(slot int, firstEntry int64) error { return nil }
func (s *resampleTestSource) SetEntry(slot int, entry int64) (bool, error) {
	return entry >= 0 && entry < s.n, nil
}
func (s *resampleTestSource) FinaliseSlot(slot int) error { return nil }
func (s *resampleTestSource) Initialise() error           { return nil }
func (s *resampleTestSource) Finalise() error              { return nil }
func (s *resampleTestSource) GetColumnReaders(int, string, any) (any, error) {
	return nil, nil
}
func (s *resampleTestSource) HasColumn(name string) bool              { return true }
func (s *resampleTestSource) GetTypeName(name string) (string, error) { return "", nil }
func (s *resampleTestSource) GetColumnNames() []string                { return nil }

// buildResampleDS assembles a ResampleDS[float64] over a "v"-valued
// string column, sharing the time/value fixtures S5 and S6 both use.
func buildResampleDS(t *testing.T, n int64, times []float64, values []string, t0, t1, delta float64) *ResampleDS[float64] {
	t.Helper()
	src := &resampleTestSource{n: n}
	r, err := NewResampleDS[float64]("resample", src, PassAllFilters{}, 1, "t", delta, t0, t1,
		[]Reader[float64]{literalReader[float64]{values: times}})
	must(t, err)
	must(t, SetupResampledColumn[float64, string](r, "v", "string", []Reader[string]{literalReader[string]{values: values}}))
	must(t, r.SetNSlots(1))
	must(t, r.Initialise())
	must(t, r.InitSlot(0, 0))
	return r
}

// TestS5RegularGridLastKnownValueHold exercises spec.md §8's S5: a
// regular grid over irregular timestamps resolves to the last known
// value at or before each grid point, never interpolated.
func TestS5RegularGridLastKnownValueHold(t *testing.T) {
	times := []float64{0.0, 0.3, 0.7, 1.1, 1.8}
	values := []string{"A", "B", "C", "D", "E"}
	r := buildResampleDS(t, 5, times, values, 0, 2, 0.5)

	ranges, err := r.GetEntryRanges()
	must(t, err)
	if len(ranges) != 1 || ranges[0] != (EntryRange{First: 0, Last: 5}) {
		t.Fatalf("GetEntryRanges = %v, want [{0 5}]", ranges)
	}

	timeReader, err := r.GetColumnReaders(0, "t", float64(0))
	must(t, err)
	tr := timeReader.(Reader[float64])
	vReaderAny, err := r.GetColumnReaders(0, "v", "")
	must(t, err)
	vr := vReaderAny.(Reader[string])

	wantTimes := []float64{0.0, 0.5, 1.0, 1.5, 2.0}
	wantValues := []string{"A", "B", "C", "D", "E"}
	for e := int64(0); e < 5; e++ {
		ok, err := r.SetEntry(0, e)
		must(t, err)
		if !ok {
			t.Fatalf("SetEntry(0,%d) = false, want true", e)
		}
		tv, err := tr.Get(e)
		must(t, err)
		if *tv != wantTimes[e] {
			t.Errorf("grid time at %d = %v, want %v", e, *tv, wantTimes[e])
		}
		vv, err := vr.Get(e)
		must(t, err)
		if *vv != wantValues[e] {
			t.Errorf("grid value at %d = %q, want %q", e, *vv, wantValues[e])
		}
	}
	must(t, r.FinaliseSlot(0))
}

// TestS6ResampleHoldsLastRowPastEndOfData exercises spec.md §8's S6:
// once the upstream is exhausted, every remaining grid point still
// resolves to the final accepted row rather than failing.
func TestS6ResampleHoldsLastRowPastEndOfData(t *testing.T) {
	times := []float64{0.0, 0.3, 0.7, 1.1, 1.8}
	values := []string{"A", "B", "C", "D", "E"}
	r := buildResampleDS(t, 5, times, values, 0, 3, 0.5) // 7 grid points, 0..3.0

	ranges, err := r.GetEntryRanges()
	must(t, err)
	if len(ranges) != 1 || ranges[0] != (EntryRange{First: 0, Last: 7}) {
		t.Fatalf("GetEntryRanges = %v, want [{0 7}]", ranges)
	}

	timeReader, err := r.GetColumnReaders(0, "t", float64(0))
	must(t, err)
	tr := timeReader.(Reader[float64])
	vReaderAny, err := r.GetColumnReaders(0, "v", "")
	must(t, err)
	vr := vReaderAny.(Reader[string])

	wantTimes := []float64{0.0, 0.5, 1.0, 1.5, 2.0, 2.5, 3.0}
	wantValues := []string{"A", "B", "C", "D", "E", "E", "E"}
	for e := int64(0); e < 7; e++ {
		ok, err := r.SetEntry(0, e)
		must(t, err)
		if !ok {
			t.Fatalf("SetEntry(0,%d) = false, want true (exhaustion pins to last row)", e)
		}
		tv, err := tr.Get(e)
		must(t, err)
		if *tv != wantTimes[e] {
			t.Errorf("grid time at %d = %v, want %v", e, *tv, wantTimes[e])
		}
		vv, err := vr.Get(e)
		must(t, err)
		if *vv != wantValues[e] {
			t.Errorf("grid value at %d = %q, want %q", e, *vv, wantValues[e])
		}
	}
	must(t, r.FinaliseSlot(0))
}

// TestResampleDomainErrorWhenDataStartsAfterT0 checks spec.md §6's
// ResampleDomainError: the first accepted row must have time <= t0.
func TestResampleDomainErrorWhenDataStartsAfterT0(t *testing.T) {
	times := []float64{5.0, 6.0}
	values := []string{"X", "Y"}
	r := buildResampleDS(t, 2, times, values, 0, 10, 1)

	_, err := r.SetEntry(0, 0)
	if !errors.Is(err, ErrResampleDomain) {
		t.Fatalf("SetEntry(0,0) with first row past t0: got %v, want ResampleDomainError", err)
	}
}

// TestResampleDSRejectsMultipleSlots documents the Open Question
// resolution that a resample grid is a single timeline, independent
// of upstream slot partitioning (see DESIGN.md).
func TestResampleDSRejectsMultipleSlots(t *testing.T) {
	src := &resampleTestSource{n: 1}
	r, err := NewResampleDS[float64]("multi", src, PassAllFilters{}, 2, "t", 1, 0, 1,
		[]Reader[float64]{literalReader[float64]{values: []float64{0}}, literalReader[float64]{values: []float64{0}}})
	must(t, err)
	if _, err := r.GetEntryRanges(); !errors.Is(err, ErrConfig) {
		t.Fatalf("GetEntryRanges with NSlots=2: got %v, want ConfigError", err)
	}
}
