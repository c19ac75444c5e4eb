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

import "testing"

// TestMovingCachedDSAndResampleDSHaveDistinctIDs checks that two
// instances sharing a label are still distinguishable by ID, per
// movingcache.go/resample.go's uuid-based instance identity.
func TestMovingCachedDSAndResampleDSHaveDistinctIDs(t *testing.T) {
	src1 := &testTableSource{n: 1}
	src2 := &testTableSource{n: 1}
	a := NewMovingCachedDS("same-label", NewTableProxySource("same-label", src1), PassAllFilters{}, 1)
	b := NewMovingCachedDS("same-label", NewTableProxySource("same-label", src2), PassAllFilters{}, 1)
	if a.ID() == b.ID() {
		t.Fatal("two distinct MovingCachedDS instances share an ID")
	}

	rsrc1 := &resampleTestSource{n: 1}
	rsrc2 := &resampleTestSource{n: 1}
	r1, err := NewResampleDS[float64]("same-label", rsrc1, PassAllFilters{}, 1, "t", 1, 0, 1, []Reader[float64]{literalReader[float64]{values: []float64{0}}})
	must(t, err)
	r2, err := NewResampleDS[float64]("same-label", rsrc2, PassAllFilters{}, 1, "t", 1, 0, 1, []Reader[float64]{literalReader[float64]{values: []float64{0}}})
	must(t, err)
	if r1.ID() == r2.ID() {
		t.Fatal("two distinct ResampleDS instances share an ID")
	}
}
