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

import "golang.org/x/exp/constraints"

// Numeric constrains the resample grid's time axis to the types that
// support the +/* arithmetic the grid needs -- grounded on the domain
// stack's golang.org/x/exp/constraints wiring (the same constraint
// package NonLockingReadMap's go.mod already pulls in).
type Numeric interface {
	constraints.Integer | constraints.Float
}

// gridIndex returns (t - t0) / delta truncated toward zero: for t >= t0
// that is floor((t - t0) / delta), the grid index the reported sample
// at time t would round down to; for t < t0 it rounds up toward 0.
func gridIndex[T Numeric](t, t0, delta T) int64 {
	return int64((t - t0) / delta)
}
