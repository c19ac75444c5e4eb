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

// DefineReader adapts a PersistentDefine's current-slot state into a
// Reader[P]: spec.md §4.7's "define reader" case, where a column
// projected through MovingCachedDS resolves to a pre-existing computed
// column in the upstream registry rather than a table or tree column.
// Get(entry) drives the define's own monotonic Update before returning
// its state pointer, so a column wired this way still benefits from
// PersistentDefine's "don't recompute the same entry twice" memoation
// even though it is read through an ordinary Reader[P].
type DefineReader[P any, I any] struct {
	slot   int
	define *PersistentDefine[P, I]
}

// NewDefineReader binds a DefineReader to slot and define.
func NewDefineReader[P any, I any](slot int, define *PersistentDefine[P, I]) *DefineReader[P, I] {
	return &DefineReader[P, I]{slot: slot, define: define}
}

func (r *DefineReader[P, I]) Get(entry int64) (*P, error) {
	if err := r.define.Update(r.slot, entry); err != nil {
		return nil, err
	}
	return r.define.ValuePtr(r.slot), nil
}
