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

// PersistentDefine is a stateful per-slot computed column: each slot
// holds one value of type P, and expression is free to mutate it on
// every Update call. Unlike a pure per-row Define, its result depends
// on the whole history of entries seen by the slot so far (rolling
// sums, exponential moving averages), which is exactly why repeated
// access must be monotonic -- grounded on RDefinePersistent::Update's
// "can't iterate backwards" check (original_source).
//
// inputs supplies one or more reader columns of the same static type
// I; expression receives their values for the current entry alongside
// the mutable state and the entry itself.
type PersistentDefine[P any, I any] struct {
	label      string
	expression func(state *P, entry int64, inputs []I)

	state       []P
	lastChecked []paddedInt64
	inputs      [][]Reader[I]
}

// NewPersistentDefine builds a PersistentDefine over nSlots slots.
// inputs[slot] is the list of input-column readers bound to that slot;
// all slots must supply the same number of input columns.
func NewPersistentDefine[P any, I any](label string, nSlots int, inputs [][]Reader[I], expression func(state *P, entry int64, inputs []I)) *PersistentDefine[P, I] {
	return &PersistentDefine[P, I]{
		label:       label,
		expression:  expression,
		state:       make([]P, nSlots),
		lastChecked: make([]paddedInt64, nSlots),
		inputs:      inputs,
	}
}

// InitSlot resets the slot's state to P's zero value and its
// last-seen entry to -1.
func (d *PersistentDefine[P, I]) InitSlot(slot int) {
	var zero P
	d.state[slot] = zero
	d.lastChecked[slot].Store(-1)
}

// FinaliseSlot is a no-op: persistent state has no resources to
// release, unlike a cache's upstream reader.
func (d *PersistentDefine[P, I]) FinaliseSlot(slot int) {}

// Update evaluates expression(state, entry, inputs) unless entry
// equals the slot's last-seen entry, in which case it is a no-op.
// entry < last-seen fails with MonotonicityError.
func (d *PersistentDefine[P, I]) Update(slot int, entry int64) error {
	last := d.lastChecked[slot].Load()
	if entry < last {
		return &MonotonicityError{Label: d.label, Slot: slot, Entry: entry, LastSeen: last}
	}
	if entry == last {
		return nil
	}

	values := make([]I, len(d.inputs[slot]))
	for i, r := range d.inputs[slot] {
		v, err := r.Get(entry)
		if err != nil {
			return err
		}
		values[i] = *v
	}

	d.expression(&d.state[slot], entry, values)
	d.lastChecked[slot].Store(entry)
	return nil
}

// ValuePtr returns the address of the slot's persistent state.
func (d *PersistentDefine[P, I]) ValuePtr(slot int) *P {
	return &d.state[slot]
}
