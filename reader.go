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

// Reader is a type-erased single-value fetch by absolute entry index.
// Get returns a stable address valid until the next call that purges
// the entry it points into; implementations may cache internally.
// Readers are slot-owned: no reader is ever called from two slots.
type Reader[T any] interface {
	Get(entry int64) (*T, error)
}

// RemappingReader wraps a child reader and rewrites the entry index
// through a pure function before delegating. Used to redirect a
// downstream consumer to a cache index that differs from its own
// entry axis -- the mechanism the resampler relies on to turn a grid
// index into the source-cache index of the last-known-value row.
type RemappingReader[T any] struct {
	child  Reader[T]
	remap  func(entry int64) int64
}

// NewRemappingReader builds a RemappingReader over child, redirecting
// every Get(e) to child.Get(remap(e)).
func NewRemappingReader[T any](child Reader[T], remap func(int64) int64) *RemappingReader[T] {
	return &RemappingReader[T]{child: child, remap: remap}
}

func (r *RemappingReader[T]) Get(entry int64) (*T, error) {
	return r.child.Get(r.remap(entry))
}
