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

// RColumnCache is a per-slot sliding FIFO of decoded values of type T,
// indexed by absolute source entry. It stores only a contiguous range
// of entries, which keeps Get O(1) and the data structure a plain
// queue, matching the monotonic forward-scan discipline imposed on
// the rest of the pipeline.
//
// Elements are stored as boxed pointers (*T) rather than a dense
// slice so that a *T returned by Get remains valid across a later
// PurgeTill that re-slices the underlying buffer -- the same
// pointer-stability guarantee std::deque<T> gives the original C++
// implementation. T = bool needs no special case in Go the way
// std::vector<bool> forces one in C++: a []*bool is exactly as
// addressable as a []*int, so one implementation serves every T.
type RColumnCache[T any] struct {
	label  string
	nSlots int

	// reader supplies values for Load; nil entries are legal and mean
	// the cache is only ever filled out-of-band via LoadValue (the
	// resampler's snapshot-time cache never has a reader).
	reader []Reader[T]

	buffer     [][]*T
	firstEntry []paddedInt64
}

// NewRColumnCache builds a cache with one reader per slot. readers may
// be nil (a cache filled only via LoadValue) or contain nil entries
// for individual slots that never call Load.
func NewRColumnCache[T any](label string, nSlots int, readers []Reader[T]) *RColumnCache[T] {
	return &RColumnCache[T]{
		label:      label,
		nSlots:     nSlots,
		reader:     readers,
		buffer:     make([][]*T, nSlots),
		firstEntry: make([]paddedInt64, nSlots),
	}
}

// InitSlot empties the slot's buffer and sets firstEntry to startEntry.
// Must be called exactly once per slot before any other per-slot
// operation.
func (c *RColumnCache[T]) InitSlot(slot int, startEntry int64) {
	c.buffer[slot] = c.buffer[slot][:0]
	c.firstEntry[slot].Store(startEntry)
}

// FinaliseSlot clears the slot's buffer. firstEntry is not meaningful
// afterwards.
func (c *RColumnCache[T]) FinaliseSlot(slot int) {
	c.buffer[slot] = nil
}

// Get returns a pointer to the stored element at entry, valid until
// the next PurgeTill that removes it.
func (c *RColumnCache[T]) Get(slot int, entry int64) (*T, error) {
	first := c.firstEntry[slot].Load()
	index := entry - first
	buf := c.buffer[slot]
	if index < 0 || index >= int64(len(buf)) {
		return nil, &RangeError{Label: c.label, Slot: slot, Entry: entry, Msg: "trying to access value outside cache range"}
	}
	return buf[index], nil
}

// Load appends the value reader[slot].Get(sourceEntry) to the buffer.
// Requires a configured reader for slot.
func (c *RColumnCache[T]) Load(slot int, sourceEntry int64) error {
	if c.reader == nil || c.reader[slot] == nil {
		return &ConfigError{Label: c.label, Msg: "Load called without a configured reader"}
	}
	v, err := c.reader[slot].Get(sourceEntry)
	if err != nil {
		return err
	}
	c.buffer[slot] = append(c.buffer[slot], v)
	return nil
}

// LoadValue appends v directly, for caches whose values are produced
// out-of-band (the resampler's snapshot-time cache).
func (c *RColumnCache[T]) LoadValue(slot int, v T) {
	c.buffer[slot] = append(c.buffer[slot], &v)
}

// PurgeTill drops the prefix of the buffer while firstEntry <= entry.
// If the buffer empties before firstEntry advances past entry, that is
// a range error -- the caller asked to purge more than the cache ever
// held.
func (c *RColumnCache[T]) PurgeTill(slot int, entry int64) error {
	first := c.firstEntry[slot].Load()
	buf := c.buffer[slot]
	for len(buf) > 0 && first <= entry {
		buf = buf[1:]
		first++
	}
	c.buffer[slot] = buf
	c.firstEntry[slot].Store(first)
	if first <= entry {
		return &RangeError{Label: c.label, Slot: slot, Entry: entry, Msg: "trying to purge more values than possible"}
	}
	return nil
}

// StoredRange returns [lo, hi) with lo = firstEntry and hi = firstEntry + len(buffer).
func (c *RColumnCache[T]) StoredRange(slot int) (int64, int64) {
	first := c.firstEntry[slot].Load()
	return first, first + int64(len(c.buffer[slot]))
}

// newReader implements cacheHandle: it boxes a typed
// RColumnCacheReader[T] behind the any return type MovingCachedDS's
// GetColumnReaders uses to stay agnostic of T.
func (c *RColumnCache[T]) newReader(slot int) any {
	return NewRColumnCacheReader[T](slot, c)
}

// newRemappingReader boxes a RemappingReader[T] over this cache, used
// by RResampleDS.GetColumnReaders to redirect a grid index to the
// source-cache index resampleIndices maps it to.
func (c *RColumnCache[T]) newRemappingReader(slot int, remap func(int64) int64) any {
	return NewRemappingReader[T](NewRColumnCacheReader[T](slot, c), remap)
}

// RColumnCacheReader is a Reader over a cache at a fixed slot: a
// non-owning (slot, cache) pair.
type RColumnCacheReader[T any] struct {
	slot  int
	cache *RColumnCache[T]
}

// NewRColumnCacheReader builds a reader bound to slot and cache.
func NewRColumnCacheReader[T any](slot int, cache *RColumnCache[T]) *RColumnCacheReader[T] {
	return &RColumnCacheReader[T]{slot: slot, cache: cache}
}

func (r *RColumnCacheReader[T]) Get(entry int64) (*T, error) {
	return r.cache.Get(r.slot, entry)
}

// cacheHandle is the untyped handle MovingCachedDS stores per column
// name: a tagged-type-erased view over RColumnCache[T] for some T
// fixed at SetupColumn time, per the "polymorphism over cell type"
// design note -- Get itself stays fully typed behind the readers that
// newReader / newRemappingReader return, sound because column types are
// immutable after configuration.
type cacheHandle interface {
	InitSlot(slot int, startEntry int64)
	FinaliseSlot(slot int)
	Load(slot int, sourceEntry int64) error
	PurgeTill(slot int, entry int64) error
	StoredRange(slot int) (int64, int64)
	newReader(slot int) any
	newRemappingReader(slot int, remap func(int64) int64) any
}
