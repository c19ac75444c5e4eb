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
	"fmt"

	"github.com/google/uuid"
)

// MovingCachedDS is RMovingCachedDS (C7): it owns one RColumnCache per
// projected column, drives the upstream proxy's forward-fill loop, and
// publishes a range shifted by the aggregated window (L, R) so that
// every downstream entry e is guaranteed caches[c].Get(slot, e+k) for
// k in [L, R]. Grounded on spec.md §4.7's literal SetEntry pseudocode.
type MovingCachedDS struct {
	label string
	dsID  uuid.UUID

	nSlots  int
	source  *ProxySource
	filters FilterChain

	columnNames []string
	columnTypes map[string]string
	caches      map[string]cacheHandle

	l, r int64 // entryOffsetLimit: l <= 0 <= r

	ranges    []EntryRange // published (shifted) ranges, filled by GetEntryRanges
	slotRange []EntryRange // per-slot shifted range, set by InitSlot

	sourceLoaded []paddedInt64
	published    []paddedInt64
}

// NewMovingCachedDS builds a proxy over source, driven by filters, with
// room for nSlots independent slots. Columns are registered afterwards
// via the generic SetupColumn helper (Go methods cannot carry their own
// type parameters).
func NewMovingCachedDS(label string, source *ProxySource, filters FilterChain, nSlots int) *MovingCachedDS {
	if filters == nil {
		filters = PassAllFilters{}
	}
	return &MovingCachedDS{
		label:        label,
		dsID:         uuid.New(),
		nSlots:       nSlots,
		source:       source,
		filters:      filters,
		columnTypes:  make(map[string]string),
		caches:       make(map[string]cacheHandle),
		slotRange:    make([]EntryRange, nSlots),
		sourceLoaded: make([]paddedInt64, nSlots),
		published:    make([]paddedInt64, nSlots),
	}
}

// Label names the component in trace lines and error messages, ported
// from the original C++'s GetLabel() (spec.md §9 supplement).
func (m *MovingCachedDS) Label() string { return m.label }

// ID returns the instance's unique identity, distinguishing two
// MovingCachedDS instances that share a label (e.g. one per slot group
// in a multi-threaded pipeline run) in logs and diagnostics.
func (m *MovingCachedDS) ID() uuid.UUID { return m.dsID }

// AddEntryOffsetLimit widens the window every downstream consumer must
// be guaranteed: L := min(L, l), R := max(R, r). All demand must be
// registered before Initialise.
func (m *MovingCachedDS) AddEntryOffsetLimit(l, r int64) {
	if l > 0 || r < 0 {
		panic(fmt.Sprintf("rwindow[%s]: invalid offset limit (%d, %d): want l<=0<=r", m.label, l, r))
	}
	if l < m.l {
		m.l = l
	}
	if r > m.r {
		m.r = r
	}
}

// SetupColumn registers a projected column of type T, backed by one
// reader per slot (a shortfall versus nSlots is a configuration
// error). Free function, not a method, because Go forbids generic
// type parameters on methods.
func SetupColumn[T any](m *MovingCachedDS, name, typeName string, readers []Reader[T]) error {
	if len(readers) != m.nSlots {
		return &ConfigError{Label: m.label, Msg: fmt.Sprintf(
			"column %q: got %d readers, want %d", name, len(readers), m.nSlots)}
	}
	m.caches[name] = NewRColumnCache[T](m.label+"."+name, m.nSlots, readers)
	m.columnTypes[name] = typeName
	m.columnNames = append(m.columnNames, name)
	return nil
}

func (m *MovingCachedDS) SetNSlots(n int) error {
	if n != m.nSlots {
		return &ConfigError{Label: m.label, Msg: fmt.Sprintf("NSlots mismatch: configured %d, requested %d", m.nSlots, n)}
	}
	return m.source.SetNSlots(n)
}

func (m *MovingCachedDS) Initialise() error { return m.source.Initialise() }
func (m *MovingCachedDS) Finalise() error   { return m.source.Finalise() }

// GetEntryRanges implements spec.md §4.7's algorithm: pull the
// upstream's natural ranges (repeatable for a table source, one-shot
// otherwise) and shrink each by (-L, -R).
func (m *MovingCachedDS) GetEntryRanges() ([]EntryRange, error) {
	raw, err := m.source.EntryRanges(m.nSlots)
	if err != nil {
		return nil, err
	}
	shifted := make([]EntryRange, len(raw))
	for i, rg := range raw {
		shifted[i] = EntryRange{First: rg.First - m.l, Last: rg.Last - m.r}
	}
	m.ranges = append(m.ranges, shifted...)
	trace("%s: published %d entry ranges", m.label, len(shifted))
	return shifted, nil
}

// InitSlot locates the published range whose First equals firstEntry,
// remembers it as the slot's slotRange, and initialises sourceLoaded,
// published and every cache exactly per spec.md §4.7.
func (m *MovingCachedDS) InitSlot(slot int, firstEntry int64) error {
	var found *EntryRange
	for i := range m.ranges {
		if m.ranges[i].First == firstEntry {
			found = &m.ranges[i]
			break
		}
	}
	if found == nil {
		return &ConfigError{Label: m.label, Msg: fmt.Sprintf("no published range starts at entry %d", firstEntry)}
	}
	m.slotRange[slot] = *found
	m.sourceLoaded[slot].Store(found.First + m.l - 1)
	m.published[slot].Store(found.First + m.l - 1)
	for _, name := range m.columnNames {
		m.caches[name].InitSlot(slot, found.First+m.l)
	}
	return m.source.InitSlot(slot, found.First+m.l)
}

// SetEntry advances the upstream forward until the window around e is
// fully populated, then purges every cache to e+L-1 so that e+L
// becomes the new firstEntry -- spec.md §4.7's pseudocode, verbatim.
func (m *MovingCachedDS) SetEntry(slot int, e int64) (bool, error) {
	sr := m.slotRange[slot]
	for m.published[slot].Load()-m.r < e {
		sl := m.sourceLoaded[slot].Load() + 1
		m.sourceLoaded[slot].Store(sl)
		if sl >= sr.Last+m.r {
			return false, nil
		}
		ok, err := m.source.LoadEntry(slot, sl)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		if m.filters.CheckFilters(slot, sl) {
			for _, name := range m.columnNames {
				if err := m.caches[name].Load(slot, sl); err != nil {
					return false, err
				}
			}
			m.published[slot].Store(m.published[slot].Load() + 1)
		}
	}
	for _, name := range m.columnNames {
		if err := m.caches[name].PurgeTill(slot, e+m.l-1); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (m *MovingCachedDS) FinaliseSlot(slot int) error {
	for _, name := range m.columnNames {
		m.caches[name].FinaliseSlot(slot)
	}
	return m.source.FinaliseSlot(slot)
}

// GetColumnReaders returns a fresh reader bound to the named cache at
// slot; an unknown column is a configuration error.
func (m *MovingCachedDS) GetColumnReaders(slot int, name string, sample any) (any, error) {
	cache, ok := m.caches[name]
	if !ok {
		return nil, &ConfigError{Label: m.label, Msg: "unknown column: " + name}
	}
	return cache.newReader(slot), nil
}

func (m *MovingCachedDS) HasColumn(name string) bool {
	_, ok := m.caches[name]
	return ok
}

func (m *MovingCachedDS) GetTypeName(name string) (string, error) {
	t, ok := m.columnTypes[name]
	if !ok {
		return "", &ConfigError{Label: m.label, Msg: "unknown column: " + name}
	}
	return t, nil
}

func (m *MovingCachedDS) GetColumnNames() []string {
	out := make([]string, len(m.columnNames))
	copy(out, m.columnNames)
	return out
}
