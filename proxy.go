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

import "fmt"

// ProxySource is RProxyDS (C6): it unifies the three upstream shapes --
// a table-style DataSource, a tree-of-files rangeSource, or an empty
// rangeSource (CountSource) -- behind the single loadEntry/entryRanges
// contract RMovingCachedDS drives. Grounded on RProxyDS::RProxyDS's
// constructor branching over fTree/fDataSource/else (original_source):
// at most one of table or ranged is non-nil, and a ProxySource with
// neither is legal too (a degenerate proxy whose LoadEntry always
// succeeds and which publishes no ranges). The two constructors below
// each set exactly one of them.
type ProxySource struct {
	label string

	table  DataSource
	ranged rangeSource

	rangesCalled bool
}

// NewTableProxySource wraps a table-style upstream whose GetEntryRanges
// may be called repeatedly (a fresh partition every call).
func NewTableProxySource(label string, ds DataSource) *ProxySource {
	return &ProxySource{label: label, table: ds}
}

// NewRangedProxySource wraps a tree-of-files chain or an empty source:
// both publish their ranges once via SourceRanges and are then driven
// one upstream entry at a time via LoadEntry.
func NewRangedProxySource(label string, rs rangeSource) *ProxySource {
	return &ProxySource{label: label, ranged: rs}
}

func (p *ProxySource) SetNSlots(n int) error {
	if p.table != nil {
		return p.table.SetNSlots(n)
	}
	if p.ranged != nil {
		return p.ranged.SetNSlots(n)
	}
	return nil
}

func (p *ProxySource) Initialise() error {
	if p.table != nil {
		return p.table.Initialise()
	}
	if p.ranged != nil {
		return p.ranged.Initialise()
	}
	return nil
}

func (p *ProxySource) Finalise() error {
	if p.table != nil {
		return p.table.Finalise()
	}
	if p.ranged != nil {
		return p.ranged.Finalise()
	}
	return nil
}

// EntryRanges implements spec.md §4.7 step 1/2: repeatable for a
// table-backed proxy (each call is required to match nSlots when
// non-empty, per the non-strict second-version policy spec.md §9
// prefers -- only a non-empty mismatch is a configuration error), and
// one-shot for a tree/empty-backed proxy.
func (p *ProxySource) EntryRanges(nSlots int) ([]EntryRange, error) {
	if p.table != nil {
		ranges, err := p.table.GetEntryRanges()
		if err != nil {
			return nil, err
		}
		if len(ranges) > 0 && len(ranges) != nSlots {
			return nil, &ConfigError{Label: p.label, Msg: fmt.Sprintf(
				"upstream published %d ranges, want %d", len(ranges), nSlots)}
		}
		return ranges, nil
	}
	if p.rangesCalled {
		return nil, nil
	}
	p.rangesCalled = true
	if p.ranged != nil {
		return p.ranged.SourceRanges()
	}
	return nil, nil
}

func (p *ProxySource) InitSlot(slot int, firstEntry int64) error {
	if p.table != nil {
		return p.table.InitSlot(slot, firstEntry)
	}
	if p.ranged != nil {
		return p.ranged.InitSlot(slot, firstEntry)
	}
	return nil
}

func (p *ProxySource) FinaliseSlot(slot int) error {
	if p.table != nil {
		return p.table.FinaliseSlot(slot)
	}
	if p.ranged != nil {
		return p.ranged.FinaliseSlot(slot)
	}
	return nil
}

// LoadEntry is spec.md §4.6's loadEntry: it advances the appropriate
// underlying iterator and returns false on upstream exhaustion. The
// upstream filter chain is run separately by the caller (spec.md
// §4.7's SetEntry algorithm calls checkFilters itself, after
// loadEntry succeeds) -- loadEntry never evaluates filters.
func (p *ProxySource) LoadEntry(slot int, sourceEntry int64) (bool, error) {
	if p.table != nil {
		return p.table.SetEntry(slot, sourceEntry)
	}
	if p.ranged != nil {
		return p.ranged.LoadEntry(slot, sourceEntry)
	}
	return true, nil
}

func (p *ProxySource) HasColumn(name string) bool {
	if p.table != nil {
		return p.table.HasColumn(name)
	}
	if p.ranged != nil {
		return p.ranged.HasColumn(name)
	}
	return false
}

func (p *ProxySource) GetTypeName(name string) (string, error) {
	if p.table != nil {
		return p.table.GetTypeName(name)
	}
	if p.ranged != nil {
		return p.ranged.GetTypeName(name)
	}
	return "", &ConfigError{Label: p.label, Msg: "no upstream source configured, column " + name + " unknown"}
}

func (p *ProxySource) GetColumnNames() []string {
	if p.table != nil {
		return p.table.GetColumnNames()
	}
	if p.ranged != nil {
		return p.ranged.GetColumnNames()
	}
	return nil
}
