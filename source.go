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

// EntryRange is a half-open [First, Last) interval of absolute source
// entry indices.
type EntryRange struct {
	First int64
	Last  int64
}

// DataSource is the table-style upstream contract: a source able to
// publish its own entry ranges repeatedly (a fresh partition on every
// GetEntryRanges call), unlike the one-shot tree-chain/empty shapes
// modelled by rangeSource. Concrete column-reader implementations for
// physical storage are out of scope here -- only this abstract
// contract is specified.
type DataSource interface {
	SetNSlots(n int) error
	GetEntryRanges() ([]EntryRange, error)
	InitSlot(slot int, firstEntry int64) error
	SetEntry(slot int, entry int64) (bool, error)
	FinaliseSlot(slot int) error
	Initialise() error
	Finalise() error
	GetColumnReaders(slot int, name string, sample any) (any, error)
	HasColumn(name string) bool
	GetTypeName(name string) (string, error)
	GetColumnNames() []string
}

// rangeSource is satisfied by the tree-of-files chain and the
// enumerated empty source: both publish their ranges once and advance
// one upstream entry at a time via LoadEntry, rather than owning a
// SetEntry-driven iteration of their own.
type rangeSource interface {
	SetNSlots(n int) error
	SourceRanges() ([]EntryRange, error)
	LoadEntry(slot int, sourceEntry int64) (bool, error)
	InitSlot(slot int, firstEntry int64) error
	FinaliseSlot(slot int) error
	Initialise() error
	Finalise() error
	HasColumn(name string) bool
	GetTypeName(name string) (string, error)
	GetColumnNames() []string
}

// FilterChain is the externally-owned upstream filter/action chain
// (the loop manager's runAndCheckFilters). It is excluded from this
// package's scope and always supplied by the caller.
type FilterChain interface {
	CheckFilters(slot int, entry int64) bool
}

// PassAllFilters accepts every row; convenient for sources that have
// no filtering stage of their own.
type PassAllFilters struct{}

func (PassAllFilters) CheckFilters(slot int, entry int64) bool { return true }
