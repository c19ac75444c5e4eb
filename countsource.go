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

import "github.com/launix-de/NonLockingReadMap"

// CountSource is the enumerated empty source: numEntries rows with no
// payload of their own, split equally among slots. This is the
// "second version" empty-source policy from the original source
// (RProxyDS's startFraq/endFraq split), preferred per the design
// notes over the first version's single-slot-only restriction.
//
// GetEntryRanges-equivalent access is one-shot per slot: once a
// slot's range has been handed out it is never repeated. Which slots
// have already been published is tracked in a NonBlockingBitMap
// rather than a mutex-guarded bool slice, mirroring
// StorageComputeProxy.validMask's lock-free published-range tracking.
type CountSource struct {
	label      string
	nSlots     int
	numEntries int64
	published  NonLockingReadMap.NonBlockingBitMap
}

// NewCountSource builds an empty source of numEntries rows.
func NewCountSource(label string, numEntries int64) *CountSource {
	return &CountSource{label: label, numEntries: numEntries}
}

func (s *CountSource) SetNSlots(n int) error {
	s.nSlots = n
	return nil
}

func (s *CountSource) SourceRanges() ([]EntryRange, error) {
	if s.nSlots <= 0 {
		return nil, &ConfigError{Label: s.label, Msg: "SetNSlots was never called"}
	}
	var ranges []EntryRange
	for slot := 0; slot < s.nSlots; slot++ {
		if s.published.Get(uint32(slot)) {
			continue
		}
		startFrac := float64(slot) / float64(s.nSlots)
		endFrac := float64(slot+1) / float64(s.nSlots)
		ranges = append(ranges, EntryRange{
			First: int64(startFrac * float64(s.numEntries)),
			Last:  int64(endFrac * float64(s.numEntries)),
		})
		s.published.Set(uint32(slot), true)
	}
	return ranges, nil
}

// LoadEntry always succeeds: an empty source's rows carry no payload,
// so "loading" one is simply acknowledging its presence.
func (s *CountSource) LoadEntry(slot int, sourceEntry int64) (bool, error) {
	return true, nil
}

func (s *CountSource) InitSlot(slot int, firstEntry int64) error { return nil }
func (s *CountSource) FinaliseSlot(slot int) error               { return nil }
func (s *CountSource) Initialise() error                         { return nil }
func (s *CountSource) Finalise() error                           { return nil }
func (s *CountSource) HasColumn(name string) bool                { return false }

func (s *CountSource) GetTypeName(name string) (string, error) {
	return "", &ConfigError{Label: s.label, Msg: "empty source exposes no columns: " + name}
}

func (s *CountSource) GetColumnNames() []string { return nil }
