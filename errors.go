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
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks against the taxonomy named in
// the core's error handling design: configuration mismatches, range
// violations, monotonicity violations, and resample-domain failures.
// Upstream exhaustion is deliberately not an error -- it surfaces as
// (false, nil) from SetEntry/LoadEntry.
var (
	ErrConfig         = errors.New("rwindow: configuration error")
	ErrRange          = errors.New("rwindow: range error")
	ErrMonotonicity   = errors.New("rwindow: monotonicity error")
	ErrResampleDomain = errors.New("rwindow: resample-domain error")
)

// ConfigError reports a mismatched NSlots, a column absent from the
// upstream source, a reader count that does not equal NSlots, an
// upstream range count that does not equal NSlots, or an unknown
// InitSlot firstEntry.
type ConfigError struct {
	Label string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("rwindow[%s]: configuration error: %s", e.Label, e.Msg)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

// RangeError reports a Get(slot, e) call with e outside the stored
// window, or a PurgeTill unable to advance past its target.
type RangeError struct {
	Label string
	Slot  int
	Entry int64
	Msg   string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("rwindow[%s]: slot %d: range error at entry %d: %s", e.Label, e.Slot, e.Entry, e.Msg)
}

func (e *RangeError) Unwrap() error { return ErrRange }

// MonotonicityError reports a PersistentDefine observing a decreasing
// entry within a slot.
type MonotonicityError struct {
	Label    string
	Slot     int
	Entry    int64
	LastSeen int64
}

func (e *MonotonicityError) Error() string {
	return fmt.Sprintf("rwindow[%s]: slot %d: entry %d precedes last-seen entry %d, cannot iterate backwards",
		e.Label, e.Slot, e.Entry, e.LastSeen)
}

func (e *MonotonicityError) Unwrap() error { return ErrMonotonicity }

// ResampleDomainError reports that the first accepted source row lies
// strictly after the resample grid's start t0.
type ResampleDomainError struct {
	Label string
	Slot  int
}

func (e *ResampleDomainError) Error() string {
	return fmt.Sprintf("rwindow[%s]: slot %d: first accepted source row lies after the resample start t0", e.Label, e.Slot)
}

func (e *ResampleDomainError) Unwrap() error { return ErrResampleDomain }
