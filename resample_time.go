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

import "time"

// unixNanoReader adapts a Reader[time.Time] to Reader[float64] by
// projecting onto Unix nanoseconds -- the conversion
// NewResampleDSFromTime uses so ResampleDS itself only ever needs to
// be generic over Numeric, not over time.Time directly (time.Time
// does not satisfy Numeric: it has no +/* operators).
type unixNanoReader struct {
	child Reader[time.Time]
}

func (u unixNanoReader) Get(entry int64) (*float64, error) {
	v, err := u.child.Get(entry)
	if err != nil {
		return nil, err
	}
	f := float64(v.UnixNano())
	return &f, nil
}

// NewResampleDSFromTime builds a ResampleDS[float64] whose grid is
// expressed in time.Time/time.Duration terms: t0, t1 and delta are
// converted to Unix-nanosecond float64s once at construction, and the
// time column's readers are wrapped through unixNanoReader. Downstream
// consumers that need the grid time back as a time.Time can do so via
// UnixNanoToTime on the values GetColumnReaders(timeColumn) returns.
func NewResampleDSFromTime(label string, source DataSource, filters FilterChain, nSlots int, timeColumn string, delta time.Duration, t0, t1 time.Time, timeReaders []Reader[time.Time]) (*ResampleDS[float64], error) {
	wrapped := make([]Reader[float64], len(timeReaders))
	for i, r := range timeReaders {
		wrapped[i] = unixNanoReader{child: r}
	}
	return NewResampleDS[float64](label, source, filters, nSlots, timeColumn,
		float64(delta.Nanoseconds()), float64(t0.UnixNano()), float64(t1.UnixNano()), wrapped)
}

// UnixNanoToTime converts a grid value produced by a
// NewResampleDSFromTime-constructed ResampleDS back into a time.Time.
func UnixNanoToTime(nanos float64) time.Time {
	return time.Unix(0, int64(nanos))
}
