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

// cacheLineSize mirrors the false-sharing-avoidance idiom the pack
// uses for per-worker hot counters (grailbio-bio/encoding/bam/pool.go's
// poolLocal.pad [120]byte). Every per-slot counter in this package
// (sourceLoaded, published, lastStoredSnapshot, lastCheckedEntry,
// firstEntry) gets its own padded lane so adjacent slots never share a
// cache line.
const cacheLineSize = 64

type paddedInt64 struct {
	v int64
	_ [cacheLineSize - 8]byte
}

func (p *paddedInt64) Load() int64   { return p.v }
func (p *paddedInt64) Store(v int64) { p.v = v }
