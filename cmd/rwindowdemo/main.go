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
// Command rwindowdemo drives a small MovingCachedDS pipeline
// over an in-memory slice source, one goroutine per slot fanned out via
// gls.Go and funnelled back through a panic-recovering error channel --
// the same shape table.scan uses to parallelise a shard scan
// (storage/scan.go's scanError wrapping).
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/jtolds/gls"

	"github.com/launix-de/rwindow"
)

// sliceReader is a Reader[int64] over a plain Go slice, standing in
// for the "concrete column-reader implementations for physical
// storage" spec.md §1 explicitly excludes from the core's scope.
type sliceReader struct{ data []int64 }

func (s sliceReader) Get(entry int64) (*int64, error) {
	if entry < 0 || int(entry) >= len(s.data) {
		return nil, fmt.Errorf("rwindowdemo: entry %d out of range", entry)
	}
	v := s.data[entry]
	return &v, nil
}

// sliceSource is a minimal DataSource over an in-memory slice: one
// range for NSlots==1, SetEntry always succeeding within bounds.
type sliceSource struct {
	data []int64
}

func (s *sliceSource) SetNSlots(n int) error {
	if n != 1 {
		return fmt.Errorf("rwindowdemo: sliceSource only supports 1 slot")
	}
	return nil
}
func (s *sliceSource) GetEntryRanges() ([]rwindow.EntryRange, error) {
	return []rwindow.EntryRange{{First: 0, Last: int64(len(s.data))}}, nil
}
func (s *sliceSource) InitSlot(slot int, firstEntry int64) error { return nil }
func (s *sliceSource) SetEntry(slot int, entry int64) (bool, error) {
	return entry < int64(len(s.data)), nil
}
func (s *sliceSource) FinaliseSlot(slot int) error { return nil }
func (s *sliceSource) Initialise() error           { return nil }
func (s *sliceSource) Finalise() error             { return nil }
func (s *sliceSource) GetColumnReaders(slot int, name string, sample any) (any, error) {
	return sliceReader{data: s.data}, nil
}
func (s *sliceSource) HasColumn(name string) bool { return name == "x" }
func (s *sliceSource) GetTypeName(name string) (string, error) {
	if name != "x" {
		return "", fmt.Errorf("rwindowdemo: unknown column %s", name)
	}
	return "int64", nil
}
func (s *sliceSource) GetColumnNames() []string { return []string{"x"} }

type panicResult struct {
	r     any
	stack string
}

func main() {
	rwindow.InitSettings()
	rwindow.Settings.Trace = os.Getenv("RWINDOW_TRACE") != ""

	src := &sliceSource{data: []int64{10, 20, 30, 40, 50}}
	ds := rwindow.NewMovingCachedDS("demo", rwindow.NewTableProxySource("demo", src), rwindow.PassAllFilters{}, 1)
	ds.AddEntryOffsetLimit(0, 2)

	xReader, err := src.GetColumnReaders(0, "x", int64(0))
	must(err)
	if err := rwindow.SetupColumn[int64](ds, "x", "int64", []rwindow.Reader[int64]{xReader.(rwindow.Reader[int64])}); err != nil {
		must(err)
	}

	must(ds.SetNSlots(1))
	must(ds.Initialise())

	ranges, err := ds.GetEntryRanges()
	must(err)

	results := make(chan any, len(ranges))
	for _, rg := range ranges {
		rg := rg
		gls.Go(func() {
			defer func() {
				if r := recover(); r != nil {
					results <- panicResult{r: r, stack: string(debug.Stack())}
				}
			}()
			results <- runSlot(ds, 0, rg)
		})
	}

	for range ranges {
		switch v := (<-results).(type) {
		case panicResult:
			fmt.Fprintln(os.Stderr, "rwindowdemo: slot panicked:", v.r, v.stack)
			os.Exit(1)
		case []int64:
			fmt.Println("x over window:", v)
		}
	}

	must(ds.Finalise())
}

func runSlot(ds *rwindow.MovingCachedDS, slot int, rg rwindow.EntryRange) []int64 {
	must(ds.InitSlot(slot, rg.First))
	defer func() { must(ds.FinaliseSlot(slot)) }()

	reader, err := ds.GetColumnReaders(slot, "x", int64(0))
	must(err)
	xr := reader.(rwindow.Reader[int64])

	var out []int64
	for e := rg.First; e < rg.Last; e++ {
		ok, err := ds.SetEntry(slot, e)
		must(err)
		if !ok {
			break
		}
		v, err := xr.Get(e)
		must(err)
		out = append(out, *v)
	}
	return out
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
