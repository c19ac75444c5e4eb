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
	"os"

	"github.com/dc0d/onexit"
)

// SettingsT is the package-wide tunable surface, modelled on
// storage.SettingsT/storage.Settings/storage.InitSettings: a plain
// exported struct plus a package-level default and an Init-style
// setter, no config-management library.
type SettingsT struct {
	// Trace enables fmt.Fprintf(os.Stderr, ...) diagnostics from
	// MovingCachedDS and ResampleDS -- the same texture as
	// storage.Settings.Trace, never a logging framework.
	Trace bool
}

var Settings SettingsT = SettingsT{Trace: false}

// InitSettings registers an exit hook via onexit.Register, mirroring
// storage.InitSettings registering its trace-file close hook. Trace
// lines go straight to os.Stderr with nothing buffered, so the hook
// only prints a final shutdown line when Trace is on.
func InitSettings() {
	onexit.Register(func() {
		if Settings.Trace {
			fmt.Fprintln(os.Stderr, "rwindow: shutting down, trace disabled")
		}
	})
}

func trace(format string, args ...any) {
	if Settings.Trace {
		fmt.Fprintf(os.Stderr, "rwindow: "+format+"\n", args...)
	}
}
