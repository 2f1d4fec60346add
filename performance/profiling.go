// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

// Package performance wraps runtime/pprof for the sanorun binary's
// -cpuprofile flag.
package performance

import (
	"os"
	"runtime/pprof"

	"github.com/sano-emu/sano/curated"
)

// RunWithCPUProfile runs fn, writing a pprof CPU profile to outFile if
// profile is true. The profile is started before fn runs and stopped
// unconditionally once it returns, regardless of the error it returns.
func RunWithCPUProfile(profile bool, outFile string, fn func() error) error {
	if !profile {
		return fn()
	}

	f, err := os.Create(outFile)
	if err != nil {
		return curated.Errorf("performance: %v", err)
	}
	defer f.Close()

	if err := pprof.StartCPUProfile(f); err != nil {
		return curated.Errorf("performance: %v", err)
	}
	defer pprof.StopCPUProfile()

	return fn()
}
