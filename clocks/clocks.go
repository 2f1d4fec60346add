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

// Package clocks defines the constant clock speeds each of the three CPUs
// run at and the MasterClock type that budgets per-frame cycles against
// them and derives raster position and audio tick rate.
package clocks

const (
	// MainFreq is the Main CPU's clock in Hz.
	MainFreq = 7159000
	// GfxFreq is the Graphics CPU's clock in Hz.
	GfxFreq = 13500000
	// SoundFreq is the Sound CPU's clock in Hz.
	SoundFreq = 4773000

	// FrameRate is the target frame rate of the video output.
	FrameRate = 60

	// AudioSampleRate is the output sample rate of the audio pipeline.
	AudioSampleRate = 32000

	// cyclesPerLine is the Graphics CPU cycle count the master clock
	// assumes elapses per scanline when deriving raster position. It is
	// deliberately distinct from cpld.PixelsPerLine (857): that constant
	// counts CPLD2's own pixel-clock ticks, this one approximates from
	// CPU cycles, which run at a different rate.
	cyclesPerLine = 858
)

// MainCyclesPerFrame is the Main CPU's per-frame cycle budget.
const MainCyclesPerFrame = MainFreq / FrameRate

// GfxCyclesPerFrame is the Graphics CPU's per-frame cycle budget.
const GfxCyclesPerFrame = GfxFreq / FrameRate

// SoundCyclesPerFrame is the Sound CPU's per-frame cycle budget.
const SoundCyclesPerFrame = SoundFreq / FrameRate
