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

package clocks

import "time"

// MasterClock tracks each CPU's cumulative cycle count against a per-frame
// budget, derives the current raster position from Graphics CPU cycles,
// and drives the 32kHz audio tick.
type MasterClock struct {
	mainCycles  uint64
	gfxCycles   uint64
	soundCycles uint64

	frameCount uint64

	mainBudget  uint64
	gfxBudget   uint64
	soundBudget uint64

	audioSampleCounter uint64

	startedAt time.Time
	started   bool
}

// NewMasterClock returns a clock with no cycles yet accumulated.
func NewMasterClock() *MasterClock {
	return &MasterClock{}
}

// RunFrame bumps the frame counter and arms each CPU's per-frame cycle
// budget.
func (c *MasterClock) RunFrame() {
	if !c.started {
		c.startedAt = time.Now()
		c.started = true
	}
	c.frameCount++
	c.mainBudget += MainCyclesPerFrame
	c.gfxBudget += GfxCyclesPerFrame
	c.soundBudget += SoundCyclesPerFrame
}

// FrameCount returns the number of frames run so far.
func (c *MasterClock) FrameCount() uint64 {
	return c.frameCount
}

// AddMainCPUCycles advances the Main CPU's cycle count.
func (c *MasterClock) AddMainCPUCycles(n uint64) {
	c.mainCycles += n
}

// AddGraphicsCPUCycles advances the Graphics CPU's cycle count. Raster
// position and the audio tick count are derived from it; the audio tick
// counter itself is advanced by AudioTicksPending.
func (c *MasterClock) AddGraphicsCPUCycles(n uint64) {
	c.gfxCycles += n
}

// AddSoundCPUCycles advances the Sound CPU's cycle count.
func (c *MasterClock) AddSoundCPUCycles(n uint64) {
	c.soundCycles += n
}

// ShouldRunMainCPU reports whether the Main CPU is behind its per-frame
// budget.
func (c *MasterClock) ShouldRunMainCPU() bool {
	return c.mainCycles < c.mainBudget
}

// ShouldRunGraphicsCPU reports whether the Graphics CPU is behind its
// per-frame budget.
func (c *MasterClock) ShouldRunGraphicsCPU() bool {
	return c.gfxCycles < c.gfxBudget
}

// ShouldRunSoundCPU reports whether the Sound CPU is behind its per-frame
// budget.
func (c *MasterClock) ShouldRunSoundCPU() bool {
	return c.soundCycles < c.soundBudget
}

// RasterPosition derives the current scanline and pixel from the Graphics
// CPU's cumulative cycle count.
func (c *MasterClock) RasterPosition() (scanline, pixel int) {
	cyclesThisFrame := c.gfxCycles % GfxCyclesPerFrame
	scanline = int(cyclesThisFrame / cyclesPerLine)
	pixel = int(cyclesThisFrame % cyclesPerLine)
	return scanline, pixel
}

// AudioTicksPending returns how many 32kHz audio ticks have become due
// since the last call, advancing the internal sample counter by that
// amount. The Machine calls this once per frame and runs CPLD1.Tick() that
// many times.
func (c *MasterClock) AudioTicksPending() uint64 {
	masterCycles := c.gfxCycles
	due := (masterCycles * AudioSampleRate) / GfxFreq
	if due <= c.audioSampleCounter {
		return 0
	}
	pending := due - c.audioSampleCounter
	c.audioSampleCounter = due
	return pending
}

// EmulationSpeed returns the ratio of emulated time (derived from Graphics
// CPU cycles) to wall-clock time elapsed since the first RunFrame call.
// 1.0 means real-time.
func (c *MasterClock) EmulationSpeed() float64 {
	if !c.started {
		return 0
	}
	emulatedSeconds := float64(c.gfxCycles) / GfxFreq
	wallSeconds := time.Since(c.startedAt).Seconds()
	if wallSeconds <= 0 {
		return 0
	}
	return emulatedSeconds / wallSeconds
}
