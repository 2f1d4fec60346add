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

package machine

import (
	"github.com/sano-emu/sano/assert"
	"github.com/sano-emu/sano/clocks"
	"github.com/sano-emu/sano/cpld"
	"github.com/sano-emu/sano/cpu"
	"github.com/sano-emu/sano/logger"
	"github.com/sano-emu/sano/renderer"
)

// RunFrame advances the machine by exactly one frame: arms the clock's
// per-CPU budgets, executes each CPU (main, then graphics, then sound, so
// the Main CPU's mailbox writes reach the other two within the same frame)
// up to its budget, ticks CPLD2's
// raster and CPLD1's audio FIFOs the frame's worth of times, and finally
// renders the frame from Graphics RAM.
//
// RunFrame is not reentrant and is expected to always be called from the
// same goroutine; a call from an unexpected goroutine is logged rather
// than rejected, matching the core's never-abort error policy.
func (m *Machine) RunFrame() {
	m.assertSingleCaller()

	m.clock.RunFrame()

	m.runCPU(m.mainCPU, m.clock.ShouldRunMainCPU, m.clock.AddMainCPUCycles)
	m.runCPU(m.gfxCPU, m.clock.ShouldRunGraphicsCPU, m.clock.AddGraphicsCPUCycles)
	m.runCPU(m.sndCPU, m.clock.ShouldRunSoundCPU, m.clock.AddSoundCPUCycles)

	m.tickVideoAndRaster()
	m.tickAudio()

	m.renderer.InvalidatePalette()
	m.renderer.InvalidateSprites()
	m.renderer.RenderFrame(m.gfxRAM, renderer.FrameParams{
		Mode:        renderer.RenderMode(m.cpld2.Render),
		LayerEnable: m.cpld2.LayerEnable,
		Layers:      m.layerConfigs(),
		Brightness:  m.Brightness,
		TintR:       m.TintR,
		TintG:       m.TintG,
		TintB:       m.TintB,
	})
}

func (m *Machine) runCPU(core cpu.Core, shouldRun func() bool, addCycles func(uint64)) {
	for shouldRun() {
		cycles := core.ExecuteNextInstruction()
		if cycles <= 0 {
			break
		}
		addCycles(uint64(cycles))
	}
}

// tickVideoAndRaster runs CPLD2's pixel-clock counter and CPLD3's per-line
// latch for one frame's worth of Graphics-CPU-budget ticks. CPLD2's own
// notion of a scanline (857 pixels, see cpld.PixelsPerLine) is driven
// straight off this fixed per-frame tick count rather than off actual
// CPU cycles consumed, since it is an independent hardware clock.
func (m *Machine) tickVideoAndRaster() {
	for i := uint64(0); i < clocks.GfxCyclesPerFrame; i++ {
		wasX := m.cpld2.RasterX
		m.cpld2.Tick()
		if m.cpld2.RasterX < wasX {
			m.cpld3.OnHSYNC(m.cpld2.RasterLine)
		}
	}
}

func (m *Machine) tickAudio() {
	pending := m.clock.AudioTicksPending()
	for i := uint64(0); i < pending; i++ {
		m.cpld1.Tick()
	}
}

func (m *Machine) layerConfigs() [renderer.NumTilemapLayers]renderer.LayerConfig {
	var out [renderer.NumTilemapLayers]renderer.LayerConfig
	for i := 0; i < cpld.NumTilemapLayers; i++ {
		l := m.cpld2.Layer(i)
		out[i] = renderer.LayerConfig{
			ScrollX:     l.ScrollX,
			ScrollY:     l.ScrollY,
			BPP:         l.BPP(),
			TileSize:    l.TileSize(),
			MapSize:     l.MapSize(),
			PaletteBank: l.PaletteBank(),
			Priority:    l.Priority,
		}
	}
	return out
}

func (m *Machine) assertSingleCaller() {
	id := assert.GetGoRoutineID()
	if m.runGoroutine == 0 {
		m.runGoroutine = id
		return
	}
	if m.runGoroutine != id {
		logger.Logf(logger.Allow, "machine", "RunFrame called from an unexpected goroutine (%d, expected %d)", id, m.runGoroutine)
	}
}
