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

package cpld

import "github.com/sano-emu/sano/ram"

// VideoMode selects the raster timing used by CPLD2.
type VideoMode int

const (
	Mode240p VideoMode = iota
	Mode480i
)

// RenderMode selects how many tilemap layers the VideoRenderer composites
// and whether it bypasses tilemaps entirely for a direct framebuffer read.
// This is a separate register from the timing VideoMode above - CPLD2
// exposes both, but they vary independently.
type RenderMode uint8

const (
	RenderDirectFramebuffer RenderMode = 0
	RenderStandard          RenderMode = 1
	RenderMaxLayers         RenderMode = 2
	RenderBackgroundOnly    RenderMode = 3
)

const (
	// PixelsPerLine is the CPLD2 pixel-clock period per scanline.
	PixelsPerLine = 857

	linesPer240p = 262
	linesPer480i = 525

	videoRegBase = 0x400200
	// videoRegEnd extends past the $40021F this window is nominally
	// documented to, to leave room for the five 8-byte per-layer config
	// blocks starting at $400210 - the free space up to CPLD3's window
	// at $400300 is otherwise unused.
	videoRegEnd = 0x4002FF

	vidRegMode         = 0x00
	vidRegRasterLineLo = 0x01
	vidRegRasterLineHi = 0x02
	vidRegRasterX      = 0x03
	vidRegVBlank       = 0x04
	vidRegHBlank       = 0x05
	vidRegIRQClear     = 0x06
	vidRegRenderMode   = 0x07
	vidRegLayerEnable  = 0x08
)

// CPLD2Video generates raster timing, tracks blanking state, and handles
// the boot-copy protocol over Mailbox A into Graphics RAM.
type CPLD2Video struct {
	Mode VideoMode

	// Render selects the VideoRenderer's per-frame layer composition
	// mode; LayerEnable is a per-bit mask (bit n = layer n) consulted
	// alongside it, per §4.9 step 3.
	Render      RenderMode
	LayerEnable uint8

	RasterLine uint16
	RasterX    uint16

	InVBlank bool
	InHBlank bool

	vblankIRQPending bool
	hblankIRQPending bool

	layers layerRegisters

	graphicsRAM *ram.RAM

	// RaiseGraphicsIRQ fires a pulse-style IRQ on the Graphics CPU.
	RaiseGraphicsIRQ func()

	// ReleaseGraphicsReset is invoked by the boot-copy handler once the
	// payload has been copied into Graphics RAM.
	ReleaseGraphicsReset func()
}

// NewCPLD2Video returns a CPLD2 wired to the given Graphics RAM.
func NewCPLD2Video(graphicsRAM *ram.RAM) *CPLD2Video {
	return &CPLD2Video{graphicsRAM: graphicsRAM}
}

func (c *CPLD2Video) totalLines() uint16 {
	if c.Mode == Mode480i {
		return linesPer480i
	}
	return linesPer240p
}

// Decode implements bus.Device.
func (c *CPLD2Video) Decode(addr uint32) bool {
	return addr >= videoRegBase && addr <= videoRegEnd
}

// Read implements bus.Device.
func (c *CPLD2Video) Read(addr uint32) uint8 {
	off := addr - videoRegBase
	switch off {
	case vidRegMode:
		return uint8(c.Mode)
	case vidRegRasterLineLo:
		return uint8(c.RasterLine)
	case vidRegRasterLineHi:
		return uint8(c.RasterLine >> 8)
	case vidRegRasterX:
		return uint8(c.RasterX)
	case vidRegVBlank:
		return boolToByte(c.InVBlank)
	case vidRegHBlank:
		return boolToByte(c.InHBlank)
	case vidRegRenderMode:
		return uint8(c.Render)
	case vidRegLayerEnable:
		return c.LayerEnable
	}
	if off >= layerConfigBase {
		return c.readLayerRegister(off)
	}
	return 0xFF
}

// Write implements bus.Device.
func (c *CPLD2Video) Write(addr uint32, value uint8) {
	off := addr - videoRegBase
	switch off {
	case vidRegMode:
		if value&0x01 != 0 {
			c.Mode = Mode480i
		} else {
			c.Mode = Mode240p
		}
	case vidRegIRQClear:
		c.vblankIRQPending = false
		c.hblankIRQPending = false
	case vidRegRenderMode:
		c.Render = RenderMode(value & 0x03)
	case vidRegLayerEnable:
		c.LayerEnable = value
	default:
		if off >= layerConfigBase {
			c.writeLayerRegister(off, value)
		}
	}
}

// Tick runs the raster counter forward by one pixel clock, wrapping the
// pixel into the line counter and the line counter into the frame, firing
// the vblank IRQ exactly once per frame wrap and refreshing the blanking
// flags.
func (c *CPLD2Video) Tick() {
	c.RasterX++
	if c.RasterX >= PixelsPerLine {
		c.RasterX = 0
		c.RasterLine++
		if c.RasterLine >= c.totalLines() {
			c.RasterLine = 0
			if !c.vblankIRQPending {
				c.vblankIRQPending = true
				if c.RaiseGraphicsIRQ != nil {
					c.RaiseGraphicsIRQ()
				}
			}
		}
	}

	c.InHBlank = c.RasterX <= 137

	if c.Mode == Mode480i {
		c.InVBlank = c.RasterLine < 22 || (c.RasterLine >= 262 && c.RasterLine < 284)
	} else {
		c.InVBlank = c.RasterLine < 22
	}
}

// AllowGCPUVRAMAccess reports whether this is a safe moment for the
// Graphics CPU to touch VRAM. It is advisory only - the reference
// implementation does not enforce it, and neither does this one; the
// renderer reads VRAM synchronously at frame end regardless.
func (c *CPLD2Video) AllowGCPUVRAMAccess() bool {
	return c.InHBlank || c.InVBlank
}

// OnMailboxAWrite is bound as Mailbox A's OnWrite callback. Identical
// protocol to CPLD1Audio.OnMailboxBWrite, against Graphics RAM and the
// Graphics CPU.
func (c *CPLD2Video) OnMailboxAWrite(peek func(offset int) uint8) {
	bootCopy(peek, c.graphicsRAM, c.ReleaseGraphicsReset, c.RaiseGraphicsIRQ)
}

func boolToByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
