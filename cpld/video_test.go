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

package cpld_test

import (
	"testing"

	"github.com/sano-emu/sano/cpld"
	"github.com/sano-emu/sano/ram"
	"github.com/sano-emu/sano/test"
)

// Testable property 7: after exactly PixelsPerLine * lines-per-frame ticks
// in 240p mode, the raster wraps to (0,0) and the vblank IRQ fired exactly
// once.
func TestVideoRasterWrapAndVBlankIRQ(t *testing.T) {
	c := cpld.NewCPLD2Video(nil)

	fireCount := 0
	c.RaiseGraphicsIRQ = func() { fireCount++ }

	const linesPer240p = 262
	total := cpld.PixelsPerLine * linesPer240p
	for i := 0; i < total; i++ {
		c.Tick()
	}

	test.DemandEquality(t, c.RasterLine, uint16(0))
	test.DemandEquality(t, c.RasterX, uint16(0))
	test.DemandEquality(t, fireCount, 1)
}

func TestVideoHBlankFlag(t *testing.T) {
	c := cpld.NewCPLD2Video(nil)
	c.Tick()
	test.DemandEquality(t, c.InHBlank, true)
}

func TestVideoVBlankAt240p(t *testing.T) {
	c := cpld.NewCPLD2Video(nil)
	test.DemandEquality(t, c.InVBlank, false)
	for i := 0; i < cpld.PixelsPerLine; i++ {
		c.Tick()
	}
	// first line has completed, still within the vblank region (<22)
	test.DemandEquality(t, c.InVBlank, true)
}

func TestVideoAllowGCPUVRAMAccessIsAdvisory(t *testing.T) {
	c := cpld.NewCPLD2Video(nil)
	c.Tick() // populate blanking flags; line 0 is within vblank
	test.DemandEquality(t, c.AllowGCPUVRAMAccess(), true)
}

// S3 — Mailbox boot-copy (CPLD2 side).
func TestVideoBootCopyIntoGraphicsRAM(t *testing.T) {
	graphicsRAM := ram.New("graphics", 0, 0x10000)
	c := cpld.NewCPLD2Video(graphicsRAM)

	released := false
	c.ReleaseGraphicsReset = func() { released = true }

	payload := []byte{0x01, 0x00, 0x10, 0x03, 0x00, 0xDE, 0xAD, 0xBE}
	c.OnMailboxAWrite(func(off int) uint8 {
		if off < len(payload) {
			return payload[off]
		}
		return 0
	})

	test.DemandEquality(t, released, true)
	test.DemandEquality(t, graphicsRAM.Read(0x1000), uint8(0xDE))
	test.DemandEquality(t, graphicsRAM.Read(0x1001), uint8(0xAD))
	test.DemandEquality(t, graphicsRAM.Read(0x1002), uint8(0xBE))
}

func TestLayerConfigRegisters(t *testing.T) {
	c := cpld.NewCPLD2Video(nil)

	// layer 1 base = $400210 + 8 = $400218
	c.Write(0x400218, 0x40) // scroll X low
	c.Write(0x400219, 0x01) // scroll X high -> 0x0140
	c.Write(0x40021C, 0x25) // control: 4bpp(01), tile 16(1), map 32(0), pal bank 2
	c.Write(0x40021D, 3)    // priority

	l := c.Layer(1)
	test.DemandEquality(t, l.ScrollX, uint16(0x0140))
	test.DemandEquality(t, l.BPP(), 4)
	test.DemandEquality(t, l.TileSize(), 16)
	test.DemandEquality(t, l.PaletteBank(), uint8(2))
	test.DemandEquality(t, l.Priority, uint8(3))
}
