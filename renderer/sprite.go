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

package renderer

// OAM is the VRAM byte offset of the 512-entry, 8-bytes-per-entry sprite
// attribute table.
const OAM = 0x000200

const (
	// NumSprites is the size of the sprite table.
	NumSprites = 512
	// MaxSpritesPerLine caps how many sprites the renderer draws on a
	// single scanline; further sprites in cache-index order are dropped.
	MaxSpritesPerLine = 128

	oamEntrySize = 8
)

// Sprite is one cached OAM entry.
type Sprite struct {
	X, Y       uint16
	Tile       uint8
	Attributes uint8
	Flags      uint8
	Priority   uint8
}

// Enabled reports flag bit 0.
func (s Sprite) Enabled() bool { return s.Flags&0x01 != 0 }

// HFlip reports flag bit 2.
func (s Sprite) HFlip() bool { return s.Flags&0x04 != 0 }

// VFlip reports flag bit 3.
func (s Sprite) VFlip() bool { return s.Flags&0x08 != 0 }

// Size returns the sprite's edge length in pixels, decoded from flag bits
// 4-5 (0->8, 1->16, 2->32, 3->64).
func (s Sprite) Size() int {
	switch (s.Flags >> 4) & 0x03 {
	case 0:
		return 8
	case 1:
		return 16
	case 2:
		return 32
	default:
		return 64
	}
}

// Alpha returns the low-nibble alpha (0..15) from Attributes.
func (s Sprite) Alpha() uint8 { return s.Attributes & 0x0F }

// PaletteBank returns the high-nibble palette bank from Attributes.
func (s Sprite) PaletteBank() uint8 { return s.Attributes >> 4 }

// spriteCache is the 512-entry sprite table read from OAM, refreshed
// lazily whenever dirty is set.
type spriteCache struct {
	sprites [NumSprites]Sprite
	dirty   bool
}

func newSpriteCache() *spriteCache {
	return &spriteCache{dirty: true}
}

func (c *spriteCache) markDirty() {
	c.dirty = true
}

func (c *spriteCache) refresh(vram VRAM) {
	if !c.dirty {
		return
	}
	for i := 0; i < NumSprites; i++ {
		base := uint32(OAM + i*oamEntrySize)
		c.sprites[i] = Sprite{
			X:          uint16(vram.Read(base)) | uint16(vram.Read(base+1))<<8,
			Y:          uint16(vram.Read(base+2)) | uint16(vram.Read(base+3))<<8,
			Tile:       vram.Read(base + 4),
			Attributes: vram.Read(base + 5),
			Flags:      vram.Read(base + 6),
			Priority:   vram.Read(base + 7),
		}
	}
	c.dirty = false
}

// renderSpriteLine fills the sprite line buffer for the given scanline.
// Sprites are drawn in descending cache-index order so low-index sprites
// win ties (spec §9 open question #4), capped at MaxSpritesPerLine, and a
// sprite overwrites an existing pixel only when its priority is >= what's
// already there (also per that open question). Every sprite, regardless of
// its Size(), samples the same 64-byte 8x8 8bpp tile: the pixel coordinate
// within the sprite wraps modulo 8 before indexing into it, so a 16x16 or
// larger sprite repeats its one base tile across the whole sprite rather
// than addressing consecutive tiles.
func renderSpriteLine(vram VRAM, cache *spriteCache, line int, buf *lineBuffer) {
	drawn := 0
	for i := NumSprites - 1; i >= 0 && drawn < MaxSpritesPerLine; i-- {
		spr := cache.sprites[i]
		if !spr.Enabled() {
			continue
		}

		size := spr.Size()
		y0 := int(spr.Y)
		if line < y0 || line >= y0+size {
			continue
		}
		drawn++

		row := line - y0
		if spr.VFlip() {
			row = size - 1 - row
		}

		tileAddr := TileData + uint32(spr.Tile)*64

		for col := 0; col < size; col++ {
			screenX := int(spr.X) + col
			if screenX < 0 || screenX >= ScreenWidth {
				continue
			}

			srcCol := col
			if spr.HFlip() {
				srcCol = size - 1 - col
			}

			colorIndex := fetchTilePixel(vram, tileAddr, 8, 8, srcCol%8, row%8)
			if colorIndex&0x0F == 0 {
				continue
			}

			if spr.Priority >= buf.priority[screenX] {
				buf.color[screenX] = colorIndex | (spr.PaletteBank() << 4)
				buf.priority[screenX] = spr.Priority
				buf.alpha[screenX] = spr.Alpha()
			}
		}
	}
}
