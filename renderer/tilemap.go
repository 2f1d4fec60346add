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

// TileData is the VRAM byte offset where tile pixel data begins.
const TileData = 0x020000

// tilemapBase gives the VRAM byte offset of each of the 5 tilemap layers,
// in layer order.
var tilemapBase = [NumLayers]uint32{
	0x015000, // BG0
	0x017000, // BG1
	0x019000, // FG0
	0x01B000, // FG1
	0x01D000, // HUD
}

// tilemapConfig is the subset of cpld.LayerConfig the tilemap renderer
// needs; kept as its own small struct so this package doesn't import cpld
// just for seven fields.
type tilemapConfig struct {
	ScrollX     uint16
	ScrollY     uint16
	BPP         int
	TileSize    int
	MapSize     int
	PaletteBank uint8
	Priority    uint8
}

// renderTilemapLine fills one layer's line buffer for the given layer
// index and screen line, per §4.9.1: for each screen X, wrap the scrolled
// world coordinate at 512 pixels, decompose into tile/pixel coordinates,
// fetch the 16-bit tile entry, apply flip, fetch the color index at the
// configured bit depth, and skip index 0 (transparent).
func renderTilemapLine(vram VRAM, layerIdx int, cfg tilemapConfig, line int, buf *lineBuffer) {
	base := tilemapBase[layerIdx]
	tileSize := cfg.TileSize
	mapWidthTiles := cfg.MapSize

	worldY := (line + int(cfg.ScrollY)) & 0x1FF
	tileY := worldY / tileSize
	pixelYInTile := worldY % tileSize

	bytesPerTile := tileBytesForBPP(cfg.BPP, tileSize)

	for x := 0; x < ScreenWidth; x++ {
		worldX := (x + int(cfg.ScrollX)) & 0x1FF
		tileX := worldX / tileSize
		pixelXInTile := worldX % tileSize

		entryAddr := base + uint32((tileY*mapWidthTiles+tileX)*2)
		lo := vram.Read(entryAddr)
		hi := vram.Read(entryAddr + 1)
		entry := uint16(lo) | uint16(hi)<<8

		tileNum := entry & 0x03FF
		hflip := entry&0x0400 != 0
		vflip := entry&0x0800 != 0
		tilePalBank := uint8(entry >> 12)

		px, py := pixelXInTile, pixelYInTile
		if hflip {
			px = tileSize - 1 - px
		}
		if vflip {
			py = tileSize - 1 - py
		}

		colorIndex := fetchTilePixel(vram, TileData+uint32(tileNum)*uint32(bytesPerTile), tileSize, cfg.BPP, px, py)
		if colorIndex == 0 {
			continue
		}

		buf.color[x] = colorIndex | (tilePalBank << 4)
		buf.priority[x] = cfg.Priority
		buf.alpha[x] = 16
	}
}

// tileBytesForBPP returns the byte size of one tile's pixel data.
func tileBytesForBPP(bpp, tileSize int) int {
	pixels := tileSize * tileSize
	switch bpp {
	case 8:
		return pixels
	case 4:
		return pixels / 2
	default: // 2bpp
		return pixels / 4
	}
}

// fetchTilePixel reads the color index of pixel (px, py) within a tile
// stored at addr, packed at the given bit depth (2/4/8), row-major,
// least-significant-pixel-first within each byte (the first pixel of a
// byte is in its low bits).
func fetchTilePixel(vram VRAM, addr uint32, tileSize, bpp, px, py int) uint8 {
	pixelIndex := py*tileSize + px

	switch bpp {
	case 8:
		return vram.Read(addr + uint32(pixelIndex))
	case 4:
		b := vram.Read(addr + uint32(pixelIndex/2))
		if pixelIndex%2 == 0 {
			return b & 0x0F
		}
		return b >> 4
	default: // 2bpp
		b := vram.Read(addr + uint32(pixelIndex/4))
		shift := uint(pixelIndex%4) * 2
		return (b >> shift) & 0x03
	}
}
