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

// Package renderer turns the contents of Graphics RAM into a 320x240
// RGBA8888 framebuffer, one scanline at a time, in the manner CPLD2's
// render_mode register describes.
package renderer

const (
	// ScreenWidth is the framebuffer width in pixels.
	ScreenWidth = 320
	// ScreenHeight is the framebuffer height in pixels.
	ScreenHeight = 240

	// NumTilemapLayers is the number of scrolling tile layers.
	NumTilemapLayers = 5
	// NumLayers is NumTilemapLayers plus one sprite layer; line buffers
	// are indexed 0..4 for tilemaps and 5 for sprites.
	NumLayers = NumTilemapLayers + 1

	spriteLayerIndex = NumTilemapLayers
)

// RenderMode mirrors cpld.RenderMode's four values without importing cpld,
// keeping this package's compile dependencies to VRAM alone.
type RenderMode uint8

const (
	RenderDirectFramebuffer RenderMode = 0
	RenderStandard          RenderMode = 1
	RenderMaxLayers         RenderMode = 2
	RenderBackgroundOnly    RenderMode = 3
)

// lineBuffer holds one layer's contribution to a scanline: a palette
// index (low nibble color, high nibble bank) per pixel, the priority it
// was drawn with, and its alpha (0..16, 16 = opaque).
type lineBuffer struct {
	color    [ScreenWidth]uint8
	priority [ScreenWidth]uint8
	alpha    [ScreenWidth]uint8
}

func (b *lineBuffer) clear() {
	for i := range b.color {
		b.color[i] = 0
		b.priority[i] = 0
		b.alpha[i] = 0
	}
}

// LayerConfig is the subset of a CPLD2 layer register block the renderer
// consults; the Machine translates cpld.LayerConfig into this shape so
// this package doesn't need to import cpld.
type LayerConfig struct {
	ScrollX     uint16
	ScrollY     uint16
	BPP         int
	TileSize    int
	MapSize     int
	PaletteBank uint8
	Priority    uint8
}

// FrameParams is everything the Machine hands the renderer for one frame
// that isn't read directly out of VRAM: the CPLD2 timing/render mode
// registers, per-layer configuration, and the post-processing controls.
type FrameParams struct {
	Mode        RenderMode
	LayerEnable uint8
	Layers      [NumTilemapLayers]LayerConfig
	Brightness  uint8
	TintR       int8
	TintG       int8
	TintB       int8
}

// VideoRenderer produces one 320x240 RGBA8888 framebuffer per call to
// RenderFrame, reading tile, sprite and palette data out of a VRAM view
// supplied by the Machine.
type VideoRenderer struct {
	palette *paletteCache
	sprites *spriteCache

	lines   [NumLayers]lineBuffer
	framebuf [ScreenWidth * ScreenHeight]uint32
}

// NewVideoRenderer constructs an empty renderer. Its palette and sprite
// caches start dirty so the first RenderFrame call does a full refresh.
func NewVideoRenderer() *VideoRenderer {
	return &VideoRenderer{
		palette: newPaletteCache(),
		sprites: newSpriteCache(),
	}
}

// InvalidatePalette forces the palette cache to be reconverted on the next
// RenderFrame call. The Machine calls this (and InvalidateSprites) once per
// frame before rendering, so CPU writes into palette RAM and OAM show up in
// the next frame.
func (r *VideoRenderer) InvalidatePalette() {
	r.palette.markDirty()
}

// InvalidateSprites forces the sprite table to be reread on the next
// RenderFrame call.
func (r *VideoRenderer) InvalidateSprites() {
	r.sprites.markDirty()
}

// Framebuffer returns the most recently rendered frame as packed
// RGBA8888 pixels, row-major, top to bottom.
func (r *VideoRenderer) Framebuffer() []uint32 {
	return r.framebuf[:]
}

// RenderFrame renders all 240 scanlines into the internal framebuffer per
// §4.9's pipeline: refresh caches once per frame, then per scanline
// dispatch on render mode, composite the layer buffers, and apply
// post-processing.
func (r *VideoRenderer) RenderFrame(vram VRAM, params FrameParams) {
	r.palette.refresh(vram)
	r.sprites.refresh(vram)

	for line := 0; line < ScreenHeight; line++ {
		r.renderScanline(vram, params, line)
	}
}

func (r *VideoRenderer) renderScanline(vram VRAM, params FrameParams, line int) {
	if params.Mode == RenderDirectFramebuffer {
		r.renderDirectFramebufferLine(vram, line)
		return
	}

	for i := range r.lines {
		r.lines[i].clear()
	}

	// Standard and max-layers both drive every CPLD2-configurable tilemap
	// layer; background-only is cut down to the two lowest layers. CPLD2
	// only exposes
	// NumTilemapLayers register blocks, so "max-layers" renders as many
	// tilemap layers as standard mode but frees the sprite line buffer
	// (layer index 5) by leaving sprites off rather than inventing a
	// sixth layer register block the hardware doesn't have.
	layerCount := NumTilemapLayers
	if params.Mode == RenderBackgroundOnly {
		layerCount = 2
	}

	for i := 0; i < layerCount; i++ {
		if params.LayerEnable&(1<<uint(i)) == 0 {
			continue
		}
		cfg := params.Layers[i]
		renderTilemapLine(vram, i, tilemapConfig{
			ScrollX:     cfg.ScrollX,
			ScrollY:     cfg.ScrollY,
			BPP:         cfg.BPP,
			TileSize:    cfg.TileSize,
			MapSize:     cfg.MapSize,
			PaletteBank: cfg.PaletteBank,
			Priority:    cfg.Priority,
		}, line, &r.lines[i])
	}

	if params.Mode == RenderStandard {
		renderSpriteLine(vram, r.sprites, line, &r.lines[spriteLayerIndex])
	}

	rowOff := line * ScreenWidth
	for x := 0; x < ScreenWidth; x++ {
		rgb := compositePixel(r.palette, &r.lines, x)
		r.framebuf[rowOff+x] = applyPostEffects(rgb, params.Brightness, params.TintR, params.TintG, params.TintB)
	}
}

// renderDirectFramebufferLine bypasses tile/sprite composition entirely,
// per §4.9 step 2: Graphics RAM's framebuffer region holds one palette
// index byte per screen pixel, read through the palette cache exactly
// like a composited layer pixel would be.
func (r *VideoRenderer) renderDirectFramebufferLine(vram VRAM, line int) {
	rowOff := line * ScreenWidth
	base := uint32(DirectFramebuffer + line*ScreenWidth)
	for x := 0; x < ScreenWidth; x++ {
		index := vram.Read(base + uint32(x))
		r.framebuf[rowOff+x] = r.palette.get(index)
	}
}

// DirectFramebuffer is the VRAM byte offset of the palette-indexed direct
// framebuffer used by RenderDirectFramebuffer mode.
const DirectFramebuffer = 0x030000
