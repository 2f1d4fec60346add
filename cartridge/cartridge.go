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

// Package cartridge implements the ROM blob, its 16-bank windowed mapping,
// optional 64KB save RAM, and header parsing. A Cartridge is one logical
// bus.Device registered on all three CPU buses; its only mutable state
// (current bank, save RAM) is written exclusively by the Main CPU via the
// bank-select register, so sharing it across buses needs no locking.
package cartridge

import (
	"os"

	"github.com/sano-emu/sano/curated"
	"github.com/sano-emu/sano/logger"
)

const (
	// MaxROMSize is 16 banks of 4MB each.
	MaxROMSize = MaxBanks * BankSize

	// BankSize is the size of one ROM window bank.
	BankSize = 4 * 1024 * 1024

	// MaxBanks is the number of bank-select values before wraparound.
	MaxBanks = 16

	// HeaderSize is the size, in bytes, of the parsed cartridge header.
	HeaderSize = 256

	// SaveRAMSize is the size of the battery-backed save RAM region.
	SaveRAMSize = 64 * 1024

	mirrorLo    = 0x008000
	mirrorHi    = 0x00FFFF
	bankSelect  = 0x420000
	saveRAMLo   = 0x700000
	saveRAMHi   = 0x70FFFF
	romWindowLo = 0xC00000
	romWindowHi = 0xFFFFFF
)

// Header is the parsed first 256 bytes of a ROM image.
type Header struct {
	MainEntry     uint32
	GraphicsEntry uint32
	SoundEntry    uint32
	PalettePtr    uint32
	TilePtr       uint32
	AudioPtr      uint32
	Title         string
	Version       uint8
}

// Cartridge is a bus.Device wrapping the loaded ROM, an optional save RAM,
// the current bank-select value and the parsed header.
type Cartridge struct {
	rom         []byte
	saveRAM     []byte
	currentBank uint8
	header      Header
}

// New returns an empty, unloaded Cartridge.
func New() *Cartridge {
	return &Cartridge{}
}

// Header returns the parsed cartridge header. Valid only after Load.
func (c *Cartridge) Header() Header {
	return c.header
}

// CurrentBank returns the bank currently selected by the last write to the
// bank-select register.
func (c *Cartridge) CurrentBank() uint8 {
	return c.currentBank
}

// Load reads a raw ROM image from data, rejecting empty images and images
// larger than MaxROMSize, then parses the header and resets current bank
// to 0. Header fields that are all-zero are tolerated - a CPU with a zero
// entry point simply stays held in reset until a mailbox boot-copy starts
// it (see the mailbox and cpld packages).
func (c *Cartridge) Load(data []byte) error {
	if len(data) == 0 {
		return curated.Errorf("cartridge: %v", "rom image is empty")
	}
	if len(data) > MaxROMSize {
		return curated.Errorf("cartridge: %v", "rom image exceeds maximum size")
	}

	c.rom = make([]byte, len(data))
	copy(c.rom, data)
	c.currentBank = 0
	c.header = parseHeader(c.rom)

	logger.Logf(logger.Allow, "cartridge", "loaded %q (version %d), entries main=$%06X gfx=$%06X snd=$%06X",
		c.header.Title, c.header.Version, c.header.MainEntry, c.header.GraphicsEntry, c.header.SoundEntry)

	return nil
}

// LoadSave populates the save RAM from a file on disk, allocating it on
// first use if it does not already exist. Bytes past the end of the file
// are left as 0xFF, matching the default fill of a fresh save RAM.
func (c *Cartridge) LoadSave(path string) error {
	if c.saveRAM == nil {
		c.allocateSaveRAM()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Logf(logger.Allow, "cartridge", "save ram: %v", err)
		return nil
	}

	copy(c.saveRAM, data)

	return nil
}

// SaveRAM returns a copy of the current save RAM contents, or nil if no
// save RAM has been allocated (no write to the save RAM range has
// occurred and LoadSave has not been called).
func (c *Cartridge) SaveRAM() []byte {
	if c.saveRAM == nil {
		return nil
	}
	cp := make([]byte, len(c.saveRAM))
	copy(cp, c.saveRAM)
	return cp
}

func (c *Cartridge) allocateSaveRAM() {
	c.saveRAM = make([]byte, SaveRAMSize)
	for i := range c.saveRAM {
		c.saveRAM[i] = 0xFF
	}
}

func parseHeader(rom []byte) Header {
	h := Header{}
	if len(rom) < HeaderSize {
		return h
	}

	h.MainEntry = readFlat24(rom, 0)
	h.GraphicsEntry = readFlat24(rom, 3)
	h.SoundEntry = readFlat24(rom, 6)
	h.PalettePtr = readFlat24(rom, 9)
	h.TilePtr = readFlat24(rom, 12)
	h.AudioPtr = readFlat24(rom, 15)

	title := rom[18:50]
	n := 0
	for n < len(title) && title[n] != 0 {
		n++
	}
	h.Title = string(title[:n])

	h.Version = rom[50]

	return h
}

func readFlat24(rom []byte, offset int) uint32 {
	if offset+3 > len(rom) {
		return 0
	}
	return uint32(rom[offset]) | uint32(rom[offset+1])<<8 | uint32(rom[offset+2])<<16
}

// Decode implements bus.Device.
func (c *Cartridge) Decode(addr uint32) bool {
	switch {
	case addr >= mirrorLo && addr <= mirrorHi:
		return true
	case addr == bankSelect:
		return true
	case addr >= saveRAMLo && addr <= saveRAMHi:
		return true
	case addr >= romWindowLo && addr <= romWindowHi:
		return true
	}
	return false
}

// Read implements bus.Device.
func (c *Cartridge) Read(addr uint32) uint8 {
	switch {
	case addr >= mirrorLo && addr <= mirrorHi:
		if int(addr) < len(c.rom) {
			return c.rom[addr]
		}
		return 0xFF

	case addr >= romWindowLo && addr <= romWindowHi:
		phys := uint32(c.currentBank)*BankSize + (addr - romWindowLo)
		if int(phys) < len(c.rom) {
			return c.rom[phys]
		}
		return 0xFF

	case addr >= saveRAMLo && addr <= saveRAMHi:
		if c.saveRAM == nil {
			return 0xFF
		}
		off := addr - saveRAMLo
		if int(off) < len(c.saveRAM) {
			return c.saveRAM[off]
		}
		return 0xFF
	}

	return 0xFF
}

// Write implements bus.Device.
func (c *Cartridge) Write(addr uint32, value uint8) {
	switch {
	case addr == bankSelect:
		// low nibble only; since MaxBanks is 16 this can never need the
		// wrap described for the register's general case.
		c.currentBank = value & 0x0F

	case addr >= saveRAMLo && addr <= saveRAMHi:
		if c.saveRAM == nil {
			c.allocateSaveRAM()
		}
		off := addr - saveRAMLo
		if int(off) < len(c.saveRAM) {
			c.saveRAM[off] = value
		}

	default:
		// ROM writes outside the bank register are ignored.
	}
}
