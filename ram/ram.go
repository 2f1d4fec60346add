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

// Package ram implements the simplest bus.Device: a byte vector mapped at a
// fixed base address. It backs Main RAM, Graphics RAM (VRAM) and Sound RAM.
package ram

import "github.com/sano-emu/sano/logger"

// RAM is a bus.Device wrapping a contiguous byte vector mapped starting at
// Base. Out-of-range accesses are logged and given a defined default
// rather than panicking - real hardware doesn't panic either.
type RAM struct {
	base  uint32
	bytes []byte

	// tag identifies this RAM instance in log output ("main", "graphics",
	// "sound").
	tag string
}

// New returns a RAM device of size bytes mapped starting at base, zeroed.
func New(tag string, base uint32, size int) *RAM {
	return &RAM{
		base:  base,
		bytes: make([]byte, size),
		tag:   tag,
	}
}

// Base returns the address this RAM is mapped at.
func (r *RAM) Base() uint32 {
	return r.base
}

// Size returns the number of bytes in this RAM.
func (r *RAM) Size() int {
	return len(r.bytes)
}

// Decode implements bus.Device.
func (r *RAM) Decode(addr uint32) bool {
	return addr >= r.base && addr < r.base+uint32(len(r.bytes))
}

// Read implements bus.Device.
func (r *RAM) Read(addr uint32) uint8 {
	off := addr - r.base
	if off >= uint32(len(r.bytes)) {
		logger.Logf(logger.Allow, "ram", "%s: out of bounds read at $%06X", r.tag, addr)
		return 0xFF
	}
	return r.bytes[off]
}

// Write implements bus.Device.
func (r *RAM) Write(addr uint32, value uint8) {
	off := addr - r.base
	if off >= uint32(len(r.bytes)) {
		logger.Logf(logger.Allow, "ram", "%s: out of bounds write at $%06X", r.tag, addr)
		return
	}
	r.bytes[off] = value
}

// WriteBlock copies data into the RAM starting at offset off (relative to
// Base, not a flat address). Used by the CPLD boot-copy handlers to place a
// payload directly into a coprocessor's RAM. Bytes that would fall outside
// the RAM are dropped, matching the OobRam policy of Write.
func (r *RAM) WriteBlock(off uint16, data []byte) {
	for i, b := range data {
		o := int(off) + i
		if o < 0 || o >= len(r.bytes) {
			logger.Logf(logger.Allow, "ram", "%s: out of bounds block write at offset %d", r.tag, o)
			continue
		}
		r.bytes[o] = b
	}
}
