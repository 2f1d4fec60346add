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

// Package cpu defines the contract a 65C816-class CPU core must satisfy
// to be wired into a Machine. The Machine owns three independent cores
// (Main, Graphics, Sound); none of their internal instruction timing is
// this package's concern; it pins the bus/pin/vector surface that a
// replaceable core implementation must honor.
package cpu

import "github.com/sano-emu/sano/address"

// VectorTable holds the 16-bit interrupt vectors a core reads out of reset,
// one set for each of the 65C816's two operating modes.
type VectorTable struct {
	CoProc   uint16
	Unused   uint16 // emulation-mode only; native mode uses this slot for BRK
	Abort    uint16
	NMI      uint16
	Reset    uint16
	BRKOrIRQ uint16 // emulation mode: BRK/IRQ share a vector. Native mode: IRQ.
}

// Core is the contract a CPU implementation must satisfy. A Core is
// constructed against a specific bus.Device-compatible SystemBus (via the
// implementation's own constructor, not part of this interface) and the
// emulation-mode and native-mode vector tables; this interface covers
// everything the Machine needs to drive it afterwards.
type Core interface {
	// SetResPin holds the core in reset while true. Transitioning from
	// true to false causes the core to load ProgramAddress from the
	// Reset vector and resume execution.
	SetResPin(held bool)

	// SetRdyPin stalls the core's clock while false, without resetting
	// its state. CPLDs pulse this to simulate bus contention.
	SetRdyPin(ready bool)

	// SetIrqPin requests a maskable interrupt. Implementations treat
	// this as level-sensitive: the core services it once and the
	// caller is responsible for lowering it again.
	SetIrqPin(asserted bool)

	// SetProgramAddress forces the core's next fetch to the given bank
	// and offset. Used by boot-copy to place a core at (0,0) after
	// releasing its RES pin.
	SetProgramAddress(addr address.Address)

	// GetProgramAddress returns the core's current program counter.
	GetProgramAddress() address.Address

	// ExecuteNextInstruction runs one instruction and returns the
	// number of bus cycles it consumed. Exact sub-instruction timing is
	// the core's own business.
	ExecuteNextInstruction() int
}
