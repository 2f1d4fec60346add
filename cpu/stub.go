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

package cpu

import (
	"github.com/sano-emu/sano/address"
	"github.com/sano-emu/sano/bus"
)

// stubCyclesPerInstruction is a placeholder cost charged per
// ExecuteNextInstruction call, loosely modelled on the 65C816's average
// instruction length. A real interpreter reports its own per-instruction
// cycle count instead.
const stubCyclesPerInstruction = 4

// Stub is a Core that never decodes a real instruction stream: it holds its
// program address, honors the reset/ready/irq pins, and reports a fixed
// cycle cost per call. It exists so the bus, mailbox, CPLD and machine
// packages can be exercised end-to-end without a real 65C816 interpreter,
// which is a separate, externally supplied component.
type Stub struct {
	bus *bus.SystemBus

	emulationVectors VectorTable
	nativeVectors    VectorTable

	pc      address.Address
	resHeld bool
	rdy     bool
	irq     bool
}

// NewStub returns a Stub wired to sysBus. Its signature matches
// machine.CoreFactory exactly, so it can be passed directly to machine.New.
func NewStub(sysBus *bus.SystemBus, emulationVectors, nativeVectors VectorTable) Core {
	return &Stub{
		bus:              sysBus,
		emulationVectors: emulationVectors,
		nativeVectors:    nativeVectors,
		rdy:              true,
	}
}

// SetResPin implements Core.
func (s *Stub) SetResPin(held bool) {
	s.resHeld = held
	if held {
		return
	}
	s.pc = address.FromFlat(uint32(s.emulationVectors.Reset))
}

// SetRdyPin implements Core.
func (s *Stub) SetRdyPin(ready bool) {
	s.rdy = ready
}

// SetIrqPin implements Core.
func (s *Stub) SetIrqPin(asserted bool) {
	s.irq = asserted
}

// SetProgramAddress implements Core.
func (s *Stub) SetProgramAddress(addr address.Address) {
	s.pc = addr
}

// GetProgramAddress implements Core.
func (s *Stub) GetProgramAddress() address.Address {
	return s.pc
}

// ExecuteNextInstruction implements Core. Held-in-reset or not-ready cores
// consume no cycles; otherwise it reads one byte at the program counter (to
// exercise the wired bus), advances the counter, services a pending IRQ by
// clearing the pin without altering the counter (a real core would vector
// through BRKOrIRQ), and reports a fixed cycle cost.
func (s *Stub) ExecuteNextInstruction() int {
	if s.resHeld || !s.rdy {
		return 0
	}

	s.bus.Read(s.pc.Flat())
	s.pc = s.pc.Add(1)

	if s.irq {
		s.irq = false
	}

	return stubCyclesPerInstruction
}
