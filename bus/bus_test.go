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

package bus_test

import (
	"testing"

	"github.com/sano-emu/sano/bus"
	"github.com/sano-emu/sano/test"
)

// stubDevice claims a single contiguous range and stores writes in a map,
// letting the tests observe exactly what the bus dispatched to it.
type stubDevice struct {
	lo, hi uint32
	mem    map[uint32]uint8
}

func newStub(lo, hi uint32) *stubDevice {
	return &stubDevice{lo: lo, hi: hi, mem: make(map[uint32]uint8)}
}

func (s *stubDevice) Decode(addr uint32) bool { return addr >= s.lo && addr <= s.hi }
func (s *stubDevice) Read(addr uint32) uint8  { return s.mem[addr] }
func (s *stubDevice) Write(addr uint32, v uint8) {
	s.mem[addr] = v
}

func TestOpenBusOnUnclaimedRead(t *testing.T) {
	b := bus.NewSystemBus()
	b.Register(newStub(0, 0xFF))
	test.DemandEquality(t, b.Read(0x1000), uint8(bus.OpenBus))
}

func TestFirstRegisteredDeviceWins(t *testing.T) {
	b := bus.NewSystemBus()
	first := newStub(0x1000, 0x1FFF)
	second := newStub(0x1000, 0x2FFF)
	first.mem[0x1500] = 0xAA
	second.mem[0x1500] = 0xBB
	b.Register(first)
	b.Register(second)
	test.DemandEquality(t, b.Read(0x1500), uint8(0xAA))
}

func TestWriteDispatchesToClaimingDevice(t *testing.T) {
	b := bus.NewSystemBus()
	ram := newStub(0x0000, 0x0FFF)
	b.Register(ram)
	b.Write(0x0042, 0x7F)
	test.DemandEquality(t, ram.mem[0x0042], uint8(0x7F))
}

func TestWriteToUnclaimedAddressIsDropped(t *testing.T) {
	b := bus.NewSystemBus()
	ram := newStub(0x0000, 0x0FFF)
	b.Register(ram)
	// should not panic, and should not appear anywhere
	b.Write(0xF000, 0x11)
	if len(ram.mem) != 0 {
		t.Fatalf("write to unclaimed address leaked into a registered device")
	}
}
