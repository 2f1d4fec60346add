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

package address_test

import (
	"testing"

	"github.com/sano-emu/sano/address"
	"github.com/sano-emu/sano/test"
)

func TestFlatRoundTrip(t *testing.T) {
	a := address.New(0x42, 0xBEEF)
	test.DemandEquality(t, a.Flat(), uint32(0x42BEEF))

	b := address.FromFlat(0x42BEEF)
	test.DemandEquality(t, b.Bank, a.Bank)
	test.DemandEquality(t, b.Offset, a.Offset)
}

func TestFlatZero(t *testing.T) {
	a := address.FromFlat(0x000000)
	test.DemandEquality(t, a.Bank, uint8(0))
	test.DemandEquality(t, a.Offset, uint16(0))
}

func TestFlatIgnoresHighBits(t *testing.T) {
	a := address.FromFlat(0xFF420000)
	test.DemandEquality(t, a.Bank, uint8(0x42))
	test.DemandEquality(t, a.Offset, uint16(0))
}

func TestAddWrapsWithinBank(t *testing.T) {
	a := address.New(1, 0xFFFF).Add(1)
	test.DemandEquality(t, a.Bank, uint8(1))
	test.DemandEquality(t, a.Offset, uint16(0))
}

func TestEquality(t *testing.T) {
	a := address.New(3, 100)
	b := address.New(3, 100)
	c := address.New(3, 101)
	if a != b {
		t.Fatalf("expected %v to equal %v", a, b)
	}
	if a == c {
		t.Fatalf("expected %v to not equal %v", a, c)
	}
}
