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

package mailbox_test

import (
	"testing"

	"github.com/sano-emu/sano/mailbox"
	"github.com/sano-emu/sano/test"
)

func TestWriteSetsNewData(t *testing.T) {
	m := mailbox.New(0x400000)
	test.DemandEquality(t, m.NewData(), false)
	m.Write(0x400000, 0x01)
	test.DemandEquality(t, m.NewData(), true)
}

func TestReadClearsNewDataRegardlessOfOffset(t *testing.T) {
	m := mailbox.New(0x400000)
	m.Write(0x400005, 0x99)
	m.Read(0x400777) // any offset, not just the one written
	test.DemandEquality(t, m.NewData(), false)
}

func TestOnWriteFiresSynchronously(t *testing.T) {
	m := mailbox.New(0x400000)
	fired := false
	var seen uint8
	m.OnWrite = func(mb *mailbox.Mailbox) {
		fired = true
		seen = mb.Peek(0)
	}
	m.Write(0x400000, 0x01)
	test.DemandEquality(t, fired, true)
	test.DemandEquality(t, seen, uint8(0x01))
}

func TestPeekDoesNotClearNewData(t *testing.T) {
	m := mailbox.New(0x400000)
	m.Write(0x400000, 0x7)
	m.Peek(0)
	test.DemandEquality(t, m.NewData(), true)
}

func TestDecodeRange(t *testing.T) {
	m := mailbox.New(0x410000)
	if !m.Decode(0x410000) || !m.Decode(0x4103FF) {
		t.Fatalf("expected mailbox range to be claimed")
	}
	if m.Decode(0x410400) {
		t.Fatalf("expected address past the mailbox to be unclaimed")
	}
}
