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

package cpld

import "github.com/sano-emu/sano/ram"

const bootCopyCommand = 0x01

// bootCopy implements the shared mailbox boot-copy protocol used
// identically by CPLD1Audio (Mailbox B -> Sound RAM) and CPLD2Video
// (Mailbox A -> Graphics RAM): if the first mailbox byte is the boot-copy
// command, the destination/length-prefixed payload is copied into the
// target RAM and release is invoked; any other command instead invokes
// irq.
func bootCopy(peek func(offset int) uint8, target *ram.RAM, release func(), irq func()) {
	if peek(0) != bootCopyCommand {
		if irq != nil {
			irq()
		}
		return
	}

	dest := uint16(peek(1)) | uint16(peek(2))<<8
	length := int(peek(3)) | int(peek(4))<<8

	payload := make([]byte, length)
	for i := 0; i < length; i++ {
		payload[i] = peek(5 + i)
	}

	if target != nil {
		target.WriteBlock(dest, payload)
	}
	if release != nil {
		release()
	}
}
