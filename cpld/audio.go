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

const (
	// NumAudioChannels is the channel count of CPLD1_Audio's FIFO bank.
	NumAudioChannels = 8

	// FIFODepth is the maximum number of queued samples per channel.
	FIFODepth = 256

	audioRegBase = 0x400100
	audioRegEnd  = 0x40011F

	regFIFOWriteLo  = 0x00
	regFIFOWriteHi  = 0x0F
	regFillLevelLo  = 0x10
	regFillLevelHi  = 0x17
	regIRQStatus    = 0x18
	regIRQClear     = 0x1A
	regIRQThreshold = 0x1C
	regConfig       = 0x1E
)

// audioFIFO is a single channel's sample queue.
type audioFIFO struct {
	samples [FIFODepth]int16
	count   int
	head    int
}

func (f *audioFIFO) push(s int16) {
	if f.count == FIFODepth {
		// FIFOFull: sample silently dropped.
		return
	}
	tail := (f.head + f.count) % FIFODepth
	f.samples[tail] = s
	f.count++
}

func (f *audioFIFO) front() (int16, bool) {
	if f.count == 0 {
		return 0, false
	}
	return f.samples[f.head], true
}

func (f *audioFIFO) pop() {
	if f.count == 0 {
		return
	}
	f.head = (f.head + 1) % FIFODepth
	f.count--
}

// CPLD1Audio serializes eight channels of audio FIFO data, raising a
// per-channel IRQ when a channel's fill level crosses below the configured
// threshold, and handles the boot-copy protocol over Mailbox B.
type CPLD1Audio struct {
	fifos     [NumAudioChannels]audioFIFO
	threshold uint8
	irqStatus uint8
	enabled   bool

	soundRAM *ram.RAM

	// RaiseIRQ is invoked by Tick whenever it newly sets at least one
	// channel's irqStatus bit, and by OnMailboxBWrite for any command other
	// than boot-copy.
	RaiseIRQ func()

	// ReleaseSoundReset is invoked by the boot-copy handler once the
	// payload has been copied into Sound RAM.
	ReleaseSoundReset func()
}

// NewCPLD1Audio returns a CPLD1 wired to the given Sound RAM.
func NewCPLD1Audio(soundRAM *ram.RAM) *CPLD1Audio {
	return &CPLD1Audio{
		threshold: 128,
		soundRAM:  soundRAM,
	}
}

// Decode implements bus.Device.
func (c *CPLD1Audio) Decode(addr uint32) bool {
	return addr >= audioRegBase && addr <= audioRegEnd
}

// Read implements bus.Device.
func (c *CPLD1Audio) Read(addr uint32) uint8 {
	off := addr - audioRegBase
	switch {
	case off >= regFillLevelLo && off <= regFillLevelHi:
		ch := off - regFillLevelLo
		return uint8(c.fifos[ch].count)
	case off == regIRQStatus:
		return c.irqStatus
	case off == regIRQThreshold:
		return c.threshold
	}
	return 0xFF
}

// Write implements bus.Device.
func (c *CPLD1Audio) Write(addr uint32, value uint8) {
	off := addr - audioRegBase
	switch {
	case off >= regFIFOWriteLo && off <= regFIFOWriteHi:
		// Each byte write extends to an independent i16 sample
		// (byte<<8) rather than latching a low byte for a later high
		// byte - see the spec's CPLD1 FIFO-write open question.
		ch := off / 2
		if int(ch) < NumAudioChannels {
			c.fifos[ch].push(int16(value) << 8)
		}
	case off == regIRQClear:
		c.irqStatus &^= value
	case off == regIRQThreshold:
		c.threshold = value
	case off == regConfig:
		c.enabled = value&0x01 != 0
	}
}

// Tick drains one sample per channel at the 32kHz audio rate, raising the
// per-channel IRQ bit the first time a channel's post-drain fill level
// drops below the threshold.
func (c *CPLD1Audio) Tick() {
	fired := false
	for ch := 0; ch < NumAudioChannels; ch++ {
		f := &c.fifos[ch]
		if f.count > 0 {
			f.pop()
		}
		bit := uint8(1) << uint(ch)
		if uint8(f.count) < c.threshold && c.irqStatus&bit == 0 {
			c.irqStatus |= bit
			fired = true
		}
	}
	if fired && c.RaiseIRQ != nil {
		c.RaiseIRQ()
	}
}

// GetFrame sums the front sample of every non-empty FIFO, divides by the
// channel count (a fixed denominator so output level doesn't surge as
// channels fall silent), and clamps to int16.
func (c *CPLD1Audio) GetFrame() int16 {
	var sum int32
	for ch := 0; ch < NumAudioChannels; ch++ {
		if s, ok := c.fifos[ch].front(); ok {
			sum += int32(s)
		}
	}
	sum /= NumAudioChannels
	if sum > 32767 {
		return 32767
	}
	if sum < -32768 {
		return -32768
	}
	return int16(sum)
}

// OnMailboxBWrite is bound as Mailbox B's OnWrite callback. If the first
// byte is the boot-copy command (0x01), it copies the payload into Sound
// RAM and releases the Sound CPU's reset; any other command instead raises
// a Sound CPU IRQ.
func (c *CPLD1Audio) OnMailboxBWrite(peek func(offset int) uint8) {
	bootCopy(peek, c.soundRAM, c.ReleaseSoundReset, c.RaiseIRQ)
}
