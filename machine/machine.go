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

// Package machine wires the address, bus, ram, mailbox, cartridge, cpld,
// clocks, renderer and audio packages into a runnable console: three
// independent SystemBuses, one per CPU, sharing a single Cartridge, plus
// the CPLDs that mediate the mailboxes and drive raster/audio timing.
package machine

import (
	"github.com/sano-emu/sano/address"
	"github.com/sano-emu/sano/audio"
	"github.com/sano-emu/sano/bus"
	"github.com/sano-emu/sano/cartridge"
	"github.com/sano-emu/sano/cartridgeloader"
	"github.com/sano-emu/sano/clocks"
	"github.com/sano-emu/sano/cpld"
	"github.com/sano-emu/sano/cpu"
	"github.com/sano-emu/sano/mailbox"
	"github.com/sano-emu/sano/ram"
	"github.com/sano-emu/sano/renderer"
)

const (
	mainRAMSize = 128 * 1024

	// gfxRAMSize is larger than the $000000-$01FFFF (128KB) the Graphics
	// CPU's own bus decodes: the renderer's VRAM layout (tilemap bases,
	// TILE_DATA at $020000, the direct framebuffer, OAM) extends well
	// past that ceiling. The Graphics CPU bus and the renderer both read
	// this same backing store, so it is sized to the renderer's actual
	// footprint rather than the CPU-visible window alone - matching the
	// OVERVIEW's description of CPLD2 as a "VRAM arbiter" sitting
	// between a CPU-sized aperture and a larger physical store.
	gfxRAMSize = 0x50000

	sndRAMSize = 64 * 1024

	mailboxABase = 0x400000
	mailboxBBase = 0x410000
)

// CoreFactory builds a CPU core wired to sysBus, given the emulation-mode
// and native-mode vector tables. The Machine calls this once per CPU at
// construction time; the concrete core implementation is supplied by the
// caller (see the cpu package doc).
type CoreFactory func(sysBus *bus.SystemBus, emulationVectors, nativeVectors cpu.VectorTable) cpu.Core

// Machine owns every component of the console and drives them one frame
// at a time.
type Machine struct {
	clock *clocks.MasterClock

	mainBus *bus.SystemBus
	gfxBus  *bus.SystemBus
	sndBus  *bus.SystemBus

	mainRAM *ram.RAM
	gfxRAM  *ram.RAM
	sndRAM  *ram.RAM

	mailboxA *mailbox.Mailbox
	mailboxB *mailbox.Mailbox

	cart *cartridge.Cartridge

	cpld1 *cpld.CPLD1Audio
	cpld2 *cpld.CPLD2Video
	cpld3 *cpld.CPLD3Raster

	renderer *renderer.VideoRenderer
	mixer    *audio.Mixer

	mainCPU cpu.Core
	gfxCPU  cpu.Core
	sndCPU  cpu.Core

	// Brightness and TintR/G/B are the VideoRenderer's global post-effect
	// controls. Nothing in the cartridge memory map exposes them as bus
	// registers, so the host surface sets them directly; Brightness
	// defaults to 31 (identity) and tints default to 0.
	Brightness          uint8
	TintR, TintG, TintB int8

	romLoaded    bool
	runGoroutine uint64
}

// New constructs every component in leaf-first order - buses, RAMs,
// mailboxes, cartridge, CPLDs, renderer, mixer, CPUs - wires each bus's
// device list and every CPLD/mailbox/CPU callback, and returns a Machine
// with the Main CPU held in reset pending a ROM load.
func New(mainFactory, gfxFactory, soundFactory CoreFactory) *Machine {
	m := &Machine{
		clock:      clocks.NewMasterClock(),
		mainBus:    bus.NewSystemBus(),
		gfxBus:     bus.NewSystemBus(),
		sndBus:     bus.NewSystemBus(),
		mainRAM:    ram.New("main", 0, mainRAMSize),
		gfxRAM:     ram.New("graphics", 0, gfxRAMSize),
		sndRAM:     ram.New("sound", 0, sndRAMSize),
		mailboxA:   mailbox.New(mailboxABase),
		mailboxB:   mailbox.New(mailboxBBase),
		cart:       cartridge.New(),
		renderer:   renderer.NewVideoRenderer(),
		Brightness: 31,
	}

	m.cpld1 = cpld.NewCPLD1Audio(m.sndRAM)
	m.cpld2 = cpld.NewCPLD2Video(m.gfxRAM)
	m.cpld3 = cpld.NewCPLD3Raster()
	m.mixer = audio.NewMixer(m.cpld1)

	// Main CPU bus: RAM must be registered before the cartridge so it
	// wins the $008000-$00FFFF mirror overlap in its own low banks.
	m.mainBus.Register(m.mainRAM)
	m.mainBus.Register(m.mailboxA)
	m.mainBus.Register(m.mailboxB)
	m.mainBus.Register(m.cpld2)
	m.mainBus.Register(m.cpld3)
	m.mainBus.Register(m.cart)

	m.gfxBus.Register(m.gfxRAM)
	m.gfxBus.Register(m.mailboxA)
	m.gfxBus.Register(m.cart)

	m.sndBus.Register(m.sndRAM)
	m.sndBus.Register(m.mailboxB)
	m.sndBus.Register(m.cart)

	m.mailboxA.OnWrite = func(mb *mailbox.Mailbox) {
		m.cpld2.OnMailboxAWrite(mb.Peek)
	}
	m.mailboxB.OnWrite = func(mb *mailbox.Mailbox) {
		m.cpld1.OnMailboxBWrite(mb.Peek)
	}

	m.mainCPU = mainFactory(m.mainBus, cpu.VectorTable{}, cpu.VectorTable{})
	m.gfxCPU = gfxFactory(m.gfxBus, cpu.VectorTable{}, cpu.VectorTable{})
	m.sndCPU = soundFactory(m.sndBus, cpu.VectorTable{}, cpu.VectorTable{})

	m.cpld2.RaiseGraphicsIRQ = func() { m.gfxCPU.SetIrqPin(true) }
	m.cpld2.ReleaseGraphicsReset = func() {
		m.gfxCPU.SetProgramAddress(address.New(0, 0))
		m.gfxCPU.SetResPin(false)
	}
	m.cpld1.RaiseIRQ = func() { m.sndCPU.SetIrqPin(true) }
	m.cpld1.ReleaseSoundReset = func() {
		m.sndCPU.SetProgramAddress(address.New(0, 0))
		m.sndCPU.SetResPin(false)
	}
	m.cpld3.RaiseIRQ = func() { m.mainCPU.SetIrqPin(true) }

	m.mainCPU.SetResPin(true)
	m.gfxCPU.SetResPin(true)
	m.sndCPU.SetResPin(true)

	return m
}

// LoadROM acquires a ROM image from the local filesystem via a
// cartridgeloader.Loader, attaches it to the cartridge and resets the
// machine.
func (m *Machine) LoadROM(path string) error {
	cl := cartridgeloader.NewLoader(path)
	if err := cl.Load(); err != nil {
		return err
	}

	if err := m.cart.Load(cl.Data); err != nil {
		return err
	}

	m.romLoaded = true
	m.Reset()

	return nil
}

// Reset applies §4.11's post-load reset semantics: the Main CPU always
// boots from the cartridge header's main entry point; the Graphics and
// Sound CPUs boot directly from their own header entry points if nonzero,
// or else stay held in reset until a mailbox boot-copy releases them.
func (m *Machine) Reset() {
	header := m.cart.Header()

	// releasing RES reloads the program counter from the reset vector, so
	// the entry point is set after the release
	m.mainCPU.SetResPin(true)
	m.mainCPU.SetResPin(false)
	m.mainCPU.SetProgramAddress(address.FromFlat(header.MainEntry))

	if header.GraphicsEntry != 0 {
		m.gfxCPU.SetResPin(false)
		m.gfxCPU.SetProgramAddress(address.FromFlat(header.GraphicsEntry))
	} else {
		m.gfxCPU.SetResPin(true)
	}

	if header.SoundEntry != 0 {
		m.sndCPU.SetResPin(false)
		m.sndCPU.SetProgramAddress(address.FromFlat(header.SoundEntry))
	} else {
		m.sndCPU.SetResPin(true)
	}
}

// Loaded reports whether a ROM has been successfully attached.
func (m *Machine) Loaded() bool {
	return m.romLoaded
}

// Framebuffer returns the most recently rendered frame as packed RGBA8888
// pixels, row-major, 320x240.
func (m *Machine) Framebuffer() []uint32 {
	return m.renderer.Framebuffer()
}

// AudioPull returns one mixed stereo sample pair built from CPLD1's
// current FIFO front samples. It takes no lock: it reads CPLD1 state that
// RunFrame's Tick calls change, and it updates the mixer's AGC state.
// cmd/sanorun calls it from its run loop after each RunFrame.
func (m *Machine) AudioPull() (l, r int16) {
	return m.mixer.Mix()
}

// EmulationSpeed reports the ratio of emulated time to wall-clock time
// since the first RunFrame call, 1.0 being real-time. A host status
// display uses this to show when the emulation is running behind.
func (m *Machine) EmulationSpeed() float64 {
	return m.clock.EmulationSpeed()
}
