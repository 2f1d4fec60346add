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

package machine_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sano-emu/sano/address"
	"github.com/sano-emu/sano/bus"
	"github.com/sano-emu/sano/cartridge"
	"github.com/sano-emu/sano/cpu"
	"github.com/sano-emu/sano/machine"
	"github.com/sano-emu/sano/test"
)

// writeROM builds a minimal but well-formed cartridge image in a temp
// directory and returns its path: a HeaderSize header with the three entry
// points set as requested, padded out with a handful of trailer bytes so
// the image isn't suspiciously exactly the header size.
func writeROM(t *testing.T, mainEntry, gfxEntry, sndEntry uint32) string {
	t.Helper()

	rom := make([]byte, cartridge.HeaderSize+16)
	putFlat24(rom, 0, mainEntry)
	putFlat24(rom, 3, gfxEntry)
	putFlat24(rom, 6, sndEntry)
	copy(rom[18:], "test cartridge")
	rom[50] = 1

	path := filepath.Join(t.TempDir(), "test.sno")
	if err := os.WriteFile(path, rom, 0o644); err != nil {
		t.Fatalf("writing test rom: %v", err)
	}
	return path
}

func putFlat24(rom []byte, offset int, flat uint32) {
	rom[offset] = byte(flat)
	rom[offset+1] = byte(flat >> 8)
	rom[offset+2] = byte(flat >> 16)
}

// recordCores returns a CoreFactory that builds a cpu.Stub and appends it
// to cores, so a test can inspect the cores machine.New creates (in the
// order main, graphics, sound).
func recordCores(cores *[]cpu.Core) machine.CoreFactory {
	return func(sysBus *bus.SystemBus, emulationVectors, nativeVectors cpu.VectorTable) cpu.Core {
		c := cpu.NewStub(sysBus, emulationVectors, nativeVectors)
		*cores = append(*cores, c)
		return c
	}
}

func TestLoadROMBootsMainCPUAtHeaderEntry(t *testing.T) {
	path := writeROM(t, 0x018000, 0, 0)

	var cores []cpu.Core
	f := recordCores(&cores)
	m := machine.New(f, f, f)
	test.DemandEquality(t, m.Loaded(), false)

	if err := m.LoadROM(path); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	test.DemandEquality(t, m.Loaded(), true)
	test.DemandEquality(t, cores[0].GetProgramAddress(), address.FromFlat(0x018000))
}

func TestResetHoldsGraphicsAndSoundWithZeroEntries(t *testing.T) {
	path := writeROM(t, 0x018000, 0, 0)

	var cores []cpu.Core
	f := recordCores(&cores)
	m := machine.New(f, f, f)
	if err := m.LoadROM(path); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}

	// a core held in reset reports zero cycles
	test.DemandEquality(t, cores[1].ExecuteNextInstruction(), 0)
	test.DemandEquality(t, cores[2].ExecuteNextInstruction(), 0)

	// RunFrame must not panic or advance a CPU that Reset left in reset;
	// a held core's ExecuteNextInstruction always reports zero cycles, so
	// a single frame should complete without error regardless.
	m.RunFrame()
}

func TestResetReleasesGraphicsAndSoundWithNonzeroEntries(t *testing.T) {
	path := writeROM(t, 0x018000, 0x020000, 0x030000)

	var cores []cpu.Core
	f := recordCores(&cores)
	m := machine.New(f, f, f)
	if err := m.LoadROM(path); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}

	test.DemandEquality(t, cores[1].GetProgramAddress(), address.FromFlat(0x020000))
	test.DemandEquality(t, cores[2].GetProgramAddress(), address.FromFlat(0x030000))

	// a released core consumes cycles
	if cores[1].ExecuteNextInstruction() <= 0 || cores[2].ExecuteNextInstruction() <= 0 {
		t.Fatalf("expected graphics and sound CPUs to be released from reset")
	}

	m.RunFrame()
}

func TestFramebufferIsScreenSized(t *testing.T) {
	m := machine.New(cpu.NewStub, cpu.NewStub, cpu.NewStub)
	test.DemandEquality(t, len(m.Framebuffer()), 320*240)
}

func TestAudioPullReturnsAPair(t *testing.T) {
	m := machine.New(cpu.NewStub, cpu.NewStub, cpu.NewStub)
	// mixing with no cartridge loaded and a silent FIFO should just settle
	// on silence, not panic.
	l, r := m.AudioPull()
	_ = l
	_ = r
}

func TestEmulationSpeedIsZeroBeforeFirstFrame(t *testing.T) {
	m := machine.New(cpu.NewStub, cpu.NewStub, cpu.NewStub)
	test.DemandEquality(t, m.EmulationSpeed(), 0.0)
}

func TestEmulationSpeedIsPositiveAfterAFrame(t *testing.T) {
	// the Graphics CPU must actually be released from reset (nonzero
	// header entry) for the frame to burn any Graphics CPU cycles, which
	// is what EmulationSpeed is derived from.
	path := writeROM(t, 0x018000, 0x020000, 0x030000)

	m := machine.New(cpu.NewStub, cpu.NewStub, cpu.NewStub)
	if err := m.LoadROM(path); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}

	m.RunFrame()
	if m.EmulationSpeed() <= 0 {
		t.Fatalf("expected a positive emulation speed after RunFrame, got %v", m.EmulationSpeed())
	}
}

func TestDefaultBrightnessIsIdentity(t *testing.T) {
	m := machine.New(cpu.NewStub, cpu.NewStub, cpu.NewStub)
	test.DemandEquality(t, m.Brightness, uint8(31))
	test.DemandEquality(t, m.TintR, int8(0))
	test.DemandEquality(t, m.TintG, int8(0))
	test.DemandEquality(t, m.TintB, int8(0))
}
