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

package audio_test

import (
	"math"
	"testing"

	"github.com/sano-emu/sano/audio"
	"github.com/sano-emu/sano/test"
)

type constSource int16

func (c constSource) GetFrame() int16 { return int16(c) }

func TestMixCenteredPanSplitsEqually(t *testing.T) {
	m := audio.NewMixer(constSource(1000))
	l, r := m.Mix()
	test.DemandEquality(t, l, r)
}

func TestMixFullLeftPan(t *testing.T) {
	m := audio.NewMixer(constSource(1000))
	m.Pan = -1.0
	l, r := m.Mix()
	test.DemandEquality(t, r, int16(0))
	if l == 0 {
		t.Fatalf("expected non-zero left channel at full-left pan")
	}
}

// S6 — AGC attack (approximated): after one frame with a peak over
// int16 range pre-clamp, current_gain moves below 1.0.
func TestAGCAttackMovesGainDown(t *testing.T) {
	m := audio.NewMixer(constSource(32767))
	m.AGCEnabled = true
	m.MasterVolume = 3.0 // force pre-AGC peak above int16 range

	m.Mix()
	if m.CurrentGain() >= 1.0 {
		t.Fatalf("expected AGC to reduce gain below 1.0, got %v", m.CurrentGain())
	}
}

func TestAGCConvergesTowardTarget(t *testing.T) {
	m := audio.NewMixer(constSource(32767))
	m.AGCEnabled = true
	m.MasterVolume = 3.0

	peak := 32767.0 * 0.5 * 3.0
	target := 32767.0 / peak

	for i := 0; i < 2000; i++ {
		m.Mix()
	}

	if math.Abs(m.CurrentGain()-target) > 0.01 {
		t.Fatalf("expected gain to converge near %v, got %v", target, m.CurrentGain())
	}
}

func TestMixClampsToInt16Range(t *testing.T) {
	m := audio.NewMixer(constSource(32767))
	m.MasterVolume = 10.0
	l, r := m.Mix()
	if l > 32767 || l < -32768 || r > 32767 || r < -32768 {
		t.Fatalf("mix output out of int16 range: %d, %d", l, r)
	}
}
