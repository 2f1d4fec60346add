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

// Package audio implements the final stereo mix stage: a single volume/pan
// pair applied to the upstream mono source, scaled by master volume, and
// optionally run through an auto-gain-control stage before being clamped to
// int16. The individual FIFO channels are not mixed here; they arrive
// already summed into one mono sample, so there is no per-channel volume or
// pan.
package audio

// Source supplies one mixed mono sample per call, matching what
// cpld.CPLD1Audio.GetFrame produces.
type Source interface {
	GetFrame() int16
}

// AGCAttack is the per-frame convergence factor applied to the AGC's
// current gain as it moves toward the target gain.
const AGCAttack = 0.01

// Mixer applies one volume/pan pair to the mono source to make a stereo
// pair, applies master volume, and (optionally) auto-gain-control.
type Mixer struct {
	source Source

	// Volume and Pan apply to the single upstream mono source before it
	// is split into the stereo pair. Pan is a straight linear crossfade
	// (equal-power panning is intentionally not used, matching the
	// reference).
	Volume float32
	Pan    float32 // -1.0 (full left) .. +1.0 (full right)

	// MasterVolume scales the mixed stereo output.
	MasterVolume float32

	// AGCEnabled toggles the auto-gain-control stage.
	AGCEnabled bool

	currentGain float64
	targetGain  float64
}

// NewMixer returns a Mixer pulling from source, at unity volume/gain and
// centered pan.
func NewMixer(source Source) *Mixer {
	return &Mixer{
		source:       source,
		Volume:       1.0,
		Pan:          0.0,
		MasterVolume: 1.0,
		currentGain:  1.0,
		targetGain:   1.0,
	}
}

// Mix pulls one frame from the upstream source and returns the mixed
// stereo pair after volume, pan, master volume and (if enabled) AGC have
// been applied.
func (m *Mixer) Mix() (l, r int16) {
	mono := float32(m.source.GetFrame()) * m.Volume

	leftGain := (1 - m.Pan) / 2
	rightGain := (1 + m.Pan) / 2

	fl := mono * leftGain * m.MasterVolume
	fr := mono * rightGain * m.MasterVolume

	if m.AGCEnabled {
		fl, fr = m.applyAGC(fl, fr)
	}

	return clampInt16(fl), clampInt16(fr)
}

// applyAGC updates current/target gain per the reference's convergence
// rule and applies the current gain to both channels.
func (m *Mixer) applyAGC(l, r float32) (float32, float32) {
	peak := abs32(l)
	if abs32(r) > peak {
		peak = abs32(r)
	}

	if peak > 32767 {
		m.targetGain = 32767.0 / float64(peak)
	} else {
		m.targetGain = 1.0
	}

	m.currentGain += (m.targetGain - m.currentGain) * AGCAttack

	gain := float32(m.currentGain)
	return l * gain, r * gain
}

// CurrentGain returns the AGC's current gain factor, for diagnostics and
// tests.
func (m *Mixer) CurrentGain() float64 {
	return m.currentGain
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func clampInt16(v float32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
