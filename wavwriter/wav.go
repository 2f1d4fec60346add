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

// Package wavwriter allows writing of audio data to disk as a WAV file. Note
// that audio data is buffered in memory in its entirety and written to disk
// on program end, so it is only suitable for the length of runs the -wav
// flag is meant for, not unattended long-running capture.
package wavwriter

import (
	"os"

	"github.com/sano-emu/sano/curated"
	"github.com/sano-emu/sano/logger"
	"github.com/youpy/go-wav"
)

// SampleFreq is the sample rate produced by the audio mixer and, in turn,
// written into the WAV header.
const SampleFreq = 32000

// WavWriter accumulates the stereo frames pulled from an audio.Mixer and
// writes them out as a standard 16-bit PCM WAV file.
type WavWriter struct {
	filename string
	buffer   []wav.Sample
}

// New is the preferred method of initialisation for the WavWriter type.
func New(filename string) (*WavWriter, error) {
	aw := &WavWriter{
		filename: filename,
		buffer:   make([]wav.Sample, 0),
	}

	return aw, nil
}

// WriteFrame appends one stereo sample pair to the capture buffer. l and r
// are the left/right int16 samples as produced by audio.Mixer.Mix.
func (aw *WavWriter) WriteFrame(l, r int16) {
	w := wav.Sample{}
	w.Values[0] = int(l)
	w.Values[1] = int(r)
	aw.buffer = append(aw.buffer, w)
}

// EndMixing flushes the buffered frames to disk as a 2-channel, 16-bit,
// 32kHz WAV file.
func (aw *WavWriter) EndMixing() (rerr error) {
	f, err := os.Create(aw.filename)
	if err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}
	defer func() {
		err := f.Close()
		if err != nil {
			rerr = curated.Errorf("wavwriter: %v", err)
		}
	}()

	enc := wav.NewWriter(f, uint32(len(aw.buffer)), 2, uint32(SampleFreq), 16)
	if enc == nil {
		return curated.Errorf("wavwriter: %v", "bad parameters for wav encoding")
	}

	logger.Logf(logger.Allow, "wavwriter", "writing audio to %s", aw.filename)
	if err := enc.WriteSamples(aw.buffer); err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}

	return nil
}

// Reset discards any buffered, not-yet-written samples.
func (aw *WavWriter) Reset() {
	aw.buffer = aw.buffer[:0]
}
