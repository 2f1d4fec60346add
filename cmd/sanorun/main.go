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

// Command sanorun is the reference host for the machine package: an SDL2
// window blitting machine.Framebuffer() through a streaming texture, an SDL
// queued audio device fed by machine.AudioPull, and the flags to drive both.
// The CPU cores it wires in are cpu.Stub - a real 65C816 interpreter is a
// separate, externally supplied component (see the cpu package doc).
package main

import (
	"fmt"
	"os"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/sano-emu/sano/cpu"
	"github.com/sano-emu/sano/logger"
	"github.com/sano-emu/sano/machine"
	"github.com/sano-emu/sano/modalflag"
	"github.com/sano-emu/sano/performance"
	"github.com/sano-emu/sano/performance/limiter"
	"github.com/sano-emu/sano/version"
	"github.com/sano-emu/sano/wavwriter"
)

const (
	windowWidth  = 320
	windowHeight = 240

	audioSampleFreq = 32000
	audioQueueLimit = audioSampleFreq // ~1 second of backpressure before we drop frames
)

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.NewMode()

	spec := md.AddString("tv", "NTSC", "television specification: NTSC, PAL (cosmetic - affects window title only)")
	scale := md.AddFloat64("scale", 2.0, "window scaling factor")
	fpsCap := md.AddBool("fpscap", true, "cap emulation to 60fps")
	wavPath := md.AddString("wav", "", "record mixed audio to a wav file")
	cpuProfile := md.AddString("cpuprofile", "", "write a cpu profile to this file on exit")
	verbose := md.AddBool("verbose", false, "echo the debugging log to stdout")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return
	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		os.Exit(10)
	}

	if *verbose {
		logger.SetEcho(os.Stdout, true)
	}

	if len(md.RemainingArgs()) != 1 {
		fmt.Println("* error: a cartridge image is required")
		os.Exit(10)
	}
	romPath := md.GetArg(0)

	err = performance.RunWithCPUProfile(*cpuProfile != "", *cpuProfile, func() error {
		return run(romPath, *spec, *scale, *fpsCap, *wavPath)
	})
	if err != nil {
		fmt.Printf("* error: %v\n", err)
		os.Exit(20)
	}
}

func run(romPath, spec string, scale float64, fpsCap bool, wavPath string) error {
	m := machine.New(cpu.NewStub, cpu.NewStub, cpu.NewStub)
	if err := m.LoadROM(romPath); err != nil {
		return err
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return err
	}
	defer sdl.Quit()

	title := fmt.Sprintf("%s [%s]", version.ApplicationName, spec)
	window, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(float64(windowWidth)*scale), int32(float64(windowHeight)*scale),
		sdl.WINDOW_SHOWN)
	if err != nil {
		return err
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return err
	}
	defer renderer.Destroy()

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STREAMING, windowWidth, windowHeight)
	if err != nil {
		return err
	}
	defer texture.Destroy()

	audioDevice, err := openAudioDevice()
	if err != nil {
		return err
	}
	defer sdl.CloseAudioDevice(audioDevice)
	sdl.PauseAudioDevice(audioDevice, false)

	var wav *wavwriter.WavWriter
	if wavPath != "" {
		wav, err = wavwriter.New(wavPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := wav.EndMixing(); err != nil {
				logger.Logf(logger.Allow, "sanorun", "%v", err)
			}
		}()
	}

	limit, err := limiter.NewFPSLimiter(60)
	if err != nil {
		return err
	}

	frame := 0
	for {
		if quit() {
			return nil
		}

		m.RunFrame()
		pullAudio(m, audioDevice, wav)

		if err := blit(texture, renderer, m.Framebuffer()); err != nil {
			return err
		}

		// refresh the title with the current emulation speed roughly once
		// a second rather than every frame, since SetTitle isn't free
		frame++
		if frame%60 == 0 {
			window.SetTitle(fmt.Sprintf("%s [%s] - %.0f%%", version.ApplicationName, spec, m.EmulationSpeed()*100))
		}

		if fpsCap {
			limit.Wait()
		}
	}
}

// quit drains pending SDL events and reports whether the user closed the
// window or pressed Escape.
func quit() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			return true
		case *sdl.KeyboardEvent:
			if e.Keysym.Sym == sdl.K_ESCAPE && e.State == sdl.PRESSED {
				return true
			}
		}
	}
	return false
}

func blit(texture *sdl.Texture, renderer *sdl.Renderer, framebuffer []uint32) error {
	if err := texture.Update(nil, unsafePixelBytes(framebuffer), windowWidth*4); err != nil {
		return err
	}
	if err := renderer.Clear(); err != nil {
		return err
	}
	if err := renderer.Copy(texture, nil, nil); err != nil {
		return err
	}
	renderer.Present()
	return nil
}

func openAudioDevice() (sdl.AudioDeviceID, error) {
	spec := sdl.AudioSpec{
		Freq:     audioSampleFreq,
		Format:   sdl.AUDIO_S16LSB,
		Channels: 2,
		Samples:  1024,
	}
	return sdl.OpenAudioDevice("", false, &spec, nil, 0)
}

func pullAudio(m *machine.Machine, dev sdl.AudioDeviceID, wav *wavwriter.WavWriter) {
	if sdl.GetQueuedAudioSize(dev) > audioQueueLimit*4 {
		return
	}

	const framesPerVideoFrame = audioSampleFreq / 60
	buf := make([]int16, 0, framesPerVideoFrame*2)
	for i := 0; i < framesPerVideoFrame; i++ {
		l, r := m.AudioPull()
		buf = append(buf, l, r)
		if wav != nil {
			wav.WriteFrame(l, r)
		}
	}

	sdl.QueueAudio(dev, int16SliceToBytes(buf))
}
