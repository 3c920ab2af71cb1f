// Package sound plays the completion chime.
package sound

import (
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// SampleRate of the generated chime.
const SampleRate beep.SampleRate = 44100

// Options configures a Player.
type Options struct {
	// File is a WAV file. Empty uses the generated chime.
	File string
	// Volume in log2 units: -1 halves the amplitude, 0 leaves it untouched.
	Volume float64
}

// Player holds the decoded sound in memory. The speaker is opened on the
// first Play so that a machine without audio only fails when sound is used.
type Player struct {
	buffer *beep.Buffer
	volume float64

	once    sync.Once
	initErr error
}

// New loads the configured sound.
func New(opts Options) (*Player, error) {
	var (
		buffer *beep.Buffer
		err    error
	)
	if opts.File != "" {
		buffer, err = loadWAV(opts.File)
		if err != nil {
			return nil, err
		}
	} else {
		buffer = chime()
	}
	return &Player{buffer: buffer, volume: opts.Volume}, nil
}

// Format returns the format of the loaded sound.
func (p *Player) Format() beep.Format {
	return p.buffer.Format()
}

// Duration returns the length of the sound.
func (p *Player) Duration() time.Duration {
	return p.buffer.Format().SampleRate.D(p.buffer.Len())
}

// Streamer returns a fresh volume-adjusted streamer over the whole sound.
func (p *Player) Streamer() beep.Streamer {
	return &effects.Volume{
		Streamer: p.buffer.Streamer(0, p.buffer.Len()),
		Base:     2,
		Volume:   p.volume,
		Silent:   false,
	}
}

// Play starts the sound and returns immediately.
func (p *Player) Play() error {
	if err := p.init(); err != nil {
		return err
	}
	speaker.Play(p.Streamer())
	return nil
}

// PlayAndWait plays the sound and blocks until it finished.
func (p *Player) PlayAndWait() error {
	if err := p.init(); err != nil {
		return err
	}
	done := make(chan struct{})
	speaker.Play(beep.Seq(p.Streamer(), beep.Callback(func() { close(done) })))
	<-done
	return nil
}

func (p *Player) init() error {
	p.once.Do(func() {
		sr := p.buffer.Format().SampleRate
		if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
			p.initErr = fmt.Errorf("failed to open audio device: %w", err)
		}
	})
	return p.initErr
}

func loadWAV(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sound: %w", err)
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	return buffer, nil
}

// chime renders two decaying sine notes.
func chime() *beep.Buffer {
	format := beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2}
	buffer := beep.NewBuffer(format)
	buffer.Append(beep.Seq(
		tone(880, 350*time.Millisecond),
		tone(1320, 650*time.Millisecond),
	))
	return buffer
}

func tone(freq float64, d time.Duration) beep.Streamer {
	n := SampleRate.N(d)
	i := 0
	return beep.Take(n, beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for j := range samples {
			t := float64(i) / float64(SampleRate)
			v := 0.4 * math.Sin(2*math.Pi*freq*t) * math.Exp(-4*t)
			samples[j][0] = v
			samples[j][1] = v
			i++
		}
		return len(samples), true
	}))
}
