// Package sfx plays the eat and game-over sounds through the system speaker.
package sfx

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

const (
	eatFreq     = 880.0
	eatDuration = 60 * time.Millisecond

	dieDuration = 120 * time.Millisecond
	fadeTime    = 10 * time.Millisecond
)

var dieFreqs = []float64{440, 330, 220}

// tone is a sine wave that fades in and out over fade samples
type tone struct {
	freq     float64
	phase    float64
	position int
	total    int
	fade     int
	rate     beep.SampleRate
}

func newTone(freq float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	return &tone{
		freq:  freq,
		total: rate.N(d),
		fade:  rate.N(fadeTime),
		rate:  rate,
	}
}

func (t *tone) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if t.position >= t.total {
			return i, i > 0
		}
		vol := 1.0
		if t.fade > 0 {
			if t.position < t.fade {
				vol = float64(t.position) / float64(t.fade)
			}
			if left := t.total - t.position; left < t.fade {
				vol = float64(left) / float64(t.fade)
			}
		}
		val := vol * math.Sin(2*math.Pi*t.phase)
		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// EatSound is a short high blip
func EatSound(rate beep.SampleRate, vol float64) beep.Streamer {
	return withVolume(newTone(eatFreq, eatDuration, rate), vol)
}

// DieSound is a falling three note sequence
func DieSound(rate beep.SampleRate, vol float64) beep.Streamer {
	notes := make([]beep.Streamer, len(dieFreqs))
	for i, f := range dieFreqs {
		notes[i] = newTone(f, dieDuration, rate)
	}
	return withVolume(beep.Seq(notes...), vol)
}

// Player mixes sounds into the speaker. The zero value and a nil *Player
// are both silent.
type Player struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	volume float64
}

// New opens the speaker
func New(volume float64) (*Player, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	p := &Player{mixer: &beep.Mixer{}, volume: volume}
	speaker.Play(p.mixer)
	glog.V(1).Infof("Audio: speaker ready at %d Hz", sampleRate)
	return p, nil
}

func (p *Player) play(s beep.Streamer) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mixer == nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

func (p *Player) Eat() {
	if p == nil {
		return
	}
	p.play(EatSound(sampleRate, p.volume))
}

func (p *Player) Die() {
	if p == nil {
		return
	}
	p.play(DieSound(sampleRate, p.volume))
}

// Close silences the mixer and releases the speaker
func (p *Player) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mixer == nil {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.mixer = nil
}
