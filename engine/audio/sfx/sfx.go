// Package sfx synthesises the engine's sound effects with beep and renders
// them to 16-bit stereo PCM ready for playback.
package sfx

import (
	"encoding/binary"
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// Sound names one synthesised effect
type Sound string

const (
	SoundHit    Sound = "hit"
	SoundDeath  Sound = "death"
	SoundSummon Sound = "summon"
	SoundSwing  Sound = "swing"
)

// All lists every effect the engine can play
var All = []Sound{SoundHit, SoundDeath, SoundSummon, SoundSwing}

type oscillator struct {
	freq     float64
	sweep    float64 // frequency change per second
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
	rng      *rand.Rand
}

// NewOscillator creates a streamer producing a wave for duration. A non-zero
// sweep slides the pitch linearly.
func NewOscillator(freq, sweep float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		sweep:    sweep,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		rng:      rand.New(rand.NewSource(int64(freq*1000) + int64(wave))),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = o.rng.Float64()*2 - 1
		}
		samples[i][0] = val
		samples[i][1] = val

		t := float64(o.position) / float64(o.rate)
		f := math.Max(20, o.freq+o.sweep*t)
		o.phase += f / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies a linear attack and release
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}
		vol := 1.0
		if e.position < e.attack && e.attack > 0 {
			vol = float64(e.position) / float64(e.attack)
		}
		if start := e.total - e.release; e.position >= start && e.release > 0 {
			vol = math.Max(0, float64(e.total-e.position)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// math.Log2(0) is -Inf, so zero volume is expressed as Silent
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Build returns the streamer for a sound at the given sample rate
func Build(snd Sound, rate beep.SampleRate) beep.Streamer {
	switch snd {
	case SoundHit:
		d := 90 * time.Millisecond
		thump := NewEnvelope(NewOscillator(180, -900, d, WaveSquare, rate), d, 2*time.Millisecond, 60*time.Millisecond, rate)
		crack := NewEnvelope(NewOscillator(0, 0, d, WaveNoise, rate), d, time.Millisecond, 80*time.Millisecond, rate)
		return beep.Mix(withVolume(thump, 0.5), withVolume(crack, 0.3))
	case SoundDeath:
		d := 450 * time.Millisecond
		fall := NewEnvelope(NewOscillator(320, -500, d, WaveSaw, rate), d, 5*time.Millisecond, 300*time.Millisecond, rate)
		return withVolume(fall, 0.5)
	case SoundSummon:
		d := 120 * time.Millisecond
		a := NewEnvelope(NewOscillator(523.25, 0, d, WaveSine, rate), d, 5*time.Millisecond, 60*time.Millisecond, rate)
		b := NewEnvelope(NewOscillator(783.99, 0, 2*d, WaveSine, rate), 2*d, 5*time.Millisecond, 150*time.Millisecond, rate)
		return withVolume(beep.Seq(a, b), 0.5)
	case SoundSwing:
		d := 70 * time.Millisecond
		whoosh := NewEnvelope(NewOscillator(0, 0, d, WaveNoise, rate), d, 20*time.Millisecond, 40*time.Millisecond, rate)
		return withVolume(whoosh, 0.25)
	}
	return beep.Silence(0)
}

// Render drains a streamer into little-endian 16-bit stereo PCM
func Render(s beep.Streamer) []byte {
	var out []byte
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			for c := 0; c < 2; c++ {
				v := math.Max(-1, math.Min(1, smp[c]))
				out = binary.LittleEndian.AppendUint16(out, uint16(int16(v*math.MaxInt16)))
			}
		}
		if !ok {
			return out
		}
	}
}

// Attenuate scales volume linearly with distance, reaching zero at maxDist
func Attenuate(dist, maxDist, volume float64) float64 {
	if maxDist <= 0 || dist >= maxDist {
		return 0
	}
	return (1 - dist/maxDist) * volume
}
