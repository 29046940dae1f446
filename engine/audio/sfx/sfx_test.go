package sfx

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRate = beep.SampleRate(44100)

func TestOscillatorRange(t *testing.T) {
	for _, wave := range []WaveType{WaveSine, WaveSquare, WaveSaw, WaveNoise} {
		osc := NewOscillator(440, 0, 50*time.Millisecond, wave, testRate)
		buf := make([][2]float64, 512)
		total := 0
		for {
			n, ok := osc.Stream(buf)
			for _, s := range buf[:n] {
				assert.GreaterOrEqual(t, s[0], -1.0)
				assert.LessOrEqual(t, s[0], 1.0)
				assert.Equal(t, s[0], s[1])
			}
			total += n
			if !ok {
				break
			}
		}
		assert.Equal(t, testRate.N(50*time.Millisecond), total)
	}
}

func TestEnvelopeSilencesEdges(t *testing.T) {
	d := 20 * time.Millisecond
	env := NewEnvelope(NewOscillator(0, 0, d, WaveSquare, testRate), d, 5*time.Millisecond, 5*time.Millisecond, testRate)
	buf := make([][2]float64, testRate.N(d))
	n, _ := env.Stream(buf)
	require.Equal(t, len(buf), n)
	assert.Equal(t, 0.0, buf[0][0], "attack starts from silence")
	assert.InDelta(t, 0.0, buf[n-1][0], 0.01, "release ends near silence")
}

func TestBuildAndRenderEverySound(t *testing.T) {
	for _, snd := range All {
		t.Run(string(snd), func(t *testing.T) {
			pcm := Render(Build(snd, testRate))
			require.NotEmpty(t, pcm)
			assert.Zero(t, len(pcm)%4, "frames are 2 channels of 16 bits")

			loud := false
			for i := 0; i+1 < len(pcm); i += 2 {
				if int16(binary.LittleEndian.Uint16(pcm[i:])) != 0 {
					loud = true
					break
				}
			}
			assert.True(t, loud, "sound must not be silent")
		})
	}
}

func TestUnknownSoundIsEmpty(t *testing.T) {
	assert.Empty(t, Render(Build("nope", testRate)))
}

func TestAttenuate(t *testing.T) {
	assert.Equal(t, 1.0, Attenuate(0, 100, 1))
	assert.InDelta(t, 0.25, Attenuate(50, 100, 0.5), 1e-12)
	assert.Equal(t, 0.0, Attenuate(100, 100, 1))
	assert.Equal(t, 0.0, Attenuate(10, 0, 1))
}
