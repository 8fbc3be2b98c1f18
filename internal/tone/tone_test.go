package tone

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTone_Length(t *testing.T) {
	assert.Equal(t, 300*time.Millisecond, Positive().Length())
	assert.Equal(t, 160*time.Millisecond, Negative().Length())
	assert.Zero(t, Tone{}.Length())
}

func TestTone_Render(t *testing.T) {
	tests := []struct {
		name     string
		tone     Tone
		expected int
	}{
		{name: "positive", tone: Positive(), expected: 6000},
		{name: "negative", tone: Negative(), expected: 3200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := tt.tone.Render(20000)
			require.Len(t, samples, tt.expected)

			var peak int16
			for _, s := range samples {
				if s < 0 {
					s = -s
				}
				if s > peak {
					peak = s
				}
			}
			assert.InDelta(t, 0.8*32767, float64(peak), 1)
		})
	}
}

func TestTone_RenderSilent(t *testing.T) {
	samples := Tone{}.Render(0)
	assert.Empty(t, samples)
}

func TestEncodeWAV(t *testing.T) {
	samples := []int16{0, 1000, -1000, 32767}
	wav := EncodeWAV(samples, 16000)

	require.Len(t, wav, 44+len(samples)*2)
	le := binary.LittleEndian

	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, uint32(len(wav)-8), le.Uint32(wav[4:8]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, "fmt ", string(wav[12:16]))
	assert.Equal(t, uint16(1), le.Uint16(wav[20:22]))
	assert.Equal(t, uint16(1), le.Uint16(wav[22:24]))
	assert.Equal(t, uint32(16000), le.Uint32(wav[24:28]))
	assert.Equal(t, uint32(32000), le.Uint32(wav[28:32]))
	assert.Equal(t, uint16(16), le.Uint16(wav[34:36]))
	assert.Equal(t, "data", string(wav[36:40]))
	assert.Equal(t, uint32(8), le.Uint32(wav[40:44]))
	assert.Equal(t, int16(-1000), int16(le.Uint16(wav[48:50])))
}

func TestTone_WAV(t *testing.T) {
	wav := Negative().WAV(0)

	require.Greater(t, len(wav), 44)
	assert.Equal(t, uint32(DefaultSampleRate), binary.LittleEndian.Uint32(wav[24:28]))

	nonZero := false
	for _, b := range wav[44:] {
		if b != 0 {
			nonZero = true
			break
		}
	}
	assert.True(t, nonZero)
}
