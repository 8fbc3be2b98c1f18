// Package tone synthesizes the short feedback sounds played after an
// answer and encodes them as 16-bit mono PCM WAV.
package tone

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"
)

// DefaultSampleRate is used when Render is given a non-positive rate
const DefaultSampleRate = 22050

// floor is the near-silent gain exponential ramps start from and end at
const floor = 0.0001

// Waveform is an oscillator shape
type Waveform int

const (
	Sine Waveform = iota
	Square
)

// Voice is one oscillator with an attack/decay envelope
type Voice struct {
	Start     time.Duration
	Duration  time.Duration
	Attack    time.Duration
	Peak      float64
	FreqStart float64
	// FreqEnd sweeps the pitch exponentially; zero keeps it constant
	FreqEnd float64
	Wave    Waveform
}

// Tone is a set of voices mixed together
type Tone struct {
	Voices []Voice
}

// Positive is a rising C5-E5-G5 arpeggio
func Positive() Tone {
	var voices []Voice
	for i, f := range []float64{523.25, 659.25, 783.99} {
		voices = append(voices, Voice{
			Start:     time.Duration(i) * 80 * time.Millisecond,
			Duration:  140 * time.Millisecond,
			Attack:    20 * time.Millisecond,
			Peak:      0.07,
			FreqStart: f,
			Wave:      Sine,
		})
	}
	return Tone{Voices: voices}
}

// Negative is a short square-wave beep falling from 220 to 150 Hz
func Negative() Tone {
	return Tone{Voices: []Voice{{
		Duration:  160 * time.Millisecond,
		Attack:    10 * time.Millisecond,
		Peak:      0.06,
		FreqStart: 220,
		FreqEnd:   150,
		Wave:      Square,
	}}}
}

// Length returns the time until the last voice ends
func (t Tone) Length() time.Duration {
	var end time.Duration
	for _, v := range t.Voices {
		if e := v.Start + v.Duration; e > end {
			end = e
		}
	}
	return end
}

// Render mixes the voices and normalizes the result so the loudest sample
// sits at 80% of full scale
func (t Tone) Render(sampleRate int) []int16 {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	n := int(t.Length().Seconds() * float64(sampleRate))
	mix := make([]float64, n)
	for _, v := range t.Voices {
		v.render(mix, sampleRate)
	}

	peak := 0.0
	for _, s := range mix {
		peak = math.Max(peak, math.Abs(s))
	}

	out := make([]int16, n)
	if peak == 0 {
		return out
	}
	scale := 0.8 * math.MaxInt16 / peak
	for i, s := range mix {
		out[i] = int16(math.Round(s * scale))
	}
	return out
}

func (v Voice) render(mix []float64, sampleRate int) {
	start := int(v.Start.Seconds() * float64(sampleRate))
	count := int(v.Duration.Seconds() * float64(sampleRate))
	dur := v.Duration.Seconds()
	attack := v.Attack.Seconds()

	phase := 0.0
	for i := 0; i < count && start+i < len(mix); i++ {
		tau := float64(i) / float64(sampleRate)

		freq := v.FreqStart
		if v.FreqEnd > 0 && dur > 0 {
			freq = v.FreqStart * math.Pow(v.FreqEnd/v.FreqStart, tau/dur)
		}
		phase += 2 * math.Pi * freq / float64(sampleRate)

		var s float64
		switch v.Wave {
		case Square:
			if math.Sin(phase) >= 0 {
				s = 1
			} else {
				s = -1
			}
		default:
			s = math.Sin(phase)
		}

		mix[start+i] += s * v.envelope(tau, attack, dur)
	}
}

// envelope ramps linearly up to Peak over the attack, then decays
// exponentially back to the floor by the end of the voice
func (v Voice) envelope(tau, attack, dur float64) float64 {
	if tau < attack {
		return floor + (v.Peak-floor)*tau/attack
	}
	if dur <= attack {
		return v.Peak
	}
	return v.Peak * math.Pow(floor/v.Peak, (tau-attack)/(dur-attack))
}

// WAV renders the tone as a RIFF/WAVE file
func (t Tone) WAV(sampleRate int) []byte {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return EncodeWAV(t.Render(sampleRate), sampleRate)
}

// EncodeWAV wraps 16-bit mono samples in a 44-byte PCM WAV header
func EncodeWAV(samples []int16, sampleRate int) []byte {
	const (
		fmtSize       = 16
		channels      = 1
		bitsPerSample = 16
	)
	dataSize := uint32(len(samples) * 2)
	blockAlign := uint16(channels * bitsPerSample / 8)

	var buf bytes.Buffer
	buf.Grow(44 + int(dataSize))
	le := binary.LittleEndian

	buf.WriteString("RIFF")
	binary.Write(&buf, le, uint32(4+(8+fmtSize)+(8+dataSize)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, le, uint32(fmtSize))
	binary.Write(&buf, le, uint16(1)) // PCM
	binary.Write(&buf, le, uint16(channels))
	binary.Write(&buf, le, uint32(sampleRate))
	binary.Write(&buf, le, uint32(sampleRate)*uint32(blockAlign))
	binary.Write(&buf, le, blockAlign)
	binary.Write(&buf, le, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, le, dataSize)
	binary.Write(&buf, le, samples)

	return buf.Bytes()
}
