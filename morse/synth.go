package morse

import "math"

// Synthesis constants.
const (
	// SampleRate is the fixed output sample rate in Hz.
	SampleRate = 48000

	harmonicsCount = 20
	fadeInSeconds  = 0.0004
	fadeOutSeconds = 0.0002
)

// GenerateTone synthesizes a mono tone pulse spanning units dot units
// of the given unit length. The buffer is normalized to peak amplitude
// 1.0 and faded at both edges with half-Hann windows to avoid clicks.
func GenerateTone(wave WaveType, frequency int, unitSeconds float64, units int) []float32 {
	n := sampleCount(unitSeconds, units)
	samples := make([]float64, n)
	freq := float64(frequency)

	for i := range samples {
		t := float64(i) / SampleRate
		var v float64
		switch wave {
		case Sine:
			v = math.Sin(2 * math.Pi * freq * t)
		case Square:
			for h := 0; h < harmonicsCount; h++ {
				k := float64(2*h + 1)
				v += math.Sin(2*math.Pi*freq*k*t) / k
			}
		case Triangle:
			for h := 0; h < harmonicsCount; h++ {
				k := float64(2*h + 1)
				sign := 1.0
				if h%2 == 1 {
					sign = -1.0
				}
				v += sign * math.Sin(2*math.Pi*freq*k*t) / (k * k)
			}
		case Sawtooth:
			for h := 1; h < harmonicsCount; h++ {
				k := float64(h)
				v += math.Sin(2*math.Pi*freq*k*t) / k
			}
		}
		samples[i] = v
	}

	normalize(samples)
	applyEdgeFades(samples)

	out := make([]float32, n)
	for i, v := range samples {
		out[i] = float32(v)
	}
	return out
}

// GenerateSilence returns a zero buffer covering units dot units.
func GenerateSilence(unitSeconds float64, units int) []float32 {
	return make([]float32, sampleCount(unitSeconds, units))
}

func sampleCount(unitSeconds float64, units int) int {
	return max(int(SampleRate*unitSeconds*float64(units)), 0)
}

// normalize scales samples so the peak absolute value is 1.0. A silent
// buffer (duration zero) is left untouched.
func normalize(samples []float64) {
	var peak float64
	for _, v := range samples {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return
	}
	for i := range samples {
		samples[i] /= peak
	}
}

// applyEdgeFades applies a rising half-Hann window over the first
// fade-in span and a falling one over the last fade-out span.
func applyEdgeFades(samples []float64) {
	fadeInSpan := fadeInSeconds * SampleRate
	fadeOutSpan := fadeOutSeconds * SampleRate
	fadeIn := min(int(fadeInSpan), len(samples))
	fadeOut := min(int(fadeOutSpan), len(samples))

	for i := 0; i < fadeIn; i++ {
		samples[i] *= hannRamp(i, fadeIn)
	}
	for i := 0; i < fadeOut; i++ {
		samples[len(samples)-fadeOut+i] *= hannRamp(fadeOut-1-i, fadeOut)
	}
}

// hannRamp is 0.5(1-cos θ) with θ spanning [0, π] across n samples.
func hannRamp(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	theta := math.Pi * float64(i) / float64(n-1)
	return 0.5 * (1 - math.Cos(theta))
}
