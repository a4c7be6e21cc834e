package morse

import (
	"math"
	"strconv"
	"unicode"
)

// rampWindowScale converts the configured window length into ramp
// steps: a window of w completes one speed cycle over w×5 characters.
const rampWindowScale = 5

// EncodeOptions selects the speed-ramp behavior of Encode.
type EncodeOptions struct {
	Modification SpeedModification
	MinSpeed     float64
	MaxSpeed     float64
	WindowLength int
}

func (c Config) encodeOptions() EncodeOptions {
	return EncodeOptions{
		Modification: c.Modification,
		MinSpeed:     c.MinSpeed,
		MaxSpeed:     c.MaxSpeed,
		WindowLength: c.WindowLength,
	}
}

// Encode builds the playable symbol sequence for text, together with
// the per-character speed profile consumed by its SpeedMarker symbols.
//
// Characters outside the alphabet (and not spaces) contribute no tones
// but still take part in gap and speed-marker bookkeeping. A space
// rewrites the most recent gap into a WordGap; when a ramp cycle has
// just wrapped at that boundary, an extra profile value pinned to the
// minimum speed stretches the pause at the slow edge of the ramp.
func Encode(text string, opts EncodeOptions) ([]float64, []Symbol) {
	runes := []rune(text)
	sequence := make([]Symbol, 0, len(runes)*8)
	var profile []float64
	steps := opts.WindowLength * rampWindowScale
	step := 0

	for i, r := range runes {
		if r != ' ' && opts.Modification != ModificationNone {
			profile = append(profile, rampValue(opts, step, steps))
			step++
			if step == steps {
				step = 0
			}
			sequence = append(sequence, SpeedMarker)
		}

		if tones, ok := Code(unicode.ToUpper(r)); ok {
			for j, tone := range tones {
				sequence = append(sequence, tone)
				if j+1 != len(tones) {
					sequence = append(sequence, IntraGap)
				}
			}
		}

		if r != ' ' && i != len(runes)-1 {
			sequence = append(sequence, CharacterGap)
		} else if r == ' ' {
			if len(sequence) == 0 {
				continue // leading space, nothing to rewrite
			}
			if step == 0 && opts.Modification != ModificationNone {
				profile = append(profile, opts.MinSpeed)
				sequence[len(sequence)-1] = SpeedMarker
				sequence = append(sequence, WordGap)
			} else {
				sequence[len(sequence)-1] = WordGap
			}
		}
	}

	return profile, sequence
}

// rampValue interpolates the speed for one ramp step. Validation
// guarantees steps ≥ rampWindowScale, so no denominator here is zero.
func rampValue(opts EncodeOptions, step, steps int) float64 {
	diff := opts.MaxSpeed - opts.MinSpeed
	switch opts.Modification {
	case Speedup:
		return opts.MinSpeed + diff/float64(steps-1)*float64(step)
	case Slowing:
		return opts.MaxSpeed - diff/float64(steps-1)*float64(step)
	case Zigzag:
		half := steps / 2
		if step < half {
			return opts.MinSpeed + diff/float64(half-1)*float64(step)
		}
		return opts.MaxSpeed - diff/float64(half-1)*float64(step-half)
	default:
		panic("morse: ramp value requested without an active modification")
	}
}

// StartSequence builds the preamble for the additions mode. The
// Competitions preamble embeds the rounded decimal speed, encoded with
// the same table at the fixed reference speed.
func StartSequence(additions TextAdditions, textType TextType, speed float64) []Symbol {
	switch additions {
	case Training:
		return append([]Symbol(nil), trainingPreamble...)
	case Competitions:
		var sequence []Symbol
		if textType == Digits {
			sequence = append(sequence, competitionsDigitsPreamble...)
		} else {
			sequence = append(sequence, competitionsLettersPreamble...)
		}
		speedText := strconv.Itoa(int(math.Round(speed)))
		_, encoded := Encode(speedText, EncodeOptions{Modification: ModificationNone})
		sequence = append(sequence, encoded...)
		sequence = append(sequence, WordGap)
		sequence = append(sequence, trainingPreamble...)
		return sequence
	default:
		return nil
	}
}
