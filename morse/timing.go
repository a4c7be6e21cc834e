package morse

import "time"

// Base tone-unit durations at the reference speed, in seconds.
const (
	lettersUnitSeconds = 0.05
	digitsUnitSeconds  = 0.034
	mixedUnitSeconds   = 0.042

	referenceSpeed = 100.0
)

// UnitSeconds returns the length of one dot unit for a text type at a
// percentage-style speed (100 = reference).
func UnitSeconds(t TextType, speed float64) float64 {
	var base float64
	switch t {
	case Digits:
		base = digitsUnitSeconds
	case Mixed:
		base = mixedUnitSeconds
	default:
		base = lettersUnitSeconds
	}
	return base * referenceSpeed / speed
}

// ComputeTiming walks a symbol sequence and returns its total duration
// together with cumulative checkpoints: an initial zero, then one per
// character or word gap. SpeedMarker symbols consume the next profile
// entry and recompute the unit length from it.
func ComputeTiming(sequence []Symbol, table TimingTable, textType TextType, speed float64, profile []float64) (time.Duration, []time.Duration) {
	unit := UnitSeconds(textType, speed)
	checkpoints := []time.Duration{0}
	var seconds float64
	next := 0

	for _, s := range sequence {
		action := table.Lookup(s)
		seconds += unit * float64(action.Units)
		if action.Category == CategorySpeedChange {
			unit = UnitSeconds(textType, profile[next])
			next++
		}
		if s == CharacterGap || s == WordGap {
			checkpoints = append(checkpoints, secondsToDuration(seconds))
		}
	}

	return secondsToDuration(seconds), checkpoints
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
