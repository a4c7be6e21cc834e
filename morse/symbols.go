// Package morse encodes text into Morse timing sequences, synthesizes
// the matching tone/silence waveform, and streams it to an audio sink.
package morse

import (
	"fmt"
	"math"
)

// Symbol is one discrete token of a playable Morse sequence.
type Symbol int

const (
	// Dot is a one-unit tone.
	Dot Symbol = iota
	// Dash is a three-unit tone.
	Dash
	// IntraGap is the silence between tones of a single character.
	IntraGap
	// CharacterGap is the silence between characters.
	CharacterGap
	// WordGap is the silence between words.
	WordGap
	// SpeedMarker carries no duration; it tells the scheduler to pick up
	// the next entry of the session's speed profile.
	SpeedMarker
)

// String returns the string representation of the symbol.
func (s Symbol) String() string {
	switch s {
	case Dot:
		return "dot"
	case Dash:
		return "dash"
	case IntraGap:
		return "intra-gap"
	case CharacterGap:
		return "char-gap"
	case WordGap:
		return "word-gap"
	case SpeedMarker:
		return "speed-marker"
	default:
		return "unknown"
	}
}

// Category classifies how a symbol is rendered.
type Category int

const (
	// CategoryTone renders as an audible pulse.
	CategoryTone Category = iota
	// CategorySilence renders as a zero-sample pause.
	CategorySilence
	// CategorySpeedChange renders nothing; it advances the speed profile.
	CategorySpeedChange
)

// Action describes how one symbol plays out: its category and its
// length in dot units.
type Action struct {
	Category Category
	Units    int
}

// TimingTable maps every symbol the encoder can emit to its playback
// action. The table must stay exhaustive; looking up a missing symbol
// is a programming error and panics.
type TimingTable map[Symbol]Action

// DefaultTimingTable returns the standard 1:3:1:3:7 Morse timing.
func DefaultTimingTable() TimingTable {
	return TimingTable{
		Dot:          {CategoryTone, 1},
		Dash:         {CategoryTone, 3},
		IntraGap:     {CategorySilence, 1},
		CharacterGap: {CategorySilence, 3},
		WordGap:      {CategorySilence, 7},
		SpeedMarker:  {CategorySpeedChange, 0},
	}
}

// Lookup returns the action for a symbol.
func (t TimingTable) Lookup(s Symbol) Action {
	a, ok := t[s]
	if !ok {
		panic(fmt.Sprintf("morse: timing table has no entry for symbol %v", s))
	}
	return a
}

// SetDelay overrides the character-gap length in units. The word gap
// scales with it at the conventional 2.33 ratio.
func (t TimingTable) SetDelay(units int) {
	t[CharacterGap] = Action{CategorySilence, units}
	t[WordGap] = Action{CategorySilence, int(math.Round(float64(units) * 2.33))}
}

// Clone returns an independent copy, used to snapshot the table into a
// playback session so later mutations don't affect in-flight audio.
func (t TimingTable) Clone() TimingTable {
	c := make(TimingTable, len(t))
	for s, a := range t {
		c[s] = a
	}
	return c
}
