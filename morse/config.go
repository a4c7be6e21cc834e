package morse

import (
	"fmt"
	"strings"
)

// TextType selects the base tone-unit duration used for a session.
type TextType int

const (
	// Letters uses the 0.05 s reference unit.
	Letters TextType = iota
	// Digits uses the 0.034 s reference unit.
	Digits
	// Mixed uses the 0.042 s reference unit.
	Mixed
)

// String returns the string representation of the text type.
func (t TextType) String() string {
	switch t {
	case Letters:
		return "letters"
	case Digits:
		return "digits"
	case Mixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// ParseTextType parses a text type name.
func ParseTextType(s string) (TextType, error) {
	switch strings.ToLower(s) {
	case "letters":
		return Letters, nil
	case "digits":
		return Digits, nil
	case "mixed":
		return Mixed, nil
	}
	return 0, fmt.Errorf("%w: text type %q", ErrUnknownEnumValue, s)
}

// UnmarshalText implements encoding.TextUnmarshaler for env parsing.
func (t *TextType) UnmarshalText(b []byte) error {
	v, err := ParseTextType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// SpeedModification selects the per-character speed ramp applied over a
// modification window.
type SpeedModification int

const (
	// ModificationNone plays the whole session at one constant speed.
	ModificationNone SpeedModification = iota
	// Speedup ramps from min to max speed.
	Speedup
	// Slowing ramps from max to min speed.
	Slowing
	// Zigzag ramps min to max over the first half of the window, then
	// back down over the second half.
	Zigzag
)

// String returns the string representation of the modification.
func (m SpeedModification) String() string {
	switch m {
	case ModificationNone:
		return "none"
	case Speedup:
		return "speedup"
	case Slowing:
		return "slowing"
	case Zigzag:
		return "zigzag"
	default:
		return "unknown"
	}
}

// ParseSpeedModification parses a modification name.
func ParseSpeedModification(s string) (SpeedModification, error) {
	switch strings.ToLower(s) {
	case "none":
		return ModificationNone, nil
	case "speedup":
		return Speedup, nil
	case "slowing":
		return Slowing, nil
	case "zigzag":
		return Zigzag, nil
	}
	return 0, fmt.Errorf("%w: speed modification %q", ErrUnknownEnumValue, s)
}

// UnmarshalText implements encoding.TextUnmarshaler for env parsing.
func (m *SpeedModification) UnmarshalText(b []byte) error {
	v, err := ParseSpeedModification(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// WaveType selects the harmonic recipe used for tone synthesis.
type WaveType int

const (
	// Square sums odd harmonics at 1/n amplitude.
	Square WaveType = iota
	// Sine is a single fundamental.
	Sine
	// Triangle sums odd harmonics at alternating-sign 1/n² amplitude.
	Triangle
	// Sawtooth sums all harmonics at 1/n amplitude.
	Sawtooth
)

// String returns the string representation of the wave type.
func (w WaveType) String() string {
	switch w {
	case Square:
		return "square"
	case Sine:
		return "sine"
	case Triangle:
		return "triangle"
	case Sawtooth:
		return "sawtooth"
	default:
		return "unknown"
	}
}

// ParseWaveType parses a wave type name.
func ParseWaveType(s string) (WaveType, error) {
	switch strings.ToLower(s) {
	case "square":
		return Square, nil
	case "sine":
		return Sine, nil
	case "triangle":
		return Triangle, nil
	case "sawtooth":
		return Sawtooth, nil
	}
	return 0, fmt.Errorf("%w: wave type %q", ErrUnknownEnumValue, s)
}

// UnmarshalText implements encoding.TextUnmarshaler for env parsing.
func (w *WaveType) UnmarshalText(b []byte) error {
	v, err := ParseWaveType(string(b))
	if err != nil {
		return err
	}
	*w = v
	return nil
}

// TextAdditions selects the preamble/postamble wrapped around the main
// text.
type TextAdditions int

const (
	// AdditionsNone plays the bare text.
	AdditionsNone TextAdditions = iota
	// Training wraps the text in VVV / = and the end-of-work signal.
	Training
	// Competitions prepends the competition attention group and the
	// encoded transmission speed before the training preamble.
	Competitions
)

// String returns the string representation of the additions mode.
func (a TextAdditions) String() string {
	switch a {
	case AdditionsNone:
		return "none"
	case Training:
		return "training"
	case Competitions:
		return "competitions"
	default:
		return "unknown"
	}
}

// ParseTextAdditions parses an additions mode name.
func ParseTextAdditions(s string) (TextAdditions, error) {
	switch strings.ToLower(s) {
	case "none":
		return AdditionsNone, nil
	case "training":
		return Training, nil
	case "competitions":
		return Competitions, nil
	}
	return 0, fmt.Errorf("%w: text additions %q", ErrUnknownEnumValue, s)
}

// UnmarshalText implements encoding.TextUnmarshaler for env parsing.
func (a *TextAdditions) UnmarshalText(b []byte) error {
	v, err := ParseTextAdditions(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Config contains all playback configuration options.
type Config struct {
	Text         string            `env:"MORSETONE_TEXT"`
	TextType     TextType          `env:"MORSETONE_TEXT_TYPE" envDefault:"letters"`
	Speed        float64           `env:"MORSETONE_SPEED" envDefault:"100"`
	Modification SpeedModification `env:"MORSETONE_MODIFICATION" envDefault:"none"`
	MinSpeed     float64           `env:"MORSETONE_MIN_SPEED" envDefault:"100"`
	MaxSpeed     float64           `env:"MORSETONE_MAX_SPEED" envDefault:"110"`
	WindowLength int               `env:"MORSETONE_WINDOW" envDefault:"10"`
	Additions    TextAdditions     `env:"MORSETONE_ADDITIONS" envDefault:"training"`
	Wave         WaveType          `env:"MORSETONE_WAVE" envDefault:"square"`
	Frequency    int               `env:"MORSETONE_FREQUENCY" envDefault:"750"`
	Volume       float64           `env:"MORSETONE_VOLUME" envDefault:"0.5"`
	Delay        int               `env:"MORSETONE_DELAY" envDefault:"3"`
}

// DefaultConfig returns the stock trainer configuration.
func DefaultConfig() Config {
	return Config{
		TextType:     Letters,
		Speed:        100,
		Modification: ModificationNone,
		MinSpeed:     100,
		MaxSpeed:     110,
		WindowLength: 10,
		Additions:    Training,
		Wave:         Square,
		Frequency:    750,
		Volume:       0.5,
		Delay:        3,
	}
}

// Validate checks the configuration before a session starts. Ramp
// interpolation divides by windowLen×5-1, so a degenerate window is
// rejected here instead of leaking NaN into generated audio.
func (c Config) Validate() error {
	if c.Speed <= 0 {
		return ErrInvalidSpeed
	}
	if c.Frequency <= 0 {
		return ErrInvalidFrequency
	}
	if c.Volume < 0 || c.Volume > 1 {
		return ErrInvalidVolume
	}
	if c.Delay < 1 {
		return ErrInvalidDelay
	}
	if c.Modification != ModificationNone {
		if c.MinSpeed <= 0 || c.MaxSpeed <= 0 {
			return ErrInvalidSpeed
		}
		if c.MinSpeed > c.MaxSpeed {
			return ErrSpeedBounds
		}
		if c.WindowLength < 1 || c.WindowLength*rampWindowScale < 2 {
			return ErrDegenerateWindow
		}
	}
	return nil
}

// startSpeed returns the speed a session begins at: the slow edge of
// the ramp when a modification is active, the configured speed
// otherwise.
func (c Config) startSpeed() float64 {
	switch c.Modification {
	case Speedup, Zigzag:
		return c.MinSpeed
	case Slowing:
		return c.MaxSpeed
	default:
		return c.Speed
	}
}
