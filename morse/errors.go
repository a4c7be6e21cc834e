package morse

import "errors"

// Configuration errors, matched with errors.Is.
var (
	ErrNoText           = errors.New("no text to play")
	ErrInvalidSpeed     = errors.New("speed must be positive")
	ErrSpeedBounds      = errors.New("min speed must not exceed max speed")
	ErrDegenerateWindow = errors.New("modification window is too short for a speed ramp")
	ErrInvalidFrequency = errors.New("frequency must be positive")
	ErrInvalidVolume    = errors.New("volume must be between 0.0 and 1.0")
	ErrInvalidDelay     = errors.New("delay must be at least one unit")
	ErrUnknownEnumValue = errors.New("unknown option value")
)

// Playback errors.
var (
	ErrAlreadyPlaying = errors.New("a playback session is already running")
	ErrNoSink         = errors.New("no output sink configured")
)
