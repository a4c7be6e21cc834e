package morse

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// Player holds the playback configuration, owns the output sink and the
// shared cancellation flag, and orchestrates play sessions.
//
// Queries are pure and recomputed from the current configuration on
// every call. A session snapshots the configuration and timing table
// when Play starts, so setters called afterwards only affect the next
// session.
type Player struct {
	mu    sync.Mutex
	cfg   Config
	table TimingTable
	sink  Sink

	stop    atomic.Bool
	playing atomic.Bool

	onMainTextStarted func()
	onPlaybackEnded   func()
}

// NewPlayer creates a player over the given output sink.
func NewPlayer(cfg Config, sink Sink) (*Player, error) {
	if sink == nil {
		return nil, ErrNoSink
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Player{cfg: cfg, table: DefaultTimingTable(), sink: sink}
	p.table.SetDelay(cfg.Delay)
	sink.SetVolume(cfg.Volume)
	return p, nil
}

// Config returns a copy of the current configuration.
func (p *Player) Config() Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg
}

// SetText sets the text to play.
func (p *Player) SetText(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg.Text = text
}

// SetTextType selects the base tone-unit duration.
func (p *Player) SetTextType(t TextType) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg.TextType = t
}

// SetSpeed sets the constant playback speed (100 = reference).
func (p *Player) SetSpeed(speed float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg.Speed = speed
}

// SetMinSpeed sets the lower speed-ramp bound.
func (p *Player) SetMinSpeed(speed float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg.MinSpeed = speed
}

// SetMaxSpeed sets the upper speed-ramp bound.
func (p *Player) SetMaxSpeed(speed float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg.MaxSpeed = speed
}

// SetModification selects the speed-ramp algorithm.
func (p *Player) SetModification(m SpeedModification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg.Modification = m
}

// SetModificationLength sets the ramp window length in characters.
func (p *Player) SetModificationLength(length int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg.WindowLength = length
}

// SetFrequency sets the tone frequency in Hz.
func (p *Player) SetFrequency(frequency int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg.Frequency = frequency
}

// SetWaveType selects the synthesis recipe.
func (p *Player) SetWaveType(w WaveType) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg.Wave = w
}

// SetTextAdditions selects the preamble/postamble mode.
func (p *Player) SetTextAdditions(a TextAdditions) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg.Additions = a
}

// SetDelay overrides the character-gap length in units; the word gap
// scales with it.
func (p *Player) SetDelay(units int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg.Delay = units
	p.table.SetDelay(units)
}

// SetVolume forwards the volume to the sink and records it for future
// sessions.
func (p *Player) SetVolume(volume float64) error {
	if volume < 0 || volume > 1 {
		return ErrInvalidVolume
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg.Volume = volume
	p.sink.SetVolume(volume)
	return nil
}

// OnMainTextStarted registers the callback fired when playback reaches
// the main text after the preamble. Registering replaces any previous
// callback.
func (p *Player) OnMainTextStarted(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onMainTextStarted = fn
}

// OnPlaybackEnded registers the callback fired exactly once when a
// session finishes or is cancelled. Registering replaces any previous
// callback.
func (p *Player) OnPlaybackEnded(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onPlaybackEnded = fn
}

func (p *Player) snapshot() (Config, TimingTable) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg, p.table.Clone()
}

// TextDuration returns the playing time of the configured text alone,
// excluding any preamble and postamble.
func (p *Player) TextDuration() time.Duration {
	cfg, table := p.snapshot()
	profile, sequence := Encode(cfg.Text, cfg.encodeOptions())
	total, _ := ComputeTiming(sequence, table, cfg.TextType, cfg.Speed, profile)
	return total
}

// StartPartDuration returns the playing time of the preamble at the
// speed a session would begin with.
func (p *Player) StartPartDuration() time.Duration {
	cfg, table := p.snapshot()
	speed := cfg.startSpeed()
	sequence := StartSequence(cfg.Additions, cfg.TextType, speed)
	total, _ := ComputeTiming(sequence, table, cfg.TextType, speed, nil)
	return total
}

// CharTimings returns cumulative playback-sync timestamps for the
// configured text: zero, then one entry per character or word boundary.
func (p *Player) CharTimings() []time.Duration {
	cfg, table := p.snapshot()
	profile, sequence := Encode(cfg.Text, cfg.encodeOptions())
	_, checkpoints := ComputeTiming(sequence, table, cfg.TextType, cfg.Speed, profile)
	return checkpoints
}

// Play runs one playback session and blocks until the streaming worker
// and both notification paths have finished. Cancelling ctx stops the
// session cooperatively, exactly like Stop.
func (p *Player) Play(ctx context.Context) error {
	if !p.playing.CompareAndSwap(false, true) {
		return ErrAlreadyPlaying
	}
	defer p.playing.Store(false)

	p.mu.Lock()
	cfg := p.cfg
	if err := cfg.Validate(); err != nil {
		p.mu.Unlock()
		return err
	}
	table := p.table.Clone()
	sink := p.sink
	startCallback := p.onMainTextStarted
	endCallback := p.onPlaybackEnded
	p.stop.Store(false)
	sink.Play()
	p.mu.Unlock()

	speed := cfg.startSpeed()
	profile, body := Encode(cfg.Text, cfg.encodeOptions())
	startPart := StartSequence(cfg.Additions, cfg.TextType, speed)
	startDuration, _ := ComputeTiming(startPart, table, cfg.TextType, speed, nil)

	sequence := make([]Symbol, 0, len(startPart)+len(body)+len(postamble))
	sequence = append(sequence, startPart...)
	sequence = append(sequence, body...)
	if cfg.Additions != AdditionsNone {
		sequence = append(sequence, postamble...)
	}

	sess := &session{
		sequence:  sequence,
		profile:   profile,
		table:     table,
		textType:  cfg.TextType,
		speed:     speed,
		wave:      cfg.Wave,
		frequency: cfg.Frequency,
	}

	log.Debug("morse playback starting",
		"symbols", len(sequence), "speed", speed, "wave", cfg.Wave)

	// The worker closes ended exactly once, whether the session drained
	// naturally or was cancelled. Late subscribers still observe it.
	ended := make(chan struct{})
	worker := newScheduler(sink, &p.stop)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		final := worker.run(sess)
		log.Debug("morse playback finished", "state", final)
		close(ended)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
			p.Stop()
		case <-ended:
		}
	}()

	if startCallback != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			timer := time.NewTimer(startDuration)
			defer timer.Stop()
			select {
			case <-ended:
			case <-timer.C:
				// Fire only if playback is still going; a session that
				// ended before the preamble elapsed skips the callback.
				select {
				case <-ended:
				default:
					startCallback()
				}
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ended
		if endCallback != nil {
			endCallback()
		}
	}()

	wg.Wait()
	return ctx.Err()
}

// Stop requests cancellation and discards buffered-but-unplayed audio
// immediately. It does not wait for the worker to observe the flag.
func (p *Player) Stop() {
	p.stop.Store(true)
	p.mu.Lock()
	p.sink.Clear()
	p.mu.Unlock()
}
