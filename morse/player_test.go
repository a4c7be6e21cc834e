package morse

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dgnsrekt/morsetone/morse/audio"
)

func testConfig(text string) Config {
	cfg := DefaultConfig()
	cfg.Text = text
	cfg.Additions = AdditionsNone
	return cfg
}

func TestNewPlayer(t *testing.T) {
	t.Run("nil sink", func(t *testing.T) {
		if _, err := NewPlayer(testConfig("E"), nil); !errors.Is(err, ErrNoSink) {
			t.Errorf("err = %v, want %v", err, ErrNoSink)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := testConfig("E")
		cfg.Speed = 0
		if _, err := NewPlayer(cfg, audio.NewMockSink()); !errors.Is(err, ErrInvalidSpeed) {
			t.Errorf("err = %v, want %v", err, ErrInvalidSpeed)
		}
	})

	t.Run("applies volume", func(t *testing.T) {
		sink := audio.NewMockSink()
		cfg := testConfig("E")
		cfg.Volume = 0.25
		if _, err := NewPlayer(cfg, sink); err != nil {
			t.Fatalf("NewPlayer: %v", err)
		}
		if got := sink.Volume(); got != 0.25 {
			t.Errorf("volume = %v, want 0.25", got)
		}
	})
}

func TestPlayerSetVolume(t *testing.T) {
	sink := audio.NewMockSink()
	p, err := NewPlayer(testConfig("E"), sink)
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}

	if err := p.SetVolume(0.8); err != nil {
		t.Fatalf("SetVolume(0.8): %v", err)
	}
	if got := sink.Volume(); got != 0.8 {
		t.Errorf("volume = %v, want 0.8", got)
	}

	if err := p.SetVolume(1.5); !errors.Is(err, ErrInvalidVolume) {
		t.Errorf("SetVolume(1.5) err = %v, want %v", err, ErrInvalidVolume)
	}
	if got := sink.Volume(); got != 0.8 {
		t.Errorf("volume after rejected set = %v, want 0.8", got)
	}
}

func TestPlayerDurationQueries(t *testing.T) {
	p, err := NewPlayer(testConfig("PARIS"), audio.NewMockSink())
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}

	first := p.TextDuration()
	second := p.TextDuration()
	if first != second || first <= 0 {
		t.Errorf("TextDuration not stable: %v then %v", first, second)
	}

	// PARIS has four character boundaries, plus the initial zero.
	if got := p.CharTimings(); len(got) != 5 {
		t.Errorf("CharTimings length = %d, want 5", len(got))
	}

	if got := p.StartPartDuration(); got != 0 {
		t.Errorf("StartPartDuration with no additions = %v, want 0", got)
	}

	p.SetTextAdditions(Training)
	if got := p.StartPartDuration(); got <= 0 {
		t.Errorf("StartPartDuration with training preamble = %v, want > 0", got)
	}
}

func TestPlayerSetDelayStretchesGaps(t *testing.T) {
	p, err := NewPlayer(testConfig("EE"), audio.NewMockSink())
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}

	before := p.TextDuration()
	p.SetDelay(6)
	after := p.TextDuration()

	if !durationClose(before, 250*time.Millisecond) {
		t.Errorf("default duration = %v, want 250ms", before)
	}
	if !durationClose(after, 400*time.Millisecond) {
		t.Errorf("delayed duration = %v, want 400ms", after)
	}
}

func TestPlayerRejectsNonPositiveDelay(t *testing.T) {
	// A stored negative delay must fail validation at Play instead of
	// reaching the worker as a negative silence length.
	p, err := NewPlayer(testConfig("E"), audio.NewMockSink())
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}

	p.SetDelay(-2)
	if err := p.Play(context.Background()); !errors.Is(err, ErrInvalidDelay) {
		t.Errorf("Play err = %v, want %v", err, ErrInvalidDelay)
	}

	cfg := testConfig("E")
	cfg.Delay = 0
	if _, err := NewPlayer(cfg, audio.NewMockSink()); !errors.Is(err, ErrInvalidDelay) {
		t.Errorf("NewPlayer err = %v, want %v", err, ErrInvalidDelay)
	}
}

func TestPlayerPlayCompletes(t *testing.T) {
	sink := audio.NewMockSink()
	sink.AutoDrain = true
	p, err := NewPlayer(testConfig("E"), sink)
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}

	ended := make(chan struct{})
	p.OnPlaybackEnded(func() { close(ended) })

	if err := p.Play(context.Background()); err != nil {
		t.Fatalf("Play: %v", err)
	}

	select {
	case <-ended:
	default:
		t.Error("playback-ended callback did not fire")
	}
	if got := sink.PlayCalls(); got != 1 {
		t.Errorf("play calls = %d, want 1", got)
	}
}

func TestPlayerRejectsConcurrentPlay(t *testing.T) {
	sink := audio.NewMockSink()
	p, err := NewPlayer(testConfig("E E E E E E"), sink)
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}

	firstDone := make(chan error, 1)
	go func() { firstDone <- p.Play(context.Background()) }()

	waitFor(t, "first session streaming", func() bool {
		return sink.PendingChunkCount() > 0
	})

	if err := p.Play(context.Background()); !errors.Is(err, ErrAlreadyPlaying) {
		t.Errorf("second Play err = %v, want %v", err, ErrAlreadyPlaying)
	}

	p.Stop()
	if err := <-firstDone; err != nil {
		t.Errorf("first Play err = %v, want nil", err)
	}
}

func TestPlayerStopClearsSink(t *testing.T) {
	sink := audio.NewMockSink()
	cfg := testConfig("E E E E E E E E")
	cfg.Additions = Training
	p, err := NewPlayer(cfg, sink)
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}

	var startedCount, endedCount atomic.Int32
	p.OnMainTextStarted(func() { startedCount.Add(1) })
	p.OnPlaybackEnded(func() { endedCount.Add(1) })

	done := make(chan error, 1)
	go func() { done <- p.Play(context.Background()) }()

	waitFor(t, "pending chunks", func() bool {
		return sink.PendingChunkCount() == 4
	})
	p.Stop()

	if err := <-done; err != nil {
		t.Fatalf("Play after Stop err = %v, want nil", err)
	}
	if got := sink.ClearCalls(); got < 1 {
		t.Error("Stop did not clear the sink")
	}
	if got := sink.PendingChunkCount(); got != 0 {
		t.Errorf("pending after Stop = %d, want 0", got)
	}
	if got := endedCount.Load(); got != 1 {
		t.Errorf("ended callbacks = %d, want 1", got)
	}
	// The training preamble lasts seconds; a session cancelled within
	// milliseconds never reaches the main text.
	if got := startedCount.Load(); got != 0 {
		t.Errorf("started callbacks = %d, want 0", got)
	}
}

func TestPlayerContextCancellation(t *testing.T) {
	sink := audio.NewMockSink()
	p, err := NewPlayer(testConfig("E E E E E E E E"), sink)
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Play(ctx) }()

	waitFor(t, "pending chunks", func() bool {
		return sink.PendingChunkCount() == 4
	})
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Play err = %v, want %v", err, context.Canceled)
	}
	if got := sink.ClearCalls(); got < 1 {
		t.Error("cancellation did not clear the sink")
	}
}

func TestPlayerStartCallbackFires(t *testing.T) {
	// Without a preamble the start timer elapses immediately, while a
	// slow-draining sink keeps playback alive well past it.
	sink := audio.NewMockSink()
	p, err := NewPlayer(testConfig("E E E E E E"), sink)
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}

	started := make(chan struct{})
	p.OnMainTextStarted(func() { close(started) })

	done := make(chan error, 1)
	go func() { done <- p.Play(context.Background()) }()

	drainStop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-drainStop:
				return
			case <-ticker.C:
				sink.Drain(1)
			}
		}
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("main-text-started callback did not fire")
	}

	if err := <-done; err != nil {
		t.Errorf("Play err = %v, want nil", err)
	}
	close(drainStop)
}

func TestPlayerSessionSnapshotsConfig(t *testing.T) {
	// Setters during playback must not affect the in-flight session.
	sink := audio.NewMockSink()
	p, err := NewPlayer(testConfig("E E E E E"), sink)
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- p.Play(context.Background()) }()

	waitFor(t, "pending chunks", func() bool {
		return sink.PendingChunkCount() == 4
	})
	p.SetText("CHANGED MID FLIGHT")
	p.SetSpeed(12.5)

	sink.Drain(4)
	waitFor(t, "final chunk", func() bool {
		return sink.AppendedChunks() == 5
	})
	sink.DrainAll()

	if err := <-done; err != nil {
		t.Fatalf("Play err = %v, want nil", err)
	}
	// Five one-dot words at speed 100: 4x(dot+word gap) + final dot.
	want := 4*(2400+16800) + 2400
	if got := sink.AppendedSamples(); got != want {
		t.Errorf("samples = %d, want %d", got, want)
	}
}

