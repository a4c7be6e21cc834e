package morse

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/dgnsrekt/morsetone/morse/audio"
)

func testSession(text string, opts EncodeOptions) *session {
	profile, sequence := Encode(text, opts)
	return &session{
		sequence:  sequence,
		profile:   profile,
		table:     DefaultTimingTable(),
		textType:  Letters,
		speed:     100,
		wave:      Sine,
		frequency: 750,
	}
}

func TestSchedulerStreamsWholeSequence(t *testing.T) {
	// SOS is a single word, so everything arrives as one chunk holding
	// all 27 units of audio.
	sink := audio.NewMockSink()
	sink.AutoDrain = true
	var cancelled atomic.Bool

	state := newScheduler(sink, &cancelled).run(testSession("SOS", EncodeOptions{}))

	if state != stateDone {
		t.Fatalf("state = %v, want %v", state, stateDone)
	}
	if got := sink.AppendedChunks(); got != 1 {
		t.Errorf("chunks = %d, want 1", got)
	}
	if got := sink.AppendedSamples(); got != 27*2400 {
		t.Errorf("samples = %d, want %d", got, 27*2400)
	}
}

func TestSchedulerFlushesPerWord(t *testing.T) {
	// One flush per word gap plus the final flush.
	sink := audio.NewMockSink()
	sink.AutoDrain = true
	var cancelled atomic.Bool

	state := newScheduler(sink, &cancelled).run(testSession("E E E", EncodeOptions{}))

	if state != stateDone {
		t.Fatalf("state = %v, want %v", state, stateDone)
	}
	if got := sink.AppendedChunks(); got != 3 {
		t.Errorf("chunks = %d, want 3", got)
	}
}

func TestSchedulerBackpressure(t *testing.T) {
	// With nothing draining, streaming must stall once the sink holds
	// four unplayed chunks; the fifth append only happens after a drain.
	sink := audio.NewMockSink()
	var cancelled atomic.Bool

	done := make(chan schedulerState, 1)
	go func() {
		done <- newScheduler(sink, &cancelled).run(testSession("E E E E E", EncodeOptions{}))
	}()

	waitFor(t, "four pending chunks", func() bool {
		return sink.PendingChunkCount() == 4
	})

	time.Sleep(30 * time.Millisecond)
	if got := sink.AppendedChunks(); got != 4 {
		t.Fatalf("chunks while blocked = %d, want 4", got)
	}

	sink.Drain(1)
	waitFor(t, "fifth chunk", func() bool {
		return sink.AppendedChunks() == 5
	})

	for {
		select {
		case state := <-done:
			if state != stateDone {
				t.Fatalf("state = %v, want %v", state, stateDone)
			}
			return
		default:
			sink.DrainAll()
			time.Sleep(pollInterval)
		}
	}
}

func TestSchedulerCancelWhileBlocked(t *testing.T) {
	sink := audio.NewMockSink()
	var cancelled atomic.Bool

	done := make(chan schedulerState, 1)
	go func() {
		done <- newScheduler(sink, &cancelled).run(testSession("E E E E E E", EncodeOptions{}))
	}()

	waitFor(t, "four pending chunks", func() bool {
		return sink.PendingChunkCount() == 4
	})
	cancelled.Store(true)

	select {
	case state := <-done:
		if state != stateCancelled {
			t.Fatalf("state = %v, want %v", state, stateCancelled)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not observe cancellation")
	}
	if got := sink.AppendedChunks(); got != 4 {
		t.Errorf("chunks = %d, want 4", got)
	}
}

func TestSchedulerCancelWhileDraining(t *testing.T) {
	// A single short word fits under the pending cap, so the worker sits
	// in the drain loop until cancelled.
	sink := audio.NewMockSink()
	var cancelled atomic.Bool

	done := make(chan schedulerState, 1)
	go func() {
		done <- newScheduler(sink, &cancelled).run(testSession("E", EncodeOptions{}))
	}()

	waitFor(t, "chunk appended", func() bool {
		return sink.AppendedChunks() == 1
	})
	cancelled.Store(true)

	select {
	case state := <-done:
		if state != stateCancelled {
			t.Fatalf("state = %v, want %v", state, stateCancelled)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not leave the drain loop")
	}
}

func TestSchedulerSpeedMarkerSwitchesUnit(t *testing.T) {
	// After the marker the dot shrinks to the profile speed's unit.
	sink := audio.NewMockSink()
	sink.AutoDrain = true
	var cancelled atomic.Bool

	sess := &session{
		sequence:  []Symbol{SpeedMarker, Dot},
		profile:   []float64{200},
		table:     DefaultTimingTable(),
		textType:  Letters,
		speed:     100,
		wave:      Sine,
		frequency: 750,
	}
	state := newScheduler(sink, &cancelled).run(sess)

	if state != stateDone {
		t.Fatalf("state = %v, want %v", state, stateDone)
	}
	if got := sink.AppendedSamples(); got != 1200 {
		t.Errorf("samples = %d, want 1200", got)
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
