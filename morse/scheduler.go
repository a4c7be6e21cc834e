package morse

import (
	"sync/atomic"
	"time"
)

// schedulerState tracks the playback worker's progress.
type schedulerState int

const (
	stateIdle schedulerState = iota
	stateStreaming
	stateDraining
	stateDone
	stateCancelled
)

// String returns the string representation of the state.
func (s schedulerState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateStreaming:
		return "streaming"
	case stateDraining:
		return "draining"
	case stateDone:
		return "done"
	case stateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

const (
	// maxPendingChunks bounds how many unplayed chunks may sit at the
	// sink before the streaming loop blocks.
	maxPendingChunks = 3

	// pollInterval is how often blocked waits re-check the sink and the
	// cancellation flag.
	pollInterval = 5 * time.Millisecond
)

// session is an immutable snapshot of everything one playback run
// needs. Configuration changes made after Play() has started never
// reach an in-flight session.
type session struct {
	sequence  []Symbol
	profile   []float64
	table     TimingTable
	textType  TextType
	speed     float64
	wave      WaveType
	frequency int
}

// toneBuffers holds the five pre-generated sample buffers reused until
// the next speed change.
type toneBuffers struct {
	dot, dash, intraGap, charGap, wordGap []float32
}

func renderBuffers(s *session, unit float64) toneBuffers {
	return toneBuffers{
		dot:      GenerateTone(s.wave, s.frequency, unit, s.table.Lookup(Dot).Units),
		dash:     GenerateTone(s.wave, s.frequency, unit, s.table.Lookup(Dash).Units),
		intraGap: GenerateSilence(unit, s.table.Lookup(IntraGap).Units),
		charGap:  GenerateSilence(unit, s.table.Lookup(CharacterGap).Units),
		wordGap:  GenerateSilence(unit, s.table.Lookup(WordGap).Units),
	}
}

// scheduler streams a session's samples to the sink under backpressure
// and cooperative cancellation. Cancellation is never preemptive: the
// buffer in progress is finished before the next check point.
type scheduler struct {
	sink      Sink
	cancelled *atomic.Bool
	state     schedulerState
}

func newScheduler(sink Sink, cancelled *atomic.Bool) *scheduler {
	return &scheduler{sink: sink, cancelled: cancelled, state: stateIdle}
}

// run plays the whole session and returns the terminal state, either
// stateDone or stateCancelled.
func (sc *scheduler) run(s *session) schedulerState {
	sc.state = stateStreaming
	unit := UnitSeconds(s.textType, s.speed)
	buffers := renderBuffers(s, unit)
	var accumulated []float32
	next := 0

	for i, sym := range s.sequence {
		switch s.table.Lookup(sym).Category {
		case CategoryTone:
			if sym == Dot {
				accumulated = append(accumulated, buffers.dot...)
			} else {
				accumulated = append(accumulated, buffers.dash...)
			}
		case CategorySilence:
			switch sym {
			case IntraGap:
				accumulated = append(accumulated, buffers.intraGap...)
			case CharacterGap:
				accumulated = append(accumulated, buffers.charGap...)
			default:
				accumulated = append(accumulated, buffers.wordGap...)
			}
		case CategorySpeedChange:
			unit = UnitSeconds(s.textType, s.profile[next])
			next++
			buffers = renderBuffers(s, unit)
		}

		// Flush at word boundaries and at the end of the sequence.
		if sym == WordGap || i+1 == len(s.sequence) {
			if !sc.waitForRoom() {
				sc.state = stateCancelled
				return sc.state
			}
			sc.sink.Append(accumulated, SampleRate)
			accumulated = nil
		}
	}

	sc.state = stateDraining
	for sc.sink.PendingChunkCount() != 0 {
		if sc.cancelled.Load() {
			sc.state = stateCancelled
			return sc.state
		}
		time.Sleep(pollInterval)
	}

	sc.state = stateDone
	return sc.state
}

// waitForRoom blocks while the sink holds more than maxPendingChunks
// unplayed chunks. It returns false once cancellation is requested.
func (sc *scheduler) waitForRoom() bool {
	for sc.sink.PendingChunkCount() > maxPendingChunks {
		if sc.cancelled.Load() {
			return false
		}
		time.Sleep(pollInterval)
	}
	return !sc.cancelled.Load()
}
