package audio

import (
	"bytes"
	"testing"
)

func TestMockSinkQueueing(t *testing.T) {
	sink := NewMockSink()

	sink.Append([]float32{1, 2, 3}, 48000)
	sink.Append([]float32{4}, 48000)

	if got := sink.PendingChunkCount(); got != 2 {
		t.Errorf("pending = %d, want 2", got)
	}
	if got := sink.PendingSamples(); got != 4 {
		t.Errorf("pending samples = %d, want 4", got)
	}

	sink.Drain(1)
	if got := sink.PendingChunkCount(); got != 1 {
		t.Errorf("pending after drain = %d, want 1", got)
	}
	if got := sink.PlayedChunks(); got != 1 {
		t.Errorf("played = %d, want 1", got)
	}

	sink.Clear()
	if got := sink.PendingChunkCount(); got != 0 {
		t.Errorf("pending after clear = %d, want 0", got)
	}
	if got := sink.ClearCalls(); got != 1 {
		t.Errorf("clear calls = %d, want 1", got)
	}
	if got := sink.AppendedChunks(); got != 2 {
		t.Errorf("appended = %d, want 2", got)
	}
}

func TestMockSinkAutoDrain(t *testing.T) {
	sink := NewMockSink()
	sink.AutoDrain = true

	sink.Append([]float32{1, 2}, 48000)
	if got := sink.PendingChunkCount(); got != 0 {
		t.Errorf("pending = %d, want 0", got)
	}
	if got := sink.PlayedChunks(); got != 1 {
		t.Errorf("played = %d, want 1", got)
	}
}

func TestMockSinkCopiesChunks(t *testing.T) {
	sink := NewMockSink()
	samples := []float32{1, 2, 3}
	sink.Append(samples, 48000)

	samples[0] = 99
	if got := sink.PendingSamples(); got != 3 {
		t.Fatalf("pending samples = %d, want 3", got)
	}
}

func TestChunkQueueSilenceWhenEmpty(t *testing.T) {
	q := newChunkQueue()

	buf := []byte{1, 2, 3, 4}
	n, err := q.Read(buf)
	if err != nil || n != 4 {
		t.Fatalf("Read = %d, %v; want 4, nil", n, err)
	}
	if !bytes.Equal(buf, []byte{0, 0, 0, 0}) {
		t.Errorf("empty queue read = %v, want silence", buf)
	}
}

func TestChunkQueueConsumesAcrossReads(t *testing.T) {
	q := newChunkQueue()
	q.push([]byte{1, 2, 3})
	q.push([]byte{4, 5})

	if got := q.pending(); got != 2 {
		t.Fatalf("pending = %d, want 2", got)
	}

	buf := make([]byte, 2)
	if n, _ := q.Read(buf); n != 2 || !bytes.Equal(buf, []byte{1, 2}) {
		t.Fatalf("first read = %v (%d)", buf, n)
	}

	// A partially consumed chunk still counts as pending.
	if got := q.pending(); got != 2 {
		t.Errorf("pending mid-chunk = %d, want 2", got)
	}

	// The queue returns short reads rather than padding a partially
	// filled buffer with silence.
	buf = make([]byte, 4)
	if n, _ := q.Read(buf); n != 3 || !bytes.Equal(buf[:n], []byte{3, 4, 5}) {
		t.Fatalf("second read = %v (%d)", buf[:n], n)
	}
	if got := q.pending(); got != 0 {
		t.Errorf("pending after full consumption = %d, want 0", got)
	}
}

func TestChunkQueueClear(t *testing.T) {
	q := newChunkQueue()
	q.push([]byte{1, 2, 3})
	q.clear()

	if got := q.pending(); got != 0 {
		t.Errorf("pending after clear = %d, want 0", got)
	}
	buf := make([]byte, 2)
	q.Read(buf)
	if !bytes.Equal(buf, []byte{0, 0}) {
		t.Errorf("read after clear = %v, want silence", buf)
	}
}
