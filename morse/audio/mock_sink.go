package audio

import "sync"

// MockSink implements the morse sink contract for testing. It records
// every append and lets the test drive draining explicitly, so
// backpressure and cancellation behavior can be verified without a
// real device.
type MockSink struct {
	mu      sync.Mutex
	pending [][]float32
	played  int

	appendedChunks  int
	appendedSamples int

	playCalls  int
	clearCalls int
	volume     float64

	// AutoDrain, when set, consumes every chunk as soon as it is
	// appended, simulating an infinitely fast device.
	AutoDrain bool

	// OnAppend, when set, is invoked after each append with the current
	// pending count. Useful for asserting backpressure mid-stream.
	OnAppend func(pending int)
}

// NewMockSink creates a mock sink that never drains on its own.
func NewMockSink() *MockSink {
	return &MockSink{}
}

// Append queues one chunk.
func (m *MockSink) Append(samples []float32, sampleRate int) {
	m.mu.Lock()
	chunk := make([]float32, len(samples))
	copy(chunk, samples)
	m.pending = append(m.pending, chunk)
	m.appendedChunks++
	m.appendedSamples += len(chunk)
	if m.AutoDrain {
		m.played += len(m.pending)
		m.pending = nil
	}
	pending := len(m.pending)
	cb := m.OnAppend
	m.mu.Unlock()

	if cb != nil {
		cb(pending)
	}
}

// PendingChunkCount reports queued-but-undrained chunks.
func (m *MockSink) PendingChunkCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Play records that consumption was started.
func (m *MockSink) Play() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playCalls++
}

// Clear discards queued chunks, like stopping a real device.
func (m *MockSink) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = nil
	m.clearCalls++
}

// SetVolume records the requested volume.
func (m *MockSink) SetVolume(volume float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = volume
}

// Drain consumes up to n pending chunks, simulating device progress.
func (m *MockSink) Drain(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n > len(m.pending) {
		n = len(m.pending)
	}
	m.pending = m.pending[n:]
	m.played += n
}

// DrainAll consumes every pending chunk.
func (m *MockSink) DrainAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.played += len(m.pending)
	m.pending = nil
}

// AppendedChunks reports how many chunks were ever appended.
func (m *MockSink) AppendedChunks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appendedChunks
}

// AppendedSamples reports the total sample count ever appended.
func (m *MockSink) AppendedSamples() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appendedSamples
}

// PlayedChunks reports how many chunks have been drained so far.
func (m *MockSink) PlayedChunks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.played
}

// PlayCalls reports how many times Play was invoked.
func (m *MockSink) PlayCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playCalls
}

// ClearCalls reports how many times Clear was invoked.
func (m *MockSink) ClearCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clearCalls
}

// Volume reports the last volume set.
func (m *MockSink) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

// PendingSamples returns the total sample count of queued chunks.
func (m *MockSink) PendingSamples() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, c := range m.pending {
		total += len(c)
	}
	return total
}
