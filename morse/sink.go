package morse

// Sink is the audio output boundary. Implementations queue mono sample
// chunks for playback and report how many queued chunks remain
// unplayed, which the scheduler uses for backpressure. Device
// acquisition and teardown belong to the implementation, not to this
// package.
type Sink interface {
	// Append queues one mono chunk at the given sample rate.
	Append(samples []float32, sampleRate int)

	// PendingChunkCount reports how many appended chunks have not yet
	// been consumed by the device.
	PendingChunkCount() int

	// Play starts (or resumes) consumption of queued chunks.
	Play()

	// Clear discards all queued-but-unplayed chunks.
	Clear()

	// SetVolume sets the output volume in [0.0, 1.0].
	SetVolume(volume float64)
}
