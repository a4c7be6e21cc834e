// Package audio provides output sink implementations for morse
// playback: a real device sink backed by oto and a mock sink for tests.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// ErrDeviceUnavailable reports that the audio output device could not
// be acquired.
var ErrDeviceUnavailable = errors.New("audio device unavailable")

// Device streams mono float32 samples to the default audio output via
// oto. Appended chunks sit in an internal queue until the device pulls
// them; the queue length is the pending-chunk count used for
// backpressure.
type Device struct {
	mu     sync.Mutex
	ctx    *oto.Context
	player *oto.Player
	queue  *chunkQueue
}

// NewDevice opens the default output device at the given sample rate.
func NewDevice(sampleRate int) (*Device, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	<-ready

	d := &Device{ctx: ctx, queue: newChunkQueue()}
	d.player = ctx.NewPlayer(d.queue)
	return d, nil
}

// Append queues one mono chunk. The sample rate must match the rate
// the device was opened with; oto owns resampling decisions, not us.
func (d *Device) Append(samples []float32, sampleRate int) {
	buf := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(s))
	}
	d.queue.push(buf)
}

// PendingChunkCount reports how many appended chunks have not been
// fully consumed by the device yet.
func (d *Device) PendingChunkCount() int {
	return d.queue.pending()
}

// Play starts consumption of queued chunks.
func (d *Device) Play() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.player.IsPlaying() {
		d.player.Play()
	}
}

// Clear discards all queued-but-unplayed chunks.
func (d *Device) Clear() {
	d.queue.clear()
}

// SetVolume sets the output volume in [0.0, 1.0].
func (d *Device) SetVolume(volume float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.player.SetVolume(volume)
}

// Close releases the device player.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.player.Close()
}

// chunkQueue feeds the oto player. When no chunk is queued it hands
// out silence so the stream stays alive between words.
type chunkQueue struct {
	mu     sync.Mutex
	chunks [][]byte
	offset int
}

func newChunkQueue() *chunkQueue {
	return &chunkQueue{}
}

func (q *chunkQueue) push(b []byte) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.chunks = append(q.chunks, b)
}

func (q *chunkQueue) pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.chunks)
}

func (q *chunkQueue) clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.chunks = nil
	q.offset = 0
}

// Read implements io.Reader for the oto player.
func (q *chunkQueue) Read(p []byte) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.chunks) == 0 {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	n := 0
	for n < len(p) && len(q.chunks) > 0 {
		chunk := q.chunks[0]
		m := copy(p[n:], chunk[q.offset:])
		n += m
		q.offset += m
		if q.offset == len(chunk) {
			q.chunks = q.chunks[1:]
			q.offset = 0
		}
	}
	return n, nil
}
