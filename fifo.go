package elastic

import (
	"sync/atomic"

	"github.com/tphakala/go-elastic-buffer/internal/simdops"
)

// FIFO is a lock-free single-producer/single-consumer queue for multi-channel
// audio samples. It is the simpler sibling of DelayBuffer: samples come out
// exactly as they went in, with no resampling and no delay target, making it
// suitable for handing audio between exactly one producing and one consuming
// goroutine (e.g. an audio callback and a file writer).
//
// The producer owns Write, the consumer owns Read; both sides may call
// Available and FreeSpace. Monotonic atomic counters order the two sides:
// the producer publishes the write counter only after the samples are
// stored, and the consumer publishes the read counter only after the
// samples are copied out. No other synchronization is used, so any use
// beyond one producer and one consumer is a caller error.
type FIFO[F simdops.Float] struct {
	ring     [][]F
	capacity int

	// Monotonic sample counters; positions in the ring are counter % capacity.
	writeCount atomic.Int64
	readCount  atomic.Int64
}

// NewFIFO creates a FIFO holding capacity samples per channel.
func NewFIFO[F simdops.Float](channels, capacity int) *FIFO[F] {
	if channels < 1 {
		channels = 1
	}
	if capacity < 1 {
		capacity = 1
	}

	backing := make([]F, channels*capacity)
	ring := make([][]F, channels)
	for ch := range ring {
		ring[ch] = backing[ch*capacity : (ch+1)*capacity : (ch+1)*capacity]
	}

	return &FIFO[F]{
		ring:     ring,
		capacity: capacity,
	}
}

// Channels returns the configured channel count.
func (f *FIFO[F]) Channels() int {
	return len(f.ring)
}

// Capacity returns the queue size in samples per channel.
func (f *FIFO[F]) Capacity() int {
	return f.capacity
}

// Available returns the number of samples ready to read.
func (f *FIFO[F]) Available() int {
	return int(f.writeCount.Load() - f.readCount.Load())
}

// FreeSpace returns the number of samples that can be written without
// overtaking the reader.
func (f *FIFO[F]) FreeSpace() int {
	return f.capacity - f.Available()
}

// Write copies up to numSamples per channel from input into the queue and
// returns how many samples were accepted. It never blocks: when the queue
// is full the surplus is dropped at the tail. input must have exactly as
// many channels as the queue; a mismatch accepts nothing.
//
// Write must only be called from the producer goroutine.
func (f *FIFO[F]) Write(input [][]F, numSamples int) int {
	if len(input) != len(f.ring) || numSamples <= 0 {
		return 0
	}

	w := f.writeCount.Load()
	free := f.capacity - int(w-f.readCount.Load())
	n := numSamples
	if n > free {
		n = free
	}
	if n == 0 {
		return 0
	}

	pos := int(w % int64(f.capacity))
	first := f.capacity - pos
	if first > n {
		first = n
	}
	for ch := range f.ring {
		copy(f.ring[ch][pos:pos+first], input[ch][:first])
		if first < n {
			copy(f.ring[ch][:n-first], input[ch][first:n])
		}
	}

	f.writeCount.Store(w + int64(n))
	return n
}

// Read copies up to numSamples per channel from the queue into output and
// returns how many samples were delivered. It never blocks: when the queue
// holds less than requested, only what is available is copied. output must
// have exactly as many channels as the queue; a mismatch delivers nothing.
//
// Read must only be called from the consumer goroutine.
func (f *FIFO[F]) Read(output [][]F, numSamples int) int {
	if len(output) != len(f.ring) || numSamples <= 0 {
		return 0
	}

	r := f.readCount.Load()
	avail := int(f.writeCount.Load() - r)
	n := numSamples
	if n > avail {
		n = avail
	}
	if n == 0 {
		return 0
	}

	pos := int(r % int64(f.capacity))
	first := f.capacity - pos
	if first > n {
		first = n
	}
	for ch := range f.ring {
		copy(output[ch][:first], f.ring[ch][pos:pos+first])
		if first < n {
			copy(output[ch][first:n], f.ring[ch][:n-first])
		}
	}

	f.readCount.Store(r + int64(n))
	return n
}

// Clear discards all buffered samples. Only safe while neither side is
// calling Write or Read.
func (f *FIFO[F]) Clear() {
	f.readCount.Store(f.writeCount.Load())
}
