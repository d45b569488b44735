package elastic

import (
	"fmt"
	"sync/atomic"

	"github.com/tphakala/go-elastic-buffer/internal/interp"
	"github.com/tphakala/go-elastic-buffer/internal/simdops"
)

// DelayBuffer is an elastic delay line for multi-channel audio.
//
// A producer commits blocks with PushBlock while a consumer drains blocks
// with PullBlock at a requested target delay. The pull side continuously
// resamples its reads so that the buffered delay converges onto the target,
// absorbing slow clock drift between producer and consumer without dropping
// or duplicating samples.
//
// Sample containers are per-channel slices ([][]F, one slice per channel).
// All operations are bounded, synchronous computations with no allocation
// outside SetSize, making the type suitable for real-time audio callbacks.
//
// The zero value is unusable; construct with New or call SetSize first.
// See the package documentation for the single-writer/single-reader
// concurrency contract.
type DelayBuffer[F simdops.Float] struct {
	ring     [][]F // per-channel sample storage, all slices share one backing array
	capacity int
	writePos int
	readPos  int

	resamplers []*interp.Interpolator[F]
	maxFactor  float64
	sampleRate float64 // reserved for future interpolator tuning

	// delaySamples is the only field read outside the audio context.
	delaySamples atomic.Int64

	ops *simdops.Ops[F]
}

// New creates a delay buffer with the given configuration.
func New[F simdops.Float](config *Config) (*DelayBuffer[F], error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	d := &DelayBuffer[F]{
		maxFactor: config.MaxResamplingFactor,
		ops:       simdops.For[F](),
	}
	if d.maxFactor == 0 {
		d.maxFactor = DefaultMaxResamplingFactor
	}

	if err := d.SetSize(config.Channels, config.Capacity, config.SampleRate); err != nil {
		return nil, err
	}

	return d, nil
}

// SetSize reallocates the ring to capacity samples across channels and grows
// or shrinks the interpolator pool to match. Shrinking the pool truncates it;
// growing appends freshly reset interpolators, so surviving channels keep
// their interpolation history. Stored samples are cleared.
//
// If a cursor would fall outside the new capacity the buffer is hard-reset:
// both cursors return to zero and every interpolator history is cleared.
// This is an intentional discontinuity, not an error.
//
// sampleRate is recorded for interface stability but has no effect on the
// current design.
func (d *DelayBuffer[F]) SetSize(channels, capacity int, sampleRate float64) error {
	cfg := Config{
		Channels:            channels,
		Capacity:            capacity,
		SampleRate:          sampleRate,
		MaxResamplingFactor: d.maxFactor,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Single backing array keeps channel rows contiguous.
	backing := make([]F, channels*capacity)
	ring := make([][]F, channels)
	for ch := range ring {
		ring[ch] = backing[ch*capacity : (ch+1)*capacity : (ch+1)*capacity]
	}
	d.ring = ring
	d.capacity = capacity
	d.sampleRate = sampleRate

	resamplers := make([]*interp.Interpolator[F], channels)
	n := copy(resamplers, d.resamplers)
	for ch := n; ch < channels; ch++ {
		resamplers[ch] = interp.New[F]()
	}
	d.resamplers = resamplers

	// Zero-value buffers configured through SetSize pick up defaults here.
	if d.ops == nil {
		d.ops = simdops.For[F]()
	}
	if d.maxFactor == 0 {
		d.maxFactor = DefaultMaxResamplingFactor
	}

	if d.writePos >= capacity || d.readPos >= capacity {
		d.writePos = 0
		d.readPos = 0
		d.Reset()
	}

	d.updateDelay()
	return nil
}

// SetDelay jumps the read cursor so the buffered delay becomes exactly the
// given number of samples. The jump is instantaneous, not elastic: stored
// samples are untouched, but every interpolator history is cleared to avoid
// blending output across the discontinuity.
func (d *DelayBuffer[F]) SetDelay(delay int) error {
	if delay < 0 || delay >= d.capacity {
		return fmt.Errorf("%w: delay %d with capacity %d", ErrDelayTooLarge, delay, d.capacity)
	}

	readPos := d.writePos - delay
	if readPos < 0 {
		readPos += d.capacity
	}
	d.readPos = readPos
	d.Reset()

	d.updateDelay()
	return nil
}

// SetMaxResamplingFactor sets the upper clamp on the read-side playback
// speed. It takes effect on the next PullBlock.
func (d *DelayBuffer[F]) SetMaxResamplingFactor(factor float64) {
	d.maxFactor = factor
}

// Delay returns the currently buffered delay in samples. This is the one
// value safe to read from outside the audio context; it is published
// atomically after every cursor mutation.
func (d *DelayBuffer[F]) Delay() int {
	return int(d.delaySamples.Load())
}

// Channels returns the configured channel count.
func (d *DelayBuffer[F]) Channels() int {
	return len(d.ring)
}

// Capacity returns the ring size in samples per channel.
func (d *DelayBuffer[F]) Capacity() int {
	return d.capacity
}

// Reset clears every interpolator history without touching stored samples
// or cursors.
func (d *DelayBuffer[F]) Reset() {
	for _, r := range d.resamplers {
		r.Reset()
	}
}

// PushBlock copies numSamples gain-scaled samples per channel from input
// into the ring at the write cursor, wrapping at capacity, and advances the
// write cursor. input must have exactly as many channels as the buffer, and
// numSamples must be below the ring capacity.
func (d *DelayBuffer[F]) PushBlock(input [][]F, numSamples int, gain F) error {
	if numSamples >= d.capacity {
		return fmt.Errorf("%w: pushing %d samples into capacity %d", ErrCapacityExceeded, numSamples, d.capacity)
	}
	if len(input) != len(d.ring) {
		return fmt.Errorf("%w: input has %d channels, buffer has %d", ErrChannelMismatch, len(input), len(d.ring))
	}

	first := d.capacity - d.writePos
	if first > numSamples {
		first = numSamples
	}
	for ch := range d.ring {
		d.copyGain(d.ring[ch][d.writePos:d.writePos+first], input[ch][:first], gain)
		if first < numSamples {
			d.copyGain(d.ring[ch][:numSamples-first], input[ch][first:numSamples], gain)
		}
	}

	d.writePos += numSamples
	if d.writePos >= d.capacity {
		d.writePos -= d.capacity
	}

	d.updateDelay()
	return nil
}

// AddToPushedBlock mixes gain-scaled samples into the region committed by
// the most recent PushBlock of the same numSamples, i.e. the region ending
// at the current write cursor. It lets a caller layer a second signal onto
// an already-committed block without a second cursor advance: neither the
// write cursor nor the buffered delay changes.
func (d *DelayBuffer[F]) AddToPushedBlock(input [][]F, numSamples int, gain F) error {
	if numSamples >= d.capacity {
		return fmt.Errorf("%w: adding %d samples into capacity %d", ErrCapacityExceeded, numSamples, d.capacity)
	}
	if len(input) != len(d.ring) {
		return fmt.Errorf("%w: input has %d channels, buffer has %d", ErrChannelMismatch, len(input), len(d.ring))
	}

	start := d.writePos - numSamples
	if start < 0 {
		start += d.capacity
	}

	first := d.capacity - start
	if first > numSamples {
		first = numSamples
	}
	for ch := range d.ring {
		addGain(d.ring[ch][start:start+first], input[ch][:first], gain)
		if first < numSamples {
			addGain(d.ring[ch][:numSamples-first], input[ch][first:numSamples], gain)
		}
	}

	return nil
}

// PullBlock produces numSamples per channel into output, resampled so the
// buffered delay steers toward delayTime samples. The read cursor advances
// by however many source samples the interpolators consumed at the derived
// playback factor.
//
// The factor is 1 + difference/(numSamples*8), where difference is the gap
// between the post-pull delay at unity rate and the target, clamped to
// [0.0001, MaxResamplingFactor]. At most one eighth of a block of error is
// corrected per call, keeping pitch deviation inaudible for slow drift.
func (d *DelayBuffer[F]) PullBlock(output [][]F, numSamples, delayTime int) error {
	if numSamples >= d.capacity {
		return fmt.Errorf("%w: pulling %d samples from capacity %d", ErrCapacityExceeded, numSamples, d.capacity)
	}
	if len(output) != len(d.ring) {
		return fmt.Errorf("%w: output has %d channels, buffer has %d", ErrChannelMismatch, len(output), len(d.ring))
	}
	if len(d.resamplers) != len(d.ring) {
		return fmt.Errorf("%w: %d interpolators for %d channels", ErrChannelMismatch, len(d.resamplers), len(d.ring))
	}

	currentDelay := d.writePos - d.readPos
	if currentDelay < 0 {
		currentDelay += d.capacity
	}

	difference := float64(currentDelay-numSamples) - float64(delayTime)
	factor := 1.0 + difference/float64(numSamples*dampingBlocks)
	if factor < minResamplingFactor {
		factor = minResamplingFactor
	}
	if factor > d.maxFactor {
		factor = d.maxFactor
	}

	// All interpolators share reset epochs and identical inputs, so their
	// consumed counts must agree; the shared read cursor depends on it.
	used := -1
	for ch, r := range d.resamplers {
		got := r.Process(factor, d.ring[ch], d.readPos, output[ch][:numSamples])
		if used >= 0 && got != used {
			return fmt.Errorf("%w: channel %d consumed %d source samples, channel %d consumed %d",
				ErrChannelMismatch, ch, got, ch-1, used)
		}
		used = got
	}

	d.readPos = (d.readPos + used) % d.capacity

	d.updateDelay()
	return nil
}

// updateDelay recomputes and publishes the buffered delay. Called after
// every cursor mutation so external readers never observe a stale value.
func (d *DelayBuffer[F]) updateDelay() {
	delay := d.writePos - d.readPos
	if delay < 0 {
		delay += d.capacity
	}
	d.delaySamples.Store(int64(delay))
}

// copyGain copies src into dst scaled by gain, skipping the multiply at
// unity gain.
func (d *DelayBuffer[F]) copyGain(dst, src []F, gain F) {
	if gain == 1 {
		copy(dst, src)
		return
	}
	d.ops.Scale(dst, src, gain)
}

// addGain accumulates gain-scaled src into dst.
func addGain[F simdops.Float](dst, src []F, gain F) {
	for i, s := range src {
		dst[i] += s * gain
	}
}
