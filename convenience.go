package elastic

import (
	"github.com/tphakala/go-elastic-buffer/internal/simdops"
)

// NewMono creates a single-channel delay buffer with the given capacity and
// the default resampling clamp.
func NewMono[F simdops.Float](capacity int) (*DelayBuffer[F], error) {
	return New[F](&Config{
		Channels: 1,
		Capacity: capacity,
	})
}

// NewStereo creates a two-channel delay buffer with the given capacity and
// the default resampling clamp.
func NewStereo[F simdops.Float](capacity int) (*DelayBuffer[F], error) {
	return New[F](&Config{
		Channels: stereoChannels,
		Capacity: capacity,
	})
}

// NewMultiChannel creates a delay buffer for an arbitrary channel count.
func NewMultiChannel[F simdops.Float](channels, capacity int) (*DelayBuffer[F], error) {
	return New[F](&Config{
		Channels: channels,
		Capacity: capacity,
	})
}

// Block allocates a sample container with the given channel and sample
// counts, laid out the way DelayBuffer and FIFO expect: one slice per
// channel over a single contiguous backing array.
func Block[F simdops.Float](channels, numSamples int) [][]F {
	backing := make([]F, channels*numSamples)
	block := make([][]F, channels)
	for ch := range block {
		block[ch] = backing[ch*numSamples : (ch+1)*numSamples : (ch+1)*numSamples]
	}
	return block
}
