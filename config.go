package elastic

import (
	"errors"
	"fmt"
)

// Config holds delay buffer configuration.
type Config struct {
	// Channels is the number of audio channels to buffer.
	Channels int

	// Capacity is the ring size in samples per channel. It must exceed the
	// largest block the caller will ever push or pull.
	Capacity int

	// SampleRate is the stream sample rate in Hz. It is accepted for
	// interface stability and reserved for future interpolator tuning;
	// the current design does not use it. Zero is allowed.
	SampleRate float64

	// MaxResamplingFactor bounds the read-side playback speed-up applied
	// while draining backlog. Zero selects DefaultMaxResamplingFactor.
	MaxResamplingFactor float64
}

// Common errors returned by the delay buffer. All of them indicate a
// violated caller contract rather than a recoverable runtime condition.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid delay buffer configuration")

	// ErrCapacityExceeded indicates a block size at or above the ring capacity.
	ErrCapacityExceeded = errors.New("block size exceeds buffer capacity")

	// ErrChannelMismatch indicates a channel count that differs from the
	// buffer's configured channel count.
	ErrChannelMismatch = errors.New("channel count mismatch")

	// ErrDelayTooLarge indicates a requested delay at or above the ring capacity.
	ErrDelayTooLarge = errors.New("requested delay exceeds buffer capacity")
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Channels < 1 {
		return fmt.Errorf("%w: channels must be at least 1", ErrInvalidConfig)
	}

	if c.Channels > maxChannels {
		return fmt.Errorf("%w: too many channels (max %d)", ErrInvalidConfig, maxChannels)
	}

	if c.Capacity < minCapacity {
		return fmt.Errorf("%w: capacity must be at least %d samples", ErrInvalidConfig, minCapacity)
	}

	if c.SampleRate < 0 {
		return fmt.Errorf("%w: sample rate must not be negative", ErrInvalidConfig)
	}

	if c.MaxResamplingFactor < 0 || (c.MaxResamplingFactor > 0 && c.MaxResamplingFactor <= minResamplingFactor) {
		return fmt.Errorf("%w: max resampling factor must exceed %g", ErrInvalidConfig, minResamplingFactor)
	}

	return nil
}
