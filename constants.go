package elastic

// Channel constants
const (
	stereoChannels = 2   // Stereo channel count (used by convenience constructors)
	maxChannels    = 256 // Maximum supported channel count
)

// Resampling control constants
const (
	// DefaultMaxResamplingFactor is the upper clamp on the read-side
	// playback speed when none is configured.
	DefaultMaxResamplingFactor = 8.0

	// minResamplingFactor is the lower clamp on the read-side playback
	// speed. The factor never reaches zero, so the read cursor keeps
	// creeping forward even against an arbitrarily large delay deficit.
	minResamplingFactor = 0.0001

	// dampingBlocks controls convergence speed: a full block of delay
	// error is corrected over roughly this many consecutive pulls. Larger
	// values mean slower convergence but less audible pitch deviation.
	dampingBlocks = 8
)

// Capacity constants
const (
	// minCapacity is the smallest useful ring size. Anything below the
	// interpolation window cannot produce meaningful output.
	minCapacity = 8
)
