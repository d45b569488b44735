// Package elastic provides an elastic delay buffer for multi-channel audio
// in pure Go.
//
// A DelayBuffer is a fixed-capacity circular sample store that lets a
// producer push fixed-size blocks at one rate while a consumer pulls blocks
// at a requested target delay. Any drift between the two rates is reconciled
// by continuously resampling the read side with per-channel fractional
// Lagrange interpolators, instead of dropping or duplicating samples. The
// buffered latency converges smoothly onto the target without clicks or
// audible pitch jumps.
//
// # Quick Start
//
//	buf, err := elastic.NewStereo[float64](4096)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Audio callback: push what arrived, pull at the target latency.
//	for {
//	    input, output := nextBlocks()
//	    if err := buf.PushBlock(input, blockSize, 1.0); err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := buf.PullBlock(output, blockSize, targetDelay); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Control Law
//
// Each PullBlock compares the currently buffered delay against the caller's
// target and derives a read-side playback speed:
//
//	difference = (currentDelay - numSamples) - delayTime
//	factor     = 1 + difference/(numSamples*8)
//
// clamped to [0.0001, MaxResamplingFactor]. A factor above 1 drains backlog,
// below 1 grows reserve, and exactly 1 is steady state. The divisor of 8
// spreads a full block of error over roughly eight pulls, trading convergence
// speed against audible pitch deviation.
//
// # Thread Safety
//
// A DelayBuffer is deliberately not a concurrent data structure. Push and
// pull operate on unsynchronized state and must be ordered by the caller,
// typically by invoking both from the same real-time audio callback. The
// only value safe to read from another goroutine is [DelayBuffer.Delay],
// which is published with atomic visibility for monitoring and UI use.
//
// The companion [FIFO] is a lock-free single-producer/single-consumer
// multi-channel sample queue for moving audio between exactly one writing
// and one reading goroutine.
//
// # Precision
//
// Both types are generic over float32 and float64 sample formats. Block
// copies on the push path use SIMD acceleration via github.com/tphakala/simd
// where available. Neither push nor pull allocates; allocation happens only
// in SetSize.
package elastic
