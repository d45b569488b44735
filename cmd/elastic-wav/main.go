// Command elastic-wav plays a WAV file through an elastic delay buffer,
// writing the delayed result to a new WAV file.
//
// Usage:
//
//	elastic-wav -delay 250 input.wav output.wav
//	elastic-wav -delay 100 -sidechain bed.wav -sidechain-gain 0.3 in.wav out.wav
//
// The target delay is reached elastically: instead of inserting silence, the
// buffer resamples its read side so the latency converges smoothly onto the
// target. An optional sidechain file is mixed into each pushed block without
// advancing the write cursor, demonstrating AddToPushedBlock.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	elastic "github.com/tphakala/go-elastic-buffer"
)

const (
	// Samples per processing block.
	defaultBlockSize = 1024

	// Capacity headroom above the target delay, in blocks.
	capacityHeadroomBlocks = 4

	// Smallest ring allocated regardless of the requested delay.
	minRingCapacity = 4096

	// CLI defaults
	defaultDelayMs  = 100.0
	minRequiredArgs = 2
	msPerSecond     = 1000.0
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() (err error) {
	delayMs := flag.Float64("delay", defaultDelayMs, "Target delay in milliseconds")
	gain := flag.Float64("gain", 1.0, "Gain applied to the main input")
	maxFactor := flag.Float64("maxfactor", elastic.DefaultMaxResamplingFactor, "Upper clamp on read-side playback speed")
	sidechain := flag.String("sidechain", "", "Optional WAV file mixed into each pushed block")
	sidechainGain := flag.Float64("sidechain-gain", 1.0, "Gain applied to the sidechain input")
	blockSize := flag.Int("block", defaultBlockSize, "Processing block size in samples")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		return fmt.Errorf("insufficient arguments")
	}

	input, err := openWAVInput(args[0], *verbose)
	if err != nil {
		return err
	}
	defer func() { _ = input.Close() }()

	var side *wavInput
	if *sidechain != "" {
		side, err = openWAVInput(*sidechain, *verbose)
		if err != nil {
			return err
		}
		defer func() { _ = side.Close() }()

		if side.channels != input.channels || side.rate != input.rate {
			return fmt.Errorf("sidechain format %d ch @ %d Hz does not match input %d ch @ %d Hz",
				side.channels, side.rate, input.channels, input.rate)
		}
	}

	delaySamples := int(*delayMs * float64(input.rate) / msPerSecond)
	capacity := delaySamples + capacityHeadroomBlocks*(*blockSize)
	if capacity < minRingCapacity {
		capacity = minRingCapacity
	}

	buf, err := elastic.New[float64](&elastic.Config{
		Channels:            input.channels,
		Capacity:            capacity,
		SampleRate:          float64(input.rate),
		MaxResamplingFactor: *maxFactor,
	})
	if err != nil {
		return err
	}

	if *verbose {
		log.Printf("Delaying by %d samples (%.1f ms) with a %d sample ring", delaySamples, *delayMs, capacity)
	}

	output, err := createWAVOutput(args[1], input.rate, input.bitDepth, input.channels)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := output.Close(); err == nil {
			err = closeErr
		}
	}()

	stats, err := process(buf, input, side, output, processParams{
		blockSize:     *blockSize,
		delaySamples:  delaySamples,
		gain:          *gain,
		sidechainGain: *sidechainGain,
	})
	if err != nil {
		return err
	}

	if *verbose {
		log.Printf("Processed %d frames in, %d frames out, final delay %d samples",
			stats.framesIn, stats.framesOut, buf.Delay())
	}
	return nil
}

// processParams collects the knobs of the main loop.
type processParams struct {
	blockSize     int
	delaySamples  int
	gain          float64
	sidechainGain float64
}

// processStats reports what the main loop moved.
type processStats struct {
	framesIn  int64
	framesOut int64
}

// process streams the input through the delay buffer block by block. After
// the input ends, silence is pushed until the buffered tail has drained so
// the output holds the complete delayed signal.
func process(
	buf *elastic.DelayBuffer[float64],
	input, side *wavInput,
	output *wavOutput,
	params processParams,
) (*processStats, error) {
	bufs := newProcessBuffers(input.channels, params.blockSize, input.bitDepth, input.format)
	stats := &processStats{}

	for {
		frames, err := input.ReadBlock(bufs.intBuffer, bufs.pushBlock, bufs.invMaxVal)
		if err != nil {
			return nil, fmt.Errorf("failed to read audio data: %w", err)
		}
		if frames == 0 {
			break
		}
		stats.framesIn += int64(frames)

		if err := buf.PushBlock(bufs.pushBlock, frames, params.gain); err != nil {
			return nil, err
		}

		if side != nil {
			sideFrames, err := side.ReadBlock(bufs.intBuffer, bufs.sideBlock, bufs.invMaxVal)
			if err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("failed to read sidechain data: %w", err)
			}
			if sideFrames > 0 {
				clearTail(bufs.sideBlock, sideFrames, frames)
				if err := buf.AddToPushedBlock(bufs.sideBlock, frames, params.sidechainGain); err != nil {
					return nil, err
				}
			}
		}

		if err := pullAndWrite(buf, output, bufs, frames, params.delaySamples); err != nil {
			return nil, err
		}
		stats.framesOut += int64(frames)
	}

	// Drain the tail: push silence, pull until the delayed signal is out.
	clearBlock(bufs.pushBlock)
	remaining := stats.framesIn + int64(params.delaySamples) - stats.framesOut
	for remaining > 0 {
		frames := params.blockSize
		if int64(frames) > remaining {
			frames = int(remaining)
		}
		if err := buf.PushBlock(bufs.pushBlock, frames, 1.0); err != nil {
			return nil, err
		}
		if err := pullAndWrite(buf, output, bufs, frames, params.delaySamples); err != nil {
			return nil, err
		}
		stats.framesOut += int64(frames)
		remaining -= int64(frames)
	}

	return stats, nil
}

// pullAndWrite pulls one block at the target delay and writes it out.
func pullAndWrite(
	buf *elastic.DelayBuffer[float64],
	output *wavOutput,
	bufs *processBuffers,
	frames, delaySamples int,
) error {
	if err := buf.PullBlock(bufs.pullBlock, frames, delaySamples); err != nil {
		return err
	}
	return output.WriteBlock(bufs.pullBlock, frames, bufs.maxVal)
}
