package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/tphakala/go-elastic-buffer/internal/simdops"
)

const (
	defaultBitDepth = 16
	stereoChannels  = 2
)

// wavInput holds a validated WAV source.
type wavInput struct {
	file     *os.File
	decoder  *wav.Decoder
	rate     int
	channels int
	bitDepth int
	format   *audio.Format
}

// openWAVInput opens and validates a WAV file, returning format information.
func openWAVInput(path string, verbose bool) (*wavInput, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		_ = file.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	bitDepth := int(decoder.BitDepth)
	if bitDepth == 0 {
		bitDepth = defaultBitDepth
	}

	if verbose {
		log.Printf("%s: %d Hz, %d channels, %d-bit", path, format.SampleRate, format.NumChannels, bitDepth)
	}

	return &wavInput{
		file:     file,
		decoder:  decoder,
		rate:     format.SampleRate,
		channels: format.NumChannels,
		bitDepth: bitDepth,
		format:   format,
	}, nil
}

// ReadBlock reads up to one block of frames, deinterleaving into dst scaled
// to [-1, 1]. Returns the number of frames read; 0 at end of stream.
func (w *wavInput) ReadBlock(intBuffer *audio.IntBuffer, dst [][]float64, invMaxVal float64) (int, error) {
	intBuffer.Data = intBuffer.Data[:cap(intBuffer.Data)]
	n, err := w.decoder.PCMBuffer(intBuffer)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}

	frames := n / w.channels
	deinterleaveInto(intBuffer.Data[:n], dst, w.channels, frames, invMaxVal)
	return frames, nil
}

// Close closes the input file.
func (w *wavInput) Close() error {
	return w.file.Close()
}

// wavOutput wraps a WAV encoder and its interleave scratch space.
type wavOutput struct {
	file    *os.File
	encoder *wav.Encoder
	scratch []float64
	intBuf  *audio.IntBuffer
	ops     *simdops.Ops[float64]
}

// createWAVOutput creates the output file and encoder.
func createWAVOutput(path string, sampleRate, bitDepth, channels int) (*wavOutput, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	encoder := wav.NewEncoder(file, sampleRate, bitDepth, channels, 1)

	return &wavOutput{
		file:    file,
		encoder: encoder,
		intBuf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
		ops: simdops.For[float64](),
	}, nil
}

// WriteBlock interleaves and quantizes one block of frames.
func (w *wavOutput) WriteBlock(block [][]float64, frames int, maxVal float64) error {
	channels := len(block)
	needed := frames * channels
	if cap(w.scratch) < needed {
		w.scratch = make([]float64, needed)
	}
	w.scratch = w.scratch[:needed]

	if channels == stereoChannels {
		// SIMD fast path for the common case.
		w.ops.Interleave2(w.scratch, block[0][:frames], block[1][:frames])
	} else {
		for ch := range block {
			for i := 0; i < frames; i++ {
				w.scratch[i*channels+ch] = block[ch][i]
			}
		}
	}

	if cap(w.intBuf.Data) < needed {
		w.intBuf.Data = make([]int, needed)
	}
	w.intBuf.Data = w.intBuf.Data[:needed]
	for i, s := range w.scratch {
		w.intBuf.Data[i] = quantize(s, maxVal)
	}

	return w.encoder.Write(w.intBuf)
}

// Close finalizes the WAV header and closes the file.
func (w *wavOutput) Close() error {
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}

// processBuffers holds all preallocated buffers for the main loop.
type processBuffers struct {
	intBuffer *audio.IntBuffer
	pushBlock [][]float64
	sideBlock [][]float64
	pullBlock [][]float64
	maxVal    float64
	invMaxVal float64
}

// newProcessBuffers preallocates the processing buffers so the main loop
// stays allocation free.
func newProcessBuffers(channels, blockSize, bitDepth int, format *audio.Format) *processBuffers {
	maxVal := float64(int64(1)<<(bitDepth-1)) - 1

	return &processBuffers{
		intBuffer: &audio.IntBuffer{
			Data:   make([]int, blockSize*channels),
			Format: format,
		},
		pushBlock: makeBlock(channels, blockSize),
		sideBlock: makeBlock(channels, blockSize),
		pullBlock: makeBlock(channels, blockSize),
		maxVal:    maxVal,
		invMaxVal: 1.0 / maxVal,
	}
}

func makeBlock(channels, numSamples int) [][]float64 {
	block := make([][]float64, channels)
	for ch := range block {
		block[ch] = make([]float64, numSamples)
	}
	return block
}

// deinterleaveInto converts interleaved int samples to per-channel floats.
func deinterleaveInto(data []int, dst [][]float64, channels, frames int, invMaxVal float64) {
	for ch := range channels {
		row := dst[ch]
		for i := 0; i < frames; i++ {
			row[i] = float64(data[i*channels+ch]) * invMaxVal
		}
	}
}

// quantize converts a normalized sample back to an int with clipping.
func quantize(s, maxVal float64) int {
	v := s * maxVal
	if v > maxVal {
		v = maxVal
	}
	if v < -maxVal-1 {
		v = -maxVal - 1
	}
	if v >= 0 {
		return int(v + 0.5)
	}
	return int(v - 0.5)
}

// clearTail zeroes frames [from, to) of every channel.
func clearTail(block [][]float64, from, to int) {
	for ch := range block {
		for i := from; i < to; i++ {
			block[ch][i] = 0
		}
	}
}

// clearBlock zeroes every sample of every channel.
func clearBlock(block [][]float64) {
	for ch := range block {
		for i := range block[ch] {
			block[ch][i] = 0
		}
	}
}
