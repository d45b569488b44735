// Package testutil provides reusable test helper functions for the elastic
// buffer tests: deterministic signal generators, slice assertions, and a
// spectral helper for verifying that the elastic read path preserves pitch.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-10

	// InterpolationTolerance bounds the error a 4th-order Lagrange
	// interpolator introduces on smooth test signals.
	InterpolationTolerance = 1e-3
)

// Ramp returns n samples counting up from start in steps of 1.
// Arithmetic on counter values is exact in float64 well past any ring size
// used in tests, which makes ramps ideal for wrap-correctness checks.
func Ramp(n int, start float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = start + float64(i)
	}
	return s
}

// Sine returns n samples of a sine wave at the given frequency and rate.
func Sine(n int, freq, rate float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.Sin(2 * math.Pi * freq * float64(i) / rate)
	}
	return s
}

// Constant returns n samples of the given value.
func Constant(n int, value float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = value
	}
	return s
}

// DominantFrequency returns the frequency in Hz of the largest magnitude
// bin in the signal's spectrum. Used to verify that elastically resampled
// output keeps its pitch within the expected deviation.
func DominantFrequency(signal []float64, rate float64) float64 {
	fft := fourier.NewFFT(len(signal))
	coeffs := fft.Coefficients(nil, signal)

	best := 0
	bestMag := 0.0
	// Skip the DC bin.
	for i := 1; i < len(coeffs); i++ {
		mag := cmplxAbs(coeffs[i])
		if mag > bestMag {
			bestMag = mag
			best = i
		}
	}
	return fft.Freq(best) * rate
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(v, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertAllInRange verifies that all elements are within [min, max].
func AssertAllInRange(t *testing.T, s []float64, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v < minVal || v > maxVal {
			return assert.Fail(t, "value out of range",
				"s[%d]=%f is outside range [%f, %f]", i, v, minVal, maxVal)
		}
	}
	return true
}

// AssertInRange verifies that a value is within [min, max].
func AssertInRange(t *testing.T, value, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	if value < minVal || value > maxVal {
		return assert.Fail(t, "value out of range",
			"value %f is outside range [%f, %f]", value, minVal, maxVal)
	}
	return true
}

// AssertStepsOf verifies that consecutive elements increase by step within
// tolerance, i.e. the slice is a clean ramp. Used to prove that wrapped
// reads reproduce a continuous, non-corrupted signal.
func AssertStepsOf(t *testing.T, s []float64, step, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	for i := 1; i < len(s); i++ {
		d := s[i] - s[i-1]
		if math.Abs(d-step) > tolerance {
			return assert.Fail(t, "ramp discontinuity",
				"s[%d]-s[%d]=%f, want %f±%g", i, i-1, d, step, tolerance)
		}
	}
	return true
}
