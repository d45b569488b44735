package interp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestProcess_UnityRatio verifies 1:1 passthrough: every output sample
// consumes exactly one source sample and, after the window fills, output
// reproduces the source delayed by the interpolator latency.
func TestProcess_UnityRatio(t *testing.T) {
	ip := New[float64]()

	ring := make([]float64, 64)
	for i := range ring {
		ring[i] = float64(i + 1)
	}

	output := make([]float64, 32)
	used := ip.Process(1.0, ring, 0, output)

	assert.Equal(t, len(output), used, "unity ratio should consume one source sample per output sample")

	latency := ip.Latency()
	for i := latency; i < len(output); i++ {
		assert.InDelta(t, ring[i-latency], output[i], 1e-12,
			"output[%d] should equal source delayed by %d samples", i, latency)
	}
}

// TestProcess_ExactAtIntegerPositions verifies the Lagrange polynomial
// reproduces the middle history sample exactly at zero fractional offset.
func TestProcess_ExactAtIntegerPositions(t *testing.T) {
	ip := New[float64]()
	ip.history = [historyLen]float64{3, -1, 7, 2, 5}

	assert.InDelta(t, 7.0, ip.valueAt(0), 1e-12)
	assert.InDelta(t, 2.0, ip.valueAt(1.0-1e-15), 1e-9,
		"approaching the next node should approach the next sample")
}

// TestProcess_PolynomialExactness verifies that a cubic signal is
// reproduced exactly at fractional positions: 4th-order Lagrange
// interpolation is exact for polynomials up to degree 4.
func TestProcess_PolynomialExactness(t *testing.T) {
	poly := func(x float64) float64 {
		return 0.5*x*x*x - 2*x*x + 3*x - 1
	}

	ip := New[float64]()
	ring := make([]float64, 64)
	for i := range ring {
		ring[i] = poly(float64(i))
	}

	// Half-speed read: every second output lands between source samples.
	output := make([]float64, 40)
	ip.Process(0.5, ring, 0, output)

	// First outputs are contaminated by the zeroed history; once five real
	// samples are loaded, the polynomial must be exact.
	for i := 12; i < len(output); i++ {
		// Output i sits at source position (i*0.5) relative to the first
		// consumed sample, minus the window latency.
		x := 0.5*float64(i) - float64(ip.Latency())
		assert.InDelta(t, poly(x), output[i], 1e-9, "output[%d] at source position %f", i, x)
	}
}

// TestProcess_ConsumedCountMatchesRatio verifies the consumed count tracks
// ratio*numOutput across repeated calls, with the fractional remainder
// carried in the phase.
func TestProcess_ConsumedCountMatchesRatio(t *testing.T) {
	testCases := []struct {
		name  string
		ratio float64
	}{
		{"half speed", 0.5},
		{"near unity", 1.001},
		{"above unity", 1.25},
		{"double speed", 2.0},
		{"crawl", 0.0001},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ip := New[float64]()
			ring := make([]float64, 1<<16)
			output := make([]float64, 64)

			total := 0
			calls := 50
			pos := 0
			for range calls {
				used := ip.Process(tc.ratio, ring, pos, output)
				pos = (pos + used) % len(ring)
				total += used
			}

			expected := tc.ratio * float64(len(output)) * float64(calls)
			assert.InDelta(t, expected, float64(total), 2,
				"cumulative consumption should track ratio")
		})
	}
}

// TestProcess_Deterministic verifies that two interpolators reset together
// and driven identically consume identical sample counts on every call.
// The delay buffer advances one shared read cursor for all channels on the
// strength of this property.
func TestProcess_Deterministic(t *testing.T) {
	a := New[float64]()
	b := New[float64]()

	ringA := make([]float64, 256)
	ringB := make([]float64, 256)
	for i := range ringA {
		ringA[i] = math.Sin(float64(i) / 10)
		ringB[i] = math.Cos(float64(i) / 3) // different content, same geometry
	}

	outA := make([]float64, 48)
	outB := make([]float64, 48)

	pos := 0
	for call, ratio := range []float64{1.0, 1.3, 0.7, 1.0, 0.0001, 4.0} {
		usedA := a.Process(ratio, ringA, pos, outA)
		usedB := b.Process(ratio, ringB, pos, outB)
		require.Equal(t, usedA, usedB, "call %d: consumed counts diverged", call)
		pos = (pos + usedA) % len(ringA)
	}
}

// TestProcess_WrapsAroundRing verifies reads starting near the end of the
// ring continue seamlessly from the beginning.
func TestProcess_WrapsAroundRing(t *testing.T) {
	ip := New[float64]()

	// Ramp stored in ring order such that reading from readPos yields a
	// continuous count across the wrap point.
	const n = 128
	const readPos = n - 10
	ring := make([]float64, n)
	for i := range n {
		ring[(readPos+i)%n] = float64(i)
	}

	output := make([]float64, 40)
	used := ip.Process(1.0, ring, readPos, output)
	require.Equal(t, len(output), used)

	for i := ip.Latency() + 1; i < len(output); i++ {
		assert.InDelta(t, 1.0, output[i]-output[i-1], 1e-12,
			"ramp must stay continuous across the wrap at output[%d]", i)
	}
}

// TestReset verifies Reset clears history so output after a reset carries
// no trace of previously consumed samples.
func TestReset(t *testing.T) {
	ip := New[float64]()

	loud := make([]float64, 64)
	for i := range loud {
		loud[i] = 100.0
	}
	out := make([]float64, 32)
	ip.Process(1.0, loud, 0, out)

	ip.Reset()

	silent := make([]float64, 64)
	ip.Process(1.0, silent, 0, out)
	for i, v := range out {
		assert.Zero(t, v, "output[%d] should carry no pre-reset history", i)
	}
}

// TestReset_MatchesFreshInterpolator verifies a reset interpolator behaves
// identically to a newly constructed one.
func TestReset_MatchesFreshInterpolator(t *testing.T) {
	ring := make([]float64, 256)
	for i := range ring {
		ring[i] = math.Sin(float64(i) / 7)
	}

	used := New[float64]()
	scratch := make([]float64, 100)
	used.Process(1.7, ring, 0, scratch)
	used.Reset()

	fresh := New[float64]()

	outUsed := make([]float64, 64)
	outFresh := make([]float64, 64)
	nUsed := used.Process(0.9, ring, 5, outUsed)
	nFresh := fresh.Process(0.9, ring, 5, outFresh)

	require.Equal(t, nFresh, nUsed)
	assert.Equal(t, outFresh, outUsed)
}
