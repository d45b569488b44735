package elastic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tphakala/go-elastic-buffer/internal/testutil"
)

func TestBlockPeak(t *testing.T) {
	assert.Zero(t, BlockPeak([]float64{}))
	assert.Equal(t, 3.0, BlockPeak([]float64{0.5, -3.0, 2.5}))
	assert.Equal(t, float32(1.5), BlockPeak([]float32{-1.5, 1.0}))
}

func TestBlockRMS(t *testing.T) {
	assert.Zero(t, BlockRMS([]float64{}))

	// Full-scale sine has RMS 1/sqrt(2); use whole periods.
	sine := testutil.Sine(4800, 1000, 48000)
	assert.InDelta(t, 1/math.Sqrt2, BlockRMS(sine), 1e-3)

	constant := testutil.Constant(256, 0.5)
	assert.InDelta(t, 0.5, BlockRMS(constant), 1e-12)
}

func TestBlockMean(t *testing.T) {
	assert.Zero(t, BlockMean([]float64{}))
	assert.InDelta(t, 0.25, BlockMean(testutil.Constant(64, 0.25)), 1e-12)

	// A whole number of sine periods averages to zero.
	sine := testutil.Sine(4800, 1000, 48000)
	assert.InDelta(t, 0.0, BlockMean(sine), 1e-6)
}
