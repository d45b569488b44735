package elastic

import (
	"math"

	"github.com/tphakala/go-elastic-buffer/internal/simdops"
)

// Level measurement helpers for the metering code that typically sits next
// to a delay buffer. They operate on plain sample blocks so they can be
// applied to input before PushBlock or to output after PullBlock.

// BlockPeak returns the largest absolute sample value in block.
func BlockPeak[F simdops.Float](block []F) F {
	var peak F
	for _, s := range block {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	return peak
}

// BlockRMS returns the root-mean-square level of block, or 0 for an empty
// block. The inner sum of squares uses the SIMD dot product.
func BlockRMS[F simdops.Float](block []F) F {
	if len(block) == 0 {
		return 0
	}
	sum := simdops.For[F]().DotProductUnsafe(block, block)
	return F(math.Sqrt(float64(sum) / float64(len(block))))
}

// BlockMean returns the average sample value of block, or 0 for an empty
// block. A drifting mean indicates DC offset upstream of the buffer.
func BlockMean[F simdops.Float](block []F) F {
	if len(block) == 0 {
		return 0
	}
	return simdops.For[F]().Sum(block) / F(len(block))
}
