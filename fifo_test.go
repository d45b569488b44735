package elastic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-elastic-buffer/internal/testutil"
)

func TestFIFO_RoundTrip(t *testing.T) {
	f := NewFIFO[float64](2, 256)
	assert.Equal(t, 2, f.Channels())
	assert.Equal(t, 256, f.Capacity())
	assert.Zero(t, f.Available())
	assert.Equal(t, 256, f.FreeSpace())

	in := Block[float64](2, 100)
	for ch := range in {
		copy(in[ch], testutil.Ramp(100, float64(ch*1000)))
	}
	require.Equal(t, 100, f.Write(in, 100))
	assert.Equal(t, 100, f.Available())
	assert.Equal(t, 156, f.FreeSpace())

	out := Block[float64](2, 100)
	require.Equal(t, 100, f.Read(out, 100))
	assert.Zero(t, f.Available())

	for ch := range out {
		assert.Equal(t, in[ch], out[ch], "channel %d", ch)
	}
}

func TestFIFO_PartialReadAndWrite(t *testing.T) {
	f := NewFIFO[float64](1, 64)

	in := Block[float64](1, 50)
	copy(in[0], testutil.Ramp(50, 0))
	require.Equal(t, 50, f.Write(in, 50))

	// Queue holds 50; writing 50 more accepts only the free 14.
	assert.Equal(t, 14, f.Write(in, 50))
	assert.Zero(t, f.FreeSpace())
	assert.Zero(t, f.Write(in, 10), "full queue accepts nothing")

	// Reading more than available delivers only what is there.
	out := Block[float64](1, 128)
	assert.Equal(t, 64, f.Read(out, 128))
	assert.Zero(t, f.Read(out, 10), "empty queue delivers nothing")
}

func TestFIFO_WrapsAcrossCapacity(t *testing.T) {
	f := NewFIFO[float64](1, 128)

	// Stream a long ramp through in mismatched chunk sizes, forcing the
	// counters to wrap the ring many times.
	const total = 1000
	ramp := testutil.Ramp(total, 0)

	var received []float64
	wrote := 0
	out := Block[float64](1, 37)
	for wrote < total || len(received) < total {
		if wrote < total {
			n := min(53, total-wrote)
			in := [][]float64{ramp[wrote : wrote+n]}
			wrote += f.Write(in, n)
		}
		got := f.Read(out, 37)
		received = append(received, out[0][:got]...)
	}

	require.Len(t, received, total)
	testutil.AssertStepsOf(t, received, 1.0, 0)
}

func TestFIFO_ChannelMismatch(t *testing.T) {
	f := NewFIFO[float64](2, 64)

	mono := Block[float64](1, 16)
	assert.Zero(t, f.Write(mono, 16))
	assert.Zero(t, f.Read(mono, 16))
}

func TestFIFO_Clear(t *testing.T) {
	f := NewFIFO[float64](1, 64)

	in := Block[float64](1, 32)
	f.Write(in, 32)
	require.Equal(t, 32, f.Available())

	f.Clear()
	assert.Zero(t, f.Available())
	assert.Equal(t, 64, f.FreeSpace())
}

// TestFIFO_SingleProducerSingleConsumer moves a long ramp through a small
// queue with the producer and consumer on separate goroutines. Run with
// -race; the two sides share only the atomic counters.
func TestFIFO_SingleProducerSingleConsumer(t *testing.T) {
	const total = 100000
	f := NewFIFO[float64](1, 512)

	go func() {
		ramp := testutil.Ramp(total, 0)
		wrote := 0
		for wrote < total {
			n := min(128, total-wrote)
			in := [][]float64{ramp[wrote : wrote+n]}
			wrote += f.Write(in, n)
		}
	}()

	received := make([]float64, 0, total)
	out := Block[float64](1, 128)
	for len(received) < total {
		got := f.Read(out, 128)
		received = append(received, out[0][:got]...)
	}

	testutil.AssertStepsOf(t, received, 1.0, 0)
}
