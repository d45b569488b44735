// Package interp implements stateful fractional-rate interpolation over a
// circular sample store. It is the read-side engine of the elastic delay
// buffer: each channel owns one Interpolator, which produces output at a
// continuously variable playback rate while retaining a short history of
// source samples so consecutive blocks join without discontinuities.
package interp

import (
	"github.com/tphakala/go-elastic-buffer/internal/simdops"
)

// historyLen is the interpolation window size. Five retained samples give a
// 4th-order Lagrange polynomial evaluated between the two middle points.
const historyLen = 5

// initialPhase is the sub-sample position after a reset. Starting at 1.0
// forces the first output sample to load fresh source data instead of
// interpolating against stale history.
const initialPhase = 1.0

// Interpolator produces audio at a continuously variable playback rate using
// 4th-order Lagrange interpolation over a 5-sample window.
//
// The consumed-sample count returned by Process is a pure function of the
// ratio, the requested output count, and the phase left by earlier calls.
// Interpolators that are reset together and driven with identical arguments
// therefore always consume identically, which the delay buffer relies on to
// advance a single shared read cursor for all channels.
type Interpolator[F simdops.Float] struct {
	history [historyLen]F
	phase   float64
}

// New returns an Interpolator with cleared history.
func New[F simdops.Float]() *Interpolator[F] {
	ip := &Interpolator[F]{}
	ip.Reset()
	return ip
}

// Reset clears the retained history and sub-sample phase. Call it whenever
// continuity with previously consumed samples is intentionally broken, such
// as after a read-cursor jump.
func (ip *Interpolator[F]) Reset() {
	ip.history = [historyLen]F{}
	ip.phase = initialPhase
}

// Process writes len(output) samples interpolated at the given speed ratio,
// reading source samples from ring starting at readPos and wrapping at
// len(ring). A ratio above 1 consumes source faster than it produces output;
// below 1, slower. Returns the number of source samples consumed.
//
// The caller must ensure the ring holds enough readable samples ahead of
// readPos for the requested ratio; roughly ratio*len(output)+1 samples.
func (ip *Interpolator[F]) Process(ratio float64, ring []F, readPos int, output []F) int {
	pos := ip.phase
	used := 0
	n := len(ring)

	for i := range output {
		for pos >= 1.0 {
			ip.pushSample(ring[(readPos+used)%n])
			used++
			pos -= 1.0
		}
		output[i] = ip.valueAt(pos)
		pos += ratio
	}

	ip.phase = pos
	return used
}

// pushSample shifts the interpolation window by one source sample.
func (ip *Interpolator[F]) pushSample(sample F) {
	ip.history[0] = ip.history[1]
	ip.history[1] = ip.history[2]
	ip.history[2] = ip.history[3]
	ip.history[3] = ip.history[4]
	ip.history[4] = sample
}

// valueAt evaluates the Lagrange polynomial through the five history samples
// at fractional position t in [0, 1) between the two middle samples.
// The history maps onto nodes -2..2, so t=0 returns history[2] exactly.
func (ip *Interpolator[F]) valueAt(t float64) F {
	a := t + 2
	b := t + 1
	c := t
	d := t - 1
	e := t - 2

	v := float64(ip.history[0])*(b*c*d*e)/24 -
		float64(ip.history[1])*(a*c*d*e)/6 +
		float64(ip.history[2])*(a*b*d*e)/4 -
		float64(ip.history[3])*(a*b*c*e)/6 +
		float64(ip.history[4])*(a*b*c*d)/24

	return F(v)
}

// Latency returns the fixed group delay of the interpolation window in
// samples. Output lags the source by the distance from the newest history
// sample to the evaluation point.
func (ip *Interpolator[F]) Latency() int {
	return historyLen / 2
}
