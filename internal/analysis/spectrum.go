package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/terrainbg/internal/config"
	"github.com/san-kum/terrainbg/internal/shader"
)

// ElevationTrace samples the displacement at local (x, y) every stepMillis
// of wall-clock time, converted to noise time with the tier's speed.
func ElevationTrace(cfg config.Render, x, y float64, samples int, stepMillis float64) []float64 {
	out := make([]float64, samples)
	for i := range out {
		t := float64(i) * stepMillis * cfg.NoiseSpeed
		out[i] = shader.Elevation(x, y, t, cfg)
	}
	return out
}

// PowerSpectrum returns the magnitudes of the first half of the spectrum
// of trace after removing its mean and applying a Hann window.
func PowerSpectrum(trace []float64) []float64 {
	n := len(trace)
	if n < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range trace {
		mean += v
	}
	mean /= float64(n)

	buf := make([]complex128, n)
	for i, v := range trace {
		window := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		buf[i] = complex((v-mean)*window, 0)
	}
	spectrum := fft.FFT(buf)

	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC
// bin of trace sampled every stepMillis. It is 0 for a flat trace.
func DominantFrequency(trace []float64, stepMillis float64) float64 {
	ps := PowerSpectrum(trace)
	best, peak := 0, 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > peak {
			best, peak = i, ps[i]
		}
	}
	if best == 0 || stepMillis <= 0 {
		return 0
	}
	rate := 1000 / stepMillis
	return float64(best) * rate / float64(len(trace))
}

// MaxStep is the largest absolute difference between consecutive samples.
func MaxStep(trace []float64) float64 {
	m := 0.0
	for i := 1; i < len(trace); i++ {
		if d := math.Abs(trace[i] - trace[i-1]); d > m {
			m = d
		}
	}
	return m
}
