package features

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const rolloffThreshold = 0.85

// binFrequencies returns the center frequency of each positive FFT bin.
func binFrequencies(bins, windowSize, sampleRate int) []float64 {
	freqs := make([]float64, bins)
	for i := range freqs {
		freqs[i] = float64(i) * float64(sampleRate) / float64(windowSize)
	}
	return freqs
}

// spectralCentroid is the magnitude-weighted mean frequency of one frame.
func spectralCentroid(mag, freqs []float64) float64 {
	var weighted, total float64
	for i, m := range mag {
		weighted += freqs[i] * m
		total += m
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

// spectralBandwidth is the magnitude-weighted standard deviation of
// frequency around the frame's centroid.
func spectralBandwidth(mag, freqs []float64, centroid float64) float64 {
	var weighted, total float64
	for i, m := range mag {
		d := freqs[i] - centroid
		weighted += m * d * d
		total += m
	}
	if total == 0 {
		return 0
	}
	return math.Sqrt(weighted / total)
}

// spectralRolloff is the lowest frequency below which rolloffThreshold of
// the frame's total magnitude is contained.
func spectralRolloff(mag, freqs []float64) float64 {
	var total float64
	for _, m := range mag {
		total += m
	}
	if total == 0 {
		return 0
	}
	target := rolloffThreshold * total
	var cum float64
	for i, m := range mag {
		cum += m
		if cum >= target {
			return freqs[i]
		}
	}
	return freqs[len(freqs)-1]
}

// frameRMS is the root-mean-square amplitude of one time-domain frame.
func frameRMS(frame []float64) float64 {
	var sum float64
	for _, s := range frame {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(frame)))
}

// frameZCR is the zero-crossing rate of one time-domain frame.
func frameZCR(frame []float64) float64 {
	if len(frame) < 2 {
		return 0
	}
	crossings := 0
	for i := 1; i < len(frame); i++ {
		if (frame[i-1] >= 0) != (frame[i] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(frame))
}

// meanOver applies fn to every frame and averages the results.
func meanOver(frames [][]float64, fn func([]float64) float64) float64 {
	if len(frames) == 0 {
		return 0
	}
	vals := make([]float64, len(frames))
	for i, f := range frames {
		vals[i] = fn(f)
	}
	return stat.Mean(vals, nil)
}
