package features

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const pitchClasses = 12

// chromaMean folds each magnitude frame onto the 12 pitch classes,
// normalizes each frame to its peak, and returns the mean over all cells of
// the resulting time x 12 matrix.
func chromaMean(frames [][]float64, freqs []float64) float64 {
	if len(frames) == 0 {
		return 0
	}

	// precompute the pitch class of each bin; bin 0 (DC) is excluded
	classes := make([]int, len(freqs))
	for i, f := range freqs {
		if f <= 0 {
			classes[i] = -1
			continue
		}
		midi := 69 + pitchClasses*math.Log2(f/440.0)
		pc := int(math.Round(midi)) % pitchClasses
		if pc < 0 {
			pc += pitchClasses
		}
		classes[i] = pc
	}

	cellMeans := make([]float64, 0, len(frames))
	chroma := make([]float64, pitchClasses)
	for _, mag := range frames {
		for i := range chroma {
			chroma[i] = 0
		}
		for i, m := range mag {
			if classes[i] < 0 {
				continue
			}
			chroma[classes[i]] += m
		}

		peak := 0.0
		for _, c := range chroma {
			if c > peak {
				peak = c
			}
		}
		if peak > 0 {
			for i := range chroma {
				chroma[i] /= peak
			}
		}
		cellMeans = append(cellMeans, stat.Mean(chroma, nil))
	}

	return stat.Mean(cellMeans, nil)
}
