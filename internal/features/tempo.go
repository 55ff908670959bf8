package features

import "gonum.org/v1/gonum/stat"

const (
	minBPM = 30.0
	maxBPM = 300.0
)

// onsetEnvelope measures spectral flux between consecutive frames: the sum
// of positive magnitude increases per bin. Peaks in the envelope line up
// with note onsets.
func onsetEnvelope(frames [][]float64) []float64 {
	if len(frames) < 2 {
		return nil
	}
	env := make([]float64, len(frames)-1)
	for t := 1; t < len(frames); t++ {
		var flux float64
		for b := range frames[t] {
			d := frames[t][b] - frames[t-1][b]
			if d > 0 {
				flux += d
			}
		}
		env[t-1] = flux
	}
	return env
}

// estimateTempo picks the beats-per-minute whose inter-beat lag maximizes
// the autocorrelation of the onset envelope. frameRate is frames per second
// (sampleRate / hopSize). Returns 0 when the clip has no usable rhythm
// signal, which downstream treats like any other silent feature.
func estimateTempo(env []float64, frameRate float64) float64 {
	if len(env) < 4 || frameRate <= 0 {
		return 0
	}

	// remove the mean so sustained energy does not dominate the correlation
	mean := stat.Mean(env, nil)
	centered := make([]float64, len(env))
	for i, v := range env {
		centered[i] = v - mean
	}

	minLag := int(frameRate * 60.0 / maxBPM)
	maxLag := int(frameRate * 60.0 / minBPM)
	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= len(centered) {
		maxLag = len(centered) - 1
	}
	if maxLag < minLag {
		return 0
	}

	bestLag, bestScore := 0, 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		var score float64
		for i := 0; i+lag < len(centered); i++ {
			score += centered[i] * centered[i+lag]
		}
		// normalize by overlap length so long lags are not penalized
		score /= float64(len(centered) - lag)
		if score > bestScore {
			bestScore = score
			bestLag = lag
		}
	}

	if bestLag == 0 || bestScore <= 0 {
		return 0
	}
	return 60.0 * frameRate / float64(bestLag)
}
