// Package features computes the canonical 8-feature acoustic summary of a
// preview clip: a tempo estimate plus mean aggregates of frame-level
// spectral and temporal descriptors.
package features

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// hann returns a Hann window of length n.
func hann(n int) []float64 {
	w := make([]float64, n)
	for i := 0; i < n; i++ {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

// stft computes a time-major magnitude spectrogram:
// frames[frameIdx][freqBin], with windowSize/2+1 positive-frequency bins.
func stft(samples []float64, windowSize, hopSize int) [][]float64 {
	window := hann(windowSize)
	bins := windowSize/2 + 1

	var frames [][]float64
	frame := make([]float64, windowSize)
	for start := 0; start+windowSize <= len(samples); start += hopSize {
		for i := 0; i < windowSize; i++ {
			frame[i] = samples[start+i] * window[i]
		}
		spectrum := fft.FFTReal(frame)
		mag := make([]float64, bins)
		for i := 0; i < bins; i++ {
			mag[i] = cmplx.Abs(spectrum[i])
		}
		frames = append(frames, mag)
	}
	return frames
}

// timeFrames slices samples into unwindowed frames aligned with stft,
// for time-domain descriptors (RMS, zero crossings).
func timeFrames(samples []float64, windowSize, hopSize int) [][]float64 {
	var frames [][]float64
	for start := 0; start+windowSize <= len(samples); start += hopSize {
		frames = append(frames, samples[start:start+windowSize])
	}
	return frames
}
