package features

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	melFilters   = 40
	mfccCoeffs   = 20
	logFloor     = 1e-10
	melBreakFreq = 700.0
)

func hzToMel(hz float64) float64 {
	return 2595.0 * math.Log10(1.0+hz/melBreakFreq)
}

func melToHz(mel float64) float64 {
	return melBreakFreq * (math.Pow(10, mel/2595.0) - 1.0)
}

// melFilterbank builds triangular filters spaced evenly on the mel scale,
// mapped onto FFT bins. filterbank[filter][bin] holds the bin weight.
func melFilterbank(bins, windowSize, sampleRate int) [][]float64 {
	lowMel := hzToMel(0)
	highMel := hzToMel(float64(sampleRate) / 2)

	// filter edge frequencies: melFilters+2 points spanning the mel range
	edges := make([]float64, melFilters+2)
	for i := range edges {
		mel := lowMel + (highMel-lowMel)*float64(i)/float64(melFilters+1)
		edges[i] = melToHz(mel)
	}

	freqs := binFrequencies(bins, windowSize, sampleRate)
	bank := make([][]float64, melFilters)
	for f := 0; f < melFilters; f++ {
		left, center, right := edges[f], edges[f+1], edges[f+2]
		filter := make([]float64, bins)
		for b, freq := range freqs {
			switch {
			case freq <= left || freq >= right:
				// outside the triangle
			case freq <= center:
				if center > left {
					filter[b] = (freq - left) / (center - left)
				}
			default:
				if right > center {
					filter[b] = (right - freq) / (right - center)
				}
			}
		}
		bank[f] = filter
	}
	return bank
}

// dct2 computes the orthonormal DCT-II of in, keeping the first n outputs.
func dct2(in []float64, n int) []float64 {
	k := len(in)
	out := make([]float64, n)
	for c := 0; c < n; c++ {
		var sum float64
		for i := 0; i < k; i++ {
			sum += in[i] * math.Cos(math.Pi*float64(c)*(float64(i)+0.5)/float64(k))
		}
		scale := math.Sqrt(2.0 / float64(k))
		if c == 0 {
			scale = math.Sqrt(1.0 / float64(k))
		}
		out[c] = sum * scale
	}
	return out
}

// mfccMean computes per-frame MFCCs (log mel filter energies followed by a
// DCT) and returns the arithmetic mean over the full coefficients x frames
// matrix.
func mfccMean(frames [][]float64, windowSize, sampleRate int) float64 {
	if len(frames) == 0 {
		return 0
	}

	bank := melFilterbank(len(frames[0]), windowSize, sampleRate)
	frameMeans := make([]float64, 0, len(frames))

	energies := make([]float64, melFilters)
	for _, mag := range frames {
		for f, filter := range bank {
			var e float64
			for b, w := range filter {
				if w == 0 {
					continue
				}
				// power spectrum weighting
				e += w * mag[b] * mag[b]
			}
			energies[f] = math.Log(e + logFloor)
		}
		coeffs := dct2(energies, mfccCoeffs)
		frameMeans = append(frameMeans, stat.Mean(coeffs, nil))
	}

	return stat.Mean(frameMeans, nil)
}
