// Package audio loads short preview clips into mono float64 waveforms.
package audio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	mp3 "github.com/hajimehoshi/go-mp3"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
)

const int16Scale = 1.0 / 32768.0

// DecodeMono reads an MP3 or WAV file and returns mono samples normalized
// to [-1, 1] plus the native sample rate. Stereo input is downmixed by
// averaging channels. A file that cannot be decoded yields
// domain.ErrFeaturesUnavailable so callers degrade to "no features".
func DecodeMono(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("audio: %w: %v", domain.ErrFeaturesUnavailable, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return decodeWav(f)
	default:
		// preview assets are stored as .mp3; treat unknown extensions the same
		return decodeMP3(f)
	}
}

// decodeMP3 decodes via go-mp3, which always emits 16-bit little-endian
// stereo frames at the stream's native rate.
func decodeMP3(r io.Reader) ([]float64, int, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, 0, fmt.Errorf("audio: %w: mp3 decode: %v", domain.ErrFeaturesUnavailable, err)
	}

	var samples []float64
	buf := make([]byte, 8192)
	for {
		n, err := dec.Read(buf)
		// 4 bytes per frame: left int16 + right int16
		for i := 0; i+3 < n; i += 4 {
			l := float64(int16(buf[i]) | int16(buf[i+1])<<8)
			r := float64(int16(buf[i+2]) | int16(buf[i+3])<<8)
			samples = append(samples, (l+r)*0.5*int16Scale)
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, 0, fmt.Errorf("audio: %w: mp3 read: %v", domain.ErrFeaturesUnavailable, err)
		}
	}

	if len(samples) == 0 {
		return nil, 0, fmt.Errorf("audio: %w: mp3 stream contains no samples", domain.ErrFeaturesUnavailable)
	}
	return samples, dec.SampleRate(), nil
}

// decodeWav decodes PCM WAV via go-audio and downmixes to mono.
func decodeWav(f *os.File) ([]float64, int, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("audio: %w: not a valid wav file", domain.ErrFeaturesUnavailable)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("audio: %w: wav decode: %v", domain.ErrFeaturesUnavailable, err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, 0, fmt.Errorf("audio: %w: wav file contains no samples", domain.ErrFeaturesUnavailable)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := 1.0 / float64(int(1)<<(bitDepth-1))

	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(buf.Data[i*channels+c])
		}
		samples[i] = sum / float64(channels) * scale
	}

	return samples, buf.Format.SampleRate, nil
}
