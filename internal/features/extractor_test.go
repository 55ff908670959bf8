package features

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/soundprint-labs/soundprint/internal/core/domain"
)

// writeSineWav writes a mono 16-bit PCM WAV containing a sine tone.
func writeSineWav(t *testing.T, path string, sampleRate int, freq, amplitude float64, seconds float64) {
	t.Helper()

	n := int(float64(sampleRate) * seconds)
	samples := make([]int16, n)
	for i := range samples {
		samples[i] = int16(amplitude * 32000 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
	}

	var buf bytes.Buffer
	dataLen := len(samples) * 2
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	binary.Write(&buf, binary.LittleEndian, samples)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("writing wav fixture: %v", err)
	}
}

func TestExtract_CanonicalKeysAndFiniteValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeSineWav(t, path, 22050, 440, 0.7, 1.0)

	fv, err := NewExtractor().Extract(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := fv.Values(); err != nil {
		t.Fatalf("vector failed validation: %v", err)
	}
	for _, key := range domain.FeatureKeys {
		if _, ok := fv[key]; !ok {
			t.Fatalf("missing key %s", key)
		}
	}
}

func TestExtract_SineToneDescriptors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeSineWav(t, path, 22050, 440, 0.7, 1.0)

	fv, err := NewExtractor().Extract(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// a 440Hz sine crosses zero 880 times per second
	zcr := fv["zero_crossing_rate_mean"]
	if zcr < 0.03 || zcr > 0.05 {
		t.Errorf("zero_crossing_rate_mean: got %v, want roughly 0.04", zcr)
	}

	// RMS of a sine is amplitude/sqrt(2)
	rms := fv["rmse_mean"]
	if rms < 0.4 || rms > 0.6 {
		t.Errorf("rmse_mean: got %v, want roughly 0.49", rms)
	}

	// spectral mass concentrates near the tone frequency
	centroid := fv["spectral_centroid_mean"]
	if centroid < 100 || centroid > 2000 {
		t.Errorf("spectral_centroid_mean: got %v, want near 440", centroid)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeSineWav(t, path, 22050, 220, 0.5, 0.5)

	a, err := NewExtractor().Extract(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := NewExtractor().Extract(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, key := range domain.FeatureKeys {
		if a[key] != b[key] {
			t.Fatalf("key %s: %v != %v across fresh extractors", key, a[key], b[key])
		}
	}
}

func TestExtract_MemoizedByPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeSineWav(t, path, 22050, 330, 0.5, 0.5)

	e := NewExtractor()
	first, err := e.Extract(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// replacing the file with garbage proves the second call never decodes
	if err := os.WriteFile(path, []byte("no longer audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	second, err := e.Extract(path)
	if err != nil {
		t.Fatalf("expected memoized result, got error: %v", err)
	}
	for _, key := range domain.FeatureKeys {
		if first[key] != second[key] {
			t.Fatalf("key %s: memoized value changed", key)
		}
	}
}

func TestExtract_MemoReturnsCopies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeSineWav(t, path, 22050, 330, 0.5, 0.5)

	e := NewExtractor()
	first, _ := e.Extract(path)
	first["tempo"] = -1 // mutate the returned map

	second, _ := e.Extract(path)
	if second["tempo"] == -1 {
		t.Fatal("mutating a returned vector leaked into the memo")
	}
}

func TestExtract_TooShortClip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blip.wav")
	// 1024 samples is below the 2048-sample analysis window
	writeSineWav(t, path, 22050, 440, 0.5, 1024.0/22050.0)

	_, err := NewExtractor().Extract(path)
	if !errors.Is(err, domain.ErrFeaturesUnavailable) {
		t.Fatalf("expected ErrFeaturesUnavailable, got %v", err)
	}
}

func TestExtract_UndecodableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.mp3")
	if err := os.WriteFile(path, []byte{0x00, 0x01, 0x02}, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewExtractor().Extract(path)
	if !errors.Is(err, domain.ErrFeaturesUnavailable) {
		t.Fatalf("expected ErrFeaturesUnavailable, got %v", err)
	}
}
