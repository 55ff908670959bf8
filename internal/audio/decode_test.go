package audio

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

// writeWav writes a minimal 16-bit PCM WAV file with interleaved channels.
func writeWav(t *testing.T, path string, channels, sampleRate int, samples []int16) {
	t.Helper()

	var buf bytes.Buffer
	dataLen := len(samples) * 2
	byteRate := sampleRate * channels * 2

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(channels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	binary.Write(&buf, binary.LittleEndian, samples)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("writing wav fixture: %v", err)
	}
}

func TestDecodeMono_Wav(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.wav")

	// 100ms of a 440Hz sine at 22050Hz
	rate := 22050
	n := rate / 10
	samples := make([]int16, n)
	for i := range samples {
		samples[i] = int16(16000 * math.Sin(2*math.Pi*440*float64(i)/float64(rate)))
	}
	writeWav(t, path, 1, rate, samples)

	got, gotRate, err := DecodeMono(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotRate != rate {
		t.Fatalf("sample rate: got %d, want %d", gotRate, rate)
	}
	if len(got) != n {
		t.Fatalf("sample count: got %d, want %d", len(got), n)
	}
	for i, s := range got {
		if s < -1 || s > 1 {
			t.Fatalf("sample %d out of range: %v", i, s)
		}
	}
}

func TestDecodeMono_StereoDownmix(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stereo.wav")

	// opposite-phase channels cancel to silence on downmix
	frames := 512
	samples := make([]int16, frames*2)
	for i := 0; i < frames; i++ {
		samples[2*i] = 12000
		samples[2*i+1] = -12000
	}
	writeWav(t, path, 2, 44100, samples)

	got, _, err := DecodeMono(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != frames {
		t.Fatalf("frame count: got %d, want %d", len(got), frames)
	}
	for i, s := range got {
		if math.Abs(s) > 1e-9 {
			t.Fatalf("frame %d: expected cancellation, got %v", i, s)
		}
	}
}

func TestDecodeMono_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "garbage.mp3")
	if err := os.WriteFile(path, []byte("not an mp3 at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := DecodeMono(path)
	if !errors.Is(err, domain.ErrFeaturesUnavailable) {
		t.Fatalf("expected ErrFeaturesUnavailable, got %v", err)
	}
}

func TestDecodeMono_MissingFile(t *testing.T) {
	_, _, err := DecodeMono(filepath.Join(t.TempDir(), "nope.mp3"))
	if !errors.Is(err, domain.ErrFeaturesUnavailable) {
		t.Fatalf("expected ErrFeaturesUnavailable, got %v", err)
	}
}

func TestResample(t *testing.T) {
	tests := []struct {
		name    string
		in      []float64
		from    int
		to      int
		wantLen int
	}{
		{"identity", []float64{1, 2, 3}, 22050, 22050, 3},
		{"downsample halves length", make([]float64, 1000), 44100, 22050, 500},
		{"upsample doubles length", make([]float64, 500), 11025, 22050, 1000},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := Resample(tc.in, tc.from, tc.to)
			if len(got) != tc.wantLen {
				t.Fatalf("length: got %d, want %d", len(got), tc.wantLen)
			}
		})
	}
}

func TestResample_PreservesConstantSignal(t *testing.T) {
	in := make([]float64, 441)
	for i := range in {
		in[i] = 0.25
	}
	out := Resample(in, 44100, 22050)
	for i, s := range out {
		if math.Abs(s-0.25) > 1e-9 {
			t.Fatalf("sample %d: got %v, want 0.25", i, s)
		}
	}
}
