package audio

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeTestWAV writes a mono 16-bit WAV whose first half is silent and
// whose second half is a full-scale square wave.
func writeTestWAV(t *testing.T, frames int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.wav")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	const sampleRate = 8000
	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)

	data := make([]int, frames)
	for i := frames / 2; i < frames; i++ {
		if i%2 == 0 {
			data[i] = 32767
		} else {
			data[i] = -32767
		}
	}
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write WAV: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close WAV: %v", err)
	}
	return path
}

func TestPeaks_WAV(t *testing.T) {
	path := writeTestWAV(t, 8000)

	peaks, err := Peaks(path, 10)
	if err != nil {
		t.Fatalf("Peaks() error = %v", err)
	}
	if len(peaks) != 10 {
		t.Fatalf("got %d buckets, want 10", len(peaks))
	}

	// First half silent, second half loud.
	for i := 0; i < 4; i++ {
		if peaks[i] != 0 {
			t.Errorf("bucket %d = %f, want 0 (silence)", i, peaks[i])
		}
	}
	for i := 6; i < 10; i++ {
		if math.Abs(peaks[i]-1) > 0.01 {
			t.Errorf("bucket %d = %f, want ~1 (full scale)", i, peaks[i])
		}
	}
}

func TestPeaks_SilentFileStaysZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "silent.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	enc := wav.NewEncoder(f, 8000, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: 8000},
		Data:           make([]int, 4000),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	peaks, err := Peaks(path, 5)
	if err != nil {
		t.Fatalf("Peaks() error = %v", err)
	}
	for i, p := range peaks {
		if p != 0 {
			t.Errorf("bucket %d = %f, want 0", i, p)
		}
	}
}

func TestPeaks_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		buckets int
	}{
		{name: "zero buckets", path: "x.wav", buckets: 0},
		{name: "missing file", path: filepath.Join(t.TempDir(), "missing.wav"), buckets: 10},
		{name: "unsupported format", path: filepath.Join(t.TempDir(), "notes.txt"), buckets: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.name == "unsupported format" {
				if err := os.WriteFile(tt.path, []byte("not audio"), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			if _, err := Peaks(tt.path, tt.buckets); err == nil {
				t.Error("Peaks() expected error, got nil")
			}
		})
	}
}

func TestPeakAccumulator_OverflowFramesFoldIntoLastBucket(t *testing.T) {
	// 7 frames into 3 buckets: perBucket=2, the 7th frame lands in bucket 2.
	acc := newPeakAccumulator(3, 7)
	amplitudes := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.9}
	for _, a := range amplitudes {
		acc.add(a)
	}
	peaks := acc.normalized()
	if math.Abs(peaks[2]-1) > 1e-9 {
		t.Errorf("last bucket = %f, want 1 (holds the loudest overflow frame)", peaks[2])
	}
}
