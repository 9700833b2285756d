package audio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
)

// Peaks extracts a normalized amplitude envelope from an audio file.
//
// The file is divided into buckets equal-sized spans and the peak absolute
// amplitude of each span is returned, scaled so the loudest bucket is 1.
// The result is the raw material for waveform rendering.
//
// WAV files are read directly; compressed formats are decoded through the
// playback decoders.
//
// Example:
//
//	peaks, err := audio.Peaks(rec.Path, 600)
//	if err != nil {
//	    return err
//	}
//	img := imageio.RenderWaveform(peaks, 600, 120)
func Peaks(path string, buckets int) ([]float64, error) {
	if buckets <= 0 {
		return nil, fmt.Errorf("bucket count must be positive, got %d", buckets)
	}

	if strings.ToLower(filepath.Ext(path)) == ".wav" {
		return wavPeaks(path, buckets)
	}
	return streamPeaks(path, buckets)
}

// wavPeaks reads PCM frames straight from a WAV file.
func wavPeaks(path string, buckets int) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("not a valid WAV file: %s", filepath.Base(path))
	}

	dur, err := dec.Duration()
	if err != nil {
		return nil, fmt.Errorf("read WAV duration: %w", err)
	}
	totalFrames := int(dur.Seconds() * float64(dec.SampleRate))
	if totalFrames <= 0 {
		return nil, fmt.Errorf("empty WAV file: %s", filepath.Base(path))
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read WAV samples: %w", err)
	}

	floats := buf.AsFloatBuffer().Data
	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}

	// Integer PCM decodes to full-range values; scale to [-1, 1].
	scale := 1.0
	if bits := buf.SourceBitDepth; bits > 0 && bits <= 32 {
		scale = 1.0 / float64(int64(1)<<(bits-1))
	}

	frames := len(floats) / channels
	acc := newPeakAccumulator(buckets, frames)
	for i := 0; i < frames; i++ {
		peak := 0.0
		for c := 0; c < channels; c++ {
			if v := math.Abs(floats[i*channels+c] * scale); v > peak {
				peak = v
			}
		}
		acc.add(peak)
	}
	return acc.normalized(), nil
}

// streamPeaks decodes a compressed file and samples its stream.
func streamPeaks(path string, buckets int) ([]float64, error) {
	streamer, _, err := decode(path)
	if err != nil {
		return nil, err
	}
	defer streamer.Close()

	frames := streamer.Len()
	if frames <= 0 {
		return nil, fmt.Errorf("empty audio file: %s", filepath.Base(path))
	}

	acc := newPeakAccumulator(buckets, frames)
	buf := make([][2]float64, 2048)
	for {
		n, ok := streamer.Stream(buf)
		for i := 0; i < n; i++ {
			acc.add(math.Max(math.Abs(buf[i][0]), math.Abs(buf[i][1])))
		}
		if !ok {
			break
		}
	}
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("stream %s: %w", filepath.Base(path), err)
	}
	return acc.normalized(), nil
}

// peakAccumulator folds a stream of per-frame amplitudes into fixed buckets.
type peakAccumulator struct {
	peaks     []float64
	perBucket int
	frame     int
}

func newPeakAccumulator(buckets, totalFrames int) *peakAccumulator {
	perBucket := totalFrames / buckets
	if perBucket < 1 {
		perBucket = 1
	}
	return &peakAccumulator{
		peaks:     make([]float64, buckets),
		perBucket: perBucket,
	}
}

func (a *peakAccumulator) add(amplitude float64) {
	bucket := a.frame / a.perBucket
	if bucket >= len(a.peaks) {
		bucket = len(a.peaks) - 1
	}
	if amplitude > a.peaks[bucket] {
		a.peaks[bucket] = amplitude
	}
	a.frame++
}

// normalized scales the peaks so the loudest bucket is 1. A silent file
// returns all zeros.
func (a *peakAccumulator) normalized() []float64 {
	max := 0.0
	for _, p := range a.peaks {
		if p > max {
			max = p
		}
	}
	if max == 0 {
		return a.peaks
	}
	for i := range a.peaks {
		a.peaks[i] /= max
	}
	return a.peaks
}
