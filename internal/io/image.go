package ioutils

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"
)

// ImageService renders waveform images for exported recordings.
//
// The service turns a peak envelope (see internal/audio.Peaks) into a PNG
// bar chart, and can resize arbitrary images for thumbnail embedding.
//
// Example usage:
//
//	svc := NewImageService()
//
//	peaks, _ := audio.Peaks(rec.Path, 600)
//	pngBytes, _ := svc.RenderWaveform(peaks, 600, 120)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

var (
	waveformBackground = color.RGBA{R: 0x1a, G: 0x1b, B: 0x26, A: 0xff}
	waveformBar        = color.RGBA{R: 0x7a, G: 0xa2, B: 0xf7, A: 0xff}
	waveformMidline    = color.RGBA{R: 0x3b, G: 0x42, B: 0x61, A: 0xff}
)

// RenderWaveform draws a peak envelope as a PNG bar chart.
//
// Each peak in [0, 1] becomes a vertical bar mirrored around the horizontal
// midline. The chart is drawn at one pixel per peak and scaled to the
// requested dimensions, so any peak count works with any output width.
//
// Returns the image as PNG-encoded bytes.
//
// Example:
//
//	pngBytes, err := svc.RenderWaveform(peaks, 600, 120)
//	os.WriteFile(filepath.Join(meeting.Dir, "waveform.png"), pngBytes, 0644)
func (s *ImageService) RenderWaveform(peaks []float64, width, height int) ([]byte, error) {
	if len(peaks) == 0 {
		return nil, fmt.Errorf("no peaks to render")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid waveform dimensions %dx%d", width, height)
	}

	// Draw at one column per peak, then scale.
	src := image.NewRGBA(image.Rect(0, 0, len(peaks), height))
	for x := 0; x < len(peaks); x++ {
		for y := 0; y < height; y++ {
			src.SetRGBA(x, y, waveformBackground)
		}
	}

	mid := height / 2
	for x, peak := range peaks {
		if peak < 0 {
			peak = 0
		}
		if peak > 1 {
			peak = 1
		}
		half := int(peak * float64(mid))
		for y := mid - half; y <= mid+half; y++ {
			src.SetRGBA(x, y, waveformBar)
		}
		// Keep a visible midline through silent spans.
		src.SetRGBA(x, mid, waveformMidline)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ResizeImage resizes an image to fit within the specified maximum
// dimensions, preserving aspect ratio.
//
// Returns the resized image as PNG-encoded bytes. Images already inside the
// bounds are re-encoded unchanged in size.
//
// The Catmull-Rom algorithm is used for high-quality resizing.
//
// Example:
//
//	// A 1200x240 waveform becomes 600x120
//	thumb, err := svc.ResizeImage(waveformPNG, 600, 120)
func (s *ImageService) ResizeImage(data []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > maxWidth || height > maxHeight {
		ratio := float64(width) / float64(height)
		if float64(maxWidth)/float64(maxHeight) > ratio {
			width = int(float64(maxHeight) * ratio)
			height = maxHeight
		} else {
			height = int(float64(maxWidth) / ratio)
			width = maxWidth
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
