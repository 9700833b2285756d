// Package ioutils provides file system and image utilities.
//
// This package contains functions for:
//   - File writing and directory creation
//   - File size checks for download verification
//   - Waveform rendering and image resizing
//
// # File Operations
//
//	err := ioutils.WriteFile(path, []byte("content"))
//	err := ioutils.EnsureDir(meeting.Dir)
//	size, err := ioutils.FileSize(rec.Path)
//
// # Waveform Rendering
//
// The ImageService turns peak envelopes into PNG charts:
//
//	svc := ioutils.NewImageService()
//	pngBytes, _ := svc.RenderWaveform(peaks, 600, 120)
//	thumb, _ := svc.ResizeImage(pngBytes, 300, 60)
package ioutils
