package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Recording represents one audio recording of a meeting.
//
// Recording carries:
//   - Title and Index for naming within the meeting
//   - Duration for the player surfaces
//   - SourceURL pointing at the workspace object storage
//   - A computed local file path used as the playback source identifier
type Recording struct {
	// Meeting is a reference to the parent meeting.
	Meeting *Meeting

	// ID uniquely identifies the recording.
	ID uuid.UUID

	// Index is the recording's position within the meeting (1-indexed).
	Index int

	// Title is the recording title, e.g. "Full session" or a segment name.
	Title string

	// Duration is the recorded length in seconds, as reported by the
	// workspace. Zero when unknown; playback metadata takes precedence.
	Duration float64

	// SourceURL is the object-storage URL the audio bytes are fetched from.
	SourceURL string

	// SizeBytes is the object size reported by the workspace, used to
	// verify completed downloads. Zero when unknown.
	SizeBytes int64

	// Path is the computed local file path for the downloaded audio.
	// This doubles as the playback source identifier.
	Path string
}

// NewRecording creates a Recording with a computed local path.
//
// The filename format supports the placeholders:
//   - {index} - Recording index (2 digits, zero-padded)
//   - {recording} - Recording title
//   - {meeting} - Meeting title
//   - {year}, {month}, {day} - Meeting start date components
//
// The extension is taken from the source URL, defaulting to ".mp3" when the
// URL carries none.
func NewRecording(meeting *Meeting, index int, title string, duration float64, sourceURL string, cfg *PathConfig) *Recording {
	r := &Recording{
		Meeting:   meeting,
		ID:        uuid.New(),
		Index:     index,
		Title:     title,
		Duration:  duration,
		SourceURL: sourceURL,
	}
	r.Path = r.parseFilePath(cfg)
	return r
}

// DurationTime returns the reported duration as a time.Duration.
func (r *Recording) DurationTime() time.Duration {
	return time.Duration(r.Duration * float64(time.Second))
}

// parseFilePath computes the full local file path for this recording.
func (r *Recording) parseFilePath(cfg *PathConfig) string {
	fileName := r.parseFileName(cfg)
	ext := sourceExtension(r.SourceURL)
	filePath := filepath.Join(r.Meeting.Dir, fileName+ext)

	// Limit total path length for Windows compatibility (MAX_PATH = 260)
	if len(filePath) >= 260 {
		maxLen := 11 - len(ext)
		if maxLen > 0 && maxLen < len(fileName) {
			filePath = filepath.Join(r.Meeting.Dir, fileName[:maxLen]+ext)
		}
	}

	return filePath
}

// parseFileName computes the filename from the config template.
func (r *Recording) parseFileName(cfg *PathConfig) string {
	fileName := cfg.RecordingFileNameFormat
	fileName = strings.ReplaceAll(fileName, "{year}", r.Meeting.StartedAt.Format("2006"))
	fileName = strings.ReplaceAll(fileName, "{month}", r.Meeting.StartedAt.Format("01"))
	fileName = strings.ReplaceAll(fileName, "{day}", r.Meeting.StartedAt.Format("02"))
	fileName = strings.ReplaceAll(fileName, "{meeting}", r.Meeting.Title)
	fileName = strings.ReplaceAll(fileName, "{recording}", r.Title)
	fileName = strings.ReplaceAll(fileName, "{index}", fmt.Sprintf("%02d", r.Index))
	return sanitizeFileName(fileName)
}

// sourceExtension extracts the audio file extension from a source URL,
// stripping any query string. Unknown or missing extensions default to mp3.
func sourceExtension(sourceURL string) string {
	trimmed := sourceURL
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	ext := strings.ToLower(filepath.Ext(trimmed))
	switch ext {
	case ".mp3", ".wav", ".flac", ".ogg":
		return ext
	default:
		return ".mp3"
	}
}
