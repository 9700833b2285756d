package model

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Meeting represents a meeting with its participants and recordings.
//
// Meeting carries everything needed to organize meeting artifacts locally:
//   - Title and StartedAt for naming and date-based organization
//   - Participants for attribution in exports and outcomes
//   - Recordings for playback and sync
//   - A computed library directory where artifacts are stored
//
// The directory is computed when creating a meeting via NewMeeting, using
// placeholders like {meeting}, {year}, {month}, {day}.
//
// Example:
//
//	cfg := &PathConfig{
//	    LibraryPath: "/meetings/{year}-{month}-{day} {meeting}",
//	    RecordingFileNameFormat: "{index} {recording}",
//	}
//	m := NewMeeting("Weekly Standup", startedAt, cfg)
//	// m.Dir = "/meetings/2026-08-24 Weekly Standup"
type Meeting struct {
	// ID uniquely identifies the meeting across the workspace.
	ID uuid.UUID

	// Title is the meeting title.
	Title string

	// StartedAt is when the meeting started.
	StartedAt time.Time

	// Participants are the workspace members invited to the meeting.
	Participants []*Participant

	// Recordings are the audio recordings captured for this meeting.
	Recordings []*Recording

	// Outcomes are the AI-derived artifacts generated from the meeting.
	Outcomes []*Outcome

	// Dir is the computed local directory where meeting files are stored.
	// Set by NewMeeting from PathConfig.LibraryPath.
	Dir string
}

// NewMeeting creates a Meeting with a fresh ID and a computed directory.
//
// The pathConfig determines how the directory is constructed:
//   - {meeting} - Meeting title
//   - {year} - Start year (4 digits)
//   - {month} - Start month (2 digits, zero-padded)
//   - {day} - Start day (2 digits, zero-padded)
//
// Invalid filename characters are replaced with underscores, and paths are
// truncated to stay inside Windows path length limits.
func NewMeeting(title string, startedAt time.Time, cfg *PathConfig) *Meeting {
	m := &Meeting{
		ID:        uuid.New(),
		Title:     title,
		StartedAt: startedAt,
	}
	m.Dir = m.parseDir(cfg)
	return m
}

// ParticipantNames returns the display names of all participants, in order.
func (m *Meeting) ParticipantNames() []string {
	names := make([]string, 0, len(m.Participants))
	for _, p := range m.Participants {
		names = append(names, p.Name)
	}
	return names
}

// Outcome returns the newest outcome of the given kind, or nil.
func (m *Meeting) Outcome(kind OutcomeKind) *Outcome {
	var newest *Outcome
	for _, o := range m.Outcomes {
		if o.Kind != kind {
			continue
		}
		if newest == nil || o.CreatedAt.After(newest.CreatedAt) {
			newest = o
		}
	}
	return newest
}

// Participant is a workspace member attached to a meeting.
type Participant struct {
	// ID uniquely identifies the participant in the workspace.
	ID uuid.UUID

	// Name is the participant's display name.
	Name string

	// Email is the participant's workspace email address.
	Email string
}

// PathConfig holds path formatting settings for meetings and recordings.
//
// All path fields support placeholders replaced with actual values:
//   - {meeting} - Meeting title
//   - {year}, {month}, {day} - Meeting start date components
//
// Example:
//
//	cfg := &PathConfig{
//	    LibraryPath:             "/home/user/Meetings/{year}/{meeting}",
//	    RecordingFileNameFormat: "{index} {recording}",
//	}
type PathConfig struct {
	// LibraryPath is the base directory template for meeting folders.
	// Example: "/meetings/{year}/{meeting}"
	LibraryPath string

	// RecordingFileNameFormat is the filename template for recordings
	// (without extension). Example: "{index} {recording}"
	RecordingFileNameFormat string
}

// parseDir computes the meeting directory from the config template.
func (m *Meeting) parseDir(cfg *PathConfig) string {
	path := cfg.LibraryPath
	path = strings.ReplaceAll(path, "{year}", sanitizeFileName(m.StartedAt.Format("2006")))
	path = strings.ReplaceAll(path, "{month}", sanitizeFileName(m.StartedAt.Format("01")))
	path = strings.ReplaceAll(path, "{day}", sanitizeFileName(m.StartedAt.Format("02")))
	path = strings.ReplaceAll(path, "{meeting}", sanitizeFileName(m.Title))

	// Limit path length for cross-platform compatibility (Windows MAX_PATH)
	if len(path) >= 248 {
		path = path[:247]
	}

	return path
}

// sanitizeFileName removes or replaces characters that are invalid in
// file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars) are replaced with underscore
//   - Trailing dots are removed (Windows limitation)
//   - Multiple whitespace is collapsed to single space
//   - Trailing whitespace is removed
//
// Example:
//
//	sanitizeFileName("Standup: 1/2") // Returns "Standup_ 1_2"
func sanitizeFileName(name string) string {
	// Replace invalid path/file characters
	invalidChars := regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	name = invalidChars.ReplaceAllString(name, "_")

	// Remove trailing dots
	name = regexp.MustCompile(`\.+$`).ReplaceAllString(name, "")

	// Replace multiple whitespace with single space
	name = regexp.MustCompile(`\s+`).ReplaceAllString(name, " ")

	// Remove trailing whitespace
	name = strings.TrimRight(name, " ")

	return name
}
