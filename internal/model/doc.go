// Package model defines the core data structures used throughout standup.
//
// # Meeting
//
// Meeting represents a meeting with participants, recordings, outcomes, and
// a computed library directory:
//
//	m := model.NewMeeting("Weekly Standup", startedAt, pathConfig)
//	fmt.Println(m.Dir) // where meeting artifacts are stored
//
// # Recording
//
// Recording represents one audio recording within a meeting. Its computed
// local path doubles as the playback source identifier:
//
//	rec := model.NewRecording(m, 1, "Full session", 1800, sourceURL, pathConfig)
//	fmt.Println(rec.Path) // local audio file path
//
// # Outcome
//
// Outcome is an AI-derived artifact: a summary, action items, or a
// transcript, tagged with the model that produced it.
//
// # Path configuration
//
// PathConfig controls how meeting directories and recording filenames are
// computed using placeholders:
//
//	cfg := &model.PathConfig{
//	    LibraryPath:             "/meetings/{year}/{meeting}",
//	    RecordingFileNameFormat: "{index} {recording}",
//	}
//
// Available placeholders: {meeting}, {recording}, {index}, {year}, {month}, {day}
package model
