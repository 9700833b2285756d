package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/xrehpicx/standup/internal/model"
)

// MeetingsPath is the workspace API path serving the meetings manifest.
const MeetingsPath = "/api/meetings"

// manifestTime handles the timestamp formats workspace exports use.
type manifestTime struct {
	time.Time
}

// UnmarshalJSON parses RFC 3339 timestamps plus the space-separated variant
// older workspace exports emit ("2026-08-24 09:30:00").
func (mt *manifestTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	if s == "" {
		mt.Time = time.Time{}
		return nil
	}

	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			mt.Time = t
			return nil
		}
	}

	return fmt.Errorf("unable to parse timestamp: %s", s)
}

// jsonManifest is the top-level manifest document served by the workspace.
type jsonManifest struct {
	Meetings []jsonMeeting `json:"meetings"`
}

// jsonMeeting is one meeting entry in the manifest.
type jsonMeeting struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	StartedAt    *manifestTime     `json:"started_at"`
	Participants []jsonParticipant `json:"participants"`
	Recordings   []jsonRecording   `json:"recordings"`
}

type jsonParticipant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type jsonRecording struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Duration float64 `json:"duration_seconds"`
	URL      string  `json:"url"`
	Size     int64   `json:"size_bytes"`
}

// ParseManifest deserializes a workspace meetings manifest into Meetings.
//
// The manifest is the JSON document served at MeetingsPath:
//
//	{
//	  "meetings": [
//	    {
//	      "id": "…",
//	      "title": "Weekly Standup",
//	      "started_at": "2026-08-24T09:30:00Z",
//	      "participants": [{"id": "…", "name": "…", "email": "…"}],
//	      "recordings": [
//	        {"id": "…", "title": "Full session", "duration_seconds": 1820,
//	         "url": "/objects/…/audio.mp3", "size_bytes": 29120000}
//	      ]
//	    }
//	  ]
//	}
//
// The pathConfig determines where each meeting's files land locally; local
// paths are computed here so the rest of the app never recomputes them.
//
// Returns an error if:
//   - The JSON is malformed
//   - A meeting entry is missing a title
//   - An ID is present but not a valid UUID
func ParseManifest(data []byte, cfg *model.PathConfig) ([]*model.Meeting, error) {
	var manifest jsonManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse meetings manifest: %w", err)
	}

	meetings := make([]*model.Meeting, 0, len(manifest.Meetings))
	for _, jm := range manifest.Meetings {
		meeting, err := jm.toMeeting(cfg)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, meeting)
	}

	return meetings, nil
}

// toMeeting converts a manifest entry into a Meeting with computed paths.
func (jm jsonMeeting) toMeeting(cfg *model.PathConfig) (*model.Meeting, error) {
	if jm.Title == "" {
		return nil, fmt.Errorf("manifest meeting %q has no title", jm.ID)
	}

	var startedAt time.Time
	if jm.StartedAt != nil {
		startedAt = jm.StartedAt.Time
	}

	meeting := model.NewMeeting(jm.Title, startedAt, cfg)
	if err := assignID(&meeting.ID, jm.ID); err != nil {
		return nil, fmt.Errorf("meeting %q: %w", jm.Title, err)
	}

	for _, jp := range jm.Participants {
		participant := &model.Participant{
			Name:  jp.Name,
			Email: jp.Email,
		}
		if err := assignID(&participant.ID, jp.ID); err != nil {
			return nil, fmt.Errorf("meeting %q participant %q: %w", jm.Title, jp.Name, err)
		}
		meeting.Participants = append(meeting.Participants, participant)
	}

	for i, jr := range jm.Recordings {
		rec := model.NewRecording(meeting, i+1, jr.Title, jr.Duration, jr.URL, cfg)
		rec.SizeBytes = jr.Size
		if err := assignID(&rec.ID, jr.ID); err != nil {
			return nil, fmt.Errorf("meeting %q recording %q: %w", jm.Title, jr.Title, err)
		}
		meeting.Recordings = append(meeting.Recordings, rec)
	}

	return meeting, nil
}

// assignID overwrites dst with the manifest ID when one is present.
// Entries without an ID keep the locally generated one.
func assignID(dst *uuid.UUID, raw string) error {
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", raw, err)
	}
	*dst = id
	return nil
}

// FetchMeetings downloads and parses the workspace meetings manifest.
//
// This is the usual entry point for sync: it combines Get on MeetingsPath
// with ParseManifest.
//
// Example:
//
//	meetings, err := client.FetchMeetings(ctx, cfg.ToPathConfig())
//	if err != nil {
//	    return fmt.Errorf("failed to list meetings: %w", err)
//	}
func (c *Client) FetchMeetings(ctx context.Context, cfg *model.PathConfig) ([]*model.Meeting, error) {
	data, err := c.Get(ctx, MeetingsPath)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve meetings manifest: %w", err)
	}
	return ParseManifest(data, cfg)
}
