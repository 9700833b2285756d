package model

import (
	"time"

	"github.com/google/uuid"
)

// OutcomeKind classifies AI-derived meeting artifacts.
type OutcomeKind string

const (
	// OutcomeSummary is a prose summary of the meeting.
	OutcomeSummary OutcomeKind = "summary"

	// OutcomeActionItems is a list of tasks and follow-ups.
	OutcomeActionItems OutcomeKind = "action_items"

	// OutcomeTranscript is the diarized transcription of a recording.
	OutcomeTranscript OutcomeKind = "transcript"
)

// Valid reports whether k is a known outcome kind.
func (k OutcomeKind) Valid() bool {
	switch k {
	case OutcomeSummary, OutcomeActionItems, OutcomeTranscript:
		return true
	}
	return false
}

// Outcome is one AI-derived artifact generated from a meeting.
type Outcome struct {
	// ID uniquely identifies the outcome.
	ID uuid.UUID

	// MeetingID is the meeting this outcome belongs to.
	MeetingID uuid.UUID

	// Kind is the artifact type.
	Kind OutcomeKind

	// Content is the artifact body, markdown for summaries and action
	// items, plain text for transcripts.
	Content string

	// Model names the generative model that produced the content.
	Model string

	// CreatedAt is when the outcome was generated.
	CreatedAt time.Time
}

// NewOutcome creates an Outcome stamped with the current time.
func NewOutcome(meetingID uuid.UUID, kind OutcomeKind, content, model string) *Outcome {
	return &Outcome{
		ID:        uuid.New(),
		MeetingID: meetingID,
		Kind:      kind,
		Content:   content,
		Model:     model,
		CreatedAt: time.Now().UTC(),
	}
}
