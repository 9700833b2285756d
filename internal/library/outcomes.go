package library

import (
	"context"
	"fmt"

	"github.com/xrehpicx/standup/internal/ai"
	"github.com/xrehpicx/standup/internal/config"
	"github.com/xrehpicx/standup/internal/model"
	"github.com/xrehpicx/standup/internal/store"
)

// OutcomeService turns downloaded recordings into AI outcomes and persists
// them.
//
// The generation chain is transcript first, then summary and action items
// from the transcript text. Each produced outcome is saved before the next
// step runs, so a failure partway through keeps the finished artifacts.
type OutcomeService struct {
	settings *config.Settings
	client   *ai.Client
	store    *store.Store
}

// NewOutcomeService creates an OutcomeService.
func NewOutcomeService(settings *config.Settings, client *ai.Client, st *store.Store) *OutcomeService {
	return &OutcomeService{
		settings: settings,
		client:   client,
		store:    st,
	}
}

// Transcript returns the meeting's transcript, generating and saving one
// from the first recording when none exists yet.
func (s *OutcomeService) Transcript(ctx context.Context, meeting *model.Meeting) (*model.Outcome, error) {
	if existing := meeting.Outcome(model.OutcomeTranscript); existing != nil {
		return existing, nil
	}

	if len(meeting.Recordings) == 0 {
		return nil, fmt.Errorf("meeting %q has no recordings to transcribe", meeting.Title)
	}

	rec := meeting.Recordings[0]
	result, err := s.client.Transcribe(ctx, rec.Path)
	if err != nil {
		return nil, fmt.Errorf("transcribe %s: %w", rec.Title, err)
	}

	outcome := model.NewOutcome(meeting.ID, model.OutcomeTranscript, ai.FormatTranscript(result), s.settings.TranscribeModel)
	if err := s.store.SaveOutcome(ctx, outcome); err != nil {
		return nil, fmt.Errorf("save transcript: %w", err)
	}
	meeting.Outcomes = append(meeting.Outcomes, outcome)
	return outcome, nil
}

// Generate produces the requested outcome kind for the meeting, creating
// the transcript first when needed, and saves the result.
//
// Requesting OutcomeTranscript is equivalent to Transcript. Generating a
// summary or action items always produces a fresh outcome; earlier ones
// are kept and the newest wins on read.
func (s *OutcomeService) Generate(ctx context.Context, meeting *model.Meeting, kind model.OutcomeKind) (*model.Outcome, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown outcome kind %q", kind)
	}

	transcript, err := s.Transcript(ctx, meeting)
	if err != nil {
		return nil, err
	}
	if kind == model.OutcomeTranscript {
		return transcript, nil
	}

	var content string
	switch kind {
	case model.OutcomeSummary:
		content, err = s.client.Summarize(ctx, s.settings.SummaryPrompt, transcript.Content)
	case model.OutcomeActionItems:
		content, err = s.client.ActionItems(ctx, s.settings.ActionItemsPrompt, transcript.Content)
	}
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", kind, err)
	}

	outcome := model.NewOutcome(meeting.ID, kind, content, s.settings.AIModel)
	if err := s.store.SaveOutcome(ctx, outcome); err != nil {
		return nil, fmt.Errorf("save %s: %w", kind, err)
	}
	meeting.Outcomes = append(meeting.Outcomes, outcome)
	return outcome, nil
}
