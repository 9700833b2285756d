package library

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/xrehpicx/standup/internal/ai"
	"github.com/xrehpicx/standup/internal/model"
	"github.com/xrehpicx/standup/internal/store"
)

// newAIServer serves both the transcription and messages endpoints.
func newAIServer(t *testing.T, transcribeCalls, generateCalls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/audio/transcriptions":
			atomic.AddInt32(transcribeCalls, 1)
			w.Write([]byte(`{"text": "we talked about the release", "segments": []}`))
		case "/v1/messages":
			atomic.AddInt32(generateCalls, 1)
			w.Write([]byte(`{"content": [{"type": "text", "text": "generated outcome"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func outcomeFixture(t *testing.T) (*OutcomeService, *model.Meeting, *int32, *int32) {
	t.Helper()
	var transcribeCalls, generateCalls int32
	server := newAIServer(t, &transcribeCalls, &generateCalls)
	t.Cleanup(server.Close)

	settings := testSettings(t)
	settings.AIAPIKey = "key"

	st, err := store.Open(settings.DatabasePath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	cfg := settings.ToPathConfig()
	m := model.NewMeeting("Weekly Standup", time.Date(2026, 8, 24, 9, 30, 0, 0, time.UTC), cfg)
	rec := model.NewRecording(m, 1, "Full session", 10, "/objects/a.mp3", cfg)
	m.Recordings = []*model.Recording{rec}
	if err := os.MkdirAll(m.Dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(rec.Path, []byte("fake audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := st.UpsertMeeting(context.Background(), m); err != nil {
		t.Fatal(err)
	}

	client := ai.NewClient(ai.Config{
		BaseURL:           server.URL,
		APIKey:            settings.AIAPIKey,
		Model:             settings.AIModel,
		TranscribeBaseURL: server.URL,
		TranscribeModel:   settings.TranscribeModel,
	})
	return NewOutcomeService(settings, client, st), m, &transcribeCalls, &generateCalls
}

func TestOutcomeService_TranscriptGeneratedOnce(t *testing.T) {
	svc, m, transcribeCalls, _ := outcomeFixture(t)
	ctx := context.Background()

	first, err := svc.Transcript(ctx, m)
	if err != nil {
		t.Fatalf("Transcript() error = %v", err)
	}
	if !strings.Contains(first.Content, "we talked about the release") {
		t.Errorf("transcript content = %q", first.Content)
	}
	if first.Model != "voxtral-mini-latest" {
		t.Errorf("transcript model = %q", first.Model)
	}

	second, err := svc.Transcript(ctx, m)
	if err != nil {
		t.Fatalf("second Transcript() error = %v", err)
	}
	if second != first {
		t.Error("second Transcript() should reuse the existing outcome")
	}
	if atomic.LoadInt32(transcribeCalls) != 1 {
		t.Errorf("transcription API called %d times, want 1", *transcribeCalls)
	}
}

func TestOutcomeService_GenerateSummaryTranscribesFirst(t *testing.T) {
	svc, m, transcribeCalls, generateCalls := outcomeFixture(t)
	ctx := context.Background()

	summary, err := svc.Generate(ctx, m, model.OutcomeSummary)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if summary.Kind != model.OutcomeSummary || summary.Content != "generated outcome" {
		t.Errorf("summary = %+v", summary)
	}
	if summary.Model != "claude-haiku-4-5" {
		t.Errorf("summary model = %q", summary.Model)
	}
	if atomic.LoadInt32(transcribeCalls) != 1 {
		t.Errorf("transcription API called %d times, want 1", *transcribeCalls)
	}
	if atomic.LoadInt32(generateCalls) != 1 {
		t.Errorf("messages API called %d times, want 1", *generateCalls)
	}

	// Both outcomes persisted.
	stored, err := svc.store.ListOutcomes(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 2 {
		t.Errorf("store has %d outcomes, want transcript + summary", len(stored))
	}
}

func TestOutcomeService_GenerateTranscriptKind(t *testing.T) {
	svc, m, _, generateCalls := outcomeFixture(t)

	outcome, err := svc.Generate(context.Background(), m, model.OutcomeTranscript)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if outcome.Kind != model.OutcomeTranscript {
		t.Errorf("kind = %q", outcome.Kind)
	}
	if atomic.LoadInt32(generateCalls) != 0 {
		t.Error("transcript generation must not call the messages API")
	}
}

func TestOutcomeService_GenerateRejectsUnknownKind(t *testing.T) {
	svc, m, _, _ := outcomeFixture(t)
	if _, err := svc.Generate(context.Background(), m, model.OutcomeKind("poem")); err == nil {
		t.Error("Generate() expected error for unknown kind")
	}
}

func TestOutcomeService_TranscriptWithoutRecordings(t *testing.T) {
	svc, m, _, _ := outcomeFixture(t)
	m.Recordings = nil
	if _, err := svc.Transcript(context.Background(), m); err == nil {
		t.Error("Transcript() expected error for meeting without recordings")
	}
}
