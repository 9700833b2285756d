// Package ai generates meeting outcomes from recordings.
//
// The Client in this package talks to two HTTP APIs:
//   - A messages-style completion API producing summaries and action items
//   - A multipart transcription API turning audio files into transcripts
//
// Prompts are injected by the caller (usually from configuration) so the
// shape of summaries and action items can be tuned without code changes.
//
// # Basic Usage
//
//	client := ai.NewClient(ai.Config{
//	    BaseURL:           "https://api.anthropic.com",
//	    APIKey:            key,
//	    Model:             "claude-haiku-4-5",
//	    TranscribeBaseURL: "https://api.mistral.ai",
//	    TranscribeModel:   "voxtral-mini-latest",
//	})
//
//	transcript, err := client.Transcribe(ctx, rec.Path)
//	summary, err := client.Summarize(ctx, summaryPrompt, transcript.Text)
package ai
