package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// messagesAPIVersion is the version header required by the messages endpoint.
const messagesAPIVersion = "2023-06-01"

// maxOutcomeTokens caps the length of generated summaries and action items.
const maxOutcomeTokens = 4096

// Client calls the generative and transcription APIs used to produce
// meeting outcomes.
//
// Two endpoints are involved:
//   - A messages-style completion API for summaries and action items
//   - A multipart transcription API for audio files
//
// Example usage:
//
//	client := ai.NewClient(ai.Config{
//	    BaseURL: "https://api.anthropic.com",
//	    APIKey:  key,
//	    Model:   "claude-haiku-4-5",
//	})
//
//	summary, err := client.Generate(ctx, summaryPrompt, transcript)
type Client struct {
	httpClient *http.Client
	cfg        Config
}

// Config carries the endpoints, credentials and model names for a Client.
type Config struct {
	// BaseURL is the root of the messages-style completion API.
	BaseURL string

	// APIKey authenticates completion requests.
	APIKey string

	// Model is the completion model name.
	Model string

	// TranscribeBaseURL is the root of the transcription API.
	TranscribeBaseURL string

	// TranscribeAPIKey authenticates transcription requests. When empty,
	// APIKey is used for both endpoints.
	TranscribeAPIKey string

	// TranscribeModel is the transcription model name.
	TranscribeModel string
}

// NewClient creates a Client for the given endpoints.
//
// Completion and transcription calls can take minutes for long meetings,
// so the underlying HTTP client uses a 5 minute timeout. Use the context
// on each call for tighter cancellation.
func NewClient(cfg Config) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.TranscribeBaseURL = strings.TrimRight(cfg.TranscribeBaseURL, "/")
	if cfg.TranscribeAPIKey == "" {
		cfg.TranscribeAPIKey = cfg.APIKey
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
		cfg: cfg,
	}
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Generate produces text from the completion API.
//
// The systemPrompt steers the model, the userContent carries the material
// to work on (usually a transcript). The text blocks of the response are
// concatenated and returned.
//
// Returns an error if:
//   - No API key is configured
//   - The request fails or returns a non-200 status
//   - The response contains no text
func (c *Client) Generate(ctx context.Context, systemPrompt, userContent string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", fmt.Errorf("AI API key not set: add ai_api_key to the config file")
	}

	reqBody := messagesRequest{
		Model:     c.cfg.Model,
		MaxTokens: maxOutcomeTokens,
		System:    systemPrompt,
		Messages: []message{
			{Role: "user", Content: userContent},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/messages", bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", messagesAPIVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling completion API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion API error (HTTP %d): %s", resp.StatusCode, string(respBody))
	}

	var apiResp messagesResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("parsing completion response: %w", err)
	}

	var text string
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	if text == "" {
		return "", fmt.Errorf("empty response from completion API")
	}

	return text, nil
}

// Summarize generates a meeting summary from a transcript.
//
// The systemPrompt usually comes from configuration so users can tune the
// summary shape without code changes.
func (c *Client) Summarize(ctx context.Context, systemPrompt, transcript string) (string, error) {
	return c.Generate(ctx, systemPrompt, "Here is the meeting transcript to summarize:\n\n"+transcript)
}

// ActionItems extracts the action items from a transcript as a checklist.
func (c *Client) ActionItems(ctx context.Context, systemPrompt, transcript string) (string, error) {
	return c.Generate(ctx, systemPrompt, "Here is the meeting transcript to extract action items from:\n\n"+transcript)
}

// TranscriptSegment is a diarized segment of a transcript.
type TranscriptSegment struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// TranscriptResult holds a full transcription.
type TranscriptResult struct {
	Text     string              `json:"text"`
	Segments []TranscriptSegment `json:"segments"`
}

type transcriptionResponse struct {
	Text     string `json:"text"`
	Segments []struct {
		Speaker string `json:"speaker"`
		Text    string `json:"text"`
	} `json:"segments"`
}

// Transcribe sends an audio file to the transcription API.
//
// The audio is uploaded as multipart form data with diarization enabled,
// so the result separates speakers when the API supports it.
//
// Returns an error if:
//   - No API key is configured
//   - The audio file cannot be read
//   - The request fails or returns a non-200 status
func (c *Client) Transcribe(ctx context.Context, audioPath string) (*TranscriptResult, error) {
	if c.cfg.TranscribeAPIKey == "" {
		return nil, fmt.Errorf("transcription API key not set: add transcribe_api_key or ai_api_key to the config file")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("model", c.cfg.TranscribeModel); err != nil {
		return nil, err
	}
	if err := writer.WriteField("diarize", "true"); err != nil {
		return nil, err
	}

	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("opening audio file: %w", err)
	}
	defer file.Close()

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, err
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TranscribeBaseURL+"/v1/audio/transcriptions", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.cfg.TranscribeAPIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling transcription API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("transcription API error (HTTP %d): %s", resp.StatusCode, string(respBody))
	}

	var apiResp transcriptionResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("parsing transcription response: %w", err)
	}

	result := &TranscriptResult{Text: apiResp.Text}
	for _, seg := range apiResp.Segments {
		result.Segments = append(result.Segments, TranscriptSegment{
			Speaker: seg.Speaker,
			Text:    seg.Text,
		})
	}

	return result, nil
}

// FormatTranscript renders a transcript as markdown.
//
// Diarized segments are rendered as "**Speaker:** text" lines; transcripts
// without segments fall back to the raw text.
func FormatTranscript(result *TranscriptResult) string {
	var b strings.Builder
	b.WriteString("# Transcript\n\n")

	if len(result.Segments) == 0 {
		b.WriteString(result.Text)
		b.WriteString("\n")
		return b.String()
	}

	for _, seg := range result.Segments {
		speaker := seg.Speaker
		if speaker == "" {
			speaker = "Unknown"
		}
		fmt.Fprintf(&b, "**%s:** %s\n\n", speaker, strings.TrimSpace(seg.Text))
	}
	return b.String()
}
