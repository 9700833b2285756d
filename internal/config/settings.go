package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/xrehpicx/standup/internal/ai"
	"github.com/xrehpicx/standup/internal/model"
)

// Settings holds all configuration options.
type Settings struct {
	// Library settings
	LibraryPath             string `toml:"library_path"`
	DatabasePath            string `toml:"database_path"`
	RecordingFileNameFormat string `toml:"recording_file_name_format"`

	// Workspace (remote storage) settings
	WorkspaceURL   string `toml:"workspace_url"`
	WorkspaceToken string `toml:"workspace_token"`

	// Sync settings
	MaxConcurrentDownloads    int     `toml:"max_concurrent_downloads"`
	DownloadMaxRetries        int     `toml:"download_max_retries"`
	DownloadRetryCooldown     float64 `toml:"download_retry_cooldown"`
	DownloadRetryExponent     float64 `toml:"download_retry_exponent"`
	AllowedFileSizeDifference float64 `toml:"allowed_file_size_difference"`

	// AI settings
	AIBaseURL         string `toml:"ai_base_url"`
	AIAPIKey          string `toml:"ai_api_key"`
	AIModel           string `toml:"ai_model"`
	TranscribeBaseURL string `toml:"transcribe_base_url"`
	TranscribeAPIKey  string `toml:"transcribe_api_key"`
	TranscribeModel   string `toml:"transcribe_model"`
	SummaryPrompt     string `toml:"summary_prompt"`
	ActionItemsPrompt string `toml:"action_items_prompt"`

	// Playback settings, all in milliseconds
	ReadyTimeoutMs     int `toml:"ready_timeout_ms"`
	ReportIntervalMs   int `toml:"report_interval_ms"`
	PositionThrottleMs int `toml:"position_throttle_ms"`

	// Export settings
	ExportTags      bool `toml:"export_tags"`
	WaveformWidth   int  `toml:"waveform_width"`
	WaveformHeight  int  `toml:"waveform_height"`
	WaveformEnabled bool `toml:"waveform_enabled"`
}

// DefaultSummaryPrompt is the system prompt used for summaries when none is
// configured.
const DefaultSummaryPrompt = `You are a meeting summarizer. Given a meeting transcript, produce a clear and concise summary in markdown with these sections:

## Summary
A brief 2-3 sentence overview of what the meeting was about.

## Key Decisions
Bullet points of any decisions that were made.

## Discussion Highlights
Brief notes on the main topics discussed.

If a section has no content, omit it. Be concise but don't miss important details.`

// DefaultActionItemsPrompt is the system prompt used for action items when
// none is configured.
const DefaultActionItemsPrompt = `You are a meeting assistant. Given a meeting transcript, extract every task or follow-up assigned during the meeting as a markdown checklist. Name the responsible person when identifiable and include deadlines when mentioned. Output only the checklist.`

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		LibraryPath:             filepath.Join(homeDir, "Meetings", "{year}", "{meeting}"),
		DatabasePath:            filepath.Join(homeDir, "Meetings", "standup.db"),
		RecordingFileNameFormat: "{index} {recording}",

		MaxConcurrentDownloads:    4,
		DownloadMaxRetries:        7,
		DownloadRetryCooldown:     0.2,
		DownloadRetryExponent:     4.0,
		AllowedFileSizeDifference: 0.05,

		AIBaseURL:         "https://api.anthropic.com",
		AIModel:           "claude-haiku-4-5",
		TranscribeBaseURL: "https://api.mistral.ai",
		TranscribeModel:   "voxtral-mini-latest",
		SummaryPrompt:     DefaultSummaryPrompt,
		ActionItemsPrompt: DefaultActionItemsPrompt,

		ReadyTimeoutMs:     1000,
		ReportIntervalMs:   50,
		PositionThrottleMs: 250,

		ExportTags:      true,
		WaveformEnabled: true,
		WaveformWidth:   600,
		WaveformHeight:  120,
	}
}

// Load reads settings from a TOML file. A missing file yields defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := toml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Save writes settings to a TOML file, creating parent directories.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate reports configuration values that cannot work.
func (s *Settings) Validate() error {
	if s.LibraryPath == "" {
		return fmt.Errorf("library_path must not be empty")
	}
	if s.MaxConcurrentDownloads < 1 {
		return fmt.Errorf("max_concurrent_downloads must be at least 1, got %d", s.MaxConcurrentDownloads)
	}
	if s.DownloadMaxRetries < 0 {
		return fmt.Errorf("download_max_retries must not be negative, got %d", s.DownloadMaxRetries)
	}
	if s.ReadyTimeoutMs < 0 || s.ReportIntervalMs < 0 || s.PositionThrottleMs < 0 {
		return fmt.Errorf("playback timings must not be negative")
	}
	return nil
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "standup", "config.toml")
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".standup.toml")
}

// ToPathConfig converts settings to a model.PathConfig.
func (s *Settings) ToPathConfig() *model.PathConfig {
	return &model.PathConfig{
		LibraryPath:             s.LibraryPath,
		RecordingFileNameFormat: s.RecordingFileNameFormat,
	}
}

// ReadyTimeout returns the configured source-swap ready timeout.
func (s *Settings) ReadyTimeout() time.Duration {
	return time.Duration(s.ReadyTimeoutMs) * time.Millisecond
}

// ReportInterval returns the configured position sampling period.
func (s *Settings) ReportInterval() time.Duration {
	return time.Duration(s.ReportIntervalMs) * time.Millisecond
}

// PositionThrottle returns the configured fallback position throttle.
func (s *Settings) PositionThrottle() time.Duration {
	return time.Duration(s.PositionThrottleMs) * time.Millisecond
}

// AIConfig assembles the AI client configuration from settings.
func (s *Settings) AIConfig() ai.Config {
	return ai.Config{
		BaseURL:           s.AIBaseURL,
		APIKey:            s.AIAPIKey,
		Model:             s.AIModel,
		TranscribeBaseURL: s.TranscribeBaseURL,
		TranscribeAPIKey:  s.TranscribeAPIKey,
		TranscribeModel:   s.TranscribeModel,
	}
}
