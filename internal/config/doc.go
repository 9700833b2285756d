// Package config provides configuration management for standup.
//
// This package handles:
//   - Loading and saving settings from TOML files
//   - Default configuration values
//   - Validation of values that cannot work
//   - Conversion to model.PathConfig and playback timing options
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Library under ~/Meetings/{year}/{meeting}
//	// Four concurrent downloads
//	// One second playback ready timeout
//
// # Loading from File
//
//	settings, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    // Defaults are returned when the file doesn't exist.
//	}
//
// # Saving Settings
//
//	settings.WorkspaceURL = "https://workspace.example.com"
//	err := settings.Save(config.DefaultPath())
//
// # Configuration Options
//
// Settings includes options for:
//   - Library location and recording file naming
//   - Workspace URL and access token
//   - Concurrent download limits and retry behavior
//   - AI API endpoint, model names, and outcome prompts
//   - Playback timing (ready timeout, report interval, position throttle)
//   - Export tagging and waveform rendering
package config
