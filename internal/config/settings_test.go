package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.LibraryPath == "" {
		t.Error("LibraryPath should have a default")
	}
	if s.MaxConcurrentDownloads < 1 {
		t.Errorf("MaxConcurrentDownloads = %d, want at least 1", s.MaxConcurrentDownloads)
	}
	if s.ReadyTimeout() != time.Second {
		t.Errorf("ReadyTimeout() = %v, want 1s", s.ReadyTimeout())
	}
	if s.PositionThrottle() != 250*time.Millisecond {
		t.Errorf("PositionThrottle() = %v, want 250ms", s.PositionThrottle())
	}
	if err := s.Validate(); err != nil {
		t.Errorf("default settings should validate, got %v", err)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error for missing file: %v", err)
	}
	if s.MaxConcurrentDownloads != DefaultSettings().MaxConcurrentDownloads {
		t.Error("missing file should yield defaults")
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	s := DefaultSettings()
	s.WorkspaceURL = "https://workspace.example.com"
	s.WorkspaceToken = "secret"
	s.MaxConcurrentDownloads = 2
	s.ReadyTimeoutMs = 1500

	if err := s.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.WorkspaceURL != "https://workspace.example.com" {
		t.Errorf("WorkspaceURL = %q after round trip", loaded.WorkspaceURL)
	}
	if loaded.MaxConcurrentDownloads != 2 {
		t.Errorf("MaxConcurrentDownloads = %d, want 2", loaded.MaxConcurrentDownloads)
	}
	if loaded.ReadyTimeout() != 1500*time.Millisecond {
		t.Errorf("ReadyTimeout() = %v, want 1.5s", loaded.ReadyTimeout())
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "workspace_url = \"https://ws.example.com\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s.WorkspaceURL != "https://ws.example.com" {
		t.Errorf("WorkspaceURL = %q", s.WorkspaceURL)
	}
	if s.AIModel != DefaultSettings().AIModel {
		t.Error("unset fields should keep defaults")
	}
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "max_concurrent_downloads = 0\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() should reject max_concurrent_downloads = 0")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults valid", func(s *Settings) {}, false},
		{"empty library path", func(s *Settings) { s.LibraryPath = "" }, true},
		{"negative retries", func(s *Settings) { s.DownloadMaxRetries = -1 }, true},
		{"negative ready timeout", func(s *Settings) { s.ReadyTimeoutMs = -10 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
