package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xrehpicx/standup/internal/model"
)

func testPathConfig(t *testing.T) *model.PathConfig {
	t.Helper()
	return &model.PathConfig{
		LibraryPath:             filepath.Join(t.TempDir(), "{year}-{month}-{day} {meeting}"),
		RecordingFileNameFormat: "{index} {recording}",
	}
}

func TestClient_ResolveURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		ref     string
		want    string
		wantErr bool
	}{
		{
			name:    "relative path with leading slash",
			baseURL: "https://workspace.example.com",
			ref:     "/api/meetings",
			want:    "https://workspace.example.com/api/meetings",
		},
		{
			name:    "relative path without leading slash",
			baseURL: "https://workspace.example.com",
			ref:     "objects/audio.mp3",
			want:    "https://workspace.example.com/objects/audio.mp3",
		},
		{
			name:    "trailing slash on base trimmed",
			baseURL: "https://workspace.example.com/",
			ref:     "/api/meetings",
			want:    "https://workspace.example.com/api/meetings",
		},
		{
			name:    "absolute URL passes through",
			baseURL: "https://workspace.example.com",
			ref:     "https://cdn.example.com/audio.mp3",
			want:    "https://cdn.example.com/audio.mp3",
		},
		{
			name:    "relative path without base URL",
			baseURL: "",
			ref:     "/api/meetings",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(tt.baseURL, "")
			got, err := client.resolveURL(tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("resolveURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClient_Get_SendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("hello"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-token")
	body, err := client.Get(context.Background(), "/api/meetings")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if string(body) != "hello" {
		t.Errorf("Get() body = %q, want %q", string(body), "hello")
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization header = %q, want %q", gotAuth, "Bearer secret-token")
	}
}

func TestClient_Get_NoTokenOmitsHeader(t *testing.T) {
	var sawAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	if _, err := client.Get(context.Background(), "/"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if sawAuth {
		t.Error("Get() sent an Authorization header without a token")
	}
}

func TestClient_Get_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-token")
	_, err := client.Get(context.Background(), "/api/meetings")
	if err == nil {
		t.Fatal("Get() expected error for 403 response")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Errorf("Get() error = %v, want status code in message", err)
	}
}

func TestClient_GetFileSize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("expected HEAD request, got %s", r.Method)
		}
		w.Header().Set("Content-Length", "12345")
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	size, err := client.GetFileSize(context.Background(), "/objects/audio.mp3")
	if err != nil {
		t.Fatalf("GetFileSize() error = %v", err)
	}
	if size != 12345 {
		t.Errorf("GetFileSize() = %d, want 12345", size)
	}
}

func TestClient_DownloadFile(t *testing.T) {
	content := strings.Repeat("audio-bytes ", 100)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(content))
	}))
	defer server.Close()

	destPath := filepath.Join(t.TempDir(), "audio.mp3")

	var lastWritten, lastTotal int64
	client := NewClient(server.URL, "")
	err := client.DownloadFile(context.Background(), "/objects/audio.mp3", destPath, func(written, total int64) {
		lastWritten = written
		lastTotal = total
	})
	if err != nil {
		t.Fatalf("DownloadFile() error = %v", err)
	}

	data, err := os.ReadFile(destPath)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if string(data) != content {
		t.Error("DownloadFile() wrote different content than served")
	}
	if lastWritten != int64(len(content)) {
		t.Errorf("final progress written = %d, want %d", lastWritten, len(content))
	}
	if lastTotal != int64(len(content)) {
		t.Errorf("final progress total = %d, want %d", lastTotal, len(content))
	}
}

const sampleManifest = `{
	"meetings": [
		{
			"id": "7b1f8a44-9c3e-4c1d-8a53-2f0c9be1a001",
			"title": "Weekly Standup",
			"started_at": "2026-08-24T09:30:00Z",
			"participants": [
				{"id": "7b1f8a44-9c3e-4c1d-8a53-2f0c9be1a002", "name": "Dana", "email": "dana@example.com"},
				{"id": "7b1f8a44-9c3e-4c1d-8a53-2f0c9be1a003", "name": "Ravi", "email": "ravi@example.com"}
			],
			"recordings": [
				{"id": "7b1f8a44-9c3e-4c1d-8a53-2f0c9be1a004", "title": "Full session",
				 "duration_seconds": 1820.5, "url": "/objects/standup/audio.mp3", "size_bytes": 29120000}
			]
		},
		{
			"title": "Retro",
			"started_at": "2026-08-25 14:00:00",
			"recordings": []
		}
	]
}`

func TestParseManifest(t *testing.T) {
	meetings, err := ParseManifest([]byte(sampleManifest), testPathConfig(t))
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}

	if len(meetings) != 2 {
		t.Fatalf("ParseManifest() returned %d meetings, want 2", len(meetings))
	}

	m := meetings[0]
	if m.Title != "Weekly Standup" {
		t.Errorf("Title = %q, want %q", m.Title, "Weekly Standup")
	}
	if m.ID.String() != "7b1f8a44-9c3e-4c1d-8a53-2f0c9be1a001" {
		t.Errorf("ID = %s, want manifest ID", m.ID)
	}
	if got := m.StartedAt.Format("2006-01-02 15:04"); got != "2026-08-24 09:30" {
		t.Errorf("StartedAt = %q, want %q", got, "2026-08-24 09:30")
	}
	if len(m.Participants) != 2 {
		t.Fatalf("got %d participants, want 2", len(m.Participants))
	}
	if m.Participants[0].Name != "Dana" {
		t.Errorf("first participant = %q, want Dana", m.Participants[0].Name)
	}

	if len(m.Recordings) != 1 {
		t.Fatalf("got %d recordings, want 1", len(m.Recordings))
	}
	rec := m.Recordings[0]
	if rec.Index != 1 {
		t.Errorf("recording index = %d, want 1", rec.Index)
	}
	if rec.Duration != 1820.5 {
		t.Errorf("recording duration = %f, want 1820.5", rec.Duration)
	}
	if rec.SizeBytes != 29120000 {
		t.Errorf("recording size = %d, want 29120000", rec.SizeBytes)
	}
	if rec.SourceURL != "/objects/standup/audio.mp3" {
		t.Errorf("recording source = %q", rec.SourceURL)
	}
	if rec.Path == "" || !strings.HasSuffix(rec.Path, ".mp3") {
		t.Errorf("recording path = %q, want computed mp3 path", rec.Path)
	}
	if !strings.Contains(rec.Path, "2026-08-24 Weekly Standup") {
		t.Errorf("recording path = %q, want it under the meeting directory", rec.Path)
	}

	// Entry without an ID keeps a generated one.
	if meetings[1].ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("meeting without manifest ID should get a generated one")
	}
}

func TestParseManifest_Errors(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{
			name: "malformed JSON",
			json: `{"meetings": [`,
		},
		{
			name: "missing title",
			json: `{"meetings": [{"id": "7b1f8a44-9c3e-4c1d-8a53-2f0c9be1a001"}]}`,
		},
		{
			name: "invalid meeting ID",
			json: `{"meetings": [{"id": "not-a-uuid", "title": "Standup"}]}`,
		},
		{
			name: "invalid recording ID",
			json: `{"meetings": [{"title": "Standup", "recordings": [{"id": "nope", "title": "r"}]}]}`,
		},
		{
			name: "bad timestamp",
			json: `{"meetings": [{"title": "Standup", "started_at": "yesterday-ish"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseManifest([]byte(tt.json), testPathConfig(t)); err == nil {
				t.Error("ParseManifest() expected error, got nil")
			}
		})
	}
}

func TestClient_FetchMeetings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != MeetingsPath {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(sampleManifest))
	}))
	defer server.Close()

	client := NewClient(server.URL, "token")
	meetings, err := client.FetchMeetings(context.Background(), testPathConfig(t))
	if err != nil {
		t.Fatalf("FetchMeetings() error = %v", err)
	}
	if len(meetings) != 2 {
		t.Errorf("FetchMeetings() returned %d meetings, want 2", len(meetings))
	}
}
