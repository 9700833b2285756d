package audio

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xrehpicx/standup/internal/model"
)

func playlistMeeting(t *testing.T) *model.Meeting {
	t.Helper()
	cfg := &model.PathConfig{
		LibraryPath:             filepath.Join(t.TempDir(), "{meeting}"),
		RecordingFileNameFormat: "{index} {recording}",
	}
	m := model.NewMeeting("Weekly Standup", time.Date(2026, 8, 24, 9, 30, 0, 0, time.UTC), cfg)
	m.Recordings = []*model.Recording{
		model.NewRecording(m, 1, "Full session", 1820, "/objects/a.mp3", cfg),
		model.NewRecording(m, 2, "Overflow", 301.7, "/objects/b.mp3", cfg),
	}
	return m
}

func TestPlaylistCreator_M3U(t *testing.T) {
	m := playlistMeeting(t)

	creator := NewPlaylistCreator(FormatM3U, false)
	content := creator.CreatePlaylist(m)

	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) != 2 {
		t.Fatalf("plain M3U has %d lines, want 2: %q", len(lines), content)
	}
	if lines[0] != "01 Full session.mp3" {
		t.Errorf("first entry = %q", lines[0])
	}
	if strings.Contains(content, "#EXTM3U") {
		t.Error("plain M3U should not contain the extended header")
	}
}

func TestPlaylistCreator_M3UExtended(t *testing.T) {
	m := playlistMeeting(t)

	creator := NewPlaylistCreator(FormatM3U, true)
	content := creator.CreatePlaylist(m)

	if !strings.HasPrefix(content, "#EXTM3U\n") {
		t.Errorf("extended M3U missing header: %q", content)
	}
	if !strings.Contains(content, "#EXTINF:1820,Weekly Standup - Full session") {
		t.Errorf("extended M3U missing EXTINF line: %q", content)
	}
	if !strings.Contains(content, "#EXTINF:301,Weekly Standup - Overflow") {
		t.Errorf("extended M3U should truncate fractional durations: %q", content)
	}
}

func TestPlaylistCreator_PLS(t *testing.T) {
	m := playlistMeeting(t)

	creator := NewPlaylistCreator(FormatPLS, false)
	content := creator.CreatePlaylist(m)

	want := []string{
		"[playlist]",
		"File1=01 Full session.mp3",
		"Title1=Full session",
		"Length1=1820",
		"File2=02 Overflow.mp3",
		"NumberOfEntries=2",
		"Version=2",
	}
	for _, line := range want {
		if !strings.Contains(content, line) {
			t.Errorf("PLS missing %q:\n%s", line, content)
		}
	}
}

func TestPlaylistFormat_Ext(t *testing.T) {
	if got := FormatM3U.Ext(); got != ".m3u" {
		t.Errorf("FormatM3U.Ext() = %q", got)
	}
	if got := FormatPLS.Ext(); got != ".pls" {
		t.Errorf("FormatPLS.Ext() = %q", got)
	}
}
