package audio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xrehpicx/standup/internal/model"
)

// PlaylistFormat represents supported playlist file formats.
type PlaylistFormat int

const (
	// FormatM3U creates .m3u files (most compatible).
	// Can be extended with EXTINF lines for duration/title info.
	FormatM3U PlaylistFormat = iota

	// FormatPLS creates .pls files (Winamp/SHOUTcast format).
	// INI-style format with file, title, and length info.
	FormatPLS
)

// Ext returns the file extension for the format, including the dot.
func (f PlaylistFormat) Ext() string {
	if f == FormatPLS {
		return ".pls"
	}
	return ".m3u"
}

// PlaylistCreator generates playlist files for a meeting's recordings.
//
// The output is a string ready to be written next to the audio files, so
// external players can walk a meeting's recordings in order.
//
// Example:
//
//	creator := NewPlaylistCreator(FormatM3U, true)
//	content := creator.CreatePlaylist(meeting)
//	path := filepath.Join(meeting.Dir, "recordings"+FormatM3U.Ext())
//	os.WriteFile(path, []byte(content), 0644)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:1820,Weekly Standup - Full session
//	// 01 Full session.mp3
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // For M3U: include EXTINF lines with duration/title
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// Parameters:
//   - format: The playlist format to generate
//   - extended: For M3U format, whether to include #EXTINF lines
//     (ignored for PLS)
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// CreatePlaylist generates playlist content for a meeting's recordings.
//
// Recording paths in the playlist are relative (just the filename),
// assuming the playlist file sits in the meeting directory.
func (p *PlaylistCreator) CreatePlaylist(meeting *model.Meeting) string {
	if p.format == FormatPLS {
		return p.createPLS(meeting)
	}
	return p.createM3U(meeting)
}

// createM3U generates an M3U playlist.
//
// Standard M3U format lists one filename per line. The extended format
// prefixes each entry with duration and title:
//
//	#EXTM3U
//	#EXTINF:1820,Weekly Standup - Full session
//	01 Full session.mp3
func (p *PlaylistCreator) createM3U(meeting *model.Meeting) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, rec := range meeting.Recordings {
		if p.extended {
			duration := int(rec.Duration)
			sb.WriteString(fmt.Sprintf("#EXTINF:%d,%s - %s\n", duration, meeting.Title, rec.Title))
		}
		sb.WriteString(filepath.Base(rec.Path) + "\n")
	}

	return sb.String()
}

// createPLS generates a PLS playlist.
//
// PLS format is an INI-style text file:
//
//	[playlist]
//	File1=01 Full session.mp3
//	Title1=Full session
//	Length1=1820
//	NumberOfEntries=1
//	Version=2
func (p *PlaylistCreator) createPLS(meeting *model.Meeting) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, rec := range meeting.Recordings {
		idx := i + 1
		sb.WriteString(fmt.Sprintf("File%d=%s\n", idx, filepath.Base(rec.Path)))
		sb.WriteString(fmt.Sprintf("Title%d=%s\n", idx, rec.Title))
		sb.WriteString(fmt.Sprintf("Length%d=%d\n", idx, int(rec.Duration)))
	}

	sb.WriteString(fmt.Sprintf("NumberOfEntries=%d\n", len(meeting.Recordings)))
	sb.WriteString("Version=2\n")

	return sb.String()
}
