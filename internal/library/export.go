package library

import (
	"fmt"
	"path/filepath"

	"github.com/xrehpicx/standup/internal/audio"
	"github.com/xrehpicx/standup/internal/config"
	ioutils "github.com/xrehpicx/standup/internal/io"
	"github.com/xrehpicx/standup/internal/model"
)

// Exporter writes a meeting's shareable artifacts into its library
// directory: outcome markdown files, a playlist, waveform images and
// metadata tags on the audio files.
//
// Example:
//
//	exporter := library.NewExporter(settings, func(ev library.ProgressEvent) {
//	    fmt.Println(ev.Message)
//	})
//	err := exporter.Export(meeting)
type Exporter struct {
	settings     *config.Settings
	tagger       *audio.Tagger
	playlist     *audio.PlaylistCreator
	imageService *ioutils.ImageService

	onProgress func(ProgressEvent)
}

// NewExporter creates an Exporter. The onProgress callback may be nil.
func NewExporter(settings *config.Settings, onProgress func(ProgressEvent)) *Exporter {
	return &Exporter{
		settings:     settings,
		tagger:       audio.NewTagger(audio.DefaultTagConfig()),
		playlist:     audio.NewPlaylistCreator(audio.FormatM3U, true),
		imageService: ioutils.NewImageService(),
		onProgress:   onProgress,
	}
}

// Export writes everything derivable from the meeting into meeting.Dir.
//
// Outcome files and the playlist are always written. Waveforms and tags
// follow the export settings. Failures on individual recordings are
// reported as progress events; Export returns an error only when the
// meeting directory itself is unusable.
func (e *Exporter) Export(meeting *model.Meeting) error {
	if err := ioutils.EnsureDir(meeting.Dir); err != nil {
		return fmt.Errorf("create meeting directory: %w", err)
	}

	e.exportOutcomes(meeting)
	e.exportPlaylist(meeting)

	for _, rec := range meeting.Recordings {
		e.exportRecording(rec)
	}

	e.progress(ProgressEvent{Message: fmt.Sprintf("Exported %s", meeting.Title), Level: LevelSuccess})
	return nil
}

// outcomeFileNames maps outcome kinds to their export file names.
var outcomeFileNames = map[model.OutcomeKind]string{
	model.OutcomeSummary:     "summary.md",
	model.OutcomeActionItems: "action_items.md",
	model.OutcomeTranscript:  "transcript.md",
}

// exportOutcomes writes the newest outcome of each kind to a markdown file.
func (e *Exporter) exportOutcomes(meeting *model.Meeting) {
	for kind, name := range outcomeFileNames {
		outcome := meeting.Outcome(kind)
		if outcome == nil {
			continue
		}
		path := filepath.Join(meeting.Dir, name)
		if err := ioutils.WriteFile(path, []byte(outcome.Content)); err != nil {
			e.progress(ProgressEvent{Message: fmt.Sprintf("Error writing %s: %v", name, err), Level: LevelWarning})
			continue
		}
		e.progress(ProgressEvent{Message: fmt.Sprintf("Wrote %s", name), Level: LevelVerbose})
	}
}

// exportPlaylist writes an extended M3U playlist of the recordings.
func (e *Exporter) exportPlaylist(meeting *model.Meeting) {
	if len(meeting.Recordings) == 0 {
		return
	}
	content := e.playlist.CreatePlaylist(meeting)
	path := filepath.Join(meeting.Dir, "recordings"+audio.FormatM3U.Ext())
	if err := ioutils.WriteFile(path, []byte(content)); err != nil {
		e.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlist: %v", err), Level: LevelWarning})
		return
	}
	e.progress(ProgressEvent{Message: fmt.Sprintf("Created playlist for %s", meeting.Title), Level: LevelVerbose})
}

// Embedded tag artwork is scaled down to fit these bounds.
const (
	tagArtworkMaxWidth  = 600
	tagArtworkMaxHeight = 120
)

// exportRecording renders the waveform image and tags the audio file.
func (e *Exporter) exportRecording(rec *model.Recording) {
	var waveformPNG []byte

	if e.settings.WaveformEnabled {
		peaks, err := audio.Peaks(rec.Path, e.settings.WaveformWidth)
		if err != nil {
			e.progress(ProgressEvent{Message: fmt.Sprintf("Error reading waveform of %s: %v", rec.Title, err), Level: LevelWarning})
		} else {
			waveformPNG, err = e.imageService.RenderWaveform(peaks, e.settings.WaveformWidth, e.settings.WaveformHeight)
			if err != nil {
				e.progress(ProgressEvent{Message: fmt.Sprintf("Error rendering waveform of %s: %v", rec.Title, err), Level: LevelWarning})
			} else {
				path := waveformPath(rec)
				if err := ioutils.WriteFile(path, waveformPNG); err != nil {
					e.progress(ProgressEvent{Message: fmt.Sprintf("Error saving waveform: %v", err), Level: LevelWarning})
				}
			}
		}
	}

	if e.settings.ExportTags && filepath.Ext(rec.Path) == ".mp3" {
		artwork := waveformPNG
		if len(artwork) > 0 {
			// Keep embedded artwork bounded even when the rendered waveform
			// is configured much larger.
			if thumb, err := e.imageService.ResizeImage(artwork, tagArtworkMaxWidth, tagArtworkMaxHeight); err == nil {
				artwork = thumb
			}
		}
		if err := e.tagger.SaveTags(rec, artwork); err != nil {
			e.progress(ProgressEvent{Message: fmt.Sprintf("Error tagging %s: %v", rec.Title, err), Level: LevelWarning})
		}
	}
}

// waveformPath is the recording's audio path with a .png extension.
func waveformPath(rec *model.Recording) string {
	ext := filepath.Ext(rec.Path)
	return rec.Path[:len(rec.Path)-len(ext)] + ".png"
}

func (e *Exporter) progress(event ProgressEvent) {
	if e.onProgress != nil {
		e.onProgress(event)
	}
}
