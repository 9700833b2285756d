package audio

import (
	"fmt"
	"os"
	"strings"

	"github.com/bogem/id3v2"

	"github.com/xrehpicx/standup/internal/model"
)

// TagEditAction defines how to handle individual ID3 tags.
//
// Each tag field can be configured independently to determine whether
// it should be written, cleared, or left unchanged.
type TagEditAction int

const (
	// TagEmpty clears the tag value.
	TagEmpty TagEditAction = iota

	// TagModify updates the tag with meeting metadata.
	TagModify

	// TagDoNotModify leaves the existing tag value unchanged.
	TagDoNotModify
)

// TagConfig holds tagging configuration for each ID3 field.
//
// Exported recordings carry meeting metadata in standard audio tags so any
// player shows where a file came from:
//
//	cfg := &TagConfig{
//	    ModifyTags:   true,
//	    Title:        TagModify, // Recording title
//	    Meeting:      TagModify, // Meeting title as album
//	    Participants: TagModify, // Participant names as artist
//	    Date:         TagModify, // Meeting start date
//	    Index:        TagModify, // Recording index as track number
//	    Summary:      TagModify, // Summary outcome as comment
//	    Transcript:   TagModify, // Transcript outcome as lyrics
//	}
type TagConfig struct {
	// ModifyTags is a master switch. If false, no string tags are modified.
	ModifyTags bool

	// Title controls the TIT2 (Title) frame.
	Title TagEditAction

	// Meeting controls the TALB (Album title) frame.
	Meeting TagEditAction

	// Participants controls the TPE1 (Lead artist) frame.
	Participants TagEditAction

	// Year controls the TYER (Year) frame (ID3v2.3).
	Year TagEditAction

	// Date controls the TDRC (Recording time) frame (ID3v2.4).
	Date TagEditAction

	// Index controls the TRCK (Track number) frame.
	Index TagEditAction

	// Summary controls the COMM (Comments) frame.
	Summary TagEditAction

	// Transcript controls the USLT (Unsynchronized lyrics) frame.
	Transcript TagEditAction
}

// DefaultTagConfig returns the default tag configuration: everything
// written from meeting metadata.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags:   true,
		Title:        TagModify,
		Meeting:      TagModify,
		Participants: TagModify,
		Year:         TagModify,
		Date:         TagModify,
		Index:        TagModify,
		Summary:      TagModify,
		Transcript:   TagModify,
	}
}

// Tagger writes meeting metadata into exported MP3 files.
//
// Tagger uses the id3v2 library to write:
//   - Recording title, meeting title and participant names
//   - Meeting date and recording index
//   - Summary and transcript outcomes as comment and lyrics frames
//   - An optional waveform thumbnail as attached picture
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//	err := tagger.SaveTags(rec, waveformPNG)
//	if err != nil {
//	    log.Printf("Failed to tag %s: %v", rec.Path, err)
//	}
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// SaveTags writes ID3 tags to the recording's exported MP3 file.
//
// This method:
//  1. Opens the existing MP3 file (or creates empty tags if none exist)
//  2. Updates string tags based on TagConfig settings
//  3. Embeds the artwork if image bytes are provided
//  4. Saves the modified tags to the file
//
// The recording must carry its parent Meeting for the meeting-level tags.
func (t *Tagger) SaveTags(rec *model.Recording, artwork []byte) error {
	tag, err := id3v2.Open(rec.Path, id3v2.Options{Parse: true})
	if err != nil {
		if os.IsNotExist(err) {
			tag = id3v2.NewEmptyTag()
		} else {
			return err
		}
	}
	defer tag.Close()

	if t.config.ModifyTags {
		t.updateStringTags(tag, rec)
	}

	if artwork != nil {
		t.updateArtwork(tag, artwork)
	}

	return tag.Save()
}

// updateStringTags updates text-based ID3 frames based on configuration.
func (t *Tagger) updateStringTags(tag *id3v2.Tag, rec *model.Recording) {
	meeting := rec.Meeting

	// Title (TIT2)
	switch t.config.Title {
	case TagEmpty:
		tag.SetTitle("")
	case TagModify:
		tag.SetTitle(rec.Title)
	}

	// Meeting title (TALB)
	switch t.config.Meeting {
	case TagEmpty:
		tag.SetAlbum("")
	case TagModify:
		tag.SetAlbum(meeting.Title)
	}

	// Participants (TPE1)
	switch t.config.Participants {
	case TagEmpty:
		tag.SetArtist("")
	case TagModify:
		tag.SetArtist(strings.Join(meeting.ParticipantNames(), ", "))
	}

	// Year (TYER) - ID3v2.3
	switch t.config.Year {
	case TagEmpty:
		tag.DeleteFrames("TYER")
	case TagModify:
		tag.AddTextFrame("TYER", id3v2.EncodingUTF8, meeting.StartedAt.Format("2006"))
	}

	// Date (TDRC) - ID3v2.4
	switch t.config.Date {
	case TagEmpty:
		tag.DeleteFrames("TDRC")
	case TagModify:
		tag.AddTextFrame("TDRC", id3v2.EncodingUTF8, meeting.StartedAt.Format("2006-01-02"))
	}

	// Recording index (TRCK)
	switch t.config.Index {
	case TagEmpty:
		tag.DeleteFrames("TRCK")
	case TagModify:
		tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, fmt.Sprintf("%d", rec.Index))
	}

	// Summary outcome (COMM)
	switch t.config.Summary {
	case TagEmpty:
		tag.DeleteFrames(tag.CommonID("Comments"))
	case TagModify:
		if summary := meeting.Outcome(model.OutcomeSummary); summary != nil {
			comment := id3v2.CommentFrame{
				Encoding:    id3v2.EncodingUTF8,
				Language:    "eng",
				Description: "Summary",
				Text:        summary.Content,
			}
			tag.AddCommentFrame(comment)
		}
	}

	// Transcript outcome (USLT)
	switch t.config.Transcript {
	case TagEmpty:
		tag.DeleteFrames(tag.CommonID("Unsynchronised lyrics/text transcription"))
	case TagModify:
		if transcript := meeting.Outcome(model.OutcomeTranscript); transcript != nil {
			uslf := id3v2.UnsynchronisedLyricsFrame{
				Encoding:          id3v2.EncodingUTF8,
				Language:          "eng",
				ContentDescriptor: "",
				Lyrics:            transcript.Content,
			}
			tag.AddUnsynchronisedLyricsFrame(uslf)
		}
	}
}

// updateArtwork embeds the waveform image as an attached picture frame.
func (t *Tagger) updateArtwork(tag *id3v2.Tag, artwork []byte) {
	tag.DeleteFrames(tag.CommonID("Attached picture"))

	pic := id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/png",
		PictureType: id3v2.PTFrontCover,
		Description: "Waveform",
		Picture:     artwork,
	}
	tag.AddAttachedPicture(pic)
}
