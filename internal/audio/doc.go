// Package audio handles sound output and audio file processing.
//
// The package provides:
//   - Output: the beep-backed speaker element driven by the playback layer
//   - Peaks: amplitude envelope extraction for waveform rendering
//   - Tagger: meeting metadata written into exported MP3 files
//   - PlaylistCreator: M3U and PLS playlists for a meeting's recordings
//
// # Playback
//
// Output implements the shared playback element. It decodes MP3, WAV, FLAC
// and Ogg Vorbis files, resamples them to a fixed speaker rate, and reports
// readiness, end-of-source and errors through registered listeners:
//
//	out, err := audio.NewOutput()
//	remove := out.OnReady(func() { out.Play() })
//	defer remove()
//	out.Load(rec.Path)
//
// # Export
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	tagger.SaveTags(rec, waveformPNG)
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true)
//	content := creator.CreatePlaylist(meeting)
package audio
