// Package library syncs workspace meetings into the local library and
// derives artifacts from them.
//
// Three services live here:
//   - Puller: fetches the workspace manifest and downloads recordings
//   - OutcomeService: transcribes recordings and generates summaries and
//     action items through the AI client
//   - Exporter: writes outcome files, playlists, waveforms and audio tags
//     into the meeting directory
//
// All three report through ProgressEvent callbacks so the TUI and CLI can
// render progress their own way.
//
// # Pulling
//
//	puller := library.NewPuller(settings, client, st, onProgress)
//	err := puller.Pull(ctx)
//
// Downloads run concurrently up to the configured limit, skip recordings
// already on disk with a matching size, and retry with exponential
// cooldown. The library root is guarded with a file lock so concurrent
// standup processes never download into the same tree.
package library
