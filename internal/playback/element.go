package playback

import "time"

// Element is the single shared playback resource mediated by the Coordinator.
//
// Implementations wrap a concrete audio output (see internal/audio.Output).
// An Element holds at most one loaded source at a time; callers must go
// through the Coordinator to decide who is entitled to drive it.
//
// Signal registration methods return a remove function. Listeners are
// attached by Player instances for their lifetime and must be removed on
// Close; firing order across listeners is unspecified.
type Element interface {
	// Load replaces the current source with sourceURI. The element is
	// expected to be paused and cleared first. Implementations signal
	// readiness via the ready listeners once playback can begin.
	Load(sourceURI string) error

	// Play starts or resumes playback of the loaded source. It returns an
	// error when the output refuses to start (no device, not loaded).
	Play() error

	// Pause halts playback, keeping the loaded source and position.
	Pause()

	// Clear pauses and unloads the current source.
	Clear()

	// Source returns the URI of the currently loaded source, or "".
	Source() string

	// Playing reports whether the element is actively producing audio.
	Playing() bool

	Position() time.Duration
	SetPosition(pos time.Duration)
	Duration() time.Duration

	SetVolume(v float64)
	Volume() float64
	SetMuted(muted bool)
	Muted() bool

	// OnReady fires when the loaded source is ready to play.
	OnReady(fn func()) (remove func())

	// OnEnded fires when the loaded source plays to its natural end.
	OnEnded(fn func()) (remove func())

	// OnPosition fires on the element's own position updates. This is a
	// low-frequency signal; continuous sampling is the Player's job.
	OnPosition(fn func(pos time.Duration)) (remove func())

	// OnMetadata fires once the source duration is known.
	OnMetadata(fn func(duration time.Duration)) (remove func())

	// OnError fires on load or decode failures.
	OnError(fn func(err error)) (remove func())
}

// ElementFactory creates the shared element on first use. The Coordinator
// calls it at most once for a successful creation.
type ElementFactory func() (Element, error)
