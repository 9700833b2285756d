// Package playback coordinates many player surfaces over one shared audio
// output.
//
// The terminal UI shows one set of playback controls per meeting recording,
// but the process owns exactly one audio output. This package enforces
// at-most-one-active-player semantics across those surfaces: whoever asks to
// play takes the output over, and the previously active surface is told to
// flip itself to paused before the new source starts.
//
// # Coordinator
//
// The Coordinator is an explicit service instance, created once at
// application start and shut down on exit:
//
//	coord := playback.NewCoordinator(func() (playback.Element, error) {
//	    return audio.NewOutput(audio.OutputConfig{})
//	})
//	defer coord.Shutdown()
//
// # Players
//
// Each surface creates a Player for its recording and feeds its events back
// into its own update loop:
//
//	player := playback.NewPlayer(coord, rec.Path, func(ev playback.Event) {
//	    program.Send(playerEventMsg{ev})
//	}, playback.Options{})
//	defer player.Close()
//
//	player.Play()   // takes over the output, swapping sources if needed
//	player.Seek(30 * time.Second)
//	player.Pause()
//
// Play on a player whose source is not loaded runs the swap sequence: pause,
// clear, load, then start once the element signals ready, or after
// Options.ReadyTimeout if it never does.
//
// # Position reporting
//
// While active, a sampling loop forwards the element position to the surface
// every Options.ReportInterval. A throttled fallback fed by the element's
// own position signal (at most one update per Options.PositionThrottle)
// keeps the surface roughly in sync when the loop is not running. The loop
// is cancelled on deactivation, pause and Close.
//
// # Visibility
//
// When the hosting terminal loses focus, call Hidden on the players; an
// active player pauses and pushes the paused intent up rather than keep
// playing off-screen.
package playback
