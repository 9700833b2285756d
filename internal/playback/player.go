package playback

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// State is a Player's position in its binding state machine.
type State int

const (
	// StateIdle means the player is not requesting playback.
	StateIdle State = iota

	// StateActivating means playback was requested but the element has not
	// confirmed it yet (source still loading).
	StateActivating

	// StateActive means this player owns the element and it is playing (or
	// paused mid-source) its source.
	StateActive
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateActivating:
		return "Activating"
	case StateActive:
		return "Active"
	default:
		return "Unknown"
	}
}

// EventKind classifies events a Player forwards to its owning surface.
type EventKind int

const (
	// EventIntent reports that the player's play intent changed from below:
	// deactivation by another player, natural end of media, visibility loss,
	// or a playback failure. The surface should mirror Playing into its own
	// state without calling back into Play/Pause.
	EventIntent EventKind = iota

	// EventPosition carries a playback position update.
	EventPosition

	// EventDuration carries the source duration once known.
	EventDuration

	// EventNotice carries a user-visible playback problem.
	EventNotice
)

// Event is a single update from a Player to its owning surface.
type Event struct {
	Source   string
	Kind     EventKind
	Playing  bool
	Position time.Duration
	Duration time.Duration
	Err      error
}

// Options tunes Player timing. Zero values select the defaults.
type Options struct {
	// ReadyTimeout bounds the wait for the element's ready signal after a
	// source swap. When it elapses, playback is attempted anyway.
	ReadyTimeout time.Duration

	// ReportInterval is the sampling period of the continuous position
	// reporting loop while the player is active.
	ReportInterval time.Duration

	// PositionThrottle is the minimum gap between position updates forwarded
	// from the element's own position signal. Explicit seeks and the
	// sampling loop are not throttled.
	PositionThrottle time.Duration
}

// Default timing values. The ready timeout is a heuristic bound with no
// stronger rationale than "long enough for local and cached sources"; keep
// it configurable rather than load-bearing.
const (
	DefaultReadyTimeout     = 1000 * time.Millisecond
	DefaultReportInterval   = 50 * time.Millisecond
	DefaultPositionThrottle = 250 * time.Millisecond
)

func (o Options) withDefaults() Options {
	if o.ReadyTimeout <= 0 {
		o.ReadyTimeout = DefaultReadyTimeout
	}
	if o.ReportInterval <= 0 {
		o.ReportInterval = DefaultReportInterval
	}
	if o.PositionThrottle <= 0 {
		o.PositionThrottle = DefaultPositionThrottle
	}
	return o
}

// ErrClosed is returned by operations on a closed Player.
var ErrClosed = errors.New("playback: player closed")

// Player binds one player surface (one recording's controls) to the shared
// element. It is inert unless it holds the active subscription; pausing a
// non-active player never touches shared state.
//
// All methods are safe for concurrent use. Events are delivered on the
// goroutine that triggered them; the emit callback must not block and must
// not call back into the Player synchronously; hand events off to the
// surface's own loop (a channel, a tea.Program.Send) instead.
type Player struct {
	coord *Coordinator
	src   string
	emit  func(Event)
	opts  Options

	mu          sync.Mutex
	state       State
	sub         *Subscription
	closed      bool
	attached    bool
	removes     []func()
	loadGen     int
	cancelSwap  func()
	rep         *reporter
	lastPos     time.Duration
	lastDur     time.Duration
	lastForward time.Time
}

// NewPlayer creates a Player for sourceID bound to coord. Events flow to
// emit; pass nil to discard them. Listener attachment to the shared element
// is best-effort here and retried on Play, so construction never fails even
// when the audio output cannot be opened yet.
func NewPlayer(coord *Coordinator, sourceID string, emit func(Event), opts Options) *Player {
	p := &Player{
		coord: coord,
		src:   sourceID,
		emit:  emit,
		opts:  opts.withDefaults(),
		state: StateIdle,
	}
	if elem, err := coord.Element(); err == nil {
		p.attach(elem)
	}
	return p
}

// Source returns the source ID this player controls.
func (p *Player) Source() string { return p.src }

// State returns the current binding state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Position returns the last reported playback position.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastPos
}

// Duration returns the source duration, or zero before metadata arrives.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastDur
}

// Play requests playback of this player's source, taking over the shared
// element. If the element has a different source loaded, the swap sequence
// pauses, clears, loads the new source and defers playback until the ready
// signal, bounded by Options.ReadyTimeout.
func (p *Player) Play() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	elem, err := p.coord.Element()
	if err != nil {
		p.mu.Unlock()
		p.send(Event{Source: p.src, Kind: EventNotice, Err: fmt.Errorf("open audio output: %w", err)})
		return err
	}
	p.attachLocked(elem)
	if p.sub == nil {
		p.sub = p.coord.Subscribe(p.src)
		p.sub.OnDeactivated(p.deactivated)
	}
	sub := p.sub
	p.state = StateActivating
	p.cancelSwapLocked()
	p.mu.Unlock()

	// Outgoing player's deactivation callback fires inside Activate, before
	// any playback of our source starts.
	p.coord.Activate(sub)

	if elem.Source() == p.src {
		if elem.Playing() {
			p.mu.Lock()
			p.state = StateActive
			p.mu.Unlock()
			p.startReporting(elem)
			return nil
		}
		p.startPlayback(elem, p.generation())
		return nil
	}

	return p.swapSource(elem)
}

// swapSource runs the source swap sequence: pause, clear, load, then play on
// ready or after the timeout, whichever comes first, exactly once.
func (p *Player) swapSource(elem Element) error {
	elem.Pause()
	elem.Clear()

	p.mu.Lock()
	p.loadGen++
	gen := p.loadGen
	p.mu.Unlock()

	var once sync.Once
	start := func() {
		once.Do(func() { p.startPlayback(elem, gen) })
	}

	// Attach before Load so a synchronous ready signal is not missed.
	removeReady := elem.OnReady(start)
	timer := time.AfterFunc(p.opts.ReadyTimeout, start)

	p.mu.Lock()
	p.cancelSwap = func() {
		timer.Stop()
		removeReady()
	}
	p.mu.Unlock()

	if err := elem.Load(p.src); err != nil {
		p.fail(fmt.Errorf("load %s: %w", p.src, err))
		return err
	}
	return nil
}

// startPlayback attempts elem.Play once the swap (if any) settled. The
// generation check drops attempts that were superseded by a later swap,
// pause, or deactivation.
func (p *Player) startPlayback(elem Element, gen int) {
	p.mu.Lock()
	if p.closed || p.loadGen != gen || p.state != StateActivating {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	if err := elem.Play(); err != nil {
		// Output refused to start (policy, device). Revert intent and give
		// the element back.
		p.fail(fmt.Errorf("start playback: %w", err))
		return
	}

	p.mu.Lock()
	if p.state == StateActivating {
		p.state = StateActive
	}
	p.mu.Unlock()
	p.startReporting(elem)
}

// Pause stops playback if this player currently owns the element. On a
// non-active player it only resets local state.
func (p *Player) Pause() {
	p.mu.Lock()
	p.loadGen++
	p.state = StateIdle
	p.cancelSwapLocked()
	sub := p.sub
	p.mu.Unlock()

	p.stopReporting()

	if sub != nil && p.coord.deactivateOwned(sub) {
		if elem := p.coord.loaded(); elem != nil {
			elem.Pause()
		}
	}
}

// Seek sets the playback position. It is a no-op unless this player's
// source is the one loaded in the element. The new position is forwarded to
// the surface immediately, bypassing the throttle.
func (p *Player) Seek(pos time.Duration) {
	elem := p.coord.loaded()
	if elem == nil || elem.Source() != p.src {
		return
	}
	if pos < 0 {
		pos = 0
	}
	elem.SetPosition(pos)

	p.mu.Lock()
	p.lastPos = pos
	p.lastForward = time.Now()
	p.mu.Unlock()
	p.send(Event{Source: p.src, Kind: EventPosition, Position: pos})
}

// SetVolume sets the shared element's volume. The element is shared, so the
// last surface to set volume wins for all of them.
func (p *Player) SetVolume(v float64) {
	if elem, err := p.coord.Element(); err == nil {
		elem.SetVolume(v)
	}
}

// SetMuted sets the shared element's mute flag; last writer wins, as with
// SetVolume.
func (p *Player) SetMuted(muted bool) {
	if elem, err := p.coord.Element(); err == nil {
		elem.SetMuted(muted)
	}
}

// Hidden tells the player its surface is no longer visible. An active
// player pauses and pushes the paused intent up so the surface's state
// follows; an idle player ignores it.
func (p *Player) Hidden() {
	p.mu.Lock()
	idle := p.state == StateIdle || p.closed
	p.mu.Unlock()
	if idle {
		return
	}
	p.Pause()
	p.send(Event{Source: p.src, Kind: EventIntent, Playing: false})
}

// Close tears the player down: the reporting loop is cancelled
// unconditionally, element listeners are removed, and if the player was
// active the element is paused and ownership released.
func (p *Player) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.loadGen++
	wasRequesting := p.state != StateIdle
	p.state = StateIdle
	p.cancelSwapLocked()
	sub := p.sub
	p.sub = nil
	removes := p.removes
	p.removes = nil
	p.mu.Unlock()

	p.stopReporting()

	if sub != nil {
		if p.coord.deactivateOwned(sub) {
			if elem := p.coord.loaded(); elem != nil {
				elem.Pause()
			}
			if wasRequesting {
				p.send(Event{Source: p.src, Kind: EventIntent, Playing: false})
			}
		}
		sub.Release()
	}

	for _, rm := range removes {
		rm()
	}
}

// deactivated is the subscription callback: another player took over.
func (p *Player) deactivated() {
	p.mu.Lock()
	p.loadGen++
	p.state = StateIdle
	p.cancelSwapLocked()
	p.mu.Unlock()

	p.stopReporting()

	// Flip the surface's intent without re-entering Activate.
	p.send(Event{Source: p.src, Kind: EventIntent, Playing: false})
}

// fail handles playback errors: surface a notice, revert intent, and fully
// release ownership so the element stays usable for other players.
func (p *Player) fail(err error) {
	p.mu.Lock()
	p.loadGen++
	p.state = StateIdle
	p.cancelSwapLocked()
	sub := p.sub
	p.mu.Unlock()

	p.stopReporting()
	if sub != nil {
		p.coord.deactivateOwned(sub)
	}

	p.send(Event{Source: p.src, Kind: EventNotice, Err: err})
	p.send(Event{Source: p.src, Kind: EventIntent, Playing: false})
}

// attach registers this player's element listeners once.
func (p *Player) attach(elem Element) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.attachLocked(elem)
}

func (p *Player) attachLocked(elem Element) {
	if p.attached || p.closed {
		return
	}
	p.attached = true
	p.removes = append(p.removes,
		elem.OnEnded(func() { p.ended(elem) }),
		elem.OnPosition(func(pos time.Duration) { p.elementPosition(elem, pos) }),
		elem.OnMetadata(func(d time.Duration) { p.metadata(elem, d) }),
		elem.OnError(func(err error) { p.elementError(elem, err) }),
	)
}

// ended handles the natural end of media. Only the player whose source is
// loaded reacts: position resets to zero and the paused intent goes up.
func (p *Player) ended(elem Element) {
	if elem.Source() != p.src {
		return
	}
	p.mu.Lock()
	p.loadGen++
	p.state = StateIdle
	p.mu.Unlock()

	// Stop sampling before resetting so a final in-flight tick cannot
	// overwrite the zero position.
	p.stopReporting()

	p.mu.Lock()
	p.lastPos = 0
	p.mu.Unlock()
	p.send(Event{Source: p.src, Kind: EventPosition, Position: 0})
	p.send(Event{Source: p.src, Kind: EventIntent, Playing: false})
}

// elementPosition is the low-frequency fallback feed: it keeps the surface
// in sync when the sampling loop is not running, throttled to one update
// per Options.PositionThrottle.
func (p *Player) elementPosition(elem Element, pos time.Duration) {
	if elem.Source() != p.src {
		return
	}
	p.mu.Lock()
	if time.Since(p.lastForward) < p.opts.PositionThrottle {
		p.mu.Unlock()
		return
	}
	p.lastForward = time.Now()
	p.lastPos = pos
	p.mu.Unlock()
	p.send(Event{Source: p.src, Kind: EventPosition, Position: pos})
}

func (p *Player) metadata(elem Element, d time.Duration) {
	if elem.Source() != p.src {
		return
	}
	p.mu.Lock()
	p.lastDur = d
	p.mu.Unlock()
	p.send(Event{Source: p.src, Kind: EventDuration, Duration: d})
}

func (p *Player) elementError(elem Element, err error) {
	if elem.Source() != p.src {
		return
	}
	p.mu.Lock()
	requesting := p.state != StateIdle
	p.mu.Unlock()
	if !requesting {
		return
	}
	p.fail(fmt.Errorf("playback of %s: %w", p.src, err))
}

func (p *Player) generation() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadGen
}

// cancelSwapLocked cancels a pending ready-wait. Caller holds p.mu.
func (p *Player) cancelSwapLocked() {
	if p.cancelSwap != nil {
		p.cancelSwap()
		p.cancelSwap = nil
	}
}

func (p *Player) send(ev Event) {
	if p.emit != nil {
		p.emit(ev)
	}
}
