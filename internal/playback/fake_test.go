package playback

import (
	"sync"
	"time"
)

// fakeElement is a scriptable Element for tests. Signals fire only when the
// test asks (or on Load when autoReady is set), and every listener
// invocation happens outside the fake's lock, matching the real output.
type fakeElement struct {
	mu        sync.Mutex
	source    string
	playing   bool
	pos       time.Duration
	dur       time.Duration
	volume    float64
	muted     bool
	autoReady bool
	loadErr   error
	playErr   error

	playCalls int
	loadCalls []string

	nextID   int
	ready    map[int]func()
	ended    map[int]func()
	position map[int]func(time.Duration)
	metadata map[int]func(time.Duration)
	errs     map[int]func(error)
}

func newFakeElement(autoReady bool) *fakeElement {
	return &fakeElement{
		autoReady: autoReady,
		ready:     make(map[int]func()),
		ended:     make(map[int]func()),
		position:  make(map[int]func(time.Duration)),
		metadata:  make(map[int]func(time.Duration)),
		errs:      make(map[int]func(error)),
	}
}

func (f *fakeElement) Load(sourceURI string) error {
	f.mu.Lock()
	if f.loadErr != nil {
		err := f.loadErr
		f.mu.Unlock()
		return err
	}
	f.source = sourceURI
	f.playing = false
	f.pos = 0
	f.loadCalls = append(f.loadCalls, sourceURI)
	auto := f.autoReady
	f.mu.Unlock()
	if auto {
		f.fireReady()
	}
	return nil
}

func (f *fakeElement) Play() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playCalls++
	if f.playErr != nil {
		return f.playErr
	}
	f.playing = true
	return nil
}

func (f *fakeElement) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = false
}

func (f *fakeElement) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = false
	f.source = ""
	f.pos = 0
}

func (f *fakeElement) Source() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.source
}

func (f *fakeElement) Playing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playing
}

func (f *fakeElement) Position() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pos
}

func (f *fakeElement) SetPosition(pos time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pos = pos
}

func (f *fakeElement) Duration() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dur
}

func (f *fakeElement) SetVolume(v float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volume = v
}

func (f *fakeElement) Volume() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.volume
}

func (f *fakeElement) SetMuted(m bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.muted = m
}

func (f *fakeElement) Muted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.muted
}

func (f *fakeElement) OnReady(fn func()) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.ready[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.ready, id)
	}
}

func (f *fakeElement) OnEnded(fn func()) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.ended[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.ended, id)
	}
}

func (f *fakeElement) OnPosition(fn func(time.Duration)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.position[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.position, id)
	}
}

func (f *fakeElement) OnMetadata(fn func(time.Duration)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.metadata[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.metadata, id)
	}
}

func (f *fakeElement) OnError(fn func(error)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.errs[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.errs, id)
	}
}

func (f *fakeElement) fireReady() {
	f.mu.Lock()
	fns := make([]func(), 0, len(f.ready))
	for _, fn := range f.ready {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (f *fakeElement) fireEnded() {
	f.mu.Lock()
	f.playing = false
	fns := make([]func(), 0, len(f.ended))
	for _, fn := range f.ended {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (f *fakeElement) firePosition(pos time.Duration) {
	f.mu.Lock()
	f.pos = pos
	fns := make([]func(time.Duration), 0, len(f.position))
	for _, fn := range f.position {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(pos)
	}
}

func (f *fakeElement) fireMetadata(d time.Duration) {
	f.mu.Lock()
	f.dur = d
	fns := make([]func(time.Duration), 0, len(f.metadata))
	for _, fn := range f.metadata {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(d)
	}
}

func (f *fakeElement) fireError(err error) {
	f.mu.Lock()
	fns := make([]func(error), 0, len(f.errs))
	for _, fn := range f.errs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(err)
	}
}

func (f *fakeElement) plays() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playCalls
}

// collector gathers events from a Player for later assertions.
type collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *collector) emit(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *collector) all() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

func (c *collector) count(kind EventKind) int {
	n := 0
	for _, ev := range c.all() {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func (c *collector) lastIntent() (playing, found bool) {
	events := c.all()
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Kind == EventIntent {
			return events[i].Playing, true
		}
	}
	return false, false
}
