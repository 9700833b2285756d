package playback

import "sync"

// Coordinator mediates exclusive access to one shared playback Element.
//
// Many Player instances may be mounted at once, but at most one of them is
// "active", entitled to drive the element, at any time. Activating a
// subscription for a new source notifies the previously active subscription
// before playback of the new source starts, so two sources never play at
// once.
//
// A Coordinator is an explicitly constructed service: create one at
// application start, hand it to every player surface, and call Shutdown on
// teardown. The element itself is created lazily on first use and reused for
// the life of the Coordinator.
type Coordinator struct {
	factory ElementFactory

	mu     sync.Mutex
	elem   Element
	active *Subscription
}

// NewCoordinator creates a Coordinator that builds its element with factory
// on first use.
func NewCoordinator(factory ElementFactory) *Coordinator {
	return &Coordinator{factory: factory}
}

// Element returns the shared element, creating it on first call. Creation
// failures are not sticky: a later call retries the factory.
func (c *Coordinator) Element() (Element, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.elem != nil {
		return c.elem, nil
	}
	elem, err := c.factory()
	if err != nil {
		return nil, err
	}
	c.elem = elem
	return elem, nil
}

// loaded returns the element if it has already been created, without
// triggering creation. Operations that only make sense against an existing
// element (pause on teardown) use this so they stay no-ops beforehand.
func (c *Coordinator) loaded() Element {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elem
}

// Subscribe creates a subscription for sourceID. The subscription is inert
// until passed to Activate; Release it when the owning surface goes away.
func (c *Coordinator) Subscribe(sourceID string) *Subscription {
	return &Subscription{c: c, sourceID: sourceID}
}

// Activate makes sub the sole active subscription. If a subscription for a
// different source is currently active, its deactivation callback is invoked
// before sub takes over. Re-activating the currently active source does not
// trigger any deactivation.
func (c *Coordinator) Activate(sub *Subscription) {
	c.mu.Lock()
	prev := c.active
	if prev != nil && prev.sourceID == sub.sourceID {
		c.active = sub
		c.mu.Unlock()
		return
	}
	c.active = nil
	c.mu.Unlock()

	if prev != nil {
		prev.deactivate()
	}

	c.mu.Lock()
	if c.active == nil {
		c.active = sub
	}
	c.mu.Unlock()
}

// ActiveSource returns the source ID of the active subscription, or "".
func (c *Coordinator) ActiveSource() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return ""
	}
	return c.active.sourceID
}

// deactivateOwned clears the active slot if sub still holds it and reports
// whether it did. A subscription that has been superseded by a newer one
// must not clobber the newer owner's state, so the comparison is by
// identity, not source.
func (c *Coordinator) deactivateOwned(sub *Subscription) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != sub {
		return false
	}
	c.active = nil
	return true
}

// ClearActive pauses and unloads the element and drops the active
// subscription without notifying it. Used on application teardown.
func (c *Coordinator) ClearActive() {
	c.mu.Lock()
	elem := c.elem
	c.active = nil
	c.mu.Unlock()

	if elem != nil {
		elem.Pause()
		elem.Clear()
	}
}

// Shutdown is ClearActive under a name that reads well at teardown sites.
func (c *Coordinator) Shutdown() {
	c.ClearActive()
}

// Subscription represents one player surface's claim on a source. It becomes
// the active claim via Coordinator.Activate and is told through its
// deactivation callback when another surface takes over.
type Subscription struct {
	c        *Coordinator
	sourceID string

	mu            sync.Mutex
	onDeactivated func()
	released      bool
}

// SourceID returns the source this subscription was created for.
func (s *Subscription) SourceID() string {
	return s.sourceID
}

// OnDeactivated sets the callback invoked when another subscription takes
// over the element. The callback must not call Activate; it is expected to
// flip the owning surface's play intent to paused and nothing more.
func (s *Subscription) OnDeactivated(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDeactivated = fn
}

// Release relinquishes the active slot if this subscription holds it and
// permanently disarms the deactivation callback. Safe to call repeatedly.
func (s *Subscription) Release() {
	s.mu.Lock()
	s.released = true
	s.onDeactivated = nil
	s.mu.Unlock()
	s.c.deactivateOwned(s)
}

func (s *Subscription) deactivate() {
	s.mu.Lock()
	fn := s.onDeactivated
	released := s.released
	s.mu.Unlock()
	if released || fn == nil {
		return
	}
	fn()
}
