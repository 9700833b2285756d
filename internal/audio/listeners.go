package audio

import (
	"sync"
	"time"
)

// listenerHub tracks signal listeners for an Output.
//
// Registration returns a remove function tied to the listener's slot, so
// removing one listener never disturbs the others. Firing snapshots the
// current set under the lock and invokes listeners after releasing it.
type listenerHub struct {
	mu     sync.Mutex
	nextID int

	ready    map[int]func()
	ended    map[int]func()
	position map[int]func(time.Duration)
	metadata map[int]func(time.Duration)
	errs     map[int]func(error)
}

func (h *listenerHub) addReady(fn func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ready == nil {
		h.ready = make(map[int]func())
	}
	id := h.nextID
	h.nextID++
	h.ready[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.ready, id)
	}
}

func (h *listenerHub) addEnded(fn func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ended == nil {
		h.ended = make(map[int]func())
	}
	id := h.nextID
	h.nextID++
	h.ended[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.ended, id)
	}
}

func (h *listenerHub) addPosition(fn func(time.Duration)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.position == nil {
		h.position = make(map[int]func(time.Duration))
	}
	id := h.nextID
	h.nextID++
	h.position[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.position, id)
	}
}

func (h *listenerHub) addMetadata(fn func(time.Duration)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.metadata == nil {
		h.metadata = make(map[int]func(time.Duration))
	}
	id := h.nextID
	h.nextID++
	h.metadata[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.metadata, id)
	}
}

func (h *listenerHub) addError(fn func(error)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.errs == nil {
		h.errs = make(map[int]func(error))
	}
	id := h.nextID
	h.nextID++
	h.errs[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.errs, id)
	}
}

func (h *listenerHub) fireReady() {
	h.mu.Lock()
	fns := make([]func(), 0, len(h.ready))
	for _, fn := range h.ready {
		fns = append(fns, fn)
	}
	h.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (h *listenerHub) fireEnded() {
	h.mu.Lock()
	fns := make([]func(), 0, len(h.ended))
	for _, fn := range h.ended {
		fns = append(fns, fn)
	}
	h.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (h *listenerHub) firePosition(pos time.Duration) {
	h.mu.Lock()
	fns := make([]func(time.Duration), 0, len(h.position))
	for _, fn := range h.position {
		fns = append(fns, fn)
	}
	h.mu.Unlock()
	for _, fn := range fns {
		fn(pos)
	}
}

func (h *listenerHub) fireMetadata(duration time.Duration) {
	h.mu.Lock()
	fns := make([]func(time.Duration), 0, len(h.metadata))
	for _, fn := range h.metadata {
		fns = append(fns, fn)
	}
	h.mu.Unlock()
	for _, fn := range fns {
		fn(duration)
	}
}

func (h *listenerHub) fireError(err error) {
	h.mu.Lock()
	fns := make([]func(error), 0, len(h.errs))
	for _, fn := range h.errs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()
	for _, fn := range fns {
		fn(err)
	}
}
