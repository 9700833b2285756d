package playback

import "time"

// reporter is the cancellable continuous position sampling task. One runs
// per Player at most, for the stretch of time the player is active; the
// Player owns the cancellation and always stops it on deactivation, pause
// and close. The loop also stops itself once the element is no longer
// playing this player's source.
type reporter struct {
	stop chan struct{}
	done chan struct{}
}

func (p *Player) startReporting(elem Element) {
	p.mu.Lock()
	if p.rep != nil || p.closed {
		p.mu.Unlock()
		return
	}
	r := &reporter{stop: make(chan struct{}), done: make(chan struct{})}
	p.rep = r
	p.mu.Unlock()

	go p.report(elem, r)
}

func (p *Player) stopReporting() {
	p.mu.Lock()
	r := p.rep
	p.rep = nil
	p.mu.Unlock()
	if r == nil {
		return
	}
	close(r.stop)
	<-r.done
}

func (p *Player) report(elem Element, r *reporter) {
	defer close(r.done)

	ticker := time.NewTicker(p.opts.ReportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			if elem.Source() != p.src || !elem.Playing() {
				p.detach(r)
				return
			}
			pos := elem.Position()
			p.mu.Lock()
			p.lastPos = pos
			p.lastForward = time.Now()
			p.mu.Unlock()
			p.send(Event{Source: p.src, Kind: EventPosition, Position: pos})
		}
	}
}

// detach clears the player's reporter slot when the loop exits on its own,
// so a later activation can start a fresh one. stopReporting still works if
// it races: closing the stop channel of an already-exited loop is fine
// because detach only clears the slot when it still holds this reporter.
func (p *Player) detach(r *reporter) {
	p.mu.Lock()
	if p.rep == r {
		p.rep = nil
	}
	p.mu.Unlock()
}
