package view

import (
	"sync"
	"time"
)

// PulseDuration is how long the cart button animates after an add
const PulseDuration = 300 * time.Millisecond

// Pulse is the "item just added" animation flag.
// Trigger raises it and a timer lowers it again after the configured duration;
// re-triggering restarts the timer.
type Pulse struct {
	mu       sync.Mutex
	duration time.Duration
	active   bool
	gen      uint64
	timer    *time.Timer
	onLower  func()
}

// NewPulse creates a lowered flag. A non-positive duration uses PulseDuration.
func NewPulse(duration time.Duration) *Pulse {
	if duration <= 0 {
		duration = PulseDuration
	}
	return &Pulse{duration: duration}
}

// OnLower registers fn to run each time a timer lowers the flag
func (p *Pulse) OnLower(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onLower = fn
}

// Trigger raises the flag
func (p *Pulse) Trigger() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.active = true
	p.gen++
	gen := p.gen
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.duration, func() { p.clear(gen) })
}

// Active reports whether the flag is raised
func (p *Pulse) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Stop lowers the flag and cancels a pending timer
func (p *Pulse) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.gen++
	p.active = false
}

// clear ignores timers superseded by a later Trigger or Stop
func (p *Pulse) clear(gen uint64) {
	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return
	}
	p.active = false
	p.timer = nil
	fn := p.onLower
	p.mu.Unlock()

	if fn != nil {
		fn()
	}
}
