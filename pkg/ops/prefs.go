package ops

import (
	"sort"
	"sync"
)

// Preferences tracks which tree handlers run automatically after change
// notifications. Handlers register once at startup and default to enabled;
// toggles survive for the life of the session.
type Preferences struct {
	mu       sync.Mutex
	handlers map[string]bool
}

// NewPreferences creates an empty preference set.
func NewPreferences() *Preferences {
	return &Preferences{handlers: make(map[string]bool)}
}

// RegisterHandlers records the given handlers, enabling any not seen
// before. Already-registered handlers keep their current setting.
func (p *Preferences) RegisterHandlers(handlers []TreeHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, h := range handlers {
		if _, ok := p.handlers[h.ID()]; !ok {
			p.handlers[h.ID()] = true
		}
	}
}

// SetEnabled toggles a handler. Unknown ids are recorded as-is so a
// preference loaded before registration still applies.
func (p *Preferences) SetEnabled(id string, enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[id] = enabled
}

// Enabled reports whether the handler with the given id should run.
func (p *Preferences) Enabled(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handlers[id]
}

// ActiveHandlers returns the ids of all enabled handlers, sorted.
func (p *Preferences) ActiveHandlers() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for id, on := range p.handlers {
		if on {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
