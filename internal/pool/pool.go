package pool

import (
	"context"
	"sync"

	"github.com/codefionn/taskwire/internal/logger"
)

// Pool caches at most one handle per canonical workspace. An entry moves
// through three states: absent, present and healthy, present and unhealthy.
// The only transition out of unhealthy is eviction followed by
// reconnection; entries are replaced wholesale, never repaired in place.
type Pool struct {
	factory Factory
	prober  *Prober
	recon   *Reconnector
	onEvict func(ws string)
	log     *logger.Logger

	mu      sync.Mutex
	entries map[string]Handle
}

// Option customizes a Pool.
type Option func(*Pool)

// WithProber overrides the health prober.
func WithProber(p *Prober) Option {
	return func(pl *Pool) {
		if p != nil {
			pl.prober = p
		}
	}
}

// WithReconnector overrides the reconnector used after eviction.
func WithReconnector(r *Reconnector) Option {
	return func(pl *Pool) {
		if r != nil {
			pl.recon = r
		}
	}
}

// WithOnEvict installs a callback invoked after an entry is evicted, so
// per-workspace state keyed on the same identity (version checks) can be
// invalidated alongside the handle.
func WithOnEvict(fn func(ws string)) Option {
	return func(pl *Pool) {
		pl.onEvict = fn
	}
}

// New creates a pool that builds handles with factory.
func New(factory Factory, opts ...Option) *Pool {
	p := &Pool{
		factory: factory,
		log:     logger.Global().WithPrefix("pool"),
		entries: make(map[string]Handle),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.prober == nil {
		p.prober = NewProber(0)
	}
	if p.recon == nil {
		p.recon = NewReconnector(p.prober)
	}
	return p
}

// Acquire returns a usable handle for the canonical workspace ws. A cached
// handle is probed first and evicted on failure; a missing or evicted entry
// is rebuilt. The pool lock covers the check-construct-insert sequence for
// new entries (construction is filesystem work only) but is never held
// across a protocol exchange.
func (p *Pool) Acquire(ctx context.Context, ws string) (Handle, error) {
	p.mu.Lock()
	h, ok := p.entries[ws]
	if !ok {
		built, err := p.factory(ctx, ws)
		if err != nil {
			p.mu.Unlock()
			return nil, err
		}
		p.entries[ws] = built
		p.mu.Unlock()
		p.log.Debug("built handle for %s", ws)
		return built, nil
	}
	p.mu.Unlock()

	if p.prober.Healthy(ctx, h) {
		return h, nil
	}

	p.log.Info("handle for %s failed probe, evicting", ws)
	p.evict(ws, h)

	fresh, err := p.recon.Reconnect(ctx, ws, p.factory)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.entries[ws] = fresh
	p.mu.Unlock()
	return fresh, nil
}

// Invalidate drops the cached entry for ws, if any. The next Acquire builds
// a fresh handle.
func (p *Pool) Invalidate(ws string) {
	p.mu.Lock()
	_, ok := p.entries[ws]
	if ok {
		delete(p.entries, ws)
	}
	p.mu.Unlock()
	if ok {
		p.notifyEvict(ws)
	}
}

// Size reports how many workspaces currently have a cached handle.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// evict removes the entry for ws only if it is still the handle that failed
// the probe; a concurrent reconnection may already have replaced it.
func (p *Pool) evict(ws string, stale Handle) {
	p.mu.Lock()
	cur, ok := p.entries[ws]
	if ok && cur == stale {
		delete(p.entries, ws)
	} else {
		ok = false
	}
	p.mu.Unlock()
	if ok {
		p.notifyEvict(ws)
	}
}

func (p *Pool) notifyEvict(ws string) {
	if p.onEvict != nil {
		p.onEvict(ws)
	}
}
