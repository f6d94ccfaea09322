// Package pool caches one connection handle per canonical workspace and
// keeps it healthy: cached handles are probed lazily, evicted on probe
// failure, and rebuilt with exponential backoff. Handles are immutable
// value objects; the pool replaces entries, it never mutates them.
package pool

import (
	"context"
	"encoding/json"
	"time"

	"github.com/codefionn/taskwire/internal/endpoint"
	"github.com/codefionn/taskwire/internal/wire"
)

// DefaultProbeTimeout bounds a liveness probe, independently of the normal
// operation timeout.
const DefaultProbeTimeout = 2 * time.Second

// Handle is everything needed to perform one protocol exchange against one
// workspace's daemon. Implementations must be immutable and safe for
// concurrent use.
type Handle interface {
	// Workspace returns the canonical workspace identity this handle
	// serves.
	Workspace() string
	// Do performs a single request/response exchange.
	Do(ctx context.Context, operation string, args map[string]any) (json.RawMessage, error)
}

// Pinger is implemented by handles that support a liveness probe. Handles
// without it cannot go stale and are treated as unconditionally healthy.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Factory builds a fresh handle for a canonical workspace. Construction may
// walk the filesystem (endpoint discovery) but never performs a protocol
// exchange.
type Factory func(ctx context.Context, ws string) (Handle, error)

// SocketHandle talks to a daemon over its Unix socket. It is an immutable
// value: cheap to hold, expensive only to construct (the discovery walk).
type SocketHandle struct {
	workspace    string
	socketPath   string
	workingDir   string
	actor        string
	timeout      time.Duration
	probeTimeout time.Duration
}

// SocketHandleOption customizes a SocketHandle at construction.
type SocketHandleOption func(*SocketHandle)

// WithProbeTimeout overrides the liveness probe timeout.
func WithProbeTimeout(timeout time.Duration) SocketHandleOption {
	return func(h *SocketHandle) {
		h.probeTimeout = timeout
	}
}

// NewSocketHandle composes resolver and locator output into a handle.
func NewSocketHandle(ws string, ep *endpoint.Endpoint, actor string, timeout time.Duration, opts ...SocketHandleOption) *SocketHandle {
	h := &SocketHandle{
		workspace:    ws,
		socketPath:   ep.SocketPath,
		workingDir:   ep.WorkingDir,
		actor:        actor,
		timeout:      timeout,
		probeTimeout: DefaultProbeTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Workspace returns the canonical workspace identity.
func (h *SocketHandle) Workspace() string { return h.workspace }

// SocketPath returns the daemon socket this handle dials.
func (h *SocketHandle) SocketPath() string { return h.socketPath }

// Do performs one exchange with the daemon.
func (h *SocketHandle) Do(ctx context.Context, operation string, args map[string]any) (json.RawMessage, error) {
	req := wire.NewRequest(operation, args, h.workingDir, h.actor)
	return wire.Exchange(ctx, h.socketPath, req, h.timeout)
}

// Ping issues the minimal liveness exchange with the probe timeout. Any
// error means unhealthy.
func (h *SocketHandle) Ping(ctx context.Context) error {
	req := wire.NewRequest(wire.OpPing, nil, h.workingDir, h.actor)
	_, err := wire.Exchange(ctx, h.socketPath, req, h.probeTimeout)
	return err
}
