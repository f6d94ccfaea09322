package pool

import (
	"context"
	"time"

	"github.com/codefionn/taskwire/internal/logger"
)

// Prober answers the single question "is this handle still usable". The
// answer is boolean on purpose: whatever went wrong during the probe, the
// remedy is the same, evict and rebuild.
type Prober struct {
	timeout time.Duration
	log     *logger.Logger
}

// NewProber creates a prober. A zero timeout uses DefaultProbeTimeout.
func NewProber(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Prober{
		timeout: timeout,
		log:     logger.Global().WithPrefix("prober"),
	}
}

// Healthy probes a handle. Handles that cannot be pinged are healthy by
// definition.
func (p *Prober) Healthy(ctx context.Context, h Handle) bool {
	pinger, ok := h.(Pinger)
	if !ok {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := pinger.Ping(ctx); err != nil {
		p.log.Debug("probe failed for %s: %v", h.Workspace(), err)
		return false
	}
	return true
}
