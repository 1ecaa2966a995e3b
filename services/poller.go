package services

import (
	"context"
	"sync"
	"time"
)

// Poller runs fn on a fixed interval until stopped. The seller panel uses one
// per open view to refresh the order list; it must be stopped when the view
// goes away so a stale panel is never updated.
type Poller struct {
	interval time.Duration
	fn       func(ctx context.Context)

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
}

func NewPoller(interval time.Duration, fn func(ctx context.Context)) *Poller {
	return &Poller{interval: interval, fn: fn}
}

// Start launches the poll loop. Starting a running poller is a no-op.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.running = true

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.fn(ctx)
			}
		}
	}()
}

// Stop cancels the loop without waiting for an in-flight tick. The tick
// itself may stop the poller — a 401 during a background refresh forces a
// logout, which tears the poll down — so waiting here would deadlock. A tick
// already running finishes against the cancelled context and the loop exits
// before the next one. Idempotent.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	p.running = false
	p.cancel()
}

// Running reports whether the loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
