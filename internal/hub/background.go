package hub

import (
	"context"
	"log/slog"
	"time"
)

// Run sweeps idle sessions until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	interval := h.idleTimeout / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "session sweeper started", "idle_timeout", h.idleTimeout)
	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopping")
			return
		case <-ticker.C:
			h.sweep(ctx)
		}
	}
}

// sweep removes every session that has no client and has been idle for
// longer than the idle timeout.
func (h *Hub) sweep(ctx context.Context) int {
	now := h.now()

	h.mu.RLock()
	var idle []string
	for id, s := range h.sessions {
		if s.Idle(now, h.idleTimeout) {
			idle = append(idle, id)
		}
	}
	h.mu.RUnlock()

	removed := 0
	for _, id := range idle {
		if err := h.remove(ctx, id, "idle"); err == nil {
			removed++
		}
	}
	return removed
}
