package ports

import (
	"context"
	"log"
	"time"
)

type HandlerRefreshFeeds interface {
	Handle(ctx context.Context) error
}

// RefreshFeedsTimer reruns the refresh handler on a fixed interval until the
// context is cancelled.
type RefreshFeedsTimer struct {
	handler  HandlerRefreshFeeds
	interval time.Duration
}

func NewRefreshFeedsTimer(handler HandlerRefreshFeeds, interval time.Duration) *RefreshFeedsTimer {
	return &RefreshFeedsTimer{handler: handler, interval: interval}
}

func (h *RefreshFeedsTimer) Run(ctx context.Context) {
	for {
		if err := h.handler.Handle(ctx); err != nil {
			log.Printf("[WARN] error refreshing feeds %s", err)
		}

		select {
		case <-time.After(h.interval):
			continue
		case <-ctx.Done():
			return
		}
	}
}
