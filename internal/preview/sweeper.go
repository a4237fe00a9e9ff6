package preview

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"cordoba/internal/port"
)

// Sweeper periodically evicts expired previews.
type Sweeper struct {
	store    port.PreviewStore
	interval time.Duration
	log      logrus.FieldLogger
}

// NewSweeper creates a new Sweeper.
func NewSweeper(store port.PreviewStore, interval time.Duration, log logrus.FieldLogger) *Sweeper {
	return &Sweeper{store: store, interval: interval, log: log.WithField("component", "preview_sweeper")}
}

// Start runs the sweep loop until ctx is canceled.
func (w *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.WithField("interval", w.interval.String()).Info("started")
	for {
		select {
		case <-ctx.Done():
			w.log.Info("shutdown complete")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *Sweeper) sweep(ctx context.Context) {
	n, err := w.store.EvictExpired(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.log.WithError(err).Warn("evicting expired previews")
		return
	}
	if n > 0 {
		w.log.WithField("evicted", n).Debug("expired previews evicted")
	}
}
