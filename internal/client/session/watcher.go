package session

import (
	"context"
	"time"

	"github.com/BraisonWabwire/shopke-cli/internal/logging"
)

// Watcher polls the store's change sequence so that a session written or
// cleared by another running instance is noticed without a restart. It is
// the cross-instance counterpart of Manager.Subscribe.
type Watcher struct {
	store    Store
	interval time.Duration
	log      logging.Logger
}

func NewWatcher(store Store, interval time.Duration, log logging.Logger) *Watcher {
	return &Watcher{store: store, interval: interval, log: log.With("component", "session-watcher")}
}

// Run polls until ctx is cancelled, invoking onChange whenever the stored
// sequence moved since the previous observation. Read errors are logged and
// the previous sequence kept, so a transient failure cannot masquerade as a
// change.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context)) {
	last, err := w.store.Seq(ctx)
	if err != nil {
		w.log.Warn(ctx, "could not read session seq", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			seq, err := w.store.Seq(ctx)
			if err != nil {
				w.log.Warn(ctx, "could not read session seq", "error", err)
				continue
			}
			if seq != last {
				last = seq
				w.log.Debug(ctx, "session changed externally", "seq", seq)
				onChange(ctx)
			}
		case <-ctx.Done():
			return
		}
	}
}
