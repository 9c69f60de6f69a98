package services

import (
	"context"
	"time"

	"github.com/BraisonWabwire/shopke-cli/internal/logging"
)

// BadgePoller keeps the navigation cart badge fresh by refetching the cart
// on a fixed period. It runs only while the current identity has the
// customer role; the app starts it on that transition and cancels its
// context on any transition away. Fetch errors are logged, never surfaced:
// the badge simply keeps its last value.
type BadgePoller struct {
	cart     *CartService
	interval time.Duration
	log      logging.Logger
}

func NewBadgePoller(cart *CartService, interval time.Duration, log logging.Logger) *BadgePoller {
	return &BadgePoller{cart: cart, interval: interval, log: log.With("component", "badge-poller")}
}

// Run fetches immediately, then on every tick until ctx is cancelled.
func (p *BadgePoller) Run(ctx context.Context) {
	if err := p.cart.FetchCart(ctx); err != nil {
		p.log.Debug(ctx, "cart poll failed", "error", err)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := p.cart.FetchCart(ctx); err != nil {
				p.log.Debug(ctx, "cart poll failed", "error", err)
				continue
			}
			p.log.Debug(ctx, "cart poll", "items", p.cart.BadgeCount())
		case <-ctx.Done():
			return
		}
	}
}
