package services

import (
	"context"
	"errors"
	"sync"

	"github.com/BraisonWabwire/shopke-cli/internal/client/api"
	"github.com/BraisonWabwire/shopke-cli/internal/client/models"
	"github.com/BraisonWabwire/shopke-cli/internal/logging"
)

// ErrItemBusy means a mutation for the same cart item is still in flight.
// Other items remain mutable; the caller should simply wait and retry.
var ErrItemBusy = errors.New("cart item update already in flight")

// ConfirmFunc asks the user a yes/no question. The CLI wires an interactive
// prompt; tests substitute canned answers.
type ConfirmFunc func(prompt string) bool

// CartService is the single source of truth for the cart as rendered. The
// held cart is always the result of a server fetch: mutations PATCH/DELETE
// and then refetch rather than apply the delta locally, so client-computed
// and server-computed totals can never drift apart.
//
// When several fetches overlap (a manual refresh racing the badge poller),
// the last response to complete wins. That relaxed policy is deliberate.
type CartService struct {
	client  api.Client
	confirm ConfirmFunc
	log     logging.Logger

	mu       sync.Mutex
	cart     *models.Cart
	inflight map[int64]struct{}
}

func NewCartService(client api.Client, confirm ConfirmFunc, log logging.Logger) *CartService {
	return &CartService{
		client:   client,
		confirm:  confirm,
		log:      log.With("component", "cart"),
		inflight: map[int64]struct{}{},
	}
}

// FetchCart replaces the held cart wholesale with the server's view. On
// failure the previous cart is left untouched and the error returned for
// the caller to display.
func (s *CartService) FetchCart(ctx context.Context) error {
	cart, err := s.client.FetchCart(ctx)
	if err != nil {
		return err
	}
	if !cart.ConsistentTotals() {
		s.log.Warn(ctx, "server cart totals do not match item lines",
			"total_items", cart.TotalItems, "total_price", float64(cart.TotalPrice))
	}

	s.mu.Lock()
	s.cart = cart
	s.mu.Unlock()
	return nil
}

// Cart returns a snapshot of the last successfully fetched cart, or nil.
func (s *CartService) Cart() *models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		return nil
	}
	cp := *s.cart
	cp.Items = append([]models.CartItem(nil), s.cart.Items...)
	return &cp
}

// BadgeCount returns the item count of the last fetched cart, or 0 when no
// cart has ever been fetched. It never fails.
func (s *CartService) BadgeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		return 0
	}
	return s.cart.TotalItems
}

// Reset drops the held cart, e.g. on logout, so the badge reads 0 again.
func (s *CartService) Reset() {
	s.mu.Lock()
	s.cart = nil
	s.mu.Unlock()
}

func (s *CartService) acquireItem(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[id]; busy {
		return false
	}
	s.inflight[id] = struct{}{}
	return true
}

func (s *CartService) releaseItem(id int64) {
	s.mu.Lock()
	delete(s.inflight, id)
	s.mu.Unlock()
}

// SetQuantity updates one item's quantity and reconverges via FetchCart.
// Quantities below 1 are rejected locally without a network call: a
// decrement at quantity 1 is a no-op, never a removal. Only the named item
// is guarded against duplicate submission; other items stay mutable.
func (s *CartService) SetQuantity(ctx context.Context, itemID int64, quantity int) error {
	if quantity < 1 {
		return nil
	}
	if !s.acquireItem(itemID) {
		return ErrItemBusy
	}
	defer s.releaseItem(itemID)

	if err := s.client.UpdateCartItem(ctx, itemID, quantity); err != nil {
		return err
	}
	return s.FetchCart(ctx)
}

// RemoveItem deletes one line after explicit user confirmation, then
// reconverges. A declined confirmation does nothing. On failure the item
// stays in the held cart.
func (s *CartService) RemoveItem(ctx context.Context, itemID int64) error {
	if s.confirm != nil && !s.confirm("Remove this item from cart?") {
		return nil
	}
	if !s.acquireItem(itemID) {
		return ErrItemBusy
	}
	defer s.releaseItem(itemID)

	if err := s.client.RemoveCartItem(ctx, itemID); err != nil {
		return err
	}
	return s.FetchCart(ctx)
}

// Add puts a product into the cart and reconverges so the badge count is
// current immediately.
func (s *CartService) Add(ctx context.Context, productID int64, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	if err := s.client.AddToCart(ctx, productID, quantity); err != nil {
		return err
	}
	return s.FetchCart(ctx)
}
