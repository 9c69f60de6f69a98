package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/BraisonWabwire/shopke-cli/internal/client/api"
	"github.com/BraisonWabwire/shopke-cli/internal/client/models"
	"github.com/BraisonWabwire/shopke-cli/internal/logging"
)

// fakeAPI implements api.Client for service tests. Every call is recorded
// in ops so tests can assert both what was called and in which order.
type fakeAPI struct {
	mu  sync.Mutex
	ops []string

	loginRes *api.AuthResult
	loginErr error

	registerRes  *api.AuthResult
	registerErr  error
	lastRegister api.RegisterRequest

	products    []models.Product
	productsErr error

	addProductRes *models.Product
	addProductErr error

	deleteProductErr error

	cart     *models.Cart
	cartErr  error
	fetchErr error

	addToCartErr error
	updateErr    error
	removeErr    error

	orders    []models.Order
	ordersErr error

	// updateStarted/updateGate let tests hold an update in flight.
	updateStarted chan struct{}
	updateGate    chan struct{}
}

func (f *fakeAPI) record(op string) {
	f.mu.Lock()
	f.ops = append(f.ops, op)
	f.mu.Unlock()
}

func (f *fakeAPI) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ops...)
}

func (f *fakeAPI) Login(ctx context.Context, username, password string) (*api.AuthResult, error) {
	f.record("POST auth/login " + username)
	return f.loginRes, f.loginErr
}

func (f *fakeAPI) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResult, error) {
	f.record("POST auth/register " + req.Username)
	f.mu.Lock()
	f.lastRegister = req
	f.mu.Unlock()
	return f.registerRes, f.registerErr
}

func (f *fakeAPI) ListProducts(ctx context.Context) ([]models.Product, error) {
	f.record("GET products")
	return f.products, f.productsErr
}

func (f *fakeAPI) AddProduct(ctx context.Context, p api.NewProduct) (*models.Product, error) {
	f.record("POST products/add " + p.Name)
	return f.addProductRes, f.addProductErr
}

func (f *fakeAPI) DeleteProduct(ctx context.Context, id int64) error {
	f.record(fmt.Sprintf("DELETE products/%d", id))
	return f.deleteProductErr
}

func (f *fakeAPI) FetchCart(ctx context.Context) (*models.Cart, error) {
	f.record("GET cart")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if f.cart == nil {
		return &models.Cart{}, f.cartErr
	}
	cp := *f.cart
	cp.Items = append([]models.CartItem(nil), f.cart.Items...)
	return &cp, f.cartErr
}

func (f *fakeAPI) AddToCart(ctx context.Context, productID int64, quantity int) error {
	f.record(fmt.Sprintf("POST cart/add %d x%d", productID, quantity))
	return f.addToCartErr
}

func (f *fakeAPI) UpdateCartItem(ctx context.Context, itemID int64, quantity int) error {
	f.record(fmt.Sprintf("PATCH cart/items/%d quantity=%d", itemID, quantity))
	if f.updateStarted != nil {
		f.updateStarted <- struct{}{}
	}
	if f.updateGate != nil {
		<-f.updateGate
	}
	return f.updateErr
}

func (f *fakeAPI) RemoveCartItem(ctx context.Context, itemID int64) error {
	f.record(fmt.Sprintf("DELETE cart/items/%d", itemID))
	return f.removeErr
}

func (f *fakeAPI) ListOrders(ctx context.Context) ([]models.Order, error) {
	f.record("GET orders")
	return f.orders, f.ordersErr
}

func (f *fakeAPI) Close() error { return nil }

func quietLogger() logging.Logger {
	return logging.NewDefault(io.Discard, slog.LevelError)
}

func sampleCart() *models.Cart {
	return &models.Cart{
		Items: []models.CartItem{
			{
				ID:       7,
				Product:  models.Product{ID: 2, Name: "Avocado", Price: 120},
				Quantity: 2,
				Subtotal: 240,
			},
			{
				ID:       8,
				Product:  models.Product{ID: 3, Name: "Maize Flour", Price: 210},
				Quantity: 1,
				Subtotal: 210,
			},
		},
		TotalItems: 3,
		TotalPrice: 450,
	}
}
