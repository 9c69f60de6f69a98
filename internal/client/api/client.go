// Package api is the single outbound-request path of the client. Every REST
// call goes through one gateway that attaches the stored credential, tags the
// request, classifies error responses, and forces session teardown when the
// credential is rejected.
package api

import (
	"context"

	"github.com/BraisonWabwire/shopke-cli/internal/client/models"
)

// AuthResult is the success shape of the login and register endpoints.
type AuthResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// RegisterRequest carries the registration form fields.
type RegisterRequest struct {
	Username    string      `json:"username"`
	Email       string      `json:"email,omitempty"`
	Password    string      `json:"password"`
	Password2   string      `json:"password2"`
	Role        models.Role `json:"role"`
	ContactInfo string      `json:"contact_info,omitempty"`
}

// NewProduct carries the add-product form fields. Price and stock are kept
// as entered; the server validates and normalizes them. ImagePath, when
// non-empty, names a local file uploaded as the multipart "image" part.
type NewProduct struct {
	Name          string
	Description   string
	Price         string
	StockQuantity string
	Barcode       string
	SKU           string
	ImagePath     string
}

// Client is the commerce API surface the rest of the client programs
// against. The concrete implementation is RESTClient; tests substitute
// lightweight fakes.
type Client interface {
	Login(ctx context.Context, username, password string) (*AuthResult, error)
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)

	ListProducts(ctx context.Context) ([]models.Product, error)
	AddProduct(ctx context.Context, p NewProduct) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	FetchCart(ctx context.Context) (*models.Cart, error)
	AddToCart(ctx context.Context, productID int64, quantity int) error
	UpdateCartItem(ctx context.Context, itemID int64, quantity int) error
	RemoveCartItem(ctx context.Context, itemID int64) error

	ListOrders(ctx context.Context) ([]models.Order, error)

	Close() error
}
