package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/BraisonWabwire/shopke-cli/internal/client/models"
	"github.com/BraisonWabwire/shopke-cli/internal/logging"
)

// AuthHeaderPrefix is the fixed credential scheme the API expects in the
// Authorization header.
const AuthHeaderPrefix = "Token "

// TokenSource supplies the current credential, or "" when anonymous.
// The session manager satisfies this interface.
type TokenSource interface {
	Token() string
}

// TeardownFunc is invoked at most once per rejected credential when the
// server answers 401 to an authenticated request. It must clear the
// persisted session and the in-memory identity; the UI observes the
// identity change and drops to the login screen.
type TeardownFunc func(ctx context.Context)

// RESTClient implements Client over the commerce REST API. All calls funnel
// through do/doMultipart so credential attachment and unauthorized handling
// live in exactly one place.
type RESTClient struct {
	baseURL        string
	httpc          *http.Client
	tokens         TokenSource
	onUnauthorized TeardownFunc
	log            logging.Logger

	mu            sync.Mutex
	rejectedToken string
}

// NewRESTClient builds the gateway. No request timeout is imposed here;
// the transport default applies.
func NewRESTClient(baseURL string, tokens TokenSource, onUnauthorized TeardownFunc, log logging.Logger) *RESTClient {
	return &RESTClient{
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpc:          &http.Client{},
		tokens:         tokens,
		onUnauthorized: onUnauthorized,
		log:            log.With("component", "api"),
	}
}

func (c *RESTClient) url(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// handleUnauthorized runs the teardown hook at most once per rejected
// credential. Concurrent in-flight calls that fail with the same token do
// not queue additional teardowns; a fresh login issues a new token, which
// rearms the latch. Anonymous 401s (e.g. a failed login attempt) carry no
// session to tear down and are skipped.
func (c *RESTClient) handleUnauthorized(ctx context.Context, token string) {
	if token == "" {
		return
	}
	c.mu.Lock()
	if c.rejectedToken == token {
		c.mu.Unlock()
		return
	}
	c.rejectedToken = token
	c.mu.Unlock()

	c.log.Warn(ctx, "credential rejected, tearing down session")
	if c.onUnauthorized != nil {
		c.onUnauthorized(ctx)
	}
}

func (c *RESTClient) send(ctx context.Context, req *http.Request, token string, out any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", AuthHeaderPrefix+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request failed", "method", req.Method, "url", req.URL.String(), "error", err)
		return ErrUnavailable
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ErrUnavailable
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.handleUnauthorized(ctx, token)
		return ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		return ErrPermissionDenied
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return parseValidationError(body)
	case resp.StatusCode >= 500:
		return ErrUnavailable
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if out != nil && len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("%w: %v", ErrBadPayload, err)
		}
	}
	return nil
}

// do performs one JSON round trip. A nil body sends no payload; a nil out
// discards the response body.
func (c *RESTClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(ctx, req, c.tokens.Token(), out)
}

// parseValidationError decodes the structured per-field error body the API
// returns for invalid input. Values may be a string or a list of strings;
// the "detail" and "non_field_errors" keys become the overall message.
func parseValidationError(body []byte) error {
	ve := &ValidationError{Fields: map[string][]string{}}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return ve
	}
	for name, msg := range raw {
		var many []string
		var one string
		switch {
		case json.Unmarshal(msg, &many) == nil:
		case json.Unmarshal(msg, &one) == nil:
			many = []string{one}
		default:
			continue
		}
		if name == "detail" || name == "non_field_errors" {
			ve.Detail = strings.Join(many, "; ")
			continue
		}
		ve.Fields[name] = many
	}
	return ve
}

func (c *RESTClient) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	body := map[string]string{"username": username, "password": password}
	var res AuthResult
	if err := c.do(ctx, http.MethodPost, "auth/login", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *RESTClient) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	var res AuthResult
	if err := c.do(ctx, http.MethodPost, "auth/register", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListProducts tolerates both response shapes the catalog is known to
// produce: a bare array and a paginated {"results": [...]} envelope.
// Anything else maps to ErrBadPayload and an empty list.
func (c *RESTClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "products", nil, &raw); err != nil {
		return nil, err
	}

	var list []models.Product
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var paged struct {
		Results []models.Product `json:"results"`
	}
	if err := json.Unmarshal(raw, &paged); err == nil && paged.Results != nil {
		return paged.Results, nil
	}
	return nil, fmt.Errorf("%w: products list", ErrBadPayload)
}

func (c *RESTClient) AddProduct(ctx context.Context, p NewProduct) (*models.Product, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"name":           strings.TrimSpace(p.Name),
		"description":    strings.TrimSpace(p.Description),
		"price":          strings.TrimSpace(p.Price),
		"stock_quantity": strings.TrimSpace(p.StockQuantity),
		"barcode":        strings.TrimSpace(p.Barcode),
		"sku":            strings.TrimSpace(p.SKU),
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("encode form: %w", err)
		}
	}

	if p.ImagePath != "" {
		f, err := os.Open(p.ImagePath)
		if err != nil {
			return nil, fmt.Errorf("open image: %w", err)
		}
		defer f.Close()
		part, err := w.CreateFormFile("image", filepath.Base(p.ImagePath))
		if err != nil {
			return nil, fmt.Errorf("encode form: %w", err)
		}
		if _, err := io.Copy(part, f); err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("encode form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("products/add"), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var created models.Product
	if err := c.send(ctx, req, c.tokens.Token(), &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *RESTClient) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("products/%d", id), nil, nil)
}

func (c *RESTClient) FetchCart(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	if err := c.do(ctx, http.MethodGet, "cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *RESTClient) AddToCart(ctx context.Context, productID int64, quantity int) error {
	body := map[string]any{"product_id": productID, "quantity": quantity}
	return c.do(ctx, http.MethodPost, "cart/add", body, nil)
}

func (c *RESTClient) UpdateCartItem(ctx context.Context, itemID int64, quantity int) error {
	body := map[string]int{"quantity": quantity}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("cart/items/%d", itemID), body, nil)
}

func (c *RESTClient) RemoveCartItem(ctx context.Context, itemID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("cart/items/%d", itemID), nil, nil)
}

func (c *RESTClient) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *RESTClient) Close() error {
	c.httpc.CloseIdleConnections()
	return nil
}
