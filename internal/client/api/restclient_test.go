package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BraisonWabwire/shopke-cli/internal/logging"
)

type staticTokens struct {
	mu  sync.Mutex
	tok string
}

func (s *staticTokens) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tok
}

func (s *staticTokens) set(tok string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok = tok
}

func testLogger() logging.Logger {
	return logging.NewDefault(io.Discard, slog.LevelError)
}

func newTestClient(t *testing.T, handler http.Handler, tok string) (*RESTClient, *staticTokens, *atomic.Int32) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tokens := &staticTokens{tok: tok}
	var teardowns atomic.Int32
	c := NewRESTClient(srv.URL, tokens, func(ctx context.Context) {
		teardowns.Add(1)
	}, testLogger())
	return c, tokens, &teardowns
}

func TestLogin_SendsCredentialsAndDecodesResult(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "jane", body["username"])
		assert.Equal(t, "pw", body["password"])

		_, _ = w.Write([]byte(`{"token":"abc","user":{"id":1,"username":"jane","role":"owner"}}`))
	})

	c, _, _ := newTestClient(t, handler, "")
	res, err := c.Login(context.Background(), "jane", "pw")
	require.NoError(t, err)
	assert.Equal(t, "abc", res.Token)
	assert.Equal(t, int64(1), res.User.ID)
	assert.Equal(t, "jane", res.User.Username)
	assert.Equal(t, "owner", string(res.User.Role))
}

func TestSend_AttachesTokenInFixedFormat(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"items":[],"total_items":0,"total_price":0}`))
	})

	c, _, _ := newTestClient(t, handler, "abc")
	_, err := c.FetchCart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Token abc", gotAuth)
}

func TestUpdateCartItem_PatchesQuantity(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	})

	c, _, _ := newTestClient(t, handler, "abc")
	require.NoError(t, c.UpdateCartItem(context.Background(), 7, 3))
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/cart/items/7", gotPath)
	assert.Equal(t, map[string]int{"quantity": 3}, gotBody)
}

func TestUnauthorized_TeardownHappensExactlyOnce(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	c, _, teardowns := newTestClient(t, handler, "abc")

	const calls = 8
	var wg sync.WaitGroup
	errs := make([]error, calls)
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.FetchCart(context.Background())
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.ErrorIs(t, err, ErrUnauthorized)
	}
	assert.Equal(t, int32(1), teardowns.Load())
}

func TestUnauthorized_LatchRearmsForNewCredential(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	c, tokens, teardowns := newTestClient(t, handler, "first")

	_, err := c.FetchCart(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = c.FetchCart(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(1), teardowns.Load())

	tokens.set("second")
	_, err = c.FetchCart(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(2), teardowns.Load())
}

func TestUnauthorized_AnonymousCallSkipsTeardown(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	c, _, teardowns := newTestClient(t, handler, "")
	_, err := c.Login(context.Background(), "jane", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, int32(0), teardowns.Load())
}

func TestValidationError_ParsesPerFieldMessages(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"username":["already taken"],"password":["too short","too common"],"non_field_errors":["fix the form"]}`))
	})

	c, _, _ := newTestClient(t, handler, "")
	_, err := c.Register(context.Background(), RegisterRequest{Username: "jane"})
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"already taken"}, ve.Fields["username"])
	assert.Equal(t, []string{"too short", "too common"}, ve.Fields["password"])
	assert.Equal(t, "fix the form", ve.Detail)
}

func TestListProducts_AcceptsBothShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"bare array", `[{"id":1,"name":"Avocado","price":"120.00","stock_quantity":4}]`, 1},
		{"paginated envelope", `{"results":[{"id":1,"name":"Avocado","price":120},{"id":2,"name":"Tomatoes","price":"80"}]}`, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})
			c, _, _ := newTestClient(t, handler, "abc")
			got, err := c.ListProducts(context.Background())
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestListProducts_MalformedShapeDegrades(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"count":3}`))
	})
	c, _, _ := newTestClient(t, handler, "abc")
	got, err := c.ListProducts(context.Background())
	assert.ErrorIs(t, err, ErrBadPayload)
	assert.Empty(t, got)
}

func TestStatusClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"forbidden", http.StatusForbidden, ErrPermissionDenied},
		{"not found", http.StatusNotFound, ErrNotFound},
		{"server error", http.StatusInternalServerError, ErrUnavailable},
		{"bad gateway", http.StatusBadGateway, ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			c, _, _ := newTestClient(t, handler, "abc")
			err := c.DeleteProduct(context.Background(), 9)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNetworkFailure_MapsToUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // refuse connections

	c := NewRESTClient(srv.URL, &staticTokens{tok: "abc"}, nil, testLogger())
	_, err := c.FetchCart(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}
