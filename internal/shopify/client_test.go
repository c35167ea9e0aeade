package shopify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/domain"
)

const mugCart = `{
  "items": [
    {"id": 49839206859071, "title": "Mug", "image": "https://cdn.example.com/mug.png",
     "price": 50000, "quantity": 2, "quantity_rule": {"min": 1}}
  ],
  "items_subtotal_price": 100000,
  "original_total_price": 100000
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(config.CartSourceConfig{
		URL:          server.URL,
		FetchTimeout: 2 * time.Second,
	}, zap.NewNop())
}

func TestFetchCart_DecodesDocument(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(mugCart))
	})

	cart, err := client.FetchCart(context.Background())
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	item := cart.Items[0]
	assert.Equal(t, domain.ItemID("49839206859071"), item.ID)
	assert.Equal(t, "Mug", item.Title)
	assert.Equal(t, int64(50000), item.Price)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, 1, item.QuantityRule.Min)
	assert.Equal(t, int64(100000), cart.ItemsSubtotalPrice)
	assert.Equal(t, int64(100000), cart.OriginalTotalPrice)
}

func TestFetchCart_MissingItemsStaysNil(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items_subtotal_price": 0}`))
	})

	cart, err := client.FetchCart(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cart.Items)
}

func TestFetchCart_StatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})

	_, err := client.FetchCart(context.Background())
	assert.ErrorContains(t, err, "status 404")
}

func TestFetchCart_MalformedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items": [`))
	})

	_, err := client.FetchCart(context.Background())
	assert.ErrorContains(t, err, "unmarshal")
}

func TestFetchCart_OpensBreakerAfterRepeatedFailures(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	for i := 0; i < 5; i++ {
		_, err := client.FetchCart(context.Background())
		require.Error(t, err)
	}

	_, err := client.FetchCart(context.Background())
	assert.ErrorContains(t, err, "circuit breaker")
	assert.Equal(t, 5, calls)
}

func TestFetchCart_HonorsContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.FetchCart(ctx)
	assert.Error(t, err)
}
