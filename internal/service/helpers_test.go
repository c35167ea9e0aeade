package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/money"
)

type fakeSource struct {
	cart  *domain.Cart
	err   error
	calls int
}

func (f *fakeSource) FetchCart(ctx context.Context) (*domain.Cart, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	c := f.cart.Clone()
	return &c, nil
}

type recordingHook struct {
	events []domain.MutationEvent
	err    error
}

func (h *recordingHook) RecordMutation(ctx context.Context, event domain.MutationEvent) error {
	h.events = append(h.events, event)
	return h.err
}

func mugCart() *domain.Cart {
	return &domain.Cart{
		Items: []domain.CartItem{
			{ID: "1", Title: "Mug", Image: "https://cdn.example.com/mug.png", Price: 50000, Quantity: 2, QuantityRule: domain.QuantityRule{Min: 1}},
		},
		ItemsSubtotalPrice: 100000,
		OriginalTotalPrice: 100000,
	}
}

func kitchenCart() *domain.Cart {
	cart := &domain.Cart{
		Items: []domain.CartItem{
			{ID: "1", Title: "Mug", Price: 50000, Quantity: 2, QuantityRule: domain.QuantityRule{Min: 1}},
			{ID: "2", Title: "Plate", Price: 1250, Quantity: 4, QuantityRule: domain.QuantityRule{Min: 2}},
			{ID: "3", Title: "Spoon", Price: 99, Quantity: 12, QuantityRule: domain.QuantityRule{Min: 6}},
		},
	}
	cart.Recalculate()
	return cart
}

func newLoadedStore(t *testing.T, cart *domain.Cart, hook MutationHook) *CartStore {
	t.Helper()
	store := NewCartStore(uuid.New(), &fakeSource{cart: cart}, hook, zap.NewNop())
	_, err := store.Load(context.Background())
	require.NoError(t, err)
	return store
}

func newRupeeFormatter(t *testing.T) *money.Formatter {
	t.Helper()
	f, err := money.NewFormatter("en", "Rs.")
	require.NoError(t, err)
	return f
}

func newLoadedView(t *testing.T, cart *domain.Cart) *CartView {
	t.Helper()
	return NewCartView(newLoadedStore(t, cart, nil), newRupeeFormatter(t), zap.NewNop())
}
