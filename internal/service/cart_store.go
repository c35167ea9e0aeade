package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/metrics"
	"github.com/jafarshop/storefront/pkg/errors"
)

// CartSource fetches the remote cart document
type CartSource interface {
	FetchCart(ctx context.Context) (*domain.Cart, error)
}

// MutationHook is called after every committed cart mutation
type MutationHook interface {
	RecordMutation(ctx context.Context, event domain.MutationEvent) error
}

// CartStore owns the cart snapshot of one session. The view reads it through
// Snapshot and changes it only through the mutation methods.
type CartStore struct {
	sessionID  uuid.UUID
	source     CartSource
	sourceName string
	hook       MutationHook
	logger     *zap.Logger

	mu   sync.RWMutex
	cart *domain.Cart
}

// NewCartStore creates an empty store. hook may be nil.
func NewCartStore(sessionID uuid.UUID, source CartSource, hook MutationHook, logger *zap.Logger) *CartStore {
	name := "cart source"
	if s, ok := source.(interface{ SourceURL() string }); ok {
		name = s.SourceURL()
	}
	return &CartStore{
		sessionID:  sessionID,
		source:     source,
		sourceName: name,
		hook:       hook,
		logger:     logger.With(zap.String("session_id", sessionID.String())),
	}
}

// Load fetches the cart and replaces the snapshot. On failure the previous
// snapshot, if any, is left as it was.
func (s *CartStore) Load(ctx context.Context) (*domain.Cart, error) {
	cart, err := s.source.FetchCart(ctx)
	switch {
	case err == nil && cart == nil:
		err = fmt.Errorf("cart source returned no cart")
	case err == nil:
		err = cart.Normalize()
	}
	if err != nil {
		metrics.CartFetchTotal.WithLabelValues("failed").Inc()
		s.logger.Error("Failed to load cart", zap.Error(err))
		return nil, &errors.ErrFetchFailed{Source: s.sourceName, Cause: err}
	}

	declared := cart.ItemsSubtotalPrice
	cart.Recalculate()
	if declared != cart.ItemsSubtotalPrice {
		s.logger.Warn("Cart subtotal does not match its items, using recomputed value",
			zap.Int64("declared", declared),
			zap.Int64("computed", cart.ItemsSubtotalPrice),
		)
	}

	s.mu.Lock()
	s.cart = cart
	s.mu.Unlock()

	metrics.CartFetchTotal.WithLabelValues("ok").Inc()
	s.logger.Info("Cart loaded", zap.Int("items", len(cart.Items)))

	out := cart.Clone()
	return &out, nil
}

// Loaded reports whether a snapshot exists
func (s *CartStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart != nil
}

// Snapshot returns a copy of the current cart
func (s *CartStore) Snapshot() (domain.Cart, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cart == nil {
		return domain.Cart{}, false
	}
	return s.cart.Clone(), true
}

// IndexOf translates a stable item id into its current display position
func (s *CartStore) IndexOf(id domain.ItemID) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cart == nil {
		return -1, false
	}
	return s.cart.IndexOf(id)
}

// SetQuantity sets the quantity of the item at index. A quantity below the
// item's minimum, or one the cart subtotal cannot hold, leaves the cart
// unchanged and returns ErrInvalidQuantity.
func (s *CartStore) SetQuantity(ctx context.Context, index, quantity int) error {
	s.mu.Lock()
	if s.cart == nil {
		s.mu.Unlock()
		return errors.ErrCartNotLoaded
	}
	s.checkIndex(index)

	item := &s.cart.Items[index]
	maxQuantity := s.cart.MaxQuantity(index)
	if quantity < item.QuantityRule.Min || quantity > maxQuantity {
		s.mu.Unlock()
		metrics.CartMutationsTotal.WithLabelValues(string(domain.MutationQuantityChanged), "rejected").Inc()
		return &errors.ErrInvalidQuantity{ItemID: item.ID, Quantity: quantity, Min: item.QuantityRule.Min, Max: maxQuantity}
	}

	old := item.Quantity
	item.Quantity = quantity
	s.cart.Recalculate()

	event := domain.MutationEvent{
		SessionID:   s.sessionID,
		Kind:        domain.MutationQuantityChanged,
		ItemID:      item.ID,
		Title:       item.Title,
		OldQuantity: old,
		NewQuantity: quantity,
		Delta:       item.Price * int64(quantity-old),
		Subtotal:    s.cart.ItemsSubtotalPrice,
	}
	s.mu.Unlock()

	metrics.CartMutationsTotal.WithLabelValues(string(domain.MutationQuantityChanged), "ok").Inc()
	s.record(ctx, event)
	return nil
}

// SetQuantityByID is SetQuantity addressed by item id
func (s *CartStore) SetQuantityByID(ctx context.Context, id domain.ItemID, quantity int) error {
	index, err := s.resolve(id)
	if err != nil {
		return err
	}
	return s.SetQuantity(ctx, index, quantity)
}

// RemoveItem removes the item at index and returns it. Indices come from the
// current render, so an out of range index is a programming error and panics.
func (s *CartStore) RemoveItem(ctx context.Context, index int) domain.CartItem {
	s.mu.Lock()
	if s.cart == nil {
		s.mu.Unlock()
		panic("cart: RemoveItem called before the cart was loaded")
	}
	s.checkIndex(index)

	item := s.cart.Items[index]
	s.cart.Items = append(s.cart.Items[:index], s.cart.Items[index+1:]...)

	removed := item.LineSubtotal()
	s.cart.ItemsSubtotalPrice -= removed
	s.cart.OriginalTotalPrice -= removed

	event := domain.MutationEvent{
		SessionID:   s.sessionID,
		Kind:        domain.MutationItemRemoved,
		ItemID:      item.ID,
		Title:       item.Title,
		OldQuantity: item.Quantity,
		Delta:       -removed,
		Subtotal:    s.cart.ItemsSubtotalPrice,
	}
	s.mu.Unlock()

	metrics.CartMutationsTotal.WithLabelValues(string(domain.MutationItemRemoved), "ok").Inc()
	s.record(ctx, event)
	return item
}

// RemoveItemByID is RemoveItem addressed by item id. Unknown ids are an
// ordinary error here since they can come from a stale page.
func (s *CartStore) RemoveItemByID(ctx context.Context, id domain.ItemID) (domain.CartItem, error) {
	index, err := s.resolve(id)
	if err != nil {
		return domain.CartItem{}, err
	}
	return s.RemoveItem(ctx, index), nil
}

func (s *CartStore) resolve(id domain.ItemID) (int, error) {
	if !s.Loaded() {
		return -1, errors.ErrCartNotLoaded
	}
	index, ok := s.IndexOf(id)
	if !ok {
		return -1, &errors.ErrNotFound{Resource: "cart item", ID: id.String()}
	}
	return index, nil
}

// checkIndex must be called with s.mu held
func (s *CartStore) checkIndex(index int) {
	if index < 0 || index >= len(s.cart.Items) {
		n := len(s.cart.Items)
		s.mu.Unlock()
		panic(fmt.Sprintf("cart: item index %d out of range [0,%d)", index, n))
	}
}

func (s *CartStore) record(ctx context.Context, event domain.MutationEvent) {
	if s.hook == nil {
		return
	}
	if err := s.hook.RecordMutation(ctx, event); err != nil {
		s.logger.Warn("Failed to record cart mutation",
			zap.String("kind", string(event.Kind)),
			zap.String("item_id", event.ItemID.String()),
			zap.Error(err),
		)
	}
}
