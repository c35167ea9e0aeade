package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/money"
	"github.com/jafarshop/storefront/pkg/errors"
)

// User-facing messages
const (
	MsgQuantityBelowMinimum = "Quantity must be at least the minimum allowed."
	MsgQuantityAboveMaximum = "Quantity is larger than the cart can hold."
	MsgCartLoadFailed       = "Failed to load cart data."
)

// Confirmer asks the user to confirm an action
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// RowView is the display form of one cart item
type RowView struct {
	Index        int    `json:"index"`
	ID           string `json:"id"`
	Title        string `json:"title"`
	Image        string `json:"image"`
	UnitPrice    string `json:"unit_price"`
	Quantity     int    `json:"quantity"`
	MinQuantity  int    `json:"min_quantity"`
	LineSubtotal string `json:"line_subtotal"`
}

// SummaryView is the display form of the cart totals
type SummaryView struct {
	Subtotal string `json:"subtotal"`
	Total    string `json:"total"`
}

// CartViewModel is everything a renderer needs to draw the cart
type CartViewModel struct {
	Rows    []RowView   `json:"rows"`
	Summary SummaryView `json:"summary"`
}

// QuantityOutcome tells a renderer whether to keep or revert a quantity input
type QuantityOutcome string

const (
	QuantityCommitted QuantityOutcome = "committed"
	QuantityReverted  QuantityOutcome = "reverted"
)

// QuantityChange is the partial re-render produced by a quantity edit
type QuantityChange struct {
	Outcome      QuantityOutcome      `json:"outcome"`
	Row          RowView              `json:"row"`
	Summary      SummaryView          `json:"summary"`
	RevertTo     int                  `json:"revert_to,omitempty"`
	Notification *domain.Notification `json:"notification,omitempty"`
}

// CartView projects a CartStore into view models and turns user input into
// store mutations. It is not safe for concurrent use; callers serialize
// events per session.
type CartView struct {
	store     *CartStore
	formatter *money.Formatter
	rows      map[domain.ItemID]domain.RowState
	logger    *zap.Logger
}

// NewCartView creates a view over store
func NewCartView(store *CartStore, formatter *money.Formatter, logger *zap.Logger) *CartView {
	return &CartView{
		store:     store,
		formatter: formatter,
		rows:      make(map[domain.ItemID]domain.RowState),
		logger:    logger,
	}
}

// Store returns the underlying store
func (v *CartView) Store() *CartStore {
	return v.store
}

// Render projects cart into a view model. It has no side effects, so
// rendering the same cart twice yields the same model.
func (v *CartView) Render(cart domain.Cart) CartViewModel {
	vm := CartViewModel{
		Rows:    make([]RowView, 0, len(cart.Items)),
		Summary: v.summary(cart),
	}
	for i, item := range cart.Items {
		vm.Rows = append(vm.Rows, v.row(i, item))
	}
	return vm
}

// Current renders the store's snapshot. It returns false before the first
// successful load.
func (v *CartView) Current() (CartViewModel, bool) {
	cart, ok := v.store.Snapshot()
	if !ok {
		return CartViewModel{}, false
	}
	for _, item := range cart.Items {
		if _, seen := v.rows[item.ID]; !seen {
			v.rows[item.ID] = domain.RowStateDisplayed
		}
	}
	return v.Render(cart), true
}

// Reload fetches the cart again and renders it. Rows removed earlier get a
// fresh lifecycle if the source still lists them.
func (v *CartView) Reload(ctx context.Context) (CartViewModel, error) {
	if _, err := v.store.Load(ctx); err != nil {
		return CartViewModel{}, err
	}
	v.rows = make(map[domain.ItemID]domain.RowState)
	vm, _ := v.Current()
	return vm, nil
}

// ChangeQuantity handles an edit of the quantity input at index. raw is read
// the way a number input is parsed: leading whitespace and sign, then digits.
// When the value is unusable the returned change says to revert the input to
// the committed quantity and the error is an ErrInvalidQuantity.
func (v *CartView) ChangeQuantity(ctx context.Context, index int, raw string) (QuantityChange, error) {
	cart, ok := v.store.Snapshot()
	if !ok {
		return QuantityChange{}, errors.ErrCartNotLoaded
	}
	item := cart.Items[index]

	quantity, parsed := parseLeadingInt(raw)
	maxQuantity := cart.MaxQuantity(index)
	var invalid *errors.ErrInvalidQuantity
	switch {
	case !parsed:
		invalid = &errors.ErrInvalidQuantity{ItemID: item.ID, Input: raw, NotANumber: true, Min: item.QuantityRule.Min}
	case quantity < item.QuantityRule.Min || quantity > maxQuantity:
		invalid = &errors.ErrInvalidQuantity{ItemID: item.ID, Input: raw, Quantity: quantity, Min: item.QuantityRule.Min, Max: maxQuantity}
	}
	if invalid != nil {
		return v.revert(cart, index, invalid), invalid
	}

	if err := v.store.SetQuantity(ctx, index, quantity); err != nil {
		if qtyErr, isQty := err.(*errors.ErrInvalidQuantity); isQty {
			return v.revert(cart, index, qtyErr), qtyErr
		}
		return QuantityChange{}, err
	}
	v.rows[item.ID] = domain.RowStateDisplayed

	cart, _ = v.store.Snapshot()
	return QuantityChange{
		Outcome: QuantityCommitted,
		Row:     v.row(index, cart.Items[index]),
		Summary: v.summary(cart),
	}, nil
}

// revert builds the change that puts the input back to the committed quantity
func (v *CartView) revert(cart domain.Cart, index int, invalid *errors.ErrInvalidQuantity) QuantityChange {
	item := cart.Items[index]
	message := MsgQuantityBelowMinimum
	if invalid.Max > 0 && invalid.Quantity > invalid.Max {
		message = MsgQuantityAboveMaximum
	}

	v.logger.Info("Quantity edit reverted",
		zap.String("item_id", item.ID.String()),
		zap.String("input", invalid.Input),
		zap.Int("min", item.QuantityRule.Min),
		zap.Int("max", invalid.Max),
	)
	return QuantityChange{
		Outcome:  QuantityReverted,
		Row:      v.row(index, item),
		Summary:  v.summary(cart),
		RevertTo: item.Quantity,
		Notification: &domain.Notification{
			Kind:    domain.NotificationError,
			Message: message,
		},
	}
}

// ChangeQuantityByID is ChangeQuantity addressed by item id
func (v *CartView) ChangeQuantityByID(ctx context.Context, id domain.ItemID, raw string) (QuantityChange, error) {
	index, err := v.locate(id, domain.RowStateDisplayed)
	if err != nil {
		return QuantityChange{}, err
	}
	return v.ChangeQuantity(ctx, index, raw)
}

// RemovalPrompt returns the confirmation question for the item at index
func (v *CartView) RemovalPrompt(index int) string {
	cart, _ := v.store.Snapshot()
	return removalPrompt(cart.Items[index].Title)
}

// RemovalPromptByID is RemovalPrompt addressed by item id
func (v *CartView) RemovalPromptByID(id domain.ItemID) (string, error) {
	index, err := v.locate(id, domain.RowStateRemoved)
	if err != nil {
		return "", err
	}
	return v.RemovalPrompt(index), nil
}

// Remove asks confirmer about removing the item at index. On confirmation the
// item is removed and the whole cart is rendered again; otherwise the current
// cart is rendered unchanged. The bool reports whether the item was removed.
func (v *CartView) Remove(ctx context.Context, index int, confirmer Confirmer) (CartViewModel, bool) {
	cart, ok := v.store.Snapshot()
	if !ok {
		return CartViewModel{}, false
	}

	prompt := removalPrompt(cart.Items[index].Title)
	if confirmer == nil || !confirmer.Confirm(prompt) {
		return v.Render(cart), false
	}

	item := v.store.RemoveItem(ctx, index)
	v.rows[item.ID] = domain.RowStateRemoved
	v.logger.Info("Item removed from cart",
		zap.String("item_id", item.ID.String()),
		zap.String("title", item.Title),
	)

	vm, _ := v.Current()
	return vm, true
}

// RemoveByID is Remove addressed by item id
func (v *CartView) RemoveByID(ctx context.Context, id domain.ItemID, confirmer Confirmer) (CartViewModel, bool, error) {
	index, err := v.locate(id, domain.RowStateRemoved)
	if err != nil {
		return CartViewModel{}, false, err
	}
	vm, removed := v.Remove(ctx, index, confirmer)
	return vm, removed, nil
}

// locate resolves id to a position after checking the row may move to next
func (v *CartView) locate(id domain.ItemID, next domain.RowState) (int, error) {
	if !v.store.Loaded() {
		return -1, errors.ErrCartNotLoaded
	}
	if state, ok := v.rows[id]; ok && !state.CanTransitionTo(next) {
		return -1, &errors.ErrInvalidStateTransition{From: state, To: next}
	}
	index, ok := v.store.IndexOf(id)
	if !ok {
		return -1, &errors.ErrNotFound{Resource: "cart item", ID: id.String()}
	}
	return index, nil
}

func (v *CartView) row(index int, item domain.CartItem) RowView {
	return RowView{
		Index:        index,
		ID:           item.ID.String(),
		Title:        item.Title,
		Image:        item.Image,
		UnitPrice:    v.formatter.Amount(item.Price),
		Quantity:     item.Quantity,
		MinQuantity:  item.QuantityRule.Min,
		LineSubtotal: v.formatter.Amount(item.LineSubtotal()),
	}
}

func (v *CartView) summary(cart domain.Cart) SummaryView {
	return SummaryView{
		Subtotal: v.formatter.Total(cart.ItemsSubtotalPrice),
		Total:    v.formatter.Total(cart.OriginalTotalPrice),
	}
}

func removalPrompt(title string) string {
	return fmt.Sprintf(`Are you sure you want to remove "%s" from the cart?`, title)
}

// parseLeadingInt reads an optionally signed run of digits after leading
// whitespace and ignores whatever follows, so "3", " 3" and "3.5" all give 3.
// Values past the int range saturate at its bounds.
func parseLeadingInt(raw string) (int, bool) {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
		return n, true
	}
	if err != nil {
		return 0, false
	}
	return n, true
}
