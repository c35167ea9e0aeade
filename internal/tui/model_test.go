package tui

import (
	"context"
	stderrors "errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/money"
	"github.com/jafarshop/storefront/internal/service"
)

type stubSource struct {
	cart *domain.Cart
	err  error
}

func (s *stubSource) FetchCart(ctx context.Context) (*domain.Cart, error) {
	if s.err != nil {
		return nil, s.err
	}
	c := s.cart.Clone()
	return &c, nil
}

func kitchenCart() *domain.Cart {
	cart := &domain.Cart{
		Items: []domain.CartItem{
			{ID: "1", Title: "Mug", Price: 50000, Quantity: 2, QuantityRule: domain.QuantityRule{Min: 1}},
			{ID: "2", Title: "Plate", Price: 1250, Quantity: 4, QuantityRule: domain.QuantityRule{Min: 2}},
		},
	}
	cart.Recalculate()
	return cart
}

func newModel(t *testing.T, source service.CartSource) Model {
	t.Helper()
	formatter, err := money.NewFormatter("en", "Rs.")
	require.NoError(t, err)

	store := service.NewCartStore(uuid.New(), source, nil, zap.NewNop())
	view := service.NewCartView(store, formatter, zap.NewNop())

	m := New(context.Background(), view)
	return send(t, m, m.Init()())
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func press(t *testing.T, m Model, names ...string) Model {
	t.Helper()
	for _, k := range names {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "backspace":
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m = send(t, m, msg)
	}
	return m
}

func TestModel_Loads(t *testing.T) {
	m := newModel(t, &stubSource{cart: kitchenCart()})

	assert.False(t, m.loading)
	require.Len(t, m.vm.Rows, 2)
	assert.Equal(t, "Rs. 1,050.00", m.vm.Summary.Total)
	assert.Contains(t, m.View(), "Mug")
	assert.Contains(t, m.View(), "Rs. 1,050.00")
}

func TestModel_LoadFailure(t *testing.T) {
	m := newModel(t, &stubSource{err: stderrors.New("boom")})

	assert.Equal(t, service.MsgCartLoadFailed, m.loadErr)
	assert.Contains(t, m.View(), service.MsgCartLoadFailed)
}

func TestModel_EditQuantity(t *testing.T) {
	m := newModel(t, &stubSource{cart: kitchenCart()})

	m = press(t, m, "e")
	assert.Equal(t, editing, m.mode)
	assert.Equal(t, "2", m.input.Value())

	m = press(t, m, "backspace", "3", "enter")
	assert.Equal(t, browsing, m.mode)
	assert.False(t, m.statusErr)
	assert.Equal(t, 3, m.vm.Rows[0].Quantity)
	assert.Equal(t, "Rs. 1,500", m.vm.Rows[0].LineSubtotal)
	assert.Equal(t, "Rs. 1,550.00", m.vm.Summary.Total)
}

func TestModel_EditBelowMinimumReverts(t *testing.T) {
	m := newModel(t, &stubSource{cart: kitchenCart()})

	m = press(t, m, "down", "e", "backspace", "1", "enter")
	assert.True(t, m.statusErr)
	assert.Equal(t, service.MsgQuantityBelowMinimum, m.status)
	assert.Equal(t, 4, m.vm.Rows[1].Quantity)
}

func TestModel_EditCancelled(t *testing.T) {
	m := newModel(t, &stubSource{cart: kitchenCart()})

	m = press(t, m, "e", "backspace", "9", "esc")
	assert.Equal(t, browsing, m.mode)
	assert.Equal(t, 2, m.vm.Rows[0].Quantity)
}

func TestModel_RemoveConfirmed(t *testing.T) {
	m := newModel(t, &stubSource{cart: kitchenCart()})

	m = press(t, m, "down", "d")
	assert.Equal(t, confirming, m.mode)
	assert.Equal(t, `Are you sure you want to remove "Plate" from the cart?`, m.prompt)
	assert.Contains(t, m.View(), "(y/n)")

	m = press(t, m, "y")
	require.Len(t, m.vm.Rows, 1)
	assert.Equal(t, "Mug", m.vm.Rows[0].Title)
	assert.Equal(t, 0, m.cursor)
	assert.Equal(t, "Rs. 1,000.00", m.vm.Summary.Total)
}

func TestModel_RemoveDeclined(t *testing.T) {
	m := newModel(t, &stubSource{cart: kitchenCart()})

	m = press(t, m, "d", "n")
	assert.Equal(t, browsing, m.mode)
	assert.Len(t, m.vm.Rows, 2)
}

func TestModel_RemoveLastItem(t *testing.T) {
	m := newModel(t, &stubSource{cart: kitchenCart()})

	m = press(t, m, "d", "y", "d", "y")
	assert.Empty(t, m.vm.Rows)
	assert.Equal(t, "Rs. 0.00", m.vm.Summary.Subtotal)
	assert.Contains(t, m.View(), "The cart is empty.")
}

func TestModel_Quit(t *testing.T) {
	m := newModel(t, &stubSource{cart: kitchenCart()})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
