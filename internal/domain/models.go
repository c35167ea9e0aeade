package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// ItemID identifies an item within a cart. The remote source sends it as a
// JSON number, but strings are accepted too.
type ItemID string

func (id *ItemID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ItemID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("item id: %w", err)
	}
	*id = ItemID(n.String())
	return nil
}

func (id ItemID) String() string {
	return string(id)
}

// QuantityRule constrains the quantity of a cart item
type QuantityRule struct {
	Min int
}

// CartItem represents a line in the cart. Prices are in minor currency units.
type CartItem struct {
	ID           ItemID
	Title        string
	Image        string
	Price        int64
	Quantity     int
	QuantityRule QuantityRule
}

// LineSubtotal returns price × quantity in minor units
func (i CartItem) LineSubtotal() int64 {
	return i.Price * int64(i.Quantity)
}

// Cart is the client-held cart snapshot
type Cart struct {
	Items              []CartItem
	ItemsSubtotalPrice int64
	OriginalTotalPrice int64
}

// CalculateSubtotal sums price × quantity over all items
func (c *Cart) CalculateSubtotal() int64 {
	var subtotal int64
	for _, item := range c.Items {
		subtotal += item.LineSubtotal()
	}
	return subtotal
}

// Recalculate rederives both totals from the items. No discounts or taxes
// are modeled, so the total mirrors the subtotal.
func (c *Cart) Recalculate() {
	subtotal := c.CalculateSubtotal()
	c.ItemsSubtotalPrice = subtotal
	c.OriginalTotalPrice = subtotal
}

// Normalize checks a freshly decoded cart and fills in defaults. It returns
// an error for payloads that cannot be turned into a consistent cart.
func (c *Cart) Normalize() error {
	if c.Items == nil {
		return fmt.Errorf("cart payload has no items array")
	}

	seen := make(map[ItemID]struct{}, len(c.Items))
	var sum int64
	for i := range c.Items {
		item := &c.Items[i]
		if item.ID == "" {
			return fmt.Errorf("item %d has no id", i)
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("duplicate item id %s", item.ID)
		}
		seen[item.ID] = struct{}{}

		if item.Price < 0 {
			return fmt.Errorf("item %s has negative price %d", item.ID, item.Price)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("item %s has invalid quantity %d", item.ID, item.Quantity)
		}
		if item.QuantityRule.Min < 1 {
			item.QuantityRule.Min = 1
		}
		if item.Price > 0 && int64(item.Quantity) > (math.MaxInt64-sum)/item.Price {
			return fmt.Errorf("item %s overflows the cart subtotal", item.ID)
		}
		sum += item.LineSubtotal()
	}

	return nil
}

// MaxQuantity returns the largest quantity the item at index can take
// without its line subtotal or the cart subtotal overflowing int64.
func (c *Cart) MaxQuantity(index int) int {
	item := c.Items[index]
	if item.Price <= 0 {
		return math.MaxInt
	}

	var rest int64
	for i, other := range c.Items {
		if i != index {
			rest += other.LineSubtotal()
		}
	}

	limit := (math.MaxInt64 - rest) / item.Price
	if limit > int64(math.MaxInt) {
		return math.MaxInt
	}
	return int(limit)
}

// IndexOf returns the display position of the item with the given id
func (c *Cart) IndexOf(id ItemID) (int, bool) {
	for i, item := range c.Items {
		if item.ID == id {
			return i, true
		}
	}
	return -1, false
}

// Clone returns a deep copy of the cart
func (c *Cart) Clone() Cart {
	out := *c
	out.Items = make([]CartItem, len(c.Items))
	copy(out.Items, c.Items)
	return out
}

// MutationEvent describes a committed change to a cart
type MutationEvent struct {
	SessionID   uuid.UUID
	Kind        MutationKind
	ItemID      ItemID
	Title       string
	OldQuantity int
	NewQuantity int
	Delta       int64 // change to the subtotal in minor units
	Subtotal    int64 // subtotal after the change
}

// CartEvent represents an audit record of a cart mutation
type CartEvent struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	EventType string
	ItemID    string
	EventData map[string]interface{} // JSONB
	CreatedAt time.Time
}

// Notification is a user-visible message produced by the storefront
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
}
