package shopify

import "github.com/jafarshop/storefront/internal/domain"

// CartResponse is the cart document served by the storefront CDN
type CartResponse struct {
	Items              []LineItem `json:"items"`
	ItemsSubtotalPrice int64      `json:"items_subtotal_price"`
	OriginalTotalPrice int64      `json:"original_total_price"`
}

// LineItem is one entry of CartResponse.Items. Monetary fields are in minor units.
type LineItem struct {
	ID           domain.ItemID `json:"id"`
	Title        string        `json:"title"`
	Image        string        `json:"image"`
	Price        int64         `json:"price"`
	Quantity     int           `json:"quantity"`
	QuantityRule struct {
		Min int `json:"min"`
	} `json:"quantity_rule"`
}

// ToDomain converts the wire document into a cart. A missing items array
// stays nil so that normalization can reject it.
func (r *CartResponse) ToDomain() *domain.Cart {
	cart := &domain.Cart{
		ItemsSubtotalPrice: r.ItemsSubtotalPrice,
		OriginalTotalPrice: r.OriginalTotalPrice,
	}
	if r.Items == nil {
		return cart
	}

	cart.Items = make([]domain.CartItem, 0, len(r.Items))
	for _, li := range r.Items {
		cart.Items = append(cart.Items, domain.CartItem{
			ID:           li.ID,
			Title:        li.Title,
			Image:        li.Image,
			Price:        li.Price,
			Quantity:     li.Quantity,
			QuantityRule: domain.QuantityRule{Min: li.QuantityRule.Min},
		})
	}
	return cart
}
