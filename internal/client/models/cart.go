package models

// CartItem is one line of the server-held cart. Quantity is at least 1;
// removal is a distinct operation, never a zero-quantity update.
type CartItem struct {
	ID       int64   `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Subtotal Money   `json:"subtotal"`
}

// Cart is the server-authoritative cart with derived totals. The client
// never constructs one locally: every Cart value is the result of a fetch.
type Cart struct {
	Items      []CartItem `json:"items"`
	TotalItems int        `json:"total_items"`
	TotalPrice Money      `json:"total_price"`
}

// ConsistentTotals reports whether the derived totals match the item lines.
// The server is authoritative either way; a mismatch is only worth a warning.
func (c *Cart) ConsistentTotals() bool {
	items := 0
	var price Money
	for _, it := range c.Items {
		items += it.Quantity
		price += it.Subtotal
	}
	const eps = 0.005
	diff := float64(price - c.TotalPrice)
	if diff < 0 {
		diff = -diff
	}
	return items == c.TotalItems && diff < eps
}

// Item returns the line with the given id, or nil.
func (c *Cart) Item(id int64) *CartItem {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return &c.Items[i]
		}
	}
	return nil
}
