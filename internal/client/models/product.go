package models

// ProductOwner identifies the shop owner a catalog product belongs to.
type ProductOwner struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Product is a read-only projection of catalog data. The catalog service
// owns it; the client never mutates a product in place.
type Product struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Price         Money         `json:"price"`
	Image         string        `json:"image"`
	StockQuantity int           `json:"stock_quantity"`
	Barcode       string        `json:"barcode"`
	SKU           string        `json:"sku"`
	Owner         *ProductOwner `json:"owner"`
}

// LowStock reports whether the product is running out (but not yet gone).
func (p *Product) LowStock() bool {
	return p.StockQuantity > 0 && p.StockQuantity <= 5
}
