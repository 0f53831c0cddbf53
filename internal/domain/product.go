package domain

// Product is a snapshot of a catalog item. The catalog service owns the
// authoritative copy; anything held locally (cart lines, cached lists) is a
// snapshot taken at fetch time.
type Product struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	NCM      string  `json:"ncm,omitempty"`
	CFOP     string  `json:"cfop,omitempty"`
	Unit     string  `json:"unit,omitempty"`
}

// StockDecrement is one line of a stock-decrement request sent to the
// catalog service when a sale is completed.
type StockDecrement struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CartLine is a product snapshot plus the quantity selected for the current
// sale. Prices on the line are fixed at add time, not re-read from the
// catalog.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal returns the line price at the snapshotted unit price.
func (l CartLine) Subtotal() float64 {
	return l.Product.Price * float64(l.Quantity)
}
