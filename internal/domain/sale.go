package domain

import "time"

// FiscalStatus tells whether a tax invoice was issued for a sale. It is
// independent of the sale's commercial completion.
type FiscalStatus string

const (
	FiscalStatusPending FiscalStatus = "Pendente"
	FiscalStatusIssued  FiscalStatus = "Emitida"
)

// SaleItem is one line of a completed sale. Subtotal is fixed when the sale
// is built and never recomputed from live prices.
type SaleItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Subtotal  float64 `json:"subtotal"`
}

// Sale is an immutable record of a committed transaction. Only FiscalStatus
// may change after creation, Pending to Issued exactly once.
type Sale struct {
	ID           string       `json:"id"`
	Date         time.Time    `json:"date"`
	Items        []SaleItem   `json:"items"`
	Total        float64      `json:"total"`
	FiscalStatus FiscalStatus `json:"fiscalStatus"`
}
