package register

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/fjod/repair_pos/internal/domain"
)

// Inventory issues the stock-decrement request for a completed sale. The
// catalog service applies all decrements or none; a rejection means live
// stock no longer covers the cart.
type Inventory interface {
	DecrementStock(ctx context.Context, items []domain.StockDecrement) error
}

// SalesLedger records completed sales, newest first.
type SalesLedger interface {
	Append(sale domain.Sale)
}

// CatalogRefresher re-reads the product list so displayed stock matches the
// catalog service after a checkout attempt.
type CatalogRefresher interface {
	Refresh(ctx context.Context) error
}

// SalePublisher announces completed sales to downstream consumers.
type SalePublisher interface {
	PublishSaleCompleted(ctx context.Context, sale domain.Sale) error
}

// Checkout turns the register's cart into a committed sale. The stock
// decrement is the only atomicity boundary: until it succeeds, no local
// state changes; once it does, the sale is recorded and the cart cleared.
type Checkout struct {
	register  *Register
	inventory Inventory
	ledger    SalesLedger
	catalog   CatalogRefresher
	events    SalePublisher // optional, may be nil

	idMu          sync.Mutex
	lastSaleMilli int64
}

func NewCheckout(reg *Register, inventory Inventory, ledger SalesLedger, catalog CatalogRefresher, events SalePublisher) *Checkout {
	return &Checkout{
		register:  reg,
		inventory: inventory,
		ledger:    ledger,
		catalog:   catalog,
		events:    events,
	}
}

// CompleteSale finalizes the current cart. On failure the cart, balance and
// ledger are untouched and the error carries the catalog's detail when
// available. Either way the catalog reader is refreshed best-effort.
func (c *Checkout) CompleteSale(ctx context.Context) (*domain.Sale, error) {
	lines, err := c.register.beginCheckout()
	if err != nil {
		return nil, err
	}

	items := make([]domain.StockDecrement, len(lines))
	for i, l := range lines {
		items[i] = domain.StockDecrement{ProductID: l.Product.ID, Quantity: l.Quantity}
	}

	if decErr := c.inventory.DecrementStock(ctx, items); decErr != nil {
		c.register.endCheckout(false, 0)
		c.refreshCatalog()
		return nil, fmt.Errorf("stock decrement rejected: %w", decErr)
	}

	sale := c.buildSale(lines)
	c.ledger.Append(sale)
	c.register.endCheckout(true, sale.Total)
	c.publishCompleted(sale)
	c.refreshCatalog()

	return &sale, nil
}

// buildSale fixes item subtotals and the total from the cart snapshot; they
// are never recomputed afterwards.
func (c *Checkout) buildSale(lines []domain.CartLine) domain.Sale {
	now := time.Now()
	items := make([]domain.SaleItem, len(lines))
	var total float64
	for i, l := range lines {
		subtotal := l.Subtotal()
		items[i] = domain.SaleItem{
			ID:        strconv.FormatInt(l.Product.ID, 10),
			Name:      l.Product.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.Product.Price,
			Subtotal:  subtotal,
		}
		total += subtotal
	}
	return domain.Sale{
		ID:           c.nextSaleID(now),
		Date:         now,
		Items:        items,
		Total:        total,
		FiscalStatus: domain.FiscalStatusPending,
	}
}

// nextSaleID derives the sale id from the wall clock, bumping one
// millisecond past the previous id when two sales land in the same instant.
func (c *Checkout) nextSaleID(now time.Time) string {
	c.idMu.Lock()
	defer c.idMu.Unlock()

	ms := now.UnixMilli()
	if ms <= c.lastSaleMilli {
		ms = c.lastSaleMilli + 1
	}
	c.lastSaleMilli = ms
	return fmt.Sprintf("sale-%d", ms)
}

func (c *Checkout) publishCompleted(sale domain.Sale) {
	if c.events == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.events.PublishSaleCompleted(ctx, sale); err != nil {
			log.Printf("publish sale completed error: %v", err)
		}
	}()
}

func (c *Checkout) refreshCatalog() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.catalog.Refresh(ctx); err != nil {
		log.Printf("catalog refresh after checkout error: %v", err)
	}
}
