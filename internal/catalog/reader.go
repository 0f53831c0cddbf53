package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fjod/repair_pos/internal/domain"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"
)

// ProductLister fetches the live product list.
type ProductLister interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// Reader keeps the last fetched product list so pages render from a local
// snapshot. Refresh re-reads the catalog; concurrent refreshes collapse
// into one request. Repeated catalog failures open a circuit breaker so a
// dead backend fails fast instead of hanging every page load. The breaker
// never retries on its own.
type Reader struct {
	lister  ProductLister
	breaker *gobreaker.CircuitBreaker[[]domain.Product]
	sfg     singleflight.Group

	mu       sync.RWMutex
	products []domain.Product
}

func NewReader(lister ProductLister) *Reader {
	breaker := gobreaker.NewCircuitBreaker[[]domain.Product](gobreaker.Settings{
		Name:    "catalog",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	return &Reader{
		lister:  lister,
		breaker: breaker,
	}
}

// Refresh replaces the snapshot with the live product list.
func (r *Reader) Refresh(ctx context.Context) error {
	_, err, _ := r.sfg.Do("refresh", func() (interface{}, error) {
		products, err := r.breaker.Execute(func() ([]domain.Product, error) {
			return r.lister.ListProducts(ctx)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
			}
			return nil, err
		}

		r.mu.Lock()
		r.products = products
		r.mu.Unlock()
		return nil, nil
	})
	return err
}

// Products returns a copy of the current snapshot.
func (r *Reader) Products() []domain.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Product, len(r.products))
	copy(out, r.products)
	return out
}

// Product looks up one product in the snapshot.
func (r *Reader) Product(id int64) (domain.Product, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}
