package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/fjod/repair_pos/internal/catalog"
	"github.com/fjod/repair_pos/internal/domain"
)

// ProductCreator registers new products with the catalog service.
type ProductCreator interface {
	CreateProduct(ctx context.Context, req catalog.CreateProductRequest) (domain.Product, error)
}

// CatalogReader serves the cached product snapshot.
type CatalogReader interface {
	Products() []domain.Product
	Refresh(ctx context.Context) error
}

type ProductsHandler struct {
	reader  CatalogReader
	creator ProductCreator
	timeout time.Duration
}

func NewProductsHandler(reader CatalogReader, creator ProductCreator, timeout time.Duration) *ProductsHandler {
	return &ProductsHandler{
		reader:  reader,
		creator: creator,
		timeout: timeout,
	}
}

type ProductsResponse struct {
	Products []domain.Product `json:"products"`
}

func (h *ProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, ProductsResponse{Products: h.reader.Products()})
}

func (h *ProductsHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.reader.Refresh(ctx); err != nil {
		handleCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ProductsResponse{Products: h.reader.Products()})
}

func (h *ProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req catalog.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "invalid_name", "name must not be empty")
		return
	}
	if req.Quantity < 0 || req.Price < 0 {
		respondError(w, http.StatusBadRequest, "invalid_request", "quantity and price must not be negative")
		return
	}

	product, err := h.creator.CreateProduct(ctx, req)
	if err != nil {
		handleCatalogError(w, err)
		return
	}

	// Keep the snapshot in step with the new product.
	if err := h.reader.Refresh(ctx); err != nil {
		log.Printf("catalog refresh after create error: %v", err)
	}

	respondJSON(w, http.StatusCreated, product)
}

func handleCatalogError(w http.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrCatalogUnavailable) {
		respondError(w, http.StatusServiceUnavailable, "catalog_unavailable", err.Error())
		return
	}
	respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}
