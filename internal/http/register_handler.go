package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/repair_pos/internal/catalog"
	"github.com/fjod/repair_pos/internal/domain"
	"github.com/fjod/repair_pos/internal/register"
	"github.com/go-chi/chi/v5"
)

// ProductLookup resolves product snapshots for cart operations.
type ProductLookup interface {
	Product(id int64) (domain.Product, bool)
}

type RegisterHandler struct {
	register *register.Register
	checkout *register.Checkout
	products ProductLookup
	timeout  time.Duration
}

func NewRegisterHandler(reg *register.Register, checkout *register.Checkout, products ProductLookup, timeout time.Duration) *RegisterHandler {
	return &RegisterHandler{
		register: reg,
		checkout: checkout,
		products: products,
		timeout:  timeout,
	}
}

type RegisterStatusResponse struct {
	IsOpen  bool    `json:"isOpen"`
	Balance float64 `json:"balance"`
}

type CloseRegisterRequestDTO struct {
	Confirm bool `json:"confirm"`
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponse struct {
	Lines []domain.CartLine `json:"lines"`
	Total float64           `json:"total"`
}

func (h *RegisterHandler) Status(w http.ResponseWriter, r *http.Request) {
	open, balance := h.register.Status()
	respondJSON(w, http.StatusOK, RegisterStatusResponse{IsOpen: open, Balance: balance})
}

func (h *RegisterHandler) Open(w http.ResponseWriter, r *http.Request) {
	if err := h.register.Open(); err != nil {
		handleRegisterError(w, err)
		return
	}
	open, balance := h.register.Status()
	respondJSON(w, http.StatusOK, RegisterStatusResponse{IsOpen: open, Balance: balance})
}

func (h *RegisterHandler) Close(w http.ResponseWriter, r *http.Request) {
	var req CloseRegisterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.register.Close(req.Confirm); err != nil {
		handleRegisterError(w, err)
		return
	}
	open, balance := h.register.Status()
	respondJSON(w, http.StatusOK, RegisterStatusResponse{IsOpen: open, Balance: balance})
}

func (h *RegisterHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, CartResponse{
		Lines: h.register.Lines(),
		Total: h.register.Total(),
	})
}

func (h *RegisterHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	product, ok := h.products.Product(req.ProductID)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "product not found in catalog")
		return
	}

	if err := h.register.AddItem(product); err != nil {
		handleRegisterError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, CartResponse{
		Lines: h.register.Lines(),
		Total: h.register.Total(),
	})
}

func (h *RegisterHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := parseProductID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity < 0 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must not be negative")
		return
	}

	// Zero removes the line and needs no catalog snapshot; any other
	// quantity is bounded by live stock, so resolve the product fresh.
	product := domain.Product{ID: productID}
	if req.Quantity > 0 {
		var ok bool
		product, ok = h.products.Product(productID)
		if !ok {
			respondError(w, http.StatusNotFound, "not_found", "product not found in catalog")
			return
		}
	}

	if err := h.register.SetQuantity(product, req.Quantity); err != nil {
		handleRegisterError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponse{
		Lines: h.register.Lines(),
		Total: h.register.Total(),
	})
}

func (h *RegisterHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := parseProductID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	h.register.RemoveItem(productID)
	respondJSON(w, http.StatusOK, CartResponse{
		Lines: h.register.Lines(),
		Total: h.register.Total(),
	})
}

func (h *RegisterHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.register.Clear()
	respondJSON(w, http.StatusOK, CartResponse{
		Lines: h.register.Lines(),
		Total: h.register.Total(),
	})
}

func (h *RegisterHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sale, err := h.checkout.CompleteSale(ctx)
	if err != nil {
		log.Printf("checkout failed request_id=%s: %v", getRequestID(r.Context()), err)
		handleRegisterError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, sale)
}

func parseProductID(r *http.Request) (int64, error) {
	productIDStr := chi.URLParam(r, "product_id")
	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil || productID <= 0 {
		return 0, errors.New("invalid product id")
	}
	return productID, nil
}

// handleRegisterError maps the register's error taxonomy to HTTP statuses.
// Local pre-flight failures are refused before any request leaves the
// process; remote rejections carry the catalog's detail verbatim.
func handleRegisterError(w http.ResponseWriter, err error) {
	var conflict *catalog.StockConflictError
	switch {
	case errors.Is(err, register.ErrRegisterClosed):
		respondError(w, http.StatusConflict, "register_closed", "cash register is closed")
	case errors.Is(err, register.ErrRegisterOpen):
		respondError(w, http.StatusConflict, "register_open", "cash register is already open")
	case errors.Is(err, register.ErrEmptyCart):
		respondError(w, http.StatusUnprocessableEntity, "empty_cart", "cart is empty")
	case errors.Is(err, register.ErrOutOfStock):
		respondError(w, http.StatusConflict, "out_of_stock", "product is out of stock")
	case errors.Is(err, register.ErrStockExceeded):
		respondError(w, http.StatusConflict, "stock_exceeded", "requested quantity exceeds available stock")
	case errors.Is(err, register.ErrCheckoutInProgress):
		respondError(w, http.StatusConflict, "checkout_in_progress", "a checkout is already in progress")
	case errors.As(err, &conflict):
		respondError(w, http.StatusConflict, "stock_conflict", conflict.Detail)
	case errors.Is(err, catalog.ErrCatalogUnavailable):
		respondError(w, http.StatusServiceUnavailable, "catalog_unavailable", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
