package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fjod/repair_pos/internal/domain"
	"github.com/fjod/repair_pos/internal/orders"
	"github.com/go-chi/chi/v5"
)

type OrdersHandler struct {
	book *orders.Book
}

func NewOrdersHandler(book *orders.Book) *OrdersHandler {
	return &OrdersHandler{book: book}
}

type OrdersResponse struct {
	Orders  []domain.ServiceOrder `json:"orders"`
	Clients []domain.Client       `json:"clients"`
	Devices []domain.Device       `json:"devices"`
}

type CreateOrderRequestDTO struct {
	ClientName  string `json:"client_name"`
	DeviceModel string `json:"device_model"`
	Description string `json:"description"`
}

type UpdateOrderStatusRequestDTO struct {
	Status domain.ServiceOrderStatus `json:"status"`
}

func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, OrdersResponse{
		Orders:  h.book.Orders(),
		Clients: h.book.Clients(),
		Devices: h.book.Devices(),
	})
}

func (h *OrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ClientName == "" || req.DeviceModel == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "client_name and device_model are required")
		return
	}

	order := h.book.CreateOrder(req.ClientName, req.DeviceModel, req.Description)
	respondJSON(w, http.StatusCreated, order)
}

func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")

	var req UpdateOrderStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	err := h.book.UpdateStatus(orderID, req.Status)
	switch {
	case errors.Is(err, orders.ErrInvalidStatus):
		respondError(w, http.StatusBadRequest, "invalid_status", "unknown service order status")
	case errors.Is(err, orders.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "not_found", "service order not found")
	case err != nil:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	default:
		respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	}
}
