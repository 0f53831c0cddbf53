package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// InvoiceService is the fiscal service's financial surface: listing issued
// documents and cancelling one with a justification.
type InvoiceService interface {
	ListInvoices(ctx context.Context) (json.RawMessage, error)
	CancelInvoice(ctx context.Context, ref, justification string) (json.RawMessage, error)
}

type InvoicesHandler struct {
	fiscal  InvoiceService
	timeout time.Duration
}

func NewInvoicesHandler(fiscal InvoiceService, timeout time.Duration) *InvoicesHandler {
	return &InvoicesHandler{fiscal: fiscal, timeout: timeout}
}

type CancelInvoiceRequestDTO struct {
	Justification string `json:"justification"`
}

func (h *InvoicesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.fiscal.ListInvoices(ctx)
	if err != nil {
		handleFiscalError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Cancel voids an issued document. The minimum justification length is the
// fiscal service's rule; only presence is checked here.
func (h *InvoicesHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ref := chi.URLParam(r, "ref")

	var req CancelInvoiceRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Justification == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "justification is required")
		return
	}

	result, err := h.fiscal.CancelInvoice(ctx, ref, req.Justification)
	if err != nil {
		handleFiscalError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
