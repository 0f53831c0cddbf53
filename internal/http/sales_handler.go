package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/fjod/repair_pos/internal/domain"
	"github.com/fjod/repair_pos/internal/fiscal"
	"github.com/fjod/repair_pos/internal/ledger"
	"github.com/go-chi/chi/v5"
)

// FiscalEmitter is the external fiscal service, from the handler's point
// of view.
type FiscalEmitter interface {
	EmitDocument(ctx context.Context, sale domain.Sale) (json.RawMessage, error)
	IssueManualInvoice(ctx context.Context, payload json.RawMessage) (json.RawMessage, error)
}

type SalesHandler struct {
	ledger  *ledger.Ledger
	fiscal  FiscalEmitter
	timeout time.Duration
}

func NewSalesHandler(l *ledger.Ledger, emitter FiscalEmitter, timeout time.Duration) *SalesHandler {
	return &SalesHandler{
		ledger:  l,
		fiscal:  emitter,
		timeout: timeout,
	}
}

type SalesResponse struct {
	Sales []domain.Sale `json:"sales"`
}

func (h *SalesHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, SalesResponse{Sales: h.ledger.List()})
}

// EmitFiscal asks the fiscal service for an NF-e and, on success, marks the
// sale Issued. A failed emission changes nothing and the operator retries.
func (h *SalesHandler) EmitFiscal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	saleID := chi.URLParam(r, "sale_id")
	sale, ok := h.ledger.Sale(saleID)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "sale not found")
		return
	}
	if sale.FiscalStatus == domain.FiscalStatusIssued {
		respondError(w, http.StatusConflict, "already_issued", "fiscal document already issued for this sale")
		return
	}

	result, err := h.fiscal.EmitDocument(ctx, sale)
	if err != nil {
		handleFiscalError(w, err)
		return
	}

	h.ledger.UpdateFiscalStatus(saleID, domain.FiscalStatusIssued)
	respondJSON(w, http.StatusOK, result)
}

func (h *SalesHandler) ManualInvoice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	payload, err := io.ReadAll(r.Body)
	if err != nil || len(payload) == 0 || !json.Valid(payload) {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	result, err := h.fiscal.IssueManualInvoice(ctx, payload)
	if err != nil {
		handleFiscalError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func handleFiscalError(w http.ResponseWriter, err error) {
	var reqErr *fiscal.RequestError
	if errors.As(err, &reqErr) {
		status := http.StatusBadGateway
		if reqErr.StatusCode >= 400 && reqErr.StatusCode < 500 {
			status = reqErr.StatusCode
		}
		respondError(w, status, "fiscal_error", reqErr.Detail)
		return
	}
	respondError(w, http.StatusServiceUnavailable, "fiscal_unavailable", err.Error())
}
