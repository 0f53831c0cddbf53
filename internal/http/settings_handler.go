package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/repair_pos/internal/domain"
)

// SettingsAPI is the backend's company settings surface; the terminal only
// passes it through.
type SettingsAPI interface {
	CompanySettings(ctx context.Context) (domain.CompanySettings, error)
	SaveCompanySettings(ctx context.Context, settings domain.CompanySettings) (domain.CompanySettings, error)
}

type SettingsHandler struct {
	api     SettingsAPI
	timeout time.Duration
}

func NewSettingsHandler(api SettingsAPI, timeout time.Duration) *SettingsHandler {
	return &SettingsHandler{api: api, timeout: timeout}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	settings, err := h.api.CompanySettings(ctx)
	if err != nil {
		handleCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) Save(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var settings domain.CompanySettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	saved, err := h.api.SaveCompanySettings(ctx, settings)
	if err != nil {
		handleCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, saved)
}
