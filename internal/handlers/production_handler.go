package handlers

import (
	"encoding/json"
	"net/http"

	"wastex-backend/internal/cache"
	"wastex-backend/internal/models"
	"wastex-backend/internal/services"
	"wastex-backend/pkg/utils"
)

type ProductionHandler struct {
	Sync *services.SyncService
}

func NewProductionHandler(sync *services.SyncService) *ProductionHandler {
	return &ProductionHandler{Sync: sync}
}

// CreateEntry accepts a new production log. The response reports whether the
// entry reached the remote store or is waiting in the local queue.
func (h *ProductionHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProductionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.Sync.Submit(r.Context(), &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	cache.InvalidateProductionCaches(r.Context())

	status := http.StatusCreated
	if !entry.Synced {
		status = http.StatusAccepted
	}
	utils.JSON(w, status, entry)
}

// ListEntries serves the merged view: confirmed entries plus queued ones,
// newest-first.
func (h *ProductionHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Sync.MergedView(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []*models.ProductionEntry{}
	}
	utils.JSON(w, http.StatusOK, entries)
}

// ListPending serves only the queued, not-yet-synced entries.
func (h *ProductionHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Sync.Pending()
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []*models.ProductionEntry{}
	}
	utils.JSON(w, http.StatusOK, entries)
}

// RunSync triggers a queue sweep and reports the resulting status.
func (h *ProductionHandler) RunSync(w http.ResponseWriter, r *http.Request) {
	if err := h.Sync.Sweep(r.Context()); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, h.Sync.Status(r.Context()))
}

// SyncStatus reports queue depth and connectivity.
func (h *ProductionHandler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.Sync.Status(r.Context()))
}
