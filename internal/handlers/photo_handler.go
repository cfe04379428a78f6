package handlers

import (
	"net/http"

	"wastex-backend/internal/storage"
	"wastex-backend/pkg/utils"
)

type PhotoHandler struct {
	Photos *storage.PhotoStore
}

func NewPhotoHandler(photos *storage.PhotoStore) *PhotoHandler {
	return &PhotoHandler{Photos: photos}
}

// SignedURL mints a short-lived download URL for a stored photo. Clients
// call this again when a previous URL expires.
func (h *PhotoHandler) SignedURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		utils.Error(w, http.StatusBadRequest, "key is required")
		return
	}

	url, err := h.Photos.SignedURL(r.Context(), key)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{
		"url":        url,
		"expires_in": int(storage.SignedURLExpiry.Seconds()),
	})
}
