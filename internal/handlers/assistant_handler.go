package handlers

import (
	"encoding/json"
	"net/http"

	"wastex-backend/internal/services"
	"wastex-backend/pkg/utils"
)

type AssistantHandler struct {
	Assistant *services.AssistantService
}

func NewAssistantHandler(assistant *services.AssistantService) *AssistantHandler {
	return &AssistantHandler{Assistant: assistant}
}

type assistantRequest struct {
	Message string `json:"message"`
	// Context carries optional page state from the dashboard (visible
	// entity, date range) the model should take into account.
	Context string `json:"context,omitempty"`
}

// Message answers one user question through the assistant tool loop.
func (h *AssistantHandler) Message(w http.ResponseWriter, r *http.Request) {
	var req assistantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Message == "" {
		utils.Error(w, http.StatusBadRequest, "message is required")
		return
	}

	message := req.Message
	if req.Context != "" {
		message = req.Message + "\n\n[Dashboard context: " + req.Context + "]"
	}
	reply := h.Assistant.Answer(r.Context(), message)
	utils.JSON(w, http.StatusOK, reply)
}
