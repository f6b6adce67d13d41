// File: internal/handlers/assistant_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tmsanders/go-preceptor/internal/dtos"
	"github.com/tmsanders/go-preceptor/internal/middleware"
	"github.com/tmsanders/go-preceptor/internal/services"
	assistantsvc "github.com/tmsanders/go-preceptor/internal/services/assistant"
)

// AssistantHandler exposes the assistant lifecycle over JSON.
type AssistantHandler struct {
	AssistantService *services.AssistantService
}

func NewAssistantHandler(service *services.AssistantService) *AssistantHandler {
	return &AssistantHandler{AssistantService: service}
}

// Create registers a new assistant for the caller.
func (h *AssistantHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req dtos.CreateAssistantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.AssistantService.CreateAssistant(r.Context(), userID, req.Name, req.Description, req.Instructions)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dtos.FromAssistant(*created))
}

// List returns the caller's assistants, most recently used first.
func (h *AssistantHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	assistants, err := h.AssistantService.GetUserAssistants(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dtos.FromAssistantSlice(assistants))
}

// Get returns one assistant with its remotely held instructions.
func (h *AssistantHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	detail, err := h.AssistantService.GetAssistant(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dtos.FromAssistantDetail(*detail))
}

// Update applies a partial edit.
func (h *AssistantHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req dtos.UpdateAssistantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.AssistantService.UpdateAssistant(r.Context(), userID, mux.Vars(r)["id"], assistantsvc.UpdateFields{
		Name:         req.Name,
		Description:  req.Description,
		Instructions: req.Instructions,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dtos.FromAssistant(*updated))
}

// Delete removes an assistant remote-first.
func (h *AssistantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	if err := h.AssistantService.DeleteAssistant(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
