// File: internal/handlers/chat_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tmsanders/go-preceptor/internal/dtos"
	"github.com/tmsanders/go-preceptor/internal/middleware"
	"github.com/tmsanders/go-preceptor/internal/services"
)

// ChatHandler exposes chat threads and turns.
type ChatHandler struct {
	ChatService *services.ChatService
}

func NewChatHandler(service *services.ChatService) *ChatHandler {
	return &ChatHandler{ChatService: service}
}

// CreateThread opens a new conversation against one of the caller's assistants.
func (h *ChatHandler) CreateThread(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req dtos.CreateThreadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.AssistantID == "" {
		writeError(w, "assistant_id is required", http.StatusBadRequest)
		return
	}

	created, err := h.ChatService.CreateThread(r.Context(), userID, req.AssistantID, req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dtos.FromThread(*created))
}

// ListThreads returns the caller's threads, most recently active first.
func (h *ChatHandler) ListThreads(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	threads, err := h.ChatService.GetUserThreads(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dtos.FromThreadListItemSlice(threads))
}

// DeleteThread removes a thread remote-first.
func (h *ChatHandler) DeleteThread(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	if err := h.ChatService.DeleteThread(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ListMessages returns a thread's transcript oldest-first.
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	messages, err := h.ChatService.GetThreadMessages(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dtos.FromMessageSlice(messages))
}

// SendMessage posts a student message and returns the assistant's reply.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req dtos.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	reply, err := h.ChatService.SendMessage(r.Context(), userID, mux.Vars(r)["id"], req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dtos.FromMessage(*reply))
}
