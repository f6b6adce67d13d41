// File: internal/handlers/document_handler.go
package handlers

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tmsanders/go-preceptor/internal/dtos"
	"github.com/tmsanders/go-preceptor/internal/middleware"
	"github.com/tmsanders/go-preceptor/internal/services"
)

// multipartMemory caps how much of an upload is buffered in memory
// before spilling to disk; the body itself is capped by MaxBytesReader.
const multipartMemory = 32 << 20

// DocumentHandler exposes curriculum document upload and management.
type DocumentHandler struct {
	DocumentService *services.DocumentService
	MaxUploadBytes  int64
}

func NewDocumentHandler(service *services.DocumentService, maxUploadBytes int64) *DocumentHandler {
	return &DocumentHandler{DocumentService: service, MaxUploadBytes: maxUploadBytes}
}

// Upload accepts a multipart form with a single "file" field and attaches
// the document to the assistant in the path.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	if h.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, "invalid form data", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, "file is required (field: file)", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, "could not read upload", http.StatusBadRequest)
		return
	}

	doc, err := h.DocumentService.UploadDocument(r.Context(), userID, mux.Vars(r)["id"], header.Filename, data)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dtos.FromDocument(*doc))
}

// List returns the documents attached to an assistant.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	docs, err := h.DocumentService.GetAssistantDocuments(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dtos.FromDocumentSlice(docs))
}

// Delete removes a document record.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	if err := h.DocumentService.DeleteDocument(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
