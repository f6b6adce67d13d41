// File: internal/handlers/respond.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	assistantsvc "github.com/tmsanders/go-preceptor/internal/services/assistant"
	chatservice "github.com/tmsanders/go-preceptor/internal/services/chat"
	documentsvc "github.com/tmsanders/go-preceptor/internal/services/document"
)

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// notFoundMessage answers both missing and foreign resources, so ids
// cannot be probed for existence.
const notFoundMessage = "resource not found"

// writeServiceError maps a workflow error to an HTTP answer. Validation
// messages pass through verbatim; authorization and not-found collapse
// into one generic 404; remote trouble reads as a bad gateway; anything
// else degrades to a generic 500 without leaking internals.
func writeServiceError(w http.ResponseWriter, err error) {
	var aerr *assistantsvc.AssistantError
	if errors.As(err, &aerr) {
		switch aerr.Type {
		case assistantsvc.ErrTypeValidation:
			writeError(w, aerr.Message, http.StatusBadRequest)
		case assistantsvc.ErrTypeUnauthorized, assistantsvc.ErrTypeNotFound:
			writeError(w, notFoundMessage, http.StatusNotFound)
		case assistantsvc.ErrTypeRemote:
			writeError(w, "assistant service unavailable", http.StatusBadGateway)
		default:
			writeError(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	var derr *documentsvc.DocumentError
	if errors.As(err, &derr) {
		switch derr.Type {
		case documentsvc.ErrTypeValidation:
			writeError(w, derr.Message, http.StatusBadRequest)
		case documentsvc.ErrTypeUnauthorized, documentsvc.ErrTypeNotFound:
			writeError(w, notFoundMessage, http.StatusNotFound)
		case documentsvc.ErrTypeRemote:
			writeError(w, "document service unavailable", http.StatusBadGateway)
		default:
			writeError(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	var cerr *chatservice.ChatError
	if errors.As(err, &cerr) {
		switch cerr.Type {
		case chatservice.ErrTypeValidation:
			writeError(w, cerr.Message, http.StatusBadRequest)
		case chatservice.ErrTypeUnauthorized, chatservice.ErrTypeNotFound:
			writeError(w, notFoundMessage, http.StatusNotFound)
		case chatservice.ErrTypeTurn:
			writeError(w, "the assistant did not reply, please try again", http.StatusBadGateway)
		case chatservice.ErrTypeRemote:
			writeError(w, "chat service unavailable", http.StatusBadGateway)
		default:
			writeError(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	writeError(w, "internal error", http.StatusInternalServerError)
}
