// File: internal/handlers/auth_handlers.go
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/tmsanders/go-preceptor/internal/auth"
	"github.com/tmsanders/go-preceptor/internal/dtos"
	"github.com/tmsanders/go-preceptor/internal/ratelimit"
	"github.com/tmsanders/go-preceptor/internal/services/user_services"
)

const passwordMinLength = 8

// AuthHandler holds the dependencies for authentication handlers.
type AuthHandler struct {
	AuthService *user_services.AuthService
	Limiter     *ratelimit.AttemptLimiter
}

// NewAuthHandler creates a new AuthHandler. The limiter is optional;
// when present, a successful sign-in clears the caller's attempt count.
func NewAuthHandler(service *user_services.AuthService, limiter *ratelimit.AttemptLimiter) *AuthHandler {
	return &AuthHandler{AuthService: service, Limiter: limiter}
}

// Signup registers a new account and signs it straight in.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dtos.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || len(req.Password) < passwordMinLength {
		writeError(w, "email and a password of at least 8 characters are required", http.StatusBadRequest)
		return
	}

	identity, token, err := h.AuthService.SignUp(r.Context(), req.Email, req.Password, req.FullName, req.Role, req.SchoolID)
	if err != nil {
		log.Printf("[AuthHandler] signup failed: %v", err)
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	setSessionCookie(w, token)
	writeJSON(w, http.StatusCreated, dtos.AuthResponse{
		User:  dtos.FromIdentity(*identity),
		Token: token,
	})
}

// Login validates credentials and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dtos.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	identity, token, err := h.AuthService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Printf("[AuthHandler] login failed: %v", err)
		writeError(w, "invalid email or password", http.StatusUnauthorized)
		return
	}

	if h.Limiter != nil {
		h.Limiter.Reset(ratelimit.ClientIP(r))
	}

	setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, dtos.AuthResponse{
		User:  dtos.FromIdentity(*identity),
		Token: token,
	})
}

// Logout denylists the presented token and clears the cookie. Always
// answers 200: a client without a live session is already logged out.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		if err := h.AuthService.SignOut(r.Context(), token); err != nil {
			log.Printf("[AuthHandler] logout revocation failed: %v", err)
			writeError(w, "logout failed", http.StatusInternalServerError)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me returns the account behind the current session.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r)
	if token == "" {
		writeError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	identity, err := h.AuthService.CurrentUser(r.Context(), token)
	if err != nil {
		writeError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, dtos.FromIdentity(*identity))
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Expires:  time.Now().Add(auth.TokenTTL),
		HttpOnly: true,
		Secure:   true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
}

// sessionToken pulls the token from the cookie or a bearer header.
func sessionToken(r *http.Request) string {
	if cookie, err := r.Cookie("auth_token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
