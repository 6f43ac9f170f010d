package handler

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// LoginAPI is the slice of the backend client auth handlers need.
type LoginAPI interface {
	Login(ctx context.Context, body []byte) (int, json.RawMessage, error)
}

// AuthHandler proxies authentication to the backend, which owns
// credentials and token minting. The console only validates the tokens
// it hands back.
type AuthHandler struct {
	api LoginAPI
}

func NewAuthHandler(api LoginAPI) *AuthHandler {
	return &AuthHandler{api: api}
}

// RegisterRoutes registers auth endpoints on the given Chi router.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)
}

// Login handles POST /auth/login by relaying credentials to the backend
// and mirroring its response verbatim.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	status, payload, err := h.api.Login(r.Context(), body)
	if err != nil {
		log.Printf("ERROR: proxy login: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "backend unavailable"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}
