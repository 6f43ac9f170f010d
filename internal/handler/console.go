package handler

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/banmai-pos/console/internal/middleware"
)

// Forwarder relays a request to the backend and hands back the raw
// status and payload.
type Forwarder interface {
	Forward(ctx context.Context, token, method, path string, body io.Reader) (int, json.RawMessage, error)
}

// consoleResources maps console resource names to backend paths. Only
// listed resources can be proxied; everything else is 404.
var consoleResources = map[string]string{
	"employees":  "/employees",
	"suppliers":  "/suppliers",
	"inventory":  "/inventory",
	"shifts":     "/shifts",
	"schedules":  "/schedules",
	"menu-items": "/menu-items",
	"promotions": "/promotions",
	"tables":     "/tables",
	"orders":     "/orders",
}

// ConsoleHandler proxies the management CRUD surfaces to the backend.
// The router guards it with a manager-or-owner role check; the backend
// re-checks permissions on its side as well.
type ConsoleHandler struct {
	api Forwarder
}

func NewConsoleHandler(api Forwarder) *ConsoleHandler {
	return &ConsoleHandler{api: api}
}

// RegisterRoutes registers the proxy routes on the given Chi router.
// Expected to be mounted at /console
func (h *ConsoleHandler) RegisterRoutes(r chi.Router) {
	r.HandleFunc("/{resource}", h.Proxy)
	r.HandleFunc("/{resource}/{id}", h.Proxy)
}

// Proxy relays any method on an allowlisted resource, mirroring the
// backend's status and body verbatim.
func (h *ConsoleHandler) Proxy(w http.ResponseWriter, r *http.Request) {
	resource := chi.URLParam(r, "resource")
	base, ok := consoleResources[resource]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown resource"})
		return
	}

	path := base
	if id := chi.URLParam(r, "id"); id != "" {
		path += "/" + id
	}
	if r.URL.RawQuery != "" {
		path += "?" + r.URL.RawQuery
	}

	token := middleware.TokenFromContext(r.Context())
	status, payload, err := h.api.Forward(r.Context(), token, r.Method, path, r.Body)
	if err != nil {
		log.Printf("ERROR: proxy %s %s: %v", r.Method, path, err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "backend unavailable"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}
