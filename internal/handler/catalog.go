package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/banmai-pos/console/internal/backend"
	"github.com/banmai-pos/console/internal/cart"
	"github.com/banmai-pos/console/internal/middleware"
)

// CatalogReader is implemented by *catalog.Cache.
type CatalogReader interface {
	MenuItems(ctx context.Context, token string) ([]backend.MenuItem, error)
	Tables(ctx context.Context, token string) ([]backend.Table, error)
	Promotions(ctx context.Context, token string) ([]cart.Promotion, error)
}

// CatalogHandler serves the read-only lists terminals render their
// screens from.
type CatalogHandler struct {
	catalog CatalogReader
}

func NewCatalogHandler(cat CatalogReader) *CatalogHandler {
	return &CatalogHandler{catalog: cat}
}

// RegisterRoutes registers catalog endpoints on the given Chi router.
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/menu", h.Menu)
	r.Get("/tables", h.Tables)
	r.Get("/promotions", h.Promotions)
}

type menuItemResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	UnitPrice string `json:"unit_price"`
	Available bool   `json:"available"`
}

type tableResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int32  `json:"capacity"`
	Occupied bool   `json:"occupied"`
}

type promotionResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	MinSubtotal   string `json:"min_subtotal"`
	DiscountType  string `json:"discount_type"`
	DiscountValue string `json:"discount_value"`
}

// Menu handles GET /menu.
func (h *CatalogHandler) Menu(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())
	items, err := h.catalog.MenuItems(r.Context(), token)
	if err != nil {
		log.Printf("ERROR: list menu: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "backend unavailable"})
		return
	}

	resp := make([]menuItemResponse, len(items))
	for i, item := range items {
		resp[i] = menuItemResponse{
			ID:        item.ID.String(),
			Name:      item.Name,
			Category:  item.Category,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Available: item.Available,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Tables handles GET /tables.
func (h *CatalogHandler) Tables(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())
	tables, err := h.catalog.Tables(r.Context(), token)
	if err != nil {
		log.Printf("ERROR: list tables: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "backend unavailable"})
		return
	}

	resp := make([]tableResponse, len(tables))
	for i, t := range tables {
		resp[i] = tableResponse{
			ID:       t.ID.String(),
			Name:     t.Name,
			Capacity: t.Capacity,
			Occupied: t.Occupied,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Promotions handles GET /promotions.
func (h *CatalogHandler) Promotions(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())
	promotions, err := h.catalog.Promotions(r.Context(), token)
	if err != nil {
		log.Printf("ERROR: list promotions: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "backend unavailable"})
		return
	}

	resp := make([]promotionResponse, len(promotions))
	for i, p := range promotions {
		resp[i] = promotionResponse{
			ID:            p.ID.String(),
			Name:          p.Name,
			MinSubtotal:   p.MinSubtotal.StringFixed(2),
			DiscountType:  p.DiscountType,
			DiscountValue: p.DiscountValue.String(),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
