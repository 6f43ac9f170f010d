package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/banmai-pos/console/internal/backend"
	"github.com/banmai-pos/console/internal/cart"
	"github.com/banmai-pos/console/internal/catalog"
	"github.com/banmai-pos/console/internal/checkout"
	"github.com/banmai-pos/console/internal/middleware"
)

// CartCatalog resolves the catalog references a cart mutation needs.
type CartCatalog interface {
	MenuItem(ctx context.Context, token string, id uuid.UUID) (backend.MenuItem, error)
	Table(ctx context.Context, token string, id uuid.UUID) (backend.Table, error)
	Promotion(ctx context.Context, token string, id uuid.UUID) (cart.Promotion, error)
}

// CartHandler handles the per-terminal cart endpoints.
type CartHandler struct {
	carts   cart.Store
	catalog CartCatalog
}

func NewCartHandler(carts cart.Store, cat CartCatalog) *CartHandler {
	return &CartHandler{carts: carts, catalog: cat}
}

// RegisterRoutes registers cart endpoints on the given Chi router.
// Expected to be mounted at /terminals/{tid}/cart
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Post("/items", h.AddItem)
	r.Delete("/items/{itemID}", h.RemoveItem)
	r.Post("/items/{itemID}/increase", h.IncreaseQuantity)
	r.Post("/items/{itemID}/decrease", h.DecreaseQuantity)
	r.Put("/items/{itemID}/note", h.UpdateNote)
	r.Put("/table", h.SetTable)
	r.Put("/promotion", h.SetPromotion)
}

// --- Request / Response types ---

type addItemRequest struct {
	MenuItemID string `json:"menu_item_id"`
}

type updateNoteRequest struct {
	Note string `json:"note"`
}

type setTableRequest struct {
	TableID *string `json:"table_id"`
}

type setPromotionRequest struct {
	PromotionID *string `json:"promotion_id"`
}

type cartLineResponse struct {
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Name       string    `json:"name"`
	UnitPrice  string    `json:"unit_price"`
	Quantity   int32     `json:"quantity"`
	Note       string    `json:"note,omitempty"`
	LineTotal  string    `json:"line_total"`
}

type cartTableResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type cartPromotionResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	MinSubtotal   string    `json:"min_subtotal"`
	DiscountType  string    `json:"discount_type"`
	DiscountValue string    `json:"discount_value"`
}

type cartResponse struct {
	TerminalID       uuid.UUID              `json:"terminal_id"`
	Lines            []cartLineResponse     `json:"lines"`
	Table            *cartTableResponse     `json:"table,omitempty"`
	Promotion        *cartPromotionResponse `json:"promotion,omitempty"`
	Subtotal         string                 `json:"subtotal"`
	DiscountAmount   string                 `json:"discount_amount"`
	TotalAmount      string                 `json:"total_amount"`
	PromotionApplied bool                   `json:"promotion_applied"`
}

func cartToResponse(terminalID uuid.UUID, st cart.State) cartResponse {
	totals := checkout.ComputeTotals(&st)

	resp := cartResponse{
		TerminalID:       terminalID,
		Lines:            make([]cartLineResponse, len(st.Lines)),
		Subtotal:         totals.Subtotal.StringFixed(2),
		DiscountAmount:   totals.Discount.StringFixed(2),
		TotalAmount:      totals.Total.StringFixed(2),
		PromotionApplied: totals.PromotionApplied,
	}
	for i, l := range st.Lines {
		resp.Lines[i] = cartLineResponse{
			MenuItemID: l.MenuItemID,
			Name:       l.Name,
			UnitPrice:  l.UnitPrice.StringFixed(2),
			Quantity:   l.Quantity,
			Note:       l.Note,
			LineTotal:  l.Total().StringFixed(2),
		}
	}
	if st.Table != nil {
		resp.Table = &cartTableResponse{ID: st.Table.ID, Name: st.Table.Name}
	}
	if st.Promotion != nil {
		resp.Promotion = &cartPromotionResponse{
			ID:            st.Promotion.ID,
			Name:          st.Promotion.Name,
			MinSubtotal:   st.Promotion.MinSubtotal.StringFixed(2),
			DiscountType:  st.Promotion.DiscountType,
			DiscountValue: st.Promotion.DiscountValue.String(),
		}
	}
	return resp
}

// --- Handlers ---

// Get handles GET /terminals/{tid}/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	terminalID, ok := terminalIDFromRequest(w, r)
	if !ok {
		return
	}

	st, err := h.carts.Get(r.Context(), terminalID)
	if err != nil {
		log.Printf("ERROR: get cart: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, cartToResponse(terminalID, st))
}

// AddItem handles POST /terminals/{tid}/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	terminalID, ok := terminalIDFromRequest(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	menuItemID, err := uuid.Parse(req.MenuItemID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu_item_id"})
		return
	}

	token := middleware.TokenFromContext(r.Context())
	item, err := h.catalog.MenuItem(r.Context(), token, menuItemID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found or unavailable"})
			return
		}
		log.Printf("ERROR: resolve menu item: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "backend unavailable"})
		return
	}

	st, err := h.carts.Mutate(r.Context(), terminalID, func(s *cart.State) {
		s.AddItem(cart.MenuItemRef{ID: item.ID, Name: item.Name, UnitPrice: item.UnitPrice})
	})
	if err != nil {
		log.Printf("ERROR: add cart item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, cartToResponse(terminalID, st))
}

// RemoveItem handles DELETE /terminals/{tid}/cart/items/{itemID}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.mutateLine(w, r, func(s *cart.State, itemID uuid.UUID) {
		s.RemoveItem(itemID)
	})
}

// IncreaseQuantity handles POST /terminals/{tid}/cart/items/{itemID}/increase.
func (h *CartHandler) IncreaseQuantity(w http.ResponseWriter, r *http.Request) {
	h.mutateLine(w, r, func(s *cart.State, itemID uuid.UUID) {
		s.IncreaseQuantity(itemID)
	})
}

// DecreaseQuantity handles POST /terminals/{tid}/cart/items/{itemID}/decrease.
func (h *CartHandler) DecreaseQuantity(w http.ResponseWriter, r *http.Request) {
	h.mutateLine(w, r, func(s *cart.State, itemID uuid.UUID) {
		s.DecreaseQuantity(itemID)
	})
}

// UpdateNote handles PUT /terminals/{tid}/cart/items/{itemID}/note.
func (h *CartHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req updateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	h.mutateLine(w, r, func(s *cart.State, itemID uuid.UUID) {
		s.UpdateItemNote(itemID, req.Note)
	})
}

// SetTable handles PUT /terminals/{tid}/cart/table. A null table_id
// marks the order as takeaway.
func (h *CartHandler) SetTable(w http.ResponseWriter, r *http.Request) {
	terminalID, ok := terminalIDFromRequest(w, r)
	if !ok {
		return
	}

	var req setTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	var tableRef *cart.TableRef
	if req.TableID != nil {
		tableID, err := uuid.Parse(*req.TableID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table_id"})
			return
		}
		token := middleware.TokenFromContext(r.Context())
		table, err := h.catalog.Table(r.Context(), token, tableID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "table not found"})
				return
			}
			log.Printf("ERROR: resolve table: %v", err)
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "backend unavailable"})
			return
		}
		tableRef = &cart.TableRef{ID: table.ID, Name: table.Name}
	}

	st, err := h.carts.Mutate(r.Context(), terminalID, func(s *cart.State) {
		s.SetTable(tableRef)
	})
	if err != nil {
		log.Printf("ERROR: set cart table: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, cartToResponse(terminalID, st))
}

// SetPromotion handles PUT /terminals/{tid}/cart/promotion. A null
// promotion_id removes the selection.
func (h *CartHandler) SetPromotion(w http.ResponseWriter, r *http.Request) {
	terminalID, ok := terminalIDFromRequest(w, r)
	if !ok {
		return
	}

	var req setPromotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	var promotion *cart.Promotion
	if req.PromotionID != nil {
		promotionID, err := uuid.Parse(*req.PromotionID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid promotion_id"})
			return
		}
		token := middleware.TokenFromContext(r.Context())
		p, err := h.catalog.Promotion(r.Context(), token, promotionID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "promotion not found"})
				return
			}
			log.Printf("ERROR: resolve promotion: %v", err)
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "backend unavailable"})
			return
		}
		promotion = &p
	}

	st, err := h.carts.Mutate(r.Context(), terminalID, func(s *cart.State) {
		s.SetPromotion(promotion)
	})
	if err != nil {
		log.Printf("ERROR: set cart promotion: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, cartToResponse(terminalID, st))
}

// --- Helpers ---

// mutateLine applies a line-level mutation addressed by the itemID path
// param and responds with the updated cart.
func (h *CartHandler) mutateLine(w http.ResponseWriter, r *http.Request, fn func(*cart.State, uuid.UUID)) {
	terminalID, ok := terminalIDFromRequest(w, r)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	st, err := h.carts.Mutate(r.Context(), terminalID, func(s *cart.State) {
		fn(s, itemID)
	})
	if err != nil {
		log.Printf("ERROR: mutate cart: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, cartToResponse(terminalID, st))
}

func terminalIDFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	terminalID, err := uuid.Parse(chi.URLParam(r, "tid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid terminal ID"})
		return uuid.Nil, false
	}
	return terminalID, true
}
