// backend/internal/adapters/in/http/storefront/handler/cart_handler.go
package storefrontHandler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	usecase "boutique/internal/application/usecase"
	cartdom "boutique/internal/domain/cart"
	productdom "boutique/internal/domain/product"
)

// CartHandler serves the session cart.
//
// Routes:
//   - GET    /storefront/me/cart           current cart
//   - DELETE /storefront/me/cart           clear
//   - POST   /storefront/me/cart/items     add item
//   - PUT    /storefront/me/cart/items     set qty (<= 0 removes)
//   - DELETE /storefront/me/cart/items     remove item
type CartHandler struct {
	uc *usecase.CartUsecase
}

func NewCartHandler(uc *usecase.CartUsecase) http.Handler {
	return &CartHandler{uc: uc}
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "cart handler is not configured")
		return
	}

	sid := readSessionID(r)
	if sid == "" {
		writeErr(w, http.StatusBadRequest, "session id is required")
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")
	isItems := strings.HasSuffix(path, "/items")

	switch {
	case r.Method == http.MethodGet && !isItems:
		h.handleGet(w, r, sid)
	case r.Method == http.MethodDelete && !isItems:
		h.handleClear(w, r, sid)
	case r.Method == http.MethodPost && isItems:
		h.handleAddItem(w, r, sid)
	case r.Method == http.MethodPut && isItems:
		h.handleSetQty(w, r, sid)
	case r.Method == http.MethodDelete && isItems:
		h.handleRemoveItem(w, r, sid)
	default:
		writeErr(w, http.StatusNotFound, "not found")
	}
}

func (h *CartHandler) handleGet(w http.ResponseWriter, r *http.Request, sid string) {
	c, err := h.uc.Get(r.Context(), sid)
	if err != nil {
		h.writeCartErr(w, sid, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartDTO(c))
}

type addItemReq struct {
	ProductID string            `json:"productId"`
	VariantID string            `json:"variantId,omitempty"`
	Selection map[string]string `json:"selection,omitempty"`
	Qty       int               `json:"qty"`
}

func (h *CartHandler) handleAddItem(w http.ResponseWriter, r *http.Request, sid string) {
	var req addItemReq
	if err := readJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}

	c, err := h.uc.AddItem(r.Context(), sid, usecase.AddItemInput{
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Selection: req.Selection,
		Qty:       req.Qty,
	})
	if err != nil {
		h.writeCartErr(w, sid, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartDTO(c))
}

type setQtyReq struct {
	Key string `json:"key"`
	Qty int    `json:"qty"`
}

func (h *CartHandler) handleSetQty(w http.ResponseWriter, r *http.Request, sid string) {
	var req setQtyReq
	if err := readJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json body")
		return
	}

	c, err := h.uc.SetItemQty(r.Context(), sid, req.Key, req.Qty)
	if err != nil {
		h.writeCartErr(w, sid, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartDTO(c))
}

func (h *CartHandler) handleRemoveItem(w http.ResponseWriter, r *http.Request, sid string) {
	// key via query (DELETE bodies are unreliable across clients)
	key := strings.TrimSpace(r.URL.Query().Get("key"))
	if key == "" {
		var req setQtyReq
		if err := readJSON(r, &req); err == nil {
			key = strings.TrimSpace(req.Key)
		}
	}
	if key == "" {
		writeErr(w, http.StatusBadRequest, "key is required")
		return
	}

	c, err := h.uc.RemoveItem(r.Context(), sid, key)
	if err != nil {
		h.writeCartErr(w, sid, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartDTO(c))
}

func (h *CartHandler) handleClear(w http.ResponseWriter, r *http.Request, sid string) {
	if err := h.uc.Clear(r.Context(), sid); err != nil {
		h.writeCartErr(w, sid, err)
		return
	}
	c, err := h.uc.Get(r.Context(), sid)
	if err != nil {
		h.writeCartErr(w, sid, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartDTO(c))
}

func (h *CartHandler) writeCartErr(w http.ResponseWriter, sid string, err error) {
	switch {
	case errors.Is(err, productdom.ErrNotFound):
		writeErr(w, http.StatusNotFound, "product not found")
	case errors.Is(err, usecase.ErrCannotAddToCart):
		writeErr(w, http.StatusConflict, err.Error())
	case errors.Is(err, usecase.ErrCartInvalidArgument),
		errors.Is(err, cartdom.ErrInvalidQuantity),
		errors.Is(err, cartdom.ErrInvalidLine),
		errors.Is(err, cartdom.ErrInvalidCart):
		writeErr(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("[cart_handler] error session=%s: %v", sid, err)
		writeErr(w, http.StatusInternalServerError, err.Error())
	}
}
