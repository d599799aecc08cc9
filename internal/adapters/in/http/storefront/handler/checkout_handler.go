// backend/internal/adapters/in/http/storefront/handler/checkout_handler.go
package storefrontHandler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"boutique/internal/adapters/in/http/middleware"
	usecase "boutique/internal/application/usecase"
	checkoutdom "boutique/internal/domain/checkout"
)

// CheckoutHandler triggers checkout and serves the confirmation handoff.
//
// Routes:
//   - POST /storefront/me/checkout           run checkout
//   - GET  /storefront/me/checkout/handoff   read the persisted handoff
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase

	// CurrencyCode comes from the settings source; opaque here.
	CurrencyCode string
}

func NewCheckoutHandler(uc *usecase.CheckoutUsecase, currencyCode string) http.Handler {
	return &CheckoutHandler{uc: uc, CurrencyCode: strings.TrimSpace(currencyCode)}
}

func (h *CheckoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "checkout handler is not configured")
		return
	}

	sid := readSessionID(r)
	if sid == "" {
		writeErr(w, http.StatusBadRequest, "session id is required")
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")
	isHandoff := strings.HasSuffix(path, "/handoff")

	switch {
	case r.Method == http.MethodPost && !isHandoff:
		h.handleCheckout(w, r, sid)
	case r.Method == http.MethodGet && isHandoff:
		h.handleReadHandoff(w, r, sid)
	default:
		writeErr(w, http.StatusNotFound, "not found")
	}
}

type checkoutReq struct {
	Email string `json:"email,omitempty"`
}

func (h *CheckoutHandler) handleCheckout(w http.ResponseWriter, r *http.Request, sid string) {
	var req checkoutReq
	if r.ContentLength > 0 {
		if err := readJSON(r, &req); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid json body")
			return
		}
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		// signed-in shoppers get the confirmation mail without typing it
		if _, tokenEmail, ok := middleware.CurrentUIDAndEmail(r); ok {
			email = tokenEmail
		}
	}

	handoff, err := h.uc.Checkout(r.Context(), usecase.CheckoutInput{
		SessionID:    sid,
		CurrencyCode: h.CurrencyCode,
		Email:        email,
	})
	if err != nil {
		h.writeCheckoutErr(w, sid, err)
		return
	}
	writeJSON(w, http.StatusCreated, toHandoffDTO(handoff))
}

func (h *CheckoutHandler) handleReadHandoff(w http.ResponseWriter, r *http.Request, sid string) {
	handoff, err := h.uc.ReadHandoff(r.Context(), sid)
	if err != nil {
		h.writeCheckoutErr(w, sid, err)
		return
	}
	if handoff == nil {
		writeErr(w, http.StatusNotFound, "no recent order")
		return
	}
	writeJSON(w, http.StatusOK, toHandoffDTO(*handoff))
}

func (h *CheckoutHandler) writeCheckoutErr(w http.ResponseWriter, sid string, err error) {
	switch {
	case errors.Is(err, checkoutdom.ErrEmptyCart):
		writeErr(w, http.StatusConflict, "cart is empty")
	case errors.Is(err, checkoutdom.ErrCheckoutInFlight):
		writeErr(w, http.StatusConflict, "checkout already in progress")
	case errors.Is(err, checkoutdom.ErrOrderCreationFailed):
		log.Printf("[checkout_handler] order creation failed session=%s: %v", sid, err)
		writeErr(w, http.StatusBadGateway, "order creation failed")
	case errors.Is(err, usecase.ErrCheckoutInvalidArgument):
		writeErr(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("[checkout_handler] error session=%s: %v", sid, err)
		writeErr(w, http.StatusInternalServerError, err.Error())
	}
}

// -------------------------
// response DTO
// -------------------------

type handoffDTO struct {
	OrderID   string         `json:"orderId"`
	Order     map[string]any `json:"order,omitempty"`
	Snapshot  snapshotDTO    `json:"snapshot"`
	CreatedAt string         `json:"createdAt"`
}

type snapshotDTO struct {
	Items        []cartItemDTO `json:"items"`
	Total        moneyDTO      `json:"total"`
	CurrencyCode string        `json:"currencyCode"`
	TakenAt      string        `json:"takenAt"`
}

func toHandoffDTO(h checkoutdom.Handoff) handoffDTO {
	items := make([]cartItemDTO, 0, len(h.Snapshot.Items))
	for _, it := range h.Snapshot.Items {
		items = append(items, cartItemDTO{
			Key:       it.Key,
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Title:     it.Title,
			Image:     it.Image,
			UnitPrice: toMoneyDTO(it.UnitPrice),
			Qty:       it.Qty,
			LineTotal: toMoneyDTO(it.LineTotal()),
		})
	}
	return handoffDTO{
		OrderID: h.OrderID,
		Order:   h.Order,
		Snapshot: snapshotDTO{
			Items:        items,
			Total:        toMoneyDTO(h.Snapshot.Total),
			CurrencyCode: h.Snapshot.CurrencyCode,
			TakenAt:      toRFC3339(h.Snapshot.TakenAt),
		},
		CreatedAt: toRFC3339(h.CreatedAt),
	}
}
