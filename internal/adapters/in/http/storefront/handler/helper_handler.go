// backend/internal/adapters/in/http/storefront/handler/helper_handler.go
package storefrontHandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"boutique/internal/adapters/in/http/middleware"
	cartdom "boutique/internal/domain/cart"
	"boutique/internal/domain/money"
	productdom "boutique/internal/domain/product"
)

// ============================================================
// HTTP helpers
// ============================================================

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": strings.TrimSpace(msg),
	})
}

func readJSON(r *http.Request, dst any) error {
	if dst == nil {
		return errors.New("dst is nil")
	}
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)) // 1MB
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// readSessionID prefers the id resolved by the session middleware; the
// header fallback keeps handlers usable without the full chain (tests).
func readSessionID(r *http.Request) string {
	if sid, ok := middleware.SessionID(r); ok {
		return sid
	}
	return strings.TrimSpace(r.Header.Get("X-Session-Id"))
}

func parseIntDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func toRFC3339(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// ============================================================
// Response DTOs (shared across handlers)
// ============================================================

type moneyDTO struct {
	Cents     int64  `json:"cents"`
	Currency  string `json:"currency"`
	Formatted string `json:"formatted"`
}

func toMoneyDTO(m money.Money) moneyDTO {
	return moneyDTO{Cents: m.Cents, Currency: m.Currency, Formatted: m.Format()}
}

func toMoneyDTOPtr(m *money.Money) *moneyDTO {
	if m == nil {
		return nil
	}
	d := toMoneyDTO(*m)
	return &d
}

type optionDTO struct {
	Name     string            `json:"name"`
	Values   []string          `json:"values"`
	Swatches map[string]string `json:"swatches,omitempty"`
}

type variantDTO struct {
	ID        string            `json:"id"`
	Options   map[string]string `json:"options"`
	Price     moneyDTO          `json:"price"`
	CompareAt *moneyDTO         `json:"compareAt,omitempty"`
	Image     string            `json:"image,omitempty"`
	InStock   bool              `json:"inStock"`
}

type productDTO struct {
	ID          string       `json:"id"`
	Slug        string       `json:"slug"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Price       moneyDTO     `json:"price"`
	CompareAt   *moneyDTO    `json:"compareAt,omitempty"`
	Images      []string     `json:"images"`
	Options     []optionDTO  `json:"options"`
	Variants    []variantDTO `json:"variants"`
	InStock     bool         `json:"inStock"`
	Featured    bool         `json:"featured"`
}

func toProductDTO(p productdom.Product) productDTO {
	options := make([]optionDTO, 0, len(p.Options))
	for _, o := range p.Options {
		options = append(options, optionDTO{
			Name:     o.Name,
			Values:   o.Values,
			Swatches: o.Swatches,
		})
	}

	variants := make([]variantDTO, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, variantDTO{
			ID:        v.ID,
			Options:   v.Options,
			Price:     toMoneyDTO(v.Price),
			CompareAt: toMoneyDTOPtr(v.CompareAt),
			Image:     v.Image,
			InStock:   v.InStock(),
		})
	}

	return productDTO{
		ID:          p.ID,
		Slug:        p.Slug,
		Title:       p.Title,
		Description: p.Description,
		Price:       toMoneyDTO(p.Price),
		CompareAt:   toMoneyDTOPtr(p.CompareAt),
		Images:      p.Images,
		Options:     options,
		Variants:    variants,
		InStock:     p.InStock,
		Featured:    p.Featured,
	}
}

type resolutionDTO struct {
	VariantID       string                     `json:"variantId,omitempty"`
	AvailableValues map[string]map[string]bool `json:"availableValues"`
	Price           moneyDTO                   `json:"price"`
	CompareAt       *moneyDTO                  `json:"compareAt,omitempty"`
	Image           string                     `json:"image,omitempty"`
	CanAddToCart    bool                       `json:"canAddToCart"`
	DiscountPercent int                        `json:"discountPercent,omitempty"`
}

func toResolutionDTO(res productdom.Resolution) resolutionDTO {
	d := resolutionDTO{
		AvailableValues: res.AvailableValues,
		Price:           toMoneyDTO(res.Price),
		CompareAt:       toMoneyDTOPtr(res.CompareAt),
		Image:           res.Image,
		CanAddToCart:    res.CanAddToCart,
	}
	if res.Variant != nil {
		d.VariantID = res.Variant.ID
	}
	if pct, ok := res.DiscountPercent(); ok {
		d.DiscountPercent = pct
	}
	return d
}

type cartItemDTO struct {
	Key       string   `json:"key"`
	ProductID string   `json:"productId"`
	VariantID string   `json:"variantId,omitempty"`
	Title     string   `json:"title"`
	Image     string   `json:"image,omitempty"`
	UnitPrice moneyDTO `json:"unitPrice"`
	Qty       int      `json:"qty"`
	LineTotal moneyDTO `json:"lineTotal"`
}

type cartDTO struct {
	SessionID string        `json:"sessionId"`
	Items     []cartItemDTO `json:"items"`
	ItemCount int           `json:"itemCount"`
	Total     moneyDTO      `json:"total"`
	CreatedAt string        `json:"createdAt,omitempty"`
	UpdatedAt string        `json:"updatedAt,omitempty"`
}

func toCartDTO(c *cartdom.Cart) cartDTO {
	items := make([]cartItemDTO, 0, len(c.Items))
	for _, it := range c.Items {
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
	return cartDTO{
		SessionID: c.ID,
		Items:     items,
		ItemCount: c.ItemCount(),
		Total:     toMoneyDTO(c.Total()),
		CreatedAt: toRFC3339(c.CreatedAt),
		UpdatedAt: toRFC3339(c.UpdatedAt),
	}
}
