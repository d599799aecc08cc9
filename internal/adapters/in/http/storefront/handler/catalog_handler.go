// backend/internal/adapters/in/http/storefront/handler/catalog_handler.go
package storefrontHandler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	usecase "boutique/internal/application/usecase"
	productdom "boutique/internal/domain/product"
)

// CatalogHandler serves the storefront's read side.
//
// Routes:
//   - GET /storefront/products                   product list
//   - GET /storefront/products/{slug}            product page
//   - GET /storefront/products/{slug}/resolve    variant resolution
type CatalogHandler struct {
	uc *usecase.CatalogUsecase
}

func NewCatalogHandler(uc *usecase.CatalogUsecase) http.Handler {
	return &CatalogHandler{uc: uc}
}

func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "catalog handler is not configured")
		return
	}
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")
	idx := strings.Index(path, "/products")
	if idx < 0 {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	tail := strings.TrimPrefix(path[idx:], "/products")
	tail = strings.Trim(tail, "/")

	switch {
	case tail == "":
		h.handleList(w, r)
	case strings.HasSuffix(tail, "/resolve"):
		h.handleResolve(w, r, strings.TrimSuffix(tail, "/resolve"))
	case !strings.Contains(tail, "/"):
		h.handleGet(w, r, tail)
	default:
		writeErr(w, http.StatusNotFound, "not found")
	}
}

func (h *CatalogHandler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := productdom.Filter{
		FeaturedOnly: parseBool(q.Get("featured")),
		InStockOnly:  parseBool(q.Get("inStock")),
		Limit:        parseIntDefault(q.Get("limit"), 0),
	}

	out, err := h.uc.List(r.Context(), filter)
	if err != nil {
		log.Printf("[catalog_handler] list error: %v", err)
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	dtos := make([]productDTO, 0, len(out))
	for _, p := range out {
		dtos = append(dtos, toProductDTO(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": dtos})
}

func (h *CatalogHandler) handleGet(w http.ResponseWriter, r *http.Request, slug string) {
	p, err := h.uc.GetBySlug(r.Context(), slug)
	if err != nil {
		h.writeCatalogErr(w, slug, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(p))
}

// handleResolve recomputes the resolution for the query-string selection.
// Every non-reserved query key is treated as an option name; undeclared
// names are ignored downstream.
func (h *CatalogHandler) handleResolve(w http.ResponseWriter, r *http.Request, slug string) {
	sel := map[string]string{}
	for k, vs := range r.URL.Query() {
		if len(vs) == 0 {
			continue
		}
		sel[k] = vs[0]
	}

	p, res, err := h.uc.Resolve(r.Context(), slug, sel)
	if err != nil {
		h.writeCatalogErr(w, slug, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"product":    toProductDTO(p),
		"resolution": toResolutionDTO(res),
	})
}

func (h *CatalogHandler) writeCatalogErr(w http.ResponseWriter, slug string, err error) {
	switch {
	case errors.Is(err, productdom.ErrNotFound):
		writeErr(w, http.StatusNotFound, "product not found")
	case errors.Is(err, usecase.ErrCatalogInvalidArgument), errors.Is(err, productdom.ErrInvalidSlug):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, productdom.ErrAmbiguousVariant):
		// duplicate variant mapping is catalog data corruption
		log.Printf("[catalog_handler] ambiguous variant slug=%q: %v", slug, err)
		writeErr(w, http.StatusConflict, err.Error())
	default:
		log.Printf("[catalog_handler] error slug=%q: %v", slug, err)
		writeErr(w, http.StatusInternalServerError, err.Error())
	}
}
