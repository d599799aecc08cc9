// backend/internal/adapters/in/http/storefront/router.go
package storefront

import (
	"log"
	"net/http"
)

// Deps is the buyer-facing (storefront) handler set.
type Deps struct {
	Catalog  http.Handler
	Cart     http.Handler
	Checkout http.Handler
}

// handleSafe registers pattern with h.
// If h is nil, it logs and registers NotFoundHandler instead (so Cloud Run won't crash).
func handleSafe(mux *http.ServeMux, pattern string, h http.Handler, name string) {
	if h == nil {
		log.Printf("[storefront.router] WARN: nil handler: %s pattern=%s (registering NotFoundHandler)", name, pattern)
		h = http.NotFoundHandler()
	}
	mux.Handle(pattern, h)
}

// Register registers buyer-facing routes onto mux.
func Register(mux *http.ServeMux, deps Deps) {
	if mux == nil {
		return
	}

	// catalog
	handleSafe(mux, "/storefront/products", deps.Catalog, "Catalog")
	handleSafe(mux, "/storefront/products/", deps.Catalog, "Catalog")

	// cart
	handleSafe(mux, "/storefront/me/cart", deps.Cart, "Cart(me)")
	handleSafe(mux, "/storefront/me/cart/", deps.Cart, "Cart(me)")

	// checkout
	handleSafe(mux, "/storefront/me/checkout", deps.Checkout, "Checkout(me)")
	handleSafe(mux, "/storefront/me/checkout/", deps.Checkout, "Checkout(me)")
}
