// backend/internal/domain/product/repository_port.go
package product

import "context"

// Repository is the catalog read port.
//
// Not-found policy: implementations return ErrNotFound (never nil, nil).
type Repository interface {
	// GetByID returns the product with the given id.
	GetByID(ctx context.Context, id string) (Product, error)

	// GetBySlug returns the product with the given storefront slug.
	GetBySlug(ctx context.Context, slug string) (Product, error)

	// List returns catalog entries in display order.
	List(ctx context.Context, filter Filter) ([]Product, error)
}

// Filter provides basic storefront listing filters.
type Filter struct {
	FeaturedOnly bool
	InStockOnly  bool
	Limit        int
}
