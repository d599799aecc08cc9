// backend/internal/application/usecase/catalog_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"

	productdom "boutique/internal/domain/product"
)

var ErrCatalogInvalidArgument = errors.New("catalog_usecase: invalid argument")

// ImageURLResolver maps stored image references (object paths) to public
// URLs. References that are already absolute URLs pass through unchanged.
type ImageURLResolver interface {
	PublicURL(objectPath string) string
}

// CatalogUsecase serves the storefront's read side: product lists, product
// pages, and per-render variant resolution.
type CatalogUsecase struct {
	products productdom.Repository
	images   ImageURLResolver // optional
}

func NewCatalogUsecase(products productdom.Repository, images ImageURLResolver) *CatalogUsecase {
	return &CatalogUsecase{products: products, images: images}
}

// List returns catalog entries for the storefront grid.
func (uc *CatalogUsecase) List(ctx context.Context, filter productdom.Filter) ([]productdom.Product, error) {
	out, err := uc.products.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range out {
		uc.resolveImages(&out[i])
	}
	return out, nil
}

// GetBySlug returns one product for the product page.
func (uc *CatalogUsecase) GetBySlug(ctx context.Context, slug string) (productdom.Product, error) {
	s := strings.TrimSpace(slug)
	if s == "" {
		return productdom.Product{}, ErrCatalogInvalidArgument
	}
	p, err := uc.products.GetBySlug(ctx, s)
	if err != nil {
		return productdom.Product{}, err
	}
	uc.resolveImages(&p)
	return p, nil
}

// Resolve recomputes the variant resolution for a shopper's selection.
// Called on every selection change; never cached across products.
func (uc *CatalogUsecase) Resolve(ctx context.Context, slug string, sel map[string]string) (productdom.Product, productdom.Resolution, error) {
	p, err := uc.GetBySlug(ctx, slug)
	if err != nil {
		return productdom.Product{}, productdom.Resolution{}, err
	}
	res, err := productdom.Resolve(p, productdom.Selection(sel))
	if err != nil {
		return productdom.Product{}, productdom.Resolution{}, err
	}
	return p, res, nil
}

func (uc *CatalogUsecase) resolveImages(p *productdom.Product) {
	if uc.images == nil {
		return
	}
	for i, ref := range p.Images {
		p.Images[i] = uc.publicURL(ref)
	}
	for i := range p.Variants {
		if p.Variants[i].Image != "" {
			p.Variants[i].Image = uc.publicURL(p.Variants[i].Image)
		}
	}
}

func (uc *CatalogUsecase) publicURL(ref string) string {
	r := strings.TrimSpace(ref)
	if r == "" {
		return r
	}
	if strings.HasPrefix(r, "http://") || strings.HasPrefix(r, "https://") {
		return r
	}
	return uc.images.PublicURL(r)
}
