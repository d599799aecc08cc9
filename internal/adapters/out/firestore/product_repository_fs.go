// backend/internal/adapters/out/firestore/product_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"boutique/internal/domain/money"
	productdom "boutique/internal/domain/product"
)

// ProductRepositoryFS implements product.Repository using Firestore.
//
// Collection design:
// - collection: products
// - docId: product id
// - options/variants embedded in the doc (catalog reads are whole-product)
type ProductRepositoryFS struct {
	Client *firestore.Client
}

func NewProductRepositoryFS(client *firestore.Client) *ProductRepositoryFS {
	return &ProductRepositoryFS{Client: client}
}

func (r *ProductRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("products")
}

func (r *ProductRepositoryFS) GetByID(ctx context.Context, id string) (productdom.Product, error) {
	if r == nil || r.Client == nil {
		return productdom.Product{}, errors.New("product_repository_fs: firestore client is nil")
	}

	pid := strings.TrimSpace(id)
	if pid == "" {
		return productdom.Product{}, productdom.ErrInvalidID
	}

	snap, err := r.col().Doc(pid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return productdom.Product{}, productdom.ErrNotFound
		}
		return productdom.Product{}, err
	}
	return decodeProduct(snap)
}

func (r *ProductRepositoryFS) GetBySlug(ctx context.Context, slug string) (productdom.Product, error) {
	if r == nil || r.Client == nil {
		return productdom.Product{}, errors.New("product_repository_fs: firestore client is nil")
	}

	s := strings.TrimSpace(slug)
	if s == "" {
		return productdom.Product{}, productdom.ErrInvalidSlug
	}

	it := r.col().Where("slug", "==", s).Limit(1).Documents(ctx)
	defer it.Stop()

	snap, err := it.Next()
	if err == iterator.Done {
		return productdom.Product{}, productdom.ErrNotFound
	}
	if err != nil {
		return productdom.Product{}, err
	}
	return decodeProduct(snap)
}

func (r *ProductRepositoryFS) List(ctx context.Context, filter productdom.Filter) ([]productdom.Product, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("product_repository_fs: firestore client is nil")
	}

	q := r.col().Query
	if filter.FeaturedOnly {
		q = q.Where("featured", "==", true)
	}
	if filter.InStockOnly {
		q = q.Where("inStock", "==", true)
	}
	q = q.OrderBy("title", firestore.Asc)
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	it := q.Documents(ctx)
	defer it.Stop()

	var out []productdom.Product
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		p, err := decodeProduct(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type productDoc struct {
	Slug           string       `firestore:"slug"`
	Title          string       `firestore:"title"`
	Description    string       `firestore:"description,omitempty"`
	PriceCents     int64        `firestore:"priceCents"`
	CompareAtCents int64        `firestore:"compareAtCents,omitempty"`
	Currency       string       `firestore:"currency"`
	Images         []string     `firestore:"images,omitempty"`
	Options        []optionDoc  `firestore:"options,omitempty"`
	Variants       []variantDoc `firestore:"variants,omitempty"`
	InStock        bool         `firestore:"inStock"`
	Featured       bool         `firestore:"featured"`
}

type optionDoc struct {
	Name     string            `firestore:"name"`
	Values   []string          `firestore:"values"`
	Swatches map[string]string `firestore:"swatches,omitempty"`
}

type variantDoc struct {
	ID             string            `firestore:"id"`
	Options        map[string]string `firestore:"options"`
	PriceCents     int64             `firestore:"priceCents"`
	CompareAtCents int64             `firestore:"compareAtCents,omitempty"`
	Image          string            `firestore:"image,omitempty"`
	Stock          int               `firestore:"stock"`
}

func decodeProduct(snap *firestore.DocumentSnapshot) (productdom.Product, error) {
	var doc productDoc
	if err := snap.DataTo(&doc); err != nil {
		return productdom.Product{}, err
	}

	options := make([]productdom.Option, 0, len(doc.Options))
	for _, o := range doc.Options {
		options = append(options, productdom.Option{
			Name:     o.Name,
			Values:   o.Values,
			Swatches: o.Swatches,
		})
	}

	variants := make([]productdom.Variant, 0, len(doc.Variants))
	for _, v := range doc.Variants {
		variants = append(variants, productdom.Variant{
			ID:        v.ID,
			ProductID: snap.Ref.ID,
			Options:   v.Options,
			Price:     money.New(v.PriceCents, doc.Currency),
			CompareAt: compareAtFromDoc(v.CompareAtCents, doc.Currency),
			Image:     v.Image,
			Stock:     v.Stock,
		})
	}

	p := productdom.Product{
		ID:          snap.Ref.ID,
		Slug:        doc.Slug,
		Title:       doc.Title,
		Description: doc.Description,
		Price:       money.New(doc.PriceCents, doc.Currency),
		CompareAt:   compareAtFromDoc(doc.CompareAtCents, doc.Currency),
		Images:      doc.Images,
		Options:     options,
		Variants:    variants,
		InStock:     doc.InStock,
		Featured:    doc.Featured,
	}
	if err := p.Validate(); err != nil {
		return productdom.Product{}, err
	}
	return p, nil
}

func compareAtFromDoc(cents int64, currency string) *money.Money {
	if cents <= 0 {
		return nil
	}
	m := money.New(cents, currency)
	return &m
}

func moneyFromDoc(cents int64, currency string) money.Money {
	return money.New(cents, currency)
}
