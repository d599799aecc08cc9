// backend/internal/adapters/out/db/product_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"boutique/internal/domain/money"
	productdom "boutique/internal/domain/product"
)

// ProductRepositoryPG implements product.Repository against Postgres.
//
// Tables:
// - products(id, slug, title, description, price_cents, compare_at_cents,
//   currency, images text[], in_stock, featured)
// - product_options(product_id, name, display_order, option_values text[],
//   swatches jsonb)
// - product_variants(id, product_id, options jsonb, price_cents,
//   compare_at_cents, image, stock)
type ProductRepositoryPG struct {
	DB *sql.DB
}

func NewProductRepositoryPG(db *sql.DB) *ProductRepositoryPG {
	return &ProductRepositoryPG{DB: db}
}

// ========================
// RepositoryPort impl
// ========================

func (r *ProductRepositoryPG) GetByID(ctx context.Context, id string) (productdom.Product, error) {
	const q = `
SELECT
  id, slug, title, description, price_cents, compare_at_cents,
  currency, images, in_stock, featured
FROM products
WHERE id = $1`
	row := r.DB.QueryRowContext(ctx, q, strings.TrimSpace(id))
	return r.scanAndAssemble(ctx, row)
}

func (r *ProductRepositoryPG) GetBySlug(ctx context.Context, slug string) (productdom.Product, error) {
	const q = `
SELECT
  id, slug, title, description, price_cents, compare_at_cents,
  currency, images, in_stock, featured
FROM products
WHERE slug = $1`
	row := r.DB.QueryRowContext(ctx, q, strings.TrimSpace(slug))
	return r.scanAndAssemble(ctx, row)
}

func (r *ProductRepositoryPG) List(ctx context.Context, filter productdom.Filter) ([]productdom.Product, error) {
	where := []string{}
	if filter.FeaturedOnly {
		where = append(where, "featured = TRUE")
	}
	if filter.InStockOnly {
		where = append(where, "in_stock = TRUE")
	}
	whereSQL := ""
	if len(where) > 0 {
		whereSQL = "WHERE " + strings.Join(where, " AND ")
	}
	limitSQL := ""
	if filter.Limit > 0 {
		limitSQL = fmt.Sprintf("LIMIT %d", filter.Limit)
	}

	q := fmt.Sprintf(`
SELECT
  id, slug, title, description, price_cents, compare_at_cents,
  currency, images, in_stock, featured
FROM products
%s
ORDER BY title ASC, id ASC
%s`, whereSQL, limitSQL)

	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []productdom.Product
	for rows.Next() {
		rec, err := scanProductRow(rows)
		if err != nil {
			return nil, err
		}
		p, err := r.assemble(ctx, rec)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ========================
// Row scanning
// ========================

type productRow struct {
	ID             string
	Slug           string
	Title          string
	Description    sql.NullString
	PriceCents     int64
	CompareAtCents sql.NullInt64
	Currency       string
	Images         []string
	InStock        bool
	Featured       bool
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProductRow(s rowScanner) (productRow, error) {
	var rec productRow
	err := s.Scan(
		&rec.ID,
		&rec.Slug,
		&rec.Title,
		&rec.Description,
		&rec.PriceCents,
		&rec.CompareAtCents,
		&rec.Currency,
		pq.Array(&rec.Images),
		&rec.InStock,
		&rec.Featured,
	)
	return rec, err
}

func (r *ProductRepositoryPG) scanAndAssemble(ctx context.Context, row *sql.Row) (productdom.Product, error) {
	rec, err := scanProductRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return productdom.Product{}, productdom.ErrNotFound
		}
		return productdom.Product{}, err
	}
	return r.assemble(ctx, rec)
}

func (r *ProductRepositoryPG) assemble(ctx context.Context, rec productRow) (productdom.Product, error) {
	options, err := r.loadOptions(ctx, rec.ID)
	if err != nil {
		return productdom.Product{}, err
	}
	variants, err := r.loadVariants(ctx, rec.ID, rec.Currency)
	if err != nil {
		return productdom.Product{}, err
	}

	p := productdom.Product{
		ID:          rec.ID,
		Slug:        rec.Slug,
		Title:       rec.Title,
		Description: rec.Description.String,
		Price:       money.New(rec.PriceCents, rec.Currency),
		CompareAt:   nullCompareAt(rec.CompareAtCents, rec.Currency),
		Images:      rec.Images,
		Options:     options,
		Variants:    variants,
		InStock:     rec.InStock,
		Featured:    rec.Featured,
	}
	if err := p.Validate(); err != nil {
		return productdom.Product{}, err
	}
	return p, nil
}

func (r *ProductRepositoryPG) loadOptions(ctx context.Context, productID string) ([]productdom.Option, error) {
	const q = `
SELECT name, option_values, swatches
FROM product_options
WHERE product_id = $1
ORDER BY display_order ASC, name ASC`
	rows, err := r.DB.QueryContext(ctx, q, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []productdom.Option
	for rows.Next() {
		var (
			opt         productdom.Option
			swatchesRaw []byte
		)
		if err := rows.Scan(&opt.Name, pq.Array(&opt.Values), &swatchesRaw); err != nil {
			return nil, err
		}
		if len(swatchesRaw) > 0 {
			if err := json.Unmarshal(swatchesRaw, &opt.Swatches); err != nil {
				return nil, fmt.Errorf("product_repository_pg: bad swatches for %s/%s: %w", productID, opt.Name, err)
			}
		}
		out = append(out, opt)
	}
	return out, rows.Err()
}

func (r *ProductRepositoryPG) loadVariants(ctx context.Context, productID, currency string) ([]productdom.Variant, error) {
	const q = `
SELECT id, options, price_cents, compare_at_cents, image, stock
FROM product_variants
WHERE product_id = $1
ORDER BY id ASC`
	rows, err := r.DB.QueryContext(ctx, q, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []productdom.Variant
	for rows.Next() {
		var (
			v              productdom.Variant
			optionsRaw     []byte
			compareAtCents sql.NullInt64
			image          sql.NullString
		)
		if err := rows.Scan(&v.ID, &optionsRaw, &v.Price.Cents, &compareAtCents, &image, &v.Stock); err != nil {
			return nil, err
		}
		if len(optionsRaw) > 0 {
			if err := json.Unmarshal(optionsRaw, &v.Options); err != nil {
				return nil, fmt.Errorf("product_repository_pg: bad options for variant %s: %w", v.ID, err)
			}
		}
		v.ProductID = productID
		v.Price = money.New(v.Price.Cents, currency)
		v.CompareAt = nullCompareAt(compareAtCents, currency)
		v.Image = image.String
		out = append(out, v)
	}
	return out, rows.Err()
}

func nullCompareAt(n sql.NullInt64, currency string) *money.Money {
	if !n.Valid || n.Int64 <= 0 {
		return nil
	}
	m := money.New(n.Int64, currency)
	return &m
}
