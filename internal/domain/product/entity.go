// backend/internal/domain/product/entity.go
package product

import (
	"errors"
	"strings"

	"boutique/internal/domain/money"
)

// ===============================
// Errors
// ===============================

var (
	ErrNotFound = errors.New("product: not found")

	ErrInvalidID    = errors.New("product: invalid id")
	ErrInvalidSlug  = errors.New("product: invalid slug")
	ErrInvalidTitle = errors.New("product: invalid title")

	ErrInvalidOption      = errors.New("product: invalid option")
	ErrInvalidOptionValue = errors.New("product: invalid option value")

	ErrInvalidVariant      = errors.New("product: invalid variant")
	ErrVariantOptionKeys   = errors.New("product: variant option keys do not match product options")
	ErrVariantUnknownValue = errors.New("product: variant references an undeclared option value")
	ErrAmbiguousVariant    = errors.New("product: ambiguous variant mapping")
	ErrInvalidComparePrice = errors.New("product: compareAt must be greater than price")
)

// ===============================
// Types
// ===============================

// Option is one configurable axis of a product (e.g. "Color").
// Values keep their declared order (display order).
// Swatches is an optional value -> CSS color map, display only; it never
// participates in availability logic.
type Option struct {
	Name     string            `json:"name" firestore:"name"`
	Values   []string          `json:"values" firestore:"values"`
	Swatches map[string]string `json:"swatches,omitempty" firestore:"swatches,omitempty"`
}

// Variant is one concrete purchasable configuration of a product.
// Options maps option name -> chosen value, exactly one value per option
// declared on the owning product.
type Variant struct {
	ID        string            `json:"id" firestore:"id"`
	ProductID string            `json:"productId" firestore:"productId"`
	Options   map[string]string `json:"options" firestore:"options"`
	Price     money.Money       `json:"price" firestore:"price"`
	CompareAt *money.Money      `json:"compareAt,omitempty" firestore:"compareAt,omitempty"`
	Image     string            `json:"image,omitempty" firestore:"image,omitempty"`
	Stock     int               `json:"stock" firestore:"stock"`
}

// InStock reports whether the variant can currently be purchased.
// Stock is a snapshot received from the catalog source, not recomputed here.
func (v Variant) InStock() bool {
	return v.Stock > 0
}

// Product is a catalog entry. A product with no options has no variants and
// sells at its own price.
type Product struct {
	ID          string       `json:"id" firestore:"id"`
	Slug        string       `json:"slug" firestore:"slug"`
	Title       string       `json:"title" firestore:"title"`
	Description string       `json:"description,omitempty" firestore:"description,omitempty"`
	Price       money.Money  `json:"price" firestore:"price"`
	CompareAt   *money.Money `json:"compareAt,omitempty" firestore:"compareAt,omitempty"`
	Images      []string     `json:"images,omitempty" firestore:"images,omitempty"`
	Options     []Option     `json:"options,omitempty" firestore:"options,omitempty"`
	Variants    []Variant    `json:"variants,omitempty" firestore:"variants,omitempty"`
	InStock     bool         `json:"inStock" firestore:"inStock"`
	Featured    bool         `json:"featured" firestore:"featured"`
}

// ===============================
// Constructor
// ===============================

func New(
	id string,
	slug string,
	title string,
	description string,
	price money.Money,
	compareAt *money.Money,
	images []string,
	options []Option,
	variants []Variant,
	inStock bool,
) (Product, error) {
	p := Product{
		ID:          strings.TrimSpace(id),
		Slug:        strings.TrimSpace(slug),
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Price:       price,
		CompareAt:   compareAt,
		Images:      cloneStrings(images),
		Options:     cloneOptions(options),
		Variants:    cloneVariants(variants),
		InStock:     inStock,
	}
	if err := p.Validate(); err != nil {
		return Product{}, err
	}
	return p, nil
}

// HasVariants reports whether the product is sold through variants.
func (p Product) HasVariants() bool {
	return len(p.Options) > 0 && len(p.Variants) > 0
}

// OptionNames returns declared option names in display order.
func (p Product) OptionNames() []string {
	names := make([]string, 0, len(p.Options))
	for _, o := range p.Options {
		names = append(names, o.Name)
	}
	return names
}

// FindVariant returns the variant with the given id, if any.
func (p Product) FindVariant(variantID string) *Variant {
	vid := strings.TrimSpace(variantID)
	for i := range p.Variants {
		if p.Variants[i].ID == vid {
			return &p.Variants[i]
		}
	}
	return nil
}

// PrimaryImage is the product-level display image (first of Images).
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// ===============================
// Validation
// ===============================

// Validate enforces the catalog invariants:
// - id/slug/title present
// - compareAt > price when present (product and every variant)
// - every variant's option keys equal the product's declared option names
// - every variant value is one of the declared values for its option
func (p Product) Validate() error {
	if p.ID == "" {
		return ErrInvalidID
	}
	if p.Slug == "" {
		return ErrInvalidSlug
	}
	if p.Title == "" {
		return ErrInvalidTitle
	}
	if err := money.ValidateCompareAt(p.Price, p.CompareAt); err != nil {
		return ErrInvalidComparePrice
	}

	declared := map[string]map[string]bool{}
	for _, o := range p.Options {
		name := strings.TrimSpace(o.Name)
		if name == "" || len(o.Values) == 0 {
			return ErrInvalidOption
		}
		if _, dup := declared[name]; dup {
			return ErrInvalidOption
		}
		vals := map[string]bool{}
		for _, v := range o.Values {
			v = strings.TrimSpace(v)
			if v == "" {
				return ErrInvalidOptionValue
			}
			vals[v] = true
		}
		declared[name] = vals
	}

	for _, v := range p.Variants {
		if strings.TrimSpace(v.ID) == "" {
			return ErrInvalidVariant
		}
		if len(v.Options) != len(declared) {
			return ErrVariantOptionKeys
		}
		for name, val := range v.Options {
			vals, ok := declared[name]
			if !ok {
				return ErrVariantOptionKeys
			}
			if !vals[val] {
				return ErrVariantUnknownValue
			}
		}
		if err := money.ValidateCompareAt(v.Price, v.CompareAt); err != nil {
			return ErrInvalidComparePrice
		}
	}

	return nil
}

// ===============================
// Helpers
// ===============================

func cloneStrings(src []string) []string {
	if len(src) == 0 {
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

func cloneOptions(src []Option) []Option {
	if len(src) == 0 {
		return nil
	}
	out := make([]Option, 0, len(src))
	for _, o := range src {
		c := Option{
			Name:   strings.TrimSpace(o.Name),
			Values: cloneStrings(o.Values),
		}
		if len(o.Swatches) > 0 {
			c.Swatches = make(map[string]string, len(o.Swatches))
			for k, v := range o.Swatches {
				c.Swatches[k] = v
			}
		}
		out = append(out, c)
	}
	return out
}

func cloneVariants(src []Variant) []Variant {
	if len(src) == 0 {
		return nil
	}
	out := make([]Variant, 0, len(src))
	for _, v := range src {
		c := v
		if len(v.Options) > 0 {
			c.Options = make(map[string]string, len(v.Options))
			for k, val := range v.Options {
				c.Options[strings.TrimSpace(k)] = strings.TrimSpace(val)
			}
		}
		out = append(out, c)
	}
	return out
}
