// backend/internal/domain/product/resolver.go
package product

import (
	"strings"

	"boutique/internal/domain/money"
)

// Selection is the shopper's in-progress choice of option values for one
// product (option name -> value). It is partial until every declared option
// has a value. Selections are UI-transient; nothing here persists them.
type Selection map[string]string

// Resolution is the per-render answer to "what has the shopper selected,
// and what can they still select".
type Resolution struct {
	// Variant is the unique variant matching a full selection, nil while the
	// selection is partial or the product has no options.
	Variant *Variant

	// AvailableValues[option][value] is true when choosing value (holding the
	// other already-chosen options fixed) still identifies at least one
	// variant with stock. The UI greys out everything else.
	AvailableValues map[string]map[string]bool

	// Price / CompareAt / Image follow the matched variant, falling back to
	// the product's own fields.
	Price     money.Money
	CompareAt *money.Money
	Image     string

	// CanAddToCart is false while the selection is partial, when the matched
	// variant is out of stock, or when an optionless product is out of stock.
	CanAddToCart bool
}

// DiscountPercent returns the display discount badge for the resolution.
func (r Resolution) DiscountPercent() (int, bool) {
	return money.DiscountPercent(r.Price, r.CompareAt)
}

// Resolve determines the concrete purchasable state for a product and a
// shopper selection. It is a pure function of its inputs and is recomputed on
// every selection change; results must never be cached across products.
//
// Two variants carrying an identical full option mapping are a data
// integrity violation: Resolve surfaces ErrAmbiguousVariant instead of
// silently picking one.
func Resolve(p Product, sel Selection) (Resolution, error) {
	res := Resolution{
		AvailableValues: map[string]map[string]bool{},
		Price:           p.Price,
		CompareAt:       p.CompareAt,
		Image:           p.PrimaryImage(),
	}

	// Optionless product: the product itself is the purchasable unit.
	if !p.HasVariants() {
		res.CanAddToCart = p.InStock
		return res, nil
	}

	chosen := normalizeSelection(p, sel)

	for _, opt := range p.Options {
		avail := make(map[string]bool, len(opt.Values))
		for _, val := range opt.Values {
			avail[val] = anyStockedMatch(p, candidateWith(chosen, opt.Name, val))
		}
		res.AvailableValues[opt.Name] = avail
	}

	if len(chosen) < len(p.Options) {
		// Partial selection: prompt for the remaining options.
		return res, nil
	}

	match, err := matchFullSelection(p, chosen)
	if err != nil {
		return Resolution{}, err
	}
	if match == nil {
		// Full selection with no matching variant: nothing purchasable.
		return res, nil
	}

	res.Variant = match
	res.Price = match.Price
	res.CompareAt = match.CompareAt
	if match.Image != "" {
		res.Image = match.Image
	}
	res.CanAddToCart = match.InStock()
	return res, nil
}

// normalizeSelection keeps only declared option names with declared values.
func normalizeSelection(p Product, sel Selection) map[string]string {
	out := map[string]string{}
	for _, opt := range p.Options {
		raw, ok := sel[opt.Name]
		if !ok {
			continue
		}
		val := strings.TrimSpace(raw)
		for _, declared := range opt.Values {
			if declared == val {
				out[opt.Name] = val
				break
			}
		}
	}
	return out
}

// candidateWith returns chosen restricted to *other* options, plus name=val.
// Substituting into the other already-chosen values (not the value currently
// held for this option) is what lets the shopper switch within an option.
func candidateWith(chosen map[string]string, name, val string) map[string]string {
	out := make(map[string]string, len(chosen)+1)
	for k, v := range chosen {
		if k == name {
			continue
		}
		out[k] = v
	}
	out[name] = val
	return out
}

// anyStockedMatch reports whether some in-stock variant agrees with every
// entry of the candidate mapping.
func anyStockedMatch(p Product, candidate map[string]string) bool {
	for i := range p.Variants {
		v := &p.Variants[i]
		if !v.InStock() {
			continue
		}
		if variantAgrees(v, candidate) {
			return true
		}
	}
	return false
}

// matchFullSelection finds the unique variant whose option mapping equals the
// full selection. More than one match is ErrAmbiguousVariant.
func matchFullSelection(p Product, chosen map[string]string) (*Variant, error) {
	var match *Variant
	for i := range p.Variants {
		v := &p.Variants[i]
		if len(v.Options) != len(chosen) {
			continue
		}
		if !variantAgrees(v, chosen) {
			continue
		}
		if match != nil {
			return nil, ErrAmbiguousVariant
		}
		match = v
	}
	return match, nil
}

func variantAgrees(v *Variant, mapping map[string]string) bool {
	for name, val := range mapping {
		if v.Options[name] != val {
			return false
		}
	}
	return true
}
