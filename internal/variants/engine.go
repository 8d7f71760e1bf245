package variants

import (
	"sort"
	"strings"

	"github.com/amiraziz/souq-backend/pkg/types"
)

// Resolution is the full derived view of a product's variant state for a
// given attribute selection. All fields are recomputed from scratch on every
// call; nothing is cached between calls.
type Resolution struct {
	HasVariants           bool                `json:"hasVariants"`
	AllSoldOut            bool                `json:"allSoldOut"`
	AttributeKeys         []string            `json:"attributeKeys"`
	AttributeOptions      map[string][]string `json:"attributeOptions"`
	Selected              types.AttributeBag  `json:"selected"`
	SelectedVariant       *types.Variant      `json:"selectedVariant,omitempty"`
	VariantStock          *int                `json:"variantStock,omitempty"`
	AllAttributesSelected bool                `json:"allAttributesSelected"`
	CanAddToCart          bool                `json:"canAddToCart"`
}

// Normalize cleans a variant list as stored or received: attribute values are
// trimmed, empty values are dropped from the bag, and quantities are clamped
// to zero or above. The input is not mutated.
func Normalize(in types.VariantList) types.VariantList {
	out := make(types.VariantList, 0, len(in))
	for _, v := range in {
		nv := types.Variant{Attributes: types.AttributeBag{}, Quantity: v.Quantity}
		if nv.Quantity < 0 {
			nv.Quantity = 0
		}
		for k, val := range v.Attributes {
			k = strings.TrimSpace(k)
			val = strings.TrimSpace(val)
			if k == "" || val == "" {
				continue
			}
			nv.Attributes[k] = val
		}
		out = append(out, nv)
	}
	return out
}

// Resolve derives the variant state for the given selection. Selected in the
// result is the effective selection: the caller's choices plus auto-selected
// values for attributes that only ever take one value. Passing the returned
// Selected back in yields the same Resolution, so callers can loop it through
// a request/response cycle safely.
func Resolve(list types.VariantList, selected types.AttributeBag) Resolution {
	normalized := Normalize(list)
	filtered := inStock(normalized)

	res := Resolution{
		HasVariants:      len(filtered) > 0,
		AllSoldOut:       len(normalized) > 0 && len(filtered) == 0,
		AttributeOptions: map[string][]string{},
		Selected:         types.AttributeBag{},
	}

	if !res.HasVariants {
		// Either a simple product (nothing to select, always addable) or a
		// product whose every variant is sold out, which must not be addable.
		res.AllAttributesSelected = true
		res.CanAddToCart = !res.AllSoldOut
		return res
	}

	keys := keysInOrder(filtered)
	options := map[string][]string{}
	for _, k := range keys {
		options[k] = optionsFor(filtered, k)
	}

	// Attributes the shopper actually chooses between: two or more distinct
	// values across in-stock variants. Single-valued attributes are decided
	// for them below.
	for _, k := range keys {
		if len(options[k]) >= 2 {
			res.AttributeKeys = append(res.AttributeKeys, k)
			res.AttributeOptions[k] = options[k]
		}
	}

	for k, v := range selected {
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		res.Selected[k] = v
	}
	for _, k := range keys {
		if len(options[k]) == 1 {
			if _, chosen := res.Selected[k]; !chosen {
				res.Selected[k] = options[k][0]
			}
		}
	}

	res.AllAttributesSelected = true
	for _, k := range res.AttributeKeys {
		if res.Selected[k] == "" {
			res.AllAttributesSelected = false
			break
		}
	}

	res.SelectedVariant = match(filtered, res.AttributeKeys, res.Selected)
	if res.SelectedVariant != nil {
		stock := res.SelectedVariant.Quantity
		res.VariantStock = &stock
	}

	res.CanAddToCart = res.AllAttributesSelected &&
		res.SelectedVariant != nil &&
		res.SelectedVariant.Quantity > 0
	return res
}

// inStock drops sold-out variants; everything downstream of normalization
// only ever sees variants with stock.
func inStock(in types.VariantList) types.VariantList {
	out := make(types.VariantList, 0, len(in))
	for _, v := range in {
		if v.Quantity > 0 {
			out = append(out, v)
		}
	}
	return out
}

// keysInOrder returns every attribute key present on the in-stock variants,
// in first-seen order. Keys within a single variant's bag are visited in
// sorted order so the result is stable across runs.
func keysInOrder(in types.VariantList) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range in {
		ks := make([]string, 0, len(v.Attributes))
		for k := range v.Attributes {
			ks = append(ks, k)
		}
		sort.Strings(ks)
		for _, k := range ks {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	return out
}

// optionsFor returns the distinct values variants carry for key, de-duplicated
// in first-seen order.
func optionsFor(in types.VariantList, key string) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range in {
		val, ok := v.Attributes[key]
		if !ok || seen[val] {
			continue
		}
		seen[val] = true
		out = append(out, val)
	}
	return out
}

// match finds the in-stock variant whose values agree with the selection on
// every selectable attribute key. With no selectable keys at all, a lone
// in-stock variant is the match; several candidates with no way to tell them
// apart means no match.
func match(in types.VariantList, attributeKeys []string, selected types.AttributeBag) *types.Variant {
	if len(attributeKeys) == 0 {
		if len(in) == 1 {
			v := in[0]
			return &v
		}
		return nil
	}
	for _, v := range in {
		ok := true
		for _, k := range attributeKeys {
			if selected[k] == "" || v.Attributes[k] != selected[k] {
				ok = false
				break
			}
		}
		if ok {
			v := v
			return &v
		}
	}
	return nil
}
