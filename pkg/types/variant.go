package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Variant is one purchasable attribute combination of a product with its own
// remaining stock. On the wire it is a flat object where quantity sits next
// to the attribute values: {"color":"red","size":"M","quantity":3}.
type Variant struct {
	Attributes AttributeBag
	Quantity   int
}

// MarshalJSON flattens attributes and quantity into a single object.
func (v Variant) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(v.Attributes)+1)
	for k, val := range v.Attributes {
		if k == "quantity" {
			continue
		}
		flat[k] = val
	}
	flat["quantity"] = v.Quantity
	return json.Marshal(flat)
}

// UnmarshalJSON splits the flat object back into attributes and quantity.
// Non-string attribute values and malformed quantities are tolerated: values
// are stringified where possible and quantity defaults to 0.
func (v *Variant) UnmarshalJSON(data []byte) error {
	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	v.Attributes = make(AttributeBag, len(flat))
	v.Quantity = 0
	for k, raw := range flat {
		if k == "quantity" {
			v.Quantity = coerceQuantity(raw)
			continue
		}
		if s, ok := stringify(raw); ok {
			v.Attributes[k] = s
		}
	}
	return nil
}

func coerceQuantity(raw any) int {
	switch q := raw.(type) {
	case float64:
		if q < 0 {
			return 0
		}
		return int(q)
	case string:
		var parsed float64
		if _, err := fmt.Sscanf(q, "%f", &parsed); err == nil && parsed > 0 {
			return int(parsed)
		}
	}
	return 0
}

func stringify(raw any) (string, bool) {
	switch s := raw.(type) {
	case string:
		return s, true
	case float64:
		return fmt.Sprintf("%v", s), true
	case bool:
		return fmt.Sprintf("%v", s), true
	default:
		return "", false
	}
}

// VariantList is the ordered variant sequence stored on a dynamic product
// record as a JSON column.
type VariantList []Variant

// Value serializes the list as a JSON array.
func (l VariantList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan decodes a JSON array column into the list.
func (l *VariantList) Scan(value any) error {
	if value == nil {
		*l = VariantList{}
		return nil
	}
	raw, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("variant list: %w", err)
	}
	if len(raw) == 0 {
		*l = VariantList{}
		return nil
	}
	return json.Unmarshal(raw, l)
}

// Clone deep-copies the list so callers can mutate quantities safely.
func (l VariantList) Clone() VariantList {
	if l == nil {
		return nil
	}
	out := make(VariantList, len(l))
	for i, v := range l {
		out[i] = Variant{Attributes: v.Attributes.Clone(), Quantity: v.Quantity}
	}
	return out
}
