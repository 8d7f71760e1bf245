package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// AttributeBag is a flat attribute-name to attribute-value mapping, e.g.
// {"color":"red","size":"M"}. Keys are not fixed by schema.
type AttributeBag map[string]string

// Value serializes the bag as JSON.
func (b AttributeBag) Value() (driver.Value, error) {
	if b == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(b)
}

// Scan decodes a JSON column into the bag.
func (b *AttributeBag) Scan(value any) error {
	if value == nil {
		*b = AttributeBag{}
		return nil
	}
	raw, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("attribute bag: %w", err)
	}
	if len(raw) == 0 {
		*b = AttributeBag{}
		return nil
	}
	return json.Unmarshal(raw, b)
}

// Equal reports whether both bags hold identical key/value pairs.
func (b AttributeBag) Equal(other AttributeBag) bool {
	if len(b) != len(other) {
		return false
	}
	for k, v := range b {
		if other[k] != v {
			return false
		}
	}
	return true
}

// String renders the bag as stable "key=value" pairs for error messages and
// logs, e.g. "color=red size=M".
func (b AttributeBag) String() string {
	if len(b) == 0 {
		return "(no attributes)"
	}
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+b[k])
	}
	return strings.Join(parts, " ")
}

// Clone returns an independent copy of the bag.
func (b AttributeBag) Clone() AttributeBag {
	if b == nil {
		return nil
	}
	out := make(AttributeBag, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

func jsonBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported column type %T", value)
	}
}
