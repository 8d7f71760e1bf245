package variants

import (
	"sort"
	"strings"

	"github.com/amiraziz/souq-backend/pkg/types"
)

// VariantID derives the cart line identity for a product plus selection.
// Attribute values are appended in sorted-key order so the same selection
// always produces the same id regardless of how the bag was built. Products
// without variants get a fixed "-default" suffix.
func VariantID(productID string, selected types.AttributeBag) string {
	if len(selected) == 0 {
		return productID + "-default"
	}
	keys := make([]string, 0, len(selected))
	for k := range selected {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys)+1)
	parts = append(parts, productID)
	for _, k := range keys {
		parts = append(parts, selected[k])
	}
	return strings.Join(parts, "-")
}
