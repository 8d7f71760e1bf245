package cart

// Merge reconciles the server cart with a guest's local cart at sign-in.
// Server lines come first and keep their order; a local line for an existing
// variantId adds its quantity to the server line, clamped to the server
// line's frozen maxQty (or defaultMaxQty when that snapshot is missing); a
// local line for a new variantId is appended verbatim. Re-merging the same
// local cart is therefore additive, not idempotent, which is why the session
// phase guard exists.
func Merge(server, local []Line, defaultMaxQty int) []Line {
	if defaultMaxQty <= 0 {
		defaultMaxQty = 99
	}

	merged := make([]Line, 0, len(server)+len(local))
	index := make(map[string]int, len(server))

	for _, line := range server {
		if _, seen := index[line.VariantID]; seen {
			continue
		}
		index[line.VariantID] = len(merged)
		merged = append(merged, line)
	}
	for _, line := range local {
		at, seen := index[line.VariantID]
		if !seen {
			index[line.VariantID] = len(merged)
			merged = append(merged, line)
			continue
		}
		ceiling := merged[at].MaxQty
		if ceiling <= 0 {
			ceiling = defaultMaxQty
		}
		qty := merged[at].Qty + line.Qty
		if qty > ceiling {
			qty = ceiling
		}
		merged[at].Qty = qty
	}
	return merged
}

// clampQty forces qty into [1, ceiling].
func clampQty(qty, ceiling, defaultMaxQty int) int {
	if ceiling <= 0 {
		ceiling = defaultMaxQty
	}
	if qty < 1 {
		qty = 1
	}
	if qty > ceiling {
		qty = ceiling
	}
	return qty
}
