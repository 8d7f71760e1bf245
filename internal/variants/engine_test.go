package variants

import (
	"reflect"
	"testing"

	"github.com/amiraziz/souq-backend/pkg/types"
)

func bag(pairs ...string) types.AttributeBag {
	b := types.AttributeBag{}
	for i := 0; i+1 < len(pairs); i += 2 {
		b[pairs[i]] = pairs[i+1]
	}
	return b
}

func TestNormalizeTrimsAndClamps(t *testing.T) {
	in := types.VariantList{
		{Attributes: bag("color", "  red ", "size", "   "), Quantity: -3},
		{Attributes: bag(" size ", "M"), Quantity: 2},
	}
	out := Normalize(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(out))
	}
	if out[0].Quantity != 0 {
		t.Errorf("negative quantity not clamped: %d", out[0].Quantity)
	}
	if got := out[0].Attributes["color"]; got != "red" {
		t.Errorf("value not trimmed: %q", got)
	}
	if _, ok := out[0].Attributes["size"]; ok {
		t.Error("blank attribute value should be dropped")
	}
	if got := out[1].Attributes["size"]; got != "M" {
		t.Errorf("key not trimmed: %q", got)
	}
	if in[0].Attributes["color"] != "  red " {
		t.Error("input was mutated")
	}
}

func TestResolveSimpleProduct(t *testing.T) {
	res := Resolve(nil, nil)
	if res.HasVariants {
		t.Error("no variants means HasVariants false")
	}
	if res.AllSoldOut {
		t.Error("simple product is never sold out by variant state")
	}
	if !res.CanAddToCart || !res.AllAttributesSelected {
		t.Error("simple product must be addable with nothing selected")
	}
}

func TestResolveSoldOutVariantsAreInvisible(t *testing.T) {
	list := types.VariantList{
		{Attributes: bag("color", "red"), Quantity: 0},
		{Attributes: bag("color", "blue"), Quantity: 4},
		{Attributes: bag("color", "green"), Quantity: 2},
	}
	res := Resolve(list, nil)
	if !res.HasVariants {
		t.Fatal("expected HasVariants")
	}
	if res.AllSoldOut {
		t.Error("in-stock variants remain, AllSoldOut must be false")
	}
	want := []string{"blue", "green"}
	if !reflect.DeepEqual(res.AttributeOptions["color"], want) {
		t.Errorf("options = %v, want %v", res.AttributeOptions["color"], want)
	}
}

func TestResolveAllSoldOut(t *testing.T) {
	list := types.VariantList{
		{Attributes: bag("color", "red"), Quantity: 0},
		{Attributes: bag("color", "blue"), Quantity: 0},
	}
	res := Resolve(list, nil)
	if res.HasVariants {
		t.Error("no purchasable variants remain, HasVariants must be false")
	}
	if !res.AllSoldOut {
		t.Error("every variant at zero stock must set AllSoldOut")
	}
	if res.CanAddToCart {
		t.Error("sold-out product must not be addable")
	}
	if len(res.AttributeKeys) != 0 {
		t.Errorf("sold-out values must not surface as options: %v", res.AttributeKeys)
	}
}

func TestResolveSingleValuedKeyAutoSelected(t *testing.T) {
	list := types.VariantList{
		{Attributes: bag("color", "red", "material", "cotton"), Quantity: 3},
		{Attributes: bag("color", "blue", "material", "cotton"), Quantity: 1},
	}
	res := Resolve(list, nil)
	if !reflect.DeepEqual(res.AttributeKeys, []string{"color"}) {
		t.Fatalf("attributeKeys = %v, want [color]", res.AttributeKeys)
	}
	if res.Selected["material"] != "cotton" {
		t.Errorf("single-valued attribute not auto-selected: %v", res.Selected)
	}
	if res.AllAttributesSelected {
		t.Error("color is still unchosen")
	}
	if res.CanAddToCart {
		t.Error("cannot add before choosing color")
	}

	// Feeding the effective selection back in changes nothing.
	again := Resolve(list, res.Selected)
	if !reflect.DeepEqual(again.Selected, res.Selected) {
		t.Errorf("resolution not idempotent: %v vs %v", again.Selected, res.Selected)
	}
}

func TestResolveAutoSelectionNeverOverwritesChoice(t *testing.T) {
	list := types.VariantList{
		{Attributes: bag("size", "M"), Quantity: 5},
	}
	res := Resolve(list, bag("size", "L"))
	if res.Selected["size"] != "L" {
		t.Errorf("user choice overwritten: %v", res.Selected)
	}
}

func TestResolveFullSelection(t *testing.T) {
	list := types.VariantList{
		{Attributes: bag("color", "red", "size", "M"), Quantity: 3},
		{Attributes: bag("color", "red", "size", "L"), Quantity: 0},
		{Attributes: bag("color", "blue", "size", "M"), Quantity: 7},
	}
	res := Resolve(list, bag("color", "blue", "size", "M"))
	if !res.AllAttributesSelected {
		t.Fatal("both keys are selected")
	}
	if res.SelectedVariant == nil {
		t.Fatal("expected a matched variant")
	}
	if res.VariantStock == nil || *res.VariantStock != 7 {
		t.Errorf("variantStock = %v, want 7", res.VariantStock)
	}
	if !res.CanAddToCart {
		t.Error("matched in-stock variant must be addable")
	}

	// red/L only exists sold out, so L is invisible: size collapses to the
	// single in-stock value M and drops out of the selectable keys. A stale
	// selection naming L still resolves by color alone, to the in-stock red/M.
	res = Resolve(list, bag("color", "red", "size", "L"))
	if vals, ok := res.AttributeOptions["size"]; ok {
		t.Errorf("single-valued size must not be selectable, got options %v", vals)
	}
	if res.SelectedVariant == nil {
		t.Fatal("selection must resolve on the selectable keys only")
	}
	if res.SelectedVariant.Attributes["size"] != "M" {
		t.Errorf("expected the in-stock red/M variant, got %v", res.SelectedVariant.Attributes)
	}
	if res.VariantStock == nil || *res.VariantStock != 3 {
		t.Errorf("variantStock = %v, want 3", res.VariantStock)
	}
	if !res.CanAddToCart {
		t.Error("the resolved in-stock variant must be addable")
	}
}

func TestResolveLoneVariantWithoutSelectableKeys(t *testing.T) {
	list := types.VariantList{
		{Attributes: bag("edition", "standard"), Quantity: 2},
	}
	res := Resolve(list, nil)
	if len(res.AttributeKeys) != 0 {
		t.Fatalf("single-valued key is not selectable: %v", res.AttributeKeys)
	}
	if res.SelectedVariant == nil {
		t.Fatal("the only in-stock variant should be selected implicitly")
	}
	if !res.CanAddToCart {
		t.Error("expected addable")
	}
}

func TestVariantID(t *testing.T) {
	if got := VariantID("p1", nil); got != "p1-default" {
		t.Errorf("VariantID = %q, want p1-default", got)
	}
	id1 := VariantID("p1", bag("size", "M", "color", "red"))
	id2 := VariantID("p1", bag("color", "red", "size", "M"))
	if id1 != id2 {
		t.Errorf("id must not depend on bag construction order: %q vs %q", id1, id2)
	}
	if id1 != "p1-red-M" {
		t.Errorf("VariantID = %q, want p1-red-M", id1)
	}
}
