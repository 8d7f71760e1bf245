package wishlist

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func entry(id uuid.UUID, price int64) Entry {
	return Entry{ID: id, Slug: "s", TitleEN: "T", TitleAR: "ع", Price: decimal.NewFromInt(price)}
}

func TestMergeLocalWins(t *testing.T) {
	p1 := uuid.New()

	merged := Merge(
		[]Entry{entry(p1, 10)},
		[]Entry{entry(p1, 12)},
	)
	if len(merged) != 1 {
		t.Fatalf("expected one entry for the shared key, got %d", len(merged))
	}
	if !merged[0].Price.Equal(decimal.NewFromInt(12)) {
		t.Errorf("local entry must overwrite server entry, got price %s", merged[0].Price)
	}
}

func TestMergeKeepsServerOrderThenAppendsLocals(t *testing.T) {
	p1, p2, p3 := uuid.New(), uuid.New(), uuid.New()

	merged := Merge(
		[]Entry{entry(p1, 1), entry(p2, 2)},
		[]Entry{entry(p3, 3), entry(p2, 20)},
	)
	if len(merged) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(merged))
	}
	if merged[0].ID != p1 || merged[1].ID != p2 || merged[2].ID != p3 {
		t.Errorf("order must be server-first then new locals: %v", []uuid.UUID{merged[0].ID, merged[1].ID, merged[2].ID})
	}
	if !merged[1].Price.Equal(decimal.NewFromInt(20)) {
		t.Errorf("overwrite must keep the server slot but take the local value")
	}
}

func TestMergeEmptyLocalIsIdentity(t *testing.T) {
	p1 := uuid.New()
	server := []Entry{entry(p1, 10)}

	merged := Merge(server, nil)
	if len(merged) != 1 || merged[0] != server[0] {
		t.Errorf("empty local merge must return the server list unchanged")
	}
}
