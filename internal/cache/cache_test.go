package cache

import (
	"testing"
	"time"

	"github.com/biddersportal/tender-backend/internal/models"
)

func samplePage(total int) models.TenderPage {
	return models.TenderPage{
		Tenders:    []models.Tender{{ExternalRef: "T1"}},
		Total:      total,
		Page:       1,
		PageSize:   10,
		TotalPages: 1,
	}
}

func TestKeyIsCanonical(t *testing.T) {
	a := models.TenderFilter{
		Title:      "Road",
		Categories: []string{"construction", "IT"},
		Country:    "Kenya",
	}
	b := models.TenderFilter{
		Country:    "Kenya",
		Categories: []string{"IT", "construction"},
		Title:      "road",
	}

	if Key(a, 1, 10) != Key(b, 1, 10) {
		t.Fatalf("equivalent filters must produce identical keys:\n%s\n%s", Key(a, 1, 10), Key(b, 1, 10))
	}
}

func TestKeyDistinguishesPagination(t *testing.T) {
	filter := models.TenderFilter{Country: "Kenya"}
	if Key(filter, 1, 10) == Key(filter, 2, 10) {
		t.Fatalf("different pages must produce different keys")
	}
	if Key(filter, 1, 10) == Key(filter, 1, 20) {
		t.Fatalf("different page sizes must produce different keys")
	}
}

func TestGetReturnsFreshEntry(t *testing.T) {
	c := NewQueryCache(10 * time.Minute)
	c.Set("k", samplePage(25))

	got, ok := c.Get("k")
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if got.Total != 25 {
		t.Errorf("expected total captured at write time, got %d", got.Total)
	}
}

func TestGetExpiresEntries(t *testing.T) {
	c := NewQueryCache(10 * time.Minute)
	now := time.Now()
	c.nowFunc = func() time.Time { return now }
	c.Set("k", samplePage(1))

	c.nowFunc = func() time.Time { return now.Add(11 * time.Minute) }
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected entry to expire after TTL")
	}
	if c.Len() != 0 {
		t.Errorf("expected expired entry to be removed, len=%d", c.Len())
	}
}

func TestZeroTTLDisablesCache(t *testing.T) {
	c := NewQueryCache(0)
	c.Set("k", samplePage(1))

	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected cache to be disabled with zero TTL")
	}
	if c.Len() != 0 {
		t.Errorf("disabled cache must not store entries")
	}
}

func TestInvalidateClearsAll(t *testing.T) {
	c := NewQueryCache(10 * time.Minute)
	c.Set("a", samplePage(1))
	c.Set("b", samplePage(2))

	c.Invalidate()
	if c.Len() != 0 {
		t.Fatalf("expected empty cache after invalidate, len=%d", c.Len())
	}
}
