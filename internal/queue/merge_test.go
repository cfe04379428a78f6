package queue

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"wastex-backend/internal/models"
)

func entry(id, date, client string, total float64, createdAt time.Time) *models.ProductionEntry {
	return &models.ProductionEntry{
		ID:          id,
		LogDate:     date,
		ClientName:  client,
		TotalAmount: decimal.NewFromFloat(total),
		Status:      "Pending",
		CreatedAt:   createdAt,
	}
}

func TestKeyForUsesServerIDOnceSynced(t *testing.T) {
	a := entry("42", "2025-09-26", "Panzarella", 1600, time.Now())
	a.Synced = true
	b := entry("42", "2025-10-01", "Different", 99, time.Now())
	b.Synced = true
	if KeyFor(a) != KeyFor(b) {
		t.Errorf("synced entries sharing a server id should share a key")
	}
}

func TestKeyForIgnoresClientIDUntilSynced(t *testing.T) {
	now := time.Now()
	a := entry("1502790b-aaaa-bbbb-cccc-ddddeeee0001", "2025-09-26", "Panzarella", 1600, now)
	b := entry("", "2025-09-26", "Panzarella", 1600, now)
	if KeyFor(a) != KeyFor(b) {
		t.Errorf("a client-generated id on an unsynced entry must not change its identity")
	}
}

func TestKeyForCompositeWithoutID(t *testing.T) {
	now := time.Now()
	a := entry("", "2025-09-26", "Panzarella", 1600, now)
	b := entry("", "2025-09-26", "Panzarella", 1600, now)
	if KeyFor(a) != KeyFor(b) {
		t.Errorf("identical composite fields should produce equal keys")
	}

	c := entry("", "2025-09-26", "Panzarella", 1601, now)
	if KeyFor(a) == KeyFor(c) {
		t.Errorf("differing totals should produce distinct keys")
	}
}

func TestKeyForIncludesPhotoHash(t *testing.T) {
	now := time.Now()
	a := entry("", "2025-09-26", "Panzarella", 1600, now)
	a.Photo = &models.ProductionPhoto{Hash: "aaaa"}
	b := entry("", "2025-09-26", "Panzarella", 1600, now)
	b.Photo = &models.ProductionPhoto{Hash: "bbbb"}
	if KeyFor(a) == KeyFor(b) {
		t.Errorf("differing photo hashes should produce distinct keys")
	}
}

func TestMergeConfirmedWinsCollision(t *testing.T) {
	now := time.Now()
	confirmed := entry("7", "2025-09-26", "Panzarella", 1600, now)
	confirmed.PhotoURL = "https://cdn.example/p.jpg"
	confirmed.PhotoHash = "h"

	stale := entry("", "2025-09-26", "Panzarella", 1600, now.Add(-time.Minute))
	stale.Photo = &models.ProductionPhoto{Data: "Zm9v", Hash: "h"}

	merged := Merge([]*models.ProductionEntry{confirmed}, []*models.ProductionEntry{stale})
	if len(merged) != 1 {
		t.Fatalf("expected 1 merged entry, got %d", len(merged))
	}
	if !merged[0].Synced {
		t.Errorf("confirmed entry should be marked synced")
	}
	if merged[0].Photo != nil {
		t.Errorf("confirmed entry with a URL should drop the embedded photo")
	}
}

func TestMergeDedupesCrashedSweepTwin(t *testing.T) {
	// A crash between the remote insert and the queue shrink leaves the
	// uploaded entry in both places: confirmed under its server id, pending
	// under its client UUID. The merged view must still show it once.
	now := time.Now()
	confirmed := entry("42", "2025-09-26", "Panzarella", 1600, now)
	confirmed.Synced = true
	confirmed.PhotoURL = "https://cdn.example/p.jpg"
	confirmed.PhotoHash = "abc123"

	twin := entry("1502790b-aaaa-bbbb-cccc-ddddeeee0001", "2025-09-26", "Panzarella", 1600, now)
	twin.Photo = &models.ProductionPhoto{Data: "Zm9v", Hash: "abc123"}

	merged := Merge([]*models.ProductionEntry{confirmed}, []*models.ProductionEntry{twin})
	if len(merged) != 1 {
		t.Fatalf("expected 1 merged entry for one logical identity, got %d", len(merged))
	}
	if merged[0].ID != "42" {
		t.Errorf("confirmed copy should win, got id %q", merged[0].ID)
	}
	if !merged[0].Synced {
		t.Errorf("surviving entry should be the synced one")
	}
}

func TestMergeKeepsDistinctPending(t *testing.T) {
	now := time.Now()
	confirmed := entry("1", "2025-09-26", "Panzarella", 1600, now.Add(-2*time.Hour))
	pendingA := entry("", "2025-09-27", "Greenfield", 800, now.Add(-time.Hour))
	pendingB := entry("", "2025-09-28", "Panzarella", 400, now)

	merged := Merge([]*models.ProductionEntry{confirmed}, []*models.ProductionEntry{pendingA, pendingB})
	if len(merged) != 3 {
		t.Fatalf("expected 3 merged entries, got %d", len(merged))
	}

	// Newest-first ordering
	for i := 1; i < len(merged); i++ {
		if merged[i].CreatedAt.After(merged[i-1].CreatedAt) {
			t.Errorf("merged output not sorted newest-first at index %d", i)
		}
	}
}

func TestMergeIdempotent(t *testing.T) {
	now := time.Now()
	confirmed := []*models.ProductionEntry{
		entry("1", "2025-09-26", "Panzarella", 1600, now),
		entry("2", "2025-09-27", "Greenfield", 800, now.Add(-time.Hour)),
	}
	pending := []*models.ProductionEntry{
		entry("", "2025-09-28", "Acme", 250, now.Add(-2*time.Hour)),
	}

	once := Merge(confirmed, pending)
	twice := Merge(once, pending)
	if len(once) != len(twice) {
		t.Fatalf("re-merging changed the entry count: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if KeyFor(once[i]) != KeyFor(twice[i]) {
			t.Errorf("re-merging reordered entries at index %d", i)
		}
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	confirmed := entry("1", "2025-09-26", "Panzarella", 1600, time.Now())
	confirmed.PhotoURL = "https://cdn.example/p.jpg"
	confirmed.Photo = &models.ProductionPhoto{Hash: "h"}
	confirmed.Synced = false

	Merge([]*models.ProductionEntry{confirmed}, nil)
	if confirmed.Photo == nil {
		t.Errorf("merge should copy entries, not strip the caller's photo")
	}
	if confirmed.Synced {
		t.Errorf("merge should copy entries, not flip the caller's synced flag")
	}
}
