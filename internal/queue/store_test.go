package queue

import (
	"testing"
	"time"
)

func TestStoreRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	confirmed, pending, err := store.Load()
	if err != nil {
		t.Fatalf("Load on empty dir: %v", err)
	}
	if len(confirmed) != 0 || len(pending) != 0 {
		t.Fatalf("fresh store should be empty, got %d/%d", len(confirmed), len(pending))
	}

	e := entry("", "2025-09-26", "Panzarella", 1600, time.Now().Truncate(time.Second))
	depth, err := store.AppendPending(e)
	if err != nil {
		t.Fatalf("AppendPending: %v", err)
	}
	if depth != 1 {
		t.Errorf("expected depth 1, got %d", depth)
	}

	_, pending, err = store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending entry, got %d", len(pending))
	}
	got := pending[0]
	if got.ClientName != "Panzarella" || got.LogDate != "2025-09-26" {
		t.Errorf("round-tripped entry fields changed: %+v", got)
	}
	if !got.TotalAmount.Equal(e.TotalAmount) {
		t.Errorf("total changed through persistence: %s vs %s", got.TotalAmount, e.TotalAmount)
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := store.AppendPending(entry("", "2025-09-26", "Panzarella", 1600, time.Now())); err != nil {
		t.Fatalf("AppendPending: %v", err)
	}

	reopened, err := NewStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if depth := reopened.PendingDepth(); depth != 1 {
		t.Errorf("expected queued entry to survive reopen, depth=%d", depth)
	}
}

func TestStoreSaveReplacesSlot(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := store.AppendPending(entry("", "2025-09-26", "A", 1, time.Now())); err != nil {
		t.Fatalf("AppendPending: %v", err)
	}
	if _, err := store.AppendPending(entry("", "2025-09-27", "B", 2, time.Now())); err != nil {
		t.Fatalf("AppendPending: %v", err)
	}

	if err := store.SavePending(nil); err != nil {
		t.Fatalf("SavePending(nil): %v", err)
	}
	if depth := store.PendingDepth(); depth != 0 {
		t.Errorf("save should replace the slot, depth=%d", depth)
	}
}
