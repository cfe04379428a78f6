package queue

import (
	"fmt"
	"sort"

	"wastex-backend/internal/models"
)

// EntryKey is the stable logical identity of a production entry. Entries get
// a server id only after a successful sync, so an entry without one is keyed
// by the composite of its visible fields plus the photo content hash.
type EntryKey string

// KeyFor computes the identity key for an entry: the server id once synced,
// otherwise log-date + client + total + photo hash (empty string if absent).
// A client-generated id on an unsynced entry is provisional, not identity:
// its synced twin carries a different, server-assigned id.
func KeyFor(e *models.ProductionEntry) EntryKey {
	if e.Synced && e.ID != "" {
		return EntryKey("id:" + e.ID)
	}
	return compositeKey(e)
}

func compositeKey(e *models.ProductionEntry) EntryKey {
	hash := e.PhotoHash
	if hash == "" && e.Photo != nil {
		hash = e.Photo.Hash
	}
	return EntryKey(fmt.Sprintf("c:%s|%s|%s|%s",
		e.LogDate, e.ClientName, e.ComputedTotal().StringFixed(2), hash))
}

// Merge combines server-confirmed entries with locally pending ones into a
// single list with exactly one entry per logical identity. Confirmed entries
// win every collision; their embedded photo payload is dropped because a URL
// exists once synced. Output is sorted newest-first by creation time.
func Merge(confirmed, pending []*models.ProductionEntry) []*models.ProductionEntry {
	byKey := make(map[EntryKey]*models.ProductionEntry, len(confirmed)+len(pending))
	seen := make(map[EntryKey]bool, len(confirmed)+len(pending))
	order := make([]EntryKey, 0, len(confirmed)+len(pending))

	for _, e := range confirmed {
		c := *e
		c.Synced = true
		if c.PhotoURL != "" {
			c.Photo = nil
		}
		key := KeyFor(&c)
		if !seen[key] {
			order = append(order, key)
		}
		byKey[key] = &c
		seen[key] = true
		// A crash between the remote insert and the queue shrink leaves a
		// pending twin behind; it matches the confirmed copy only by the
		// composite, so that key is claimed as well.
		seen[compositeKey(&c)] = true
	}

	for _, e := range pending {
		key := KeyFor(e)
		if seen[key] {
			// Confirmed copy is authoritative; the stale pending twin is
			// dropped here and pruned from the queue on the next sweep.
			continue
		}
		p := *e
		byKey[key] = &p
		seen[key] = true
		order = append(order, key)
	}

	merged := make([]*models.ProductionEntry, 0, len(order))
	for _, key := range order {
		merged = append(merged, byKey[key])
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	return merged
}
