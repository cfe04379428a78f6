package queue

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"wastex-backend/internal/models"
)

// Slot filenames under the data directory. Each slot holds one
// JSON-serialized array of production entries.
const (
	confirmedSlot = "confirmed_entries.json"
	pendingSlot   = "pending_entries.json"
)

// Store is the local durable queue: two named slots read at startup and
// rewritten after every mutation. Entries queued here survive restarts and
// are drained by the sync engine once the remote store is reachable.
type Store struct {
	dir string
	mu  sync.Mutex
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create queue dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Load reads both slots. A missing slot is an empty list, not an error.
func (s *Store) Load() (confirmed, pending []*models.ProductionEntry, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	confirmed, err = s.readSlot(confirmedSlot)
	if err != nil {
		return nil, nil, err
	}
	pending, err = s.readSlot(pendingSlot)
	if err != nil {
		return nil, nil, err
	}
	return confirmed, pending, nil
}

func (s *Store) SaveConfirmed(entries []*models.ProductionEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeSlot(confirmedSlot, entries)
}

func (s *Store) SavePending(entries []*models.ProductionEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeSlot(pendingSlot, entries)
}

// AppendPending adds one entry to the pending slot and persists it
// immediately. Returns the new pending depth.
func (s *Store) AppendPending(e *models.ProductionEntry) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.readSlot(pendingSlot)
	if err != nil {
		return 0, err
	}
	pending = append(pending, e)
	if err := s.writeSlot(pendingSlot, pending); err != nil {
		return 0, err
	}
	return len(pending), nil
}

// PendingDepth returns the number of queued entries.
func (s *Store) PendingDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending, err := s.readSlot(pendingSlot)
	if err != nil {
		return 0
	}
	return len(pending)
}

func (s *Store) readSlot(name string) ([]*models.ProductionEntry, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return []*models.ProductionEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	var entries []*models.ProductionEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	if entries == nil {
		entries = []*models.ProductionEntry{}
	}
	return entries, nil
}

func (s *Store) writeSlot(name string, entries []*models.ProductionEntry) error {
	if entries == nil {
		entries = []*models.ProductionEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	// Write through a temp file so a crash mid-write cannot corrupt the slot
	tmp := filepath.Join(s.dir, name+".tmp")
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return os.Rename(tmp, filepath.Join(s.dir, name))
}
