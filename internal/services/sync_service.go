package services

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"wastex-backend/internal/cache"
	"wastex-backend/internal/metrics"
	"wastex-backend/internal/models"
	"wastex-backend/internal/queue"
	"wastex-backend/internal/storage"
)

// RemoteStore is the slice of the production repository the sync engine
// needs. Narrow so tests can fake the remote side.
type RemoteStore interface {
	Insert(ctx context.Context, e *models.ProductionEntry) error
	FindByPhotoHash(ctx context.Context, hash string) (*models.ProductionEntry, error)
	PhotoFilenameByHash(ctx context.Context, hash string) (string, error)
	List(ctx context.Context) ([]*models.ProductionEntry, error)
	Ping(ctx context.Context) error
}

// BlobStore uploads raw photo bytes and returns the stored reference.
type BlobStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// SyncStatus is the queue/connectivity snapshot exposed over the API.
type SyncStatus struct {
	Online       bool      `json:"online"`
	PendingDepth int       `json:"pending_depth"`
	LastSweep    time.Time `json:"last_sweep,omitempty"`
	LastUploaded int       `json:"last_uploaded"`
	LastFailed   int       `json:"last_failed"`
}

// SyncService drains the local pending queue into the remote store. Each
// entry moves Pending -> Uploading -> Confirmed, or falls back to Pending on
// any failure and is retried on the next sweep. Sweeps are strictly
// sequential: concurrent uploads of the same new photo could both miss the
// other's not-yet-committed dedup row.
type SyncService struct {
	Store  *queue.Store
	Remote RemoteStore
	Blobs  BlobStore

	mu     sync.Mutex // one sweep at a time
	status SyncStatus
	statMu sync.Mutex

	kick chan struct{}
}

func NewSyncService(store *queue.Store, remote RemoteStore, blobs BlobStore) *SyncService {
	return &SyncService{
		Store:  store,
		Remote: remote,
		Blobs:  blobs,
		kick:   make(chan struct{}, 1),
	}
}

// Submit tries an immediate upload of a new entry; when the remote store is
// unreachable the entry is appended to the pending queue instead. Either way
// the caller gets the entry back with its current synced state.
func (s *SyncService) Submit(ctx context.Context, req *models.CreateProductionRequest) (*models.ProductionEntry, error) {
	if req.Tonnage.IsNegative() {
		return nil, fmt.Errorf("tonnage must not be negative")
	}
	if !req.PricePerTon.IsPositive() {
		return nil, fmt.Errorf("price per ton must be positive")
	}
	if _, err := time.Parse("2006-01-02", req.LogDate); err != nil {
		return nil, fmt.Errorf("invalid log date %q", req.LogDate)
	}

	entry := &models.ProductionEntry{
		ID:          uuid.NewString(),
		LogDate:     req.LogDate,
		ClientName:  req.ClientName,
		Project:     req.Project,
		Tonnage:     req.Tonnage,
		PricePerTon: req.PricePerTon,
		TotalAmount: req.Tonnage.Mul(req.PricePerTon).Round(2),
		ApprovedBy:  req.ApprovedBy,
		Photo:       req.Photo,
		Status:      "Pending",
		Synced:      false,
		CreatedAt:   time.Now(),
	}

	confirmed, _, err := s.UploadOne(ctx, entry)
	if err != nil {
		log.Printf("[Sync] Immediate upload failed, queueing entry: %v", err)
		depth, qerr := s.Store.AppendPending(entry)
		if qerr != nil {
			return nil, fmt.Errorf("upload failed and queueing failed: %w", qerr)
		}
		metrics.PendingQueueDepth.Set(float64(depth))
		s.Kick()
		return entry, nil
	}

	if err := s.appendConfirmed(confirmed); err != nil {
		log.Printf("[Sync] Failed to persist confirmed entry locally: %v", err)
	}
	return confirmed, nil
}

// UploadOne attempts to persist one pending entry remotely. It returns the
// confirmed entry plus a duplicate flag (true when the photo upload was
// skipped in favor of an existing blob with the same content hash).
func (s *SyncService) UploadOne(ctx context.Context, e *models.ProductionEntry) (*models.ProductionEntry, bool, error) {
	confirmed := *e
	duplicate := false

	if e.Photo != nil && e.Photo.Data != "" {
		raw, err := base64.StdEncoding.DecodeString(e.Photo.Data)
		if err != nil {
			return nil, false, fmt.Errorf("invalid photo payload: %w", err)
		}

		hash := e.Photo.Hash
		if hash == "" {
			sum := sha256.Sum256(raw)
			hash = hex.EncodeToString(sum[:])
		}
		confirmed.PhotoHash = hash

		url, found := cache.GetCachedPhotoURL(ctx, hash)
		if !found {
			prior, err := s.Remote.FindByPhotoHash(ctx, hash)
			if err != nil {
				return nil, false, fmt.Errorf("photo dedup lookup failed: %w", err)
			}
			if prior != nil {
				url = prior.PhotoURL
				found = true
			}
		}

		if found && url != "" {
			// Same bytes already stored: reuse the prior reference and the
			// filename it was first recorded under, so duplicates stay
			// traceable to one object. Lookup failure keeps our own name.
			confirmed.PhotoURL = url
			duplicate = true
			if name, err := s.Remote.PhotoFilenameByHash(ctx, hash); err == nil && name != "" {
				p := *e.Photo
				p.Filename = name
				confirmed.Photo = &p
			}
		} else {
			key := storage.ObjectKey(hash, e.Photo.Filename, time.Now())
			contentType := e.Photo.MimeType
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			ref, err := s.Blobs.Upload(ctx, key, raw, contentType)
			if err != nil {
				return nil, false, fmt.Errorf("photo upload failed: %w", err)
			}
			confirmed.PhotoURL = ref
			cache.CachePhotoURL(ctx, hash, ref)
		}
	}

	if err := s.Remote.Insert(ctx, &confirmed); err != nil {
		// Entry stays pending, unchanged; the photo blob (if uploaded) is
		// found again by hash on the retry.
		return nil, duplicate, fmt.Errorf("insert failed: %w", err)
	}

	confirmed.Synced = true
	confirmed.Photo = nil
	return &confirmed, duplicate, nil
}

// Sweep drains the pending queue in order. Successes are merged into the
// confirmed slot, failures stay queued; both slots are persisted once after
// the whole sweep, regardless of partial failure.
func (s *SyncService) Sweep(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	confirmed, pending, err := s.Store.Load()
	if err != nil {
		return fmt.Errorf("failed to load queue: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	metrics.SyncSweepsTotal.Inc()
	log.Printf("[Sync] Sweep starting: %d pending entries", len(pending))

	var uploaded []*models.ProductionEntry
	var stillPending []*models.ProductionEntry
	for _, e := range pending {
		c, _, err := s.UploadOne(ctx, e)
		if err != nil {
			log.Printf("[Sync] Entry %s stays queued: %v", e.ID, err)
			metrics.SyncEntriesFailed.Inc()
			stillPending = append(stillPending, e)
			continue
		}
		metrics.SyncEntriesUploaded.Inc()
		uploaded = append(uploaded, c)
	}

	merged := queue.Merge(append(confirmed, uploaded...), nil)
	if err := s.Store.SaveConfirmed(merged); err != nil {
		return fmt.Errorf("failed to persist confirmed slot: %w", err)
	}
	if err := s.Store.SavePending(stillPending); err != nil {
		return fmt.Errorf("failed to persist pending slot: %w", err)
	}
	metrics.PendingQueueDepth.Set(float64(len(stillPending)))

	s.statMu.Lock()
	s.status.LastSweep = time.Now()
	s.status.LastUploaded = len(uploaded)
	s.status.LastFailed = len(stillPending)
	s.statMu.Unlock()

	if len(uploaded) > 0 {
		cache.InvalidateProductionCaches(ctx)
	}
	log.Printf("[Sync] Sweep done: %d uploaded, %d still pending", len(uploaded), len(stillPending))
	return nil
}

// MergedView returns the display list: remote-confirmed entries merged with
// locally pending ones, newest-first. A remote read failure degrades to the
// locally known confirmed entries.
func (s *SyncService) MergedView(ctx context.Context) ([]*models.ProductionEntry, error) {
	remote, err := s.Remote.List(ctx)
	if err != nil {
		log.Printf("[Sync] Remote list failed, serving local view: %v", err)
		local, pending, lerr := s.Store.Load()
		if lerr != nil {
			return nil, lerr
		}
		return queue.Merge(local, pending), nil
	}

	_, pending, err := s.Store.Load()
	if err != nil {
		return nil, err
	}
	return queue.Merge(remote, pending), nil
}

// Pending returns the queued entries.
func (s *SyncService) Pending() ([]*models.ProductionEntry, error) {
	_, pending, err := s.Store.Load()
	return pending, err
}

// Status reports queue depth and connectivity.
func (s *SyncService) Status(ctx context.Context) SyncStatus {
	s.statMu.Lock()
	st := s.status
	s.statMu.Unlock()
	st.PendingDepth = s.Store.PendingDepth()
	st.Online = s.Remote.Ping(ctx) == nil
	return st
}

// Kick requests a sweep from the background loop without blocking.
func (s *SyncService) Kick() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Run watches connectivity and drains the queue. A fail->ok edge on the
// remote ping is the connectivity-restored signal; Kick covers submissions
// that failed upload and manual drains.
func (s *SyncService) Run(ctx context.Context, interval time.Duration) {
	// Drain anything left over from the previous run
	if err := s.Sweep(ctx); err != nil {
		log.Printf("[Sync] Initial sweep failed: %v", err)
	}

	online := s.Remote.Ping(ctx) == nil
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.kick:
			if err := s.Sweep(ctx); err != nil {
				log.Printf("[Sync] Sweep failed: %v", err)
			}
		case <-ticker.C:
			nowOnline := s.Remote.Ping(ctx) == nil
			restored := nowOnline && !online
			online = nowOnline
			if restored {
				log.Printf("[Sync] Connectivity restored")
			}
			if nowOnline && (restored || s.Store.PendingDepth() > 0) {
				if err := s.Sweep(ctx); err != nil {
					log.Printf("[Sync] Sweep failed: %v", err)
				}
			}
		}
	}
}

func (s *SyncService) appendConfirmed(e *models.ProductionEntry) error {
	confirmed, _, err := s.Store.Load()
	if err != nil {
		return err
	}
	return s.Store.SaveConfirmed(queue.Merge(append(confirmed, e), nil))
}
