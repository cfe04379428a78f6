package repositories

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"wastex-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Row cap for list queries; report and merge reductions are bounded by this.
const productionFetchLimit = 1000

type ProductionRepository struct {
	DB *pgxpool.Pool
}

func NewProductionRepository(db *pgxpool.Pool) *ProductionRepository {
	return &ProductionRepository{DB: db}
}

// Ping reports whether the backing store is reachable.
func (r *ProductionRepository) Ping(ctx context.Context) error {
	return r.DB.Ping(ctx)
}

// Insert persists one production-log row and fills in the server-assigned
// id and creation timestamp.
func (r *ProductionRepository) Insert(ctx context.Context, e *models.ProductionEntry) error {
	logDate, err := time.Parse("2006-01-02", e.LogDate)
	if err != nil {
		return fmt.Errorf("invalid log date %q: %w", e.LogDate, err)
	}

	var id int
	var createdAt time.Time
	err = r.DB.QueryRow(ctx,
		`INSERT INTO production_log(client_id, log_date, client_name, project, tonnage, price_per_ton,
		                            total_amount, approved_by, photo_url, photo_hash, photo_filename, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, created_at`,
		e.ID,          // client UUID kept for traceability
		logDate,
		e.ClientName,
		e.Project,
		e.Tonnage,
		e.PricePerTon,
		e.ComputedTotal(),
		e.ApprovedBy,
		e.PhotoURL,
		e.PhotoHash,
		photoFilename(e),
		e.Status,
	).Scan(&id, &createdAt)
	if err != nil {
		return err
	}

	e.ID = strconv.Itoa(id)
	e.CreatedAt = createdAt
	return nil
}

func photoFilename(e *models.ProductionEntry) string {
	if e.Photo != nil {
		return e.Photo.Filename
	}
	return ""
}

// List returns confirmed entries newest-first, capped by the fetch limit.
func (r *ProductionRepository) List(ctx context.Context) ([]*models.ProductionEntry, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, client_id, log_date, client_name, COALESCE(project, '') as project,
		        tonnage, price_per_ton, total_amount,
		        COALESCE(approved_by, '') as approved_by,
		        COALESCE(photo_url, '') as photo_url, COALESCE(photo_hash, '') as photo_hash,
		        status, created_at
		 FROM production_log
		 ORDER BY created_at DESC
		 LIMIT $1`, productionFetchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.ProductionEntry
	for rows.Next() {
		e, err := scanProductionEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListByDateRange returns confirmed entries whose log date falls inside
// [start, end], newest-first.
func (r *ProductionRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]*models.ProductionEntry, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, client_id, log_date, client_name, COALESCE(project, '') as project,
		        tonnage, price_per_ton, total_amount,
		        COALESCE(approved_by, '') as approved_by,
		        COALESCE(photo_url, '') as photo_url, COALESCE(photo_hash, '') as photo_hash,
		        status, created_at
		 FROM production_log
		 WHERE log_date >= $1 AND log_date <= $2
		 ORDER BY created_at DESC
		 LIMIT $3`, start, end, productionFetchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.ProductionEntry
	for rows.Next() {
		e, err := scanProductionEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// FindByPhotoHash returns the first confirmed entry sharing the given photo
// content hash, or nil if none exists. Used for upload dedup.
func (r *ProductionRepository) FindByPhotoHash(ctx context.Context, hash string) (*models.ProductionEntry, error) {
	if hash == "" {
		return nil, nil
	}
	row := r.DB.QueryRow(ctx,
		`SELECT id, client_id, log_date, client_name, COALESCE(project, '') as project,
		        tonnage, price_per_ton, total_amount,
		        COALESCE(approved_by, '') as approved_by,
		        COALESCE(photo_url, '') as photo_url, COALESCE(photo_hash, '') as photo_hash,
		        status, created_at
		 FROM production_log
		 WHERE photo_hash = $1
		 ORDER BY created_at ASC
		 LIMIT 1`, hash)

	e, err := scanProductionEntry(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// PhotoFilenameByHash returns the stored filename for a photo hash, used when
// a duplicate reuses the prior upload.
func (r *ProductionRepository) PhotoFilenameByHash(ctx context.Context, hash string) (string, error) {
	var filename string
	err := r.DB.QueryRow(ctx,
		`SELECT COALESCE(photo_filename, '') FROM production_log
		 WHERE photo_hash = $1 ORDER BY created_at ASC LIMIT 1`, hash).Scan(&filename)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	return filename, err
}

func scanProductionEntry(row pgx.Row) (*models.ProductionEntry, error) {
	var e models.ProductionEntry
	var id int
	var clientID string
	var logDate time.Time
	err := row.Scan(&id, &clientID, &logDate, &e.ClientName, &e.Project,
		&e.Tonnage, &e.PricePerTon, &e.TotalAmount,
		&e.ApprovedBy, &e.PhotoURL, &e.PhotoHash, &e.Status, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.ID = strconv.Itoa(id)
	e.LogDate = logDate.Format("2006-01-02")
	e.Synced = true
	return &e, nil
}
