package repositories

import (
	"context"

	"wastex-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const agingFetchLimit = 2000

type AgingRepository struct {
	DB *pgxpool.Pool
}

func NewAgingRepository(db *pgxpool.Pool) *AgingRepository {
	return &AgingRepository{DB: db}
}

// ListReceivables returns open A/R rows with a positive balance.
func (r *AgingRepository) ListReceivables(ctx context.Context) ([]*models.AgingRow, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, customer_name, COALESCE(invoice_number, '') as invoice_number,
		        due_date, open_balance, COALESCE(memo, '') as memo
		 FROM ar_aging_detail
		 WHERE open_balance > 0
		 ORDER BY due_date ASC
		 LIMIT $1`, agingFetchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAgingRows(rows)
}

// ListPayables returns open A/P rows with a positive balance.
func (r *AgingRepository) ListPayables(ctx context.Context) ([]*models.AgingRow, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, vendor_name, COALESCE(bill_number, '') as bill_number,
		        due_date, open_balance, COALESCE(memo, '') as memo
		 FROM ap_aging
		 WHERE open_balance > 0
		 ORDER BY due_date ASC
		 LIMIT $1`, agingFetchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAgingRows(rows)
}

func scanAgingRows(rows pgx.Rows) ([]*models.AgingRow, error) {
	var out []*models.AgingRow
	for rows.Next() {
		var a models.AgingRow
		err := rows.Scan(&a.ID, &a.EntityName, &a.DocNumber, &a.DueDate, &a.OpenBalance, &a.Memo)
		if err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
