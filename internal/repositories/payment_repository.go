package repositories

import (
	"context"
	"time"

	"wastex-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

const paymentFetchLimit = 5000

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

// ListByDateRange returns payroll payments inside [start, end].
func (r *PaymentRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]*models.PaymentRow, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, payment_date, COALESCE(employee_name, '') as employee_name,
		        COALESCE(department, '') as department, amount, COALESCE(memo, '') as memo
		 FROM payments
		 WHERE payment_date >= $1 AND payment_date <= $2
		 ORDER BY payment_date ASC
		 LIMIT $3`, start, end, paymentFetchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.PaymentRow
	for rows.Next() {
		var p models.PaymentRow
		err := rows.Scan(&p.ID, &p.Date, &p.EmployeeName, &p.Department, &p.Amount, &p.Memo)
		if err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
