package repositories

import (
	"context"
	"time"

	"wastex-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

const journalFetchLimit = 5000

type JournalRepository struct {
	DB *pgxpool.Pool
}

func NewJournalRepository(db *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{DB: db}
}

// ListByDateRange returns journal lines inside [start, end], oldest-first,
// capped by the fetch limit. Report reductions run over this bounded set.
func (r *JournalRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]*models.LedgerRow, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, txn_date, account_name, account_type,
		        COALESCE(report_category, '') as report_category,
		        normal_balance, debit, credit,
		        COALESCE(entity_name, '') as entity_name,
		        bank_account, is_cash_account,
		        COALESCE(doc_number, '') as doc_number, COALESCE(memo, '') as memo
		 FROM journal_lines
		 WHERE txn_date >= $1 AND txn_date <= $2
		 ORDER BY txn_date ASC, id ASC
		 LIMIT $3`, start, end, journalFetchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []*models.LedgerRow
	for rows.Next() {
		var l models.LedgerRow
		err := rows.Scan(&l.ID, &l.Date, &l.AccountName, &l.AccountType,
			&l.ReportCategory, &l.NormalBalance, &l.Debit, &l.Credit,
			&l.EntityName, &l.BankAccount, &l.IsCashAccount,
			&l.DocNumber, &l.Memo)
		if err != nil {
			return nil, err
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// ListBankedByDateRange returns only lines tied to a bank account — the
// pre-filter for cash-flow reporting.
func (r *JournalRepository) ListBankedByDateRange(ctx context.Context, start, end time.Time) ([]*models.LedgerRow, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, txn_date, account_name, account_type,
		        COALESCE(report_category, '') as report_category,
		        normal_balance, debit, credit,
		        COALESCE(entity_name, '') as entity_name,
		        bank_account, is_cash_account,
		        COALESCE(doc_number, '') as doc_number, COALESCE(memo, '') as memo
		 FROM journal_lines
		 WHERE txn_date >= $1 AND txn_date <= $2
		   AND bank_account IS NOT NULL
		 ORDER BY txn_date ASC, id ASC
		 LIMIT $3`, start, end, journalFetchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []*models.LedgerRow
	for rows.Next() {
		var l models.LedgerRow
		err := rows.Scan(&l.ID, &l.Date, &l.AccountName, &l.AccountType,
			&l.ReportCategory, &l.NormalBalance, &l.Debit, &l.Credit,
			&l.EntityName, &l.BankAccount, &l.IsCashAccount,
			&l.DocNumber, &l.Memo)
		if err != nil {
			return nil, err
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}
