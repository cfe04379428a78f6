package models

import "time"

// LedgerRow is a flat journal line pulled from the external store.
// This system never mutates journal lines.
type LedgerRow struct {
	ID             int       `json:"id"`
	Date           time.Time `json:"date"`
	AccountName    string    `json:"account_name"`
	AccountType    string    `json:"account_type"`
	ReportCategory string    `json:"report_category,omitempty"` // e.g. 'transfer'
	NormalBalance  *float64  `json:"normal_balance,omitempty"`  // signed cash impact hint
	Debit          float64   `json:"debit"`
	Credit         float64   `json:"credit"`
	EntityName     string    `json:"entity_name"` // customer/vendor/department
	BankAccount    *string   `json:"bank_account,omitempty"`
	IsCashAccount  bool      `json:"is_cash_account"`
	DocNumber      string    `json:"doc_number,omitempty"`
	Memo           string    `json:"memo,omitempty"`
}

// AgingRow is one open invoice (A/R) or bill (A/P).
type AgingRow struct {
	ID          int       `json:"id"`
	EntityName  string    `json:"entity_name"`
	DocNumber   string    `json:"doc_number"`
	DueDate     time.Time `json:"due_date"`
	OpenBalance float64   `json:"open_balance"`
	Memo        string    `json:"memo,omitempty"`
}

// PaymentRow is one payroll payment.
type PaymentRow struct {
	ID           int       `json:"id"`
	Date         time.Time `json:"date"`
	EmployeeName string    `json:"employee_name"`
	Department   string    `json:"department"`
	Amount       float64   `json:"amount"`
	Memo         string    `json:"memo,omitempty"`
}
