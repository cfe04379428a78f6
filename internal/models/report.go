package models

// CashFlowClass is the classification of a ledger row for cash-flow reporting
type CashFlowClass string

const (
	ClassOperating CashFlowClass = "operating"
	ClassFinancing CashFlowClass = "financing"
	ClassInvesting CashFlowClass = "investing"
	ClassTransfer  CashFlowClass = "transfer" // excluded from totals
	ClassOther     CashFlowClass = "other"    // excluded from totals
)

// PLSummary is the per-entity profit & loss reduction
type PLSummary struct {
	Entity    string  `json:"entity"`
	Revenue   float64 `json:"revenue"`
	COGS      float64 `json:"cogs"`
	Expenses  float64 `json:"expenses"`
	NetIncome float64 `json:"net_income"`
}

// CashFlowSummary is the per-entity cash-flow reduction
type CashFlowSummary struct {
	Entity    string  `json:"entity"`
	Operating float64 `json:"operating"`
	Financing float64 `json:"financing"`
	Investing float64 `json:"investing"`
	Net       float64 `json:"net"`
}

// AgingSummary buckets open balances by days outstanding.
// Ties go to the lower bucket: exactly 30 days is still current.
type AgingSummary struct {
	Entity     string  `json:"entity"`
	Current    float64 `json:"current"`
	Days31to60 float64 `json:"days_31_60"`
	Days61to90 float64 `json:"days_61_90"`
	Days91to120 float64 `json:"days_91_120"`
	Over120    float64 `json:"over_120"`
	Total      float64 `json:"total"`
}

// PayrollSummary accumulates payment totals for one group (department or employee)
type PayrollSummary struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}
