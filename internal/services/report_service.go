package services

import (
	"context"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"wastex-backend/internal/models"
	"wastex-backend/internal/repositories"
)

// ReportService reduces flat ledger rows into per-entity report summaries.
// All reductions are pure and re-run in full per query; result sizes are
// bounded by the repositories' fetch limits.
type ReportService struct {
	JournalRepo *repositories.JournalRepository
	AgingRepo   *repositories.AgingRepository
	PaymentRepo *repositories.PaymentRepository
}

func NewReportService(
	journalRepo *repositories.JournalRepository,
	agingRepo *repositories.AgingRepository,
	paymentRepo *repositories.PaymentRepository,
) *ReportService {
	return &ReportService{
		JournalRepo: journalRepo,
		AgingRepo:   agingRepo,
		PaymentRepo: paymentRepo,
	}
}

// Classify maps an account type plus report-category tag to a cash-flow
// class. Total: every input maps to exactly one class.
func Classify(accountType, reportCategory string) models.CashFlowClass {
	if strings.EqualFold(strings.TrimSpace(reportCategory), "transfer") {
		return models.ClassTransfer
	}

	t := strings.ToLower(strings.TrimSpace(accountType))
	switch t {
	case "income", "other income", "expense", "expenses", "cost of goods sold":
		return models.ClassOperating
	case "fixed assets", "other assets", "property, plant & equipment":
		return models.ClassInvesting
	case "long term liabilities", "equity", "credit card",
		"other current liabilities", "line of credit":
		return models.ClassFinancing
	}
	if strings.Contains(t, "accounts receivable") || strings.Contains(t, "a/r") ||
		strings.Contains(t, "accounts payable") || strings.Contains(t, "a/p") {
		return models.ClassOperating
	}
	return models.ClassOther
}

// ReducePL folds journal lines into per-entity P&L summaries.
func ReducePL(rows []*models.LedgerRow) map[string]*models.PLSummary {
	out := make(map[string]*models.PLSummary)
	for _, row := range rows {
		s := out[row.EntityName]
		if s == nil {
			s = &models.PLSummary{Entity: row.EntityName}
			out[row.EntityName] = s
		}
		switch strings.ToLower(strings.TrimSpace(row.AccountType)) {
		case "income", "other income":
			s.Revenue += row.Credit - row.Debit
		case "cost of goods sold":
			s.COGS += row.Debit - row.Credit
		case "expense", "expenses", "other expense":
			s.Expenses += row.Debit - row.Credit
		}
	}
	for _, s := range out {
		s.NetIncome = s.Revenue - s.COGS - s.Expenses
	}
	return out
}

// ReduceCashFlow folds pre-filtered journal lines (bank-sourced, non-cash)
// into per-entity cash-flow summaries. Transfer and unclassifiable rows are
// excluded from every bucket and from net.
func ReduceCashFlow(rows []*models.LedgerRow) map[string]*models.CashFlowSummary {
	out := make(map[string]*models.CashFlowSummary)
	for _, row := range rows {
		if row.IsCashAccount {
			continue
		}
		class := Classify(row.AccountType, row.ReportCategory)
		if class == models.ClassTransfer || class == models.ClassOther {
			continue
		}

		impact := row.Credit - row.Debit
		if row.NormalBalance != nil {
			impact = *row.NormalBalance
		}

		s := out[row.EntityName]
		if s == nil {
			s = &models.CashFlowSummary{Entity: row.EntityName}
			out[row.EntityName] = s
		}
		switch class {
		case models.ClassOperating:
			s.Operating += impact
		case models.ClassFinancing:
			s.Financing += impact
		case models.ClassInvesting:
			s.Investing += impact
		}
	}
	for _, s := range out {
		s.Net = s.Operating + s.Financing + s.Investing
	}
	return out
}

// DaysOutstanding returns how many whole days past due a balance is as of
// today, never negative. Partial days round up.
func DaysOutstanding(today, due time.Time) int {
	days := math.Ceil(today.Sub(due).Hours() / 24)
	if days < 0 {
		return 0
	}
	return int(days)
}

// ReduceAging buckets open balances per entity by days outstanding as of
// today. Ties go to the lower bucket.
func ReduceAging(rows []*models.AgingRow, today time.Time) map[string]*models.AgingSummary {
	out := make(map[string]*models.AgingSummary)
	for _, row := range rows {
		s := out[row.EntityName]
		if s == nil {
			s = &models.AgingSummary{Entity: row.EntityName}
			out[row.EntityName] = s
		}

		days := DaysOutstanding(today, row.DueDate)
		switch {
		case days <= 30:
			s.Current += row.OpenBalance
		case days <= 60:
			s.Days31to60 += row.OpenBalance
		case days <= 90:
			s.Days61to90 += row.OpenBalance
		case days <= 120:
			s.Days91to120 += row.OpenBalance
		default:
			s.Over120 += row.OpenBalance
		}
		s.Total += row.OpenBalance
	}
	return out
}

// ReducePayroll totals payments by department and by employee.
func ReducePayroll(rows []*models.PaymentRow) (byDepartment, byEmployee map[string]*models.PayrollSummary) {
	byDepartment = make(map[string]*models.PayrollSummary)
	byEmployee = make(map[string]*models.PayrollSummary)
	for _, row := range rows {
		d := byDepartment[row.Department]
		if d == nil {
			d = &models.PayrollSummary{Name: row.Department}
			byDepartment[row.Department] = d
		}
		d.Total += row.Amount

		e := byEmployee[row.EmployeeName]
		if e == nil {
			e = &models.PayrollSummary{Name: row.EmployeeName}
			byEmployee[row.EmployeeName] = e
		}
		e.Total += row.Amount
	}
	return byDepartment, byEmployee
}

// PLReport is the P&L response: per-entity summaries plus company totals.
type PLReport struct {
	Summaries []*models.PLSummary `json:"summaries"`
	Totals    models.PLSummary    `json:"totals"`
}

// CashFlowReport is the cash-flow response.
type CashFlowReport struct {
	Summaries []*models.CashFlowSummary `json:"summaries"`
	Totals    models.CashFlowSummary    `json:"totals"`
}

// AgingReport is the A/R or A/P response.
type AgingReport struct {
	Summaries []*models.AgingSummary `json:"summaries"`
	Totals    models.AgingSummary    `json:"totals"`
}

// PayrollReport carries both groupings over the same payment set.
type PayrollReport struct {
	ByDepartment []*models.PayrollSummary `json:"by_department"`
	ByEmployee   []*models.PayrollSummary `json:"by_employee"`
	Total        float64                  `json:"total"`
}

// ProfitAndLoss builds the P&L report for [start, end], optionally filtered
// to a single entity name. A failed fetch degrades to an empty report.
func (s *ReportService) ProfitAndLoss(ctx context.Context, start, end time.Time, entity string) (*PLReport, error) {
	rows, err := s.JournalRepo.ListByDateRange(ctx, start, end)
	if err != nil {
		log.Printf("[Reports] P&L fetch failed, returning empty report: %v", err)
		rows = nil
	}
	rows = filterEntity(rows, entity)

	summaries := ReducePL(rows)
	report := &PLReport{Totals: models.PLSummary{Entity: "Company"}}
	for _, sum := range sortedByEntity(summaries) {
		report.Summaries = append(report.Summaries, sum)
		report.Totals.Revenue += sum.Revenue
		report.Totals.COGS += sum.COGS
		report.Totals.Expenses += sum.Expenses
	}
	report.Totals.NetIncome = report.Totals.Revenue - report.Totals.COGS - report.Totals.Expenses
	if report.Summaries == nil {
		report.Summaries = []*models.PLSummary{}
	}
	return report, nil
}

// CashFlow builds the cash-flow report for [start, end].
func (s *ReportService) CashFlow(ctx context.Context, start, end time.Time, entity string) (*CashFlowReport, error) {
	rows, err := s.JournalRepo.ListBankedByDateRange(ctx, start, end)
	if err != nil {
		log.Printf("[Reports] Cash-flow fetch failed, returning empty report: %v", err)
		rows = nil
	}
	rows = filterEntity(rows, entity)

	summaries := ReduceCashFlow(rows)
	report := &CashFlowReport{Totals: models.CashFlowSummary{Entity: "Company"}}
	for _, sum := range sortedByEntity(summaries) {
		report.Summaries = append(report.Summaries, sum)
		report.Totals.Operating += sum.Operating
		report.Totals.Financing += sum.Financing
		report.Totals.Investing += sum.Investing
	}
	report.Totals.Net = report.Totals.Operating + report.Totals.Financing + report.Totals.Investing
	if report.Summaries == nil {
		report.Summaries = []*models.CashFlowSummary{}
	}
	return report, nil
}

// Receivables builds the A/R aging report as of today.
func (s *ReportService) Receivables(ctx context.Context, entity string) (*AgingReport, error) {
	rows, err := s.AgingRepo.ListReceivables(ctx)
	if err != nil {
		log.Printf("[Reports] A/R fetch failed, returning empty report: %v", err)
		rows = nil
	}
	return s.agingReport(rows, entity), nil
}

// Payables builds the A/P aging report as of today.
func (s *ReportService) Payables(ctx context.Context, entity string) (*AgingReport, error) {
	rows, err := s.AgingRepo.ListPayables(ctx)
	if err != nil {
		log.Printf("[Reports] A/P fetch failed, returning empty report: %v", err)
		rows = nil
	}
	return s.agingReport(rows, entity), nil
}

func (s *ReportService) agingReport(rows []*models.AgingRow, entity string) *AgingReport {
	if entity != "" {
		var filtered []*models.AgingRow
		for _, row := range rows {
			if row.EntityName == entity {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}

	summaries := ReduceAging(rows, time.Now())
	report := &AgingReport{Totals: models.AgingSummary{Entity: "Company"}}
	for _, sum := range sortedByEntity(summaries) {
		report.Summaries = append(report.Summaries, sum)
		report.Totals.Current += sum.Current
		report.Totals.Days31to60 += sum.Days31to60
		report.Totals.Days61to90 += sum.Days61to90
		report.Totals.Days91to120 += sum.Days91to120
		report.Totals.Over120 += sum.Over120
		report.Totals.Total += sum.Total
	}
	if report.Summaries == nil {
		report.Summaries = []*models.AgingSummary{}
	}
	return report
}

// Payroll builds the payroll report for [start, end].
func (s *ReportService) Payroll(ctx context.Context, start, end time.Time) (*PayrollReport, error) {
	rows, err := s.PaymentRepo.ListByDateRange(ctx, start, end)
	if err != nil {
		log.Printf("[Reports] Payroll fetch failed, returning empty report: %v", err)
		rows = nil
	}

	byDept, byEmp := ReducePayroll(rows)
	report := &PayrollReport{
		ByDepartment: []*models.PayrollSummary{},
		ByEmployee:   []*models.PayrollSummary{},
	}
	for _, sum := range sortedByName(byDept) {
		report.ByDepartment = append(report.ByDepartment, sum)
		report.Total += sum.Total
	}
	for _, sum := range sortedByName(byEmp) {
		report.ByEmployee = append(report.ByEmployee, sum)
	}
	return report, nil
}

func filterEntity(rows []*models.LedgerRow, entity string) []*models.LedgerRow {
	if entity == "" {
		return rows
	}
	var out []*models.LedgerRow
	for _, row := range rows {
		if row.EntityName == entity {
			out = append(out, row)
		}
	}
	return out
}

// sortedByEntity returns map values ordered by their map key so report
// output is deterministic.
func sortedByEntity[T any](m map[string]*T) []*T {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*T, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

func sortedByName[T any](m map[string]*T) []*T {
	return sortedByEntity(m)
}
