package services

import (
	"testing"
	"time"

	"wastex-backend/internal/models"
)

func TestClassifyTransferTagWinsOverType(t *testing.T) {
	if got := Classify("Income", "Transfer"); got != models.ClassTransfer {
		t.Errorf("transfer tag should override account type, got %s", got)
	}
}

func TestClassifyKnownTypes(t *testing.T) {
	cases := []struct {
		accountType string
		want        models.CashFlowClass
	}{
		{"Income", models.ClassOperating},
		{"Cost of Goods Sold", models.ClassOperating},
		{"Expenses", models.ClassOperating},
		{"Accounts Receivable (A/R)", models.ClassOperating},
		{"Accounts Payable (A/P)", models.ClassOperating},
		{"Fixed Assets", models.ClassInvesting},
		{"Property, Plant & Equipment", models.ClassInvesting},
		{"Long Term Liabilities", models.ClassFinancing},
		{"Equity", models.ClassFinancing},
		{"Credit Card", models.ClassFinancing},
		{"Line of Credit", models.ClassFinancing},
		{"Mystery Type", models.ClassOther},
		{"", models.ClassOther},
	}
	for _, c := range cases {
		if got := Classify(c.accountType, ""); got != c.want {
			t.Errorf("Classify(%q) = %s, want %s", c.accountType, got, c.want)
		}
	}
}

func TestReducePL(t *testing.T) {
	rows := []*models.LedgerRow{
		{EntityName: "North", AccountType: "Income", Credit: 1200, Debit: 200},
		{EntityName: "North", AccountType: "Cost of Goods Sold", Debit: 400},
		{EntityName: "North", AccountType: "Expenses", Debit: 250, Credit: 50},
		{EntityName: "North", AccountType: "Fixed Assets", Debit: 9999}, // not a P&L line
	}

	summaries := ReducePL(rows)
	s := summaries["North"]
	if s == nil {
		t.Fatal("missing entity summary")
	}
	if s.Revenue != 1000 {
		t.Errorf("revenue = %v, want 1000", s.Revenue)
	}
	if s.COGS != 400 {
		t.Errorf("cogs = %v, want 400", s.COGS)
	}
	if s.Expenses != 200 {
		t.Errorf("expenses = %v, want 200", s.Expenses)
	}
	if s.NetIncome != 400 {
		t.Errorf("net income = %v, want 400", s.NetIncome)
	}
}

func TestReduceCashFlowExcludesTransfersAndCashLines(t *testing.T) {
	rows := []*models.LedgerRow{
		{EntityName: "North", AccountType: "Income", Credit: 500},
		{EntityName: "North", AccountType: "Income", ReportCategory: "Transfer", Credit: 9999},
		{EntityName: "North", AccountType: "Mystery Type", Credit: 9999},
		{EntityName: "North", AccountType: "Equity", Credit: 300},
		{EntityName: "North", AccountType: "Fixed Assets", Debit: 200},
		{EntityName: "North", AccountType: "Income", IsCashAccount: true, Credit: 9999},
	}

	summaries := ReduceCashFlow(rows)
	s := summaries["North"]
	if s == nil {
		t.Fatal("missing entity summary")
	}
	if s.Operating != 500 {
		t.Errorf("operating = %v, want 500", s.Operating)
	}
	if s.Financing != 300 {
		t.Errorf("financing = %v, want 300", s.Financing)
	}
	if s.Investing != -200 {
		t.Errorf("investing = %v, want -200", s.Investing)
	}
	if s.Net != s.Operating+s.Financing+s.Investing {
		t.Errorf("net %v does not equal sum of buckets", s.Net)
	}
}

func TestReduceCashFlowPrefersNormalBalance(t *testing.T) {
	nb := -150.0
	rows := []*models.LedgerRow{
		{EntityName: "North", AccountType: "Income", Credit: 500, Debit: 0, NormalBalance: &nb},
	}
	s := ReduceCashFlow(rows)["North"]
	if s.Operating != -150 {
		t.Errorf("operating = %v, want normal balance -150", s.Operating)
	}
}

func TestDaysOutstanding(t *testing.T) {
	today := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	if d := DaysOutstanding(today, today.AddDate(0, 0, 5)); d != 0 {
		t.Errorf("not-yet-due should be 0, got %d", d)
	}
	if d := DaysOutstanding(today, today); d != 0 {
		t.Errorf("due today should be 0, got %d", d)
	}
	if d := DaysOutstanding(today, today.AddDate(0, 0, -30)); d != 30 {
		t.Errorf("30 days overdue, got %d", d)
	}
	// Partial days round up
	if d := DaysOutstanding(today.Add(time.Hour), today.AddDate(0, 0, -30)); d != 31 {
		t.Errorf("30 days + 1 hour should round up to 31, got %d", d)
	}
}

func TestReduceAgingBucketBoundaries(t *testing.T) {
	today := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	rows := []*models.AgingRow{
		{EntityName: "Acme", DueDate: today.AddDate(0, 0, -30), OpenBalance: 100},  // boundary: current
		{EntityName: "Acme", DueDate: today.AddDate(0, 0, -31), OpenBalance: 200},  // 31-60
		{EntityName: "Acme", DueDate: today.AddDate(0, 0, -60), OpenBalance: 300},  // boundary: 31-60
		{EntityName: "Acme", DueDate: today.AddDate(0, 0, -90), OpenBalance: 400},  // boundary: 61-90
		{EntityName: "Acme", DueDate: today.AddDate(0, 0, -120), OpenBalance: 500}, // boundary: 91-120
		{EntityName: "Acme", DueDate: today.AddDate(0, 0, -121), OpenBalance: 600}, // over 120
	}

	s := ReduceAging(rows, today)["Acme"]
	if s == nil {
		t.Fatal("missing entity summary")
	}
	if s.Current != 100 {
		t.Errorf("current = %v, want 100", s.Current)
	}
	if s.Days31to60 != 500 {
		t.Errorf("31-60 = %v, want 500", s.Days31to60)
	}
	if s.Days61to90 != 400 {
		t.Errorf("61-90 = %v, want 400", s.Days61to90)
	}
	if s.Days91to120 != 500 {
		t.Errorf("91-120 = %v, want 500", s.Days91to120)
	}
	if s.Over120 != 600 {
		t.Errorf("over 120 = %v, want 600", s.Over120)
	}
	if s.Total != 2100 {
		t.Errorf("total = %v, want 2100", s.Total)
	}
}

func TestReducePayroll(t *testing.T) {
	rows := []*models.PaymentRow{
		{EmployeeName: "Alice", Department: "Operations", Amount: 1000},
		{EmployeeName: "Bob", Department: "Operations", Amount: 1500},
		{EmployeeName: "Alice", Department: "Operations", Amount: 500},
		{EmployeeName: "Carol", Department: "Office", Amount: 900},
	}

	byDept, byEmp := ReducePayroll(rows)
	if got := byDept["Operations"].Total; got != 3000 {
		t.Errorf("operations total = %v, want 3000", got)
	}
	if got := byDept["Office"].Total; got != 900 {
		t.Errorf("office total = %v, want 900", got)
	}
	if got := byEmp["Alice"].Total; got != 1500 {
		t.Errorf("alice total = %v, want 1500", got)
	}
}
