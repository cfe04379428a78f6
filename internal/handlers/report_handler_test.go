package handlers

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestReportDateRangeDefaultsToCurrentYear(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/reports/pnl", nil)
	start, end, err := reportDateRange(r)
	if err != nil {
		t.Fatalf("reportDateRange: %v", err)
	}

	year := time.Now().Year()
	if start.Year() != year || start.Month() != 1 || start.Day() != 1 {
		t.Errorf("default start = %s, want Jan 1 of current year", start)
	}
	if end.Year() != year || end.Month() != 12 || end.Day() != 31 {
		t.Errorf("default end = %s, want Dec 31 of current year", end)
	}
}

func TestReportDateRangeExplicit(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/reports/pnl?start=2025-09-01&end=2025-09-30", nil)
	start, end, err := reportDateRange(r)
	if err != nil {
		t.Fatalf("reportDateRange: %v", err)
	}
	if start.Format("2006-01-02") != "2025-09-01" || end.Format("2006-01-02") != "2025-09-30" {
		t.Errorf("parsed range = %s..%s", start, end)
	}
}

func TestReportDateRangeRejectsMalformed(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/reports/pnl?start=September", nil)
	if _, _, err := reportDateRange(r); err == nil {
		t.Errorf("malformed start date should be rejected")
	}
}

func TestReportDateRangeRejectsInverted(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/reports/pnl?start=2025-09-30&end=2025-09-01", nil)
	if _, _, err := reportDateRange(r); err == nil {
		t.Errorf("inverted range should be rejected")
	}
}
