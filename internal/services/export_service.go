package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/shopspring/decimal"

	"wastex-backend/internal/models"
)

// csvHeader is the fixed export header, joined with the same bare-comma
// separator as the data rows. Column order is load-bearing: the finance
// team's import templates match on it.
const csvHeader = "Date,Client,Project,Tonnage,Price per Ton,Total Amount,Status"

// ExportService renders the merged production view as CSV or a PDF summary.
type ExportService struct {
	Sync *SyncService
}

func NewExportService(sync *SyncService) *ExportService {
	return &ExportService{Sync: sync}
}

// ProductionCSV renders entries as CSV. Fields are joined raw, without
// quoting: a client or project name containing a comma will shift columns.
// Known limitation, kept for compatibility with the existing templates.
func ProductionCSV(entries []*models.ProductionEntry) string {
	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteString("\n")
	for _, e := range entries {
		b.WriteString(strings.Join([]string{
			e.LogDate,
			e.ClientName,
			e.Project,
			trimZeros(e.Tonnage),
			trimZeros(e.PricePerTon),
			trimZeros(e.ComputedTotal()),
			e.Status,
		}, ","))
		b.WriteString("\n")
	}
	return b.String()
}

// trimZeros renders a decimal without trailing fraction zeros, so whole
// numbers export as "80" rather than "80.00".
func trimZeros(d decimal.Decimal) string {
	s := d.String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

// ExportCSV fetches the merged production view and renders it as CSV.
func (s *ExportService) ExportCSV(ctx context.Context) (string, error) {
	entries, err := s.Sync.MergedView(ctx)
	if err != nil {
		return "", err
	}
	return ProductionCSV(entries), nil
}

// ExportPDF renders the merged production view as a tabular PDF with a
// tonnage/amount totals row.
func (s *ExportService) ExportPDF(ctx context.Context) ([]byte, error) {
	entries, err := s.Sync.MergedView(ctx)
	if err != nil {
		return nil, err
	}
	return productionPDF(entries, time.Now())
}

func productionPDF(entries []*models.ProductionEntry, now time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Production Log", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Production Log")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", now.Format("2006-01-02 15:04")))
	pdf.Ln(10)

	headers := []string{"Date", "Client", "Project", "Tonnage", "Price/Ton", "Total", "Status"}
	widths := []float64{25, 55, 55, 25, 30, 35, 30}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	totalTonnage := decimal.Zero
	totalAmount := decimal.Zero
	for _, e := range entries {
		pdf.CellFormat(widths[0], 7, e.LogDate, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 7, e.ClientName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, e.Project, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 7, trimZeros(e.Tonnage), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 7, trimZeros(e.PricePerTon), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 7, trimZeros(e.ComputedTotal()), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[6], 7, e.Status, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
		totalTonnage = totalTonnage.Add(e.Tonnage)
		totalAmount = totalAmount.Add(e.ComputedTotal())
	}

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(widths[0]+widths[1]+widths[2], 8, "Total", "1", 0, "R", true, 0, "")
	pdf.CellFormat(widths[3], 8, trimZeros(totalTonnage), "1", 0, "R", true, 0, "")
	pdf.CellFormat(widths[4], 8, "", "1", 0, "R", true, 0, "")
	pdf.CellFormat(widths[5], 8, trimZeros(totalAmount), "1", 0, "R", true, 0, "")
	pdf.CellFormat(widths[6], 8, "", "1", 0, "C", true, 0, "")
	pdf.Ln(-1)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf render failed: %w", err)
	}
	return buf.Bytes(), nil
}
