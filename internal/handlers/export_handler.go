package handlers

import (
	"fmt"
	"net/http"
	"time"

	"wastex-backend/internal/services"
	"wastex-backend/pkg/utils"
)

type ExportHandler struct {
	Export *services.ExportService
}

func NewExportHandler(export *services.ExportService) *ExportHandler {
	return &ExportHandler{Export: export}
}

// ProductionCSV streams the merged production view as a CSV download.
func (h *ExportHandler) ProductionCSV(w http.ResponseWriter, r *http.Request) {
	csv, err := h.Export.ExportCSV(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	filename := fmt.Sprintf("production_%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Write([]byte(csv))
}

// ProductionPDF streams the merged production view as a PDF download.
func (h *ExportHandler) ProductionPDF(w http.ResponseWriter, r *http.Request) {
	pdf, err := h.Export.ExportPDF(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	filename := fmt.Sprintf("production_%s.pdf", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Write(pdf)
}
