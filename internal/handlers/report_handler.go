package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"wastex-backend/internal/cache"
	"wastex-backend/internal/services"
	"wastex-backend/pkg/utils"
)

type ReportHandler struct {
	Reports *services.ReportService
}

func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{Reports: reports}
}

// reportDateRange reads start/end query params, defaulting to the current
// calendar year.
func reportDateRange(r *http.Request) (start, end time.Time, err error) {
	now := time.Now()
	start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(now.Year(), 12, 31, 0, 0, 0, 0, time.UTC)

	if s := r.URL.Query().Get("start"); s != "" {
		start, err = time.Parse("2006-01-02", s)
		if err != nil {
			return start, end, fmt.Errorf("invalid start date %q", s)
		}
	}
	if e := r.URL.Query().Get("end"); e != "" {
		end, err = time.Parse("2006-01-02", e)
		if err != nil {
			return start, end, fmt.Errorf("invalid end date %q", e)
		}
	}
	if end.Before(start) {
		return start, end, fmt.Errorf("end date precedes start date")
	}
	return start, end, nil
}

// serveCached writes the Redis-cached payload for (kind, params) if present.
func serveCached(w http.ResponseWriter, r *http.Request, kind, params string) bool {
	data, ok := cache.GetCachedReport(r.Context(), kind, params)
	if !ok {
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "HIT")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
	return true
}

func cacheAndServe(w http.ResponseWriter, r *http.Request, kind, params string, report any) {
	data, err := json.Marshal(report)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	cache.CacheReport(r.Context(), kind, params, data)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *ReportHandler) ProfitAndLoss(w http.ResponseWriter, r *http.Request) {
	start, end, err := reportDateRange(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	entity := r.URL.Query().Get("entity")
	params := fmt.Sprintf("%s|%s|%s", start.Format("2006-01-02"), end.Format("2006-01-02"), entity)
	if serveCached(w, r, "pnl", params) {
		return
	}

	report, err := h.Reports.ProfitAndLoss(r.Context(), start, end, entity)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	cacheAndServe(w, r, "pnl", params, report)
}

func (h *ReportHandler) CashFlow(w http.ResponseWriter, r *http.Request) {
	start, end, err := reportDateRange(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	entity := r.URL.Query().Get("entity")
	params := fmt.Sprintf("%s|%s|%s", start.Format("2006-01-02"), end.Format("2006-01-02"), entity)
	if serveCached(w, r, "cashflow", params) {
		return
	}

	report, err := h.Reports.CashFlow(r.Context(), start, end, entity)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	cacheAndServe(w, r, "cashflow", params, report)
}

func (h *ReportHandler) ReceivablesAging(w http.ResponseWriter, r *http.Request) {
	entity := r.URL.Query().Get("entity")
	report, err := h.Reports.Receivables(r.Context(), entity)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, report)
}

func (h *ReportHandler) PayablesAging(w http.ResponseWriter, r *http.Request) {
	entity := r.URL.Query().Get("entity")
	report, err := h.Reports.Payables(r.Context(), entity)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, report)
}

func (h *ReportHandler) Payroll(w http.ResponseWriter, r *http.Request) {
	start, end, err := reportDateRange(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	report, err := h.Reports.Payroll(r.Context(), start, end)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, report)
}
