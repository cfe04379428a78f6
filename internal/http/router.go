package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wastex-backend/internal/handlers"
)

func NewRouter(
	productionHandler *handlers.ProductionHandler,
	reportHandler *handlers.ReportHandler,
	exportHandler *handlers.ExportHandler,
	photoHandler *handlers.PhotoHandler,
	assistantHandler *handlers.AssistantHandler,
	speechHandler *handlers.SpeechHandler,
	healthHandler *handlers.HealthHandler,
) *mux.Router {
	r := mux.NewRouter()

	// Production log + sync queue
	r.HandleFunc("/api/production", productionHandler.ListEntries).Methods("GET")
	r.HandleFunc("/api/production", productionHandler.CreateEntry).Methods("POST")
	r.HandleFunc("/api/production/pending", productionHandler.ListPending).Methods("GET")
	r.HandleFunc("/api/sync/run", productionHandler.RunSync).Methods("POST")
	r.HandleFunc("/api/sync/status", productionHandler.SyncStatus).Methods("GET")

	// Financial reports
	r.HandleFunc("/api/reports/pnl", reportHandler.ProfitAndLoss).Methods("GET")
	r.HandleFunc("/api/reports/cashflow", reportHandler.CashFlow).Methods("GET")
	r.HandleFunc("/api/reports/ar-aging", reportHandler.ReceivablesAging).Methods("GET")
	r.HandleFunc("/api/reports/ap-aging", reportHandler.PayablesAging).Methods("GET")
	r.HandleFunc("/api/reports/payroll", reportHandler.Payroll).Methods("GET")

	// Exports
	r.HandleFunc("/api/export/production.csv", exportHandler.ProductionCSV).Methods("GET")
	r.HandleFunc("/api/export/production.pdf", exportHandler.ProductionPDF).Methods("GET")

	// Photos
	r.HandleFunc("/api/photos/signed-url", photoHandler.SignedURL).Methods("GET")

	// Assistant
	r.HandleFunc("/api/assistant/message", assistantHandler.Message).Methods("POST")
	r.HandleFunc("/api/assistant/stream", speechHandler.Stream).Methods("GET")

	// Health endpoints (no auth required - for Kubernetes probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
