package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductionPhoto is the embedded photo evidence carried by an entry until
// its upload succeeds. Once synced only the URL remains.
type ProductionPhoto struct {
	Data     string `json:"data,omitempty"` // base64-encoded bytes
	Hash     string `json:"hash,omitempty"` // sha256 hex of the raw bytes
	Filename string `json:"filename,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
}

type ProductionEntry struct {
	ID          string          `json:"id"` // server-assigned once synced, client UUID otherwise
	LogDate     string          `json:"log_date"` // YYYY-MM-DD
	ClientName  string          `json:"client_name"`
	Project     string          `json:"project,omitempty"`
	Tonnage     decimal.Decimal `json:"tonnage"`
	PricePerTon decimal.Decimal `json:"price_per_ton"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ApprovedBy  string          `json:"approved_by,omitempty"`
	PhotoURL    string          `json:"photo_url,omitempty"`
	PhotoHash   string          `json:"photo_hash,omitempty"`
	Photo       *ProductionPhoto `json:"photo,omitempty"`
	Status      string          `json:"status"`
	Synced      bool            `json:"synced"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ComputedTotal returns tonnage * price_per_ton rounded to 2 decimals.
// A non-zero server-stored TotalAmount overrides the computed value.
func (e *ProductionEntry) ComputedTotal() decimal.Decimal {
	if !e.TotalAmount.IsZero() {
		return e.TotalAmount
	}
	return e.Tonnage.Mul(e.PricePerTon).Round(2)
}

// CreateProductionRequest represents the request body for submitting an entry
type CreateProductionRequest struct {
	LogDate     string           `json:"log_date"`
	ClientName  string           `json:"client_name"`
	Project     string           `json:"project"`
	Tonnage     decimal.Decimal  `json:"tonnage"`
	PricePerTon decimal.Decimal  `json:"price_per_ton"`
	ApprovedBy  string           `json:"approved_by"`
	Photo       *ProductionPhoto `json:"photo,omitempty"`
}
