package domain

import (
	"time"
)

// RawTransaction is one sales-order line exactly as read from the source
// CSV. All attributes are untyped strings until the cleaner has run; a raw
// row is never mutated, it is superseded by a CleanTransaction.
type RawTransaction struct {
	OrderID       string `json:"order_id"`
	Date          string `json:"date"`
	Status        string `json:"status"`
	Fulfilment    string `json:"fulfilment"`
	Category      string `json:"category"`
	Size          string `json:"size"`
	CourierStatus string `json:"courier_status"`
	Qty           string `json:"qty"`
	Currency      string `json:"currency"`
	Amount        string `json:"amount"`
	ShipCity      string `json:"ship_city"`
	ShipState     string `json:"ship_state"`
	B2B           string `json:"b2b"`

	// Row is the 1-based row number in the source file, header included.
	// Kept for duplicate tie-breaks and error reporting.
	Row int `json:"row"`
}

// CleanTransaction is a RawTransaction with every required field parsed and
// normalized. Rows that fail cleaning never become CleanTransactions; the
// aggregator only ever sees valid records.
type CleanTransaction struct {
	OrderID       string    `json:"order_id"`
	Date          time.Time `json:"date"`
	Status        string    `json:"status"`
	Fulfilment    string    `json:"fulfilment"`
	Category      string    `json:"category"`
	Size          string    `json:"size"`
	CourierStatus string    `json:"courier_status"`
	Qty           int64     `json:"qty"`
	Currency      string    `json:"currency"`
	Amount        float64   `json:"amount"`
	ShipCity      string    `json:"ship_city"`
	ShipState     string    `json:"ship_state"`
	B2B           bool      `json:"b2b"`
	Row           int       `json:"row"`
}

// Drop reasons recorded in the QualityReport. First matching rule wins, so
// a row missing both amount and date counts once, under missing amount.
const (
	DropReasonMissingAmount = "missing amount"
	DropReasonMissingDate   = "missing date"
	DropReasonDuplicate     = "duplicate"
)

// ColumnQuality describes missing-value statistics for a single source
// column, rendered on the Data Quality sheet.
type ColumnQuality struct {
	Column       string  `json:"column"`
	MissingCount int     `json:"missing_count"`
	MissingPct   float64 `json:"missing_pct"`
	Status       string  `json:"status"` // "Clean", "Has Missing" or "Critical"
}

// QualityReport summarizes what the cleaner did to the raw rows. It is
// computed once per run and attached, immutable, to the final report.
type QualityReport struct {
	TotalRows            int             `json:"total_rows"`
	Retained             int             `json:"retained"`
	DroppedMissingAmount int             `json:"dropped_missing_amount"`
	DroppedMissingDate   int             `json:"dropped_missing_date"`
	DroppedDuplicate     int             `json:"dropped_duplicate"`
	Columns              []ColumnQuality `json:"columns"`
}

// Dropped returns the total number of rows excluded from aggregation.
func (q QualityReport) Dropped() int {
	return q.DroppedMissingAmount + q.DroppedMissingDate + q.DroppedDuplicate
}
