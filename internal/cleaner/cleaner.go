// Package cleaner normalizes raw transaction rows into typed records and
// accounts for everything it throws away.
//
// Cleaning rules are applied per row, first match wins:
//
//  1. missing or non-numeric amount  -> dropped, "missing amount"
//  2. missing or unparsable date     -> dropped, "missing date"
//  3. exact duplicate of earlier row -> dropped, "duplicate" (first kept)
//  4. otherwise retained, normalized
//
// Dropped rows are never errors; they only increment QualityReport
// counters, reported once per run.
package cleaner

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"salesdash/pkg/contracts/domain"
)

// dateLayout matches the source export's M-D-YY date format.
const dateLayout = "01-02-06"

// Cleaner converts raw transactions into clean ones.
type Cleaner struct {
	logger *slog.Logger
	titler cases.Caser
}

// New creates a new Cleaner.
func New(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{
		logger: logger,
		titler: cases.Title(language.English),
	}
}

// Clean applies the cleaning rules to raws in file order and returns the
// retained transactions together with the data-quality report. The input
// slice is never mutated.
func (c *Cleaner) Clean(ctx context.Context, raws []domain.RawTransaction) ([]domain.CleanTransaction, domain.QualityReport) {
	report := domain.QualityReport{TotalRows: len(raws)}

	clean := make([]domain.CleanTransaction, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))

	for _, raw := range raws {
		amount, ok := parseAmount(raw.Amount)
		if !ok {
			report.DroppedMissingAmount++
			continue
		}

		date, err := time.Parse(dateLayout, raw.Date)
		if err != nil {
			report.DroppedMissingDate++
			continue
		}

		key := duplicateKey(raw)
		if _, dup := seen[key]; dup {
			report.DroppedDuplicate++
			continue
		}
		seen[key] = struct{}{}

		clean = append(clean, domain.CleanTransaction{
			OrderID:       raw.OrderID,
			Date:          date,
			Status:        raw.Status,
			Fulfilment:    raw.Fulfilment,
			Category:      c.titler.String(strings.ToLower(raw.Category)),
			Size:          strings.ToUpper(raw.Size),
			CourierStatus: raw.CourierStatus,
			Qty:           parseQty(raw.Qty),
			Currency:      strings.ToUpper(raw.Currency),
			Amount:        RoundCurrency(amount),
			ShipCity:      raw.ShipCity,
			ShipState:     strings.ToUpper(raw.ShipState),
			B2B:           strings.EqualFold(raw.B2B, "true"),
			Row:           raw.Row,
		})
	}

	report.Retained = len(clean)
	report.Columns = columnQuality(raws)

	c.logger.InfoContext(ctx, "cleaning complete",
		slog.Int("total_rows", report.TotalRows),
		slog.Int("retained", report.Retained),
		slog.Int("dropped_missing_amount", report.DroppedMissingAmount),
		slog.Int("dropped_missing_date", report.DroppedMissingDate),
		slog.Int("dropped_duplicate", report.DroppedDuplicate))

	return clean, report
}

// RoundCurrency rounds a monetary value to two decimal places using
// banker's rounding, so repeated aggregation does not drift upward.
func RoundCurrency(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// parseAmount parses a currency amount, tolerating thousands separators.
func parseAmount(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseQty parses a unit count; unparsable quantities count as zero units
// rather than dropping the row, matching how the revenue figures treat them.
func parseQty(s string) int64 {
	v, err := strconv.ParseInt(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// duplicateKey builds the identity of a row from its order id plus every
// line field. Only byte-identical repeats of an earlier line collapse;
// legitimate multi-line orders with differing fields survive.
func duplicateKey(raw domain.RawTransaction) string {
	return strings.Join([]string{
		raw.OrderID,
		raw.Date,
		raw.Status,
		raw.Fulfilment,
		raw.Category,
		raw.Size,
		raw.CourierStatus,
		raw.Qty,
		raw.Currency,
		raw.Amount,
		raw.ShipCity,
		raw.ShipState,
		raw.B2B,
	}, "\x1f")
}

// columnQuality computes per-column missing-value statistics over the raw
// rows for the Data Quality sheet.
func columnQuality(raws []domain.RawTransaction) []domain.ColumnQuality {
	columns := []struct {
		name  string
		value func(domain.RawTransaction) string
	}{
		{"Order ID", func(r domain.RawTransaction) string { return r.OrderID }},
		{"Date", func(r domain.RawTransaction) string { return r.Date }},
		{"Status", func(r domain.RawTransaction) string { return r.Status }},
		{"Fulfilment", func(r domain.RawTransaction) string { return r.Fulfilment }},
		{"Category", func(r domain.RawTransaction) string { return r.Category }},
		{"Size", func(r domain.RawTransaction) string { return r.Size }},
		{"Courier Status", func(r domain.RawTransaction) string { return r.CourierStatus }},
		{"Qty", func(r domain.RawTransaction) string { return r.Qty }},
		{"currency", func(r domain.RawTransaction) string { return r.Currency }},
		{"Amount", func(r domain.RawTransaction) string { return r.Amount }},
		{"ship-city", func(r domain.RawTransaction) string { return r.ShipCity }},
		{"ship-state", func(r domain.RawTransaction) string { return r.ShipState }},
		{"B2B", func(r domain.RawTransaction) string { return r.B2B }},
	}

	quality := make([]domain.ColumnQuality, 0, len(columns))
	for _, col := range columns {
		missing := 0
		for _, raw := range raws {
			if strings.TrimSpace(col.value(raw)) == "" {
				missing++
			}
		}

		pct := 0.0
		if len(raws) > 0 {
			pct = float64(missing) / float64(len(raws)) * 100
		}

		status := "Clean"
		switch {
		case missing == 0:
		case pct < 10:
			status = "Has Missing"
		default:
			status = "Critical"
		}

		quality = append(quality, domain.ColumnQuality{
			Column:       col.name,
			MissingCount: missing,
			MissingPct:   pct,
			Status:       status,
		})
	}

	return quality
}
