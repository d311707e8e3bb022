// Package loader reads the raw sales transaction CSV into memory.
//
// The loader owns the file-level contract: the file must exist and its
// header must carry the expected column set. Anything wrong with an
// individual data row is deferred to the cleaner, so a single bad line can
// never abort a run.
package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"

	apperrors "salesdash/internal/errors"
	"salesdash/pkg/contracts/domain"
)

// Required source columns. Matching is case-insensitive because exports
// from different seller-central accounts vary in header casing.
var requiredColumns = []string{
	"Order ID",
	"Date",
	"Status",
	"Fulfilment",
	"Category",
	"Size",
	"Courier Status",
	"Qty",
	"currency",
	"Amount",
	"ship-city",
	"ship-state",
	"B2B",
}

// Loader reads raw transactions from a delimited source file.
type Loader struct {
	logger *slog.Logger
}

// New creates a new Loader.
func New(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load reads the CSV at path and returns its rows in file order.
// It fails with SOURCE_NOT_FOUND when the path is missing and with
// MALFORMED_SOURCE when the header does not carry the required column set.
func (l *Loader) Load(ctx context.Context, path string) ([]domain.RawTransaction, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, apperrors.NewSourceNotFoundError(path, err)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open source file %s", path), err)
	}
	defer file.Close()

	// The source export is Latin-1 encoded; decode on the way in so city
	// and state names survive intact.
	reader := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(file))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.NewMalformedSourceError("source file is empty, no header row", nil)
	}
	if err != nil {
		return nil, apperrors.NewMalformedSourceError("failed to read header row", err)
	}

	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "source header validated",
		slog.String("path", path),
		slog.Int("column_count", len(header)))

	var (
		transactions []domain.RawTransaction
		rowNum       = 1 // header row
		skipped      int
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			// Unparsable line: skip, like every stage downstream the
			// loader recovers by exclusion rather than aborting.
			skipped++
			l.logger.DebugContext(ctx, "skipping unreadable row",
				slog.Int("row", rowNum),
				slog.String("error", err.Error()))
			continue
		}
		if isRowEmpty(record) {
			continue
		}
		transactions = append(transactions, rawFromRecord(record, columns, rowNum))
	}

	l.logger.InfoContext(ctx, "source file loaded",
		slog.String("path", path),
		slog.Int("rows", len(transactions)),
		slog.Int("unreadable_rows", skipped))

	return transactions, nil
}

// columnIndex maps canonical column names to their position in the header.
type columnIndex map[string]int

// mapColumns resolves the required column positions from the header row.
func mapColumns(header []string) (columnIndex, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.ToLower(strings.TrimSpace(name))] = i
	}

	columns := make(columnIndex, len(requiredColumns))
	var missing []string
	for _, name := range requiredColumns {
		idx, ok := positions[strings.ToLower(name)]
		if !ok {
			missing = append(missing, name)
			continue
		}
		columns[name] = idx
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, apperrors.NewMalformedSourceError(
			fmt.Sprintf("header is missing required columns: %s", strings.Join(missing, ", ")), nil).
			WithContext("missing_columns", missing)
	}

	return columns, nil
}

// rawFromRecord builds a RawTransaction from one CSV record. Short rows
// yield empty strings for the trailing columns.
func rawFromRecord(record []string, columns columnIndex, rowNum int) domain.RawTransaction {
	field := func(name string) string {
		idx := columns[name]
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	return domain.RawTransaction{
		OrderID:       field("Order ID"),
		Date:          field("Date"),
		Status:        field("Status"),
		Fulfilment:    field("Fulfilment"),
		Category:      field("Category"),
		Size:          field("Size"),
		CourierStatus: field("Courier Status"),
		Qty:           field("Qty"),
		Currency:      field("currency"),
		Amount:        field("Amount"),
		ShipCity:      field("ship-city"),
		ShipState:     field("ship-state"),
		B2B:           field("B2B"),
		Row:           rowNum,
	}
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
