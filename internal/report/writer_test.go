package report

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salesdash/internal/aggregator"
	apperrors "salesdash/internal/errors"
	"salesdash/pkg/contracts/domain"
)

func sampleArtifact(t *testing.T) Artifact {
	t.Helper()

	txs := []domain.CleanTransaction{
		{OrderID: "1", Date: time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC), Status: "Shipped", Fulfilment: "Amazon", Category: "Kurta", Size: "M", Qty: 2, Amount: 100, ShipCity: "MUMBAI", ShipState: "MAHARASHTRA"},
		{OrderID: "2", Date: time.Date(2022, 4, 2, 0, 0, 0, 0, time.UTC), Status: "Cancelled", Fulfilment: "Merchant", Category: "Set", Size: "S", Qty: 1, Amount: 50, ShipCity: "PUNE", ShipState: "MAHARASHTRA", B2B: true},
	}

	return Artifact{
		Transactions: txs,
		Quality: domain.QualityReport{
			TotalRows: 3,
			Retained:  2,
			DroppedMissingAmount: 1,
			Columns: []domain.ColumnQuality{
				{Column: "Order ID", Status: "Clean"},
				{Column: "Amount", MissingCount: 1, MissingPct: 33.33, Status: "Critical"},
			},
		},
		Tables:      aggregator.New(nil).Aggregate(context.Background(), txs),
		GeneratedAt: time.Date(2022, 5, 1, 14, 30, 15, 0, time.UTC),
	}
}

func TestArtifact_Filename(t *testing.T) {
	artifact := sampleArtifact(t)

	name := artifact.Filename()

	assert.Equal(t, "Amazon_Sales_Dashboard_20220501_143015.xlsx", name)
	assert.Regexp(t, regexp.MustCompile(`^Amazon_Sales_Dashboard_\d{8}_\d{6}\.xlsx$`), name)
}

func TestWrite_ProducesWorkbook(t *testing.T) {
	outDir := t.TempDir()
	w := NewWriter(nil, outDir)

	path, err := w.Write(context.Background(), sampleArtifact(t))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "Amazon_Sales_Dashboard_20220501_143015.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, sheetOrder, f.GetSheetList())

	// Category table content lands where the chart ranges point.
	category, err := f.GetCellValue(aggregator.TableCategory, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Kurta", category)

	revenue, err := f.GetCellValue(aggregator.TableCategory, "C2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "100", revenue)

	// No temp file left behind.
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWrite_EmptyDataset(t *testing.T) {
	outDir := t.TempDir()
	w := NewWriter(nil, outDir)

	artifact := Artifact{
		Quality:     domain.QualityReport{},
		Tables:      aggregator.New(nil).Aggregate(context.Background(), nil),
		GeneratedAt: time.Date(2022, 5, 1, 8, 0, 0, 0, time.UTC),
	}

	path, err := w.Write(context.Background(), artifact)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, sheetOrder, f.GetSheetList())

	note, err := f.GetCellValue(sheetOrder[0], "A12")
	require.NoError(t, err)
	assert.Equal(t, "No transactions available for analysis", note)
}

func TestWrite_FailureLeavesNoPartialFile(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "does-not-exist")
	w := NewWriter(nil, outDir)

	_, err := w.Write(context.Background(), sampleArtifact(t))

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeStorage, apperrors.TypeOf(err))
	assert.NoDirExists(t, outDir)
}
