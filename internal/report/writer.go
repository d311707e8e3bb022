// Package report renders the cleaned data, quality report, KPI set and
// aggregate tables into a styled multi-sheet Excel workbook.
//
// The writer is a pure renderer: every number it writes was computed
// upstream. Charts reference live sheet ranges, so the workbook stays
// consistent if a reader edits the underlying sheet data.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"salesdash/internal/aggregator"
	apperrors "salesdash/internal/errors"
	"salesdash/pkg/contracts/domain"
)

// filenameFormat is the timestamp layout embedded in the artifact name.
const filenameFormat = "20060102_150405"

// Sheet names in workbook order.
var sheetOrder = []string{
	"Summary & Insights",
	"Visual Dashboard",
	"Data Quality",
	aggregator.TableCategory,
	aggregator.TableGeography,
	aggregator.TableStatus,
	aggregator.TableSize,
	aggregator.TableTrend,
	aggregator.TableFulfilment,
	aggregator.TableSegment,
}

// Rows rendered on the chart-backed sheets; the in-memory tables keep
// every group, truncation is purely a presentation choice.
const (
	topStates   = 15
	topStatuses = 8
	topSizes    = 12
)

// Artifact bundles everything one dashboard run produces.
type Artifact struct {
	Transactions []domain.CleanTransaction
	Quality      domain.QualityReport
	Tables       aggregator.Tables
	GeneratedAt  time.Time
}

// Filename returns the timestamped artifact filename.
func (a Artifact) Filename() string {
	return fmt.Sprintf("Amazon_Sales_Dashboard_%s.xlsx", a.GeneratedAt.Format(filenameFormat))
}

// Writer renders artifacts into workbooks under a fixed output directory.
type Writer struct {
	logger    *slog.Logger
	outputDir string
}

// NewWriter creates a new report Writer.
func NewWriter(logger *slog.Logger, outputDir string) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger, outputDir: outputDir}
}

// Write renders the artifact and returns the path of the workbook it
// created. The workbook is saved to a temporary name and renamed into
// place, so a failed run leaves nothing behind in the output directory.
func (w *Writer) Write(ctx context.Context, artifact Artifact) (string, error) {
	finalPath := filepath.Join(w.outputDir, artifact.Filename())
	tempPath := filepath.Join(w.outputDir, "."+artifact.Filename()+".tmp")

	w.logger.InfoContext(ctx, "writing dashboard workbook",
		slog.String("path", finalPath),
		slog.Int("sheet_count", len(sheetOrder)),
		slog.Bool("empty_dataset", artifact.Tables.KPIs.Empty))

	f, err := w.build(artifact)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := f.SaveAs(tempPath); err != nil {
		return "", apperrors.NewStorageError("failed to save workbook", err).
			WithContext("path", tempPath)
	}
	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return "", apperrors.NewStorageError("failed to move workbook into place", err).
			WithContext("path", finalPath)
	}

	w.logger.InfoContext(ctx, "dashboard workbook written", slog.String("path", finalPath))

	return finalPath, nil
}

// build assembles the in-memory workbook.
func (w *Writer) build(artifact Artifact) (*excelize.File, error) {
	f := excelize.NewFile()

	for _, name := range sheetOrder {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, apperrors.NewStorageError(fmt.Sprintf("failed to create sheet %s", name), err)
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, apperrors.NewStorageError("failed to drop default sheet", err)
	}

	styles, err := newStyleSet(f)
	if err != nil {
		f.Close()
		return nil, apperrors.NewStorageError("failed to register workbook styles", err)
	}

	b := &sheetBuilder{f: f, styles: styles}

	steps := []func(Artifact) error{
		b.summarySheet,
		b.dashboardSheet,
		b.qualitySheet,
		b.categorySheet,
		b.geographySheet,
		b.statusSheet,
		b.sizeSheet,
		b.trendSheet,
		b.fulfilmentSheet,
		b.segmentSheet,
	}
	for _, step := range steps {
		if err := step(artifact); err != nil {
			f.Close()
			return nil, apperrors.NewStorageError("failed to render sheet", err)
		}
	}

	if idx, err := f.GetSheetIndex(sheetOrder[0]); err == nil {
		f.SetActiveSheet(idx)
	}

	return f, nil
}

// cell converts 1-based coordinates to an A1-style reference.
func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// rangeRef builds a sheet-qualified range reference for chart series.
func rangeRef(sheet string, col, fromRow, toRow int) string {
	return fmt.Sprintf("'%s'!%s:%s", sheet, cell(col, fromRow), cell(col, toRow))
}
