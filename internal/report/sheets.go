package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"salesdash/internal/aggregator"
	"salesdash/pkg/contracts/domain"
)

// printer renders money and counts with thousands separators, the way the
// summary sheet displays them. Table cells stay numeric and are formatted
// through cell styles instead.
var printer = message.NewPrinter(language.English)

// inr formats a monetary value for display strings.
func inr(v float64) string {
	return printer.Sprintf("₹%.2f", v)
}

type sheetBuilder struct {
	f      *excelize.File
	styles *styleSet
}

// headerRow writes a styled table header at the given row.
func (b *sheetBuilder) headerRow(sheet string, row int, headers ...string) error {
	for i, h := range headers {
		ref := cell(i+1, row)
		if err := b.f.SetCellValue(sheet, ref, h); err != nil {
			return err
		}
		if err := b.f.SetCellStyle(sheet, ref, ref, b.styles.header); err != nil {
			return err
		}
	}
	return nil
}

// titleBanner writes the merged, filled banner row every sheet starts with.
func (b *sheetBuilder) titleBanner(sheet, text string, lastCol int) error {
	if err := b.f.MergeCell(sheet, "A1", cell(lastCol, 1)); err != nil {
		return err
	}
	if err := b.f.SetCellValue(sheet, "A1", text); err != nil {
		return err
	}
	if err := b.f.SetCellStyle(sheet, "A1", cell(lastCol, 1), b.styles.title); err != nil {
		return err
	}
	return b.f.SetRowHeight(sheet, 1, 30)
}

// sectionHeader writes a merged section divider row.
func (b *sheetBuilder) sectionHeader(sheet, text string, row, lastCol int) error {
	if err := b.f.MergeCell(sheet, cell(1, row), cell(lastCol, row)); err != nil {
		return err
	}
	if err := b.f.SetCellValue(sheet, cell(1, row), text); err != nil {
		return err
	}
	return b.f.SetCellStyle(sheet, cell(1, row), cell(lastCol, row), b.styles.header)
}

// labelValue writes a bold label in column A and its value in column B.
func (b *sheetBuilder) labelValue(sheet string, row int, label string, value interface{}) error {
	if err := b.f.SetCellValue(sheet, cell(1, row), label); err != nil {
		return err
	}
	if err := b.f.SetCellStyle(sheet, cell(1, row), cell(1, row), b.styles.metricFont); err != nil {
		return err
	}
	return b.f.SetCellValue(sheet, cell(2, row), value)
}

// summarySheet renders the executive summary: key findings and ranked
// insights over the whole dataset.
func (b *sheetBuilder) summarySheet(a Artifact) error {
	sheet := sheetOrder[0]
	kpis := a.Tables.KPIs
	hl := a.Tables.Highlights

	if err := b.titleBanner(sheet, "AMAZON SALES ANALYSIS - EXECUTIVE SUMMARY", 6); err != nil {
		return err
	}

	row := 3
	if err := b.sectionHeader(sheet, "KEY FINDINGS", row, 6); err != nil {
		return err
	}

	findings := []struct {
		label string
		value interface{}
	}{
		{"Total Orders Analyzed", kpis.TotalOrders},
		{"Total Revenue Generated", inr(kpis.TotalRevenue)},
		{"Analysis Period", aggregator.DateRangeLabel(kpis)},
		{"Average Order Value", inr(kpis.AvgOrderValue)},
		{"Distinct Categories", kpis.DistinctCategories},
		{"Distinct States", kpis.DistinctStates},
	}
	for _, item := range findings {
		row++
		if err := b.labelValue(sheet, row, item.label, item.value); err != nil {
			return err
		}
	}

	row += 2
	if err := b.sectionHeader(sheet, "TOP INSIGHTS", row, 6); err != nil {
		return err
	}

	if kpis.Empty {
		row++
		return b.f.SetCellValue(sheet, cell(1, row), "No transactions available for analysis")
	}

	insights := []struct {
		label string
		value string
	}{
		{"1. Best Selling Category", printer.Sprintf("%s (%d units)", hl.BestCategory, hl.BestCategoryUnits)},
		{"2. Top State by Revenue", fmt.Sprintf("%s (%s)", hl.TopState, inr(hl.TopStateRevenue))},
		{"3. Top City by Orders", printer.Sprintf("%s (%d orders)", hl.TopCity, hl.TopCityOrders)},
		{"4. Most Popular Size", printer.Sprintf("%s (%d units)", hl.TopSize, hl.TopSizeUnits)},
		{"5. Cancellation Rate", fmt.Sprintf("%.2f%%", kpis.CancellationRate*100)},
		{"6. Amazon Fulfillment", fmt.Sprintf("%.2f%% of orders", hl.AmazonShare*100)},
	}
	for _, item := range insights {
		row++
		if err := b.labelValue(sheet, row, item.label, item.value); err != nil {
			return err
		}
	}

	if err := b.f.SetColWidth(sheet, "A", "A", 35); err != nil {
		return err
	}
	return b.f.SetColWidth(sheet, "B", "B", 50)
}

// dashboardSheet renders the colored KPI cards.
func (b *sheetBuilder) dashboardSheet(a Artifact) error {
	sheet := sheetOrder[1]
	kpis := a.Tables.KPIs

	if err := b.titleBanner(sheet, "AMAZON SALES ANALYSIS - INTERACTIVE DASHBOARD", 10); err != nil {
		return err
	}

	generated := fmt.Sprintf("Generated: %s | Period: %s",
		a.GeneratedAt.Format("2006-01-02 15:04:05"), aggregator.DateRangeLabel(kpis))
	if err := b.f.MergeCell(sheet, "A2", "J2"); err != nil {
		return err
	}
	if err := b.f.SetCellValue(sheet, "A2", generated); err != nil {
		return err
	}
	if err := b.f.SetCellStyle(sheet, "A2", "J2", b.styles.metricFill); err != nil {
		return err
	}

	cards := []struct {
		col   int
		row   int
		color string
		label string
		value interface{}
	}{
		{1, 4, "blue", "TOTAL ORDERS", kpis.TotalOrders},
		{4, 4, "green", "TOTAL REVENUE", inr(kpis.TotalRevenue)},
		{7, 4, "purple", "AVG ORDER VALUE", inr(kpis.AvgOrderValue)},
		{1, 7, "teal", "QUANTITY SOLD", kpis.TotalUnits},
		{4, 7, "red", "CANCELLATION RATE", fmt.Sprintf("%.2f%%", kpis.CancellationRate*100)},
		{7, 7, "green", "DELIVERY SUCCESS", fmt.Sprintf("%.2f%%", kpis.DeliveryRate*100)},
	}
	for _, c := range cards {
		if err := b.card(sheet, c.col, c.row, c.color, c.label, c.value); err != nil {
			return err
		}
	}

	for _, width := range []struct {
		col string
		w   float64
	}{
		{"A", 18}, {"B", 18}, {"C", 2}, {"D", 18}, {"E", 18},
		{"F", 2}, {"G", 18}, {"H", 18},
	} {
		if err := b.f.SetColWidth(sheet, width.col, width.col, width.w); err != nil {
			return err
		}
	}
	for _, height := range []struct {
		row int
		h   float64
	}{
		{4, 25}, {5, 40}, {7, 25}, {8, 40},
	} {
		if err := b.f.SetRowHeight(sheet, height.row, height.h); err != nil {
			return err
		}
	}

	return nil
}

// card renders one two-cell KPI card: colored header on top, large value
// underneath.
func (b *sheetBuilder) card(sheet string, col, row int, color, label string, value interface{}) error {
	head := cell(col, row)
	headEnd := cell(col+1, row)
	if err := b.f.MergeCell(sheet, head, headEnd); err != nil {
		return err
	}
	if err := b.f.SetCellValue(sheet, head, label); err != nil {
		return err
	}
	if err := b.f.SetCellStyle(sheet, head, headEnd, b.styles.cardHead[color]); err != nil {
		return err
	}

	val := cell(col, row+1)
	valEnd := cell(col+1, row+1)
	if err := b.f.MergeCell(sheet, val, valEnd); err != nil {
		return err
	}
	if err := b.f.SetCellValue(sheet, val, value); err != nil {
		return err
	}
	return b.f.SetCellStyle(sheet, val, valEnd, b.styles.cardValue[color])
}

// qualitySheet renders the data-quality and cleaning report.
func (b *sheetBuilder) qualitySheet(a Artifact) error {
	sheet := sheetOrder[2]
	q := a.Quality

	if err := b.titleBanner(sheet, "DATA QUALITY & CLEANING REPORT", 5); err != nil {
		return err
	}

	row := 3
	if err := b.sectionHeader(sheet, "DATASET OVERVIEW", row, 5); err != nil {
		return err
	}
	overview := []struct {
		label string
		value interface{}
	}{
		{"Total Records Read", q.TotalRows},
		{"Records Retained", q.Retained},
		{"Records Dropped", q.Dropped()},
		{"Dropped - Missing Amount", q.DroppedMissingAmount},
		{"Dropped - Missing Date", q.DroppedMissingDate},
		{"Dropped - Duplicate Lines", q.DroppedDuplicate},
		{"Date Range", aggregator.DateRangeLabel(a.Tables.KPIs)},
	}
	for _, item := range overview {
		row++
		if err := b.labelValue(sheet, row, item.label, item.value); err != nil {
			return err
		}
	}

	row += 3
	if err := b.sectionHeader(sheet, "MISSING VALUES ANALYSIS", row, 5); err != nil {
		return err
	}
	row++
	if err := b.headerRow(sheet, row, "Column", "Missing Count", "Missing %", "Status"); err != nil {
		return err
	}
	for _, col := range q.Columns {
		row++
		if err := b.f.SetCellValue(sheet, cell(1, row), col.Column); err != nil {
			return err
		}
		if err := b.f.SetCellValue(sheet, cell(2, row), col.MissingCount); err != nil {
			return err
		}
		if err := b.f.SetCellValue(sheet, cell(3, row), fmt.Sprintf("%.2f%%", col.MissingPct)); err != nil {
			return err
		}
		statusRef := cell(4, row)
		if err := b.f.SetCellValue(sheet, statusRef, col.Status); err != nil {
			return err
		}
		style := b.styles.statusClean
		switch col.Status {
		case "Has Missing":
			style = b.styles.statusWarn
		case "Critical":
			style = b.styles.statusCritical
		}
		if err := b.f.SetCellStyle(sheet, statusRef, statusRef, style); err != nil {
			return err
		}
	}

	row += 3
	if err := b.sectionHeader(sheet, "DATA CLEANING ACTIONS PERFORMED", row, 5); err != nil {
		return err
	}
	actions := []string{
		"1. Decoded source file from Latin-1 encoding",
		"2. Parsed Date column from MM-DD-YY format, dropping unparsable rows",
		"3. Parsed Amount to numeric, dropping rows without a usable value",
		"4. Rounded monetary values to 2 decimal places (banker's rounding)",
		"5. Removed exact duplicate order lines, keeping the first occurrence",
		"6. Normalized Category to title case and Size/State to upper case",
	}
	for _, action := range actions {
		row++
		if err := b.f.SetCellValue(sheet, cell(1, row), action); err != nil {
			return err
		}
		if err := b.f.MergeCell(sheet, cell(1, row), cell(5, row)); err != nil {
			return err
		}
	}

	for _, width := range []struct {
		col string
		w   float64
	}{
		{"A", 30}, {"B", 15}, {"C", 15}, {"D", 20}, {"E", 15},
	} {
		if err := b.f.SetColWidth(sheet, width.col, width.col, width.w); err != nil {
			return err
		}
	}

	return nil
}

// writeTableRows writes table rows starting at startRow, using colFns to
// extract cell values per column. Returns the last row written.
func (b *sheetBuilder) writeTableRows(sheet string, table domain.AggregateTable, limit, startRow int, colFns []func(domain.AggregateRow) interface{}) (int, error) {
	rows := table.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	row := startRow - 1
	for _, r := range rows {
		row++
		for i, fn := range colFns {
			if err := b.f.SetCellValue(sheet, cell(i+1, row), fn(r)); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}

// currencyColumn applies the currency number format to a column range.
func (b *sheetBuilder) currencyColumn(sheet string, col, fromRow, toRow int) error {
	if toRow < fromRow {
		return nil
	}
	return b.f.SetCellStyle(sheet, cell(col, fromRow), cell(col, toRow), b.styles.currency)
}

func (b *sheetBuilder) categorySheet(a Artifact) error {
	sheet := aggregator.TableCategory
	table := a.Tables.Category

	if err := b.headerRow(sheet, 1, "Category", "Quantity", "Revenue", "Orders", "Avg Order Value"); err != nil {
		return err
	}
	lastRow, err := b.writeTableRows(sheet, table, 0, 2, []func(domain.AggregateRow) interface{}{
		func(r domain.AggregateRow) interface{} { return r.Key[0] },
		func(r domain.AggregateRow) interface{} { return r.Units },
		func(r domain.AggregateRow) interface{} { return r.Revenue },
		func(r domain.AggregateRow) interface{} { return r.Orders },
		func(r domain.AggregateRow) interface{} { return r.AvgOrderValue },
	})
	if err != nil {
		return err
	}
	if err := b.currencyColumn(sheet, 3, 2, lastRow); err != nil {
		return err
	}
	if err := b.currencyColumn(sheet, 5, 2, lastRow); err != nil {
		return err
	}
	if err := b.f.SetColWidth(sheet, "A", "E", 18); err != nil {
		return err
	}

	if lastRow < 2 {
		return nil
	}
	return b.f.AddChart(sheet, "G2", &excelize.Chart{
		Type:  excelize.Col,
		Title: []excelize.RichTextRun{{Text: "Revenue by Product Category"}},
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!%s", sheet, cell(3, 1)),
			Categories: rangeRef(sheet, 1, 2, lastRow),
			Values:     rangeRef(sheet, 3, 2, lastRow),
		}},
		XAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Category"}}},
		YAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Revenue"}}},
		Dimension: excelize.ChartDimension{Width: 640, Height: 400},
	})
}

func (b *sheetBuilder) geographySheet(a Artifact) error {
	sheet := aggregator.TableGeography
	table := a.Tables.Geography

	if err := b.headerRow(sheet, 1, "State", "City", "Orders", "Revenue"); err != nil {
		return err
	}
	lastRow, err := b.writeTableRows(sheet, table, topStates, 2, []func(domain.AggregateRow) interface{}{
		func(r domain.AggregateRow) interface{} { return r.Key[0] },
		func(r domain.AggregateRow) interface{} { return r.Key[1] },
		func(r domain.AggregateRow) interface{} { return r.Orders },
		func(r domain.AggregateRow) interface{} { return r.Revenue },
	})
	if err != nil {
		return err
	}
	if err := b.currencyColumn(sheet, 4, 2, lastRow); err != nil {
		return err
	}
	if err := b.f.SetColWidth(sheet, "A", "B", 22); err != nil {
		return err
	}

	if lastRow < 2 {
		return nil
	}
	return b.f.AddChart(sheet, "F2", &excelize.Chart{
		Type:  excelize.Bar,
		Title: []excelize.RichTextRun{{Text: "Top Locations by Revenue"}},
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!%s", sheet, cell(4, 1)),
			Categories: rangeRef(sheet, 1, 2, lastRow),
			Values:     rangeRef(sheet, 4, 2, lastRow),
		}},
		XAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "State"}}},
		YAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Revenue"}}},
		Dimension: excelize.ChartDimension{Width: 640, Height: 480},
	})
}

func (b *sheetBuilder) statusSheet(a Artifact) error {
	sheet := aggregator.TableStatus
	table := a.Tables.Status

	if err := b.headerRow(sheet, 1, "Order Status", "Count", "Percentage"); err != nil {
		return err
	}
	lastRow, err := b.writeTableRows(sheet, table, topStatuses, 2, []func(domain.AggregateRow) interface{}{
		func(r domain.AggregateRow) interface{} { return r.Key[0] },
		func(r domain.AggregateRow) interface{} { return r.Orders },
		func(r domain.AggregateRow) interface{} {
			if a.Tables.KPIs.TotalOrders == 0 {
				return 0.0
			}
			return float64(r.Orders) / float64(a.Tables.KPIs.TotalOrders)
		},
	})
	if err != nil {
		return err
	}
	if lastRow >= 2 {
		if err := b.f.SetCellStyle(sheet, cell(3, 2), cell(3, lastRow), b.styles.percent); err != nil {
			return err
		}
	}
	if err := b.f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return err
	}

	if lastRow < 2 {
		return nil
	}
	return b.f.AddChart(sheet, "E2", &excelize.Chart{
		Type:  excelize.Pie,
		Title: []excelize.RichTextRun{{Text: "Order Status Distribution"}},
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!%s", sheet, cell(2, 1)),
			Categories: rangeRef(sheet, 1, 2, lastRow),
			Values:     rangeRef(sheet, 2, 2, lastRow),
		}},
		PlotArea:  excelize.ChartPlotArea{ShowPercent: true},
		Dimension: excelize.ChartDimension{Width: 560, Height: 400},
	})
}

func (b *sheetBuilder) sizeSheet(a Artifact) error {
	sheet := aggregator.TableSize
	table := a.Tables.Size

	if err := b.headerRow(sheet, 1, "Size", "Quantity Sold", "Revenue"); err != nil {
		return err
	}
	lastRow, err := b.writeTableRows(sheet, table, topSizes, 2, []func(domain.AggregateRow) interface{}{
		func(r domain.AggregateRow) interface{} { return r.Key[0] },
		func(r domain.AggregateRow) interface{} { return r.Units },
		func(r domain.AggregateRow) interface{} { return r.Revenue },
	})
	if err != nil {
		return err
	}
	if err := b.currencyColumn(sheet, 3, 2, lastRow); err != nil {
		return err
	}

	if lastRow < 2 {
		return nil
	}
	return b.f.AddChart(sheet, "E2", &excelize.Chart{
		Type:  excelize.Col,
		Title: []excelize.RichTextRun{{Text: "Quantity Sold by Size"}},
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!%s", sheet, cell(2, 1)),
			Categories: rangeRef(sheet, 1, 2, lastRow),
			Values:     rangeRef(sheet, 2, 2, lastRow),
		}},
		XAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Size"}}},
		YAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Quantity"}}},
		Dimension: excelize.ChartDimension{Width: 600, Height: 400},
	})
}

func (b *sheetBuilder) trendSheet(a Artifact) error {
	sheet := aggregator.TableTrend
	table := a.Tables.Trend

	if err := b.headerRow(sheet, 1, "Date", "Revenue", "Orders"); err != nil {
		return err
	}
	lastRow, err := b.writeTableRows(sheet, table, 0, 2, []func(domain.AggregateRow) interface{}{
		func(r domain.AggregateRow) interface{} { return r.Key[0] },
		func(r domain.AggregateRow) interface{} { return r.Revenue },
		func(r domain.AggregateRow) interface{} { return r.Orders },
	})
	if err != nil {
		return err
	}
	if err := b.currencyColumn(sheet, 2, 2, lastRow); err != nil {
		return err
	}
	if err := b.f.SetColWidth(sheet, "A", "A", 14); err != nil {
		return err
	}

	if lastRow < 2 {
		return nil
	}
	return b.f.AddChart(sheet, "E2", &excelize.Chart{
		Type:  excelize.Line,
		Title: []excelize.RichTextRun{{Text: "Daily Revenue Trend"}},
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!%s", sheet, cell(2, 1)),
			Categories: rangeRef(sheet, 1, 2, lastRow),
			Values:     rangeRef(sheet, 2, 2, lastRow),
		}},
		XAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Date"}}},
		YAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Revenue"}}},
		Dimension: excelize.ChartDimension{Width: 800, Height: 400},
	})
}

func (b *sheetBuilder) fulfilmentSheet(a Artifact) error {
	sheet := aggregator.TableFulfilment
	table := a.Tables.Fulfilment

	if err := b.headerRow(sheet, 1, "Fulfillment Method", "Orders", "Revenue"); err != nil {
		return err
	}
	lastRow, err := b.writeTableRows(sheet, table, 0, 2, []func(domain.AggregateRow) interface{}{
		func(r domain.AggregateRow) interface{} { return r.Key[0] },
		func(r domain.AggregateRow) interface{} { return r.Orders },
		func(r domain.AggregateRow) interface{} { return r.Revenue },
	})
	if err != nil {
		return err
	}
	if err := b.currencyColumn(sheet, 3, 2, lastRow); err != nil {
		return err
	}
	if err := b.f.SetColWidth(sheet, "A", "A", 22); err != nil {
		return err
	}

	if lastRow < 2 {
		return nil
	}
	return b.f.AddChart(sheet, "E2", &excelize.Chart{
		Type:  excelize.Pie,
		Title: []excelize.RichTextRun{{Text: "Orders by Fulfillment Method"}},
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!%s", sheet, cell(2, 1)),
			Categories: rangeRef(sheet, 1, 2, lastRow),
			Values:     rangeRef(sheet, 2, 2, lastRow),
		}},
		PlotArea:  excelize.ChartPlotArea{ShowPercent: true},
		Dimension: excelize.ChartDimension{Width: 560, Height: 400},
	})
}

func (b *sheetBuilder) segmentSheet(a Artifact) error {
	sheet := aggregator.TableSegment
	table := a.Tables.Segment

	if err := b.headerRow(sheet, 1, "Customer Type", "Orders", "Total Revenue", "Avg Order Value"); err != nil {
		return err
	}
	lastRow, err := b.writeTableRows(sheet, table, 0, 2, []func(domain.AggregateRow) interface{}{
		func(r domain.AggregateRow) interface{} { return r.Key[0] },
		func(r domain.AggregateRow) interface{} { return r.Orders },
		func(r domain.AggregateRow) interface{} { return r.Revenue },
		func(r domain.AggregateRow) interface{} { return r.AvgOrderValue },
	})
	if err != nil {
		return err
	}
	if err := b.currencyColumn(sheet, 3, 2, lastRow); err != nil {
		return err
	}
	if err := b.currencyColumn(sheet, 4, 2, lastRow); err != nil {
		return err
	}
	if err := b.f.SetColWidth(sheet, "A", "D", 18); err != nil {
		return err
	}

	if lastRow < 2 {
		return nil
	}
	return b.f.AddChart(sheet, "F2", &excelize.Chart{
		Type:  excelize.Col,
		Title: []excelize.RichTextRun{{Text: "B2B vs B2C - Orders Comparison"}},
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!%s", sheet, cell(2, 1)),
			Categories: rangeRef(sheet, 1, 2, lastRow),
			Values:     rangeRef(sheet, 2, 2, lastRow),
		}},
		YAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Number of Orders"}}},
		Dimension: excelize.ChartDimension{Width: 480, Height: 360},
	})
}
