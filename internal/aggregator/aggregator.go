// Package aggregator derives the per-topic tables and whole-dataset KPIs
// from the clean transaction set.
//
// Every aggregation is a pure function of its input. Breakdown tables are
// ordered by descending revenue with ascending lexical key tie-breaks and
// the daily trend by ascending date, so two runs over the same data always
// produce identical tables regardless of input row order.
package aggregator

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"salesdash/pkg/contracts/domain"
)

// Table names, also used as workbook sheet titles by the report writer.
const (
	TableCategory   = "Category Analysis"
	TableGeography  = "Geography Analysis"
	TableStatus     = "Order Status"
	TableSize       = "Size Analysis"
	TableTrend      = "Sales Trend"
	TableFulfilment = "Fulfillment"
	TableSegment    = "B2B vs B2C"
)

// Tables bundles every derived table and the KPI set for one run.
type Tables struct {
	Category   domain.AggregateTable
	Geography  domain.AggregateTable
	Status     domain.AggregateTable
	Size       domain.AggregateTable
	Trend      domain.AggregateTable
	Fulfilment domain.AggregateTable
	Segment    domain.AggregateTable
	KPIs       domain.KPISet
	Highlights Highlights
}

// Highlights are the ranked single-value findings shown on the summary
// sheet. They are computed here so the report writer stays a pure renderer.
type Highlights struct {
	BestCategory      string
	BestCategoryUnits int64
	TopState          string
	TopStateRevenue   float64
	TopCity           string
	TopCityOrders     int64
	TopSize           string
	TopSizeUnits      int64
	AmazonShare       float64 // fraction of orders fulfilled by Amazon, 0..1
}

// Aggregator computes all derived tables for a transaction set.
type Aggregator struct {
	logger *slog.Logger
}

// New creates a new Aggregator.
func New(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// Aggregate computes every table and the KPI set. An empty transaction set
// yields empty tables and a zero KPI set, never an error; the report
// writer renders the empty case explicitly.
func (a *Aggregator) Aggregate(ctx context.Context, txs []domain.CleanTransaction) Tables {
	tables := Tables{
		Category:   ByCategory(txs),
		Geography:  ByGeography(txs),
		Status:     ByStatus(txs),
		Size:       BySize(txs),
		Trend:      DailyTrend(txs),
		Fulfilment: ByFulfilment(txs),
		Segment:    BySegment(txs),
		KPIs:       KPIs(txs),
		Highlights: ComputeHighlights(txs),
	}

	a.logger.InfoContext(ctx, "aggregation complete",
		slog.Int("transactions", len(txs)),
		slog.Int("categories", len(tables.Category.Rows)),
		slog.Int("states", len(tables.Geography.Rows)),
		slog.Int("trading_days", len(tables.Trend.Rows)),
		slog.Float64("total_revenue", tables.KPIs.TotalRevenue))

	return tables
}

// ByCategory groups transactions by product category.
func ByCategory(txs []domain.CleanTransaction) domain.AggregateTable {
	return groupBy(txs, TableCategory, []string{"Category"}, func(t domain.CleanTransaction) []string {
		return []string{t.Category}
	})
}

// ByGeography groups transactions by ship-to state and city.
func ByGeography(txs []domain.CleanTransaction) domain.AggregateTable {
	return groupBy(txs, TableGeography, []string{"State", "City"}, func(t domain.CleanTransaction) []string {
		return []string{t.ShipState, t.ShipCity}
	})
}

// ByStatus groups transactions by order status.
func ByStatus(txs []domain.CleanTransaction) domain.AggregateTable {
	return groupBy(txs, TableStatus, []string{"Order Status"}, func(t domain.CleanTransaction) []string {
		return []string{t.Status}
	})
}

// BySize groups transactions by product size.
func BySize(txs []domain.CleanTransaction) domain.AggregateTable {
	return groupBy(txs, TableSize, []string{"Size"}, func(t domain.CleanTransaction) []string {
		return []string{t.Size}
	})
}

// ByFulfilment groups transactions by fulfillment channel.
func ByFulfilment(txs []domain.CleanTransaction) domain.AggregateTable {
	return groupBy(txs, TableFulfilment, []string{"Fulfillment Method"}, func(t domain.CleanTransaction) []string {
		return []string{t.Fulfilment}
	})
}

// BySegment groups transactions into the B2B and B2C customer segments.
func BySegment(txs []domain.CleanTransaction) domain.AggregateTable {
	return groupBy(txs, TableSegment, []string{"Customer Type"}, func(t domain.CleanTransaction) []string {
		if t.B2B {
			return []string{"B2B"}
		}
		return []string{"B2C"}
	})
}

// DailyTrend groups transactions by calendar date, ordered ascending. Only
// dates present in the data appear; gaps are not filled with zero rows.
func DailyTrend(txs []domain.CleanTransaction) domain.AggregateTable {
	table := groupBy(txs, TableTrend, []string{"Date"}, func(t domain.CleanTransaction) []string {
		return []string{t.Date.Format("2006-01-02")}
	})

	// Trend rows are chronological, not revenue-ranked. The ISO date key
	// makes lexical order calendar order.
	sort.Slice(table.Rows, func(i, j int) bool {
		return table.Rows[i].Key[0] < table.Rows[j].Key[0]
	})

	return table
}

// KPIs computes the whole-dataset scalar metrics. Every value is a direct
// reduction over the clean set; no grouping is involved.
func KPIs(txs []domain.CleanTransaction) domain.KPISet {
	if len(txs) == 0 {
		return domain.KPISet{Empty: true}
	}

	var (
		kpis       domain.KPISet
		cancelled  int
		shipped    int
		categories = make(map[string]struct{})
		states     = make(map[string]struct{})
	)

	kpis.TotalOrders = int64(len(txs))
	kpis.DateFrom = txs[0].Date
	kpis.DateTo = txs[0].Date

	for _, t := range txs {
		kpis.TotalUnits += t.Qty
		kpis.TotalRevenue += t.Amount

		if t.Date.Before(kpis.DateFrom) {
			kpis.DateFrom = t.Date
		}
		if t.Date.After(kpis.DateTo) {
			kpis.DateTo = t.Date
		}

		categories[t.Category] = struct{}{}
		states[t.ShipState] = struct{}{}

		if strings.Contains(t.Status, "Cancelled") {
			cancelled++
		}
		if strings.Contains(t.Status, "Shipped") {
			shipped++
		}
	}

	kpis.AvgOrderValue = kpis.TotalRevenue / float64(kpis.TotalOrders)
	kpis.DistinctCategories = len(categories)
	kpis.DistinctStates = len(states)
	kpis.CancellationRate = float64(cancelled) / float64(kpis.TotalOrders)
	kpis.DeliveryRate = float64(shipped) / float64(kpis.TotalOrders)

	return kpis
}

// ComputeHighlights ranks the dimensions the summary sheet calls out:
// best category by units sold, top state by revenue, top city by order
// count, most popular size by units, and the Amazon-fulfilled share.
// Ties break toward the lexically smaller name so output is deterministic.
func ComputeHighlights(txs []domain.CleanTransaction) Highlights {
	if len(txs) == 0 {
		return Highlights{}
	}

	var h Highlights

	categoryUnits := make(map[string]int64)
	stateRevenue := make(map[string]float64)
	cityOrders := make(map[string]int64)
	sizeUnits := make(map[string]int64)
	var amazonOrders int64

	for _, t := range txs {
		categoryUnits[t.Category] += t.Qty
		stateRevenue[t.ShipState] += t.Amount
		cityOrders[t.ShipCity]++
		if t.Qty > 0 {
			sizeUnits[t.Size] += t.Qty
		}
		if t.Fulfilment == "Amazon" {
			amazonOrders++
		}
	}

	h.BestCategory, h.BestCategoryUnits = maxInt64(categoryUnits)
	h.TopState, h.TopStateRevenue = maxFloat64(stateRevenue)
	h.TopCity, h.TopCityOrders = maxInt64(cityOrders)
	h.TopSize, h.TopSizeUnits = maxInt64(sizeUnits)
	h.AmazonShare = float64(amazonOrders) / float64(len(txs))

	return h
}

func maxInt64(m map[string]int64) (string, int64) {
	var (
		bestKey string
		bestVal int64
		first   = true
	)
	for k, v := range m {
		if first || v > bestVal || (v == bestVal && k < bestKey) {
			bestKey, bestVal, first = k, v, false
		}
	}
	return bestKey, bestVal
}

func maxFloat64(m map[string]float64) (string, float64) {
	var (
		bestKey string
		bestVal float64
		first   = true
	)
	for k, v := range m {
		if first || v > bestVal || (v == bestVal && k < bestKey) {
			bestKey, bestVal, first = k, v, false
		}
	}
	return bestKey, bestVal
}

// groupBy accumulates orders, units and revenue per dimension key and
// orders the result by descending revenue, ties broken by ascending
// lexical key. Groups always carry at least one transaction, so the
// average order value is never a division by zero.
func groupBy(txs []domain.CleanTransaction, name string, dims []string, keyFn func(domain.CleanTransaction) []string) domain.AggregateTable {
	type bucket struct {
		key     []string
		orders  int64
		units   int64
		revenue float64
	}

	buckets := make(map[string]*bucket)
	for _, t := range txs {
		key := keyFn(t)
		id := strings.Join(key, "\x1f")
		b, ok := buckets[id]
		if !ok {
			b = &bucket{key: key}
			buckets[id] = b
		}
		b.orders++
		b.units += t.Qty
		b.revenue += t.Amount
	}

	var total float64
	for _, b := range buckets {
		total += b.revenue
	}

	rows := make([]domain.AggregateRow, 0, len(buckets))
	for _, b := range buckets {
		row := domain.AggregateRow{
			Key:           b.key,
			Orders:        b.orders,
			Units:         b.units,
			Revenue:       b.revenue,
			AvgOrderValue: b.revenue / float64(b.orders),
		}
		if total != 0 {
			row.Share = b.revenue / total
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Revenue != rows[j].Revenue {
			return rows[i].Revenue > rows[j].Revenue
		}
		return strings.Join(rows[i].Key, "\x1f") < strings.Join(rows[j].Key, "\x1f")
	})

	return domain.AggregateTable{Name: name, Dimensions: dims, Rows: rows}
}

// DateRangeLabel formats the KPI date range for display on the summary and
// dashboard sheets.
func DateRangeLabel(kpis domain.KPISet) string {
	if kpis.Empty {
		return "no data"
	}
	return kpis.DateFrom.Format("2006-01-02") + " to " + kpis.DateTo.Format("2006-01-02")
}
