package domain

import (
	"time"
)

// AggregateRow is one dimension group inside an AggregateTable. Key holds
// one value per dimension column, in the same order as the table's
// Dimensions slice.
type AggregateRow struct {
	Key           []string `json:"key"`
	Orders        int64    `json:"orders"`
	Units         int64    `json:"units"`
	Revenue       float64  `json:"revenue"`
	AvgOrderValue float64  `json:"avg_order_value"`
	Share         float64  `json:"share"` // fraction of total revenue, 0..1
}

// AggregateTable is a named derived table backing one report sheet.
// Row order is part of the contract: breakdown tables are sorted by
// descending revenue with lexical key tie-breaks, the daily trend table by
// ascending date, so output is deterministic regardless of input order.
type AggregateTable struct {
	Name       string         `json:"name"`
	Dimensions []string       `json:"dimensions"`
	Rows       []AggregateRow `json:"rows"`
}

// TotalRevenue sums the revenue column across all rows.
func (t AggregateTable) TotalRevenue() float64 {
	var sum float64
	for _, r := range t.Rows {
		sum += r.Revenue
	}
	return sum
}

// TotalOrders sums the order count across all rows.
func (t AggregateTable) TotalOrders() int64 {
	var sum int64
	for _, r := range t.Rows {
		sum += r.Orders
	}
	return sum
}

// KPISet holds the whole-dataset scalar metrics shown on the dashboard
// cards and the summary sheet. Every value is a direct reduction over the
// clean transaction set; nothing here is derived from the tables.
type KPISet struct {
	TotalOrders        int64     `json:"total_orders"`
	TotalUnits         int64     `json:"total_units"`
	TotalRevenue       float64   `json:"total_revenue"`
	AvgOrderValue      float64   `json:"avg_order_value"`
	DateFrom           time.Time `json:"date_from"`
	DateTo             time.Time `json:"date_to"`
	DistinctCategories int       `json:"distinct_categories"`
	DistinctStates     int       `json:"distinct_states"`
	CancellationRate   float64   `json:"cancellation_rate"` // fraction, 0..1
	DeliveryRate       float64   `json:"delivery_rate"`     // fraction, 0..1

	// Empty marks a run over a header-only source. The report writer
	// renders zero cards and empty sheets instead of failing.
	Empty bool `json:"empty"`
}
