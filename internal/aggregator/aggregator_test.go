package aggregator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/pkg/contracts/domain"
)

func day(d int) time.Time {
	return time.Date(2022, 4, d, 0, 0, 0, 0, time.UTC)
}

func sampleTxs() []domain.CleanTransaction {
	return []domain.CleanTransaction{
		{OrderID: "1", Date: day(1), Status: "Shipped", Fulfilment: "Amazon", Category: "Electronics", Size: "M", Qty: 2, Amount: 100, ShipCity: "MUMBAI", ShipState: "MAHARASHTRA"},
		{OrderID: "2", Date: day(2), Status: "Shipped - Delivered to Buyer", Fulfilment: "Merchant", Category: "Electronics", Size: "S", Qty: 1, Amount: 50, ShipCity: "PUNE", ShipState: "MAHARASHTRA"},
		{OrderID: "3", Date: day(1), Status: "Cancelled", Fulfilment: "Amazon", Category: "Clothing", Size: "M", Qty: 1, Amount: 75, ShipCity: "BENGALURU", ShipState: "KARNATAKA", B2B: true},
	}
}

func TestByCategory(t *testing.T) {
	table := ByCategory(sampleTxs())

	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"Category"}, table.Dimensions)

	// Revenue-descending order.
	electronics := table.Rows[0]
	assert.Equal(t, []string{"Electronics"}, electronics.Key)
	assert.Equal(t, int64(2), electronics.Orders)
	assert.Equal(t, int64(3), electronics.Units)
	assert.Equal(t, 150.0, electronics.Revenue)
	assert.Equal(t, 75.0, electronics.AvgOrderValue)
	assert.InDelta(t, 150.0/225.0, electronics.Share, 1e-9)

	clothing := table.Rows[1]
	assert.Equal(t, []string{"Clothing"}, clothing.Key)
	assert.Equal(t, 75.0, clothing.Revenue)
	assert.InDelta(t, 75.0/225.0, clothing.Share, 1e-9)
}

func TestByCategory_TieBreaksLexically(t *testing.T) {
	txs := []domain.CleanTransaction{
		{Category: "Watch", Amount: 50},
		{Category: "Belt", Amount: 50},
	}

	table := ByCategory(txs)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Belt", table.Rows[0].Key[0])
	assert.Equal(t, "Watch", table.Rows[1].Key[0])
}

func TestByGeography(t *testing.T) {
	table := ByGeography(sampleTxs())

	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"State", "City"}, table.Dimensions)
	assert.Equal(t, []string{"MAHARASHTRA", "MUMBAI"}, table.Rows[0].Key)
}

func TestBySegment(t *testing.T) {
	table := BySegment(sampleTxs())

	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"B2C"}, table.Rows[0].Key)
	assert.Equal(t, int64(2), table.Rows[0].Orders)
	assert.Equal(t, []string{"B2B"}, table.Rows[1].Key)
	assert.Equal(t, int64(1), table.Rows[1].Orders)
}

func TestDailyTrend_ChronologicalOrder(t *testing.T) {
	table := DailyTrend(sampleTxs())

	require.Len(t, table.Rows, 2)
	// Ascending by date even though day 2 has less revenue.
	assert.Equal(t, "2022-04-01", table.Rows[0].Key[0])
	assert.Equal(t, 175.0, table.Rows[0].Revenue)
	assert.Equal(t, "2022-04-02", table.Rows[1].Key[0])
	assert.Equal(t, 50.0, table.Rows[1].Revenue)
}

func TestKPIs(t *testing.T) {
	kpis := KPIs(sampleTxs())

	assert.False(t, kpis.Empty)
	assert.Equal(t, int64(3), kpis.TotalOrders)
	assert.Equal(t, int64(4), kpis.TotalUnits)
	assert.Equal(t, 225.0, kpis.TotalRevenue)
	assert.Equal(t, 75.0, kpis.AvgOrderValue)
	assert.Equal(t, day(1), kpis.DateFrom)
	assert.Equal(t, day(2), kpis.DateTo)
	assert.Equal(t, 2, kpis.DistinctCategories)
	assert.Equal(t, 2, kpis.DistinctStates)
	assert.InDelta(t, 1.0/3.0, kpis.CancellationRate, 1e-9)
	assert.InDelta(t, 2.0/3.0, kpis.DeliveryRate, 1e-9)
}

func TestKPIs_Empty(t *testing.T) {
	kpis := KPIs(nil)

	assert.True(t, kpis.Empty)
	assert.Zero(t, kpis.TotalOrders)
	assert.Zero(t, kpis.TotalRevenue)
}

func TestComputeHighlights(t *testing.T) {
	h := ComputeHighlights(sampleTxs())

	assert.Equal(t, "Electronics", h.BestCategory)
	assert.Equal(t, int64(3), h.BestCategoryUnits)
	assert.Equal(t, "MAHARASHTRA", h.TopState)
	assert.Equal(t, 150.0, h.TopStateRevenue)
	assert.Equal(t, "M", h.TopSize)
	assert.Equal(t, int64(3), h.TopSizeUnits)
	assert.InDelta(t, 2.0/3.0, h.AmazonShare, 1e-9)
}

func TestComputeHighlights_Empty(t *testing.T) {
	assert.Equal(t, Highlights{}, ComputeHighlights(nil))
}

func TestAggregate_RevenueReconciles(t *testing.T) {
	tables := New(nil).Aggregate(context.Background(), sampleTxs())

	total := tables.KPIs.TotalRevenue
	for name, table := range map[string]domain.AggregateTable{
		"category":   tables.Category,
		"geography":  tables.Geography,
		"status":     tables.Status,
		"size":       tables.Size,
		"trend":      tables.Trend,
		"fulfilment": tables.Fulfilment,
		"segment":    tables.Segment,
	} {
		assert.InDelta(t, total, table.TotalRevenue(), 1e-9, "table %s", name)
	}
}

func TestAggregate_DeterministicUnderPermutation(t *testing.T) {
	txs := sampleTxs()
	reversed := make([]domain.CleanTransaction, len(txs))
	for i, tx := range txs {
		reversed[len(txs)-1-i] = tx
	}

	a := New(nil)
	forward := a.Aggregate(context.Background(), txs)
	backward := a.Aggregate(context.Background(), reversed)

	assert.Equal(t, forward.Category, backward.Category)
	assert.Equal(t, forward.Geography, backward.Geography)
	assert.Equal(t, forward.Trend, backward.Trend)
	assert.Equal(t, forward.KPIs, backward.KPIs)
	assert.Equal(t, forward.Highlights, backward.Highlights)
}

func TestDateRangeLabel(t *testing.T) {
	assert.Equal(t, "no data", DateRangeLabel(domain.KPISet{Empty: true}))
	assert.Equal(t, "2022-04-01 to 2022-04-02", DateRangeLabel(domain.KPISet{
		DateFrom: day(1),
		DateTo:   day(2),
	}))
}
