package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "salesdash/internal/errors"
)

const validHeader = "Order ID,Date,Status,Fulfilment,Category,Size,Courier Status,Qty,currency,Amount,ship-city,ship-state,B2B"

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingFile(t *testing.T) {
	l := New(nil)

	_, err := l.Load(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeSourceNotFound, apperrors.TypeOf(err))
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeCSV(t, "")

	_, err := New(nil).Load(context.Background(), path)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeMalformedSource, apperrors.TypeOf(err))
}

func TestLoad_MissingColumns(t *testing.T) {
	path := writeCSV(t, "Order ID,Date,Status\n1,04-30-22,Shipped\n")

	_, err := New(nil).Load(context.Background(), path)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeMalformedSource, apperrors.TypeOf(err))
	// Missing columns are reported sorted so the message is stable.
	assert.Contains(t, err.Error(), "Amount, B2B, Category")
}

func TestLoad_ValidFile(t *testing.T) {
	path := writeCSV(t, validHeader+"\n"+
		"405-1,04-30-22,Shipped,Merchant,Set,S,Shipped,1,INR,647.62,MUMBAI,MAHARASHTRA,FALSE\n"+
		"405-2,04-30-22,Cancelled,Amazon,Kurta,M,,0,INR,406.00,BENGALURU,KARNATAKA,TRUE\n")

	raws, err := New(nil).Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, raws, 2)

	first := raws[0]
	assert.Equal(t, "405-1", first.OrderID)
	assert.Equal(t, "04-30-22", first.Date)
	assert.Equal(t, "Shipped", first.Status)
	assert.Equal(t, "Merchant", first.Fulfilment)
	assert.Equal(t, "Set", first.Category)
	assert.Equal(t, "647.62", first.Amount)
	assert.Equal(t, "MAHARASHTRA", first.ShipState)
	assert.Equal(t, 2, first.Row)

	assert.Equal(t, "TRUE", raws[1].B2B)
	assert.Equal(t, 3, raws[1].Row)
}

func TestLoad_CaseInsensitiveHeader(t *testing.T) {
	path := writeCSV(t, "order id,DATE,status,FULFILMENT,category,SIZE,courier status,qty,Currency,amount,SHIP-CITY,Ship-State,b2b\n"+
		"405-1,04-30-22,Shipped,Merchant,Set,S,Shipped,1,INR,647.62,MUMBAI,MAHARASHTRA,FALSE\n")

	raws, err := New(nil).Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.Equal(t, "647.62", raws[0].Amount)
}

func TestLoad_ExtraColumnsIgnored(t *testing.T) {
	path := writeCSV(t, "index,"+validHeader+",promotion-ids\n"+
		"0,405-1,04-30-22,Shipped,Merchant,Set,S,Shipped,1,INR,647.62,MUMBAI,MAHARASHTRA,FALSE,PROMO\n")

	raws, err := New(nil).Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.Equal(t, "405-1", raws[0].OrderID)
	assert.Equal(t, "MAHARASHTRA", raws[0].ShipState)
}

func TestLoad_SkipsEmptyAndShortRows(t *testing.T) {
	path := writeCSV(t, validHeader+"\n"+
		",,,,,,,,,,,,\n"+
		"405-1,04-30-22,Shipped,Merchant,Set,S\n"+
		"405-2,04-30-22,Shipped,Amazon,Kurta,M,Shipped,1,INR,399.00,PUNE,MAHARASHTRA,FALSE\n")

	raws, err := New(nil).Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, raws, 2)

	// Short rows are padded with empty trailing fields, not rejected.
	assert.Equal(t, "405-1", raws[0].OrderID)
	assert.Equal(t, "", raws[0].Amount)
	assert.Equal(t, "405-2", raws[1].OrderID)
}

func TestLoad_DecodesLatin1(t *testing.T) {
	row := []byte("405-1,04-30-22,Shipped,Merchant,Set,S,Shipped,1,INR,647.62,S\xE3o Paulo,MAHARASHTRA,FALSE\n")
	content := append([]byte(validHeader+"\n"), row...)

	path := filepath.Join(t.TempDir(), "latin1.csv")
	require.NoError(t, os.WriteFile(path, content, 0644))

	raws, err := New(nil).Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.Equal(t, "São Paulo", raws[0].ShipCity)
}
