package pricing

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fuelCSV = `OPIS Truckstop ID,Truckstop Name,Address,City,State,Rack ID,Retail Price
7,WOODSHED OF BIG CABIN,"I-44, EXIT 283 & US-69",Big Cabin,OK,307,3.00733333
8,KWIK TRIP #796,I-94 & County Rd B,Tomah,WI,420,
9,PILOT #1234,I-40 EXIT 10,Springfield,MO,1,not-a-price
10,SHELL TRUCKSTOP,I-44 EXIT 80,Springfield,MO,1,3.20
`

func TestParsePricesSkipsRowsWithoutPrice(t *testing.T) {
	entries, skipped, err := ParsePrices(strings.NewReader(fuelCSV))
	require.NoError(t, err)

	assert.Equal(t, 2, skipped)
	require.Len(t, entries, 2)

	assert.Equal(t, "WOODSHED OF BIG CABIN", entries[0].StopName)
	assert.Equal(t, "Big Cabin", entries[0].Locality)
	assert.InDelta(t, 3.00733333, entries[0].PricePerUnit, 1e-9)

	assert.Equal(t, "SHELL TRUCKSTOP", entries[1].StopName)
	assert.InDelta(t, 3.20, entries[1].PricePerUnit, 1e-9)
}

func TestParsePricesAcceptsShortHeaders(t *testing.T) {
	data := "\ufefflocality,name,price\nSpringfield,Loves,$3.15\n"

	entries, skipped, err := ParsePrices(strings.NewReader(data))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, entries, 1)
	assert.InDelta(t, 3.15, entries[0].PricePerUnit, 1e-9)
}

func TestParsePricesRejectsMissingColumns(t *testing.T) {
	_, _, err := ParsePrices(strings.NewReader("name,state\nLoves,MO\n"))
	assert.Error(t, err)
}

func TestCSVSourceLoadPrices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fuel.csv")
	require.NoError(t, os.WriteFile(path, []byte(fuelCSV), 0o644))

	entries, err := NewCSVSource(path).LoadPrices(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	_, err = NewCSVSource(filepath.Join(t.TempDir(), "missing.csv")).LoadPrices(context.Background())
	assert.Error(t, err)
}
