package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "ticker,date,open,high,low,close,volume,adjusted_close\n"

func TestParse_ValidRows(t *testing.T) {
	csv := header +
		"aapl,2025-08-20,100,106.5,99.1,105,1234567,104.8\n" +
		"MSFT,2025-08-20,410.25,415,408.5,412.75,987654,412.75\n"

	records, skipped, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, records, 2)

	assert.Equal(t, "AAPL", records[0].Ticker, "ticker is uppercased")
	assert.Equal(t, time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.Equal(t, 100.0, records[0].Open)
	assert.Equal(t, 105.0, records[0].Close)
	assert.Equal(t, int64(1234567), records[0].Volume)
	assert.Equal(t, 104.8, records[0].AdjustedClose)
}

func TestParse_BlankAdjustedCloseDefaultsToClose(t *testing.T) {
	csv := header + "SPY,2025-08-20,550,552,548,551,1000,\n"

	records, _, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 551.0, records[0].AdjustedClose)
}

func TestParse_SkipsMalformedRows(t *testing.T) {
	csv := header +
		"AAPL,2025-08-20,100,106,99,105,1000,104\n" +
		"BAD,not-a-date,100,106,99,105,1000,104\n" +
		"NEG,2025-08-20,100,106,99,105,-5,104\n" +
		",2025-08-20,100,106,99,105,1000,104\n" +
		"SHORT,2025-08-20,100\n" +
		"GOOD,2025-08-21,50,51,49,50.5,2000,50.5\n"

	records, skipped, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Len(t, skipped, 4)
	assert.Equal(t, []int{3, 4, 5, 6}, skipped)
}

func TestParse_RejectsInconsistentOHLC(t *testing.T) {
	// high below close, low above open
	csv := header +
		"X,2025-08-20,100,104,99,105,1000,105\n" +
		"Y,2025-08-20,100,106,101,105,1000,105\n"

	records, skipped, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Len(t, skipped, 2)
}

func TestParse_EmptyFile(t *testing.T) {
	_, _, err := Parse(strings.NewReader(""))
	assert.Error(t, err)
}

func TestParse_HeaderOnly(t *testing.T) {
	records, skipped, err := Parse(strings.NewReader(header))
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, skipped)
}
