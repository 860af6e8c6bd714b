package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/algonex/internal/core"
	"github.com/newthinker/algonex/internal/datasource"
)

func TestPrintSymbols(t *testing.T) {
	ctx := context.Background()
	db, err := datasource.OpenSQLite(filepath.Join(t.TempDir(), "bars.db"), "")
	require.NoError(t, err)
	defer db.Close()

	var out bytes.Buffer
	require.NoError(t, printSymbols(ctx, &out, db))
	assert.Equal(t, "no symbols stored\n", out.String())

	bar := core.PriceBar{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Open: 1, High: 2, Low: 1, Close: 2}
	for _, sym := range []string{"spy", "AAPL"} {
		_, err := db.Import(ctx, sym, []core.PriceBar{bar})
		require.NoError(t, err)
	}

	out.Reset()
	require.NoError(t, printSymbols(ctx, &out, db))
	assert.Equal(t, "AAPL\nSPY\n", out.String())
}
