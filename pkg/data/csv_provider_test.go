package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trades.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestLoadTrades_ParsesRows verifies column mapping and numeric parsing.
func TestLoadTrades_ParsesRows(t *testing.T) {
	path := writeTempCSV(t, `trade_id,strategy,opened,pl,margin_req,premium,max_profit_pct,max_loss_pct
T1,strangle,2024-03-05,120.50,2000,310,45.2,-8.1
T2,condor,2024-03-12,-90,1500,220,12,-22.4
`)

	trades, err := NewCSVProvider().LoadTrades(path)

	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, "T1", trades[0].ID)
	assert.Equal(t, "strangle", trades[0].Strategy)
	assert.InDelta(t, 120.50, trades[0].PL, 1e-9)
	assert.InDelta(t, 45.2, trades[0].MaxProfitPct, 1e-9)
	assert.InDelta(t, -22.4, trades[1].MaxLossPct, 1e-9)
	assert.Equal(t, 2024, trades[0].Opened.Year())
}

// TestLoadTrades_SkipsMalformedRows verifies bad rows are dropped, not
// fatal.
func TestLoadTrades_SkipsMalformedRows(t *testing.T) {
	path := writeTempCSV(t, `trade_id,strategy,opened,pl,margin_req,premium,max_profit_pct,max_loss_pct
T1,strangle,2024-03-05,120.50,2000,310,45.2,-8.1
T2,condor,2024-03-12,not-a-number,1500,220,12,-22.4
T3,put,2024-03-19,80,3000,500,30,-5
`)

	trades, err := NewCSVProvider().LoadTrades(path)

	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, "T1", trades[0].ID)
	assert.Equal(t, "T3", trades[1].ID)
}

// TestLoadTrades_MissingRequiredColumn verifies a header without the
// excursion columns is an error.
func TestLoadTrades_MissingRequiredColumn(t *testing.T) {
	path := writeTempCSV(t, `trade_id,strategy,pl
T1,strangle,120.50
`)

	_, err := NewCSVProvider().LoadTrades(path)

	assert.Error(t, err)
}

// TestLoadTrades_PermissiveNumericForms verifies currency and percent
// decorations are stripped before parsing.
func TestLoadTrades_PermissiveNumericForms(t *testing.T) {
	path := writeTempCSV(t, `trade_id,strategy,opened,pl,margin_req,premium,max_profit_pct,max_loss_pct
T1,strangle,2024-03-05,"$1,250.00",2000,310,45.2%,-8.1
`)

	trades, err := NewCSVProvider().LoadTrades(path)

	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.InDelta(t, 1250.0, trades[0].PL, 1e-9)
	assert.InDelta(t, 45.2, trades[0].MaxProfitPct, 1e-9)
}

// TestLoadTrades_OptionalBases verifies absent margin/premium parse as
// zero and are carried through.
func TestLoadTrades_OptionalBases(t *testing.T) {
	path := writeTempCSV(t, `trade_id,strategy,opened,pl,margin_req,premium,max_profit_pct,max_loss_pct
T1,strangle,2024-03-05,50,,,20,-4
`)

	trades, err := NewCSVProvider().LoadTrades(path)

	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, 0.0, trades[0].MarginReq)
	assert.Equal(t, 0.0, trades[0].Premium)
}
