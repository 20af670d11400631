package exchange

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/tezgains/src/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func trade(in, out string) models.Row {
	return models.Row{
		Type:  models.TypeTrade,
		InAmt: dec("1"), InToken: in,
		OutAmt: dec("1"), OutToken: out,
	}
}

func TestFilterRowsKeepsBasePairsOnly(t *testing.T) {
	rows := []models.Row{
		trade(models.XTZ, "BTC"),
		trade("BTC", models.XTZ),
		trade("ETH", "DOGE"),
		{Type: models.TypeReceive, InAmt: dec("2"), InToken: "BTC"},
		{Type: models.TypeReceive, InAmt: dec("2"), InToken: "DOGE"},
		{Type: models.TypeTransfer, OutAmt: dec("3"), OutToken: models.XTZ},
	}

	kept := FilterRows(rows, models.XTZ)
	require.Len(t, kept, 4)
	assert.Equal(t, "BTC", kept[0].OutToken)
	assert.Equal(t, "BTC", kept[1].InToken)
	// BTC traded against the base, so its receipts stay
	assert.Equal(t, "BTC", kept[2].InToken)
	assert.Equal(t, models.XTZ, kept[3].OutToken)
}

func TestReadFileMissingIsEmpty(t *testing.T) {
	rows, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
