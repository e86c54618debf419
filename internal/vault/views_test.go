package vault

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/papervault/internal/domain"
)

func TestViews_EmptyVault(t *testing.T) {
	v := newTestVault()

	assert.Empty(t, v.TradeHistory())
	assert.Empty(t, v.PortfolioHistory())
}

func TestPortfolioHistory_DerivedColumns(t *testing.T) {
	v := newTestVault()
	v.UpdateMarketPrice(decimal.NewFromInt(50000))

	rows := v.PortfolioHistory()
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, truncateToDay(row.Timestamp), row.Date)
	assert.Equal(t, 0, row.Date.Hour()+row.Date.Minute()+row.Date.Second())

	// 0.001 BTC * 50000 = 50 out of 150 total
	expectedPct := decimal.NewFromInt(50).Div(decimal.NewFromInt(150)).Mul(hundred)
	assert.True(t, row.RiskPct.Equal(expectedPct), "risk pct: %s", row.RiskPct)
	assert.Equal(t, domain.ActionHold, row.Action)
}

func TestPortfolioHistory_ZeroValueRow(t *testing.T) {
	v := New(nil, Config{})
	v.UpdateMarketPrice(decimal.NewFromInt(50000))

	rows := v.PortfolioHistory()
	require.Len(t, rows, 1)
	assert.True(t, rows[0].RiskPct.IsZero(), "risk share of a worthless portfolio is zero, not a division fault")
}

func TestPortfolioHistory_ActionTagging(t *testing.T) {
	v := newTestVault()

	// snapshot before any trade stays HOLD
	v.UpdateMarketPrice(decimal.NewFromInt(50000))
	require.True(t, v.ExecuteTrade(domain.ActionBuy, decimal.NewFromInt(50), decimal.NewFromInt(50000)))
	// plain price update after the trade carries the trade's action forward
	v.UpdateMarketPrice(decimal.NewFromInt(51000))

	rows := v.PortfolioHistory()
	require.Len(t, rows, 3)
	assert.Equal(t, domain.ActionHold, rows[0].Action)
	assert.Equal(t, domain.ActionBuy, rows[1].Action)
	assert.Equal(t, domain.ActionBuy, rows[2].Action)
}

func TestPortfolioHistory_OnlyLatestTradeTags(t *testing.T) {
	v := newTestVault()

	require.True(t, v.ExecuteTrade(domain.ActionBuy, decimal.NewFromInt(50), decimal.NewFromInt(50000)))
	v.UpdateMarketPrice(decimal.NewFromInt(51000))
	require.True(t, v.ExecuteTrade(domain.ActionSell, decimal.NewFromInt(25), decimal.NewFromInt(52000)))
	v.UpdateMarketPrice(decimal.NewFromInt(53000))

	rows := v.PortfolioHistory()
	require.Len(t, rows, 4)

	// rows covered by the superseded BUY fall back to HOLD
	assert.Equal(t, domain.ActionHold, rows[0].Action)
	assert.Equal(t, domain.ActionHold, rows[1].Action)
	assert.Equal(t, domain.ActionSell, rows[2].Action)
	assert.Equal(t, domain.ActionSell, rows[3].Action)
}

func TestPortfolioHistoryAt_EmptyLogStillSnapshots(t *testing.T) {
	v := newTestVault()

	// valuation happens before the view is built, so even a vault with no
	// history gains its first snapshot from this read
	rows := v.PortfolioHistoryAt(decimal.NewFromInt(50000))

	require.Len(t, rows, 1)
	assert.True(t, rows[0].Price.Equal(decimal.NewFromInt(50000)))

	baseline, ok := v.InitialPortfolioValue()
	require.True(t, ok)
	assert.True(t, baseline.Equal(decimal.NewFromInt(150)))
}

func TestPortfolioHistoryAt_AppendsSnapshot(t *testing.T) {
	v := newTestVault()
	v.UpdateMarketPrice(decimal.NewFromInt(50000))

	rows := v.PortfolioHistoryAt(decimal.NewFromInt(60000))

	require.Len(t, rows, 2)
	assert.True(t, rows[1].Price.Equal(decimal.NewFromInt(60000)))

	// the side-effecting read leaves the fresh snapshot in the log
	require.Len(t, v.PortfolioHistory(), 2)
}

func TestTradeHistory_IsACopy(t *testing.T) {
	v := newTestVault()
	require.True(t, v.ExecuteTrade(domain.ActionBuy, decimal.NewFromInt(10), decimal.NewFromInt(50000)))

	rows := v.TradeHistory()
	require.Len(t, rows, 1)
	rows[0].Action = domain.ActionSell
	rows[0].Timestamp = time.Time{}

	assert.Equal(t, domain.ActionBuy, v.TradeHistory()[0].Action)
	assert.False(t, v.TradeHistory()[0].Timestamp.IsZero())
}
