package vault

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/papervault/internal/domain"
)

// PortfolioRow is one row of the portfolio history view: the raw snapshot
// plus derived columns for charting.
type PortfolioRow struct {
	domain.PortfolioSnapshot
	// Date is the snapshot timestamp truncated to its calendar day.
	Date time.Time `json:"date"`
	// RiskPct is the share of portfolio value held in the risk asset.
	RiskPct decimal.Decimal `json:"risk_pct"`
	// Action tags rows at or after the most recent trade with that trade's
	// action; every other row is HOLD.
	Action domain.Action `json:"action"`
}

// TradeHistory returns the trade log in insertion order. The slice is a copy;
// an empty log yields an empty slice.
func (v *Vault) TradeHistory() []domain.TradeRecord {
	rows := make([]domain.TradeRecord, len(v.tradeHistory))
	copy(rows, v.tradeHistory)
	return rows
}

// PortfolioHistory builds the portfolio history view from the snapshot log.
// Both logs are chronologically sorted, so the trade-action tagging is a
// single two-pointer merge: for each snapshot row the pointer advances to the
// most recent trade at or before the row's timestamp, and the row is tagged
// only when that trade is the last one in the log.
func (v *Vault) PortfolioHistory() []PortfolioRow {
	rows := make([]PortfolioRow, 0, len(v.portfolioHistory))

	trades := v.tradeHistory
	tradeIdx := -1 // index of the most recent trade at or before the current row

	for _, snap := range v.portfolioHistory {
		for tradeIdx+1 < len(trades) && !trades[tradeIdx+1].Timestamp.After(snap.Timestamp) {
			tradeIdx++
		}

		riskPct := decimal.Zero
		if !snap.PortfolioValue.IsZero() {
			riskPct = snap.RiskBalance.Mul(snap.Price).Div(snap.PortfolioValue).Mul(hundred)
		}

		action := domain.ActionHold
		if tradeIdx >= 0 && tradeIdx == len(trades)-1 {
			action = trades[tradeIdx].Action
		}

		rows = append(rows, PortfolioRow{
			PortfolioSnapshot: snap,
			Date:              truncateToDay(snap.Timestamp),
			RiskPct:           riskPct,
			Action:            action,
		})
	}
	return rows
}

// PortfolioHistoryAt first values the vault at the given price, appending a
// fresh snapshot, and then builds the view. Callers that need a pure read
// should use PortfolioHistory instead.
func (v *Vault) PortfolioHistoryAt(price decimal.Decimal) []PortfolioRow {
	v.UpdateMarketPrice(price)
	return v.PortfolioHistory()
}

func truncateToDay(ts time.Time) time.Time {
	year, month, day := ts.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, ts.Location())
}
