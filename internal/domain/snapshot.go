package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioSnapshot is one timestamped valuation of the vault. A snapshot is
// appended on every market price update, whether or not a trade occurred.
type PortfolioSnapshot struct {
	Timestamp      time.Time       `json:"timestamp"`
	Price          decimal.Decimal `json:"price"`
	RiskBalance    decimal.Decimal `json:"risk_balance"`
	QuoteBalance   decimal.Decimal `json:"quote_balance"`
	PortfolioValue decimal.Decimal `json:"portfolio_value"`
	// TotalReturnPct is the percent change versus the first snapshot ever taken.
	TotalReturnPct decimal.Decimal `json:"total_return"`
	// DailyReturnPct is the percent change versus the immediately preceding snapshot.
	DailyReturnPct decimal.Decimal `json:"daily_return"`
}

// PortfolioSnapshotRecord bundles a snapshot with its WAL index.
type PortfolioSnapshotRecord struct {
	Index    uint64
	Snapshot PortfolioSnapshot
}

// VaultState is the plain serializable form of the whole vault. Balance and
// baseline fields are pointers so a missing key is distinguishable from an
// explicit zero when restoring.
type VaultState struct {
	RiskBalance           *decimal.Decimal    `json:"risk_balance,omitempty"`
	QuoteBalance          *decimal.Decimal    `json:"quote_balance,omitempty"`
	TradeHistory          []TradeRecord       `json:"trade_history"`
	PortfolioHistory      []PortfolioSnapshot `json:"portfolio_history"`
	InitialPortfolioValue *decimal.Decimal    `json:"initial_portfolio_value,omitempty"`
}
