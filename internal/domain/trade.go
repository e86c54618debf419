package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeRecord is one executed vault operation. Records are append-only and
// never mutated; insertion order is chronological because the vault is the
// sole writer.
type TradeRecord struct {
	ID                string          `json:"id,omitempty"`
	Timestamp         time.Time       `json:"timestamp"`
	Action            Action          `json:"action"`
	Price             decimal.Decimal `json:"price"`
	QuoteAmount       decimal.Decimal `json:"quote_amount"`
	RiskAmount        decimal.Decimal `json:"risk_amount"`
	RiskBalanceAfter  decimal.Decimal `json:"risk_balance"`
	QuoteBalanceAfter decimal.Decimal `json:"quote_balance"`
}
