// Package vault implements a simulated asset ledger for paper trading. It
// tracks a risk-asset balance and a quote-asset balance, records every
// executed operation in an append-only trade log, and appends a valuation
// snapshot on every market price update.
package vault

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/papervault/internal/domain"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Config holds the balance policy knobs. Initial balances seed a fresh vault;
// reset targets are the balances a RESET operation rebalances to.
type Config struct {
	InitialRisk  decimal.Decimal
	InitialQuote decimal.Decimal
	ResetRisk    decimal.Decimal
	ResetQuote   decimal.Decimal
}

// DefaultConfig returns the stock balance policy.
func DefaultConfig() Config {
	return Config{
		InitialRisk:  decimal.NewFromFloat(0.001),
		InitialQuote: decimal.NewFromInt(100),
		ResetRisk:    decimal.NewFromFloat(0.0032),
		ResetQuote:   decimal.NewFromInt(150),
	}
}

// Vault is the simulated ledger. It is not safe for concurrent use; a host
// driving it from multiple goroutines must serialize access around every
// call, since the balance check-then-mutate sequence is not atomic.
type Vault struct {
	logger                *zap.Logger
	cfg                   Config
	riskBalance           decimal.Decimal
	quoteBalance          decimal.Decimal
	tradeHistory          []domain.TradeRecord
	portfolioHistory      []domain.PortfolioSnapshot
	initialPortfolioValue *decimal.Decimal
}

// New creates a vault seeded with the configured initial balances.
func New(logger *zap.Logger, cfg Config) *Vault {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Vault{
		logger:       logger,
		cfg:          cfg,
		riskBalance:  cfg.InitialRisk,
		quoteBalance: cfg.InitialQuote,
	}
}

// ExecuteTrade applies a BUY, SELL or RESET operation at the given price.
// For BUY and SELL the amount is the quote-currency notional to spend or
// receive. A rejected trade returns false and leaves the vault untouched;
// every accepted trade appends a TradeRecord and then a valuation snapshot
// at the same price.
func (v *Vault) ExecuteTrade(action domain.Action, amount, price decimal.Decimal) bool {
	switch action {
	case domain.ActionBuy:
		if !price.IsPositive() {
			v.logger.Warn("rejecting buy at non-positive price", zap.String("price", price.String()))
			return false
		}
		riskAmount := amount.Div(price)
		if amount.GreaterThan(v.quoteBalance) {
			v.logger.Warn("not enough quote balance for buy",
				zap.String("amount", amount.String()),
				zap.String("quote_balance", v.quoteBalance.String()))
			return false
		}
		v.quoteBalance = v.quoteBalance.Sub(amount)
		v.riskBalance = v.riskBalance.Add(riskAmount)
		v.appendTrade(domain.ActionBuy, price, amount, riskAmount)

	case domain.ActionSell:
		if !price.IsPositive() {
			v.logger.Warn("rejecting sell at non-positive price", zap.String("price", price.String()))
			return false
		}
		riskAmount := amount.Div(price)
		if riskAmount.GreaterThan(v.riskBalance) {
			v.logger.Warn("not enough risk balance for sell",
				zap.String("risk_amount", riskAmount.String()),
				zap.String("risk_balance", v.riskBalance.String()))
			return false
		}
		v.riskBalance = v.riskBalance.Sub(riskAmount)
		v.quoteBalance = v.quoteBalance.Add(amount)
		v.appendTrade(domain.ActionSell, price, amount, riskAmount)

	case domain.ActionReset:
		oldRisk := v.riskBalance
		oldQuote := v.quoteBalance
		v.riskBalance = v.cfg.ResetRisk
		v.quoteBalance = v.cfg.ResetQuote
		// the record holds the absolute deltas, not the new balances
		v.appendTrade(domain.ActionReset, price,
			v.quoteBalance.Sub(oldQuote).Abs(),
			v.riskBalance.Sub(oldRisk).Abs())

	default:
		v.logger.Warn("unknown trade action", zap.String("action", action.String()))
		return false
	}

	v.UpdateMarketPrice(price)
	return true
}

func (v *Vault) appendTrade(action domain.Action, price, quoteAmount, riskAmount decimal.Decimal) {
	record := domain.TradeRecord{
		ID:                uuid.New().String(),
		Timestamp:         time.Now(),
		Action:            action,
		Price:             price,
		QuoteAmount:       quoteAmount,
		RiskAmount:        riskAmount,
		RiskBalanceAfter:  v.riskBalance,
		QuoteBalanceAfter: v.quoteBalance,
	}
	v.tradeHistory = append(v.tradeHistory, record)
	v.logger.Info("trade executed",
		zap.String("action", action.String()),
		zap.String("price", price.String()),
		zap.String("quote_amount", quoteAmount.String()),
		zap.String("risk_amount", riskAmount.String()),
		zap.String("risk_balance", v.riskBalance.String()),
		zap.String("quote_balance", v.quoteBalance.String()))
}

// UpdateMarketPrice values the vault at the given price and appends a
// PortfolioSnapshot. The very first call fixes the baseline used for the
// total return; the baseline never changes afterwards, RESET included.
func (v *Vault) UpdateMarketPrice(price decimal.Decimal) {
	value := v.TotalValue(price)

	if v.initialPortfolioValue == nil {
		baseline := value
		v.initialPortfolioValue = &baseline
	}

	totalReturn := decimal.Zero
	if !v.initialPortfolioValue.IsZero() {
		totalReturn = value.Div(*v.initialPortfolioValue).Sub(one).Mul(hundred)
	}

	dailyReturn := decimal.Zero
	if n := len(v.portfolioHistory); n > 0 {
		prev := v.portfolioHistory[n-1].PortfolioValue
		if !prev.IsZero() {
			dailyReturn = value.Div(prev).Sub(one).Mul(hundred)
		}
	}

	v.portfolioHistory = append(v.portfolioHistory, domain.PortfolioSnapshot{
		Timestamp:      time.Now(),
		Price:          price,
		RiskBalance:    v.riskBalance,
		QuoteBalance:   v.quoteBalance,
		PortfolioValue: value,
		TotalReturnPct: totalReturn,
		DailyReturnPct: dailyReturn,
	})
}

// TotalValue returns the portfolio value in quote terms at the given price.
// Pure function of state and input, no side effects.
func (v *Vault) TotalValue(price decimal.Decimal) decimal.Decimal {
	return v.quoteBalance.Add(v.riskBalance.Mul(price))
}

// Restore overwrites both balances without logging a trade or taking a
// snapshot. Administrative state restoration only, not a trading operation.
func (v *Vault) Restore(riskBalance, quoteBalance decimal.Decimal) {
	v.riskBalance = riskBalance
	v.quoteBalance = quoteBalance
}

// RiskBalance returns the current risk-asset balance.
func (v *Vault) RiskBalance() decimal.Decimal { return v.riskBalance }

// QuoteBalance returns the current quote-asset balance.
func (v *Vault) QuoteBalance() decimal.Decimal { return v.quoteBalance }

// InitialPortfolioValue returns the session baseline and whether it has been
// fixed yet.
func (v *Vault) InitialPortfolioValue() (decimal.Decimal, bool) {
	if v.initialPortfolioValue == nil {
		return decimal.Zero, false
	}
	return *v.initialPortfolioValue, true
}

// LastSnapshot returns the most recent portfolio snapshot, if any.
func (v *Vault) LastSnapshot() (domain.PortfolioSnapshot, bool) {
	if len(v.portfolioHistory) == 0 {
		return domain.PortfolioSnapshot{}, false
	}
	return v.portfolioHistory[len(v.portfolioHistory)-1], true
}
