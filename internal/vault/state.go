package vault

import (
	"go.uber.org/zap"

	"github.com/vadiminshakov/papervault/internal/domain"
)

// State exports the full vault as a plain serializable record: both balances,
// both logs and the session baseline.
func (v *Vault) State() domain.VaultState {
	risk := v.riskBalance
	quote := v.quoteBalance

	state := domain.VaultState{
		RiskBalance:      &risk,
		QuoteBalance:     &quote,
		TradeHistory:     append([]domain.TradeRecord(nil), v.tradeHistory...),
		PortfolioHistory: append([]domain.PortfolioSnapshot(nil), v.portfolioHistory...),
	}
	if v.initialPortfolioValue != nil {
		baseline := *v.initialPortfolioValue
		state.InitialPortfolioValue = &baseline
	}
	return state
}

// FromState reconstructs a vault from its serialized form. Missing balances
// fall back to the configured initial balances, missing logs to empty ones.
func FromState(logger *zap.Logger, cfg Config, state domain.VaultState) *Vault {
	v := New(logger, cfg)

	if state.RiskBalance != nil {
		v.riskBalance = *state.RiskBalance
	}
	if state.QuoteBalance != nil {
		v.quoteBalance = *state.QuoteBalance
	}
	v.tradeHistory = append([]domain.TradeRecord(nil), state.TradeHistory...)
	v.portfolioHistory = append([]domain.PortfolioSnapshot(nil), state.PortfolioHistory...)
	if state.InitialPortfolioValue != nil {
		baseline := *state.InitialPortfolioValue
		v.initialPortfolioValue = &baseline
	}
	return v
}
