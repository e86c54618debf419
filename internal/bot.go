package internal

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/papervault/internal/domain"
	"github.com/vadiminshakov/papervault/internal/storage/snapshots"
	"github.com/vadiminshakov/papervault/internal/storage/vaultstate"
	"github.com/vadiminshakov/papervault/internal/vault"
)

// Pricer supplies the market price driving valuation snapshots.
type Pricer interface {
	GetPrice(ctx context.Context, pair domain.Pair) (decimal.Decimal, error)
}

// VaultBot hosts a vault: it polls the price feed, feeds valuations into the
// vault and persists state after every mutation. All vault access goes
// through the bot's mutex because the vault itself assumes a single caller.
type VaultBot struct {
	mu            sync.Mutex
	vault         *vault.Vault
	pricer        Pricer
	pair          domain.Pair
	pollInterval  time.Duration
	stateStore    *vaultstate.Store
	snapshotStore *snapshots.WALStore
	logger        *zap.Logger
}

// NewVaultBot wires a vault to its price feed and stores.
func NewVaultBot(
	v *vault.Vault,
	pricer Pricer,
	pair domain.Pair,
	pollInterval time.Duration,
	stateStore *vaultstate.Store,
	snapshotStore *snapshots.WALStore,
	logger *zap.Logger,
) (*VaultBot, error) {
	if v == nil {
		return nil, errors.New("vault is required")
	}
	if pricer == nil {
		return nil, errors.New("pricer is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VaultBot{
		vault:         v,
		pricer:        pricer,
		pair:          pair,
		pollInterval:  pollInterval,
		stateStore:    stateStore,
		snapshotStore: snapshotStore,
		logger:        logger.With(zap.String("pair", pair.String())),
	}, nil
}

// Run polls the price feed until the context is cancelled, appending a
// valuation snapshot per tick.
func (b *VaultBot) Run(ctx context.Context) error {
	ticker := time.NewTicker(b.pollInterval)
	defer ticker.Stop()

	b.logger.Info("starting vault loop", zap.Duration("poll_interval", b.pollInterval))

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("context done, stopping vault loop")
			return ctx.Err()
		case <-ticker.C:
			price, err := b.pricer.GetPrice(ctx, b.pair)
			if err != nil {
				b.logger.Warn("failed to get price, skipping tick", zap.Error(err))
				continue
			}
			b.updateMarketPrice(price)
		}
	}
}

func (b *VaultBot) updateMarketPrice(price decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.vault.UpdateMarketPrice(price)
	b.persistLocked()
}

// ExecuteTrade fetches the current price and applies the requested operation.
// The boolean mirrors the vault's accept/reject outcome; the error covers the
// price feed only.
func (b *VaultBot) ExecuteTrade(ctx context.Context, action domain.Action, amount decimal.Decimal) (bool, error) {
	price, err := b.pricer.GetPrice(ctx, b.pair)
	if err != nil {
		return false, errors.Wrap(err, "get price for trade")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	ok := b.vault.ExecuteTrade(action, amount, price)
	if ok {
		b.persistLocked()
	}
	return ok, nil
}

// TradeHistory returns the vault's trade log view.
func (b *VaultBot) TradeHistory() []domain.TradeRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.vault.TradeHistory()
}

// PortfolioHistory returns the vault's portfolio view without touching state.
func (b *VaultBot) PortfolioHistory() []vault.PortfolioRow {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.vault.PortfolioHistory()
}

// persistLocked mirrors the latest snapshot into the WAL and saves the state
// file. Persistence failures are logged, not propagated: the in-memory ledger
// stays authoritative.
func (b *VaultBot) persistLocked() {
	if b.snapshotStore != nil {
		if snap, ok := b.vault.LastSnapshot(); ok {
			if err := b.snapshotStore.Save(snap); err != nil {
				b.logger.Warn("failed to append snapshot to WAL", zap.Error(err))
			}
		}
	}
	if b.stateStore != nil {
		if err := b.stateStore.Save(b.vault.State()); err != nil {
			b.logger.Warn("failed to persist vault state", zap.Error(err))
		}
	}
}
