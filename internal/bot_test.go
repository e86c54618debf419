package internal

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vadiminshakov/papervault/internal/domain"
	"github.com/vadiminshakov/papervault/internal/storage/snapshots"
	"github.com/vadiminshakov/papervault/internal/storage/vaultstate"
	"github.com/vadiminshakov/papervault/internal/vault"
)

// mockPricer is a simple mock for the Pricer interface.
type mockPricer struct {
	price decimal.Decimal
}

func (m *mockPricer) GetPrice(ctx context.Context, pair domain.Pair) (decimal.Decimal, error) {
	return m.price, nil
}

func newTestBot(t *testing.T, price decimal.Decimal) (*VaultBot, *vaultstate.Store, *snapshots.WALStore) {
	t.Helper()

	pair := domain.Pair{From: "BTC", To: "USDT"}
	stateStore, err := vaultstate.NewStore(t.TempDir(), pair)
	require.NoError(t, err)
	snapshotStore, err := snapshots.NewWALStore(t.TempDir(), pair)
	require.NoError(t, err)
	t.Cleanup(func() { _ = snapshotStore.Close() })

	bot, err := NewVaultBot(
		vault.New(zap.NewNop(), vault.DefaultConfig()),
		&mockPricer{price: price},
		pair,
		time.Second,
		stateStore,
		snapshotStore,
		zap.NewNop(),
	)
	require.NoError(t, err)
	return bot, stateStore, snapshotStore
}

func TestVaultBot_ExecuteTrade(t *testing.T) {
	bot, stateStore, snapshotStore := newTestBot(t, decimal.NewFromInt(50000))

	ok, err := bot.ExecuteTrade(context.Background(), domain.ActionBuy, decimal.NewFromInt(50))
	require.NoError(t, err)
	require.True(t, ok)

	trades := bot.TradeHistory()
	require.Len(t, trades, 1)
	assert.Equal(t, domain.ActionBuy, trades[0].Action)

	// trade must have been persisted to both stores
	state, err := stateStore.Load()
	require.NoError(t, err)
	require.NotNil(t, state)
	require.Len(t, state.TradeHistory, 1)
	assert.True(t, state.RiskBalance.Equal(decimal.NewFromFloat(0.002)))

	records, err := snapshotStore.SnapshotsAfter(0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Snapshot.Price.Equal(decimal.NewFromInt(50000)))
}

func TestVaultBot_RejectedTradeDoesNotPersist(t *testing.T) {
	bot, stateStore, snapshotStore := newTestBot(t, decimal.NewFromInt(50000))

	ok, err := bot.ExecuteTrade(context.Background(), domain.ActionBuy, decimal.NewFromInt(500))
	require.NoError(t, err)
	assert.False(t, ok)

	state, err := stateStore.Load()
	require.NoError(t, err)
	assert.Nil(t, state)
	assert.Zero(t, snapshotStore.CurrentIndex())
}

func TestVaultBot_Run_PollsPriceFeed(t *testing.T) {
	pair := domain.Pair{From: "BTC", To: "USDT"}
	bot, err := NewVaultBot(
		vault.New(zap.NewNop(), vault.DefaultConfig()),
		&mockPricer{price: decimal.NewFromInt(50000)},
		pair,
		10*time.Millisecond,
		nil,
		nil,
		zap.NewNop(),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err = bot.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	rows := bot.PortfolioHistory()
	assert.NotEmpty(t, rows)
	assert.True(t, rows[0].Price.Equal(decimal.NewFromInt(50000)))
}
