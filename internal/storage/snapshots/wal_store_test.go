package snapshots

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/papervault/internal/domain"
)

func newTestStore(t *testing.T) *WALStore {
	t.Helper()
	store, err := NewWALStore(t.TempDir(), domain.Pair{From: "BTC", To: "USDT"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestWALStore_SaveAndReplay(t *testing.T) {
	store := newTestStore(t)

	first := domain.PortfolioSnapshot{
		Timestamp:      time.Now().UTC(),
		Price:          decimal.NewFromInt(50000),
		RiskBalance:    decimal.NewFromFloat(0.001),
		QuoteBalance:   decimal.NewFromInt(100),
		PortfolioValue: decimal.NewFromInt(150),
	}
	second := first
	second.Price = decimal.NewFromInt(60000)
	second.PortfolioValue = decimal.NewFromInt(160)

	require.NoError(t, store.Save(first))
	require.NoError(t, store.Save(second))

	records, err := store.SnapshotsAfter(0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].Snapshot.Price.Equal(first.Price))
	assert.True(t, records[1].Snapshot.PortfolioValue.Equal(second.PortfolioValue))
	assert.Less(t, records[0].Index, records[1].Index)
}

func TestWALStore_ReplayAfterReopen(t *testing.T) {
	dir := t.TempDir()
	pair := domain.Pair{From: "BTC", To: "USDT"}

	store, err := NewWALStore(dir, pair)
	require.NoError(t, err)
	require.NoError(t, store.Save(domain.PortfolioSnapshot{
		Timestamp:      time.Now().UTC(),
		Price:          decimal.NewFromInt(50000),
		PortfolioValue: decimal.NewFromInt(150),
	}))
	require.NoError(t, store.Close())

	reopened, err := NewWALStore(dir, pair)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	records, err := reopened.SnapshotsAfter(0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Snapshot.Price.Equal(decimal.NewFromInt(50000)))
	assert.True(t, records[0].Snapshot.PortfolioValue.Equal(decimal.NewFromInt(150)))
}

func TestWALStore_SnapshotsAfterTail(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(domain.PortfolioSnapshot{Timestamp: time.Now().UTC()}))
	current := store.CurrentIndex()

	records, err := store.SnapshotsAfter(current)
	require.NoError(t, err)
	assert.Empty(t, records)
}
