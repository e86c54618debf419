// Package snapshots keeps portfolio snapshots in a WAL so the dashboard can
// replay and stream the equity curve.
package snapshots

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"github.com/vadiminshakov/papervault/internal/domain"
)

const (
	defaultSnapshotDir   = "./data/wal/portfolio"
	snapshotSegmentLimit = 1000
	snapshotMaxSegments  = 100
	snapshotKeyPrefix    = "portfolio_snapshot_"
)

// WALStore persists portfolio snapshots in a WAL.
type WALStore struct {
	wal  *gowal.Wal
	pair string
	mu   sync.RWMutex
}

// NewWALStore initializes a WAL-backed snapshot store under the provided directory.
func NewWALStore(dir string, pair domain.Pair) (*WALStore, error) {
	if dir == "" {
		dir = defaultSnapshotDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "snapshot_",
		SegmentThreshold: snapshotSegmentLimit,
		MaxSegments:      snapshotMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init portfolio snapshot WAL")
	}

	return &WALStore{wal: wal, pair: pair.String()}, nil
}

// Save appends the snapshot to the WAL.
func (s *WALStore) Save(snapshot domain.PortfolioSnapshot) error {
	if s == nil || s.wal == nil {
		return errors.New("portfolio snapshot store is not initialized")
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return errors.Wrap(err, "marshal portfolio snapshot")
	}

	key := fmt.Sprintf("%s%s", snapshotKeyPrefix, s.pair)

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// SnapshotsAfter returns all snapshots written after the provided WAL index.
func (s *WALStore) SnapshotsAfter(index uint64) ([]domain.PortfolioSnapshotRecord, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("portfolio snapshot store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]domain.PortfolioSnapshotRecord, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil {
			return nil, errors.Wrapf(err, "read WAL entry %d", idx)
		}
		if !strings.HasPrefix(key, snapshotKeyPrefix) {
			continue
		}
		var snapshot domain.PortfolioSnapshot
		if err := json.Unmarshal(payload, &snapshot); err != nil {
			return nil, errors.Wrap(err, "decode portfolio snapshot")
		}
		records = append(records, domain.PortfolioSnapshotRecord{
			Index:    idx,
			Snapshot: snapshot,
		})
	}

	return records, nil
}

// CurrentIndex returns the latest WAL index stored.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("portfolio snapshot store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
