// Package vaultstate persists the serialized vault so restarts keep balances
// and both history logs.
package vaultstate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/vadiminshakov/papervault/internal/domain"
)

const defaultStateDir = "./data/vault"

// Store writes the vault state to a single JSON file per pair.
type Store struct {
	path string
}

func getStateDir(dir string) string {
	if dir != "" {
		return dir
	}
	if stateDir := os.Getenv("PAPERVAULT_STATE_DIR"); stateDir != "" {
		return stateDir
	}
	return defaultStateDir
}

// NewStore creates a vault state store for the given pair under dir. An empty
// dir falls back to the PAPERVAULT_STATE_DIR env var, then to ./data/vault.
func NewStore(dir string, pair domain.Pair) (*Store, error) {
	stateDir := getStateDir(dir)
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create vault state dir")
	}

	fileName := fmt.Sprintf("%s.json", strings.ToLower(pair.String()))
	return &Store{path: filepath.Join(stateDir, fileName)}, nil
}

// Load reads the vault state from disk. A missing or empty file yields nil
// state and no error.
func (s *Store) Load() (*domain.VaultState, error) {
	if s == nil || s.path == "" {
		return nil, nil
	}

	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "read vault state")
	}

	if len(payload) == 0 {
		return nil, nil
	}

	var state domain.VaultState
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, errors.Wrap(err, "decode vault state")
	}

	return &state, nil
}

// Save writes the vault state to disk atomically via temp file.
func (s *Store) Save(state domain.VaultState) error {
	if s == nil || s.path == "" {
		return nil
	}

	payload, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode vault state")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return errors.Wrap(err, "write vault state temp file")
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "persist vault state")
	}

	return nil
}
