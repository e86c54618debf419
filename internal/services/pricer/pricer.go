// Package pricer supplies market prices from exchange public APIs.
package pricer

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/papervault/internal/domain"
)

// Pricer defines an interface for getting the price of a trading pair.
type Pricer interface {
	GetPrice(ctx context.Context, pair domain.Pair) (decimal.Decimal, error)
}
