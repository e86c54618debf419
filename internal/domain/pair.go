// Package domain defines core data structures shared across the vault.
package domain

import "fmt"

// Pair is a risk/quote asset pair, e.g. BTC_USDT.
type Pair struct {
	// From risk asset symbol.
	From string
	// To quote asset symbol.
	To string
}

// String returns the string representation.
func (p *Pair) String() string {
	return fmt.Sprintf("%s_%s", p.From, p.To)
}

// Symbol returns the concatenated symbol representation.
func (p *Pair) Symbol() string {
	return fmt.Sprintf("%s%s", p.From, p.To)
}
