package domain

import "fmt"

// Action represents the type of vault operation recorded in the trade log.
type Action int

const (
	ActionBuy Action = iota
	ActionSell
	ActionReset
	// ActionHold is never executed; it is the default tag in the portfolio view
	// for rows with no associated trade.
	ActionHold
)

// action string constants to avoid magic strings
const (
	actionStringBuy   = "BUY"
	actionStringSell  = "SELL"
	actionStringReset = "RESET"
	actionStringHold  = "HOLD"
)

// String returns the string representation of the action
func (a Action) String() string {
	switch a {
	case ActionBuy:
		return actionStringBuy
	case ActionSell:
		return actionStringSell
	case ActionReset:
		return actionStringReset
	case ActionHold:
		return actionStringHold
	default:
		return "unknown"
	}
}

// ParseAction converts a string into an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case actionStringBuy:
		return ActionBuy, nil
	case actionStringSell:
		return ActionSell, nil
	case actionStringReset:
		return ActionReset, nil
	case actionStringHold:
		return ActionHold, nil
	default:
		return 0, fmt.Errorf("unknown action: %s", s)
	}
}

// MarshalText implements encoding.TextMarshaler so actions serialize as their
// string form in JSON.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
