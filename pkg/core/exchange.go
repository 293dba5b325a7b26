package core

import "fmt"

// Exchange selects the signature scheme and header set used for signed
// calls.
type Exchange int

const (
	// ExchangeBinance signs the canonical query string alone and carries the
	// timestamp as a query parameter.
	ExchangeBinance Exchange = iota
	// ExchangeBybit signs the timestamp, API key and receive window ahead of
	// the query string and carries the timestamp in the header set.
	ExchangeBybit
)

// String returns the exchange identifier.
func (e Exchange) String() string {
	return [...]string{"binance", "bybit"}[e]
}

// MarshalJSON implements json.Marshaler for Exchange.
func (e Exchange) MarshalJSON() ([]byte, error) {
	return []byte(`"` + e.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for Exchange.
func (e *Exchange) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"binance"`, `"BINANCE"`:
		*e = ExchangeBinance
	case `"bybit"`, `"BYBIT"`:
		*e = ExchangeBybit
	}
	return nil
}

// ParseExchange resolves an exchange identifier string.
func ParseExchange(s string) (Exchange, error) {
	switch s {
	case "binance":
		return ExchangeBinance, nil
	case "bybit":
		return ExchangeBybit, nil
	default:
		return 0, fmt.Errorf("unknown exchange: %q", s)
	}
}
