package exchange

import "fmt"

// Interval is a kline/candlestick period.
type Interval int

const (
	OneMinute Interval = iota
	FiveMinutes
	FifteenMinutes
	OneHour
	FourHours
	OneDay
	OneWeek
)

// String returns the shared interval notation used by the binance API.
func (i Interval) String() string {
	return [...]string{"1m", "5m", "15m", "1h", "4h", "1d", "1w"}[i]
}

// Bybit returns the venue-specific interval code: bare minute counts for
// intraday periods and letter codes for day and week.
func (i Interval) Bybit() string {
	return [...]string{"1", "5", "15", "60", "240", "D", "W"}[i]
}

// MarshalJSON implements json.Marshaler for Interval.
func (i Interval) MarshalJSON() ([]byte, error) {
	return []byte(`"` + i.String() + `"`), nil
}

// ParseInterval resolves the shared interval notation.
func ParseInterval(s string) (Interval, error) {
	for i := OneMinute; i <= OneWeek; i++ {
		if i.String() == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown interval: %q", s)
}
