// Package market defines the daily price data model shared by the store,
// the date resolver and the indicator calculators.
package market

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical calendar-date format used everywhere:
// cache files, CLI arguments and report headers.
const DateLayout = "2006-01-02"

// PricePrecision is the number of fractional digits prices are stored at.
const PricePrecision = 6

// Bar is one trading day's OHLCV record. Date carries no time-of-day
// component and is always UTC.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Day strips the time-of-day and timezone from t, leaving a UTC calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RoundPrice rounds a price to PricePrecision fractional digits.
func RoundPrice(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(PricePrecision).Float64()
	return f
}

// Normalize rounds the bar's prices to PricePrecision digits and strips any
// intraday component from its date.
func (b Bar) Normalize() Bar {
	b.Date = Day(b.Date)
	b.Open = RoundPrice(b.Open)
	b.High = RoundPrice(b.High)
	b.Low = RoundPrice(b.Low)
	b.Close = RoundPrice(b.Close)
	return b
}

// Validate rejects bars that could not have come from a real daily feed:
// a zero date, any non-positive price, or a negative volume.
func (b Bar) Validate() error {
	if b.Date.IsZero() {
		return fmt.Errorf("%w: bar has no date", ErrValidation)
	}
	if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
		return fmt.Errorf("%w: non-positive price on %s", ErrValidation, b.Date.Format(DateLayout))
	}
	if b.Volume < 0 {
		return fmt.Errorf("%w: negative volume on %s", ErrValidation, b.Date.Format(DateLayout))
	}
	return nil
}
