package market

import "errors"

// Error taxonomy shared across the store, resolver and CLI. Callers match
// with errors.Is; wrapping adds symbol/date context.
var (
	// ErrInvalidDateFormat means a user-supplied date string matched none of
	// the accepted layouts.
	ErrInvalidDateFormat = errors.New("invalid date format")

	// ErrDateUnavailable means no trading day with data was found within the
	// bounded fallback window for the requested date.
	ErrDateUnavailable = errors.New("no trading data for date")

	// ErrDataUnavailable means the market-data provider could not be reached
	// or returned nothing for the requested range.
	ErrDataUnavailable = errors.New("market data unavailable")

	// ErrValidation means a fetched bar was malformed (missing date,
	// non-positive price, negative volume).
	ErrValidation = errors.New("invalid bar")
)
