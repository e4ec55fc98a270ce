package cmd

import (
	"fmt"

	"stockanalyze/dates"
	"stockanalyze/market"
)

// splitArgs separates positional arguments into symbols and at most one
// date, recognized by its format anywhere in the list.
func splitArgs(args []string) (symbols []string, date string, err error) {
	for _, a := range args {
		if dates.IsDate(a) {
			if date != "" {
				return nil, "", fmt.Errorf("%w: more than one date argument (%s, %s)",
					market.ErrInvalidDateFormat, date, a)
			}
			date = a
			continue
		}
		symbols = append(symbols, a)
	}
	if len(symbols) == 0 {
		return nil, "", fmt.Errorf("at least one stock symbol is required")
	}
	return symbols, date, nil
}
