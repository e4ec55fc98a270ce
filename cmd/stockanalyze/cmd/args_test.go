package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockanalyze/market"
)

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		symbols []string
		date    string
	}{
		{"symbols only", []string{"SPY", "QQQ"}, []string{"SPY", "QQQ"}, ""},
		{"date last", []string{"SPY", "2024-03-22"}, []string{"SPY"}, "2024-03-22"},
		{"date first", []string{"20240322", "SPY", "QQQ"}, []string{"SPY", "QQQ"}, "20240322"},
		{"dotted date", []string{"SPY", "2024.03.22"}, []string{"SPY"}, "2024.03.22"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			symbols, date, err := splitArgs(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.symbols, symbols)
			assert.Equal(t, tt.date, date)
		})
	}
}

func TestSplitArgsRejectsTwoDates(t *testing.T) {
	_, _, err := splitArgs([]string{"SPY", "2024-03-22", "2024-03-21"})
	assert.ErrorIs(t, err, market.ErrInvalidDateFormat)
}

func TestSplitArgsRequiresSymbol(t *testing.T) {
	_, _, err := splitArgs([]string{"2024-03-22"})
	assert.Error(t, err)
}
