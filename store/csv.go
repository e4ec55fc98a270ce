package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"stockanalyze/market"
)

var csvHeader = []string{"Date", "Open", "High", "Low", "Close", "Volume"}

// CSVStore keeps one <SYMBOL>.csv file per symbol under a cache directory.
type CSVStore struct {
	dir string
}

func NewCSV(dir string) (*CSVStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create cache dir: %w", err)
	}
	return &CSVStore{dir: dir}, nil
}

func (s *CSVStore) path(symbol string) string {
	return filepath.Join(s.dir, symbol+".csv")
}

func (s *CSVStore) Load(_ context.Context, symbol string) ([]market.Bar, error) {
	f, err := os.Open(s.path(symbol))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", symbol, err)
	}
	defer f.Close()

	bars, err := DecodeBars(f)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", symbol, err)
	}
	return bars, nil
}

func (s *CSVStore) Save(_ context.Context, symbol string, bars []market.Bar) error {
	tmp := s.path(symbol) + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("store: create %s: %w", symbol, err)
	}

	if err := EncodeBars(f, bars); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("store: write %s: %w", symbol, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("store: close %s: %w", symbol, err)
	}
	return os.Rename(tmp, s.path(symbol))
}

func (s *CSVStore) Delete(_ context.Context, symbol string) error {
	err := os.Remove(s.path(symbol))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *CSVStore) Symbols(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("store: list cache dir: %w", err)
	}
	var symbols []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".csv") {
			continue
		}
		symbols = append(symbols, strings.TrimSuffix(name, ".csv"))
	}
	sort.Strings(symbols)
	return symbols, nil
}

func (s *CSVStore) Close() error { return nil }

// EncodeBars writes bars as CSV with the standard header. Prices carry six
// decimals, matching the stored precision.
func EncodeBars(w io.Writer, bars []market.Bar) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, b := range bars {
		rec := []string{
			b.Date.Format(market.DateLayout),
			f(b.Open),
			f(b.High),
			f(b.Low),
			f(b.Close),
			strconv.FormatInt(b.Volume, 10),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// DecodeBars reads the CSV form back. Rows come back in file order; callers
// that need ordering guarantees should rebuild a Series.
func DecodeBars(r io.Reader) ([]market.Bar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	bars := make([]market.Bar, 0, len(records)-1)
	for i, rec := range records[1:] {
		b, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		bars = append(bars, b)
	}
	return bars, nil
}

func parseRecord(rec []string) (market.Bar, error) {
	date, err := time.Parse(market.DateLayout, rec[0])
	if err != nil {
		return market.Bar{}, fmt.Errorf("bad date %q: %w", rec[0], err)
	}
	var b market.Bar
	b.Date = date
	for i, dst := range []*float64{&b.Open, &b.High, &b.Low, &b.Close} {
		v, err := strconv.ParseFloat(rec[i+1], 64)
		if err != nil {
			return market.Bar{}, fmt.Errorf("bad %s %q: %w", csvHeader[i+1], rec[i+1], err)
		}
		*dst = v
	}
	vol, err := strconv.ParseInt(rec[5], 10, 64)
	if err != nil {
		return market.Bar{}, fmt.Errorf("bad volume %q: %w", rec[5], err)
	}
	b.Volume = vol
	return b.Normalize(), nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
