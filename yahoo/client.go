// Package yahoo fetches daily candles from the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/phuslu/log"

	"stockanalyze/market"
)

const (
	defaultBaseURL = "https://query1.finance.yahoo.com"
	defaultTimeout = 30 * time.Second
	userAgent      = "Mozilla/5.0 (compatible; stockanalyze/1.0)"
)

// Client talks to the v8 chart endpoint. It implements store.Fetcher.
type Client struct {
	client *resty.Client
}

// Option adjusts a Client at construction.
type Option func(*Client)

// WithBaseURL points the client somewhere else, a proxy or a test server.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.client.SetBaseURL(url) }
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client.SetTimeout(d) }
}

func New(opts ...Option) *Client {
	rc := resty.New()
	rc.SetBaseURL(defaultBaseURL)
	rc.SetTimeout(defaultTimeout)
	rc.SetHeader("User-Agent", userAgent)

	c := &Client{client: rc}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// chartResponse mirrors the slice of the v8 payload we read. Quote arrays
// use pointers because Yahoo emits JSON nulls for halted days.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchDaily pulls 1d-interval bars for symbol over [start, end]. Days with
// null quotes are skipped. An empty result maps to ErrDataUnavailable.
func (c *Client) FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]market.Bar, error) {
	var payload chartResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"period1":  fmt.Sprintf("%d", market.Day(start).Unix()),
			"period2":  fmt.Sprintf("%d", market.Day(end).AddDate(0, 0, 1).Unix()),
			"interval": "1d",
			"events":   "history",
		}).
		SetResult(&payload).
		Get("/v8/finance/chart/" + symbol)
	if err != nil {
		return nil, fmt.Errorf("yahoo: fetch %s: %w", symbol, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("yahoo: %s: %w", symbol, market.ErrDataUnavailable)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("yahoo: fetch %s: status %s", symbol, resp.Status())
	}
	if e := payload.Chart.Error; e != nil {
		return nil, fmt.Errorf("yahoo: %s: %s (%s): %w", symbol, e.Description, e.Code, market.ErrDataUnavailable)
	}
	if len(payload.Chart.Result) == 0 || len(payload.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: %s: empty chart result: %w", symbol, market.ErrDataUnavailable)
	}

	result := payload.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	// A malformed payload can carry quote arrays shorter than the timestamp
	// list; bound the scan by the shortest one.
	days := len(result.Timestamp)
	for _, n := range []int{len(quote.Open), len(quote.High), len(quote.Low), len(quote.Close)} {
		if n < days {
			days = n
		}
	}
	skipped := len(result.Timestamp) - days

	bars := make([]market.Bar, 0, days)
	for i, ts := range result.Timestamp[:days] {
		if quote.Open[i] == nil || quote.High[i] == nil ||
			quote.Low[i] == nil || quote.Close[i] == nil {
			skipped++
			continue
		}
		b := market.Bar{
			Date:  market.Day(time.Unix(ts, 0).UTC()),
			Open:  *quote.Open[i],
			High:  *quote.High[i],
			Low:   *quote.Low[i],
			Close: *quote.Close[i],
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			b.Volume = *quote.Volume[i]
		}
		bars = append(bars, b.Normalize())
	}
	if skipped > 0 {
		log.Debug().Str("symbol", symbol).Int("skipped", skipped).Msg("null quote days dropped")
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("yahoo: %s: no usable bars: %w", symbol, market.ErrDataUnavailable)
	}
	return bars, nil
}
