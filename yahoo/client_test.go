package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockanalyze/market"
)

// Two good days around a halted one (nulls across the quote arrays).
const chartBody = `{
  "chart": {
    "result": [{
      "timestamp": [1709510400, 1709596800, 1709683200],
      "indicators": {
        "quote": [{
          "open":   [185.5, null, 187.25],
          "high":   [186.0, null, 188.0],
          "low":    [184.0, null, 186.5],
          "close":  [185.75, null, 187.9],
          "volume": [1000000, null, 1200000]
        }]
      }
    }],
    "error": null
  }
}`

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return New(WithBaseURL(srv.URL), WithTimeout(5*time.Second)), srv
}

func TestFetchDailySkipsNullDays(t *testing.T) {
	var gotPath string
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chartBody))
	})
	defer srv.Close()

	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)
	bars, err := c.FetchDaily(context.Background(), "AAPL", start, end)
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/AAPL", gotPath)
	require.Len(t, bars, 2)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), bars[0].Date)
	assert.Equal(t, 185.75, bars[0].Close)
	assert.Equal(t, int64(1000000), bars[0].Volume)
	assert.Equal(t, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), bars[1].Date)
}

// Quote arrays shorter than the timestamp list must not panic; the extra
// timestamps are dropped like null days.
func TestFetchDailyTruncatedQuoteArrays(t *testing.T) {
	const body = `{
	  "chart": {
	    "result": [{
	      "timestamp": [1709510400, 1709596800, 1709683200],
	      "indicators": {
	        "quote": [{
	          "open":   [185.5],
	          "high":   [186.0],
	          "low":    [184.0],
	          "close":  [185.75, 186.5],
	          "volume": [1000000]
	        }]
	      }
	    }],
	    "error": null
	  }
	}`
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	})
	defer srv.Close()

	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)
	bars, err := c.FetchDaily(context.Background(), "AAPL", start, end)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 185.75, bars[0].Close)
}

func TestFetchDailyUnknownSymbol(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	})
	defer srv.Close()

	_, err := c.FetchDaily(context.Background(), "NOPE", time.Now(), time.Now())
	assert.ErrorIs(t, err, market.ErrDataUnavailable)
}

func TestFetchDailyChartError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Bad Request","description":"Invalid range"}}}`))
	})
	defer srv.Close()

	_, err := c.FetchDaily(context.Background(), "AAPL", time.Now(), time.Now())
	assert.ErrorIs(t, err, market.ErrDataUnavailable)
}

func TestFetchDailyServerError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer srv.Close()

	_, err := c.FetchDaily(context.Background(), "AAPL", time.Now(), time.Now())
	require.Error(t, err)
	assert.NotErrorIs(t, err, market.ErrDataUnavailable)
}
