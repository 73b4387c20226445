package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idxlab/terminal/internal/contracts"
	"github.com/idxlab/terminal/pkg/config"
	"github.com/idxlab/terminal/pkg/logger"
)

const chartBody = `{
	"chart": {
		"result": [{
			"timestamp": [1756339200, 1756425600, 1756512000],
			"indicators": {
				"quote": [{
					"open":   [100.0, null, 102.0],
					"high":   [101.0, null, 104.0],
					"low":    [99.0,  null, 101.0],
					"close":  [100.5, null, 103.0],
					"volume": [1000.0, null, 2500.0]
				}]
			}
		}],
		"error": null
	}
}`

func testConfig(baseURL string) config.YahooConfig {
	return config.YahooConfig{
		BaseURL:      baseURL,
		LookbackDays: 365,
		MaxRetries:   1,
		RetryDelay:   time.Millisecond,
		Timeout:      time.Second,
	}
}

type memCache struct {
	data map[string]contracts.PriceSeries
}

func (m *memCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	series, ok := m.data[key]
	if !ok {
		return false, nil
	}
	*dest.(*contracts.PriceSeries) = series
	return true, nil
}

func (m *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.data[key] = value.(contracts.PriceSeries)
	return nil
}

func TestDailyParsesChartAndSkipsNullRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v8/finance/chart/BBCA.JK")
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		fmt.Fprint(w, chartBody)
	}))
	defer srv.Close()

	series, err := New(testConfig(srv.URL), nil, logger.Nop()).Daily(context.Background(), "BBCA.JK")

	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, 100.5, series[0].Close)
	assert.Equal(t, 103.0, series[1].Close)
	assert.Equal(t, 2500.0, series[1].Volume)
	assert.True(t, series[1].Date.After(series[0].Date))
}

func TestDailyAPIErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
	}))
	defer srv.Close()

	_, err := New(testConfig(srv.URL), nil, logger.Nop()).Daily(context.Background(), "GONE.JK")

	assert.ErrorContains(t, err, "No data found")
}

func TestDailyFallsBackToCachedSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cached := contracts.PriceSeries{{Close: 100, Volume: 1000}}
	cache := &memCache{data: map[string]contracts.PriceSeries{"BBCA.JK": cached}}

	series, err := New(testConfig(srv.URL), cache, logger.Nop()).Daily(context.Background(), "BBCA.JK")

	require.NoError(t, err)
	assert.Equal(t, cached, series)
}

func TestDailyCachesSuccessfulFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, chartBody)
	}))
	defer srv.Close()

	cache := &memCache{data: map[string]contracts.PriceSeries{}}
	_, err := New(testConfig(srv.URL), cache, logger.Nop()).Daily(context.Background(), "BBCA.JK")

	require.NoError(t, err)
	assert.Len(t, cache.data["BBCA.JK"], 2)
}
