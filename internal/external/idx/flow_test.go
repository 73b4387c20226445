package idx

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idxlab/terminal/pkg/logger"
)

const summaryHTML = `
<html><body>
<table class="foreign-summary">
	<thead><tr><th>Kode</th><th>Foreign Buy</th><th>Foreign Sell</th></tr></thead>
	<tbody>
		<tr><td>BBCA</td><td>60,000,000,000</td><td>10,000,000,000</td></tr>
		<tr><td>TLKM</td><td>5,000,000,000</td><td>25,000,000,000</td></tr>
		<tr><td></td><td>1</td><td>2</td></tr>
		<tr><td>GOTO</td><td>bad</td><td>1</td></tr>
	</tbody>
</table>
</body></html>`

func TestFetchDailyParsesSummaryTable(t *testing.T) {
	day := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2026-08-27", r.URL.Query().Get("date"))
		fmt.Fprint(w, summaryHTML)
	}))
	defer srv.Close()

	snaps, err := New(srv.URL, time.Second, logger.Nop()).FetchDaily(context.Background(), day)

	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, "BBCA.JK", snaps[0].Symbol)
	assert.Equal(t, 50e9, snaps[0].Net)
	assert.Equal(t, "TLKM.JK", snaps[1].Symbol)
	assert.Equal(t, -20e9, snaps[1].Net)
	assert.Equal(t, day, snaps[0].Date)
}

func TestFetchDailyEmptyTableIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html><body><p>Holiday</p></body></html>")
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second, logger.Nop()).FetchDaily(context.Background(), time.Now())

	assert.ErrorContains(t, err, "no rows")
}

func TestParseIDR(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"60,000,000,000", 60e9, true},
		{"(5,000,000)", -5e6, true},
		{"-", 0, true},
		{"", 0, true},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseIDR(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
