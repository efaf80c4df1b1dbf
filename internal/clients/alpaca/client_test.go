package alpaca

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/pulse/internal/interfaces"
	"github.com/bobmcallan/pulse/internal/models"
)

var testCreds = models.Credentials{Key: "test-key", Secret: "test-secret"}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(WithBaseURL(srv.URL))
}

func TestGetAccount_AuthHeaders(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/account", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("APCA-API-KEY-ID"))
		assert.Equal(t, "test-secret", r.Header.Get("APCA-API-SECRET-KEY"))
		w.Write([]byte(`{"equity":"105000","last_equity":100000,"cash":"5000"}`))
	})

	snapshot, err := client.GetAccount(context.Background(), testCreds)
	require.NoError(t, err)
	assert.Equal(t, 105000.0, snapshot.Equity)
	assert.Equal(t, 100000.0, snapshot.LastEquity)
	assert.Equal(t, 5000.0, snapshot.Cash)
}

func TestGetAccount_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})

	snapshot, err := client.GetAccount(context.Background(), testCreds)
	require.Error(t, err)
	assert.Nil(t, snapshot)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "/v2/account", apiErr.Endpoint)
}

func TestGetAccount_NoCredentials(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server without credentials")
	})

	_, err := client.GetAccount(context.Background(), models.Credentials{})
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestGetFills(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/account/activities", r.URL.Path)
		assert.Equal(t, "FILL", r.URL.Query().Get("activity_types"))
		w.Write([]byte(`[
			{"id":"f1","symbol":"AAPL","side":"buy","qty":"10","price":"172.50","transaction_time":"2024-03-15T14:30:00.5Z"},
			{"id":"f2","symbol":"TSLA","side":"sell","qty":2,"price":200,"transaction_time":"2024-03-15T15:00:00Z"}
		]`))
	})

	trades, err := client.GetFills(context.Background(), testCreds)
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, "AAPL", trades[0].Symbol)
	assert.Equal(t, 10.0, trades[0].Qty)
	assert.Equal(t, 172.5, trades[0].Price)
	assert.Equal(t, "sell", trades[1].Side)
}

func TestGetFills_NonArrayBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"unexpected"}`))
	})

	trades, err := client.GetFills(context.Background(), testCreds)
	require.Error(t, err)
	assert.ErrorIs(t, err, interfaces.ErrBadBody)
	assert.Nil(t, trades)
}

func TestGetPositions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/positions", r.URL.Path)
		w.Write([]byte(`[{"symbol":"NVDA","qty":"5","market_value":"4400","current_price":880,"unrealized_pl":"400"}]`))
	})

	positions, err := client.GetPositions(context.Background(), testCreds)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, "NVDA", positions[0].Symbol)
	assert.Equal(t, 4400.0, positions[0].MarketValue)
}

func TestGetPortfolioHistory_RangeMapping(t *testing.T) {
	cases := []struct {
		r         models.Range
		period    string
		timeframe string
	}{
		{models.Range1D, "1D", "5Min"},
		{models.Range1M, "1M", "1H"},
		{models.Range1Y, "1A", "1D"},
		{models.RangeAll, "ALL", "1D"},
	}
	for _, tc := range cases {
		t.Run(string(tc.r), func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v2/account/portfolio/history", r.URL.Path)
				assert.Equal(t, tc.period, r.URL.Query().Get("period"))
				assert.Equal(t, tc.timeframe, r.URL.Query().Get("timeframe"))
				w.Write([]byte(`{"equity":[100,110],"timestamp":[1000,2000]}`))
			})

			points, err := client.GetPortfolioHistory(context.Background(), testCreds, tc.r)
			require.NoError(t, err)
			assert.Len(t, points, 2)
		})
	}
}

func TestGetPortfolioHistory_FiltersSentinels(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"equity":[0.0,0.005,50.0,60.0],"timestamp":[1,2,3,4]}`))
	})

	points, err := client.GetPortfolioHistory(context.Background(), testCreds, models.Range1D)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 50.0, points[0].Equity)
	assert.Equal(t, int64(4), points[1].Timestamp)
}
