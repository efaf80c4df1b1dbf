package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "anon-key")
}

func TestRecentJournal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/trade_journal", r.URL.Path)
		assert.Equal(t, "timestamp.desc", r.URL.Query().Get("order"))
		assert.Equal(t, "30", r.URL.Query().Get("limit"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
		w.Write([]byte(`[
			{"id":2,"timestamp":"2024-03-15T15:00:00Z","ticker":"TSLA","action":"sell","shares":2,"price":200,"reason":"stop loss"},
			{"id":1,"timestamp":"2024-03-15T14:30:00Z","ticker":"AAPL","action":"buy","shares":10,"price":172.5,"reason":"momentum entry"}
		]`))
	})

	entries, err := client.RecentJournal(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "TSLA", entries[0].Ticker)
	assert.Equal(t, "momentum entry", entries[1].Reason)
}

func TestReasoningFor(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq.AAPL", r.URL.Query().Get("ticker"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		w.Write([]byte(`[{"id":1,"ticker":"AAPL","action":"buy","shares":10,"price":172.5,"reason":"momentum entry"}]`))
	})

	entry, err := client.ReasoningFor(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "momentum entry", entry.Reason)
}

func TestReasoningFor_NoHistory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	entry, err := client.ReasoningFor(context.Background(), "ZZZZ")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestNotes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/trading_notes", r.URL.Path)
		assert.Equal(t, "eq.1", r.URL.Query().Get("id"))
		w.Write([]byte(`[{"id":1,"content":"Hold winners, cut losers."}]`))
	})

	content, err := client.Notes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hold winners, cut losers.", content)
}

func TestSaveNotes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.1", r.URL.Query().Get("id"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "New shared brain.", body["content"])
		assert.NotEmpty(t, body["updated_at"])
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.SaveNotes(context.Background(), "New shared brain.")
	require.NoError(t, err)
}

func TestBotLogs_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"permission denied"}`, http.StatusUnauthorized)
	})

	logs, err := client.BotLogs(context.Background(), 50)
	require.Error(t, err)
	assert.Nil(t, logs)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}
