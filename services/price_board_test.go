package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stockk_backend/config"
)

func newFakeBoard(t *testing.T, rows map[string][]ssiBoardRow) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		group := r.URL.Path[len("/"):]
		json.NewEncoder(w).Encode(ssiBoardResponse{Data: rows[group]})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestPriceBoardService_Sync(t *testing.T) {
	upstream := newFakeBoard(t, map[string][]ssiBoardRow{
		"hose":  {{SS: "VNM", ST: "hose", RP: 68.0, MP: 68.5, CG: 0.5, PCT: 0.73, TVOL: 1200000}},
		"hnx":   {{SS: "SHS", ST: "hnx", RP: 18.2, MP: 18.0, CG: -0.2}},
		"upcom": {},
	})

	board := NewPriceBoardService(&config.Config{SSIPriceBoardURL: upstream.URL + "/"}, zap.NewNop())
	defer board.Shutdown()

	require.NoError(t, board.Sync(context.Background()))

	snapshot := board.Snapshot(nil)
	require.NotNil(t, snapshot)
	require.Len(t, snapshot.Prices, 2)
	assert.False(t, snapshot.SyncedAt.IsZero())

	vnm := snapshot.Prices[0]
	assert.Equal(t, "VNM", vnm.Ticker)
	assert.Equal(t, "HOSE", vnm.Exchange)
	assert.Equal(t, "68.5", vnm.MatchPrice.String())
	assert.Equal(t, "0.73", vnm.ChangePercent.String())
}

func TestPriceBoardService_SnapshotFilter(t *testing.T) {
	upstream := newFakeBoard(t, map[string][]ssiBoardRow{
		"hose": {{SS: "VNM", ST: "hose"}, {SS: "VND", ST: "hose"}},
	})

	board := NewPriceBoardService(&config.Config{SSIPriceBoardURL: upstream.URL + "/"}, zap.NewNop())
	defer board.Shutdown()
	require.NoError(t, board.Sync(context.Background()))

	filtered := board.Snapshot([]string{"vnm", " VND "})
	require.NotNil(t, filtered)
	assert.Len(t, filtered.Prices, 2, "symbol filter is case and whitespace insensitive")

	filtered = board.Snapshot([]string{"XXX"})
	require.NotNil(t, filtered)
	assert.Empty(t, filtered.Prices)
}

func TestPriceBoardService_SnapshotBeforeFirstSync(t *testing.T) {
	board := NewPriceBoardService(&config.Config{SSIPriceBoardURL: "http://127.0.0.1:0/"}, zap.NewNop())
	defer board.Shutdown()

	assert.Nil(t, board.Snapshot(nil))
}
