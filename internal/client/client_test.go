package client

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/and161185/metrics-summary/flatten"
	"github.com/and161185/metrics-summary/internal/config"
	"github.com/and161185/metrics-summary/internal/server"
	"github.com/and161185/metrics-summary/model"
	"github.com/and161185/metrics-summary/summary"
	"github.com/and161185/metrics-summary/summary/inmemory"
)

func newTestBackend(t *testing.T) (*httptest.Server, *inmemory.MemStore) {
	t.Helper()

	st := inmemory.NewMemStore()
	srv := server.NewServer(st, &config.ServerConfig{Logger: zap.NewNop().Sugar()})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, st
}

func TestClient_Report(t *testing.T) {
	ts, st := newTestBackend(t)
	clnt := NewClient(&config.ReporterConfig{ServerAddr: ts.URL, ClientTimeout: 5})

	flat, err := flatten.Values(map[string]model.Value{
		"test": model.Mapping{
			"list_0":  model.Sequence{model.Scalar(1), model.Scalar(2)},
			"tuple_0": model.Sequence{model.Ones(12, 12, 3), model.Ones(5, 12, 12, 3)},
		},
	})
	require.NoError(t, err)

	require.NoError(t, clnt.Report(context.Background(), flat, 0))

	all, err := st.All(context.Background())
	require.NoError(t, err)

	paths := make([]string, len(all))
	for i, r := range all {
		paths[i] = r.Path
	}
	require.Equal(t, []string{
		"test/list_0_0",
		"test/list_0_1",
		"test/tuple_0_0",
		"test/tuple_0_1",
	}, paths)

	require.Equal(t, 1.0, *all[0].Scalar)
	require.Equal(t, []int{12, 12, 3}, all[2].Image.Shape)
	require.Equal(t, []int{5, 12, 12, 3}, all[3].Image.Shape)
}

func TestClient_SendRecordsGzips(t *testing.T) {
	var gotEncoding string
	var gotRecords []model.Record

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEncoding = r.Header.Get("Content-Encoding")

		gr, err := gzip.NewReader(r.Body)
		require.NoError(t, err)
		defer gr.Close()

		body, err := io.ReadAll(gr)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &gotRecords))

		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	clnt := NewClient(&config.ReporterConfig{ServerAddr: ts.URL, ClientTimeout: 5})
	err := clnt.SendRecords(context.Background(), []model.Record{
		summary.ScalarRecord("loss", 0.5, 3),
	})
	require.NoError(t, err)

	require.Equal(t, "gzip", gotEncoding)
	require.Len(t, gotRecords, 1)
	require.Equal(t, "loss", gotRecords[0].Path)
	require.Equal(t, int64(3), gotRecords[0].Step)
}

func TestClient_SendRecords_Empty(t *testing.T) {
	clnt := NewClient(&config.ReporterConfig{ServerAddr: "http://localhost:1", ClientTimeout: 1})
	require.NoError(t, clnt.SendRecords(context.Background(), nil))
}

func TestClient_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	clnt := NewClient(&config.ReporterConfig{ServerAddr: ts.URL, ClientTimeout: 5})
	err := clnt.SendRecords(context.Background(), []model.Record{
		summary.ScalarRecord("loss", 0.5, 0),
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "500")
}

func TestClient_UsableAsSummaryWriter(t *testing.T) {
	ts, st := newTestBackend(t)

	var w summary.Writer = NewClient(&config.ReporterConfig{ServerAddr: ts.URL, ClientTimeout: 5})
	require.NoError(t, w.WriteScalar(context.Background(), "loss", 0.5, 0))
	require.NoError(t, w.Close())

	all, err := st.All(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
}
