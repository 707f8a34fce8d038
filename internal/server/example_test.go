package server

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"

	"go.uber.org/zap"

	"github.com/and161185/metrics-summary/internal/config"
	"github.com/and161185/metrics-summary/summary/inmemory"
)

func ExampleServer_ReportHandler() {
	st := inmemory.NewMemStore()
	srv := NewServer(st, &config.ServerConfig{Logger: zap.NewNop().Sugar()})
	router := srv.Router()

	body := bytes.NewBufferString(`[{"path":"loss","kind":"scalar","step":0,"scalar":0.5}]`)
	req := httptest.NewRequest(http.MethodPost, "/report", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	fmt.Println(w.Code)
	// Output: 200
}

func ExampleServer_PingHandler() {
	st := inmemory.NewMemStore()
	srv := NewServer(st, &config.ServerConfig{Logger: zap.NewNop().Sugar()})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	srv.PingHandler(w, req)

	fmt.Println(w.Code)
	// Output: 200
}
