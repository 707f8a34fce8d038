// Package server implements the HTTP service in front of a summary store.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"

	"github.com/and161185/metrics-summary/internal/config"
	"github.com/and161185/metrics-summary/internal/server/middleware"
	"github.com/and161185/metrics-summary/model"
	"github.com/and161185/metrics-summary/summary"
)

// Storage is the summary store the server exposes.
type Storage interface {
	Append(ctx context.Context, records []model.Record) error
	All(ctx context.Context) ([]model.Record, error)
	ByPath(ctx context.Context, path string) ([]model.Record, error)
	ByStep(ctx context.Context, step int64) ([]model.Record, error)
	Ping(ctx context.Context) error
}

// FileStore is implemented by storages that can persist to and restore from
// a file. The server drives it when FileStoragePath is configured.
type FileStore interface {
	SaveToFile(ctx context.Context, filePath string) error
	LoadFromFile(ctx context.Context, filePath string) error
}

type Server struct {
	Storage Storage
	Config  *config.ServerConfig
}

func NewServer(storage Storage, config *config.ServerConfig) *Server {
	return &Server{
		Storage: storage,
		Config:  config,
	}
}

// Router builds the HTTP routing table with the full middleware chain.
func (srv *Server) Router() chi.Router {
	router := chi.NewRouter()
	router.Use(chiMiddleware.StripSlashes)
	router.Use(middleware.LogMiddleware(srv.Config.Logger))
	router.Use(middleware.DecompressMiddleware)
	router.Use(middleware.CompressMiddleware)
	router.Post("/report", srv.ReportHandler)
	router.Get("/summaries", srv.ListSummariesHandler)
	router.Get("/summaries/*", srv.GetPathHandler)
	router.Get("/steps/{step}", srv.GetStepHandler)
	router.Get("/ping", srv.PingHandler)
	router.Get("/", srv.IndexHandler)
	return router
}

func (srv *Server) Run(ctx context.Context) error {
	if err := srv.restore(ctx); err != nil {
		return err
	}

	httpServer := &http.Server{Addr: srv.Config.Addr, Handler: srv.Router()}

	go srv.persistLoop(ctx)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			srv.Config.Logger.Errorf("server shutdown: %v", err)
		}
	}()

	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (srv *Server) restore(ctx context.Context) error {
	fs, ok := srv.Storage.(FileStore)
	if !ok || !srv.Config.Restore || srv.Config.FileStoragePath == "" {
		return nil
	}
	if err := fs.LoadFromFile(ctx, srv.Config.FileStoragePath); err != nil {
		return fmt.Errorf("restore summaries: %w", err)
	}
	return nil
}

func (srv *Server) persistLoop(ctx context.Context) {
	fs, ok := srv.Storage.(FileStore)
	if !ok || srv.Config.StoreInterval <= 0 || srv.Config.FileStoragePath == "" {
		return
	}

	ticker := time.NewTicker(time.Duration(srv.Config.StoreInterval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := fs.SaveToFile(context.Background(), srv.Config.FileStoragePath); err != nil {
				srv.Config.Logger.Errorf("final save: %v", err)
			}
			return
		case <-ticker.C:
			if err := fs.SaveToFile(ctx, srv.Config.FileStoragePath); err != nil {
				srv.Config.Logger.Errorf("periodic save: %v", err)
			}
		}
	}
}

func (srv *Server) ReportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "unsupported content type", http.StatusUnsupportedMediaType)
		return
	}

	var records []model.Record
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	for i := range records {
		if err := summary.CheckRecord(&records[i]); err != nil {
			log.Printf("invalid record [path=%s]: %v", records[i].Path, err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if err := srv.Storage.Append(r.Context(), records); err != nil {
		log.Printf("failed to append %d records: %v", len(records), err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]int{"saved": len(records)}); err != nil {
		log.Printf("failed to write response JSON: %v", err)
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func (srv *Server) ListSummariesHandler(w http.ResponseWriter, r *http.Request) {
	records, err := srv.Storage.All(r.Context())
	if err != nil {
		log.Printf("failed to get all records from storage: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeRecordsJSON(w, records)
}

func (srv *Server) GetPathHandler(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")

	records, err := srv.Storage.ByPath(r.Context(), path)
	if err != nil {
		if errors.Is(err, summary.ErrPathNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Printf("failed to get records for path %q: %v", path, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeRecordsJSON(w, records)
}

func (srv *Server) GetStepHandler(w http.ResponseWriter, r *http.Request) {
	stepStr := chi.URLParam(r, "step")
	step, err := strconv.ParseInt(stepStr, 10, 64)
	if err != nil || step < 0 {
		http.Error(w, "invalid step", http.StatusBadRequest)
		return
	}

	records, err := srv.Storage.ByStep(r.Context(), step)
	if err != nil {
		log.Printf("failed to get records for step %d: %v", step, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeRecordsJSON(w, records)
}

func (srv *Server) PingHandler(w http.ResponseWriter, r *http.Request) {
	if err := srv.Storage.Ping(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (srv *Server) IndexHandler(w http.ResponseWriter, r *http.Request) {
	records, err := srv.Storage.All(r.Context())
	if err != nil {
		log.Printf("failed to get all records from storage: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "<html><body><ul>")

	for i := range records {
		fmt.Fprintf(w, "<li>%s</li>", recordString(&records[i]))
	}

	fmt.Fprintln(w, "</ul></body></html>")
}

func writeRecordsJSON(w http.ResponseWriter, records []model.Record) {
	w.Header().Set("Content-Type", "application/json")
	if records == nil {
		records = []model.Record{}
	}
	if err := json.NewEncoder(w).Encode(records); err != nil {
		log.Printf("failed to write response JSON: %v", err)
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func recordString(r *model.Record) string {
	switch r.Kind {
	case model.KindScalar:
		if r.Scalar != nil {
			return fmt.Sprintf("%s (scalar) step=%d: %v", r.Path, r.Step, *r.Scalar)
		}
	case model.KindText:
		if r.Text != nil {
			return fmt.Sprintf("%s (text) step=%d: %s", r.Path, r.Step, *r.Text)
		}
	case model.KindImage:
		if r.Image != nil {
			return fmt.Sprintf("%s (image) step=%d: shape=%v", r.Path, r.Step, r.Image.Shape)
		}
	}
	return fmt.Sprintf("%s (%s) step=%d: <empty>", r.Path, r.Kind, r.Step)
}
