// Package client sends summary records to the summary server over HTTP. It
// implements summary.Writer, so a training process can treat the remote
// service as just another summary store.
package client

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/and161185/metrics-summary/flatten"
	"github.com/and161185/metrics-summary/internal/config"
	"github.com/and161185/metrics-summary/internal/utils"
	"github.com/and161185/metrics-summary/model"
	"github.com/and161185/metrics-summary/summary"
)

type Client struct {
	config     *config.ReporterConfig
	httpClient *http.Client
}

// NewClient creates a new client instance with the given configuration.
func NewClient(cfg *config.ReporterConfig) *Client {
	hc := &http.Client{Timeout: time.Duration(cfg.ClientTimeout) * time.Second}
	return NewClientWithHTTP(cfg, hc)
}

// NewClientWithHTTP creates a client around a ready http.Client.
func NewClientWithHTTP(cfg *config.ReporterConfig, hc *http.Client) *Client {
	return &Client{config: cfg, httpClient: hc}
}

// Report sends one flattened reporting pass stamped with step.
func (clnt *Client) Report(ctx context.Context, flat *flatten.Flat, step int64) error {
	records, err := summary.Records(flat, step)
	if err != nil {
		return err
	}
	return clnt.SendRecords(ctx, records)
}

// SendRecords posts records to the server as one gzip-compressed JSON batch.
func (clnt *Client) SendRecords(ctx context.Context, records []model.Record) error {
	if len(records) == 0 {
		return nil
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		return fmt.Errorf("failed to compress records: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to compress records: %w", err)
	}

	url := clnt.config.ServerAddr + "/report"
	return utils.WithRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf.Bytes()))
		if err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Content-Encoding", "gzip")

		resp, err := clnt.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to send records: %w", err)
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("server returned status %d", resp.StatusCode)
		}
		return nil
	})
}

func (clnt *Client) WriteScalar(ctx context.Context, path string, value float64, step int64) error {
	return clnt.SendRecords(ctx, []model.Record{summary.ScalarRecord(path, value, step)})
}

func (clnt *Client) WriteText(ctx context.Context, path string, value string, step int64) error {
	return clnt.SendRecords(ctx, []model.Record{summary.TextRecord(path, value, step)})
}

func (clnt *Client) WriteImage(ctx context.Context, path string, image model.Image, step int64) error {
	return clnt.SendRecords(ctx, []model.Record{summary.ImageRecord(path, image, step)})
}

func (clnt *Client) Close() error {
	clnt.httpClient.CloseIdleConnections()
	return nil
}
