// Package jsonfile provides a summary store backed by an append-only
// JSON-lines event log file.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/and161185/metrics-summary/model"
	"github.com/and161185/metrics-summary/summary"
)

type Store struct {
	file *os.File
	enc  *json.Encoder
	mu   sync.Mutex
}

// Open opens (or creates) the event log at filePath for appending. The
// caller owns the returned store and must Close it.
func Open(filePath string) (*Store, error) {
	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}
	return &Store{file: f, enc: json.NewEncoder(f)}, nil
}

func (store *Store) WriteScalar(ctx context.Context, path string, value float64, step int64) error {
	return store.append(summary.ScalarRecord(path, value, step))
}

func (store *Store) WriteText(ctx context.Context, path string, value string, step int64) error {
	return store.append(summary.TextRecord(path, value, step))
}

func (store *Store) WriteImage(ctx context.Context, path string, image model.Image, step int64) error {
	return store.append(summary.ImageRecord(path, image, step))
}

// Append writes records to the log in the given order, one line each.
func (store *Store) Append(ctx context.Context, records []model.Record) error {
	for i := range records {
		if err := store.append(records[i]); err != nil {
			return err
		}
	}
	return nil
}

func (store *Store) append(r model.Record) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.enc.Encode(r); err != nil {
		return fmt.Errorf("failed to append record %q: %w", r.Path, err)
	}
	return nil
}

func (store *Store) Close() error {
	return store.file.Close()
}

// Read replays a whole event log file into memory, in write order.
func Read(filePath string) ([]model.Record, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}
	defer f.Close()

	var records []model.Record
	dec := json.NewDecoder(f)
	for {
		var r model.Record
		if err := dec.Decode(&r); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to decode record: %w", err)
		}
		records = append(records, r)
	}
	return records, nil
}
