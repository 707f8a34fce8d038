// Package inmemory provides an in-memory append-only summary store.
package inmemory

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/and161185/metrics-summary/model"
	"github.com/and161185/metrics-summary/summary"
)

type MemStore struct {
	records []model.Record
	mu      sync.RWMutex
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (store *MemStore) WriteScalar(ctx context.Context, path string, value float64, step int64) error {
	return store.Append(ctx, []model.Record{summary.ScalarRecord(path, value, step)})
}

func (store *MemStore) WriteText(ctx context.Context, path string, value string, step int64) error {
	return store.Append(ctx, []model.Record{summary.TextRecord(path, value, step)})
}

func (store *MemStore) WriteImage(ctx context.Context, path string, image model.Image, step int64) error {
	return store.Append(ctx, []model.Record{summary.ImageRecord(path, image, step)})
}

// Append adds records to the log in the given order.
func (store *MemStore) Append(ctx context.Context, records []model.Record) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.records = append(store.records, records...)
	return nil
}

// All returns a copy of every record in append order.
func (store *MemStore) All(ctx context.Context) ([]model.Record, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	out := make([]model.Record, len(store.records))
	copy(out, store.records)
	return out, nil
}

// ByPath returns every record written under one flat path.
func (store *MemStore) ByPath(ctx context.Context, path string) ([]model.Record, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	var out []model.Record
	for _, r := range store.records {
		if r.Path == path {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, summary.ErrPathNotFound
	}
	return out, nil
}

// ByStep returns every record written at one training step.
func (store *MemStore) ByStep(ctx context.Context, step int64) ([]model.Record, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	var out []model.Record
	for _, r := range store.records {
		if r.Step == step {
			out = append(out, r)
		}
	}
	return out, nil
}

func (store *MemStore) SaveToFile(ctx context.Context, filePath string) error {
	records, err := store.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to get records: %w", err)
	}

	if len(records) == 0 {
		return nil
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	log.Printf("saved to %s", filePath)

	return nil
}

func (store *MemStore) LoadFromFile(ctx context.Context, filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read file: %w", err)
	}

	var records []model.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to unmarshal records: %w", err)
	}

	if err := store.Append(ctx, records); err != nil {
		return fmt.Errorf("failed to restore records: %w", err)
	}

	log.Printf("loaded from %s", filePath)

	return nil
}

func (store *MemStore) Ping(ctx context.Context) error {
	return nil
}

func (store *MemStore) Close() error {
	return nil
}
