// Package postgres provides a summary store backed by PostgreSQL.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/and161185/metrics-summary/internal/utils"
	"github.com/and161185/metrics-summary/model"
	"github.com/and161185/metrics-summary/summary"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS summaries (
	id BIGSERIAL PRIMARY KEY,
	path TEXT NOT NULL,
	kind TEXT NOT NULL,
	step BIGINT NOT NULL,
	scalar DOUBLE PRECISION,
	text_value TEXT,
	image JSONB
);
CREATE INDEX IF NOT EXISTS summaries_path_idx ON summaries (path);
CREATE INDEX IF NOT EXISTS summaries_step_idx ON summaries (step);`

const insertSQL = `
INSERT INTO summaries (path, kind, step, scalar, text_value, image)
VALUES ($1, $2, $3, $4, $5, $6)`

const selectSQL = `
SELECT path, kind, step, scalar, text_value, image FROM summaries`

type Store struct {
	db *pgxpool.Pool
}

// NewStore connects to the database and creates the summaries table if it
// does not exist yet.
func NewStore(ctx context.Context, databaseDsn string) (*Store, error) {
	db, err := pgxpool.New(ctx, databaseDsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &Store{db: db}
	err = utils.WithRetry(ctx, func() error {
		_, execErr := db.Exec(ctx, createTableSQL)
		return execErr
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create summaries table: %w", err)
	}
	return store, nil
}

func (store *Store) WriteScalar(ctx context.Context, path string, value float64, step int64) error {
	return store.insert(ctx, summary.ScalarRecord(path, value, step))
}

func (store *Store) WriteText(ctx context.Context, path string, value string, step int64) error {
	return store.insert(ctx, summary.TextRecord(path, value, step))
}

func (store *Store) WriteImage(ctx context.Context, path string, image model.Image, step int64) error {
	return store.insert(ctx, summary.ImageRecord(path, image, step))
}

func (store *Store) insert(ctx context.Context, r model.Record) error {
	image, err := imageJSON(&r)
	if err != nil {
		return err
	}
	return utils.WithRetry(ctx, func() error {
		_, execErr := store.db.Exec(ctx, insertSQL, r.Path, string(r.Kind), r.Step, r.Scalar, r.Text, image)
		return execErr
	})
}

// Append inserts records in one batch, preserving order.
func (store *Store) Append(ctx context.Context, records []model.Record) error {
	batch := &pgx.Batch{}
	for i := range records {
		image, err := imageJSON(&records[i])
		if err != nil {
			return err
		}
		r := &records[i]
		batch.Queue(insertSQL, r.Path, string(r.Kind), r.Step, r.Scalar, r.Text, image)
	}
	return utils.WithRetry(ctx, func() error {
		return store.db.SendBatch(ctx, batch).Close()
	})
}

// All returns every record in insertion order.
func (store *Store) All(ctx context.Context) ([]model.Record, error) {
	return store.query(ctx, selectSQL+` ORDER BY id`)
}

// ByPath returns every record written under one flat path.
func (store *Store) ByPath(ctx context.Context, path string) ([]model.Record, error) {
	records, err := store.query(ctx, selectSQL+` WHERE path = $1 ORDER BY id`, path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, summary.ErrPathNotFound
	}
	return records, nil
}

// ByStep returns every record written at one training step.
func (store *Store) ByStep(ctx context.Context, step int64) ([]model.Record, error) {
	return store.query(ctx, selectSQL+` WHERE step = $1 ORDER BY id`, step)
}

func (store *Store) query(ctx context.Context, sql string, args ...any) ([]model.Record, error) {
	rows, err := store.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", err)
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		var (
			r     model.Record
			kind  string
			image []byte
		)
		if err := rows.Scan(&r.Path, &kind, &r.Step, &r.Scalar, &r.Text, &image); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		r.Kind = model.Kind(kind)
		if image != nil {
			r.Image = &model.Image{}
			if err := json.Unmarshal(image, r.Image); err != nil {
				return nil, fmt.Errorf("failed to unmarshal image for %q: %w", r.Path, err)
			}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read summary rows: %w", err)
	}
	return records, nil
}

func (store *Store) Ping(ctx context.Context) error {
	return store.db.Ping(ctx)
}

func (store *Store) Close() error {
	store.db.Close()
	return nil
}

func imageJSON(r *model.Record) ([]byte, error) {
	if r.Image == nil {
		return nil, nil
	}
	data, err := json.Marshal(r.Image)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal image for %q: %w", r.Path, err)
	}
	return data, nil
}
