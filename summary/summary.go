// Package summary dispatches flattened metric values to an append-only
// summary store.
package summary

import (
	"context"
	"errors"
	"fmt"

	"github.com/and161185/metrics-summary/flatten"
	"github.com/and161185/metrics-summary/internal/utils"
	"github.com/and161185/metrics-summary/model"
)

var ErrUnknownLeafKind = errors.New("unknown leaf kind")
var ErrPathNotFound = errors.New("no records for path")

// Writer is the summary-store boundary. The store is opened and closed by
// the caller; Write only borrows it for one reporting pass.
type Writer interface {
	WriteScalar(ctx context.Context, path string, value float64, step int64) error
	WriteText(ctx context.Context, path string, value string, step int64) error
	WriteImage(ctx context.Context, path string, image model.Image, step int64) error
	Close() error
}

// Write dispatches every flattened entry to w, tagged with step, in the
// flattener's emission order. The first failed write aborts the pass; no
// retry or rollback is attempted here.
func Write(ctx context.Context, w Writer, flat *flatten.Flat, step int64) error {
	for _, e := range flat.Entries() {
		var err error
		switch v := e.Value.(type) {
		case model.Scalar:
			err = w.WriteScalar(ctx, e.Path, float64(v), step)
		case model.Text:
			err = w.WriteText(ctx, e.Path, string(v), step)
		case model.Image:
			err = w.WriteImage(ctx, e.Path, v, step)
		default:
			return fmt.Errorf("%w: %T at %q", ErrUnknownLeafKind, e.Value, e.Path)
		}
		if err != nil {
			return fmt.Errorf("write summary %q at step %d: %w", e.Path, step, err)
		}
	}
	return nil
}

// Records converts flattened entries into store records stamped with step,
// preserving emission order.
func Records(flat *flatten.Flat, step int64) ([]model.Record, error) {
	out := make([]model.Record, 0, flat.Len())
	for _, e := range flat.Entries() {
		switch v := e.Value.(type) {
		case model.Scalar:
			out = append(out, ScalarRecord(e.Path, float64(v), step))
		case model.Text:
			out = append(out, TextRecord(e.Path, string(v), step))
		case model.Image:
			out = append(out, ImageRecord(e.Path, v, step))
		default:
			return nil, fmt.Errorf("%w: %T at %q", ErrUnknownLeafKind, e.Value, e.Path)
		}
	}
	return out, nil
}

// CheckRecord verifies that a record carries the payload its kind requires.
func CheckRecord(r *model.Record) error {
	if r.Path == "" {
		return errors.New("path required")
	}
	if r.Step < 0 {
		return errors.New("step must be non-negative")
	}
	switch r.Kind {
	case model.KindScalar:
		if r.Scalar == nil {
			return errors.New("scalar payload required")
		}
	case model.KindText:
		if r.Text == nil {
			return errors.New("text payload required")
		}
	case model.KindImage:
		if r.Image == nil {
			return errors.New("image payload required")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLeafKind, r.Kind)
	}
	return nil
}

// ScalarRecord builds a scalar store record.
func ScalarRecord(path string, value float64, step int64) model.Record {
	return model.Record{Path: path, Kind: model.KindScalar, Step: step, Scalar: utils.F64Ptr(value)}
}

// TextRecord builds a text store record.
func TextRecord(path string, value string, step int64) model.Record {
	return model.Record{Path: path, Kind: model.KindText, Step: step, Text: utils.StrPtr(value)}
}

// ImageRecord builds an image store record.
func ImageRecord(path string, image model.Image, step int64) model.Record {
	return model.Record{Path: path, Kind: model.KindImage, Step: step, Image: &image}
}
