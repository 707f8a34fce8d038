// Package metric defines the metric protocol consumed by flattening and a
// few basic accumulators.
package metric

import (
	"errors"
	"fmt"

	"github.com/and161185/metrics-summary/model"
)

var ErrNoObservations = errors.New("metric has no observations")

// Metric is anything that can produce a computed value for reporting.
// Accumulation (Observe/Merge) is up to the concrete type; the reporting
// path only needs ComputeValue.
type Metric interface {
	ComputeValue() (model.Value, error)
}

// Sum accumulates a running total.
type Sum struct {
	Total float64
}

func NewSum(vs ...float64) *Sum {
	s := &Sum{}
	for _, v := range vs {
		s.Observe(v)
	}
	return s
}

func (s *Sum) Observe(v float64) { s.Total += v }

func (s *Sum) Merge(other *Sum) { s.Total += other.Total }

func (s *Sum) Compute() float64 { return s.Total }

func (s *Sum) ComputeValue() (model.Value, error) {
	return model.Scalar(s.Total), nil
}

// Average accumulates a total and a count and reports their ratio.
type Average struct {
	Total float64
	Count float64
}

func NewAverage(vs ...float64) *Average {
	a := &Average{}
	for _, v := range vs {
		a.Observe(v)
	}
	return a
}

func (a *Average) Observe(v float64) {
	a.Total += v
	a.Count++
}

func (a *Average) Merge(other *Average) {
	a.Total += other.Total
	a.Count += other.Count
}

func (a *Average) Compute() (float64, error) {
	if a.Count == 0 {
		return 0, ErrNoObservations
	}
	return a.Total / a.Count, nil
}

func (a *Average) ComputeValue() (model.Value, error) {
	v, err := a.Compute()
	if err != nil {
		return nil, err
	}
	return model.Scalar(v), nil
}

// Last keeps only the most recent observation.
type Last struct {
	Value float64
	seen  bool
}

func NewLast(v float64) *Last {
	l := &Last{}
	l.Observe(v)
	return l
}

func (l *Last) Observe(v float64) {
	l.Value = v
	l.seen = true
}

func (l *Last) Merge(other *Last) {
	if other.seen {
		l.Value = other.Value
		l.seen = true
	}
}

func (l *Last) ComputeValue() (model.Value, error) {
	if !l.seen {
		return nil, ErrNoObservations
	}
	return model.Scalar(l.Value), nil
}

// Static wraps an already-computed value. Useful for text and image results
// produced outside the accumulation protocol.
type Static struct {
	Value model.Value
}

func NewStatic(v model.Value) *Static { return &Static{Value: v} }

func (s *Static) ComputeValue() (model.Value, error) {
	if s.Value == nil {
		return nil, ErrNoObservations
	}
	return s.Value, nil
}

// Group bundles named sub-metrics; its computed value is a mapping, so the
// members end up flattened under the group's name.
type Group map[string]Metric

func (g Group) ComputeValue() (model.Value, error) {
	out := make(model.Mapping, len(g))
	for name, m := range g {
		v, err := m.ComputeValue()
		if err != nil {
			return nil, fmt.Errorf("compute group member %q: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}
