// Package flatten turns nested metric values into a flat, ordered set of
// path-keyed leaves.
//
// Sequence elements extend the path with "_{index}", mapping keys with
// "/{key}". The delimiter at each nesting level depends only on the
// container at that level, so a sequence inside a mapping yields
// "name/key_0" while a mapping inside a sequence yields "name_0/key".
package flatten

import (
	"errors"
	"fmt"
	"sort"

	"github.com/and161185/metrics-summary/metric"
	"github.com/and161185/metrics-summary/model"
)

var ErrDuplicatePath = errors.New("duplicate flattened path")
var ErrUnsupportedValue = errors.New("unsupported value")

// Entry is one flattened leaf: a unique path and a Scalar, Text or Image.
type Entry struct {
	Path  string
	Value model.Value
}

// Flat holds flattened entries in emission order. Order matters: summary
// writes follow it, and Go maps alone would not preserve it.
type Flat struct {
	entries []Entry
	index   map[string]int
}

func (f *Flat) Len() int { return len(f.entries) }

// Entries returns the flattened leaves in emission order.
func (f *Flat) Entries() []Entry { return f.entries }

// Paths returns the flattened paths in emission order.
func (f *Flat) Paths() []string {
	paths := make([]string, len(f.entries))
	for i, e := range f.entries {
		paths[i] = e.Path
	}
	return paths
}

// Get returns the leaf stored under path.
func (f *Flat) Get(path string) (model.Value, bool) {
	i, ok := f.index[path]
	if !ok {
		return nil, false
	}
	return f.entries[i].Value, true
}

// Flatten computes every metric's value and flattens the results into one
// flat set of entries. Metric names are processed in sorted order so the
// emission order is deterministic.
func Flatten(metrics map[string]metric.Metric) (*Flat, error) {
	values := make(map[string]model.Value, len(metrics))
	for name, m := range metrics {
		v, err := m.ComputeValue()
		if err != nil {
			return nil, fmt.Errorf("compute metric %q: %w", name, err)
		}
		values[name] = v
	}
	return Values(values)
}

// Values flattens already-computed values. A value that is itself a leaf is
// emitted under its own name with no suffix; empty containers emit nothing.
func Values(values map[string]model.Value) (*Flat, error) {
	f := &Flat{index: make(map[string]int)}
	for _, name := range sortedKeys(values) {
		if err := f.add(name, values[name]); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (f *Flat) add(path string, v model.Value) error {
	switch val := v.(type) {
	case model.Scalar, model.Text, model.Image:
		return f.emit(path, v)
	case model.Sequence:
		for i, sub := range val {
			if err := f.add(fmt.Sprintf("%s_%d", path, i), sub); err != nil {
				return err
			}
		}
		return nil
	case model.Mapping:
		for _, key := range sortedKeys(val) {
			if err := f.add(path+"/"+key, val[key]); err != nil {
				return err
			}
		}
		return nil
	case nil:
		return fmt.Errorf("%w: nil value at %q", ErrUnsupportedValue, path)
	default:
		return fmt.Errorf("%w: %T at %q", ErrUnsupportedValue, v, path)
	}
}

func (f *Flat) emit(path string, v model.Value) error {
	if _, ok := f.index[path]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicatePath, path)
	}
	f.index[path] = len(f.entries)
	f.entries = append(f.entries, Entry{Path: path, Value: v})
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
