package metric

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/and161185/metrics-summary/model"
)

func TestSum(t *testing.T) {
	s := NewSum(1, 2, 3)
	require.Equal(t, 6.0, s.Compute())

	s.Merge(NewSum(4))
	v, err := s.ComputeValue()
	require.NoError(t, err)
	require.Equal(t, model.Scalar(10), v)
}

func TestAverage(t *testing.T) {
	a := NewAverage(2, 4)

	got, err := a.Compute()
	require.NoError(t, err)
	require.Equal(t, 3.0, got)

	a.Merge(NewAverage(6, 8))
	v, err := a.ComputeValue()
	require.NoError(t, err)
	require.Equal(t, model.Scalar(5), v)
}

func TestAverage_NoObservations(t *testing.T) {
	a := &Average{}

	_, err := a.Compute()
	require.ErrorIs(t, err, ErrNoObservations)

	_, err = a.ComputeValue()
	require.ErrorIs(t, err, ErrNoObservations)
}

func TestLast(t *testing.T) {
	l := NewLast(1)
	l.Observe(2)

	v, err := l.ComputeValue()
	require.NoError(t, err)
	require.Equal(t, model.Scalar(2), v)

	l.Merge(&Last{})
	v, err = l.ComputeValue()
	require.NoError(t, err)
	require.Equal(t, model.Scalar(2), v)

	l.Merge(NewLast(7))
	v, err = l.ComputeValue()
	require.NoError(t, err)
	require.Equal(t, model.Scalar(7), v)
}

func TestLast_NoObservations(t *testing.T) {
	l := &Last{}
	_, err := l.ComputeValue()
	require.ErrorIs(t, err, ErrNoObservations)
}

func TestStatic(t *testing.T) {
	img := model.Ones(12, 12, 3)

	v, err := NewStatic(img).ComputeValue()
	require.NoError(t, err)
	require.Equal(t, img, v)

	_, err = (&Static{}).ComputeValue()
	require.ErrorIs(t, err, ErrNoObservations)
}

func TestGroup(t *testing.T) {
	g := Group{
		"loss":   NewAverage(2, 4),
		"banner": NewStatic(model.Text("run 1")),
	}

	v, err := g.ComputeValue()
	require.NoError(t, err)

	m, ok := v.(model.Mapping)
	require.True(t, ok)
	require.Equal(t, model.Scalar(3), m["loss"])
	require.Equal(t, model.Text("run 1"), m["banner"])
}

func TestGroup_MemberError(t *testing.T) {
	g := Group{"empty": &Average{}}

	_, err := g.ComputeValue()
	require.ErrorIs(t, err, ErrNoObservations)
	require.Contains(t, err.Error(), `"empty"`)
}
