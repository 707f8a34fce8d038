package jsonfile

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/and161185/metrics-summary/model"
	"github.com/and161185/metrics-summary/summary"
)

func TestStore_WriteAndRead(t *testing.T) {
	ctx := context.Background()
	file := filepath.Join(t.TempDir(), "summaries.jsonl")

	st, err := Open(file)
	require.NoError(t, err)

	require.NoError(t, st.WriteScalar(ctx, "loss", 0.5, 0))
	require.NoError(t, st.WriteText(ctx, "banner", "run 1", 0))
	require.NoError(t, st.WriteImage(ctx, "sample", model.Ones(12, 12, 3), 1))
	require.NoError(t, st.Close())

	records, err := Read(file)
	require.NoError(t, err)
	require.Len(t, records, 3)

	require.Equal(t, "loss", records[0].Path)
	require.Equal(t, model.KindScalar, records[0].Kind)
	require.Equal(t, 0.5, *records[0].Scalar)

	require.Equal(t, "banner", records[1].Path)
	require.Equal(t, "run 1", *records[1].Text)

	require.Equal(t, "sample", records[2].Path)
	require.Equal(t, int64(1), records[2].Step)
	require.Equal(t, []int{12, 12, 3}, records[2].Image.Shape)
}

func TestStore_AppendAcrossOpens(t *testing.T) {
	ctx := context.Background()
	file := filepath.Join(t.TempDir(), "summaries.jsonl")

	st, err := Open(file)
	require.NoError(t, err)
	require.NoError(t, st.Append(ctx, []model.Record{summary.ScalarRecord("a", 1, 0)}))
	require.NoError(t, st.Close())

	st, err = Open(file)
	require.NoError(t, err)
	require.NoError(t, st.Append(ctx, []model.Record{summary.ScalarRecord("b", 2, 1)}))
	require.NoError(t, st.Close())

	records, err := Read(file)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "a", records[0].Path)
	require.Equal(t, "b", records[1].Path)
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent.jsonl"))
	require.Error(t, err)
}

func TestStore_UsableAsSummaryWriter(t *testing.T) {
	file := filepath.Join(t.TempDir(), "summaries.jsonl")

	st, err := Open(file)
	require.NoError(t, err)
	defer st.Close()

	var w summary.Writer = st
	require.NoError(t, w.WriteScalar(context.Background(), "loss", 0.1, 0))
}
