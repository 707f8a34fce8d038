package utils

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestWithRetry_NoError(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestWithRetry_NonRetriableReturnsImmediately(t *testing.T) {
	calls := 0
	wantErr := errors.New("fatal")
	err := WithRetry(context.Background(), func() error {
		calls++
		return wantErr
	})
	require.ErrorIs(t, err, wantErr)
	require.Equal(t, 1, calls)
}

func TestWithRetry_CancelledContextStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	start := time.Now()
	err := WithRetry(ctx, func() error {
		calls++
		return &net.OpError{Op: "dial", Err: errors.New("refused")}
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
	require.Less(t, time.Since(start), time.Second)
}

func TestIsRetriable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"pg connection failure", &pgconn.PgError{Code: pgerrcode.ConnectionFailure}, true},
		{"pg too many connections", &pgconn.PgError{Code: pgerrcode.TooManyConnections}, true},
		{"pg syntax error", &pgconn.PgError{Code: pgerrcode.SyntaxError}, false},
		{"net op error", &net.OpError{Op: "dial", Err: errors.New("refused")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, isRetriable(tt.err))
		})
	}
}

func TestPointers(t *testing.T) {
	require.Equal(t, 1.5, *F64Ptr(1.5))
	require.Equal(t, int64(7), *I64Ptr(7))
	require.Equal(t, "hi", *StrPtr("hi"))
}
