package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConnectMongo_InvalidURI(t *testing.T) {
	_, err := ConnectMongo(context.Background(), "not-a-mongo-uri", time.Second)
	require.Error(t, err)
	require.Contains(t, err.Error(), "mongo connect")
}

func TestConnectMongoWithRetry_ReportsEachAttempt(t *testing.T) {
	var attempts []int
	_, err := ConnectMongoWithRetry(context.Background(), "not-a-mongo-uri", time.Second, 1, func(n int, err error) {
		attempts = append(attempts, n)
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "after 1 attempts")
	require.Equal(t, []int{1}, attempts)
}

func TestConnectMongoWithRetry_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := ConnectMongoWithRetry(ctx, "not-a-mongo-uri", time.Second, 5, func(int, error) {
		calls++
		cancel()
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)
}
