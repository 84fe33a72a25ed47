package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOpen_Validation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		url     string
		wantErr error
	}{
		{name: "empty", url: "", wantErr: ErrEmptyConnectionURL},
		{name: "http scheme", url: "http://localhost:6379", wantErr: ErrFailedToParseURL},
		{name: "no scheme", url: "localhost:6379", wantErr: ErrFailedToParseURL},
		{name: "postgres scheme", url: "postgresql://localhost:5432", wantErr: ErrFailedToParseURL},
		{name: "invalid port", url: "redis://localhost:notaport", wantErr: ErrFailedToParseURL},
		{name: "invalid database", url: "redis://localhost:6379/notanumber", wantErr: ErrFailedToParseURL},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client, err := Open(context.Background(), tc.url)
			require.Nil(t, client)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestOpen_Unreachable(t *testing.T) {
	t.Parallel()

	// Port 1 is never a Redis server; one attempt keeps the test fast.
	client, err := Open(context.Background(), "redis://127.0.0.1:1/0",
		WithRetry(1, time.Millisecond),
		WithDialTimeout(50*time.Millisecond),
	)
	require.Nil(t, client)
	require.ErrorIs(t, err, ErrConnectionFailed)
}

func TestHealthcheck_NilClient(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, Healthcheck(nil)(context.Background()), ErrHealthcheckFailed)
}

func TestWait(t *testing.T) {
	t.Parallel()

	t.Run("cancelled context returns immediately", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		start := time.Now()
		require.ErrorIs(t, wait(ctx, 10*time.Second), context.Canceled)
		require.Less(t, time.Since(start), time.Second)
	})

	t.Run("full interval elapses", func(t *testing.T) {
		t.Parallel()

		start := time.Now()
		require.NoError(t, wait(context.Background(), 20*time.Millisecond))
		require.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})

	t.Run("cancel during wait", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()

		require.ErrorIs(t, wait(ctx, 10*time.Second), context.DeadlineExceeded)
	})
}

func TestOptions(t *testing.T) {
	t.Parallel()

	t.Run("defaults fail fast", func(t *testing.T) {
		t.Parallel()

		opts := defaultOptions()
		require.Equal(t, 10, opts.poolSize)
		require.Equal(t, 2, opts.minIdleConns)
		require.Equal(t, 5*time.Minute, opts.maxIdleTime)
		require.Equal(t, 3, opts.retryAttempts)
		require.Equal(t, time.Second, opts.retryInterval)
		require.Equal(t, time.Second, opts.readTimeout)
		require.Equal(t, time.Second, opts.writeTimeout)
		require.Equal(t, 2*time.Second, opts.dialTimeout)
	})

	t.Run("options override in order", func(t *testing.T) {
		t.Parallel()

		opts := defaultOptions()
		for _, opt := range []Option{
			WithPoolSize(20),
			WithMinIdleConns(8),
			WithMaxIdleTime(time.Minute),
			WithRetry(7, 2*time.Second),
			WithReadTimeout(300 * time.Millisecond),
			WithWriteTimeout(400 * time.Millisecond),
			WithDialTimeout(500 * time.Millisecond),
			WithPoolSize(30),
		} {
			opt(opts)
		}

		require.Equal(t, 30, opts.poolSize)
		require.Equal(t, 8, opts.minIdleConns)
		require.Equal(t, time.Minute, opts.maxIdleTime)
		require.Equal(t, 7, opts.retryAttempts)
		require.Equal(t, 2*time.Second, opts.retryInterval)
		require.Equal(t, 300*time.Millisecond, opts.readTimeout)
		require.Equal(t, 400*time.Millisecond, opts.writeTimeout)
		require.Equal(t, 500*time.Millisecond, opts.dialTimeout)
	})
}

func TestConfig_Options(t *testing.T) {
	t.Parallel()

	t.Run("applies non-zero fields", func(t *testing.T) {
		t.Parallel()

		cfg := Config{
			URL:           "redis://localhost:6379/0",
			PoolSize:      32,
			MinIdleConns:  4,
			DialTimeout:   250 * time.Millisecond,
			ReadTimeout:   100 * time.Millisecond,
			WriteTimeout:  150 * time.Millisecond,
			RetryAttempts: 5,
			RetryInterval: 2 * time.Second,
		}

		opts := defaultOptions()
		for _, opt := range cfg.Options() {
			opt(opts)
		}

		require.Equal(t, 32, opts.poolSize)
		require.Equal(t, 4, opts.minIdleConns)
		require.Equal(t, 250*time.Millisecond, opts.dialTimeout)
		require.Equal(t, 100*time.Millisecond, opts.readTimeout)
		require.Equal(t, 150*time.Millisecond, opts.writeTimeout)
		require.Equal(t, 5, opts.retryAttempts)
		require.Equal(t, 2*time.Second, opts.retryInterval)
	})

	t.Run("zero config keeps defaults", func(t *testing.T) {
		t.Parallel()

		require.Empty(t, Config{}.Options())
	})

	t.Run("OpenConfig validates URL", func(t *testing.T) {
		t.Parallel()

		client, err := OpenConfig(context.Background(), Config{})
		require.Nil(t, client)
		require.ErrorIs(t, err, ErrEmptyConnectionURL)
	})
}
