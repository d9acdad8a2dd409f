package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockLimiter(t *testing.T, limit int, window time.Duration) (*FixedWindowLimiter, redismock.ClientMock) {
	t.Helper()
	client, mock := redismock.NewClientMock()
	t.Cleanup(func() { _ = client.Close() })

	l := NewFixedWindowLimiter(NewFromClient(client), limit, window)
	l.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	return l, mock
}

func TestFixedWindowLimiter_Check(t *testing.T) {
	window := 15 * time.Minute
	key := "198.51.100.4"
	redisKey := rateLimitPrefix + hashKey(key)

	tests := []struct {
		name          string
		count         int64
		ttlMs         int64
		wantAllowed   bool
		wantRemaining int
		wantRetry     time.Duration
	}{
		{"first request", 1, 900000, true, 9, 0},
		{"last allowed", 10, 60000, true, 0, 0},
		{"over limit", 11, 30000, false, 0, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, mock := newMockLimiter(t, 10, window)

			mock.ExpectEvalSha(fixedWindowScript.Hash(), []string{redisKey}, window.Milliseconds()).
				SetVal([]interface{}{tt.count, tt.ttlMs})

			res, err := l.Check(context.Background(), key)
			require.NoError(t, err)

			assert.Equal(t, tt.wantAllowed, res.Allowed)
			assert.Equal(t, 10, res.Limit)
			assert.Equal(t, tt.wantRemaining, res.Remaining)
			assert.Equal(t, tt.wantRetry, res.RetryAfter)
			assert.Equal(t, l.now().Add(time.Duration(tt.ttlMs)*time.Millisecond), res.ResetAt)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestFixedWindowLimiter_CheckError(t *testing.T) {
	window := time.Minute
	key := "198.51.100.4"
	l, mock := newMockLimiter(t, 10, window)

	mock.ExpectEvalSha(fixedWindowScript.Hash(), []string{rateLimitPrefix + hashKey(key)}, window.Milliseconds()).
		SetErr(errors.New("connection reset"))

	res, err := l.Check(context.Background(), key)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestFixedWindowLimiter_UsesHashedKey(t *testing.T) {
	window := time.Minute
	key := "203.0.113.9"
	l, mock := newMockLimiter(t, 10, window)

	mock.ExpectEvalSha(fixedWindowScript.Hash(), []string{"ratelimit:feedback:" + hashKey(key)}, window.Milliseconds()).
		SetVal([]interface{}{int64(1), int64(60000)})

	_, err := l.Check(context.Background(), key)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
