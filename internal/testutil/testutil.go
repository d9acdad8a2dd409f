package testutil

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/chinmayYpatil/Feedback-Form/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// OpenPool connects to Postgres and closes the pool when the test ends.
func OpenPool(t testing.TB, databaseURL string) *pgxpool.Pool {
	t.Helper()
	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// DropFeedbackTable removes the feedback table so a test starts from an empty schema.
func DropFeedbackTable(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS feedback"); err != nil {
		return fmt.Errorf("drop feedback table: %w", err)
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ============================================================================
// Test Data Factories
// ============================================================================

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// NewTestSubmission creates a submission that passes every field rule.
func NewTestSubmission(t testing.TB, email string) model.Submission {
	t.Helper()
	return model.Submission{
		FullName: "Test User",
		Email:    email,
		Rating:   IntPtr(4),
		Message:  "This is a perfectly fine message.",
	}
}

// ============================================================================
// In-memory store
// ============================================================================

// MemoryFeedbackStore keeps feedback records in memory. Ids start at 1 and
// increase by one per insert.
type MemoryFeedbackStore struct {
	mu      sync.Mutex
	records []model.Feedback
	nextID  int64

	// Err, when set, is returned by every InsertFeedback call.
	Err error
	// Now overrides the creation timestamp source.
	Now func() time.Time
}

// NewMemoryFeedbackStore creates an empty store.
func NewMemoryFeedbackStore() *MemoryFeedbackStore {
	return &MemoryFeedbackStore{nextID: 1}
}

// InsertFeedback stores a normalized submission.
func (s *MemoryFeedbackStore) InsertFeedback(_ context.Context, sub model.Submission) (*model.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	if sub.Rating == nil {
		return nil, fmt.Errorf("rating is required")
	}

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now()
	}

	fb := model.Feedback{
		ID:        s.nextID,
		FullName:  sub.FullName,
		Email:     sub.Email,
		Rating:    *sub.Rating,
		Message:   sub.Message,
		CreatedAt: now,
	}
	s.nextID++
	s.records = append(s.records, fb)

	out := fb
	return &out, nil
}

// Get returns the record with the given id.
func (s *MemoryFeedbackStore) Get(id int64) (model.Feedback, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, fb := range s.records {
		if fb.ID == id {
			return fb, true
		}
	}
	return model.Feedback{}, false
}

// Records returns a copy of every stored record in insertion order.
func (s *MemoryFeedbackStore) Records() []model.Feedback {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Feedback, len(s.records))
	copy(out, s.records)
	return out
}
