package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/chinmayYpatil/Feedback-Form/internal/model"
)

// Common errors for feedback repository operations.
var (
	ErrStoreWrite          = errors.New("feedback write failed")
	ErrConstraintViolation = errors.New("feedback violates table constraint")
	ErrFeedbackNotFound    = errors.New("feedback not found")
	ErrInvalidSubmission   = errors.New("submission has no rating")
)

// PostgreSQL error codes for integrity violations.
const (
	pgNotNullViolation = "23502"
	pgCheckViolation   = "23514"
)

// feedbackSchema mirrors the validator rules as check constraints so rows
// written around the application still satisfy them.
var feedbackSchema = fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS feedback (
		id SERIAL PRIMARY KEY,
		full_name VARCHAR(255) NOT NULL CHECK (LENGTH(TRIM(full_name)) > 0),
		email VARCHAR(255) NOT NULL CHECK (email ~* '%s'),
		rating INTEGER NOT NULL CHECK (rating >= %d AND rating <= %d),
		message TEXT NOT NULL CHECK (LENGTH(message) >= %d),
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	)
`, model.EmailPattern, model.MinRating, model.MaxRating, model.MinMessageLength)

// EnsureSchema creates the feedback table if it does not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, feedbackSchema); err != nil {
		return fmt.Errorf("failed to create feedback table: %w", err)
	}
	return nil
}

// InsertFeedback stores a normalized submission. The database assigns the
// id and created_at of the returned record.
func (r *Repository) InsertFeedback(ctx context.Context, sub model.Submission) (*model.Feedback, error) {
	if sub.Rating == nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreWrite, ErrInvalidSubmission)
	}

	query := `
		INSERT INTO feedback (full_name, email, rating, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	fb := &model.Feedback{
		FullName: sub.FullName,
		Email:    sub.Email,
		Rating:   *sub.Rating,
		Message:  sub.Message,
	}

	err := r.db.QueryRow(ctx, query,
		fb.FullName,
		fb.Email,
		fb.Rating,
		fb.Message,
	).Scan(&fb.ID, &fb.CreatedAt)

	if err != nil {
		if isConstraintViolation(err) {
			return nil, fmt.Errorf("%w: %w: %w", ErrStoreWrite, ErrConstraintViolation, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}

	return fb, nil
}

// GetFeedbackByID retrieves a stored feedback record.
func (r *Repository) GetFeedbackByID(ctx context.Context, id int64) (*model.Feedback, error) {
	query := `
		SELECT id, full_name, email, rating, message, created_at
		FROM feedback
		WHERE id = $1
	`

	var fb model.Feedback
	err := r.db.QueryRow(ctx, query, id).Scan(
		&fb.ID,
		&fb.FullName,
		&fb.Email,
		&fb.Rating,
		&fb.Message,
		&fb.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("failed to get feedback by ID: %w", err)
	}

	return &fb, nil
}

func isConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgCheckViolation || pgErr.Code == pgNotNullViolation
}
