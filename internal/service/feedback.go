// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chinmayYpatil/Feedback-Form/internal/metrics"
	"github.com/chinmayYpatil/Feedback-Form/internal/model"
)

// ErrSaveFailed is returned when a valid submission could not be persisted.
var ErrSaveFailed = errors.New("failed to save feedback")

// FeedbackStore persists normalized submissions.
type FeedbackStore interface {
	InsertFeedback(ctx context.Context, sub model.Submission) (*model.Feedback, error)
}

// FeedbackService runs the validate-then-persist part of the intake pipeline.
type FeedbackService struct {
	store   FeedbackStore
	metrics metrics.Recorder
}

// NewFeedbackService creates a new FeedbackService.
func NewFeedbackService(store FeedbackStore, recorder metrics.Recorder) *FeedbackService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &FeedbackService{
		store:   store,
		metrics: recorder,
	}
}

// Submit validates a submission and stores it.
// Returns *ValidationError when the submission breaks any field rule, and an
// error wrapping ErrSaveFailed when the store rejects the write. Writes are
// never retried.
func (s *FeedbackService) Submit(ctx context.Context, sub model.Submission) (*model.Feedback, error) {
	normalized, errs := Validate(sub)
	if len(errs) > 0 {
		s.metrics.IncFeedbackRejected(metrics.ReasonValidation)
		return nil, &ValidationError{Errors: errs}
	}

	start := time.Now()
	feedback, err := s.store.InsertFeedback(ctx, normalized)
	s.metrics.ObserveInsertDuration(time.Since(start))
	if err != nil {
		s.metrics.IncFeedbackRejected(metrics.ReasonStoreError)
		return nil, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	s.metrics.IncFeedbackAccepted()
	return feedback, nil
}
