package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/chinmayYpatil/Feedback-Form/internal/handler/dto"
	"github.com/chinmayYpatil/Feedback-Form/internal/middleware"
	"github.com/chinmayYpatil/Feedback-Form/internal/model"
	"github.com/chinmayYpatil/Feedback-Form/internal/service"
)

const (
	titleValidationFailed = "Validation Failed"
	titleInvalidBody      = "Invalid Request Body"
	msgInvalidBody        = "Request body must be a valid JSON object."
	msgSaveFailed         = "Failed to save feedback."
)

// FeedbackSubmitter validates and stores a submission.
type FeedbackSubmitter interface {
	Submit(ctx context.Context, sub model.Submission) (*model.Feedback, error)
}

// FeedbackHandler handles HTTP requests for feedback intake.
type FeedbackHandler struct {
	svc    FeedbackSubmitter
	logger *slog.Logger
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(svc FeedbackSubmitter, logger *slog.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		svc:    svc,
		logger: logger,
	}
}

// Submit handles POST /api/feedback.
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	req, err := decodeFeedbackRequest(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large.")
			return
		}
		writeJSON(w, http.StatusBadRequest, dto.ValidationErrorResponse{
			Status: http.StatusBadRequest,
			Title:  titleInvalidBody,
			Errors: []string{msgInvalidBody},
		})
		return
	}

	fb, err := h.svc.Submit(r.Context(), req.ToSubmission())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("feedback_received",
		"feedback_id", fb.ID,
		"rating", fb.Rating,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	writeJSON(w, http.StatusCreated, dto.ToFeedbackCreatedResponse(fb))
}

func decodeFeedbackRequest(body io.Reader) (dto.CreateFeedbackRequest, error) {
	var req dto.CreateFeedbackRequest
	dec := json.NewDecoder(body)
	if err := dec.Decode(&req); err != nil {
		return req, err
	}
	// Reject trailing data after the object.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after JSON object")
		}
		return req, err
	}
	return req, nil
}

// handleServiceError maps service errors to HTTP responses.
func (h *FeedbackHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, dto.ValidationErrorResponse{
			Status: http.StatusBadRequest,
			Title:  titleValidationFailed,
			Errors: verr.Errors,
		})
		return
	}

	h.logger.Error("feedback_save_failed",
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
	)
	writeError(w, http.StatusInternalServerError, msgSaveFailed)
}
