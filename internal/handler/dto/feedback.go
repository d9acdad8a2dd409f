// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/chinmayYpatil/Feedback-Form/internal/model"
)

// maxIntegralRating bounds the float-to-int conversion; anything larger
// fails the rating rule either way.
const maxIntegralRating = 1e9

// CreateFeedbackRequest represents the request body for a feedback submission.
// Fields are kept raw so that values of the wrong JSON type surface as
// validation errors rather than as a malformed body.
type CreateFeedbackRequest struct {
	FullName json.RawMessage `json:"fullName"`
	Email    json.RawMessage `json:"email"`
	Rating   json.RawMessage `json:"rating"`
	Message  json.RawMessage `json:"message"`
}

// ToSubmission converts the request into a domain submission.
func (r CreateFeedbackRequest) ToSubmission() model.Submission {
	return model.Submission{
		FullName: parseString(r.FullName),
		Email:    parseString(r.Email),
		Rating:   parseRating(r.Rating),
		Message:  parseString(r.Message),
	}
}

// parseString returns the value of a JSON string, or "" for any other type.
func parseString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// parseRating accepts only JSON numbers with an integral value.
// Strings such as "5", booleans, null and fractional numbers yield nil.
func parseRating(raw json.RawMessage) *int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	if c := raw[0]; c != '-' && (c < '0' || c > '9') {
		return nil
	}

	v, err := strconv.ParseFloat(string(raw), 64)
	if err != nil || v != math.Trunc(v) || math.Abs(v) > maxIntegralRating {
		return nil
	}

	n := int(v)
	return &n
}

// FeedbackReceipt identifies a stored submission.
type FeedbackReceipt struct {
	ID          int64     `json:"id"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// FeedbackCreatedResponse is returned with 201 Created.
type FeedbackCreatedResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    FeedbackReceipt `json:"data"`
}

// ToFeedbackCreatedResponse converts a stored record to the 201 body.
func ToFeedbackCreatedResponse(fb *model.Feedback) FeedbackCreatedResponse {
	return FeedbackCreatedResponse{
		Status:  201,
		Message: "Feedback received!",
		Data: FeedbackReceipt{
			ID:          fb.ID,
			SubmittedAt: fb.CreatedAt,
		},
	}
}

// ValidationErrorResponse lists every violated field rule.
type ValidationErrorResponse struct {
	Status int      `json:"status"`
	Title  string   `json:"title"`
	Errors []string `json:"errors"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
