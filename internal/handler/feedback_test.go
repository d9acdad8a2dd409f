package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chinmayYpatil/Feedback-Form/internal/handler/dto"
	"github.com/chinmayYpatil/Feedback-Form/internal/middleware"
	"github.com/chinmayYpatil/Feedback-Form/internal/model"
	"github.com/chinmayYpatil/Feedback-Form/internal/service"
	"github.com/chinmayYpatil/Feedback-Form/internal/testutil"
)

type stubSubmitter struct {
	got model.Submission
	fb  *model.Feedback
	err error
}

func (s *stubSubmitter) Submit(_ context.Context, sub model.Submission) (*model.Feedback, error) {
	s.got = sub
	return s.fb, s.err
}

func postFeedback(h *FeedbackHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/feedback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Submit(rec, req)
	return rec
}

func TestFeedbackHandler_Created(t *testing.T) {
	store := testutil.NewMemoryFeedbackStore()
	created := time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)
	store.Now = func() time.Time { return created }

	var logs bytes.Buffer
	h := NewFeedbackHandler(service.NewFeedbackService(store, nil), slog.New(slog.NewJSONHandler(&logs, nil)))

	rec := postFeedback(h, `{"fullName":"Jane Doe","email":"jane@example.com","rating":5,"message":"Great service, will return!"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp dto.FeedbackCreatedResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 201, resp.Status)
	assert.Equal(t, "Feedback received!", resp.Message)
	assert.Equal(t, int64(1), resp.Data.ID)
	assert.True(t, created.Equal(resp.Data.SubmittedAt))

	stored, ok := store.Get(resp.Data.ID)
	require.True(t, ok)
	assert.Equal(t, "jane@example.com", stored.Email)

	assert.Contains(t, logs.String(), `"msg":"feedback_received"`)
	assert.NotContains(t, logs.String(), "jane@example.com")
}

func TestFeedbackHandler_ValidationFailed(t *testing.T) {
	store := testutil.NewMemoryFeedbackStore()
	h := NewFeedbackHandler(service.NewFeedbackService(store, nil), testLogger())

	rec := postFeedback(h, `{"fullName":"","email":"x","rating":9,"message":"hi"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp dto.ValidationErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 400, resp.Status)
	assert.Equal(t, "Validation Failed", resp.Title)
	assert.Equal(t, []string{
		"Full Name is required.",
		"A valid Email is required.",
		"Rating must be 1-5.",
		"Message must be at least 10 chars.",
	}, resp.Errors)
	assert.Empty(t, store.Records())
}

func TestFeedbackHandler_RatingNotCoerced(t *testing.T) {
	tests := []struct {
		name   string
		rating string
	}{
		{"string", `"5"`},
		{"fraction", `4.5`},
		{"bool", `true`},
		{"null", `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewFeedbackHandler(service.NewFeedbackService(testutil.NewMemoryFeedbackStore(), nil), testLogger())

			rec := postFeedback(h, `{"fullName":"Jane","email":"jane@example.com","rating":`+tt.rating+`,"message":"Great service, will return!"}`)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var resp dto.ValidationErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, []string{"Rating must be 1-5."}, resp.Errors)
		})
	}
}

func TestFeedbackHandler_MissingRating(t *testing.T) {
	h := NewFeedbackHandler(service.NewFeedbackService(testutil.NewMemoryFeedbackStore(), nil), testLogger())

	rec := postFeedback(h, `{"fullName":"Jane","email":"jane@example.com","message":"Great service, will return!"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Rating must be 1-5.")
}

func TestFeedbackHandler_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ``},
		{"truncated", `{"fullName":"Jane"`},
		{"array", `[1,2,3]`},
		{"string", `"hello"`},
		{"trailing data", `{"fullName":"Jane"} {"x":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &stubSubmitter{}
			h := NewFeedbackHandler(sub, testLogger())

			rec := postFeedback(h, tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var resp dto.ValidationErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, "Invalid Request Body", resp.Title)
			assert.Equal(t, []string{"Request body must be a valid JSON object."}, resp.Errors)
			assert.Equal(t, model.Submission{}, sub.got)
		})
	}
}

func TestFeedbackHandler_BodyTooLarge(t *testing.T) {
	h := NewFeedbackHandler(&stubSubmitter{}, testLogger())
	wrapped := middleware.MaxBodySize(16)(http.HandlerFunc(h.Submit))

	req := httptest.NewRequest(http.MethodPost, "/api/feedback",
		strings.NewReader(`{"fullName":"`+strings.Repeat("a", 64)+`"}`))
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestFeedbackHandler_StoreFailure(t *testing.T) {
	store := testutil.NewMemoryFeedbackStore()
	store.Err = errors.New("relation \"feedback\" does not exist")

	var logs bytes.Buffer
	h := NewFeedbackHandler(service.NewFeedbackService(store, nil), slog.New(slog.NewJSONHandler(&logs, nil)))

	rec := postFeedback(h, `{"fullName":"Jane Doe","email":"jane@example.com","rating":5,"message":"Great service, will return!"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, dto.ErrorResponse{
		Status:  500,
		Error:   "Internal Server Error",
		Message: "Failed to save feedback.",
	}, resp)

	assert.NotContains(t, rec.Body.String(), "relation")
	assert.Contains(t, logs.String(), "feedback_save_failed")
}
