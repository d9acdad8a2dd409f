package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/chinmayYpatil/Feedback-Form/internal/model"
)

func TestParseRating(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *int
	}{
		{"integer", `5`, intPtr(5)},
		{"zero", `0`, intPtr(0)},
		{"negative", `-2`, intPtr(-2)},
		{"integral float", `4.0`, intPtr(4)},
		{"exponent", `1e0`, intPtr(1)},
		{"padded", ` 3 `, intPtr(3)},
		{"fractional", `4.5`, nil},
		{"numeric string", `"5"`, nil},
		{"bool", `true`, nil},
		{"null", `null`, nil},
		{"absent", ``, nil},
		{"object", `{}`, nil},
		{"huge", `1e300`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseRating(json.RawMessage(tt.raw))
			switch {
			case tt.want == nil && got != nil:
				t.Fatalf("parseRating(%s) = %d, want nil", tt.raw, *got)
			case tt.want != nil && got == nil:
				t.Fatalf("parseRating(%s) = nil, want %d", tt.raw, *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Fatalf("parseRating(%s) = %d, want %d", tt.raw, *got, *tt.want)
			}
		})
	}
}

func TestToSubmission(t *testing.T) {
	var req CreateFeedbackRequest
	body := `{"fullName":"Jane Doe","email":42,"rating":5,"message":["not","a","string"]}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	sub := req.ToSubmission()
	if sub.FullName != "Jane Doe" {
		t.Errorf("FullName = %q", sub.FullName)
	}
	if sub.Email != "" {
		t.Errorf("non-string email should become empty, got %q", sub.Email)
	}
	if sub.Rating == nil || *sub.Rating != 5 {
		t.Errorf("Rating = %v", sub.Rating)
	}
	if sub.Message != "" {
		t.Errorf("non-string message should become empty, got %q", sub.Message)
	}
}

func TestToFeedbackCreatedResponse(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	resp := ToFeedbackCreatedResponse(&model.Feedback{ID: 7, CreatedAt: created})

	out, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"status":201,"message":"Feedback received!","data":{"id":7,"submittedAt":"2025-01-02T03:04:05Z"}}`
	if string(out) != want {
		t.Fatalf("body = %s, want %s", out, want)
	}
}

func intPtr(v int) *int { return &v }
