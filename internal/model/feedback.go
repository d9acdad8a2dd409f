// Package model defines domain entities for the application.
package model

import "time"

// Field rules shared by the application validator and the storage schema.
const (
	// EmailPattern is the basic local@domain.tld syntax accepted for emails.
	EmailPattern = `^[A-Za-z0-9._%-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,4}$`

	MinRating = 1
	MaxRating = 5

	// MinMessageLength is counted in characters after trimming.
	MinMessageLength = 10
)

// Submission is a feedback form payload as received from a client.
// Rating is nil when the client sent no rating or a value that is not an
// integral JSON number.
type Submission struct {
	FullName string
	Email    string
	Rating   *int
	Message  string
}

// Feedback is a persisted feedback record. Records are create-only.
type Feedback struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Rating    int       `json:"rating"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
