package service

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/chinmayYpatil/Feedback-Form/internal/model"
)

// Validation messages, reported in this order.
const (
	MsgFullNameRequired = "Full Name is required."
	MsgEmailInvalid     = "A valid Email is required."
	MsgRatingInvalid    = "Rating must be 1-5."
	MsgMessageTooShort  = "Message must be at least 10 chars."
)

var emailRegex = regexp.MustCompile(model.EmailPattern)

// feedbackRules carries the normalized fields through the struct validator.
// min on a string counts runes. Tag bounds match model.MinRating,
// model.MaxRating and model.MinMessageLength.
type feedbackRules struct {
	FullName string `validate:"required"`
	Email    string `validate:"feedback_email"`
	Rating   *int   `validate:"required,min=1,max=5"`
	Message  string `validate:"min=10"`
}

// ruleMessages lists each field with its message in reporting order.
var ruleMessages = []struct {
	field   string
	message string
}{
	{"FullName", MsgFullNameRequired},
	{"Email", MsgEmailInvalid},
	{"Rating", MsgRatingInvalid},
	{"Message", MsgMessageTooShort},
}

var rules = newRuleValidator()

func newRuleValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("feedback_email", func(fl validator.FieldLevel) bool {
		return emailRegex.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// ValidationError carries every rule a submission violated.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, " ")
}

// Validate checks a submission against all field rules and returns the
// normalized submission (trimmed strings, lower-cased email).
// Every rule is evaluated; on failure the returned slice lists one message
// per violated rule in the order fullName, email, rating, message.
func Validate(sub model.Submission) (model.Submission, []string) {
	normalized := model.Submission{
		FullName: strings.TrimSpace(sub.FullName),
		Email:    strings.ToLower(strings.TrimSpace(sub.Email)),
		Message:  strings.TrimSpace(sub.Message),
	}
	if sub.Rating != nil {
		rating := *sub.Rating
		normalized.Rating = &rating
	}

	err := rules.Struct(feedbackRules{
		FullName: normalized.FullName,
		Email:    normalized.Email,
		Rating:   normalized.Rating,
		Message:  normalized.Message,
	})
	if err == nil {
		return normalized, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Only reachable with an invalid rules definition.
		panic(err)
	}

	failed := make(map[string]bool, len(fieldErrs))
	for _, fe := range fieldErrs {
		failed[fe.StructField()] = true
	}

	errs := make([]string, 0, len(failed))
	for _, rule := range ruleMessages {
		if failed[rule.field] {
			errs = append(errs, rule.message)
		}
	}

	return model.Submission{}, errs
}
