package errors

import (
	"testing"
)

func TestValidationErrorMessage(t *testing.T) {
	err := NewValidationError("questionId", "question 7 does not belong to song 0b7d2c", uint(7))

	if err.Field != "questionId" {
		t.Errorf("field = %q, want 'questionId'", err.Field)
	}
	if err.Value != uint(7) {
		t.Errorf("value = %v, want 7", err.Value)
	}

	want := "validation error on field 'questionId': question 7 does not belong to song 0b7d2c"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestValidationErrorsAggregation(t *testing.T) {
	var errs ValidationErrors

	if got := errs.Error(); got != "validation failed" {
		t.Errorf("empty Error() = %q, want 'validation failed'", got)
	}

	// One offender names the field; a submission missing one question reads
	// like "validation failed: answers question 3 is not answered".
	errs = append(errs, *NewValidationError("answers", "question 3 is not answered", nil))
	if got, want := errs.Error(), "validation failed: answers question 3 is not answered"; got != want {
		t.Errorf("single Error() = %q, want %q", got, want)
	}

	// More than one collapses to a count so the message stays bounded.
	errs = append(errs, *NewValidationError("questionOptionId", "option 12 does not belong to question 2", int64(12)))
	if got, want := errs.Error(), "validation failed: 2 field errors"; got != want {
		t.Errorf("multi Error() = %q, want %q", got, want)
	}
}

func TestValidationErrorCarriesRule(t *testing.T) {
	err := NewValidationErrorWithRule("openedAnswer", "open answer must not be empty", "required", "   ")

	if err.Rule != "required" {
		t.Errorf("rule = %q, want 'required'", err.Rule)
	}
	if err.Field != "openedAnswer" {
		t.Errorf("field = %q, want 'openedAnswer'", err.Field)
	}
}
