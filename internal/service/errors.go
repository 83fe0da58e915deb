package service

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// ValidationError is invalid input caught before any remote call
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Step names a stage of a relocation
type Step string

const (
	StepFetch          Step = "fetch"
	StepCreate         Step = "create"
	StepDeleteOriginal Step = "delete-original"
)

// RelocationError reports which step of a relocation failed
type RelocationError struct {
	Step   Step
	TaskID string
	Err    error
}

func (e *RelocationError) Error() string {
	return fmt.Sprintf("relocate task %s: %s step failed: %v", e.TaskID, e.Step, e.Err)
}

func (e *RelocationError) Unwrap() error {
	return e.Err
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// check runs struct validation and converts the first failure into a
// ValidationError
func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ValidationError{Field: fieldName(fe), Reason: reason(fe)}
	}
	return &ValidationError{Field: "input", Reason: err.Error()}
}

func fieldName(fe validator.FieldError) string {
	switch fe.Field() {
	case "Content":
		return "content"
	case "Name":
		return "name"
	case "ID":
		return "id"
	case "Destination":
		return "destination"
	case "Priority":
		return "priority"
	default:
		return fe.Field()
	}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}
