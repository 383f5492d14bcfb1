package serrors

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Base is a coded error that survives transport boundaries: the code is
// stable, the message is for operators.
type Base struct {
	Code    string
	Message string
	Field   string
}

func (e *Base) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code, message, field string) *Base {
	return &Base{Code: code, Message: message, Field: field}
}

type ValidationErrors map[string]*Base

func (v ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(v))
}

// ProcessValidatorErrors converts go-playground validator errors into
// coded per-field errors keyed by struct field name.
func ProcessValidatorErrors(errs validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, err := range errs {
		out[err.Field()] = NewError(
			fmt.Sprintf("VALIDATION_%s", err.Tag()),
			fmt.Sprintf("failed on the '%s' tag", err.Tag()),
			err.Field(),
		)
	}
	return out
}
