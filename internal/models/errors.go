package models

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("not found")

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidateCreate checks the fields a new customer cannot be stored without.
func ValidateCreate(in CustomerCreateInput) error {
	if strings.TrimSpace(in.FirstName) == "" {
		return NewValidationError("first_name", "is required")
	}
	if strings.TrimSpace(in.QRURL) == "" {
		return NewValidationError("qr_url", "is required")
	}
	return nil
}

// ValidateUpdate rejects blanking a required field; omitted fields are fine.
func ValidateUpdate(in CustomerUpdateInput) error {
	if in.FirstName != nil && strings.TrimSpace(*in.FirstName) == "" {
		return NewValidationError("first_name", "must not be empty")
	}
	if in.QRURL != nil && strings.TrimSpace(*in.QRURL) == "" {
		return NewValidationError("qr_url", "must not be empty")
	}
	for _, f := range in.Clear {
		if f == "first_name" || f == "qr_url" {
			return NewValidationError(f, "must not be empty")
		}
		if !ClearableFields[f] {
			return NewValidationError(f, "cannot be cleared")
		}
	}
	return nil
}
