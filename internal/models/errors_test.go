package models

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestValidateCreate(t *testing.T) {
	require.NoError(t, ValidateCreate(CustomerCreateInput{FirstName: "Ada", QRURL: "https://example.com/ada"}))

	err := ValidateCreate(CustomerCreateInput{QRURL: "https://example.com"})
	require.True(t, IsValidationError(err))
	require.Contains(t, err.Error(), "first_name")

	err = ValidateCreate(CustomerCreateInput{FirstName: "Ada", QRURL: "   "})
	require.True(t, IsValidationError(err))
	require.Contains(t, err.Error(), "qr_url")
}

func TestValidateUpdate(t *testing.T) {
	require.NoError(t, ValidateUpdate(CustomerUpdateInput{}))
	require.NoError(t, ValidateUpdate(CustomerUpdateInput{Email: strPtr("")}))
	require.Error(t, ValidateUpdate(CustomerUpdateInput{FirstName: strPtr(" ")}))
	require.Error(t, ValidateUpdate(CustomerUpdateInput{QRURL: strPtr("")}))
}

func TestIsValidationError_Wrapped(t *testing.T) {
	err := errors.Wrap(NewValidationError("qr_url", "is required"), "create customer")
	require.True(t, IsValidationError(err))
	require.False(t, IsValidationError(ErrNotFound))
}

func TestCustomerUpdateInput_IsEmpty(t *testing.T) {
	require.True(t, CustomerUpdateInput{}.IsEmpty())
	require.False(t, CustomerUpdateInput{LastName: strPtr("L")}.IsEmpty())
}

func TestIsNotFound_Wrapped(t *testing.T) {
	require.True(t, IsNotFound(errors.Wrap(ErrNotFound, "select customer")))
	require.False(t, IsNotFound(errors.New("boom")))
	require.False(t, IsNotFound(nil))
}

func TestValidateUpdate_Clear(t *testing.T) {
	require.NoError(t, ValidateUpdate(CustomerUpdateInput{Clear: []string{"last_name", "email"}}))
	require.False(t, CustomerUpdateInput{Clear: []string{"email"}}.IsEmpty())

	err := ValidateUpdate(CustomerUpdateInput{Clear: []string{"first_name"}})
	require.True(t, IsValidationError(err))
	require.Contains(t, err.Error(), "first_name")

	err = ValidateUpdate(CustomerUpdateInput{Clear: []string{"redirect_code"}})
	require.True(t, IsValidationError(err))
	require.Contains(t, err.Error(), "cannot be cleared")
}
