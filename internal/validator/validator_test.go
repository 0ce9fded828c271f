package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerInput struct {
	Name        string `json:"name" validate:"required"`
	Phone       string `json:"phone" validate:"required,phone10"`
	Email       string `json:"email" validate:"required,email"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,date-ymd"`
	Gender      string `json:"gender" validate:"omitempty,is-gender"`
}

type paymentInput struct {
	Method string  `json:"payment_method" validate:"omitempty,is-payment-method"`
	TxnRef string  `json:"txn_ref" validate:"omitempty,utr12"`
	Amount float64 `json:"amount" validate:"gt=0"`
}

func TestValidate_Valid(t *testing.T) {
	v := New()

	err := v.Validate(registerInput{
		Name:        "Asha",
		Phone:       "9876543210",
		Email:       "asha@example.com",
		DateOfBirth: "1995-04-12",
		Gender:      "female",
	})
	assert.NoError(t, err)

	assert.NoError(t, v.Validate(paymentInput{Method: "UPI", TxnRef: "123456789012", Amount: 1000}))
}

func TestValidate_FieldMessages(t *testing.T) {
	v := New()

	err := v.Validate(registerInput{
		Name:        "",
		Phone:       "98765",
		Email:       "not-an-email",
		DateOfBirth: "12/04/1995",
		Gender:      "robot",
	})
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "This field is required", vErr.Errors["name"])
	assert.Equal(t, "Phone number must be exactly 10 digits", vErr.Errors["phone"])
	assert.Equal(t, "Must be a valid email address", vErr.Errors["email"])
	assert.Equal(t, "Invalid date format. Use YYYY-MM-DD", vErr.Errors["date_of_birth"])
	assert.Equal(t, "Must be one of: male, female, other", vErr.Errors["gender"])
}

func TestValidate_PaymentRules(t *testing.T) {
	v := New()

	err := v.Validate(paymentInput{Method: "Card", TxnRef: "12345678901A", Amount: 0})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Errors, "payment_method")
	assert.Equal(t, "UTR must be exactly 12 digits", vErr.Errors["txn_ref"])
	assert.Contains(t, vErr.Errors, "amount")
}

func TestHelpers(t *testing.T) {
	assert.True(t, IsValidPhone("0123456789"))
	assert.False(t, IsValidPhone("012345678"))
	assert.True(t, IsValidUTR("000000000001"))
	assert.False(t, IsValidUTR("00000000001x"))
}
