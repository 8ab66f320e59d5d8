package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	LoanAmount  float64 `validate:"gt=0"`
	LoanPurpose string  `validate:"required"`
	Email       string  `validate:"required,email"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(&sample{LoanAmount: 10, LoanPurpose: "rent", Email: "a@b.co"}))

	err := Struct(&sample{Email: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loan_amount must be greater than 0")
	assert.Contains(t, err.Error(), "loan_purpose is required")
	assert.Contains(t, err.Error(), "email must be a valid email")
}

func TestToSnake(t *testing.T) {
	assert.Equal(t, "loan_application_id", toSnake("LoanApplicationID"))
	assert.Equal(t, "id", toSnake("ID"))
	assert.Equal(t, "email", toSnake("Email"))
}
