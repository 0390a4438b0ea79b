package middleware

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/mrp/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestFormatValidationErrors(t *testing.T) {
	v := validator.New()
	err := v.Struct(loginForm{Email: "not-an-email", Password: "short"})
	require.Error(t, err)

	resp := FormatValidationErrors(err, "req-1")

	assert.False(t, resp.Success)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 2)
}

func TestFormatValidationErrors_NonValidationError(t *testing.T) {
	resp := FormatValidationErrors(assert.AnError, "req-2")

	assert.False(t, resp.Success)
	assert.Empty(t, resp.Error.Details)
}

func TestGetValidationMessage(t *testing.T) {
	v := validator.New()
	err := v.Struct(loginForm{Email: "", Password: "longenough"})
	require.Error(t, err)

	errs := err.(validator.ValidationErrors)
	assert.Equal(t, "This field is required", fieldErrorMessage(errs[0]))
}
