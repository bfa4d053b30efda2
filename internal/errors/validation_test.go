package errors

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestValidationErrors_Error(t *testing.T) {
	var empty ValidationErrors
	assert.Equal(t, "validation failed", empty.Error())

	single := ValidationErrors{{Field: "path", Message: "is required"}}
	assert.Equal(t, "validation failed: path is required", single.Error())

	multiple := ValidationErrors{
		{Field: "path", Message: "is required"},
		{Field: "title", Message: "is required"},
	}
	assert.Equal(t, "validation failed: 2 field errors", multiple.Error())
}

func TestToValidationErrors(t *testing.T) {
	type payload struct {
		Path  string `validate:"required"`
		Title string `validate:"required,max=200"`
	}

	v := validator.New()
	err := v.Struct(payload{})
	assert.Error(t, err)

	verrs := ToValidationErrors(err)
	assert.Len(t, verrs, 2)
	assert.Equal(t, "Path", verrs[0].Field)
	assert.Equal(t, "is required", verrs[0].Message)
	assert.Equal(t, "required", verrs[0].Rule)
}

func TestToValidationErrors_NonValidatorError(t *testing.T) {
	verrs := ToValidationErrors(assert.AnError)
	assert.Empty(t, verrs)
}
