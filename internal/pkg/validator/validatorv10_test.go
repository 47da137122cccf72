package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	Phone      string `validate:"required,phone10"`
	Code       string `validate:"required,otpcode"`
	Identifier string `validate:"required,identifier"`
	FullName   string `validate:"required,alphaspace"`
	Age        int    `validate:"gte=1,lte=120"`
}

func TestV10Validator_Validate(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		err := v.Validate(sampleInput{
			Phone:      "9876543210",
			Code:       "123456",
			Identifier: "user@example.com",
			FullName:   "Asha Rao",
			Age:        30,
		})
		assert.NoError(t, err)
	})

	t.Run("invalid", func(t *testing.T) {
		err := v.Validate(sampleInput{
			Phone:      "98765",
			Code:       "12a456",
			Identifier: "not-a-phone",
			FullName:   "Asha_1",
			Age:        0,
		})

		var verr V10ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "Phone must be exactly 10 digits", verr["phone"])
		assert.Equal(t, "Code must be exactly 6 digits", verr["code"])
		assert.Contains(t, verr, "identifier")
		assert.Equal(t, "FullName can contain only letters and spaces", verr["full_name"])
		assert.Contains(t, verr, "age")
	})
}

func TestNewV10Validator(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)
	require.NotNil(t, v)

	assert.NoError(t, v.Validate(sampleInput{
		Phone:      "9876543210",
		Code:       "654321",
		Identifier: "9876543210",
		FullName:   "Zoë Ñúñez",
		Age:        45,
	}))
}

func TestRules(t *testing.T) {
	assert.True(t, IsPhone10("0123456789"))
	assert.False(t, IsPhone10("01234567890"))
	assert.False(t, IsPhone10("012345678a"))

	assert.True(t, IsOTPCode("000000"))
	assert.False(t, IsOTPCode("12345"))
	assert.False(t, IsOTPCode(" 123456"))

	assert.True(t, IsEmail("a@b.co"))
	assert.False(t, IsEmail("Name <a@b.co>"))
}
