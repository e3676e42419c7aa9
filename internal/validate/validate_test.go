package validate_test

import (
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/serroba/bookmarks/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAbsoluteURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "https url", input: "https://example.com/a", want: true},
		{name: "http with port", input: "http://localhost:8080", want: true},
		{name: "ftp scheme", input: "ftp://files.example.com", want: true},
		{name: "missing scheme", input: "example.com/path", want: false},
		{name: "missing host", input: "https:///path", want: false},
		{name: "relative path", input: "/just/a/path", want: false},
		{name: "empty", input: "", want: false},
		{name: "unparseable", input: "://invalid", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validate.IsAbsoluteURL(tt.input))
		})
	}
}

func TestStruct(t *testing.T) {
	type input struct {
		Name string
		URL  string
	}

	t.Run("returns nil for valid input", func(t *testing.T) {
		in := input{Name: "ok", URL: "https://example.com"}

		err := validate.Struct(&in,
			validation.Field(&in.Name, validation.Required),
			validation.Field(&in.URL, validation.Required, validate.AbsoluteURL),
		)

		require.NoError(t, err)
	})

	t.Run("flattens field errors into a validation error", func(t *testing.T) {
		in := input{URL: "not a url"}

		err := validate.Struct(&in,
			validation.Field(&in.Name, validation.Required),
			validation.Field(&in.URL, validation.Required, validate.AbsoluteURL),
		)

		require.Error(t, err)
		assert.ErrorIs(t, err, validate.ErrInvalid)
		assert.Contains(t, err.Error(), "Name")
		assert.Contains(t, err.Error(), validate.InvalidURLMessage)

		var verr *validate.Error
		assert.True(t, errors.As(err, &verr))
	})
}

func TestMessage(t *testing.T) {
	err := validate.Message("page must be positive")

	assert.ErrorIs(t, err, validate.ErrInvalid)
	assert.Equal(t, "page must be positive", err.Error())
}
