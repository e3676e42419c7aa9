package validate

import (
	"errors"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrInvalid is matched by every validation failure returned from this package.
var ErrInvalid = errors.New("validation failed")

// InvalidURLMessage is reported when a bookmark URL lacks a scheme or a host.
const InvalidURLMessage = "Invalid URL Format, Please provide a valid URL"

// Error carries a human-readable validation message.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports ErrInvalid so callers can use errors.Is without the concrete type.
func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

// Struct validates the fields of structPtr and flattens ozzo's per-field
// errors into a single *Error.
func Struct(structPtr any, fields ...*validation.FieldRules) error {
	err := validation.ValidateStruct(structPtr, fields...)
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return &Error{Message: fieldErrs.Error()}
	}

	return err
}

// Message builds a validation error from a plain message.
func Message(msg string) error {
	return &Error{Message: msg}
}

// AbsoluteURL accepts strings that parse as a URL with both a scheme and a host.
var AbsoluteURL = validation.By(func(value any) error {
	s, _ := value.(string)
	if !IsAbsoluteURL(s) {
		return errors.New(InvalidURLMessage)
	}

	return nil
})

// IsAbsoluteURL reports whether raw has a scheme and a network location.
func IsAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return u.Scheme != "" && u.Host != ""
}
