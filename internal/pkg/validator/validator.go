package validator

import (
	"encoding/json"
	"io"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	errs := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		errs[err.Field()] = err.Tag()
	}
	return errs
}

// DecodeStrict decodes a JSON body rejecting any field outside the
// target struct, then applies the struct's validation tags. Both
// failure modes collapse into a single error: callers map it to 400.
func DecodeStrict(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if fields := Validate(v); fields != nil {
		return validationError(fields)
	}
	return nil
}

type validationError map[string]string

func (e validationError) Error() string {
	for field, tag := range e {
		return "invalid field " + field + ": " + tag
	}
	return "validation failed"
}
