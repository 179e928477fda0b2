package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// MaxBodyBytes caps how much of a request body DecodeJSON reads.
const MaxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrTrailingData is returned when a body holds more than one JSON value.
var ErrTrailingData = errors.New("request body must contain a single JSON value")

// DecodeJSON decodes the request body into v. Trailing data after the first
// JSON value is rejected.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, MaxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return ErrTrailingData
	}
	return nil
}

// ValidateRequest runs struct tag validation on v.
func ValidateRequest(v any) error {
	return validate.Struct(v)
}
