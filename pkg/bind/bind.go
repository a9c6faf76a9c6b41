// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/validate"
)

// maxBodyBytes is MAX_BODY_BYTES, 4 MB by default.
func maxBodyBytes() int64 {
	n := int64(config.Int("MAX_BODY_BYTES", 4<<20))
	if n <= 0 {
		return 4 << 20
	}
	return n
}

// JSON decodes r.Body into dest and validates it.
// It returns (errs, nil) on validation failures and (nil, err) when the body
// is malformed or too large. Unknown fields are rejected.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err = dec.Decode(dest); err != nil {
		return nil, decodeErr(err)
	}
	return check(dest), nil
}

// Multipart parses a multipart form of at most maxMemory bytes in memory and
// decodes the JSON found in the given form field. An absent field leaves
// dest untouched, so validation decides whether that is acceptable.
func Multipart(r *http.Request, field string, maxMemory int64, dest interface{}) (map[string]string, error) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	if raw := strings.TrimSpace(r.FormValue(field)); raw != "" {
		dec := json.NewDecoder(strings.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(dest); err != nil {
			return nil, fmt.Errorf("field %q: %w", field, decodeErr(err))
		}
	}
	return check(dest), nil
}

func check(dest interface{}) map[string]string {
	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return errs
	}
	return nil
}

func decodeErr(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
	}
	return fmt.Errorf("invalid JSON: %w", err)
}
