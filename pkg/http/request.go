package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"vanity/pkg/config"
	apperrors "vanity/pkg/errors"
)

// ExtractLimit reads the optional "limit" query parameter and clamps it to
// the configured bounds.
func ExtractLimit(r *http.Request) (int, error) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}
	return config.NormalizePaginationLimit(limit), nil
}

// DecodeJSON decodes a single JSON object from the request body into v.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperrors.PayloadTooLarge(maxErr.Limit)
		}
		if errors.Is(err, io.EOF) {
			return apperrors.InvalidInput("request body is empty")
		}
		return apperrors.InvalidInput("invalid request body")
	}
	return nil
}
