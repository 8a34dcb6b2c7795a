package entity

import "errors"

var (
	// ErrInvalidDateRange indicates the requested range failed
	// validation; no network call has been made.
	ErrInvalidDateRange = errors.New("start date must be before end date")

	// ErrMissingAPIKey indicates the recent-news provider has no
	// credential configured. Raised before any request so the caller
	// sees a configuration error instead of an opaque 401.
	ErrMissingAPIKey = errors.New("news api key is not configured")
)
