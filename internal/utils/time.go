package utils

import (
	"time"

	"ms-railway/internal/apperr"
)

const DateLayout = "2006-01-02"

// ParseTravelDate accepts YYYY-MM-DD. An empty string is allowed and yields the zero time.
func ParseTravelDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, apperr.ValidationError{Field: "date", Msg: "date must be in YYYY-MM-DD format", Err: err}
	}
	return t, nil
}
