package portalclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrValidation is returned when a response decodes but does not conform to
// the expected shape. The payload is never silently coerced.
var ErrValidation = errors.New("failed to validate response data")

// APIError is a non-2xx response from the portal API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("portal: status %d", e.StatusCode)
	}
	return fmt.Sprintf("portal: status %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is an authorization failure that
// survived the refresh-and-retry path.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}
