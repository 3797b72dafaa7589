package puzzle

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches any *HTTPError carrying a 404 status.
var ErrNotFound = errors.New("not found")

// HTTPError is returned when the service answers outside the 2xx range.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("unexpected status %d %s. Response body: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

func (e *HTTPError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// DecodeError reports the first field that did not have the expected shape.
type DecodeError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// ArgumentError is returned before any request is sent.
type ArgumentError struct {
	Name   string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Name, e.Reason)
}
