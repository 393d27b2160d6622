package hub

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is a non-2xx backend response normalised to status and status text.
type Error struct {
	Method     string
	URL        string
	Status     int
	StatusText string
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("hub: %s %s: %d %s", e.Method, e.URL, e.Status, e.StatusText)
}

// NewError creates an Error from a response status line.
func NewError(method, URL string, status int, statusLine string, body []byte) *Error {
	text := strings.TrimSpace(strings.TrimPrefix(statusLine, fmt.Sprintf("%d", status)))
	if text == "" {
		text = http.StatusText(status)
	}
	return &Error{Method: method, URL: URL, Status: status, StatusText: text, Body: string(body)}
}

// AsError extracts *Error from err chain.
func AsError(err error) (*Error, bool) {
	var hubErr *Error
	if errors.As(err, &hubErr) {
		return hubErr, true
	}
	return nil, false
}

// IsNotFound returns true for 404 responses.
func IsNotFound(err error) bool {
	hubErr, ok := AsError(err)
	return ok && hubErr.Status == http.StatusNotFound
}
