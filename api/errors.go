package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is a non-2xx response from the idli kadai API. The server returns
// either a single "detail" string or an "errors" array; both are kept so call
// sites can render field-level feedback.
type Error struct {
	Status int
	Detail string
	Errors []string
}

func (e *Error) Error() string {
	if len(e.Errors) > 0 {
		return strings.Join(e.Errors, ", ")
	}
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Messages returns the server-supplied messages, if any. An envelope with no
// detail and no errors yields nil so callers can substitute their own text.
func (e *Error) Messages() []string {
	if len(e.Errors) > 0 {
		return e.Errors
	}
	if e.Detail != "" {
		return []string{e.Detail}
	}
	return nil
}

func statusIs(err error, match func(int) bool) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return match(apiErr.Status)
	}
	return false
}

// IsUnauthorized reports a 401; the session layer treats it as forced logout.
func IsUnauthorized(err error) bool {
	return statusIs(err, func(s int) bool { return s == http.StatusUnauthorized })
}

func IsForbidden(err error) bool {
	return statusIs(err, func(s int) bool { return s == http.StatusForbidden })
}

func IsNotFound(err error) bool {
	return statusIs(err, func(s int) bool { return s == http.StatusNotFound })
}

func IsServerError(err error) bool {
	return statusIs(err, func(s int) bool { return s >= 500 })
}

// IsValidation reports a 4xx other than 401/403/404: the call site must render
// the specific message itself instead of relying on the central handler.
func IsValidation(err error) bool {
	return statusIs(err, func(s int) bool {
		return s >= 400 && s < 500 &&
			s != http.StatusUnauthorized &&
			s != http.StatusForbidden &&
			s != http.StatusNotFound
	})
}

// IsNetwork reports a transport failure where no response was received.
func IsNetwork(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *Error
	return !errors.As(err, &apiErr)
}

// Message extracts a human-readable message from err, preferring the server's
// detail/errors payload. Errors with no server message — transport failures,
// or an envelope that carried nothing — get the fallback text.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if m := apiErr.Messages(); len(m) > 0 {
			return strings.Join(m, ", ")
		}
	}
	return fallback
}
