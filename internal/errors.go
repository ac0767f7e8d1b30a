package internal

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("operation is not permitted for role")

	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidStatus = errors.New("unknown order status")
	ErrNoRecords     = errors.New("no records")

	ErrStaleResponse = errors.New("stale poll response discarded")
)

// APIError carries the status and message the commerce backend returned with
// a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("commerce api: status %d: %s", e.StatusCode, e.Message)
}
