package api

import (
	"net/http"
)

// HTTPError is a handler failure with the status it is reported with.
// writeError renders it as {"error": Err.Error()} under StatusCode; any other
// error becomes a 500.
type HTTPError struct {
	StatusCode int
	Status     string
	Err        error
}

func NewHTTPError(statusCode int, err error) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Status:     http.StatusText(statusCode),
		Err:        err,
	}
}

// badRequest marks a rejected add request.
func badRequest(err error) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, err)
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Status
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}
