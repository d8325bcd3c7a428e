package svc

import (
	"fmt"
	"net/http"
)

var _ error = &RequestError{}

// RequestError is returned when the review authority answers with a
// non-2xx status code.
type RequestError struct {
	Response *http.Response
	// Body is kept for operators but never printed, it may echo the token.
	Body []byte
}

func NewRequestError(resp *http.Response, body []byte) error {
	return &RequestError{Response: resp, Body: body}
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("review authority returned status code: %d",
		e.Response.StatusCode)
}

var _ error = &ReviewError{}

// ReviewError is used by the gate to inform the calling code that the
// token review could not be completed, as opposed to completed and denied.
type ReviewError struct {
	Err error
}

func (e *ReviewError) Error() string {
	return fmt.Sprintf("token review failed: %v", e.Err)
}

func (e *ReviewError) Unwrap() error {
	return e.Err
}
