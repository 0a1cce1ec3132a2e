package client

import (
	"errors"
	"fmt"
	"net/http"
)

const maxExpectedStatusCode = 299

// ErrUnexpectedStatus marks any EDGAR response outside the 2xx range.
var ErrUnexpectedStatus = fmt.Errorf("unexpected status code (>%d)",
	maxExpectedStatusCode)

func newUnexpectedStatusError(resp *http.Response) error {
	return errors.Join(
		&UnexpectedStatusError{
			httpStatus:     resp.Status,
			httpStatusCode: resp.StatusCode,
		}, ErrUnexpectedStatus,
	)
}

// UnexpectedStatusError keeps the status line of a failed request, so
// callers can branch on the code via errors.As (a 404 from the submissions
// API means an unknown filer, not a broken crawl).
type UnexpectedStatusError struct {
	httpStatus     string
	httpStatusCode int
}

func (self *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("%d (%v)", self.httpStatusCode, self.httpStatus)
}

func (self *UnexpectedStatusError) Is(target error) bool {
	_, ok := target.(*UnexpectedStatusError)
	return ok
}

func (self *UnexpectedStatusError) StatusCode() int {
	return self.httpStatusCode
}
