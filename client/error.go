package client

import (
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/adamwoolhether/webclient/client/deferred"
)

// maxErrBodySize caps how much of a response body is copied into an
// [UnexpectedStatusError].
const maxErrBodySize = 4 << 10 // 4KB

var (
	// ErrUnexpectedStatusCode is the sentinel error wrapped by [UnexpectedStatusError].
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	// ErrAuthFailure is joined with [ErrUnexpectedStatusCode] when the server
	// responds with 401 Unauthorized or 403 Forbidden.
	ErrAuthFailure = errors.New("auth failure")

	errNoResponse = errors.New("transport returned no response")
)

// UnexpectedStatusError is returned by [Expect] when the response status
// is not one of the accepted codes.
type UnexpectedStatusError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("%v: %d, body: %s", e.Err, e.StatusCode, e.Body)
}

func (e *UnexpectedStatusError) Unwrap() error {
	return e.Err
}

// CheckStatus returns an [*UnexpectedStatusError] unless resp carries one
// of codes.
func CheckStatus(resp *Response, codes ...int) error {
	if slices.Contains(codes, resp.StatusCode()) {
		return nil
	}

	body := resp.Body()
	if len(body) > maxErrBodySize {
		body = body[:maxErrBodySize]
	}

	err := ErrUnexpectedStatusCode
	if resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden {
		err = errors.Join(ErrUnexpectedStatusCode, ErrAuthFailure)
	}

	return &UnexpectedStatusError{
		StatusCode: resp.StatusCode(),
		Body:       body,
		Err:        err,
	}
}

// Expect chains a status check onto res. The returned Result fails with
// an [*UnexpectedStatusError] when the response carries none of codes.
func Expect(res *deferred.Result[*Response], codes ...int) *deferred.Result[*Response] {
	return deferred.Then(res, func(resp *Response) (*Response, error) {
		if err := CheckStatus(resp, codes...); err != nil {
			return nil, err
		}
		return resp, nil
	})
}
