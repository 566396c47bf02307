package issues

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	appErrors "issuedesk/internal/errors"
)

// ErrNotFound indicates the backend has no issue with the requested id.
var ErrNotFound = errors.New("issues: issue not found")

// RequestError wraps a failed round trip to the backend.
type RequestError struct {
	Method string
	Path   string
	Err    error
}

func (e RequestError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e RequestError) Unwrap() error {
	return e.Err
}

func classifyHTTPError(method, path string, status int, body string, err error) error {
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return appErrors.New(appErrors.CodeNetwork, RequestError{Method: method, Path: path, Err: err}.Error(), err)
	}
	statusErr := appErrors.StatusError{StatusCode: status, Body: body}
	if status == http.StatusNotFound {
		return appErrors.New(appErrors.CodeNotFound, "issue not found", errors.Join(ErrNotFound, statusErr))
	}
	return appErrors.New(appErrors.CodeServer, RequestError{Method: method, Path: path, Err: statusErr}.Error(), statusErr)
}
