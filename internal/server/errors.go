package server

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/matzehuels/stowage/pkg/errors"
)

// apiError is the body of every error response.
type apiError struct {
	Status    int    `json:"-" msgpack:"-"`
	Code      string `json:"code" msgpack:"code"`
	Message   string `json:"message" msgpack:"message"`
	RequestID string `json:"request_id,omitempty" msgpack:"request_id,omitempty"`
}

func (e *apiError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func errNotFound(path string) *apiError {
	return &apiError{Status: http.StatusNotFound, Code: string(errors.ErrCodeNotFound), Message: "no route for " + path}
}

func errBadRequest(format string, args ...any) *apiError {
	return &apiError{Status: http.StatusBadRequest, Code: string(errors.ErrCodeInvalidRequest), Message: fmt.Sprintf(format, args...)}
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidRequest, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

// toAPIError converts any error into an apiError. Errors without a code are
// reported as internal and their text is not exposed.
func toAPIError(err error) *apiError {
	var ae *apiError
	if stderrors.As(err, &ae) {
		return ae
	}
	var mbe *http.MaxBytesError
	if stderrors.As(err, &mbe) {
		return &apiError{Status: http.StatusRequestEntityTooLarge, Code: string(errors.ErrCodeInvalidRequest), Message: "request body too large"}
	}
	code := errors.GetCode(err)
	if code == "" {
		return &apiError{Status: http.StatusInternalServerError, Code: string(errors.ErrCodeInternal), Message: "internal error"}
	}
	return &apiError{Status: statusFor(code), Code: string(code), Message: errors.UserMessage(err)}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	ae := *toAPIError(err)
	ae.RequestID = requestIDFrom(r.Context())
	respond(w, r, ae.Status, ae)
}
