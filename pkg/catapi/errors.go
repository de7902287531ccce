package catapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
)

// Error names.
const (
	ErrNameNetwork  = "NetworkError"
	ErrNameTimeout  = "TimeoutError"
	ErrNameCanceled = "CanceledError"
	ErrNameHTTP     = "HTTPError"
	ErrNameRequest  = "RequestError"
)

// Error codes.
const (
	CodeConnRefused = "ECONNREFUSED"
	CodeTimeout     = "ETIMEDOUT"
	CodeCanceled    = "ERR_CANCELED"
	CodeNetwork     = "ERR_NETWORK"
	CodeBadRequest  = "ERR_BAD_REQUEST"
	CodeBadResponse = "ERR_BAD_RESPONSE"
	CodeInvalidArg  = "ERR_INVALID_ARG"
)

// Error is the uniform failure returned by every Client operation. It carries
// no implementation-specific values and marshals cleanly to JSON, whatever the
// underlying cause was.
type Error struct {
	Name      string          `json:"name"`
	Message   string          `json:"message"`
	Code      string          `json:"code,omitempty"`
	Method    string          `json:"method,omitempty"`
	URL       string          `json:"url,omitempty"`
	Status    int             `json:"status,omitempty"`
	Body      json.RawMessage `json:"body,omitempty"`
	RequestID string          `json:"requestId,omitempty"`

	cause error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: %s (status %d)", e.Method, e.URL, e.Message, e.Status)
	}
	if e.Method != "" {
		return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Message)
	}
	return e.Message
}

// Unwrap returns the transport error, if any, so errors.Is keeps working
// against context.DeadlineExceeded and friends.
func (e *Error) Unwrap() error {
	return e.cause
}

// Timeout reports whether the request hit the configured timeout or the
// context deadline.
func (e *Error) Timeout() bool {
	return e.Code == CodeTimeout
}

// AsError extracts a *Error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// newRequestError reports local misuse: a body that could not be built or a
// request that could not be constructed.
func newRequestError(method, url string, err error) *Error {
	return &Error{
		Name:    ErrNameRequest,
		Message: err.Error(),
		Code:    CodeInvalidArg,
		Method:  method,
		URL:     url,
		cause:   err,
	}
}

// newTransportError classifies an error returned by http.Client.Do.
func newTransportError(method, url, requestID string, err error) *Error {
	e := &Error{
		Name:      ErrNameNetwork,
		Message:   err.Error(),
		Code:      CodeNetwork,
		Method:    method,
		URL:       url,
		RequestID: requestID,
		cause:     err,
	}

	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		e.Name = ErrNameCanceled
		e.Code = CodeCanceled
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		e.Name = ErrNameTimeout
		e.Code = CodeTimeout
	case errors.Is(err, syscall.ECONNREFUSED):
		e.Code = CodeConnRefused
	}

	return e
}

// newHTTPError builds the error for a non-2xx response.
func newHTTPError(method, url, requestID string, status int, body []byte) *Error {
	e := &Error{
		Name:      ErrNameHTTP,
		Message:   fmt.Sprintf("request failed with status code %d", status),
		Code:      CodeBadRequest,
		Method:    method,
		URL:       url,
		Status:    status,
		RequestID: requestID,
	}
	if status >= http.StatusInternalServerError {
		e.Code = CodeBadResponse
	}

	if len(body) == 0 {
		return e
	}

	if json.Valid(body) {
		e.Body = json.RawMessage(body)

		// The Cat is a FastAPI app, errors come back as {"detail": ...}.
		var apiErr struct {
			Detail  any    `json:"detail"`
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(body, &apiErr); err == nil {
			switch {
			case apiErr.Detail != nil:
				if s, ok := apiErr.Detail.(string); ok {
					e.Message = s
				} else if b, err := json.Marshal(apiErr.Detail); err == nil {
					e.Message = string(b)
				}
			case apiErr.Message != "":
				e.Message = apiErr.Message
			case apiErr.Error != "":
				e.Message = apiErr.Error
			}
		}
		return e
	}

	// Keep non-JSON bodies serializable by storing them as a JSON string.
	if b, err := json.Marshal(string(body)); err == nil {
		e.Body = b
	}
	return e
}
