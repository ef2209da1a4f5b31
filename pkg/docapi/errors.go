package docapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

const (
	// MessageRequestFailed is used when an error response carries neither
	// an "error" nor a "detail" field.
	MessageRequestFailed = "request failed"

	// MessageUnreachable is used when a request received no response.
	MessageUnreachable = "cannot reach server, check network connection"
)

// ServerError is returned when the server answered with a non-2xx status.
type ServerError struct {
	Status  int
	Message string

	// Response is the full error response, body included.
	Response *Response
}

func (e *ServerError) Error() string {
	return e.Message
}

// ConnectivityError is returned when a request was sent but no response was
// received, either because the network failed or the timeout expired.
type ConnectivityError struct {
	Message string
	Err     error
}

func (e *ConnectivityError) Error() string {
	return e.Message
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// RequestError is returned when a request could not be built or sent. Its
// message is the cause's message, unchanged.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsServerError reports whether err is, or wraps, a *ServerError.
func IsServerError(err error) bool {
	var target *ServerError
	return errors.As(err, &target)
}

// IsConnectivityError reports whether err is, or wraps, a *ConnectivityError.
func IsConnectivityError(err error) bool {
	var target *ConnectivityError
	return errors.As(err, &target)
}

// IsRequestError reports whether err is, or wraps, a *RequestError.
func IsRequestError(err error) bool {
	var target *RequestError
	return errors.As(err, &target)
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not a
// server error.
func StatusCode(err error) int {
	var target *ServerError
	if errors.As(err, &target) {
		return target.Status
	}
	return 0
}

// Failures produced by roundTrip, before normalization.
type (
	buildFailure     struct{ err error }
	transportFailure struct{ err error }
	statusFailure    struct{ resp *Response }
)

func (f *buildFailure) Error() string     { return f.err.Error() }
func (f *transportFailure) Error() string { return f.err.Error() }
func (f *statusFailure) Error() string {
	return fmt.Sprintf("request failed with status code %d", f.resp.StatusCode)
}

// normalize is the single classification step applied to every failed
// request. It logs the original failure and returns the public error.
func (c *Client) normalize(r request, err error) error {
	logArgs := []interface{}{
		"method", r.method,
		"path", r.path,
		"error", err,
	}

	var out error
	switch f := err.(type) {
	case *statusFailure:
		logArgs = append(logArgs, "status", f.resp.StatusCode)
		out = &ServerError{
			Status:   f.resp.StatusCode,
			Message:  extractMessage(f.resp.Body),
			Response: f.resp,
		}
	case *transportFailure:
		out = &ConnectivityError{
			Message: MessageUnreachable,
			Err:     f.err,
		}
	case *buildFailure:
		out = &RequestError{Err: f.err}
	default:
		out = err
	}

	c.logger.Error("API error", logArgs...)
	return out
}

// extractMessage picks the human readable message out of an error body. A
// body that is not a JSON object yields MessageRequestFailed.
func extractMessage(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return MessageRequestFailed
	}

	for _, key := range []string{"error", "detail"} {
		if msg := messageText(payload[key]); msg != "" {
			return msg
		}
	}
	return MessageRequestFailed
}

// messageText renders a JSON value as a message. Empty and falsy values
// render as "" so the next candidate field is tried.
func messageText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if !t {
			return ""
		}
		return strconv.FormatBool(t)
	case float64:
		if t == 0 {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
