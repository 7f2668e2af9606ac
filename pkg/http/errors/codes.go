package errors

import "net/http"

// Fixed client-facing messages per status.
const (
	MsgBadRequest       = "Cannot handle this request"
	MsgNotFound         = "Cannot find resource for this request"
	MsgMethodNotAllowed = "Method not allowed"
	MsgUnprocessable    = "Cannot process this request"
	MsgInternalError    = "Internal server error - cannot process request"
	MsgUnavailable      = "Service unavailable"
)

// MessageFor returns the fixed message for status.
func MessageFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return MsgBadRequest
	case http.StatusNotFound:
		return MsgNotFound
	case http.StatusMethodNotAllowed:
		return MsgMethodNotAllowed
	case http.StatusUnprocessableEntity:
		return MsgUnprocessable
	case http.StatusServiceUnavailable:
		return MsgUnavailable
	default:
		return MsgInternalError
	}
}
