package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies every failure the API client can surface. Callers switch on
// the kind instead of inspecting status codes or transport errors.
type Kind int

const (
	// KindNetwork means no response was received at all
	KindNetwork Kind = iota

	// KindInvalidCredentials means the server rejected an email/password pair
	KindInvalidCredentials

	// KindValidation means the server rejected the request payload
	// (malformed fields, duplicate email)
	KindValidation

	// KindUnauthorized means the attached token was missing, invalid or expired
	KindUnauthorized

	// KindForbidden means the authenticated user lacks the required role
	KindForbidden

	// KindNotFound means the requested resource does not exist
	KindNotFound

	// KindServer covers 5xx and any response the client cannot interpret
	KindServer
)

// String returns a short label for the kind
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is the normalized failure returned by every client operation
type Error struct {
	Kind    Kind
	Status  int    // HTTP status, 0 when no response was received
	Message string // server-provided message when available
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.cause)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.cause
}

// IsKind reports whether err is a client error of the given kind
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	return false
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, cause: err}
}

// normalizeStatus maps a non-2xx response to a normalized error.
// credentialOp marks login-style requests, where 401 means the submitted
// credentials were wrong rather than a dead session.
func normalizeStatus(status int, message string, credentialOp bool) *Error {
	var kind Kind
	switch {
	case status == http.StatusUnauthorized && credentialOp:
		kind = KindInvalidCredentials
	case status == http.StatusUnauthorized:
		kind = KindUnauthorized
	case status == http.StatusForbidden:
		kind = KindForbidden
	case status == http.StatusNotFound:
		kind = KindNotFound
	case status >= 400 && status < 500:
		kind = KindValidation
	default:
		kind = KindServer
	}

	return &Error{Kind: kind, Status: status, Message: message}
}
