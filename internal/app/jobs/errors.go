package jobs

import (
	"fmt"
	"net/http"
)

// Kind classifies application failures. The HTTP adapter maps each kind to exactly one status.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindBadRequest
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "UNAUTHENTICATED"
	case KindBadRequest:
		return "BAD_REQUEST"
	case KindNotFound:
		return "NOT_FOUND"
	default:
		return "INTERNAL"
	}
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is an application-layer error that can be mapped to an HTTP response.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.String()
}

const (
	MessageAuthenticationInvalid = "Authentication invalid"
	MessageInternal              = "Something went wrong, try again later"
)

// Unauthenticated is the uniform error for every authentication failure.
func Unauthenticated() *Error {
	return &Error{Kind: KindUnauthenticated, Message: MessageAuthenticationInvalid}
}

// BadRequest builds a KindBadRequest error with no details.
func BadRequest(msg string) *Error {
	return &Error{Kind: KindBadRequest, Message: msg}
}

func badRequest(msg string, details map[string]any) *Error {
	return &Error{Kind: KindBadRequest, Message: msg, Details: details}
}

func notFound(id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("No job with id %s", id)}
}
