package common

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
)

// Kind classifies an error the way callers at the HTTP boundary need it.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindBadRequest
	KindNoContent
	KindUnauthorized
	KindForbidden
)

// StatusCode maps a kind to the HTTP status a controller responds with.
func (k Kind) StatusCode() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNoContent:
		return http.StatusNoContent
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindNoContent:
		return "no_content"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error is the error type every service returns.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on kind and message so sentinel errors below work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func BadRequest(message string) error {
	return &Error{Kind: KindBadRequest, Message: message}
}

func Unauthorized(message string) error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NoContent signals an empty listing; it is not a failure.
func NoContent() error {
	return ErrNoContent
}

// Internal wraps an unexpected failure, keeping its message.
func Internal(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindInternal, Message: err.Error(), Err: err}
}

var (
	ErrOrgNotFound      = NotFound("organization not found")
	ErrOrderNotFound    = NotFound("order not found")
	ErrCategoryNotFound = NotFound("category not found")
	ErrProductNotFound  = NotFound("product not found")
	ErrNoOrdersToday    = NotFound("no orders today")
	ErrNoContent        = &Error{Kind: KindNoContent, Message: "no content"}
)

// KindOf reports the kind of err, treating foreign errors as internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Classify passes classified errors through and converts everything else,
// translating the mongo driver's well-known failures on the way.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &Error{Kind: KindNotFound, Message: err.Error(), Err: err}
	}
	if mongo.IsDuplicateKeyError(err) {
		return &Error{Kind: KindBadRequest, Message: err.Error(), Err: err}
	}
	return Internal(err)
}
