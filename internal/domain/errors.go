package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidInput   = errors.New("invalid input")
	ErrGeocode        = errors.New("address not resolvable")
	ErrInternal       = errors.New("internal error")
)

// Kind classifies an Error. The HTTP layer maps each kind to a status code.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindGeocode
)

// Error is a user-facing failure. Message is safe to return to clients;
// the underlying cause, if any, is logged by the caller and not carried here.
type Error struct {
	Kind    Kind
	Message string
}

// NewError creates an Error of the given kind.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

// Is lets errors.Is match an Error against the sentinel for its kind.
func (e *Error) Is(target error) bool {
	return kindSentinel[e.Kind] == target
}

var kindSentinel = map[Kind]error{
	KindInternal:     ErrInternal,
	KindInvalidInput: ErrInvalidInput,
	KindNotFound:     ErrNotFound,
	KindUnauthorized: ErrUnauthorized,
	KindForbidden:    ErrForbidden,
	KindGeocode:      ErrGeocode,
}

// KindOf reports the kind of err. Errors that are not *Error are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
