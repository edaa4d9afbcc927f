package service

import (
	"errors"

	"structiv/internal/models"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

// Error carries a client-facing message for one of the sentinel kinds.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func invalid(msg string) error { return &Error{Kind: ErrInvalidInput, Msg: msg} }

func conflict(msg string) error { return &Error{Kind: ErrConflict, Msg: msg} }

func unauthorized(msg string) error { return &Error{Kind: ErrUnauthorized, Msg: msg} }

func forbidden(msg string) error { return &Error{Kind: ErrForbidden, Msg: msg} }

func notFound(msg string) error { return &Error{Kind: ErrNotFound, Msg: msg} }

// Actor is the caller on whose behalf an operation runs. The zero Actor is
// the system itself and passes every ownership check.
type Actor struct {
	UserID int64
	Role   string
}

func (a Actor) System() bool { return a.Role == "" }

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// CanAccessUser reports whether the actor may act on userID's resources.
func (a Actor) CanAccessUser(userID int64) bool {
	return a.System() || a.IsAdmin() || a.UserID == userID
}
