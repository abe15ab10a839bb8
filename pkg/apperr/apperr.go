package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type Kind int

const (
	Internal Kind = iota
	NotFound
	Validation
	Conflict
	ExternalProvider
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case Validation:
		return "validation"
	case Conflict:
		return "conflict"
	case ExternalProvider:
		return "external_provider"
	}
	return "internal"
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

func Wrap(kind Kind, msg string, err error) *Error { return &Error{Kind: kind, Msg: msg, Err: err} }

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: NotFound, Msg: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...any) *Error {
	return &Error{Kind: Validation, Msg: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) *Error {
	return &Error{Kind: Conflict, Msg: fmt.Sprintf(format, args...)}
}

func External(msg string, err error) *Error { return &Error{Kind: ExternalProvider, Msg: msg, Err: err} }

// KindOf classifies err; a bare gorm.ErrRecordNotFound counts as NotFound.
func KindOf(err error) Kind {
	if err == nil {
		return Internal
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound
	}
	return Internal
}

func IsNotFound(err error) bool   { return err != nil && KindOf(err) == NotFound }
func IsValidation(err error) bool { return err != nil && KindOf(err) == Validation }
func IsConflict(err error) bool   { return err != nil && KindOf(err) == Conflict }
func IsExternal(err error) bool   { return err != nil && KindOf(err) == ExternalProvider }

func Status(err error) int {
	switch KindOf(err) {
	case NotFound:
		return http.StatusNotFound
	case Validation:
		return http.StatusBadRequest
	case Conflict:
		return http.StatusConflict
	case ExternalProvider:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// JSON writes err as {"error": "..."} with the status for its kind.
// Internal errors hide their cause from the client.
func JSON(c echo.Context, err error) error {
	status := Status(err)
	msg := err.Error()
	var e *Error
	if errors.As(err, &e) {
		msg = e.Msg
	}
	if status == http.StatusInternalServerError {
		c.Logger().Errorf("internal: %v", err)
		msg = "internal error"
	}
	return c.JSON(status, map[string]string{"error": msg})
}
