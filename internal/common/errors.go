package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// ErrorKind classifies failures for the HTTP boundary.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindValidation
	KindStateConflict
	KindUnauthorized
)

// AppError carries a client-safe message plus the underlying cause.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on kind so callers can write errors.Is(err, common.ErrNotFoundKind).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

var (
	ErrNotFoundKind      = &AppError{Kind: KindNotFound}
	ErrValidationKind    = &AppError{Kind: KindValidation}
	ErrStateConflictKind = &AppError{Kind: KindStateConflict}
	ErrUnauthorizedKind  = &AppError{Kind: KindUnauthorized}
)

func NewNotFound(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Message: resource + " not found"}
}

func NewNotFoundMessage(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func NewValidation(format string, args ...any) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewStateConflict(format string, args ...any) *AppError {
	return &AppError{Kind: KindStateConflict, Message: fmt.Sprintf(format, args...)}
}

func NewUnauthorized(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: message}
}

// KindOf returns the kind of err, KindInternal when it is not an AppError.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// SendAppError writes err using the standard envelope. Internal errors are
// logged and replaced by a generic message.
func SendAppError(c echo.Context, log logrus.FieldLogger, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request().Method,
			"path":   c.Path(),
		}).Error("request failed")
		return SendServerError(c, "An internal error occurred")
	}

	switch appErr.Kind {
	case KindNotFound:
		return c.JSON(http.StatusNotFound, CreateErrorResponse("NOT_FOUND", appErr.Message, nil))
	case KindValidation:
		return c.JSON(http.StatusBadRequest, CreateErrorResponse("VALIDATION_ERROR", appErr.Message, nil))
	case KindStateConflict:
		return c.JSON(http.StatusConflict, CreateErrorResponse("STATE_CONFLICT", appErr.Message, nil))
	case KindUnauthorized:
		return c.JSON(http.StatusUnauthorized, CreateErrorResponse("UNAUTHORIZED", appErr.Message, nil))
	default:
		log.WithError(err).Error("request failed")
		return SendServerError(c, "An internal error occurred")
	}
}
