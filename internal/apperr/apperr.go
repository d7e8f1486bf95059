package apperr

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"
)

// Code identifies a domain-recognized failure kind. Handlers surface these
// verbatim to the client; anything uncoded becomes INTERNAL at the boundary.
type Code string

const (
	CodeValidation   Code = "VALIDATION"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeInternal     Code = "INTERNAL"
)

// Error is a coded application error with a stable, client-safe message.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return string(e.Code) + ": " + e.Message + ": " + e.cause.Error()
	}
	return string(e.Code) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Validation(message string) *Error   { return New(CodeValidation, message) }
func Unauthorized(message string) *Error { return New(CodeUnauthorized, message) }
func Forbidden(message string) *Error    { return New(CodeForbidden, message) }
func NotFound(message string) *Error     { return New(CodeNotFound, message) }
func Conflict(message string) *Error     { return New(CodeConflict, message) }

// Internal wraps an unexpected collaborator failure. The cause is kept for
// logs; the client only ever sees the fixed message.
func Internal(cause error) *Error {
	return &Error{Code: CodeInternal, Message: "internal error", cause: cause}
}

// HTTPStatus maps a failure code to its transport status.
func HTTPStatus(code Code) int {
	switch code {
	case CodeValidation:
		return fiber.StatusBadRequest
	case CodeUnauthorized:
		return fiber.StatusUnauthorized
	case CodeForbidden:
		return fiber.StatusForbidden
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler is the app-wide Fiber error handler. Coded errors keep their
// code and message; fiber errors keep their status; everything else is
// re-surfaced uniformly as INTERNAL so collaborator detail never leaks.
func ErrorHandler(c fiber.Ctx, err error) error {
	var appErr *Error
	if errors.As(err, &appErr) {
		if appErr.Code == CodeInternal {
			log.Printf("internal error on %s: %v", c.Path(), err)
		}
		return c.Status(HTTPStatus(appErr.Code)).JSON(fiber.Map{
			"success": false,
			"error":   fiber.Map{"code": appErr.Code, "message": appErr.Message},
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := CodeInternal
		switch fiberErr.Code {
		case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
			code = CodeValidation
		case fiber.StatusUnauthorized:
			code = CodeUnauthorized
		case fiber.StatusForbidden:
			code = CodeForbidden
		case fiber.StatusNotFound:
			code = CodeNotFound
		case fiber.StatusConflict:
			code = CodeConflict
		}
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"success": false,
			"error":   fiber.Map{"code": code, "message": fiberErr.Message},
		})
	}

	log.Printf("unhandled error on %s: %v", c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   fiber.Map{"code": CodeInternal, "message": "internal error"},
	})
}
