package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"beaunifi/internal/http/middleware"
	"beaunifi/internal/model"
	"beaunifi/internal/transform"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_FILE_TYPE", "UNPARSEABLE_INPUT")
// - message: human-readable message safe to return to the caller
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError translates workflow/transform errors to the error
// envelope. Format errors carry the underlying parser message verbatim;
// they are deterministic parse failures and are never retried or masked.
func writeServiceError(c *fiber.Ctx, err error) error {
	var formatErr *transform.FormatError
	switch {
	case errors.As(err, &formatErr):
		return writeError(c, fiber.StatusUnprocessableEntity, "UNPARSEABLE_INPUT", formatErr.Error())
	case errors.Is(err, model.ErrUnknownLang):
		return writeError(c, fiber.StatusBadRequest, "INVALID_FILE_TYPE", "file_type must be \"js\" or \"css\"")
	case errors.Is(err, model.ErrUnknownAction):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ACTION", "action must be \"read\", \"edit\" or \"write\"")
	case errors.Is(err, transform.ErrInvalidIndent):
		return writeError(c, fiber.StatusBadRequest, "INVALID_INDENT_SIZE", transform.ErrInvalidIndent.Error())
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
