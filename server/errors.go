package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	"github.com/agentpay/agentpay"
	"github.com/agentpay/agentpay/middleware/jwtware"
)

// errorBody is the JSON envelope every failed request gets.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Message  string `json:"message"`
	TextCode string `json:"text_code,omitempty"`
}

// renderError is the app-wide fiber error handler. Internal errors get
// a generic message so nothing from the guts of the system leaks out.
func renderError(c *fiber.Ctx, err error) error {
	var e *errors.Error
	if errors.As(err, &e) {
		status := e.Code
		if status == 0 {
			status = statusFromCategory(e.Category)
		}

		message := e.Message
		if e.Category == errors.CategoryInternal {
			message = "internal server error"
		}

		return c.Status(status).JSON(errorBody{
			Error: errorDetail{
				Message:  message,
				TextCode: e.TextCode,
			},
		})
	}

	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(errorBody{
			Error: errorDetail{Message: fe.Message},
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(errorBody{
		Error: errorDetail{Message: "internal server error"},
	})
}

// renderAuthError turns middleware failures into the uniform 401
// responses: a missing credential and a bad credential share status
// but carry distinct text codes.
func renderAuthError(c *fiber.Ctx, err error) error {
	if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
		return renderError(c, agentpay.ErrAuthenticationRequired)
	}
	return renderError(c, agentpay.ErrInvalidToken)
}

func statusFromCategory(category errors.Category) int {
	switch category {
	case errors.CategoryAuth:
		return fiber.StatusUnauthorized
	case errors.CategoryAuthz:
		return fiber.StatusForbidden
	case errors.CategoryValidation, errors.CategoryBadInput:
		return fiber.StatusBadRequest
	case errors.CategoryNotFound:
		return fiber.StatusNotFound
	case errors.CategoryConflict:
		return fiber.StatusConflict
	case errors.CategoryRateLimit:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}
