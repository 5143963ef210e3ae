package response

import (
	goerrors "errors"

	errs "github.com/gungun88/merchant-platform-sub002/internal/errors"

	"github.com/gofiber/fiber/v2"
)

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func ServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

func Unauthorized(c *fiber.Ctx) error {
	return Error(c, fiber.StatusUnauthorized, "Unauthorized")
}

// DomainError maps a service error to an HTTP response by its code.
// Unknown errors become a generic 500 so internals never leak.
func DomainError(c *fiber.Ctx, err error) error {
	var de *errs.DomainError
	if !goerrors.As(err, &de) {
		return ServerError(c, "internal server error")
	}

	status := fiber.StatusInternalServerError
	switch de.Code {
	case errs.ErrUnauthorized.Code:
		status = fiber.StatusForbidden
	case errs.ErrNotFound.Code:
		status = fiber.StatusNotFound
	case errs.ErrInvalidInput.Code:
		status = fiber.StatusBadRequest
	case errs.ErrInvalidState.Code, errs.ErrInsufficientBalance.Code:
		status = fiber.StatusUnprocessableEntity
	case errs.ErrConcurrentModification.Code:
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(fiber.Map{
		"error": de.Message,
		"code":  de.Code,
	})
}
