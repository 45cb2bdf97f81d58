package handlers

import (
	"errors"

	applog "marketbay/internal/log"
	"marketbay/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the app-wide fiber error handler. Handlers return the
// service taxonomy directly and the mapping to statuses happens here, in
// one place. Unrecognized errors get a generic 500 body so internals
// never leak to clients.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var (
		vErr   *services.ValidationError
		nfErr  *services.NotFoundError
		cfErr  *services.ConflictError
		insErr *services.InsufficientStockError
		excErr *services.StockExceededError
		fibErr *fiber.Error
	)

	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": vErr.Error(), "fields": vErr.Fields,
		})
	case errors.Is(err, services.ErrCartEmpty):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cart is empty. Cannot create an order.",
		})
	case errors.As(err, &insErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": insErr.Error(), "productId": insErr.ProductID,
			"available": insErr.Available, "requested": insErr.Requested,
		})
	case errors.As(err, &excErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": excErr.Error(), "productId": excErr.ProductID,
			"available": excErr.Available, "requested": excErr.Requested,
		})
	case errors.As(err, &nfErr):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": nfErr.Error()})
	case errors.As(err, &cfErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": cfErr.Error()})
	case errors.Is(err, services.ErrBadCreds):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	case errors.As(err, &fibErr):
		return c.Status(fibErr.Code).JSON(fiber.Map{"error": fibErr.Message})
	}

	applog.Error(c, "server.error", err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Something went wrong. Please try again.",
	})
}
