package handlers

import (
	"marketbay/internal/domain"
	applog "marketbay/internal/log"
	"marketbay/internal/services"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Orders *services.OrderService
}

type placeOrderInput struct {
	Shipping domain.ShippingAddress `json:"shippingAddress"`
}

// POST /api/orders
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var in placeOrderInput
	if err := c.BodyParser(&in); err != nil {
		return &services.ValidationError{Fields: []string{"body"}}
	}
	id := Identity(c)
	o, err := h.Orders.Place(id.UserID, in.Shipping)
	if err != nil {
		applog.Security(c, "order.place.fail", map[string]any{"user_id": id.UserID, "error": err.Error()})
		return err
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id": o.ID, "user_id": id.UserID, "total": o.Total.String(),
	})
	return c.Status(fiber.StatusCreated).JSON(o)
}

// GET /api/orders
func (h *OrderHandler) History(c *fiber.Ctx) error {
	orders, err := h.Orders.History(Identity(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

// GET /api/orders/:id — owner or admin; everyone else sees a 404 rather
// than a hint that the order exists.
func (h *OrderHandler) View(c *fiber.Ctx) error {
	oid := c.Params("id")
	o, err := h.Orders.Get(oid)
	if err != nil {
		return err
	}
	id := Identity(c)
	if o.UserID != id.UserID && id.Role != domain.RoleAdmin {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid, "user_id": id.UserID})
		return &services.NotFoundError{Resource: "order", ID: oid}
	}
	return c.JSON(o)
}

type statusInput struct {
	Status string `json:"status"`
}

// PUT /api/orders/:id/status (admin)
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var in statusInput
	if err := c.BodyParser(&in); err != nil {
		return &services.ValidationError{Fields: []string{"body"}}
	}
	o, err := h.Orders.UpdateStatus(c.Params("id"), in.Status)
	if err != nil {
		return err
	}
	applog.Audit(c, "order.status.update", map[string]any{"order_id": o.ID, "status": o.Status})
	return c.JSON(o)
}
