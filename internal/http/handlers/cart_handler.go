package handlers

import (
	"marketbay/internal/services"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart *services.CartService
}

// GET /api/cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	cv, err := h.Cart.View(Identity(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(cv)
}

type addItemInput struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"quantity"`
}

// POST /api/cart
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var in addItemInput
	if err := c.BodyParser(&in); err != nil {
		return &services.ValidationError{Fields: []string{"body"}}
	}
	if in.ProductID == "" {
		return &services.ValidationError{Fields: []string{"productId"}}
	}
	cv, err := h.Cart.Add(Identity(c).UserID, in.ProductID, in.Qty)
	if err != nil {
		return err
	}
	return c.JSON(cv)
}

type updateQtyInput struct {
	Qty int `json:"quantity"`
}

// PUT /api/cart/item/:productId
func (h *CartHandler) UpdateQty(c *fiber.Ctx) error {
	var in updateQtyInput
	if err := c.BodyParser(&in); err != nil {
		return &services.ValidationError{Fields: []string{"body"}}
	}
	cv, err := h.Cart.UpdateQty(Identity(c).UserID, c.Params("productId"), in.Qty)
	if err != nil {
		return err
	}
	return c.JSON(cv)
}

// DELETE /api/cart/item/:productId
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	cv, err := h.Cart.Remove(Identity(c).UserID, c.Params("productId"))
	if err != nil {
		return err
	}
	return c.JSON(cv)
}

// DELETE /api/cart/clear
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.Cart.Clear(Identity(c).UserID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Cart cleared successfully"})
}
