package handlers

import (
	applog "marketbay/internal/log"
	"marketbay/internal/services"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// GET /api/products?category=...
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.Catalog.List(c.Query("category"))
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// GET /api/products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	p, err := h.Catalog.Get(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// POST /api/products (admin)
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return &services.ValidationError{Fields: []string{"body"}}
	}
	p, err := h.Catalog.Create(in)
	if err != nil {
		return err
	}
	applog.Audit(c, "product.create", map[string]any{"product_id": p.ID})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// PUT /api/products/:id (admin)
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var patch services.ProductPatch
	if err := c.BodyParser(&patch); err != nil {
		return &services.ValidationError{Fields: []string{"body"}}
	}
	p, err := h.Catalog.Update(c.Params("id"), patch)
	if err != nil {
		return err
	}
	applog.Audit(c, "product.update", map[string]any{"product_id": p.ID})
	return c.JSON(p)
}

// DELETE /api/products/:id (admin)
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Catalog.Delete(id); err != nil {
		return err
	}
	applog.Audit(c, "product.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"message": "Product removed successfully"})
}
