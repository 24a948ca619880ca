package handler

import (
	"retail-backoffice/internal/model"
	"retail-backoffice/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// POST /products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	product, err := h.productService.CreateProduct(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(product.ToResponse())
}

// PUT /products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req service.ProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	product, err := h.productService.UpdateProduct(c.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(product.ToResponse())
}

// GET /products
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.productService.GetAllProducts(c.UserContext())
	if err != nil {
		return err
	}

	out := make([]model.ProductResponse, len(products))
	for i := range products {
		out[i] = products[i].ToResponse()
	}
	return c.JSON(out)
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.productService.GetProductByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(product.ToResponse())
}
