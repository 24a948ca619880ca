package handler

import (
	"retail-backoffice/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CustomerHandler struct {
	customerService service.CustomerService
}

func NewCustomerHandler(customerService service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// POST /customers
func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	var req service.CustomerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	customer, err := h.customerService.CreateCustomer(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

// PUT /customers/:id
func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req service.CustomerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	customer, err := h.customerService.UpdateCustomer(c.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(customer)
}

// GET /customers?search=
func (h *CustomerHandler) GetCustomers(c *fiber.Ctx) error {
	customers, err := h.customerService.GetCustomers(c.UserContext(), c.Query("search"))
	if err != nil {
		return err
	}
	return c.JSON(customers)
}

// GET /customers/:id
func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	customer, err := h.customerService.GetCustomerByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(customer)
}
