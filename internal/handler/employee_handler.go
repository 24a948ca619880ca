package handler

import (
	"retail-backoffice/internal/model"
	"retail-backoffice/internal/service"

	"github.com/gofiber/fiber/v2"
)

type EmployeeHandler struct {
	employeeService service.EmployeeService
}

func NewEmployeeHandler(employeeService service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// POST /employees
func (h *EmployeeHandler) CreateEmployee(c *fiber.Ctx) error {
	var req service.CreateEmployeeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	employee, err := h.employeeService.CreateEmployee(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(employee.ToResponse())
}

// PUT /employees/:id
func (h *EmployeeHandler) UpdateEmployee(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req service.UpdateEmployeeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	employee, err := h.employeeService.UpdateEmployee(c.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(employee.ToResponse())
}

// GET /employees?location=&role=
func (h *EmployeeHandler) GetEmployees(c *fiber.Ctx) error {
	employees, err := h.employeeService.GetEmployees(c.UserContext(), service.EmployeeQuery{
		Location: c.Query("location"),
		Role:     c.Query("role"),
	})
	if err != nil {
		return err
	}

	out := make([]model.EmployeeResponse, len(employees))
	for i := range employees {
		out[i] = employees[i].ToResponse()
	}
	return c.JSON(out)
}

// GET /employees/:id
func (h *EmployeeHandler) GetEmployee(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	employee, err := h.employeeService.GetEmployeeByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(employee.ToResponse())
}
