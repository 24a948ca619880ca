package handler

import (
	"retail-backoffice/internal/model"
	"retail-backoffice/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SaleHandler struct {
	saleService service.SaleService
}

func NewSaleHandler(saleService service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// CreateSale records a sale and reserves a unit of stock when one is available
// POST /sales
func (h *SaleHandler) CreateSale(c *fiber.Ctx) error {
	var req service.CreateSaleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	sale, err := h.saleService.CreateSale(c.UserContext(), &req)
	if err != nil {
		return err
	}

	c.Location("/sales/" + sale.ID.String())
	return c.Status(fiber.StatusCreated).JSON(sale.ToResponse())
}

// GetSale returns a single sale
// GET /sales/:id
func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	sale, err := h.saleService.GetSaleByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(sale.ToResponse())
}

// GetSales lists sales, newest first
// GET /sales?startDate=&endDate=&status=
func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	sales, err := h.saleService.GetSalesByDateRange(c.UserContext(), service.SaleQuery{
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Status:    c.Query("status"),
	})
	if err != nil {
		return err
	}
	return c.JSON(model.SaleResponses(sales))
}

// FulfillSale
// POST /sales/:id/fulfillment
func (h *SaleHandler) FulfillSale(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		EmployeeID uuid.UUID `json:"employeeId"`
	}
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}

	sale, err := h.saleService.FulfillSale(c.UserContext(), id, req.EmployeeID)
	if err != nil {
		return err
	}
	return c.JSON(sale.ToResponse())
}
