package handler

import (
	"retail-backoffice/internal/model"
	"retail-backoffice/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	invService service.InventoryService
}

func NewInventoryHandler(invService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{invService: invService}
}

// UpdateInventory sets the stock of a product at one location
// PUT /inventory/:productId
func (h *InventoryHandler) UpdateInventory(c *fiber.Ctx) error {
	productID, err := paramID(c, "productId")
	if err != nil {
		return err
	}

	var req service.UpdateInventoryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	inv, err := h.invService.UpdateProductInventory(c.UserContext(), productID, &req)
	if err != nil {
		return err
	}
	return c.JSON(inv.ToResponse())
}

// GetInventory lists stock rows of a product, optionally at one location
// GET /inventory/:productId?location=
func (h *InventoryHandler) GetInventory(c *fiber.Ctx) error {
	productID, err := paramID(c, "productId")
	if err != nil {
		return err
	}

	var rows []model.Inventory
	if raw := c.Query("location"); raw != "" {
		location, err := model.ParseLocation(raw)
		if err != nil {
			return &service.InvalidArgumentError{Reason: err.Error()}
		}
		inv, err := h.invService.GetInventoryAt(c.UserContext(), productID, location)
		if err != nil {
			return err
		}
		if inv != nil {
			rows = append(rows, *inv)
		}
	} else {
		rows, err = h.invService.GetProductInventory(c.UserContext(), productID)
		if err != nil {
			return err
		}
	}

	out := make([]model.InventoryResponse, len(rows))
	for i := range rows {
		out[i] = rows[i].ToResponse()
	}
	return c.JSON(out)
}
