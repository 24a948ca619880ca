package handler

import (
	"retail-backoffice/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetQuarterlyCommissions returns commission totals per employee
// GET /reports/commissions?year=&quarter=
func (h *ReportHandler) GetQuarterlyCommissions(c *fiber.Ctx) error {
	year, err := queryInt(c, "year")
	if err != nil {
		return err
	}
	quarter, err := queryInt(c, "quarter")
	if err != nil {
		return err
	}

	report, err := h.reportService.GetQuarterlyCommissions(c.UserContext(), year, quarter)
	if err != nil {
		return err
	}
	return c.JSON(report)
}

// GET /reports/commissions/employees/:id?year=&quarter=
func (h *ReportHandler) GetEmployeeCommission(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	year, err := queryInt(c, "year")
	if err != nil {
		return err
	}
	quarter, err := queryInt(c, "quarter")
	if err != nil {
		return err
	}

	line, err := h.reportService.GetEmployeeQuarterlyCommission(c.UserContext(), id, year, quarter)
	if err != nil {
		return err
	}
	return c.JSON(line)
}
