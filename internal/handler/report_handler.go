package handler

import (
	"agritrack-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// GET /api/reports/inventory
func (h *ReportHandler) InventoryReport(c *fiber.Ctx) error {
	var filter service.InventoryReportFilter
	if err := c.QueryParser(&filter); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid query parameters"})
	}
	report, err := h.service.GenerateInventoryReport(filter, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// GET /api/reports/transactions
func (h *ReportHandler) TransactionReport(c *fiber.Ctx) error {
	var filter service.TransactionReportFilter
	if err := c.QueryParser(&filter); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid query parameters"})
	}
	report, err := h.service.GenerateTransactionReport(filter, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// GET /api/reports/filter-options
func (h *ReportHandler) FilterOptions(c *fiber.Ctx) error {
	opts, err := h.service.GetFilterOptions()
	if err != nil {
		return err
	}
	return c.JSON(opts)
}

// GET /api/reports?type=&limit=
func (h *ReportHandler) ListReports(c *fiber.Ctx) error {
	reports, err := h.service.ListReports(c.Query("type"), c.QueryInt("limit", 50))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reports)
}

// GET /api/reports/:id?replay=true
func (h *ReportHandler) GetReport(c *fiber.Ctx) error {
	id, err := parseID(c, "report")
	if err != nil {
		return err
	}
	view, err := h.service.GetReport(id, c.QueryBool("replay", false))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// GET /api/reports/:id/pdf
func (h *ReportHandler) DownloadPDF(c *fiber.Ctx) error {
	id, err := parseID(c, "report")
	if err != nil {
		return err
	}
	file, err := h.service.RenderReportPDF(id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Attachment(file.Filename)
	return c.Send(file.Data)
}
