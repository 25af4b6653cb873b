package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/openacademy/academy-api/internal/service"
	"github.com/openacademy/academy-api/internal/utils"
)

// ProgressHandler wires the student progress dashboard routes.
type ProgressHandler struct {
	service service.ProgressService
	logger  zerolog.Logger
}

// NewProgressHandler constructs the handler.
func NewProgressHandler(service service.ProgressService, logger zerolog.Logger) *ProgressHandler {
	return &ProgressHandler{
		service: service,
		logger:  logger.With().Str("component", "progress_handler").Logger(),
	}
}

// Register attaches the progress endpoints to the /me group.
func (h *ProgressHandler) Register(router fiber.Router) {
	router.Get("/progress", h.report)
	router.Get("/progress/csv", h.exportCSV)
	router.Get("/progress/pdf", h.exportPDF)
}

func (h *ProgressHandler) report(c *fiber.Ctx) error {
	report, err := h.service.Report(c.UserContext(), actorFromContext(c))
	if err != nil {
		return handleServiceError(c, *requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "progress retrieved", report)
}

func (h *ProgressHandler) exportCSV(c *fiber.Ctx) error {
	data, err := h.service.ExportCSV(c.UserContext(), actorFromContext(c))
	if err != nil {
		return handleServiceError(c, *requestLogger(h.logger, c), err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="progress_report.csv"`)
	return c.Send(data)
}

func (h *ProgressHandler) exportPDF(c *fiber.Ctx) error {
	data, err := h.service.ExportPDF(c.UserContext(), actorFromContext(c))
	if err != nil {
		return handleServiceError(c, *requestLogger(h.logger, c), err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="progress_report.pdf"`)
	return c.Send(data)
}
