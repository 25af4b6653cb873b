package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/openacademy/academy-api/internal/dto"
	"github.com/openacademy/academy-api/internal/service"
	"github.com/openacademy/academy-api/internal/utils"
)

// CalendarHandler wires the aggregated calendar routes.
type CalendarHandler struct {
	service service.CalendarService
	logger  zerolog.Logger
}

// NewCalendarHandler constructs the handler.
func NewCalendarHandler(service service.CalendarService, logger zerolog.Logger) *CalendarHandler {
	return &CalendarHandler{
		service: service,
		logger:  logger.With().Str("component", "calendar_handler").Logger(),
	}
}

// Register attaches the calendar endpoints.
func (h *CalendarHandler) Register(router fiber.Router) {
	router.Get("/events", h.feed)
	router.Post("/events", h.create)
	router.Delete("/events/:id", h.delete)
}

func (h *CalendarHandler) feed(c *fiber.Ctx) error {
	var window dto.CalendarFeedRequest
	if err := c.QueryParser(&window); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid time window")
	}

	entries, err := h.service.Feed(c.UserContext(), actorFromContext(c), window)
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "calendar retrieved", entries)
}

func (h *CalendarHandler) create(c *fiber.Ctx) error {
	var payload dto.CalendarEventCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	entry, err := h.service.CreateEvent(c.UserContext(), actorFromContext(c), payload)
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "event created", entry)
}

func (h *CalendarHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteEvent(c.UserContext(), actorFromContext(c), id); err != nil {
		return handleServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "event deleted", fiber.Map{"id": id})
}
