package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/openacademy/academy-api/internal/dto"
	"github.com/openacademy/academy-api/internal/service"
	"github.com/openacademy/academy-api/internal/utils"
)

// AnnouncementHandler wires course and site-wide announcement routes.
type AnnouncementHandler struct {
	service service.AnnouncementService
	logger  zerolog.Logger
}

// NewAnnouncementHandler constructs the handler.
func NewAnnouncementHandler(service service.AnnouncementService, logger zerolog.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{
		service: service,
		logger:  logger.With().Str("component", "announcement_handler").Logger(),
	}
}

// RegisterCourseScoped attaches the course-nested announcement endpoints.
func (h *AnnouncementHandler) RegisterCourseScoped(router fiber.Router) {
	router.Get("/:id/announcements", h.listByCourse)
	router.Post("/:id/announcements", h.create)
}

// Register attaches the top-level announcement endpoints.
func (h *AnnouncementHandler) Register(router fiber.Router) {
	router.Get("/general", h.listGeneral)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

// RegisterAdmin attaches the site-wide announcement endpoints.
func (h *AnnouncementHandler) RegisterAdmin(router fiber.Router) {
	router.Get("", h.listGeneral)
	router.Post("", h.createGeneral)
	router.Delete("/:id", h.deleteGeneral)
}

func (h *AnnouncementHandler) listByCourse(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	announcements, err := h.service.ListByCourse(c.UserContext(), actorFromContext(c), courseID)
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "announcements retrieved", announcements)
}

func (h *AnnouncementHandler) create(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.AnnouncementCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	announcement, err := h.service.Create(c.UserContext(), actorFromContext(c), courseID, payload)
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "announcement created", announcement)
}

func (h *AnnouncementHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.AnnouncementUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	announcement, err := h.service.Update(c.UserContext(), actorFromContext(c), id, payload)
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "announcement updated", announcement)
}

func (h *AnnouncementHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.UserContext(), actorFromContext(c), id); err != nil {
		return handleServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "announcement deleted", fiber.Map{"id": id})
}

func (h *AnnouncementHandler) listGeneral(c *fiber.Ctx) error {
	announcements, err := h.service.ListGeneral(c.UserContext())
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "announcements retrieved", announcements)
}

func (h *AnnouncementHandler) createGeneral(c *fiber.Ctx) error {
	var payload dto.GeneralAnnouncementCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	announcement, err := h.service.CreateGeneral(c.UserContext(), actorFromContext(c), payload)
	if err != nil {
		return handleServiceError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "announcement created", announcement)
}

func (h *AnnouncementHandler) deleteGeneral(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteGeneral(c.UserContext(), actorFromContext(c), id); err != nil {
		return handleServiceError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "announcement deleted", fiber.Map{"id": id})
}
