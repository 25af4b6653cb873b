package handler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/openacademy/academy-api/internal/authz"
	"github.com/openacademy/academy-api/internal/grading"
	"github.com/openacademy/academy-api/internal/middleware"
	"github.com/openacademy/academy-api/internal/models"
	"github.com/openacademy/academy-api/internal/service"
	"github.com/openacademy/academy-api/internal/utils"
)

func parseUintParam(c *fiber.Ctx, key string) (uint, error) {
	raw := c.Params(key)
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || parsed == 0 {
		return 0, fmt.Errorf("invalid %s parameter", key)
	}
	return uint(parsed), nil
}

func actorFromContext(c *fiber.Ctx) authz.Actor {
	actor := authz.Actor{}
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(uint); ok {
			actor.ID = id
		}
	}
	if v := c.Locals("user_role"); v != nil {
		if role, ok := v.(string); ok {
			actor.Role = role
		}
	}
	return actor
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

// handleServiceError translates service sentinels into HTTP responses. The
// services share one failure vocabulary, so the mapping lives here instead
// of being repeated per handler.
func handleServiceError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	var validationErrors validator.ValidationErrors

	switch {
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrNotEnrolled):
		return utils.SendError(c, fiber.StatusForbidden, "operation not permitted")
	case errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrLessonNotFound),
		errors.Is(err, service.ErrQuizNotFound),
		errors.Is(err, service.ErrQuizSubmissionNotFound),
		errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrAssignmentSubmissionNotFound),
		errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrReplyNotFound),
		errors.Is(err, service.ErrAnnouncementNotFound),
		errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAlreadySubmitted),
		errors.Is(err, service.ErrAlreadyEnrolled),
		errors.Is(err, service.ErrSubmissionLimitReached),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrQuizPastDue),
		errors.Is(err, service.ErrAssignmentPastDue),
		errors.Is(err, service.ErrUnsupportedFileType),
		errors.Is(err, service.ErrContentEmpty),
		errors.Is(err, service.ErrFileRequired),
		errors.Is(err, grading.ErrInvalidQuestion),
		errors.Is(err, grading.ErrNoQuestions),
		errors.Is(err, grading.ErrNegativeAward),
		errors.Is(err, grading.ErrAwardExceedsCap),
		errors.Is(err, grading.ErrTotalExceedsMax):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrMalformedQuestions):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "stored quiz questions are malformed")
	default:
		logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
