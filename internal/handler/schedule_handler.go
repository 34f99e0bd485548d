package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/dto"
	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/models"
	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/service"
	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/utils"
)

// ScheduleHandler wires class-session HTTP routes.
type ScheduleHandler struct {
	service service.ScheduleService
	logger  zerolog.Logger
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(service service.ScheduleService, logger zerolog.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		service: service,
		logger:  logger.With().Str("component", "schedule_handler").Logger(),
	}
}

// Register attaches schedule endpoints to the student-scoped router group.
func (h *ScheduleHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Post("/:id/reschedule", h.reschedule)
	router.Delete("/:id", h.delete)
}

func (h *ScheduleHandler) list(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "studentID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	filter := dto.ScheduleListRequest{
		Month:       c.Query("month"),
		From:        c.Query("from"),
		To:          c.Query("to"),
		RegularOnly: parseQueryBool(c, "regular_only"),
	}

	schedules, err := h.service.List(c.Context(), studentID, filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "schedules retrieved", schedules)
}

func (h *ScheduleHandler) get(c *fiber.Ctx) error {
	studentID, scheduleID, err := h.pathIDs(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	schedule, err := h.service.Get(c.Context(), studentID, scheduleID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "schedule retrieved", schedule)
}

func (h *ScheduleHandler) create(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "studentID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ScheduleCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	schedule, err := h.service.Create(c.Context(), studentID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "schedule created", schedule)
}

func (h *ScheduleHandler) update(c *fiber.Ctx) error {
	studentID, scheduleID, err := h.pathIDs(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ScheduleUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	schedule, err := h.service.Update(c.Context(), studentID, scheduleID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "schedule updated", schedule)
}

func (h *ScheduleHandler) reschedule(c *fiber.Ctx) error {
	studentID, scheduleID, err := h.pathIDs(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.RescheduleRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Reschedule(c.Context(), studentID, scheduleID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "schedule rescheduled", result)
}

func (h *ScheduleHandler) delete(c *fiber.Ctx) error {
	studentID, scheduleID, err := h.pathIDs(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), studentID, scheduleID); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "schedule deleted", fiber.Map{"id": scheduleID})
}

func (h *ScheduleHandler) pathIDs(c *fiber.Ctx) (uint, uint, error) {
	studentID, err := parseUintParam(c, "studentID")
	if err != nil {
		return 0, 0, err
	}
	scheduleID, err := parseUintParam(c, "id")
	if err != nil {
		return 0, 0, err
	}
	return studentID, scheduleID, nil
}

func (h *ScheduleHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	var conflict *models.ScheduleConflictError
	switch {
	case errors.Is(err, service.ErrScheduleNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "schedule not found")
	case errors.As(err, &conflict):
		// The caller edited from a stale view; hand back the latest record so
		// the client can re-render and retry or force.
		return utils.SendErrorWithData(c, fiber.StatusConflict, conflict.Error(), dto.NewScheduleResponse(conflict.Latest))
	case errors.Is(err, service.ErrScheduleAlreadyClosed):
		return utils.SendError(c, fiber.StatusConflict, "schedule is already closed")
	case errors.Is(err, service.ErrRegularScheduleImmutable):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "regular schedules cannot be rescheduled")
	case errors.Is(err, service.ErrMissingNewTime):
		return utils.SendError(c, fiber.StatusBadRequest, "enter a new date and time")
	case errors.Is(err, service.ErrInvalidChangeType):
		return utils.SendError(c, fiber.StatusBadRequest, "unknown change type")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *ScheduleHandler) internalError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
