package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/dto"
	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/models"
	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/observability"
	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/repository"
)

// ErrScheduleNotFound indicates the requested session does not exist for the student.
var ErrScheduleNotFound = errors.New("schedule not found")

// ErrRegularScheduleImmutable indicates a reschedule was attempted on a fixed weekly slot.
var ErrRegularScheduleImmutable = errors.New("regular schedules cannot be rescheduled")

// ErrScheduleAlreadyClosed indicates a reschedule was attempted on an origin
// that already reached a terminal status. Later changes act on the successor.
var ErrScheduleAlreadyClosed = errors.New("schedule is already closed")

// ErrMissingNewTime indicates a postpone/change request arrived without a complete new time slot.
var ErrMissingNewTime = errors.New("a new date and time are required")

// ErrInvalidChangeType indicates an unrecognised change type value.
var ErrInvalidChangeType = errors.New("unknown change type")

// ScheduleService exposes the class-session use cases: plain CRUD with
// optimistic conflict detection, and the reschedule transition that closes an
// origin session and spawns its replacement.
type ScheduleService interface {
	Create(ctx context.Context, studentID uint, payload dto.ScheduleCreateRequest) (dto.ScheduleResponse, error)
	Get(ctx context.Context, studentID, scheduleID uint) (dto.ScheduleResponse, error)
	List(ctx context.Context, studentID uint, filter dto.ScheduleListRequest) ([]dto.ScheduleResponse, error)
	Update(ctx context.Context, studentID, scheduleID uint, payload dto.ScheduleUpdateRequest) (dto.ScheduleResponse, error)
	Reschedule(ctx context.Context, studentID, originID uint, payload dto.RescheduleRequest) (dto.RescheduleResponse, error)
	Delete(ctx context.Context, studentID, scheduleID uint) error
}

type scheduleService struct {
	repo        repository.ScheduleRepository
	validator   *validator.Validate
	revalidator Revalidator
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewScheduleService builds a new schedule service.
func NewScheduleService(repo repository.ScheduleRepository, validate *validator.Validate, revalidator Revalidator, logger zerolog.Logger) ScheduleService {
	return &scheduleService{
		repo:        repo,
		validator:   validate,
		revalidator: revalidator,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "schedule_service").Logger(),
		tracer:      otel.Tracer("github.com/Nari0122/Mathlearningdashboard-sub001/internal/service/schedule"),
		now:         time.Now,
	}
}

func (s *scheduleService) Create(ctx context.Context, studentID uint, payload dto.ScheduleCreateRequest) (dto.ScheduleResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ScheduleResponse{}, err
	}

	status := models.ScheduleStatus(payload.Status)
	if status == "" {
		status = models.ScheduleStatusScheduled
	}

	dayOfWeek := payload.DayOfWeek
	if dayOfWeek == "" {
		dayOfWeek = weekdayOf(payload.Date)
	}

	schedule := models.Schedule{
		StudentID:     studentID,
		Date:          payload.Date,
		StartTime:     payload.StartTime,
		EndTime:       payload.EndTime,
		Status:        status,
		IsRegular:     payload.IsRegular,
		DayOfWeek:     dayOfWeek,
		SessionNumber: payload.SessionNumber,
		Notes:         payload.Notes,
	}

	if err := s.repo.Create(ctx, &schedule); err != nil {
		return dto.ScheduleResponse{}, err
	}

	s.revalidate(studentID)
	s.logger.Info().Uint("schedule_id", schedule.ID).Uint("student_id", studentID).Msg("schedule created")

	return dto.NewScheduleResponse(schedule), nil
}

func (s *scheduleService) Get(ctx context.Context, studentID, scheduleID uint) (dto.ScheduleResponse, error) {
	schedule, err := s.fetchOwned(ctx, studentID, scheduleID)
	if err != nil {
		return dto.ScheduleResponse{}, err
	}

	return dto.NewScheduleResponse(schedule), nil
}

func (s *scheduleService) List(ctx context.Context, studentID uint, filter dto.ScheduleListRequest) ([]dto.ScheduleResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	schedules, err := s.repo.ListByStudent(ctx, studentID, repository.ScheduleFilter{
		Month:       filter.Month,
		From:        filter.From,
		To:          filter.To,
		RegularOnly: filter.RegularOnly,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewScheduleResponseSlice(schedules), nil
}

// Update applies a plain edit. Unless Force is set, a supplied snapshot is
// compared against the persisted record on the five conflict-sensitive fields
// and the write is rejected as stale when they disagree; the conflict error
// carries the current record for the caller to re-render.
func (s *scheduleService) Update(ctx context.Context, studentID, scheduleID uint, payload dto.ScheduleUpdateRequest) (dto.ScheduleResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ScheduleResponse{}, err
	}

	schedule, err := s.fetchOwned(ctx, studentID, scheduleID)
	if err != nil {
		return dto.ScheduleResponse{}, err
	}

	if !payload.Force && payload.OriginalSnapshot != nil && !payload.OriginalSnapshot.Matches(schedule) {
		observability.ScheduleConflicts().Inc()
		s.logger.Warn().Uint("schedule_id", scheduleID).Msg("stale schedule update rejected")
		return dto.ScheduleResponse{}, &models.ScheduleConflictError{ScheduleID: scheduleID, Latest: schedule}
	}

	before := models.SnapshotOf(schedule)

	if payload.Date != nil {
		schedule.Date = *payload.Date
	}
	if payload.StartTime != nil {
		schedule.StartTime = *payload.StartTime
	}
	if payload.EndTime != nil {
		schedule.EndTime = *payload.EndTime
	}
	if payload.DayOfWeek != nil {
		schedule.DayOfWeek = *payload.DayOfWeek
	}
	if payload.IsRegular != nil {
		schedule.IsRegular = *payload.IsRegular
	}
	if payload.Status != nil {
		schedule.Status = models.ScheduleStatus(*payload.Status)
	}
	if payload.SessionNumber != nil {
		schedule.SessionNumber = payload.SessionNumber
	}
	if payload.Notes != nil {
		schedule.Notes = *payload.Notes
	}

	if !before.Matches(schedule) {
		schedule.IsModified = true
	}

	if err := s.repo.Update(ctx, &schedule); err != nil {
		return dto.ScheduleResponse{}, err
	}

	s.revalidate(studentID)
	s.logger.Info().Uint("schedule_id", schedule.ID).Bool("forced", payload.Force).Msg("schedule updated")

	return dto.NewScheduleResponse(schedule), nil
}

// Reschedule closes the origin session with a terminal status and, except on
// cancellation, creates one replacement session linked back to it. The origin
// is treated as authoritative: no snapshot conflict check applies here, but
// an origin that already reached a terminal status is rejected outright. The
// two writes are sequential and not wrapped in a transaction; a failure after
// the origin write is surfaced, not rolled back.
func (s *scheduleService) Reschedule(ctx context.Context, studentID, originID uint, payload dto.RescheduleRequest) (dto.RescheduleResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RescheduleResponse{}, err
	}

	changeType := models.ChangeType(payload.ChangeType)
	if !changeType.Valid() {
		return dto.RescheduleResponse{}, ErrInvalidChangeType
	}

	origin, err := s.fetchOwned(ctx, studentID, originID)
	if err != nil {
		return dto.RescheduleResponse{}, err
	}

	if origin.Status.IsTerminal() {
		observability.Reschedules().WithLabelValues(string(changeType), "rejected").Inc()
		return dto.RescheduleResponse{}, ErrScheduleAlreadyClosed
	}

	if origin.IsRegular {
		observability.Reschedules().WithLabelValues(string(changeType), "rejected").Inc()
		return dto.RescheduleResponse{}, ErrRegularScheduleImmutable
	}

	ctx, span := s.tracer.Start(ctx, "schedules.reschedule", trace.WithAttributes(
		attribute.Int("schedule.origin_id", int(originID)),
		attribute.String("schedule.change_type", string(changeType)),
	))
	defer span.End()

	// Validation must complete before the first write: a request missing the
	// new slot leaves the origin untouched.
	if changeType.CreatesSuccessor() {
		if payload.NewDate == "" || payload.NewStartTime == "" || payload.NewEndTime == "" {
			observability.Reschedules().WithLabelValues(string(changeType), "rejected").Inc()
			return dto.RescheduleResponse{}, ErrMissingNewTime
		}
	}

	reason := strings.TrimSpace(s.sanitizer.Sanitize(payload.Reason))

	origin.Status = changeType.TerminalStatus()
	origin.IsModified = true
	origin.ChangeType = changeType
	origin.ChangeReason = reason

	if err := s.repo.Update(ctx, &origin); err != nil {
		observability.Reschedules().WithLabelValues(string(changeType), "origin_write_failed").Inc()
		return dto.RescheduleResponse{}, fmt.Errorf("failed to close origin schedule: %w", err)
	}

	if !changeType.CreatesSuccessor() {
		observability.Reschedules().WithLabelValues(string(changeType), "success").Inc()
		s.revalidate(studentID)
		s.logger.Info().Uint("schedule_id", originID).Msg("schedule cancelled")
		return dto.RescheduleResponse{Origin: dto.NewScheduleResponse(origin)}, nil
	}

	successor := models.Schedule{
		StudentID:          studentID,
		Date:               payload.NewDate,
		StartTime:          payload.NewStartTime,
		EndTime:            payload.NewEndTime,
		Status:             models.ScheduleStatusScheduled,
		IsRegular:          false,
		DayOfWeek:          weekdayOf(payload.NewDate),
		SessionNumber:      origin.SessionNumber,
		ChangeReason:       reason,
		OriginScheduleID:   &origin.ID,
		ScheduleChangeType: changeType,
	}

	if err := s.repo.Create(ctx, &successor); err != nil {
		// The origin is already closed; there is no rollback. Surface the
		// failure so the caller knows the replacement is missing.
		observability.Reschedules().WithLabelValues(string(changeType), "successor_write_failed").Inc()
		s.logger.Error().Err(err).Uint("origin_id", origin.ID).Msg("origin closed but replacement creation failed")
		return dto.RescheduleResponse{}, fmt.Errorf("origin schedule closed but replacement creation failed: %w", err)
	}

	observability.Reschedules().WithLabelValues(string(changeType), "success").Inc()
	s.revalidate(studentID)
	s.logger.Info().
		Uint("origin_id", origin.ID).
		Uint("successor_id", successor.ID).
		Str("change_type", string(changeType)).
		Msg("schedule rescheduled")

	originResp := dto.NewScheduleResponse(origin)
	successorResp := dto.NewScheduleResponse(successor)
	return dto.RescheduleResponse{Origin: originResp, Successor: &successorResp}, nil
}

func (s *scheduleService) Delete(ctx context.Context, studentID, scheduleID uint) error {
	if _, err := s.fetchOwned(ctx, studentID, scheduleID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, scheduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScheduleNotFound
		}
		return err
	}

	s.revalidate(studentID)
	s.logger.Info().Uint("schedule_id", scheduleID).Msg("schedule deleted")
	return nil
}

func (s *scheduleService) fetchOwned(ctx context.Context, studentID, scheduleID uint) (models.Schedule, error) {
	schedule, err := s.repo.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Schedule{}, ErrScheduleNotFound
		}
		return models.Schedule{}, err
	}

	if schedule.StudentID != studentID {
		return models.Schedule{}, ErrScheduleNotFound
	}

	return schedule, nil
}

func (s *scheduleService) revalidate(studentID uint) {
	if s.revalidator != nil {
		s.revalidator.ScheduleChanged(studentID)
	}
}

var koreanWeekdays = [7]string{"일", "월", "화", "수", "목", "금", "토"}

func weekdayOf(date string) string {
	day, err := time.ParseInLocation("2006-01-02", date, models.ScheduleZone())
	if err != nil {
		return ""
	}
	return koreanWeekdays[int(day.Weekday())]
}
