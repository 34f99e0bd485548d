package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/dto"
	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/models"
	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/repository"
)

// ErrAssignmentNotFound indicates the requested homework item does not exist for the student.
var ErrAssignmentNotFound = errors.New("assignment not found")

// ErrSubmissionClosed indicates the submission deadline has passed.
var ErrSubmissionClosed = errors.New("submission deadline has passed")

// ErrAlreadySubmitted indicates the assignment was already handed in.
var ErrAlreadySubmitted = errors.New("assignment already submitted")

// AssignmentService exposes homework use cases. The submission deadline is
// derived exactly once at creation from the linked session's current slot;
// later reschedules of that session do not move it.
type AssignmentService interface {
	Create(ctx context.Context, studentID uint, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
	Get(ctx context.Context, studentID, assignmentID uint) (dto.AssignmentResponse, error)
	List(ctx context.Context, studentID uint, filter dto.AssignmentListRequest) ([]dto.AssignmentResponse, error)
	Submit(ctx context.Context, studentID, assignmentID uint) (dto.AssignmentResponse, error)
	Delete(ctx context.Context, studentID, assignmentID uint) error
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	schedules   repository.ScheduleRepository
	validator   *validator.Validate
	revalidator Revalidator
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAssignmentService builds a new assignment service.
func NewAssignmentService(assignments repository.AssignmentRepository, schedules repository.ScheduleRepository, validate *validator.Validate, revalidator Revalidator, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		schedules:   schedules,
		validator:   validate,
		revalidator: revalidator,
		logger:      logger.With().Str("component", "assignment_service").Logger(),
		now:         time.Now,
	}
}

func (s *assignmentService) Create(ctx context.Context, studentID uint, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	var linked *models.Schedule
	if payload.LinkedScheduleID != nil {
		schedule, err := s.schedules.GetByID(ctx, *payload.LinkedScheduleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.AssignmentResponse{}, ErrScheduleNotFound
			}
			return dto.AssignmentResponse{}, err
		}
		if schedule.StudentID != studentID {
			return dto.AssignmentResponse{}, ErrScheduleNotFound
		}
		linked = &schedule
	}

	assignment := models.Assignment{
		StudentID:          studentID,
		Title:              payload.Title,
		Description:        payload.Description,
		DueDate:            payload.DueDate,
		SubmissionDeadline: models.DeriveSubmissionDeadline(payload.DueDate, linked),
		LinkedScheduleID:   payload.LinkedScheduleID,
		Status:             models.AssignmentStatusPending,
	}

	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.revalidate(studentID)
	s.logger.Info().Uint("assignment_id", assignment.ID).Uint("student_id", studentID).Msg("assignment created")

	return dto.NewAssignmentResponse(assignment, s.now()), nil
}

func (s *assignmentService) Get(ctx context.Context, studentID, assignmentID uint) (dto.AssignmentResponse, error) {
	assignment, err := s.fetchOwned(ctx, studentID, assignmentID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment, s.now()), nil
}

func (s *assignmentService) List(ctx context.Context, studentID uint, filter dto.AssignmentListRequest) ([]dto.AssignmentResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	assignments, err := s.assignments.ListByStudent(ctx, studentID, repository.AssignmentFilter{
		Status: models.AssignmentStatus(filter.Status),
	})
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentResponseSlice(assignments, s.now()), nil
}

// Submit hands the assignment in, gated by the submission lock. Handing in
// after the due date but before the deadline records a late submission.
func (s *assignmentService) Submit(ctx context.Context, studentID, assignmentID uint) (dto.AssignmentResponse, error) {
	assignment, err := s.fetchOwned(ctx, studentID, assignmentID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	if assignment.IsSubmitted() {
		return dto.AssignmentResponse{}, ErrAlreadySubmitted
	}

	now := s.now()
	if assignment.LockedAt(now) {
		return dto.AssignmentResponse{}, ErrSubmissionClosed
	}

	status := models.AssignmentStatusSubmitted
	if now.After(models.DeriveSubmissionDeadline(assignment.DueDate, nil)) {
		status = models.AssignmentStatusLateSubmitted
	}

	assignment.Status = status
	assignment.SubmittedDate = &now

	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.revalidate(studentID)
	s.logger.Info().Uint("assignment_id", assignment.ID).Str("status", string(status)).Msg("assignment submitted")

	return dto.NewAssignmentResponse(assignment, now), nil
}

func (s *assignmentService) Delete(ctx context.Context, studentID, assignmentID uint) error {
	if _, err := s.fetchOwned(ctx, studentID, assignmentID); err != nil {
		return err
	}

	if err := s.assignments.Delete(ctx, assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	s.revalidate(studentID)
	s.logger.Info().Uint("assignment_id", assignmentID).Msg("assignment deleted")
	return nil
}

func (s *assignmentService) fetchOwned(ctx context.Context, studentID, assignmentID uint) (models.Assignment, error) {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assignment{}, ErrAssignmentNotFound
		}
		return models.Assignment{}, err
	}

	if assignment.StudentID != studentID {
		return models.Assignment{}, ErrAssignmentNotFound
	}

	return assignment, nil
}

func (s *assignmentService) revalidate(studentID uint) {
	if s.revalidator != nil {
		s.revalidator.AssignmentChanged(studentID)
	}
}
