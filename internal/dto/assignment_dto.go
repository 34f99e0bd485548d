package dto

import (
	"time"

	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/models"
)

// AssignmentCreateRequest describes the payload for assigning homework.
type AssignmentCreateRequest struct {
	Title            string `json:"title" validate:"required,min=2"`
	Description      string `json:"description"`
	DueDate          string `json:"due_date" validate:"required,datetime=2006-01-02"`
	LinkedScheduleID *uint  `json:"linked_schedule_id"`
}

// AssignmentListRequest filters a student's homework list.
type AssignmentListRequest struct {
	Status string `json:"status" validate:"omitempty,oneof=pending submitted late-submitted"`
}

// AssignmentResponse is the serialized representation returned to API
// clients. DisplayStatus and Locked are computed from "now" on every read;
// they are never persisted.
type AssignmentResponse struct {
	ID                 uint                    `json:"id"`
	StudentID          uint                    `json:"student_id"`
	Title              string                  `json:"title"`
	Description        string                  `json:"description"`
	DueDate            string                  `json:"due_date"`
	SubmissionDeadline time.Time               `json:"submission_deadline"`
	LinkedScheduleID   *uint                   `json:"linked_schedule_id"`
	Status             models.AssignmentStatus `json:"status"`
	DisplayStatus      models.AssignmentStatus `json:"display_status"`
	Locked             bool                    `json:"locked"`
	SubmittedDate      *time.Time              `json:"submitted_date"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
}

// NewAssignmentResponse converts a model into a DTO, deriving the display
// state at the given instant.
func NewAssignmentResponse(model models.Assignment, now time.Time) AssignmentResponse {
	locked := model.LockedAt(now)

	display := model.Status
	if !model.IsSubmitted() {
		switch {
		case locked:
			display = models.AssignmentStatusExpired
		case now.After(models.DeriveSubmissionDeadline(model.DueDate, nil)):
			display = models.AssignmentStatusOverdue
		}
	}

	return AssignmentResponse{
		ID:                 model.ID,
		StudentID:          model.StudentID,
		Title:              model.Title,
		Description:        model.Description,
		DueDate:            model.DueDate,
		SubmissionDeadline: model.SubmissionDeadline,
		LinkedScheduleID:   model.LinkedScheduleID,
		Status:             model.Status,
		DisplayStatus:      display,
		Locked:             locked,
		SubmittedDate:      model.SubmittedDate,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	}
}

// NewAssignmentResponseSlice converts a slice of models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment, now time.Time) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment, now))
	}
	return responses
}
