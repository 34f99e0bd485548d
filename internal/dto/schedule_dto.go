package dto

import (
	"time"

	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/models"
)

// ScheduleCreateRequest describes the payload for creating a class session.
type ScheduleCreateRequest struct {
	Date          string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime     string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime       string `json:"end_time" validate:"required,datetime=15:04"`
	Status        string `json:"status" validate:"omitempty,oneof=scheduled completed"`
	IsRegular     bool   `json:"is_regular"`
	DayOfWeek     string `json:"day_of_week" validate:"omitempty,max=16"`
	SessionNumber *int   `json:"session_number" validate:"omitempty,min=1"`
	Notes         string `json:"notes"`
}

// ScheduleUpdateRequest describes a plain edit of a session. OriginalSnapshot
// carries the caller's belief about the conflict-sensitive fields; leaving it
// nil skips stale-write detection, and Force bypasses it entirely.
type ScheduleUpdateRequest struct {
	Date             *string                  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime        *string                  `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime          *string                  `json:"end_time" validate:"omitempty,datetime=15:04"`
	DayOfWeek        *string                  `json:"day_of_week" validate:"omitempty,max=16"`
	IsRegular        *bool                    `json:"is_regular"`
	Status           *string                  `json:"status" validate:"omitempty,oneof=scheduled completed cancelled postponed changed"`
	SessionNumber    *int                     `json:"session_number" validate:"omitempty,min=1"`
	Notes            *string                  `json:"notes"`
	OriginalSnapshot *models.ScheduleSnapshot `json:"original_snapshot"`
	Force            bool                     `json:"force"`
}

// RescheduleRequest describes a postpone/makeup/cancel/time-change operation
// on a non-regular session.
type RescheduleRequest struct {
	ChangeType   string `json:"change_type" validate:"required"`
	Reason       string `json:"reason" validate:"max=2000"`
	NewDate      string `json:"new_date" validate:"omitempty,datetime=2006-01-02"`
	NewStartTime string `json:"new_start_time" validate:"omitempty,datetime=15:04"`
	NewEndTime   string `json:"new_end_time" validate:"omitempty,datetime=15:04"`
}

// ScheduleListRequest filters a student's session list.
type ScheduleListRequest struct {
	Month       string `json:"month" validate:"omitempty,datetime=2006-01"`
	From        string `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To          string `json:"to" validate:"omitempty,datetime=2006-01-02"`
	RegularOnly bool   `json:"regular_only"`
}

// ScheduleResponse is the serialized representation returned to API clients.
type ScheduleResponse struct {
	ID                 uint                  `json:"id"`
	StudentID          uint                  `json:"student_id"`
	Date               string                `json:"date"`
	StartTime          string                `json:"start_time"`
	EndTime            string                `json:"end_time"`
	Status             models.ScheduleStatus `json:"status"`
	IsRegular          bool                  `json:"is_regular"`
	DayOfWeek          string                `json:"day_of_week"`
	SessionNumber      *int                  `json:"session_number"`
	Notes              string                `json:"notes"`
	IsModified         bool                  `json:"is_modified"`
	ChangeType         models.ChangeType     `json:"change_type,omitempty"`
	ChangeReason       string                `json:"change_reason,omitempty"`
	OriginScheduleID   *uint                 `json:"origin_schedule_id,omitempty"`
	ScheduleChangeType models.ChangeType     `json:"schedule_change_type,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

// RescheduleResponse reports the outcome of a reschedule operation. Successor
// is nil when the session was cancelled.
type RescheduleResponse struct {
	Origin    ScheduleResponse  `json:"origin"`
	Successor *ScheduleResponse `json:"successor,omitempty"`
}

// NewScheduleResponse converts a model into a DTO.
func NewScheduleResponse(model models.Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:                 model.ID,
		StudentID:          model.StudentID,
		Date:               model.Date,
		StartTime:          model.StartTime,
		EndTime:            model.EndTime,
		Status:             model.Status,
		IsRegular:          model.IsRegular,
		DayOfWeek:          model.DayOfWeek,
		SessionNumber:      model.SessionNumber,
		Notes:              model.Notes,
		IsModified:         model.IsModified,
		ChangeType:         model.ChangeType,
		ChangeReason:       model.ChangeReason,
		OriginScheduleID:   model.OriginScheduleID,
		ScheduleChangeType: model.ScheduleChangeType,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	}
}

// NewScheduleResponseSlice converts a slice of models into DTOs.
func NewScheduleResponseSlice(schedules []models.Schedule) []ScheduleResponse {
	responses := make([]ScheduleResponse, 0, len(schedules))
	for _, schedule := range schedules {
		responses = append(responses, NewScheduleResponse(schedule))
	}
	return responses
}
