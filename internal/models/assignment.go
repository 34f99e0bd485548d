package models

import "time"

// AssignmentStatus enumerates homework submission states. The persisted set
// is pending/submitted/late-submitted; expired and overdue are display states
// computed on read.
type AssignmentStatus string

const (
	AssignmentStatusPending       AssignmentStatus = "pending"
	AssignmentStatusSubmitted     AssignmentStatus = "submitted"
	AssignmentStatusLateSubmitted AssignmentStatus = "late-submitted"
	AssignmentStatusExpired       AssignmentStatus = "expired"
	AssignmentStatusOverdue       AssignmentStatus = "overdue"
)

// Assignment represents a homework item assigned to a student, optionally
// tied to a class session.
type Assignment struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	StudentID   uint   `gorm:"not null;index" json:"student_id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	DueDate     string `gorm:"size:10;not null" json:"due_date"`

	// SubmissionDeadline is derived exactly once, at creation time, from the
	// linked schedule's date/time as they were then. It is a snapshot: a
	// later reschedule of the linked session does not move it.
	SubmissionDeadline time.Time        `gorm:"not null" json:"submission_deadline"`
	LinkedScheduleID   *uint            `gorm:"index" json:"linked_schedule_id"`
	Status             AssignmentStatus `gorm:"size:32;not null;default:pending" json:"status"`
	SubmittedDate      *time.Time       `json:"submitted_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsSubmitted reports whether the assignment reached a terminal submitted
// state; once true, the submission lock no longer applies.
func (a Assignment) IsSubmitted() bool {
	return a.Status == AssignmentStatusSubmitted || a.Status == AssignmentStatusLateSubmitted
}
