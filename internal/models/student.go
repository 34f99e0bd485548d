package models

import "time"

// Student represents a learner whose schedules and assignments this API
// manages. Schedule and Assignment records are scoped by StudentID.
type Student struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Grade     string    `gorm:"size:32" json:"grade"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
