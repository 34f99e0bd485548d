package models

import "time"

// ScheduleStatus enumerates lifecycle states for a class session.
type ScheduleStatus string

const (
	// ScheduleStatusScheduled is the initial state of every session.
	ScheduleStatusScheduled ScheduleStatus = "scheduled"
	// ScheduleStatusCompleted marks a session that took place as planned.
	ScheduleStatusCompleted ScheduleStatus = "completed"
	// ScheduleStatusCancelled marks a session cancelled with no replacement.
	ScheduleStatusCancelled ScheduleStatus = "cancelled"
	// ScheduleStatusPostponed marks a session replaced by a later one.
	ScheduleStatusPostponed ScheduleStatus = "postponed"
	// ScheduleStatusChanged marks a session whose time slot was moved.
	ScheduleStatusChanged ScheduleStatus = "changed"
)

// IsTerminal reports whether the reschedule flow is done with this session.
// Terminal origins are never rescheduled again; later changes act on the
// successor instead.
func (s ScheduleStatus) IsTerminal() bool {
	switch s {
	case ScheduleStatusCancelled, ScheduleStatusPostponed, ScheduleStatusChanged:
		return true
	default:
		return false
	}
}

// ChangeType enumerates the outcomes a session change can record. The values
// are the Korean labels the tutoring center uses on record cards and match
// what the admin UI submits.
type ChangeType string

const (
	ChangeTypePostpone   ChangeType = "연기"
	ChangeTypeMakeup     ChangeType = "보강"
	ChangeTypeCancel     ChangeType = "취소"
	ChangeTypeTimeChange ChangeType = "일정변경"
)

// Valid reports whether the change type is one of the known outcomes.
func (t ChangeType) Valid() bool {
	switch t {
	case ChangeTypePostpone, ChangeTypeMakeup, ChangeTypeCancel, ChangeTypeTimeChange:
		return true
	default:
		return false
	}
}

// CreatesSuccessor reports whether this outcome spawns a replacement session.
// Cancellation is the only outcome that does not.
func (t ChangeType) CreatesSuccessor() bool {
	return t != ChangeTypeCancel
}

// TerminalStatus returns the status the origin session ends in for this
// change type.
func (t ChangeType) TerminalStatus() ScheduleStatus {
	switch t {
	case ChangeTypeCancel:
		return ScheduleStatusCancelled
	case ChangeTypeTimeChange:
		return ScheduleStatusChanged
	default:
		return ScheduleStatusPostponed
	}
}

// Schedule represents one class session for a student, either a fixed weekly
// slot or a date-specific one-off (including sessions spawned by a
// reschedule). Date and times are local wall-clock strings with no offset.
type Schedule struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	StudentID     uint           `gorm:"not null;index" json:"student_id"`
	Date          string         `gorm:"size:10;not null" json:"date"`
	StartTime     string         `gorm:"size:5;not null" json:"start_time"`
	EndTime       string         `gorm:"size:5;not null" json:"end_time"`
	Status        ScheduleStatus `gorm:"size:32;not null;default:scheduled" json:"status"`
	IsRegular     bool           `gorm:"not null;default:false" json:"is_regular"`
	DayOfWeek     string         `gorm:"size:16" json:"day_of_week"`
	SessionNumber *int           `json:"session_number"`
	Notes         string         `gorm:"type:text" json:"notes"`

	// Change audit fields. ChangeType/ChangeReason live on the origin record
	// and describe what happened to it; OriginScheduleID/ScheduleChangeType
	// live on the successor and point back at the session it replaces.
	IsModified         bool       `gorm:"not null;default:false" json:"is_modified"`
	ChangeType         ChangeType `gorm:"size:32" json:"change_type"`
	ChangeReason       string     `gorm:"type:text" json:"change_reason"`
	OriginScheduleID   *uint      `gorm:"index" json:"origin_schedule_id"`
	ScheduleChangeType ChangeType `gorm:"size:32" json:"schedule_change_type"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StartInstant resolves the session's date and start time to an absolute
// instant in the given zone. The second return is false when either field is
// missing or malformed.
func (s Schedule) StartInstant(loc *time.Location) (time.Time, bool) {
	if s.Date == "" || s.StartTime == "" {
		return time.Time{}, false
	}
	instant, err := time.ParseInLocation("2006-01-02 15:04", s.Date+" "+s.StartTime, loc)
	if err != nil {
		return time.Time{}, false
	}
	return instant, true
}

// ScheduleSnapshot is the caller's belief about the conflict-sensitive fields
// of a schedule. Only these five fields participate in stale-write detection;
// edits to anything else (notes, audit fields) never count as a conflict.
type ScheduleSnapshot struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	DayOfWeek string `json:"day_of_week"`
	IsRegular bool   `json:"is_regular"`
}

// SnapshotOf extracts the conflict-sensitive fields from a persisted record.
func SnapshotOf(s Schedule) ScheduleSnapshot {
	return ScheduleSnapshot{
		Date:      s.Date,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		DayOfWeek: s.DayOfWeek,
		IsRegular: s.IsRegular,
	}
}

// Matches reports whether the persisted record still agrees with the snapshot.
func (snap ScheduleSnapshot) Matches(current Schedule) bool {
	return snap == SnapshotOf(current)
}

// ScheduleConflictError is returned when a snapshot-guarded update detects a
// concurrent edit. It carries the current persisted record so the caller can
// re-render with fresh data and let the user decide to retry or discard.
type ScheduleConflictError struct {
	ScheduleID uint     `json:"schedule_id"`
	Latest     Schedule `json:"latest"`
}

// Error implements the error interface.
func (e *ScheduleConflictError) Error() string {
	return "schedule was modified by another editor"
}
