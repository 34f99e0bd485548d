package models

import (
	"sync"
	"time"
)

var (
	zoneOnce sync.Once
	zone     *time.Location
)

// ScheduleZone returns the fixed local timezone every wall-clock date/time
// string in the system is interpreted in. The center operates in a single
// zone; records carry no offsets.
func ScheduleZone() *time.Location {
	zoneOnce.Do(func() {
		loc, err := time.LoadLocation("Asia/Seoul")
		if err != nil {
			loc = time.FixedZone("KST", 9*60*60)
		}
		zone = loc
	})
	return zone
}

// DeriveSubmissionDeadline maps an assignment's due date and optional linked
// session to the absolute instant after which submissions are blocked.
//
// With a linked session that has both a date and a start time, the deadline
// is one hour before class starts. Otherwise it is the end of the due date
// (23:59:59). Malformed inputs are a caller precondition violation; the
// function is total and falls through to the due-date path.
func DeriveSubmissionDeadline(dueDate string, linked *Schedule) time.Time {
	if linked != nil {
		if start, ok := linked.StartInstant(ScheduleZone()); ok {
			return start.Add(-time.Hour)
		}
	}

	day, _ := time.ParseInLocation("2006-01-02", dueDate, ScheduleZone())
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, ScheduleZone())
}

// LockedAt reports whether new submissions are blocked at the given instant.
// The lock engages at the stored deadline and never applies once the
// assignment has reached a terminal submitted state. It gates the submit
// action only; it does not change assignment status.
func (a Assignment) LockedAt(now time.Time) bool {
	if a.IsSubmitted() {
		return false
	}
	return !now.Before(a.SubmissionDeadline)
}
