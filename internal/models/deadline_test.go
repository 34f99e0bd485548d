package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDeriveSubmissionDeadlineFromLinkedSession(t *testing.T) {
	linked := &Schedule{Date: "2026-02-10", StartTime: "18:00"}

	deadline := DeriveSubmissionDeadline("2026-02-14", linked)

	expected := time.Date(2026, 2, 10, 17, 0, 0, 0, ScheduleZone())
	require.True(t, deadline.Equal(expected), "expected one hour before class start, got %s", deadline)
}

func TestDeriveSubmissionDeadlineIgnoresDueDateWhenLinked(t *testing.T) {
	linked := &Schedule{Date: "2026-02-10", StartTime: "18:00"}

	first := DeriveSubmissionDeadline("2026-02-14", linked)
	second := DeriveSubmissionDeadline("2026-03-01", linked)

	require.True(t, first.Equal(second), "linked deadline must not depend on the due date")
}

func TestDeriveSubmissionDeadlineFallsBackToDueDate(t *testing.T) {
	deadline := DeriveSubmissionDeadline("2026-02-10", nil)

	expected := time.Date(2026, 2, 10, 23, 59, 59, 0, ScheduleZone())
	require.True(t, deadline.Equal(expected))
}

func TestDeriveSubmissionDeadlineIncompleteLinkFallsBack(t *testing.T) {
	linked := &Schedule{Date: "2026-02-10"} // no start time

	deadline := DeriveSubmissionDeadline("2026-02-12", linked)

	expected := time.Date(2026, 2, 12, 23, 59, 59, 0, ScheduleZone())
	require.True(t, deadline.Equal(expected))
}

func TestLockedAtBoundary(t *testing.T) {
	deadline := time.Date(2026, 2, 10, 17, 0, 0, 0, ScheduleZone())
	assignment := Assignment{Status: AssignmentStatusPending, SubmissionDeadline: deadline}

	require.False(t, assignment.LockedAt(deadline.Add(-time.Second)))
	require.True(t, assignment.LockedAt(deadline))
	require.True(t, assignment.LockedAt(deadline.Add(48*time.Hour)))
}

func TestLockedAtNeverLocksSubmitted(t *testing.T) {
	deadline := time.Date(2026, 2, 10, 17, 0, 0, 0, ScheduleZone())

	for _, status := range []AssignmentStatus{AssignmentStatusSubmitted, AssignmentStatusLateSubmitted} {
		assignment := Assignment{Status: status, SubmissionDeadline: deadline}
		require.False(t, assignment.LockedAt(deadline.Add(72*time.Hour)), "status %s must never lock", status)
	}
}
