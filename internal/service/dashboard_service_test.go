package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/models"
)

func TestDashboardSummarisesSessionsAndAssignments(t *testing.T) {
	schedules := newMemoryScheduleRepo()
	assignments := newMemoryAssignmentRepo()

	now := time.Now().In(models.ScheduleZone())
	tomorrow := now.AddDate(0, 0, 1).Format("2006-01-02")

	seedSchedule(t, schedules, models.Schedule{
		StudentID: 1, Date: tomorrow, StartTime: "16:00", EndTime: "17:30",
		Status: models.ScheduleStatusScheduled,
	})
	seedSchedule(t, schedules, models.Schedule{
		StudentID: 1, Date: now.AddDate(0, 0, -7).Format("2006-01-02"), StartTime: "16:00", EndTime: "17:30",
		Status: models.ScheduleStatusCancelled,
	})

	seedAssignment(t, assignments, models.Assignment{
		StudentID: 1, Title: "Pending", DueDate: tomorrow,
		SubmissionDeadline: now.Add(24 * time.Hour), Status: models.AssignmentStatusPending,
	})
	seedAssignment(t, assignments, models.Assignment{
		StudentID: 1, Title: "Done", DueDate: tomorrow,
		SubmissionDeadline: now.Add(24 * time.Hour), Status: models.AssignmentStatusSubmitted,
	})
	seedAssignment(t, assignments, models.Assignment{
		StudentID: 1, Title: "Missed", DueDate: now.AddDate(0, 0, -3).Format("2006-01-02"),
		SubmissionDeadline: now.Add(-time.Hour), Status: models.AssignmentStatusPending,
	})

	svc := NewDashboardService(schedules, assignments, nil, time.Minute, testLogger())

	dashboard, err := svc.GetDashboard(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, dashboard.UpcomingSessions, 1, "cancelled and past sessions are excluded")
	require.Equal(t, 3, dashboard.Assignments.Total)
	require.Equal(t, 1, dashboard.Assignments.Pending)
	require.Equal(t, 1, dashboard.Assignments.Submitted)
	require.Equal(t, 1, dashboard.Assignments.Locked)
}

func TestDashboardServesFromCache(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer redisClient.Close()

	schedules := newMemoryScheduleRepo()
	assignments := newMemoryAssignmentRepo()
	svc := NewDashboardService(schedules, assignments, redisClient, time.Minute, testLogger())

	first, err := svc.GetDashboard(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 0, first.Assignments.Total)

	// A record created after the cache fill is invisible until invalidation.
	now := time.Now().In(models.ScheduleZone())
	seedAssignment(t, assignments, models.Assignment{
		StudentID: 1, Title: "New", DueDate: now.Format("2006-01-02"),
		SubmissionDeadline: now.Add(time.Hour), Status: models.AssignmentStatusPending,
	})

	cached, err := svc.GetDashboard(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 0, cached.Assignments.Total)

	server.Del(dashboardCacheKey(1))

	fresh, err := svc.GetDashboard(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, fresh.Assignments.Total)
}
