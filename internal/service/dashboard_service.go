package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/dto"
	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/models"
	"github.com/Nari0122/Mathlearningdashboard-sub001/internal/repository"
)

const upcomingSessionLimit = 5

// DashboardService produces the per-student summary view. Results are cached
// in Redis for a short TTL; the revalidation sink drops the cache after every
// mutation, so staleness is bounded by the TTL even if an invalidation is lost.
type DashboardService interface {
	GetDashboard(ctx context.Context, studentID uint) (dto.StudentDashboardResponse, error)
}

type dashboardService struct {
	schedules   repository.ScheduleRepository
	assignments repository.AssignmentRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

// NewDashboardService builds the dashboard aggregator.
func NewDashboardService(schedules repository.ScheduleRepository, assignments repository.AssignmentRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		schedules:   schedules,
		assignments: assignments,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "dashboard_service").Logger(),
		now:         time.Now,
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context, studentID uint) (dto.StudentDashboardResponse, error) {
	cacheKey := dashboardCacheKey(studentID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.StudentDashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("student_id", studentID).Msg("dashboard cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	now := s.now().In(models.ScheduleZone())
	today := now.Format("2006-01-02")

	schedules, err := s.schedules.ListByStudent(ctx, studentID, repository.ScheduleFilter{
		From:   today,
		Status: models.ScheduleStatusScheduled,
	})
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	assignments, err := s.assignments.ListByStudent(ctx, studentID, repository.AssignmentFilter{})
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	response := s.buildResponse(schedules, assignments, now)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}

func (s *dashboardService) buildResponse(schedules []models.Schedule, assignments []models.Assignment, now time.Time) dto.StudentDashboardResponse {
	if len(schedules) > upcomingSessionLimit {
		schedules = schedules[:upcomingSessionLimit]
	}

	summary := dto.AssignmentSummary{Total: len(assignments)}
	for _, assignment := range assignments {
		switch {
		case assignment.IsSubmitted():
			summary.Submitted++
		case assignment.LockedAt(now):
			summary.Locked++
		case now.After(models.DeriveSubmissionDeadline(assignment.DueDate, nil)):
			summary.Overdue++
			summary.Pending++
		default:
			summary.Pending++
		}
	}

	return dto.StudentDashboardResponse{
		UpcomingSessions: dto.NewScheduleResponseSlice(schedules),
		Assignments:      summary,
	}
}

func dashboardCacheKey(studentID uint) string {
	return fmt.Sprintf("dashboard:student:%d", studentID)
}
